package image

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNoPicture is returned when the picture service has nothing for
	// the word. It is a normal empty outcome, not a failure.
	ErrNoPicture = errors.New("image: no picture")

	// ErrSearchFailed covers transport errors, non-2xx statuses and
	// undecodable responses of the picture search.
	ErrSearchFailed = errors.New("image: search failed")
)

// searchResponse is the picture dictionary JSON envelope.
type searchResponse struct {
	Code *int   `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Pic []picture `json:"pic"`
	} `json:"data"`
}

type picture struct {
	Image string `json:"image"`
	URL   string `json:"url"`
}

// link prefers the image field and falls back to url.
func (p picture) link() string {
	if p.Image != "" {
		return p.Image
	}
	return p.URL
}

// firstPictureURL decodes a search response and returns the URL of its
// first picture.
func firstPictureURL(body []byte) (string, error) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %w", ErrSearchFailed, err)
	}

	if resp.Code == nil {
		return "", fmt.Errorf("%w: response has no code", ErrNoPicture)
	}
	if *resp.Code != 0 {
		return "", fmt.Errorf("%w: code %d %s", ErrNoPicture, *resp.Code, resp.Msg)
	}
	if len(resp.Data.Pic) == 0 {
		return "", fmt.Errorf("%w: empty picture list", ErrNoPicture)
	}

	link := resp.Data.Pic[0].link()
	if link == "" {
		return "", fmt.Errorf("%w: first picture has no url", ErrNoPicture)
	}
	return link, nil
}
