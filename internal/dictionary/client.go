package dictionary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
)

const defaultBaseURL = "https://dict.youdao.com/result"

// ErrFetchFailed covers every way a lookup can fail: transport error,
// timeout, non-2xx status or an unparseable page.
var ErrFetchFailed = errors.New("dictionary: fetch failed")

// Getter performs one HTTP GET and returns the body of a 2xx response.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Client looks words up on the Youdao result page.
type Client struct {
	baseURL string
	getter  Getter
	log     *slog.Logger
}

// NewClient creates a Client for the public Youdao site.
func NewClient(getter Getter, logger *slog.Logger) *Client {
	return NewClientWithURL(defaultBaseURL, getter, logger)
}

// NewClientWithURL creates a Client with a custom page URL (for testing).
func NewClientWithURL(baseURL string, getter Getter, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		getter:  getter,
		log:     logger.With("component", "dictionary"),
	}
}

// PageURL returns the result page URL for word.
func (c *Client) PageURL(word string) string {
	q := url.Values{}
	q.Set("word", word)
	q.Set("lang", "en")
	return c.baseURL + "?" + q.Encode()
}

// Lookup fetches and parses the page for word. On failure it returns a nil
// entry and an error wrapping ErrFetchFailed, never a partial entry.
func (c *Client) Lookup(ctx context.Context, word string) (entry *Entry, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.ErrorContext(ctx, "extraction panicked", "word", word, "panic", r)
			entry, err = nil, fmt.Errorf("%w: %v", ErrFetchFailed, r)
		}
	}()

	body, err := c.getter.Get(ctx, c.PageURL(word))
	if err != nil {
		c.log.WarnContext(ctx, "dictionary request failed", "word", word, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	entry, err = Parse(bytes.NewReader(body))
	if err != nil {
		c.log.WarnContext(ctx, "dictionary page unparseable", "word", word, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	c.log.DebugContext(ctx, "dictionary entry",
		"word", word,
		"uk_ipa", entry.UKIPA,
		"us_ipa", entry.USIPA,
		"translations", len(entry.Translations),
		"has_example", entry.ExampleSource != "",
	)
	return entry, nil
}
