package image

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"codeberg.org/snonux/youdaocard/internal/media"
)

const defaultSearchURL = "https://picdict.youdao.com/search"

// Getter performs one HTTP GET and returns the body of a 2xx response.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Downloader fetches an asset and stores it under a filename.
type Downloader interface {
	Download(ctx context.Context, kind media.Kind, url, filename string) (*media.Reference, error)
}

// Resolver turns a word into an image reference.
type Resolver struct {
	searchURL  string
	getter     Getter
	downloader Downloader
	log        *slog.Logger
}

// NewResolver creates a Resolver for the public picture dictionary.
func NewResolver(getter Getter, downloader Downloader, logger *slog.Logger) *Resolver {
	return NewResolverWithURL(defaultSearchURL, getter, downloader, logger)
}

// NewResolverWithURL creates a Resolver with a custom search URL (for testing).
func NewResolverWithURL(searchURL string, getter Getter, downloader Downloader, logger *slog.Logger) *Resolver {
	return &Resolver{
		searchURL:  searchURL,
		getter:     getter,
		downloader: downloader,
		log:        logger.With("component", "image"),
	}
}

// SearchURL returns the picture search URL for word.
func (r *Resolver) SearchURL(word string) string {
	q := url.Values{}
	q.Set("q", word)
	q.Set("le", "en")
	return r.searchURL + "?" + q.Encode()
}

// Filename is the name a locally stored picture for word gets.
func Filename(word string) string {
	return word + ".jpg"
}

// Resolve looks up the first picture for word. With preferLocal the
// picture is downloaded and stored as <word>.jpg, otherwise the remote URL
// is referenced directly. A nil reference always comes with an error
// explaining why.
func (r *Resolver) Resolve(ctx context.Context, word string, preferLocal bool) (*media.Reference, error) {
	body, err := r.getter.Get(ctx, r.SearchURL(word))
	if err != nil {
		r.log.DebugContext(ctx, "picture search failed", "word", word, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	link, err := firstPictureURL(body)
	if err != nil {
		r.log.DebugContext(ctx, "no picture", "word", word, "error", err)
		return nil, err
	}

	if !preferLocal {
		return media.Remote(media.KindImage, link), nil
	}

	ref, err := r.downloader.Download(ctx, media.KindImage, link, Filename(word))
	if err != nil {
		r.log.DebugContext(ctx, "picture download failed", "word", word, "url", link, "error", err)
		return nil, err
	}
	return ref, nil
}
