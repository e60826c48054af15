package media

import (
	"context"
	"errors"
	"fmt"
)

// ErrDownloadFailed is returned when asset bytes could not be fetched or
// were empty.
var ErrDownloadFailed = errors.New("media: download failed")

// Getter performs one HTTP GET and returns the body of a 2xx response.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Downloader fetches remote assets and hands them to a Store.
type Downloader struct {
	getter Getter
	store  Store
}

// NewDownloader creates a Downloader.
func NewDownloader(getter Getter, store Store) *Downloader {
	return &Downloader{getter: getter, store: store}
}

// Download fetches url once and stores the body as filename. It returns a
// local reference on success.
func (d *Downloader) Download(ctx context.Context, kind Kind, url, filename string) (*Reference, error) {
	data, err := d.getter.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body from %s", ErrDownloadFailed, url)
	}

	if err := d.store.Store(filename, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	return Local(kind, filename), nil
}
