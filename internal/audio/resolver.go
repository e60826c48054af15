package audio

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"codeberg.org/snonux/youdaocard/internal/media"
)

const defaultVoiceURL = "https://dict.youdao.com/dictvoice"

// Voice selects the accent of the recording.
type Voice int

const (
	VoiceUK Voice = 1
	VoiceUS Voice = 2
)

// Downloader fetches an asset and stores it under a filename.
type Downloader interface {
	Download(ctx context.Context, kind media.Kind, url, filename string) (*media.Reference, error)
}

// Resolver turns a word into an audio reference.
type Resolver struct {
	voiceURL   string
	voice      Voice
	downloader Downloader
	log        *slog.Logger
}

// NewResolver creates a Resolver for the American recording on the public
// Youdao site.
func NewResolver(downloader Downloader, logger *slog.Logger) *Resolver {
	return NewResolverWithURL(defaultVoiceURL, downloader, logger)
}

// NewResolverWithURL creates a Resolver with a custom voice URL (for testing).
func NewResolverWithURL(voiceURL string, downloader Downloader, logger *slog.Logger) *Resolver {
	return &Resolver{
		voiceURL:   voiceURL,
		voice:      VoiceUS,
		downloader: downloader,
		log:        logger.With("component", "audio"),
	}
}

// VoiceURL returns the recording URL for word.
func (r *Resolver) VoiceURL(word string) string {
	q := url.Values{}
	q.Set("audio", word)
	q.Set("type", strconv.Itoa(int(r.voice)))
	return r.voiceURL + "?" + q.Encode()
}

// Filename is the name a locally stored recording for word gets.
func Filename(word string) string {
	return word + ".mp3"
}

// Resolve returns a reference to the recording of word. Without
// preferLocal no request is made. With preferLocal the recording is
// downloaded once and stored as <word>.mp3; any failure yields a nil
// reference and the error.
func (r *Resolver) Resolve(ctx context.Context, word string, preferLocal bool) (*media.Reference, error) {
	link := r.VoiceURL(word)
	if !preferLocal {
		return media.Remote(media.KindAudio, link), nil
	}

	ref, err := r.downloader.Download(ctx, media.KindAudio, link, Filename(word))
	if err != nil {
		r.log.DebugContext(ctx, "audio download failed", "word", word, "error", err)
		return nil, err
	}
	return ref, nil
}
