package enrich

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/youdaocard/internal/dictionary"
	"codeberg.org/snonux/youdaocard/internal/media"
	"codeberg.org/snonux/youdaocard/internal/normalize"
	"codeberg.org/snonux/youdaocard/internal/note"
)

// Lookuper fetches the dictionary entry of a word.
type Lookuper interface {
	Lookup(ctx context.Context, word string) (*dictionary.Entry, error)
}

// AssetResolver produces an audio or image reference for a word. A nil
// reference means there is nothing to embed.
type AssetResolver interface {
	Resolve(ctx context.Context, word string, preferLocal bool) (*media.Reference, error)
}

// Enricher fills notes. It holds no per-call state and may be shared by
// concurrent callers working on distinct notes.
type Enricher struct {
	cfg      Config
	lookup   Lookuper
	audio    AssetResolver
	image    AssetResolver
	notifier Notifier
	log      *slog.Logger
}

// New creates an Enricher. A nil notifier discards notifications.
func New(cfg Config, lookup Lookuper, audio, image AssetResolver, notifier Notifier, logger *slog.Logger) *Enricher {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Enricher{
		cfg:      cfg,
		lookup:   lookup,
		audio:    audio,
		image:    image,
		notifier: notifier,
		log:      logger.With("component", "enrich"),
	}
}

// Enrich fills rec in place and returns the outcome. Persisting rec is up
// to the caller.
func (e *Enricher) Enrich(ctx context.Context, rec note.Record) Status {
	status := e.enrich(ctx, rec)

	if status.OK() {
		e.log.InfoContext(ctx, "note enriched", "word", status.Word, "missing_fields", len(status.Missing))
	} else {
		e.log.WarnContext(ctx, "enrichment aborted", "word", status.Word, "error", status.Err)
	}

	e.notifier.Summary(status.clone())
	return status
}

func (e *Enricher) enrich(ctx context.Context, rec note.Record) Status {
	fields := e.cfg.Fields

	raw, ok := rec.Get(fields.Word)
	if !ok {
		return Status{Err: fmt.Errorf("%w: field %q not found on note", ErrMissingWordField, fields.Word)}
	}

	key, err := normalize.Word(raw)
	if err != nil {
		return Status{Err: fmt.Errorf("%w: %q: %w", ErrInvalidWord, raw, err)}
	}
	word := key.String()

	entry, err := e.lookup.Lookup(ctx, word)
	if err != nil {
		return Status{Word: word, Err: fmt.Errorf("%w: %w", ErrLookupFailed, err)}
	}

	w := &writer{word: word, rec: rec, fields: fields, notifier: e.notifier, result: make(Result)}
	w.set(note.RoleIPA, entry.IPADisplay())
	w.set(note.RoleTranslation, entry.TranslationText())
	w.set(note.RoleExample, entry.ExampleSource)
	w.set(note.RoleExampleTranslation, entry.ExampleTranslation)

	audioRef, imageRef := e.resolveAssets(ctx, word)

	if audioRef != nil {
		w.set(note.RoleAudio, audioRef.Markup())
	}

	if imageRef != nil {
		w.set(note.RoleImage, imageRef.Markup())
	} else {
		w.set(note.RoleImage, "")
	}

	return Status{Word: word, Result: w.result, Missing: w.missing}
}

// resolveAssets runs the audio resolver, then the image resolver, or both
// at once in parallel mode. Failures only yield nil references.
func (e *Enricher) resolveAssets(ctx context.Context, word string) (audioRef, imageRef *media.Reference) {
	resolveAudio := func() error {
		audioRef = e.resolve(ctx, e.audio, media.KindAudio, word, e.cfg.Policy.AudioLocal)
		return nil
	}
	resolveImage := func() error {
		imageRef = e.resolve(ctx, e.image, media.KindImage, word, e.cfg.Policy.ImageLocal)
		return nil
	}

	if !e.cfg.Parallel {
		_ = resolveAudio()
		_ = resolveImage()
		return audioRef, imageRef
	}

	var g errgroup.Group
	g.Go(resolveAudio)
	g.Go(resolveImage)
	_ = g.Wait()
	return audioRef, imageRef
}

func (e *Enricher) resolve(ctx context.Context, r AssetResolver, kind media.Kind, word string, preferLocal bool) *media.Reference {
	if r == nil {
		return nil
	}

	ref, err := r.Resolve(ctx, word, preferLocal)
	if err != nil {
		e.log.DebugContext(ctx, "asset not resolved", "kind", kind, "word", word, "error", err)
		return nil
	}
	return ref
}

// writer applies field writes and collects fields the note lacks.
type writer struct {
	word     string
	rec      note.Record
	fields   note.FieldConfig
	notifier Notifier
	result   Result
	missing  []string
}

func (w *writer) set(role note.Role, value string) {
	name := w.fields.Name(role)
	if err := w.rec.Set(name, value); err != nil {
		w.missing = append(w.missing, name)
		w.notifier.FieldNotFound(w.word, name)
		return
	}
	w.result[role] = value
}
