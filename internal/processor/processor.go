package processor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"codeberg.org/snonux/youdaocard/internal"
	"codeberg.org/snonux/youdaocard/internal/anki"
	"codeberg.org/snonux/youdaocard/internal/audio"
	"codeberg.org/snonux/youdaocard/internal/batch"
	"codeberg.org/snonux/youdaocard/internal/cli"
	"codeberg.org/snonux/youdaocard/internal/dictionary"
	"codeberg.org/snonux/youdaocard/internal/enrich"
	"codeberg.org/snonux/youdaocard/internal/fetch"
	"codeberg.org/snonux/youdaocard/internal/image"
	"codeberg.org/snonux/youdaocard/internal/media"
	"codeberg.org/snonux/youdaocard/internal/note"
)

// Endpoints overrides the Youdao URLs. Empty values keep the public site.
type Endpoints struct {
	Dictionary string
	Picture    string
	Voice      string
}

// Option configures a Processor.
type Option func(*Processor)

// WithOutput sends progress output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Processor) { p.out = w }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) { p.log = logger }
}

// WithEndpoints points the processor at other dictionary servers.
func WithEndpoints(e Endpoints) Option {
	return func(p *Processor) { p.endpoints = e }
}

// Result is one enriched note and its outcome.
type Result struct {
	Note   *note.Fields
	Status enrich.Status
}

// Processor handles the main word processing logic
type Processor struct {
	flags     *cli.Flags
	settings  *cli.Settings
	endpoints Endpoints
	out       io.Writer
	log       *slog.Logger

	store    *media.DirStore
	enricher *enrich.Enricher

	mu      sync.Mutex
	results []Result
}

// NewProcessor wires the enrichment pipeline for one run.
func NewProcessor(flags *cli.Flags, settings *cli.Settings, opts ...Option) (*Processor, error) {
	p := &Processor{
		flags:    flags,
		settings: settings,
		out:      os.Stdout,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	store, err := media.NewDirStore(settings.MediaDir)
	if err != nil {
		return nil, err
	}
	p.store = store

	network := settings.Network
	network.Logger = p.log
	client := fetch.New(network)
	downloader := media.NewDownloader(client, store)

	var lookup *dictionary.Client
	if p.endpoints.Dictionary != "" {
		lookup = dictionary.NewClientWithURL(p.endpoints.Dictionary, client, p.log)
	} else {
		lookup = dictionary.NewClient(client, p.log)
	}

	var audioResolver *audio.Resolver
	if p.endpoints.Voice != "" {
		audioResolver = audio.NewResolverWithURL(p.endpoints.Voice, downloader, p.log)
	} else {
		audioResolver = audio.NewResolver(downloader, p.log)
	}

	var imageResolver *image.Resolver
	if p.endpoints.Picture != "" {
		imageResolver = image.NewResolverWithURL(p.endpoints.Picture, client, downloader, p.log)
	} else {
		imageResolver = image.NewResolver(client, downloader, p.log)
	}

	notifier := &consoleNotifier{out: p.out, log: p.log}
	p.enricher = enrich.New(settings.Enrich, lookup, audioResolver, imageResolver, notifier, p.log)

	return p, nil
}

// Results returns the enriched notes in input order.
func (p *Processor) Results() []Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Result(nil), p.results...)
}

func (p *Processor) fields() note.FieldConfig {
	return p.settings.Enrich.Fields
}

func (p *Processor) newNote(word, translation string) *note.Fields {
	n := note.NewFieldsFromConfig(p.fields())
	_ = n.Set(p.fields().Word, word)
	if translation != "" {
		_ = n.Set(p.fields().Translation, translation)
	}
	return n
}

// ProcessSingleWord enriches one word and prints its fields.
func (p *Processor) ProcessSingleWord(ctx context.Context, word string) error {
	fmt.Fprintf(p.out, "\nProcessing: %s\n", word)

	n := p.newNote(word, "")
	results := p.enrichAll(ctx, []*note.Fields{n})

	status := results[0].Status
	if !status.OK() {
		return status.Err
	}

	p.printNote(n)
	return nil
}

// ProcessBatch enriches every word of the batch file.
func (p *Processor) ProcessBatch(ctx context.Context) error {
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}

	notes := make([]*note.Fields, len(entries))
	for i, entry := range entries {
		notes[i] = p.newNote(entry.Word, entry.Translation)
	}

	fmt.Fprintf(p.out, "\nProcessing %d words with %d workers\n", len(notes), p.settings.Workers)
	results := p.enrichAll(ctx, notes)
	p.printSummary(results)
	return nil
}

// ProcessCSV enriches every row of an Anki CSV export and writes the file
// back in place, keeping its columns.
func (p *Processor) ProcessCSV(ctx context.Context) error {
	header, notes, err := anki.ReadCSVFile(p.flags.ImportCSV)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "\nProcessing %d notes from %s\n", len(notes), p.flags.ImportCSV)
	results := p.enrichAll(ctx, notes)

	if err := anki.WriteCSVFile(p.flags.ImportCSV, header, header, notes); err != nil {
		return fmt.Errorf("failed to rewrite CSV file: %w", err)
	}

	p.printSummary(results)
	return nil
}

// enrichAll enriches notes with at most Workers at a time. Results keep
// the order of notes.
func (p *Processor) enrichAll(ctx context.Context, notes []*note.Fields) []Result {
	results := make([]Result, len(notes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.settings.Workers, 1))

	for i, n := range notes {
		i, n := i, n
		g.Go(func() error {
			results[i] = Result{Note: n, Status: p.enricher.Enrich(ctx, n)}
			return nil
		})
	}
	_ = g.Wait()

	p.mu.Lock()
	p.results = append(p.results, results...)
	p.mu.Unlock()

	return results
}

func (p *Processor) printNote(n *note.Fields) {
	for _, role := range note.Roles() {
		name := p.fields().Name(role)
		value, _ := n.Get(name)
		fmt.Fprintf(p.out, "  %-13s %s\n", name+":", strings.ReplaceAll(value, "\n", "; "))
	}
}

func (p *Processor) printSummary(results []Result) {
	failed, missing := 0, 0
	for _, r := range results {
		if !r.Status.OK() {
			failed++
		}
		if len(r.Status.Missing) > 0 {
			missing++
		}
	}

	fmt.Fprintf(p.out, "\n=== Enrichment Summary ===\n")
	fmt.Fprintf(p.out, "Total notes: %d\n", len(results))
	fmt.Fprintf(p.out, "Enriched: %d\n", len(results)-failed)
	if failed > 0 {
		fmt.Fprintf(p.out, "Failed: %d\n", failed)
	}
	if missing > 0 {
		fmt.Fprintf(p.out, "With missing fields: %d\n", missing)
	}
	fmt.Fprintf(p.out, "==========================\n")
}

// GenerateAnkiFile writes the successfully enriched notes as an APKG, or as
// CSV with --anki-csv, and returns the output path.
func (p *Processor) GenerateAnkiFile() (string, error) {
	outputDir := p.settings.OutputDir
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	opts := &anki.GeneratorOptions{
		OutputPath:     filepath.Join(outputDir, "anki_import.csv"),
		MediaFolder:    p.store.Dir(),
		IncludeHeaders: true,
		Fields:         p.fields(),
	}
	gen := anki.NewGenerator(opts)
	for _, r := range p.Results() {
		if r.Status.OK() {
			gen.AddNote(r.Note)
		}
	}

	var outputPath string
	if p.flags.AnkiCSV {
		outputPath = opts.OutputPath
		if err := gen.GenerateCSV(); err != nil {
			return "", fmt.Errorf("failed to generate CSV: %w", err)
		}
	} else {
		outputPath = filepath.Join(outputDir, fmt.Sprintf("%s.apkg", internal.SanitizeFilename(p.settings.DeckName)))
		if err := gen.GenerateAPKG(outputPath, p.settings.DeckName); err != nil {
			return "", fmt.Errorf("failed to generate APKG: %w", err)
		}
	}

	total, withAudio, withImages := gen.Stats()
	fmt.Fprintf(p.out, "  Generated %d notes (%d with audio, %d with images)\n", total, withAudio, withImages)

	return outputPath, nil
}

// dumpEntry is the YAML form of a Result.
type dumpEntry struct {
	Word    string            `yaml:"word"`
	OK      bool              `yaml:"ok"`
	Error   string            `yaml:"error,omitempty"`
	Fields  map[string]string `yaml:"fields,omitempty"`
	Missing []string          `yaml:"missing,omitempty"`
}

// Dump writes all results as YAML.
func (p *Processor) Dump(w io.Writer) error {
	results := p.Results()
	entries := make([]dumpEntry, 0, len(results))

	for _, r := range results {
		entry := dumpEntry{Word: r.Status.Word, OK: r.Status.OK(), Missing: r.Status.Missing}
		if entry.Word == "" {
			entry.Word, _ = r.Note.Get(p.fields().Word)
		}
		if r.Status.Err != nil {
			entry.Error = r.Status.Err.Error()
		}
		if len(r.Status.Result) > 0 {
			entry.Fields = make(map[string]string, len(r.Status.Result))
			for role, value := range r.Status.Result {
				entry.Fields[string(role)] = value
			}
		}
		entries = append(entries, entry)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return enc.Close()
}
