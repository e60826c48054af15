package anki

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"codeberg.org/snonux/youdaocard/internal/note"
)

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string           // Output CSV file path
	MediaFolder    string           // Folder holding the files referenced by the notes
	IncludeHeaders bool             // Include CSV headers
	Fields         note.FieldConfig // Field names, also the CSV columns
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		MediaFolder:    ".",
		IncludeHeaders: true,
		Fields:         note.DefaultFieldConfig(),
	}
}

// Generator collects enriched notes and writes Anki import files
type Generator struct {
	options *GeneratorOptions
	notes   []*note.Fields
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		notes:   make([]*note.Fields, 0),
	}
}

// AddNote adds a note to the collection
func (g *Generator) AddNote(n *note.Fields) {
	g.notes = append(g.notes, n)
}

// Columns returns the configured field names in card order.
func (g *Generator) Columns() []string {
	columns := make([]string, 0, len(note.Roles()))
	for _, role := range note.Roles() {
		columns = append(columns, g.options.Fields.Name(role))
	}
	return columns
}

// GenerateCSV writes the notes to OutputPath, one column per configured
// field.
func (g *Generator) GenerateCSV() error {
	var header []string
	if g.options.IncludeHeaders {
		header = g.Columns()
	}
	return WriteCSVFile(g.options.OutputPath, header, g.Columns(), g.notes)
}

// WriteCSVFile writes the notes to a temporary file next to path and renames
// it over path, so a failed write leaves any existing file untouched.
func WriteCSVFile(path string, header, columns []string, notes []*note.Fields) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set CSV file mode: %w", err)
	}
	if err := WriteCSV(tmp, header, columns, notes); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close CSV file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace CSV file: %w", err)
	}
	return nil
}

// WriteCSV writes one row per note with the values of columns. Fields a
// note lacks are written empty. A nil header is left out.
func WriteCSV(w io.Writer, header, columns []string, notes []*note.Fields) error {
	writer := csv.NewWriter(w)

	if header != nil {
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, n := range notes {
		record := make([]string, len(columns))
		for i, column := range columns {
			record[i], _ = n.Get(column)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write note: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// GenerateAPKG creates a proper .apkg file for Anki import
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkgGen := NewAPKGGenerator(deckName, g.options.Fields, g.options.MediaFolder)
	for _, n := range g.notes {
		apkgGen.AddNote(n)
	}
	return apkgGen.GenerateAPKG(outputPath)
}

// Stats returns statistics about the note collection
func (g *Generator) Stats() (totalNotes, withAudio, withImages int) {
	totalNotes = len(g.notes)

	for _, n := range g.notes {
		if v, _ := n.Get(g.options.Fields.Audio); v != "" {
			withAudio++
		}
		if v, _ := n.Get(g.options.Fields.Image); v != "" {
			withImages++
		}
	}

	return
}
