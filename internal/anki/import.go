package anki

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"codeberg.org/snonux/youdaocard/internal/note"
)

var (
	// ErrNoHeader is returned for CSV input without a header row.
	ErrNoHeader = errors.New("csv has no header row")

	// ErrRowTooWide is returned for rows with non-empty cells past the
	// header, which a rewrite would otherwise lose.
	ErrRowTooWide = errors.New("csv row has more cells than the header")
)

// ReadCSVFile reads notes from a CSV file whose first row names the fields.
func ReadCSVFile(path string) (header []string, notes []*note.Fields, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file)
}

// ReadCSV reads notes from CSV input whose first row names the fields.
// Short rows leave the remaining fields empty. Empty cells past the header
// are ignored; a non-empty one fails with ErrRowTooWide.
func ReadCSV(r io.Reader) (header []string, notes []*note.Fields, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err = reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrNoHeader
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read CSV row %d: %w", len(notes)+2, err)
		}

		n := note.NewFields(header...)
		for i, value := range record {
			if i < len(header) {
				_ = n.Set(header[i], value)
				continue
			}
			if value != "" {
				return nil, nil, fmt.Errorf("%w: row %d has %d cells, header has %d",
					ErrRowTooWide, len(notes)+2, len(record), len(header))
			}
		}
		notes = append(notes, n)
	}

	return header, notes, nil
}
