package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// WordEntry is one line of a batch file.
type WordEntry struct {
	Word string
	// Translation pre-fills the translation field. Enrichment overwrites
	// it when the dictionary lookup succeeds.
	Translation string
}

// ReadBatchFile reads words from a file. Supported line formats:
//   - word only: "run"
//   - with translation: "run = 跑"
//
// Blank lines, lines starting with '#' and lines with an empty word part
// are skipped.
func ReadBatchFile(filename string) ([]WordEntry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()

	entries, err := ReadBatch(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return entries, nil
}

// ReadBatch parses batch lines from r.
func ReadBatch(r io.Reader) ([]WordEntry, error) {
	var entries []WordEntry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		word, translation, _ := strings.Cut(line, "=")
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}

		entries = append(entries, WordEntry{
			Word:        word,
			Translation: strings.TrimSpace(translation),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
