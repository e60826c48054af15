package cli

import (
	"time"

	"codeberg.org/snonux/youdaocard/internal/fetch"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile   string
	OutputDir string
	MediaDir  string
	BatchFile string
	ImportCSV string
	Archive   bool
	Dump      bool

	// Anki export
	GenerateAnki bool
	AnkiCSV      bool
	DeckName     string

	// Enrichment
	AudioLocal bool
	ImageLocal bool
	Parallel   bool
	Workers    int
	Timeout    time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		DeckName:   "Youdao Vocabulary",
		AudioLocal: true,
		ImageLocal: true,
		Workers:    4,
		Timeout:    fetch.DefaultTimeout,
		LogLevel:   "warn",
		LogFormat:  "text",
	}
}
