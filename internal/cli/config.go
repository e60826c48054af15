package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"codeberg.org/snonux/youdaocard/internal/enrich"
	"codeberg.org/snonux/youdaocard/internal/fetch"
	"codeberg.org/snonux/youdaocard/internal/logger"
	"codeberg.org/snonux/youdaocard/internal/note"
)

// Settings is the resolved configuration of one run. Nothing below the
// cli package reads viper; everything is passed on from here.
type Settings struct {
	OutputDir string
	MediaDir  string
	DeckName  string
	Workers   int

	Enrich  enrich.Config
	Network fetch.Options
	Log     logger.Config
}

// SetDefaults registers the defaults of keys that have no flag.
func SetDefaults() {
	fields := note.DefaultFieldConfig()
	viper.SetDefault("fields.word", fields.Word)
	viper.SetDefault("fields.ipa", fields.IPA)
	viper.SetDefault("fields.translation", fields.Translation)
	viper.SetDefault("fields.example", fields.Example)
	viper.SetDefault("fields.example_translation", fields.ExampleTranslation)
	viper.SetDefault("fields.audio", fields.Audio)
	viper.SetDefault("fields.image", fields.Image)

	flags := NewFlags()
	viper.SetDefault("policy.audio_local", flags.AudioLocal)
	viper.SetDefault("policy.image_local", flags.ImageLocal)
	viper.SetDefault("enrich.parallel", flags.Parallel)
	viper.SetDefault("batch.workers", flags.Workers)
	viper.SetDefault("network.timeout", flags.Timeout)
	viper.SetDefault("network.breaker_failures", 0)
	viper.SetDefault("anki.deck_name", flags.DeckName)
	viper.SetDefault("log.level", flags.LogLevel)
	viper.SetDefault("log.format", flags.LogFormat)
}

// LoadConfig resolves flags, environment and config file into Settings.
// Flags set on the command line win over the environment, which wins over
// the config file.
func LoadConfig() (*Settings, error) {
	SetDefaults()

	fields := note.FieldConfig{
		Word:               viper.GetString("fields.word"),
		IPA:                viper.GetString("fields.ipa"),
		Translation:        viper.GetString("fields.translation"),
		Example:            viper.GetString("fields.example"),
		ExampleTranslation: viper.GetString("fields.example_translation"),
		Audio:              viper.GetString("fields.audio"),
		Image:              viper.GetString("fields.image"),
	}
	if err := fields.Validate(); err != nil {
		return nil, fmt.Errorf("invalid field configuration: %w", err)
	}

	outputDir := viper.GetString("output.directory")
	if outputDir == "" {
		outputDir = DefaultOutputDir()
	}
	mediaDir := viper.GetString("media.directory")
	if mediaDir == "" {
		mediaDir = filepath.Join(outputDir, "collection.media")
	}

	workers := viper.GetInt("batch.workers")
	if workers < 1 {
		return nil, fmt.Errorf("batch.workers must be at least 1, got %d", workers)
	}

	timeout := viper.GetDuration("network.timeout")
	if timeout <= 0 {
		timeout = fetch.DefaultTimeout
	}

	breakerFailures := viper.GetInt("network.breaker_failures")
	if breakerFailures < 0 {
		return nil, fmt.Errorf("network.breaker_failures must not be negative")
	}

	format := strings.ToLower(viper.GetString("log.format"))
	if format != logger.FormatText && format != logger.FormatJSON {
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return &Settings{
		OutputDir: outputDir,
		MediaDir:  mediaDir,
		DeckName:  viper.GetString("anki.deck_name"),
		Workers:   workers,
		Enrich: enrich.Config{
			Fields: fields,
			Policy: enrich.Policy{
				AudioLocal: viper.GetBool("policy.audio_local"),
				ImageLocal: viper.GetBool("policy.image_local"),
			},
			Parallel: viper.GetBool("enrich.parallel"),
		},
		Network: fetch.Options{
			Timeout:         timeout,
			BreakerFailures: uint32(breakerFailures),
		},
		Log: logger.Config{
			Writer: os.Stderr,
			Format: format,
			Level:  logger.ParseLevel(viper.GetString("log.level")),
		},
	}, nil
}
