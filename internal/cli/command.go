package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/youdaocard/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "youdaocard [word]",
		Short: "Youdao Anki Flashcard Enricher",
		Long: `youdaocard fills Anki flashcard fields for English words from the
Youdao dictionary: British and American IPA, Chinese translations, a
bilingual example sentence, pronunciation audio and a picture.

Examples:
  youdaocard run                           # Enrich a single word
  youdaocard --batch words.txt --anki      # Enrich a word list and build an .apkg
  youdaocard --import-csv notes.csv        # Enrich an exported Anki CSV in place`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
		// Failures are reported per word; usage only helps for flag errors.
		SilenceUsage: true,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

// DefaultOutputDir is where cards are written unless configured otherwise.
func DefaultOutputDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "youdaocard", "cards")
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.youdaocard.yaml)")

	// Input
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Process words from file (one per line, optionally 'word = translation')")
	cmd.Flags().StringVar(&flags.ImportCSV, "import-csv", "", "Enrich every row of an Anki CSV export (first row names the fields)")

	// Output
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", DefaultOutputDir(), "Output directory")
	cmd.Flags().StringVar(&flags.MediaDir, "media-dir", "", "Media directory for downloaded audio and pictures (default <output>/collection.media)")
	cmd.Flags().BoolVar(&flags.GenerateAnki, "anki", false, "Generate Anki import file (APKG format by default, use --anki-csv for CSV)")
	cmd.Flags().BoolVar(&flags.AnkiCSV, "anki-csv", false, "Generate CSV format instead of APKG when using --anki")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name for APKG export")
	cmd.Flags().BoolVar(&flags.Dump, "dump", false, "Print enrichment results as YAML")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move the output directory to an archive and exit")

	// Enrichment
	cmd.Flags().BoolVar(&flags.AudioLocal, "audio-local", flags.AudioLocal, "Download pronunciation audio into the media directory (false references the remote URL)")
	cmd.Flags().BoolVar(&flags.ImageLocal, "image-local", flags.ImageLocal, "Download pictures into the media directory (false references the remote URL)")
	cmd.Flags().BoolVar(&flags.Parallel, "parallel", false, "Fetch audio and picture of a word concurrently")
	cmd.Flags().IntVar(&flags.Workers, "workers", flags.Workers, "Number of words enriched concurrently in batch mode")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Timeout of every network request")

	// Logging
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text or json")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	bindings := map[string]string{
		"output.directory":   "output",
		"media.directory":    "media-dir",
		"anki.deck_name":     "deck-name",
		"policy.audio_local": "audio-local",
		"policy.image_local": "image-local",
		"enrich.parallel":    "parallel",
		"batch.workers":      "workers",
		"network.timeout":    "timeout",
		"log.level":          "log-level",
		"log.format":         "log-format",
	}
	for key, name := range bindings {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			_ = viper.BindPFlag(key, flag)
		}
	}
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".youdaocard" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".youdaocard")
	}

	// YOUDAOCARD_POLICY_AUDIO_LOCAL overrides policy.audio_local and so on.
	viper.SetEnvPrefix("YOUDAOCARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
