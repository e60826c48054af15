package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/youdaocard/internal/archive"
	"codeberg.org/snonux/youdaocard/internal/cli"
	"codeberg.org/snonux/youdaocard/internal/logger"
	"codeberg.org/snonux/youdaocard/internal/processor"
)

func main() {
	flags := cli.NewFlags()

	rootCmd := cli.CreateRootCommand(flags)

	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	settings, err := cli.LoadConfig()
	if err != nil {
		return err
	}

	if flags.Archive {
		archivePath, err := archive.ArchiveDir(settings.OutputDir)
		if err != nil {
			return fmt.Errorf("failed to archive cards: %w", err)
		}
		fmt.Printf("Output directory archived to: %s\n", archivePath)
		return nil
	}

	if flags.BatchFile == "" && flags.ImportCSV == "" && len(args) == 0 {
		return cmd.Help()
	}

	log := logger.New(settings.Log)
	proc, err := processor.NewProcessor(flags, settings, processor.WithLogger(log))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	switch {
	case flags.ImportCSV != "":
		err = proc.ProcessCSV(ctx)
	case flags.BatchFile != "":
		err = proc.ProcessBatch(ctx)
	default:
		err = proc.ProcessSingleWord(ctx, args[0])
	}
	if err != nil {
		return err
	}

	if flags.Dump {
		if err := proc.Dump(os.Stdout); err != nil {
			return err
		}
	}

	if flags.GenerateAnki {
		fmt.Printf("\nGenerating Anki import file...\n")
		outputPath, err := proc.GenerateAnkiFile()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to generate Anki file: %v\n", err)
		} else {
			fmt.Printf("Anki package created: %s\n", outputPath)
		}
	}

	fmt.Printf("\nDone! Media saved to: %s\n", settings.MediaDir)
	return nil
}
