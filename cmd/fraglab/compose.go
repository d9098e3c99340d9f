package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/fraglab/internal/analysis"
	"github.com/jackzampolin/fraglab/internal/composer"
	"github.com/jackzampolin/fraglab/internal/runs"
	"github.com/jackzampolin/fraglab/internal/tui"
)

// composeLogFile receives logs while the terminal belongs to the composer.
const composeLogFile = "compose.log"

var composeCmd = &cobra.Command{
	Use:   "compose <file>",
	Short: "Compose a fragmented JPEG interactively",
	Long: `Open the terminal composer on a JPEG.

The file is split into chunks of composer.chunk_size bytes. Drag chunks with
the mouse to reorder them, drag fillers from the palette into the strip, and
press s to submit the structure to the Analysis Service. Results are shown
per fragment and saved under the home directory.

Logs are written to ~/.fraglab/compose.log.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		h, err := getHome()
		if err != nil {
			return err
		}
		cfgMgr, err := loadConfig(h)
		if err != nil {
			return err
		}
		cfg := cfgMgr.Get()

		logFile, err := os.OpenFile(filepath.Join(h.Path(), composeLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logFile.Close()
		logger, err := newLogger(logFile)
		if err != nil {
			return err
		}

		client := analysis.NewClient(cfg.AnalysisURL(),
			analysis.WithTimeout(cfg.AnalysisTimeout()),
			analysis.WithLogger(logger),
		)
		session := composer.New(composer.Config{
			ChunkSize:      cfg.Composer.ChunkSize,
			FillerSize:     cfg.Composer.FillerSize,
			DefaultVariant: cfg.Variant(),
		}, client, composer.WithStore(runs.NewStore(h.RunsPath())), composer.WithLogger(logger))

		if err := session.Load(filepath.Base(args[0]), data); err != nil {
			return err
		}
		return tui.Run(ctx, session)
	},
}

func init() {
	rootCmd.AddCommand(composeCmd)
}
