package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/snooze/internal/diary"
	"github.com/garrettladley/snooze/internal/service/record"
)

const (
	formatCSV  = "csv"
	formatJSON = "json"
)

func importCmd() *cobra.Command {
	var (
		format            string
		includeIncomplete bool
		dryRun            bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a sleep diary export (CSV or JSON)",
		Long:  "Imports diary entries from a CSV or JSON export. Existing entries for the same date are replaced.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer func() {
				_ = f.Close()
			}()

			opts := diary.Options{Now: time.Now(), IncludeIncomplete: includeIncomplete}

			var result diary.Result
			switch format {
			case formatCSV:
				result, err = diary.ReadCSV(f, opts)
			case formatJSON:
				result, err = diary.ReadJSON(f, opts)
			default:
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatCSV, formatJSON)
			}
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			for _, skip := range result.Skipped {
				fmt.Fprintf(os.Stderr, "skipped entry %d: %s\n", skip.Line, skip.Reason)
			}

			if dryRun {
				fmt.Printf("Would import %d entries (%d skipped)\n", len(result.Records), len(result.Skipped))
				return nil
			}

			app, err := openLocal(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			for batch := range slices.Chunk(result.Records, record.MaxBatchSize) {
				if err := record.New(nil).SaveSleep(ctx, "", app.repo.Sleep, batch); err != nil {
					return describe(err)
				}
			}

			fmt.Printf("Imported %d entries (%d skipped)\n", len(result.Records), len(result.Skipped))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "input format: csv or json (default: from the file extension)")
	cmd.Flags().BoolVar(&includeIncomplete, "include-incomplete", false, "keep entries marked incomplete")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse the file without saving")
	return cmd
}
