package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/japaniel/pitchaccent/pkg/accent"
	"github.com/japaniel/pitchaccent/pkg/db"
	"github.com/japaniel/pitchaccent/pkg/store"
)

var (
	importDB    string
	importBatch int
)

func init() {
	importCmd.Flags().StringVar(&importDB, "db", "", "SQLite database to import into (default from config).")
	importCmd.Flags().IntVar(&importBatch, "batch", db.DefaultBatchSize, "Records committed per transaction.")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Loads a record file (.jsonl or .jsonl.gz) into the database.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := firstNonEmpty(importDB, cfg.Output.DB)
		conn, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database %s: %w", dbPath, err)
		}
		defer conn.Close()

		r, err := store.Open(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		batchSize := importBatch
		if batchSize <= 0 {
			batchSize = db.DefaultBatchSize
		}

		read, inserted := 0, 0
		batch := make([]accent.WordRecord, 0, batchSize)
		flush := func() error {
			n, err := db.SaveRecords(conn, batch, batchSize)
			inserted += n
			batch = batch[:0]
			return err
		}
		for {
			rec, err := r.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			read++
			batch = append(batch, rec)
			if len(batch) == batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		if err := flush(); err != nil {
			return err
		}

		slog.InfoContext(cmd.Context(), "import complete", "file", args[0], "read", read, "inserted", inserted)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d records.\n", inserted, read)
		return nil
	},
}
