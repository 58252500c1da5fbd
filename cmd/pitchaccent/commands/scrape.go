package commands

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/japaniel/pitchaccent/pkg/accent"
	"github.com/japaniel/pitchaccent/pkg/config"
	"github.com/japaniel/pitchaccent/pkg/db"
	"github.com/japaniel/pitchaccent/pkg/fetch"
	"github.com/japaniel/pitchaccent/pkg/scrape"
	"github.com/japaniel/pitchaccent/pkg/store"
)

var (
	scrapeCategories []string
	scrapeOut        string
	scrapeDB         string
	scrapeNoDB       bool
)

func init() {
	scrapeCmd.Flags().StringSliceVar(&scrapeCategories, "category", nil, "Only scrape the named categories (repeatable).")
	scrapeCmd.Flags().StringVar(&scrapeOut, "out", "", "Output file; a .gz path is compressed (default from config).")
	scrapeCmd.Flags().StringVar(&scrapeDB, "db", "", "SQLite database to record runs and records in (default from config).")
	scrapeCmd.Flags().BoolVar(&scrapeNoDB, "no-db", false, "Only write the output file.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--category <name>]... [--out <path>] [--db <path>]",
	Short: "Scrapes every configured category and writes the records.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cats, err := selectCategories(cfg, scrapeCategories)
		if err != nil {
			return err
		}
		outPath := firstNonEmpty(scrapeOut, cfg.Output.Path)
		dbPath := firstNonEmpty(scrapeDB, cfg.Output.DB)

		var conn *sql.DB
		if !scrapeNoDB {
			conn, err = db.Open(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database %s: %w", dbPath, err)
			}
			defer conn.Close()
		}

		out, err := store.Create(outPath)
		if err != nil {
			return err
		}
		defer out.Close()

		client := fetch.NewClient(fetch.Options{
			UserAgent:   cfg.Scraper.UserAgent,
			Timeout:     cfg.Scraper.Timeout,
			MaxBodySize: cfg.Scraper.MaxBodyBytes,
		})
		collector := scrape.NewCollector(client)
		collector.Delay = cfg.Scraper.Delay
		collector.PageFormat = cfg.Scraper.PageFormat

		start := time.Now()
		failed := 0
		for _, cat := range cats {
			var runID int64
			if conn != nil {
				if runID, err = db.StartRun(conn, cat.Name, cat.URL); err != nil {
					return fmt.Errorf("failed to record run: %w", err)
				}
			}

			// One category per call keeps a failure from touching the others.
			res := collector.CollectAll(ctx, []scrape.Category{cat})[0]
			if res.Err == nil {
				res.Err = persist(out, conn, res.Records)
			}
			if conn != nil {
				if err := db.FinishRun(conn, runID, res.Pages, len(res.Records), res.Err); err != nil {
					slog.WarnContext(ctx, "failed to finish run", "category", cat.Name, "err", err)
				}
			}
			if res.Err != nil {
				failed++
				continue
			}
			slog.InfoContext(ctx, "category complete", "category", cat.Name, "pages", res.Pages, "records", len(res.Records))
		}

		if err := out.Close(); err != nil {
			return err
		}
		slog.InfoContext(ctx, "scrape finished", "records", out.Count(), "out", outPath, "seconds", time.Since(start).Seconds())
		if failed > 0 {
			return fmt.Errorf("%d of %d categories failed", failed, len(cats))
		}
		return nil
	},
}

// persist saves records to the database before the output file, so a failed
// save leaves the file without them.
func persist(out *store.Writer, conn *sql.DB, records []accent.WordRecord) error {
	if conn != nil {
		if _, err := db.SaveRecords(conn, records, db.DefaultBatchSize); err != nil {
			return fmt.Errorf("failed to save records: %w", err)
		}
	}
	return out.Write(records...)
}

func selectCategories(c *config.Config, names []string) ([]scrape.Category, error) {
	var picked []config.CategoryConfig
	if len(names) == 0 {
		picked = c.Categories
	}
	for _, name := range names {
		cat, ok := c.Category(name)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", name)
		}
		picked = append(picked, cat)
	}

	out := make([]scrape.Category, 0, len(picked))
	for _, p := range picked {
		out = append(out, scrape.Category{Name: p.Name, URL: p.URL, PartOfSpeech: p.PartOfSpeech})
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
