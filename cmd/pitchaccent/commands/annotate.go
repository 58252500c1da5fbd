package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/japaniel/pitchaccent/pkg/annotate"
	"github.com/japaniel/pitchaccent/pkg/db"
	"github.com/japaniel/pitchaccent/pkg/kana"
)

var annotateDB string

func init() {
	annotateCmd.Flags().StringVar(&annotateDB, "db", "", "SQLite database to look words up in (default from config).")
	rootCmd.AddCommand(annotateCmd)
}

var annotateCmd = &cobra.Command{
	Use:   "annotate <text>",
	Short: "Tokenizes Japanese text and marks the accent of every known word.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := firstNonEmpty(annotateDB, cfg.Output.DB)
		conn, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database %s: %w", dbPath, err)
		}
		defer conn.Close()

		analyzer, err := annotate.NewAnalyzer()
		if err != nil {
			return fmt.Errorf("failed to create analyzer: %w", err)
		}
		anns, err := analyzer.Annotate(strings.Join(args, " "), db.Lexicon{DB: conn})
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Surface", "Base", "Reading", "Accent"})
		for _, a := range anns {
			marks := make([]string, 0, len(a.Patterns))
			for _, p := range a.Patterns {
				marks = append(marks, p.Marked())
			}
			t.AppendRow(table.Row{a.Surface, a.BaseForm, kana.ToHiragana(a.Reading), strings.Join(marks, " / ")})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}
