package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/japaniel/pitchaccent/pkg/accent"
	"github.com/japaniel/pitchaccent/pkg/db"
	"github.com/japaniel/pitchaccent/pkg/kana"
)

var lookupDB string

func init() {
	lookupCmd.Flags().StringVar(&lookupDB, "db", "", "SQLite database to search (default from config).")
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <word>...",
	Short: "Shows the stored accent patterns of words given as surface or reading.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := firstNonEmpty(lookupDB, cfg.Output.DB)
		conn, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database %s: %w", dbPath, err)
		}
		defer conn.Close()

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Word", "Surface", "Pattern", "Accent", "POS"})
		for _, word := range args {
			records, err := lookupWord(conn, word)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				t.AppendRow(table.Row{word, "-", "-", "-", "-"})
				continue
			}
			for _, r := range records {
				t.AppendRow(table.Row{word, r.Surface, r.Marked(), r.AccentIdx, r.PartOfSpeech})
			}
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}

// lookupWord matches word against surfaces and readings. Katakana input is
// tried as hiragana first, since readings are stored in hiragana.
func lookupWord(conn db.DBExecutor, word string) ([]accent.WordRecord, error) {
	if kana.IsKana(word) {
		if h := kana.ToHiragana(word); h != word {
			records, err := db.Lookup(conn, h)
			if err != nil || len(records) > 0 {
				return records, err
			}
		}
	}
	return db.Lookup(conn, word)
}
