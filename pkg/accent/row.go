package accent

import (
	"log/slog"
	"strings"

	"github.com/japaniel/pitchaccent/pkg/markup"
)

// Extractor turns result rows into records.
type Extractor struct {
	Selectors Selectors
	// Logger receives skip and data-quality messages. nil means slog.Default().
	Logger *slog.Logger
}

// NewExtractor returns an Extractor using DefaultSelectors.
func NewExtractor() *Extractor {
	return &Extractor{Selectors: DefaultSelectors}
}

func (x *Extractor) logger() *slog.Logger {
	if x.Logger != nil {
		return x.Logger
	}
	return slog.Default()
}

// HeadlineCell finds the headline cell of row.
func HeadlineCell(row *markup.ElementNode, sel Selectors) (*markup.ElementNode, bool) {
	if row == nil {
		return nil, false
	}
	return row.Find(markup.ClassContains(sel.Headline))
}

// Extract returns one record per non-empty accent pattern in row, in
// document order, tagged with pos. Rows without a headline cell yield nil.
func (x *Extractor) Extract(row *markup.ElementNode, pos string) []WordRecord {
	cell, ok := HeadlineCell(row, x.Selectors)
	if !ok {
		x.logger().Warn("skipping row without headline", "row_id", rowID(row))
		return nil
	}
	surface := NormalizeHeadline(strings.TrimSpace(cell.Text()))

	var out []WordRecord
	for i, frag := range row.FindAll(markup.ClassContains(x.Selectors.Pattern)) {
		p := DecodePattern(frag, x.Selectors)
		if len(p.Morae) == 0 {
			x.logger().Debug("skipping empty accent pattern", "headline", surface, "pattern", i)
			continue
		}
		if p.Peaks > 1 {
			x.logger().Warn("multiple accent peaks, using the first",
				"headline", surface, "pattern", i, "peaks", p.Peaks, "accent", p.AccentIdx)
		}
		s := surface
		if s == "" {
			s = strings.Join(p.Morae, "")
		}
		rec, err := NewWordRecord(s, p.Morae, p.AccentIdx, pos)
		if err != nil {
			// DecodePattern never produces this; keep the batch going anyway.
			x.logger().Error("invalid decoded pattern", "headline", surface, "err", err)
			continue
		}
		out = append(out, rec)
	}
	return out
}

func rowID(row *markup.ElementNode) string {
	if row == nil {
		return ""
	}
	return row.ID()
}
