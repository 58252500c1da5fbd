package accent

import (
	"strings"

	"github.com/japaniel/pitchaccent/pkg/markup"
)

// Selectors are the class substrings that identify each part of a result
// row. The zero value is not usable; start from DefaultSelectors.
type Selectors struct {
	Headline string // cell holding the headword text
	Pattern  string // one full accent rendering
	Mora     string // one mora inside a pattern
	Char     string // one character inside a mora
	Peak     string // marker on the mora where pitch drops
}

// DefaultSelectors match the OJAD search result markup.
var DefaultSelectors = Selectors{
	Headline: "midashi_word",
	Pattern:  "accented_word",
	Mora:     "mola_",
	Char:     "char",
	Peak:     "accent_top",
}

// Pattern is one decoded accent rendering.
type Pattern struct {
	Morae     []string
	AccentIdx int
	// Peaks counts the peak markers seen. Anything above one is malformed
	// input; AccentIdx then points at the first.
	Peaks int
}

// DecodePattern reads the mora children of fragment in document order.
// It never fails: a fragment without morae decodes to the zero Pattern.
func DecodePattern(fragment *markup.ElementNode, sel Selectors) Pattern {
	var p Pattern
	if fragment == nil {
		return p
	}
	for _, node := range fragment.Elements() {
		if !node.HasClass(sel.Mora) {
			continue
		}
		text := moraText(node, sel.Char)
		if text == "" {
			continue
		}
		p.Morae = append(p.Morae, text)
		if node.HasClass(sel.Peak) {
			p.Peaks++
			if p.AccentIdx == 0 {
				p.AccentIdx = len(p.Morae)
			}
		}
	}
	return p
}

// moraText joins the character sub-nodes of a mora; digraphs such as ひょ
// are rendered as two chars. Nodes without chars fall back to their text.
func moraText(node *markup.ElementNode, char string) string {
	chars := node.FindAll(markup.ClassContains(char))
	if len(chars) == 0 {
		return strings.TrimSpace(node.Text())
	}
	var b strings.Builder
	for _, c := range chars {
		b.WriteString(strings.TrimSpace(c.Text()))
	}
	return b.String()
}
