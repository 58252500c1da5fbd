// Package annotate attaches stored pitch-accent patterns to the words of a
// Japanese sentence.
package annotate

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/japaniel/pitchaccent/pkg/accent"
	"github.com/japaniel/pitchaccent/pkg/kana"
)

// Token represents a single analyzed unit of text.
type Token struct {
	Surface       string   // The text as it appears (e.g. "行っ")
	BaseForm      string   // The dictionary form (e.g. "行く")
	Reading       string   // The pronunciation (katakana, e.g. "イッ")
	PartsOfSpeech []string // e.g. ["動詞", "自立", "*", "*"] (Kagome POS labels)
	// PrimaryPOS stores the first (primary) part of speech if available.
	PrimaryPOS string
}

// Dictionary finds accent patterns for a word given as surface or reading.
// db.Lexicon implements it.
type Dictionary interface {
	Lookup(word string) ([]accent.WordRecord, error)
}

// Annotation is a token with the patterns found for it.
type Annotation struct {
	Token
	Patterns []accent.WordRecord
}

// Analyzer handles text segmentation.
type Analyzer struct {
	t *tokenizer.Tokenizer
}

// NewAnalyzer creates a new tokenizer instance.
func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Analyzer{t: t}, nil
}

// Analyze breaks text into tokens with readings and base forms.
func (a *Analyzer) Analyze(text string) []Token {
	var result []Token
	for _, token := range a.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		// IPA features: 0-3 POS levels, 4-5 conjugation, 6 base form,
		// 7 reading, 8 pronunciation. Unknown words carry fewer.
		features := token.Features()

		base := token.Surface
		if len(features) > 6 && features[6] != "*" {
			base = features[6]
		}
		reading := ""
		if len(features) > 7 && features[7] != "*" {
			reading = features[7]
		}
		primaryPOS := ""
		if len(features) > 0 {
			primaryPOS = features[0]
		}

		result = append(result, Token{
			Surface:       token.Surface,
			BaseForm:      base,
			Reading:       reading,
			PartsOfSpeech: features,
			PrimaryPOS:    primaryPOS,
		})
	}
	return result
}

// Function words never carry their own entry in the accent tables.
var skipPOS = map[string]bool{
	"記号":   true,
	"補助記号": true,
	"助詞":   true,
	"助動詞":  true,
}

// Annotate tokenizes text and looks up every content word in dict, first by
// base form and then by surface. For uninflected words whose reading is
// known, patterns with a different reading are dropped unless that would
// leave none.
func (a *Analyzer) Annotate(text string, dict Dictionary) ([]Annotation, error) {
	tokens := a.Analyze(text)
	out := make([]Annotation, 0, len(tokens))
	for _, tok := range tokens {
		ann := Annotation{Token: tok}
		if !skipPOS[tok.PrimaryPOS] {
			patterns, err := lookup(dict, tok)
			if err != nil {
				return nil, err
			}
			ann.Patterns = patterns
		}
		out = append(out, ann)
	}
	return out, nil
}

func lookup(dict Dictionary, tok Token) ([]accent.WordRecord, error) {
	patterns, err := dict.Lookup(tok.BaseForm)
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 && tok.Surface != tok.BaseForm {
		if patterns, err = dict.Lookup(tok.Surface); err != nil {
			return nil, err
		}
	}
	if tok.Surface != tok.BaseForm || tok.Reading == "" {
		return patterns, nil
	}
	reading := kana.ToHiragana(tok.Reading)
	var matched []accent.WordRecord
	for _, p := range patterns {
		if kana.ToHiragana(p.Reading()) == reading {
			matched = append(matched, p)
		}
	}
	if len(matched) == 0 {
		return patterns, nil
	}
	return matched, nil
}
