// Package accent turns accent-annotated dictionary markup into word records.
package accent

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrEmptyMorae       = errors.New("accent: record has no morae")
	ErrAccentOutOfRange = errors.New("accent: accent position out of range")
)

// WordRecord is one accent pattern of one headword.
//
// AccentIdx is 0 for a flat (heiban) pattern, otherwise the 1-based mora
// after which the pitch drops. Records are values: build them with
// NewWordRecord and do not modify them afterwards.
type WordRecord struct {
	Surface      string
	Morae        []string
	AccentIdx    int
	PartOfSpeech string
}

// NewWordRecord validates and builds a record. Morae is copied.
func NewWordRecord(surface string, morae []string, accentIdx int, pos string) (WordRecord, error) {
	r := WordRecord{
		Surface:      surface,
		Morae:        slices.Clone(morae),
		AccentIdx:    accentIdx,
		PartOfSpeech: pos,
	}
	if err := r.Validate(); err != nil {
		return WordRecord{}, err
	}
	return r, nil
}

// Validate checks the record invariants.
func (r WordRecord) Validate() error {
	if len(r.Morae) == 0 {
		return ErrEmptyMorae
	}
	if r.AccentIdx < 0 || r.AccentIdx > len(r.Morae) {
		return fmt.Errorf("%w: %d with %d morae", ErrAccentOutOfRange, r.AccentIdx, len(r.Morae))
	}
	return nil
}

// WithPartOfSpeech returns a copy tagged with pos.
func (r WordRecord) WithPartOfSpeech(pos string) WordRecord {
	r.Morae = slices.Clone(r.Morae)
	r.PartOfSpeech = pos
	return r
}

// Equal reports whether every field matches.
func (r WordRecord) Equal(o WordRecord) bool {
	return r.Surface == o.Surface &&
		r.AccentIdx == o.AccentIdx &&
		r.PartOfSpeech == o.PartOfSpeech &&
		slices.Equal(r.Morae, o.Morae)
}

// Reading is the morae joined together.
func (r WordRecord) Reading() string { return strings.Join(r.Morae, "") }

func (r WordRecord) Heiban() bool { return r.AccentIdx == 0 }

// Marked renders the reading with ＼ after the accented mora, e.g. "あく＼".
// Flat patterns are returned unmarked.
func (r WordRecord) Marked() string {
	if r.Heiban() {
		return r.Reading()
	}
	var b strings.Builder
	for i, m := range r.Morae {
		b.WriteString(m)
		if i+1 == r.AccentIdx {
			b.WriteString("＼")
		}
	}
	return b.String()
}

func (r WordRecord) String() string {
	return fmt.Sprintf("%s [%s] %d %s", r.Surface, r.Marked(), r.AccentIdx, r.PartOfSpeech)
}
