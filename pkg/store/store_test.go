package store

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/pitchaccent/pkg/accent"
)

func sampleRecords(t *testing.T) []accent.WordRecord {
	t.Helper()
	var out []accent.WordRecord
	for _, r := range []struct {
		surface string
		morae   []string
		idx     int
		pos     string
	}{
		{"あく", []string{"あ", "く"}, 2, "verb"},
		{"表示", []string{"ひょ", "う", "じ"}, 0, "noun"},
		{"かう", []string{"か", "い", "ま", "す"}, 3, "verb"},
		{"<b>&", []string{"え"}, 1, ""},
	} {
		rec, err := accent.NewWordRecord(r.surface, r.morae, r.idx, r.pos)
		require.NoError(t, err)
		out = append(out, rec)
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	for _, name := range []string{"accents.jsonl", "accents.jsonl.gz", "accents.gz.jsonl"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := sampleRecords(t)

			require.NoError(t, WriteFile(path, want))
			got, err := ReadFile(path)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLineFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accents.jsonl")
	require.NoError(t, WriteFile(path, sampleRecords(t)[:1]))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"kanji_or_surface":"あく","morae":["あ","く"],"accent_idx":2,"part_of_speech":"verb"}`+"\n", string(raw))
}

func TestCompressedFileIsGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accents.jsonl.gz")
	require.NoError(t, WriteFile(path, sampleRecords(t)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte{0x1f, 0x8b}))
	assert.True(t, Compressed(path))
	assert.False(t, Compressed("accents.jsonl"))
}

func TestAppendAcrossCategories(t *testing.T) {
	for _, name := range []string{"out.jsonl", "out.jsonl.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			recs := sampleRecords(t)

			for _, batch := range [][]accent.WordRecord{recs[:2], recs[2:]} {
				w, err := Append(path)
				require.NoError(t, err)
				require.NoError(t, w.Write(batch...))
				assert.Equal(t, len(batch), w.Count())
				require.NoError(t, w.Close())
			}

			got, err := ReadFile(path)
			require.NoError(t, err)
			assert.Len(t, got, len(recs))
			for i := range recs {
				assert.True(t, recs[i].Equal(got[i]), "record %d", i)
			}
		})
	}
}

func TestWriteRejectsInvalidRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	w, err := Create(path)
	require.NoError(t, err)
	err = w.Write(accent.WordRecord{Surface: "x", Morae: []string{"a"}, AccentIdx: 5})
	assert.ErrorIs(t, err, accent.ErrAccentOutOfRange)
	require.NoError(t, w.Close())

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadRejectsInvalidLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	content := `{"kanji_or_surface":"ok","morae":["お"],"accent_idx":0,"part_of_speech":""}` + "\n\n" +
		`{"kanji_or_surface":"bad","morae":[],"accent_idx":0,"part_of_speech":""}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := ReadFile(path)
	assert.ErrorIs(t, err, accent.ErrEmptyMorae)
	assert.Contains(t, err.Error(), "line 3")
}

func TestCloseTwice(t *testing.T) {
	w, err := Create(filepath.Join(t.TempDir(), "x.jsonl.gz"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
