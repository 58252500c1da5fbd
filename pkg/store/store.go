// Package store reads and writes accent records as newline-delimited JSON.
// Paths containing ".gz" are transparently gzip-compressed.
package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/japaniel/pitchaccent/pkg/accent"
)

// line is the on-disk shape of one record.
type line struct {
	Surface      string   `json:"kanji_or_surface"`
	Morae        []string `json:"morae"`
	AccentIdx    int      `json:"accent_idx"`
	PartOfSpeech string   `json:"part_of_speech"`
}

// Compressed reports whether path selects gzip compression.
func Compressed(path string) bool { return strings.Contains(path, ".gz") }

// Writer appends records to a file, one JSON object per line.
type Writer struct {
	f      *os.File
	gz     *gzip.Writer
	buf    *bufio.Writer
	enc    *json.Encoder
	n      int
	closed bool
}

// Create truncates path and returns a Writer for it.
func Create(path string) (*Writer, error) {
	return openWriter(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
}

// Append opens path for appending, creating it when missing. For gzip paths
// every Append adds a new gzip member, which readers handle transparently.
func Append(path string) (*Writer, error) {
	return openWriter(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND)
}

func openWriter(path string, flag int) (*Writer, error) {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	w := &Writer{f: f}
	var out io.Writer = f
	if Compressed(path) {
		w.gz = gzip.NewWriter(f)
		out = w.gz
	}
	w.buf = bufio.NewWriter(out)
	w.enc = json.NewEncoder(w.buf)
	w.enc.SetEscapeHTML(false)
	return w, nil
}

// Write encodes records in order. Invalid records are rejected before
// anything is written.
func (w *Writer) Write(records ...accent.WordRecord) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("store: record %d (%s): %w", i, r.Surface, err)
		}
	}
	for _, r := range records {
		l := line{Surface: r.Surface, Morae: r.Morae, AccentIdx: r.AccentIdx, PartOfSpeech: r.PartOfSpeech}
		if err := w.enc.Encode(l); err != nil {
			return fmt.Errorf("store: encode: %w", err)
		}
		w.n++
	}
	return nil
}

// Count is the number of records written through w.
func (w *Writer) Count() int { return w.n }

// Close flushes buffers, finishes the gzip stream and closes the file.
// Calls after the first are no-ops.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	var errs []error
	if err := w.buf.Flush(); err != nil {
		errs = append(errs, err)
	}
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := w.f.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return nil
}

// Reader decodes records one line at a time.
type Reader struct {
	f    *os.File
	gz   *gzip.Reader
	sc   *bufio.Scanner
	line int
}

func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	r := &Reader{f: f}
	var in io.Reader = f
	if Compressed(path) {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("store: gzip %s: %w", path, err)
		}
		r.gz = gz
		in = gz
	}
	r.sc = bufio.NewScanner(in)
	r.sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return r, nil
}

// Next returns the next record, or io.EOF after the last one. Blank lines
// are skipped; a line failing record validation is an error.
func (r *Reader) Next() (accent.WordRecord, error) {
	for r.sc.Scan() {
		r.line++
		raw := strings.TrimSpace(r.sc.Text())
		if raw == "" {
			continue
		}
		var l line
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			return accent.WordRecord{}, fmt.Errorf("store: line %d: %w", r.line, err)
		}
		rec, err := accent.NewWordRecord(l.Surface, l.Morae, l.AccentIdx, l.PartOfSpeech)
		if err != nil {
			return accent.WordRecord{}, fmt.Errorf("store: line %d: %w", r.line, err)
		}
		return rec, nil
	}
	if err := r.sc.Err(); err != nil {
		return accent.WordRecord{}, fmt.Errorf("store: read: %w", err)
	}
	return accent.WordRecord{}, io.EOF
}

func (r *Reader) Close() error {
	if r.gz != nil {
		r.gz.Close()
	}
	return r.f.Close()
}

// WriteFile replaces path with records.
func WriteFile(path string, records []accent.WordRecord) error {
	w, err := Create(path)
	if err != nil {
		return err
	}
	if err := w.Write(records...); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// ReadFile loads every record of path in file order.
func ReadFile(path string) ([]accent.WordRecord, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out []accent.WordRecord
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}
