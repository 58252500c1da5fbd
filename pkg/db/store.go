package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/japaniel/pitchaccent/pkg/accent"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// DefaultBatchSize is the number of records committed per transaction by SaveRecords.
const DefaultBatchSize = 500

// InsertAccent stores r unless an equal record already exists. It reports
// whether a row was inserted.
func InsertAccent(db DBExecutor, r accent.WordRecord) (bool, error) {
	if err := r.Validate(); err != nil {
		return false, err
	}
	morae, err := json.Marshal(r.Morae)
	if err != nil {
		return false, fmt.Errorf("encode morae: %w", err)
	}
	res, err := db.Exec(`INSERT INTO accents (surface, reading, morae, accent_idx, mora_count, part_of_speech)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(surface, morae, accent_idx, part_of_speech) DO NOTHING`,
		r.Surface, r.Reading(), string(morae), r.AccentIdx, len(r.Morae), r.PartOfSpeech)
	if err != nil {
		return false, fmt.Errorf("insert accent %s: %w", r.Surface, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveRecords inserts records in transactions of batchSize and returns how
// many were new. A failing batch is rolled back and stops the import;
// earlier batches stay committed.
func SaveRecords(conn *sql.DB, records []accent.WordRecord, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	inserted := 0
	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		n, err := saveBatch(conn, records[start:end])
		if err != nil {
			return inserted, fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		inserted += n
	}
	return inserted, nil
}

func saveBatch(conn *sql.DB, batch []accent.WordRecord) (int, error) {
	tx, err := conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	n := 0
	for _, r := range batch {
		ok, err := InsertAccent(tx, r)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch (%d items): %w", len(batch), err)
	}
	return n, nil
}

// LookupBySurface returns the stored patterns written as surface.
func LookupBySurface(db DBExecutor, surface string) ([]accent.WordRecord, error) {
	return queryAccents(db, `WHERE surface = ?`, strings.TrimSpace(surface))
}

// LookupByReading returns the stored patterns whose morae spell reading.
func LookupByReading(db DBExecutor, reading string) ([]accent.WordRecord, error) {
	return queryAccents(db, `WHERE reading = ?`, strings.TrimSpace(reading))
}

// Lookup matches word against both the surface and the reading.
func Lookup(db DBExecutor, word string) ([]accent.WordRecord, error) {
	w := strings.TrimSpace(word)
	return queryAccents(db, `WHERE surface = ? OR reading = ?`, w, w)
}

func queryAccents(db DBExecutor, where string, args ...interface{}) ([]accent.WordRecord, error) {
	rows, err := db.Query(`SELECT surface, morae, accent_idx, part_of_speech FROM accents `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []accent.WordRecord
	for rows.Next() {
		var surface, morae, pos string
		var idx int
		if err := rows.Scan(&surface, &morae, &idx, &pos); err != nil {
			return nil, err
		}
		var m []string
		if err := json.Unmarshal([]byte(morae), &m); err != nil {
			return nil, fmt.Errorf("decode morae of %s: %w", surface, err)
		}
		rec, err := accent.NewWordRecord(surface, m, idx, pos)
		if err != nil {
			return nil, fmt.Errorf("stored accent %s: %w", surface, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountAccents returns the number of stored patterns.
func CountAccents(db DBExecutor) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM accents`).Scan(&n)
	return n, err
}

// Lexicon adapts a database handle to a word lookup.
type Lexicon struct {
	DB DBExecutor
}

func (l Lexicon) Lookup(word string) ([]accent.WordRecord, error) {
	return Lookup(l.DB, word)
}

// StartRun opens a scrape_runs row for category.
func StartRun(db DBExecutor, category, url string) (int64, error) {
	if strings.TrimSpace(category) == "" {
		return 0, fmt.Errorf("category must be non-empty")
	}
	res, err := db.Exec(`INSERT INTO scrape_runs (category, url, status) VALUES (?, ?, ?)`, category, url, RunRunning)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FinishRun closes a run. A non-nil runErr marks it failed.
func FinishRun(db DBExecutor, id int64, pages, records int, runErr error) error {
	if id <= 0 {
		return fmt.Errorf("run id must be positive")
	}
	status := RunDone
	var msg interface{}
	if runErr != nil {
		status = RunFailed
		msg = runErr.Error()
	}
	_, err := db.Exec(`UPDATE scrape_runs SET status = ?, pages = ?, records = ?, error = ?, finished_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, pages, records, msg, id)
	return err
}

// GetRun loads a run by id.
func GetRun(db DBExecutor, id int64) (ScrapeRun, error) {
	var r ScrapeRun
	var errMsg sql.NullString
	var finished sql.NullTime
	err := db.QueryRow(`SELECT id, category, url, status, pages, records, error, started_at, finished_at FROM scrape_runs WHERE id = ?`, id).
		Scan(&r.ID, &r.Category, &r.URL, &r.Status, &r.Pages, &r.Records, &errMsg, &r.StartedAt, &finished)
	if err != nil {
		return ScrapeRun{}, err
	}
	if errMsg.Valid {
		r.Error = errMsg.String
	}
	if finished.Valid {
		r.FinishedAt = finished.Time
	}
	return r, nil
}
