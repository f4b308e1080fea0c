package ledger

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/chexlabs/buzzline/feed"
)

// SQLite is a Ledger backed by a SQLite database. It keeps the same
// load-once / serve-from-memory contract as the JSON backend but also
// stores per-cycle run summaries, which the JSON file has no room for.
type SQLite struct {
	db      *sql.DB
	records []feed.ProcessedRecord
	known   map[string]bool
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	l := &SQLite{db: db, known: make(map[string]bool)}

	rows, err := db.Query(`SELECT url, text, sentiment, views FROM processed ORDER BY rowid ASC`)
	if err != nil {
		db.Close()
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rec feed.ProcessedRecord
		if err := rows.Scan(&rec.URL, &rec.Text, &rec.Sentiment, &rec.Views); err != nil {
			db.Close()
			return nil, err
		}
		l.records = append(l.records, rec)
		l.known[rec.URL] = true
	}
	if err := rows.Err(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *SQLite) Has(url string) bool {
	return l.known[url]
}

func (l *SQLite) Append(rec feed.ProcessedRecord) error {
	if l.known[rec.URL] {
		return fmt.Errorf("ledger: %s already recorded", rec.URL)
	}

	_, err := l.db.Exec(`
		INSERT INTO processed (url, text, sentiment, views, recorded_at, seq)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.URL, rec.Text, string(rec.Sentiment), rec.Views,
		time.Now().UTC(), len(l.records),
	)
	if err != nil {
		return fmt.Errorf("insert processed: %w", err)
	}

	l.records = append(l.records, rec)
	l.known[rec.URL] = true
	return nil
}

func (l *SQLite) Records() []feed.ProcessedRecord {
	out := make([]feed.ProcessedRecord, len(l.records))
	copy(out, l.records)
	return out
}

func (l *SQLite) Len() int {
	return len(l.records)
}

// CycleRun is one scheduler pass, summarized.
type CycleRun struct {
	RunID     string
	StartedAt time.Time
	Collected int
	Fresh     int
	Processed int
	Ordered   int
}

// RecordCycle stores a per-cycle summary row. Only the SQLite backend
// keeps cycle history; callers should type-assert for it.
func (l *SQLite) RecordCycle(run CycleRun) error {
	_, err := l.db.Exec(`
		INSERT INTO cycles (run_id, started_at, collected, fresh, processed, ordered_posts)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.StartedAt, run.Collected, run.Fresh, run.Processed, run.Ordered,
	)
	return err
}

// ListCycles returns cycle summaries, most recent first, up to limit.
func (l *SQLite) ListCycles(limit int) ([]CycleRun, error) {
	rows, err := l.db.Query(`
		SELECT run_id, started_at, collected, fresh, processed, ordered_posts
		FROM cycles ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CycleRun
	for rows.Next() {
		var run CycleRun
		if err := rows.Scan(&run.RunID, &run.StartedAt, &run.Collected,
			&run.Fresh, &run.Processed, &run.Ordered); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (l *SQLite) Close() error {
	return l.db.Close()
}
