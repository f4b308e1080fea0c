package ledger

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chexlabs/buzzline/feed"
)

// JSONLedger stores records as a single JSON array in one file. The
// whole array is loaded at open and rewritten in full on every Append.
// That keeps the on-disk shape trivially inspectable and matches the
// scale this runs at (hundreds of records, one writer).
type JSONLedger struct {
	path    string
	records []feed.ProcessedRecord
	known   map[string]bool
}

// OpenJSON loads the ledger at path. A missing file is an empty
// ledger, not an error.
func OpenJSON(path string) (*JSONLedger, error) {
	l := &JSONLedger{
		path:  path,
		known: make(map[string]bool),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("read ledger %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &l.records); err != nil {
		return nil, fmt.Errorf("parse ledger %s: %w", path, err)
	}
	for _, rec := range l.records {
		l.known[rec.URL] = true
	}
	return l, nil
}

func (l *JSONLedger) Has(url string) bool {
	return l.known[url]
}

func (l *JSONLedger) Append(rec feed.ProcessedRecord) error {
	if l.known[rec.URL] {
		return fmt.Errorf("ledger: %s already recorded", rec.URL)
	}

	l.records = append(l.records, rec)
	l.known[rec.URL] = true

	data, err := json.MarshalIndent(l.records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0644); err != nil {
		// Roll back the in-memory state so a retry is possible and
		// Has stays consistent with disk.
		l.records = l.records[:len(l.records)-1]
		delete(l.known, rec.URL)
		return fmt.Errorf("write ledger %s: %w", l.path, err)
	}
	return nil
}

func (l *JSONLedger) Records() []feed.ProcessedRecord {
	out := make([]feed.ProcessedRecord, len(l.records))
	copy(out, l.records)
	return out
}

func (l *JSONLedger) Len() int {
	return len(l.records)
}

func (l *JSONLedger) Close() error {
	return nil
}
