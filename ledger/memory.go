package ledger

import (
	"fmt"

	"github.com/chexlabs/buzzline/feed"
)

// Memory is an in-memory Ledger for tests and dry runs.
type Memory struct {
	records []feed.ProcessedRecord
	known   map[string]bool
}

func NewMemory() *Memory {
	return &Memory{known: make(map[string]bool)}
}

func (l *Memory) Has(url string) bool {
	return l.known[url]
}

func (l *Memory) Append(rec feed.ProcessedRecord) error {
	if l.known[rec.URL] {
		return fmt.Errorf("ledger: %s already recorded", rec.URL)
	}
	l.records = append(l.records, rec)
	l.known[rec.URL] = true
	return nil
}

func (l *Memory) Records() []feed.ProcessedRecord {
	out := make([]feed.ProcessedRecord, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Memory) Len() int {
	return len(l.records)
}

func (l *Memory) Close() error {
	return nil
}
