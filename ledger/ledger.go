// Package ledger persists which posts have already been processed.
// The ledger is keyed purely on post URL: once a URL is recorded it is
// never reprocessed, even if the post's text or view count changes.
package ledger

import (
	"github.com/chexlabs/buzzline/feed"
)

// Ledger is the durable set of processed posts. Implementations must
// make Append synchronous: when Append returns nil the record has been
// persisted, so a crash loses at most the in-flight post.
type Ledger interface {
	// Has reports whether url has already been processed.
	Has(url string) bool

	// Append records a decision. Appending a URL that is already
	// present is an error (write-once invariant).
	Append(rec feed.ProcessedRecord) error

	// Records returns all records in insertion order.
	Records() []feed.ProcessedRecord

	// Len returns the number of records.
	Len() int

	Close() error
}

// FilterNew returns the posts from batch that are not yet in the
// ledger, collapsing in-batch duplicates by URL (first occurrence
// survives). Pure function; an empty batch yields an empty result.
func FilterNew(batch []feed.Post, l Ledger) []feed.Post {
	out := make([]feed.Post, 0, len(batch))
	seen := make(map[string]bool, len(batch))

	for _, p := range batch {
		if seen[p.URL] {
			continue
		}
		seen[p.URL] = true

		if l.Has(p.URL) {
			continue
		}
		out = append(out, p)
	}
	return out
}
