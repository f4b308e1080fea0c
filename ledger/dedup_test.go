package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chexlabs/buzzline/feed"
)

func post(url string, views int) feed.Post {
	return feed.Post{URL: url, Text: "text for " + url, Views: views}
}

func TestFilterNewEmptyBatch(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FilterNew(nil, NewMemory()))
	assert.Empty(t, FilterNew([]feed.Post{}, NewMemory()))
}

func TestFilterNewCollapsesBatchDuplicates(t *testing.T) {
	t.Parallel()

	batch := []feed.Post{post("a", 10), post("b", 20), post("a", 99)}
	got := FilterNew(batch, NewMemory())

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].URL)
	assert.Equal(t, 10, got[0].Views) // first occurrence survives
	assert.Equal(t, "b", got[1].URL)
}

func TestFilterNewDropsLedgerKnown(t *testing.T) {
	t.Parallel()

	l := NewMemory()
	require.NoError(t, l.Append(rec("a")))

	got := FilterNew([]feed.Post{post("a", 10), post("b", 20)}, l)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].URL)
}

// Running dedup again after the survivors have been appended must
// yield nothing: no post is ever processed twice.
func TestFilterNewIdempotent(t *testing.T) {
	t.Parallel()

	l := NewMemory()
	require.NoError(t, l.Append(rec("old")))

	batch := []feed.Post{post("old", 1), post("x", 2), post("y", 3), post("x", 4)}

	fresh := FilterNew(batch, l)
	require.Len(t, fresh, 2)

	for _, p := range fresh {
		require.NoError(t, l.Append(feed.ProcessedRecord{
			URL: p.URL, Text: p.Text, Sentiment: feed.Neutral, Views: p.Views,
		}))
	}

	assert.Empty(t, FilterNew(batch, l))
	assert.Empty(t, FilterNew(fresh, l))
}
