package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chexlabs/buzzline/feed"
)

func rec(url string) feed.ProcessedRecord {
	return feed.ProcessedRecord{URL: url, Text: "t", Sentiment: feed.Neutral, Views: 1}
}

func TestJSONLedgerEmptyWhenMissing(t *testing.T) {
	t.Parallel()

	l, err := OpenJSON(filepath.Join(t.TempDir(), "processed.json"))
	require.NoError(t, err)

	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Has("anything"))
}

func TestJSONLedgerAppendPersists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "processed.json")

	l, err := OpenJSON(path)
	require.NoError(t, err)

	require.NoError(t, l.Append(feed.ProcessedRecord{
		URL: "https://x.com/a/status/1", Text: "love it",
		Sentiment: feed.Positive, Views: 50,
	}))
	require.NoError(t, l.Append(rec("https://x.com/b/status/2")))

	// The file is a plain JSON array, rewritten in full.
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk []feed.ProcessedRecord
	require.NoError(t, json.Unmarshal(data, &onDisk))
	require.Len(t, onDisk, 2)
	assert.Equal(t, "https://x.com/a/status/1", onDisk[0].URL)
	assert.Equal(t, feed.Positive, onDisk[0].Sentiment)

	// Reopen: membership and order survive.
	l2, err := OpenJSON(path)
	require.NoError(t, err)
	assert.True(t, l2.Has("https://x.com/a/status/1"))
	assert.True(t, l2.Has("https://x.com/b/status/2"))
	assert.Equal(t, 2, l2.Len())
	assert.Equal(t, l.Records(), l2.Records())
}

func TestJSONLedgerRejectsDuplicateURL(t *testing.T) {
	t.Parallel()

	l, err := OpenJSON(filepath.Join(t.TempDir(), "processed.json"))
	require.NoError(t, err)

	require.NoError(t, l.Append(rec("u")))
	assert.Error(t, l.Append(rec("u")))
	assert.Equal(t, 1, l.Len())
}

func TestJSONLedgerRejectsCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "processed.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := OpenJSON(path)
	assert.Error(t, err)
}

func TestMemoryLedger(t *testing.T) {
	t.Parallel()

	l := NewMemory()
	require.NoError(t, l.Append(rec("a")))
	assert.Error(t, l.Append(rec("a")))
	assert.True(t, l.Has("a"))
	assert.False(t, l.Has("b"))
	assert.Equal(t, 1, l.Len())
	assert.NoError(t, l.Close())
}
