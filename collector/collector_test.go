package collector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chexlabs/buzzline/feed"
)

func TestFuncAdapter(t *testing.T) {
	t.Parallel()

	want := []feed.Post{{URL: "u", Text: "t", Views: 3}}
	c := Func(func(context.Context) ([]feed.Post, error) { return want, nil })

	got, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNewBrowserDefaults(t *testing.T) {
	t.Parallel()

	b := NewBrowser(BrowserConfig{Topic: "$chex"}, zap.NewNop().Sugar())

	assert.Equal(t, 4, b.cfg.ScrollPasses)
	assert.Equal(t, 2*time.Second, b.cfg.SettleDelay)
	assert.Equal(t, 30*time.Second, b.cfg.NavTimeout)
}
