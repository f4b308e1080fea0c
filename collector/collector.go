// Package collector scrapes the platform's live search feed for posts
// mentioning the tracked topic. It is a thin UI-coupled scraper: no
// decision logic lives here.
package collector

import (
	"context"

	"github.com/chexlabs/buzzline/feed"
)

// Collector produces one batch of observed posts per invocation. The
// same post may appear across scroll passes and across cycles; the
// deduplicator downstream handles both.
type Collector interface {
	Collect(ctx context.Context) ([]feed.Post, error)
}

// Func adapts a plain function to the Collector interface.
type Func func(ctx context.Context) ([]feed.Post, error)

func (f Func) Collect(ctx context.Context) ([]feed.Post, error) {
	return f(ctx)
}
