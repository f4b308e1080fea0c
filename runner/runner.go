// Package runner orchestrates one cycle of the pipeline — collect,
// dedup, classify, decide, order, record — and the forever loop that
// schedules cycles on a fixed interval.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chexlabs/buzzline/collector"
	"github.com/chexlabs/buzzline/feed"
	"github.com/chexlabs/buzzline/ledger"
	"github.com/chexlabs/buzzline/pkg/id"
	"github.com/chexlabs/buzzline/policy"
	"github.com/chexlabs/buzzline/sentiment"
	"github.com/chexlabs/buzzline/smm"
)

// OrderExecutor walks an engagement plan for one post. Satisfied by
// *smm.Executor.
type OrderExecutor interface {
	Run(ctx context.Context, link string, plan []policy.Action) ([]policy.Action, error)
}

// cycleRecorder is the optional ledger extension that stores
// per-cycle summaries (the SQLite backend implements it).
type cycleRecorder interface {
	RecordCycle(run ledger.CycleRun) error
}

// CycleStats summarizes one pass.
type CycleStats struct {
	RunID     string
	StartedAt time.Time
	Collected int // posts observed by the collector
	Fresh     int // posts surviving dedup
	Processed int // fresh posts with text, decided and recorded
	Ordered   int // processed posts with at least one placed order
	Skipped   int // fresh posts with no text (never recorded)
}

// CycleRunner wires the pipeline stages together. Posts are handled
// strictly one at a time; ledger order is decision order.
type CycleRunner struct {
	Collector  collector.Collector
	Classifier sentiment.Classifier
	Policy     *policy.Engine
	Executor   OrderExecutor
	Ledger     ledger.Ledger
	Log        *zap.SugaredLogger
}

// RunCycle executes one full pass. A collector failure aborts the
// cycle (browser flakiness is routine and must not kill the process);
// smm.ErrInsufficientBalance propagates untouched so the loop can
// terminate. The in-flight post is never recorded on a fatal error.
func (r *CycleRunner) RunCycle(ctx context.Context) (CycleStats, error) {
	stats := CycleStats{RunID: id.New(), StartedAt: time.Now().UTC()}

	batch, err := r.Collector.Collect(ctx)
	if err != nil {
		return stats, fmt.Errorf("collect: %w", err)
	}
	stats.Collected = len(batch)

	fresh := ledger.FilterNew(batch, r.Ledger)
	stats.Fresh = len(fresh)
	r.Log.Infow("cycle started",
		"run_id", stats.RunID, "collected", stats.Collected, "fresh", stats.Fresh)

	for _, post := range fresh {
		if post.Text == "" {
			// Non-text posts are invisible to dedup (no record) and
			// will be re-observed every cycle. Accepted gap.
			r.Log.Debugw("skipping post without text", "url", post.URL)
			stats.Skipped++
			continue
		}

		s := r.Classifier.Classify(ctx, post.Text)
		plan := r.Policy.Decide(s, post.Views)
		r.Log.Infow("post decided",
			"run_id", stats.RunID, "url", post.URL,
			"sentiment", s, "views", post.Views, "actions", len(plan))

		placed, err := r.Executor.Run(ctx, post.URL, plan)
		if err != nil {
			// Balance exhaustion: stop right here, before the ledger
			// write, so the post is retried after a refill+restart.
			return stats, err
		}

		if err := r.Ledger.Append(feed.ProcessedRecord{
			URL:       post.URL,
			Text:      post.Text,
			Sentiment: s,
			Views:     post.Views,
		}); err != nil {
			return stats, fmt.Errorf("record %s: %w", post.URL, err)
		}
		stats.Processed++
		if len(placed) > 0 {
			stats.Ordered++
		}
	}

	r.Log.Infow("cycle finished",
		"run_id", stats.RunID, "processed", stats.Processed,
		"ordered", stats.Ordered, "skipped", stats.Skipped,
		"ledger_total", r.Ledger.Len())

	if rec, ok := r.Ledger.(cycleRecorder); ok {
		if err := rec.RecordCycle(ledger.CycleRun{
			RunID:     stats.RunID,
			StartedAt: stats.StartedAt,
			Collected: stats.Collected,
			Fresh:     stats.Fresh,
			Processed: stats.Processed,
			Ordered:   stats.Ordered,
		}); err != nil {
			r.Log.Warnw("failed to record cycle summary", "err", err)
		}
	}
	return stats, nil
}

// Loop runs cycles forever, interval apart, logging a countdown every
// logEvery while waiting. It returns when ctx is cancelled (nil) or
// when a cycle hits balance exhaustion (the error). All other cycle
// errors are logged and the next run is scheduled as usual.
func (r *CycleRunner) Loop(ctx context.Context, interval, logEvery time.Duration) error {
	for {
		stats, err := r.RunCycle(ctx)
		switch {
		case errors.Is(err, smm.ErrInsufficientBalance):
			r.Log.Errorw("account balance exhausted, stopping",
				"run_id", stats.RunID, "err", err)
			return err
		case errors.Is(err, context.Canceled):
			return nil
		case err != nil:
			r.Log.Warnw("cycle aborted, will retry next interval",
				"run_id", stats.RunID, "err", err)
		}

		if err := r.wait(ctx, interval, logEvery); err != nil {
			return nil
		}
	}
}

// wait sleeps until the next run, emitting periodic countdown logs.
// Returns non-nil only when ctx is done.
func (r *CycleRunner) wait(ctx context.Context, interval, logEvery time.Duration) error {
	nextRun := time.Now().Add(interval)
	r.Log.Infow("waiting for next cycle", "next_run", nextRun.Format(time.RFC3339))

	timer := time.NewTimer(interval)
	defer timer.Stop()

	if logEvery <= 0 {
		logEvery = 10 * time.Second
	}
	ticker := time.NewTicker(logEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case <-ticker.C:
			remaining := time.Until(nextRun).Round(time.Second)
			if remaining < 0 {
				remaining = 0
			}
			r.Log.Infow("next cycle countdown", "remaining", remaining.String())
		}
	}
}
