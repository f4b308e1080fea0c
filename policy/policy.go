// Package policy turns a classified post into an ordered engagement
// plan. It is pure: no I/O, deterministic given its random source.
package policy

import (
	"fmt"
	"math/rand"

	"github.com/chexlabs/buzzline/feed"
)

// Kind identifies a purchasable engagement type.
type Kind string

const (
	Likes       Kind = "likes"
	Impressions Kind = "impressions"
)

// Action is one engagement order to attempt: buy Quantity of Kind.
// Ephemeral per-post plan, never persisted.
type Action struct {
	Kind     Kind
	Quantity int
}

func (a Action) String() string {
	return fmt.Sprintf("%s x%d", a.Kind, a.Quantity)
}

// Engine holds the decision-table knobs. Actions returned by Decide
// are attempted in order, and the executor stops at the first order
// that does not go through — so in the low-view branch the likes
// order is conditional on the impressions order succeeding.
type Engine struct {
	// ViewThreshold splits posts into the plain-likes branch (above)
	// and the impressions-first branch (at or below).
	ViewThreshold int

	// LikeMin/LikeMax bound the random like quantity, inclusive.
	LikeMin int
	LikeMax int

	// ImpressionQty is the fixed impressions order size.
	ImpressionQty int

	// ImpressionsEnabled gates the low-view branch. When off,
	// low-view posts get no orders at all but are still recorded.
	ImpressionsEnabled bool

	rng *rand.Rand
}

// New returns an Engine using rng for like quantities. rng must not
// be nil; tests pass a seeded source for determinism.
func New(viewThreshold, likeMin, likeMax, impressionQty int, impressionsEnabled bool, rng *rand.Rand) *Engine {
	return &Engine{
		ViewThreshold:      viewThreshold,
		LikeMin:            likeMin,
		LikeMax:            likeMax,
		ImpressionQty:      impressionQty,
		ImpressionsEnabled: impressionsEnabled,
		rng:                rng,
	}
}

// Decide maps (sentiment, views) to the actions to attempt, first
// match wins:
//
//	negative           -> none (recorded as skipped)
//	views > threshold  -> likes only
//	views <= threshold -> impressions then likes (if enabled), else none
//
// Buying likes on a post nobody has seen would make the engagement
// ratio obviously wrong, hence the impressions floor first.
func (e *Engine) Decide(s feed.Sentiment, views int) []Action {
	if s == feed.Negative {
		return nil
	}

	if views > e.ViewThreshold {
		return []Action{{Kind: Likes, Quantity: e.likeQuantity()}}
	}

	if !e.ImpressionsEnabled {
		return nil
	}
	return []Action{
		{Kind: Impressions, Quantity: e.ImpressionQty},
		{Kind: Likes, Quantity: e.likeQuantity()},
	}
}

func (e *Engine) likeQuantity() int {
	if e.LikeMax <= e.LikeMin {
		return e.LikeMin
	}
	return e.LikeMin + e.rng.Intn(e.LikeMax-e.LikeMin+1)
}
