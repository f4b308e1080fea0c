package smm

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/chexlabs/buzzline/policy"
)

// ErrInsufficientBalance is returned when the panel reports the
// account cannot fund further orders. The runner must stop the whole
// process on it: deciding more posts with an exhausted budget would
// silently drop their engagement with no audit trail.
var ErrInsufficientBalance = errors.New("smm: insufficient account balance")

// Submitter places a single order. Satisfied by *Client; tests swap
// in a fake.
type Submitter interface {
	Submit(ctx context.Context, kind policy.Kind, link string, quantity int) Outcome
}

// Executor walks an engagement plan for one post, in order. Each
// action is attempted only if every earlier action was accepted, so a
// rejected impressions floor suppresses the dependent likes order.
type Executor struct {
	Panel Submitter
	// Pause between consecutive accepted orders, to stay under the
	// panel's rate limit.
	Pause time.Duration
	Log   *zap.SugaredLogger
}

// Run attempts plan against link. It returns the actions that were
// actually ordered. A soft rejection abandons the rest of the plan
// but is not an error: the post must still be recorded so it is never
// reprocessed. Balance exhaustion returns ErrInsufficientBalance.
func (e *Executor) Run(ctx context.Context, link string, plan []policy.Action) ([]policy.Action, error) {
	var placed []policy.Action

	for _, action := range plan {
		out := e.Panel.Submit(ctx, action.Kind, link, action.Quantity)

		switch out.Status {
		case Ordered:
			e.Log.Infow("order placed",
				"link", link, "kind", action.Kind,
				"quantity", action.Quantity, "order_id", out.OrderID)
			placed = append(placed, action)
			if e.Pause > 0 {
				time.Sleep(e.Pause)
			}

		case Rejected:
			e.Log.Warnw("order rejected, abandoning remaining actions",
				"link", link, "kind", action.Kind, "reason", out.Reason)
			return placed, nil

		case InsufficientBalance:
			e.Log.Errorw("panel reports insufficient balance",
				"link", link, "kind", action.Kind, "reason", out.Reason)
			return placed, ErrInsufficientBalance
		}
	}
	return placed, nil
}
