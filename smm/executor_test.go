package smm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chexlabs/buzzline/policy"
)

// fakePanel scripts one outcome per kind and records every call.
type fakePanel struct {
	outcomes map[policy.Kind]Outcome
	calls    []policy.Action
}

func (f *fakePanel) Submit(_ context.Context, kind policy.Kind, _ string, quantity int) Outcome {
	f.calls = append(f.calls, policy.Action{Kind: kind, Quantity: quantity})
	return f.outcomes[kind]
}

func newExecutor(panel Submitter) *Executor {
	return &Executor{Panel: panel, Log: zap.NewNop().Sugar()}
}

func TestRunPlacesAllActions(t *testing.T) {
	t.Parallel()

	panel := &fakePanel{outcomes: map[policy.Kind]Outcome{
		policy.Impressions: {Status: Ordered, OrderID: 1},
		policy.Likes:       {Status: Ordered, OrderID: 2},
	}}

	plan := []policy.Action{
		{Kind: policy.Impressions, Quantity: 100},
		{Kind: policy.Likes, Quantity: 22},
	}

	placed, err := newExecutor(panel).Run(context.Background(), "u", plan)
	require.NoError(t, err)
	assert.Equal(t, plan, placed)
	assert.Equal(t, plan, panel.calls)
}

// A rejected impressions floor must suppress the dependent likes
// order entirely; the caller still records the post.
func TestRunRejectionAbandonsRemainder(t *testing.T) {
	t.Parallel()

	panel := &fakePanel{outcomes: map[policy.Kind]Outcome{
		policy.Impressions: {Status: Rejected, Reason: "link not supported"},
		policy.Likes:       {Status: Ordered, OrderID: 9},
	}}

	plan := []policy.Action{
		{Kind: policy.Impressions, Quantity: 100},
		{Kind: policy.Likes, Quantity: 25},
	}

	placed, err := newExecutor(panel).Run(context.Background(), "u", plan)
	require.NoError(t, err)
	assert.Empty(t, placed)

	require.Len(t, panel.calls, 1)
	assert.Equal(t, policy.Impressions, panel.calls[0].Kind)
}

func TestRunBalanceExhaustionIsFatal(t *testing.T) {
	t.Parallel()

	panel := &fakePanel{outcomes: map[policy.Kind]Outcome{
		policy.Likes: {Status: InsufficientBalance, Reason: "insufficient balance on account"},
	}}

	placed, err := newExecutor(panel).Run(context.Background(), "u",
		[]policy.Action{{Kind: policy.Likes, Quantity: 20}})

	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Empty(t, placed)
}

func TestRunEmptyPlan(t *testing.T) {
	t.Parallel()

	panel := &fakePanel{}
	placed, err := newExecutor(panel).Run(context.Background(), "u", nil)
	require.NoError(t, err)
	assert.Empty(t, placed)
	assert.Empty(t, panel.calls)
}
