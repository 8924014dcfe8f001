package costtracker

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selectsense/internal/config"
	"selectsense/internal/models"
)

func TestCostTracker_RecordAndSummarize(t *testing.T) {
	ctx := context.Background()
	tracker := New(map[string]map[string]config.PricingInfo{
		"openai": {"m": {InputPerToken: 0.001, OutputPerToken: 0.002}},
	})

	entry, err := tracker.RecordCost(ctx, CostEvent{
		Operation: models.OperationAssist, Provider: "openai", Model: "m",
		ActionID: "define", InputTokens: 100, OutputTokens: 50,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, entry.Cost, 1e-12)

	// Unknown model is recorded without cost.
	entry, err = tracker.RecordCost(ctx, CostEvent{Operation: models.OperationAssist, Provider: "gemini", Model: "x", InputTokens: 10})
	require.NoError(t, err)
	assert.Zero(t, entry.Cost)

	total, err := tracker.TotalCost(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, total, 1e-12)

	summary, err := tracker.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Events)
	assert.Equal(t, int64(110), summary.TotalInputTokens)
	assert.Equal(t, int64(50), summary.TotalOutputTokens)
	assert.InDelta(t, 0.2, summary.ByOperation[models.OperationAssist], 1e-12)
}

func TestCostTracker_ListUsage(t *testing.T) {
	ctx := context.Background()
	tracker := New(nil)
	for i := 0; i < 5; i++ {
		_, err := tracker.RecordCost(ctx, CostEvent{Operation: models.OperationAssist, Provider: "none", InputTokens: i})
		require.NoError(t, err)
	}

	all, err := tracker.ListUsage(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, l := range all {
		assert.Equal(t, 4-i, l.InputTokens, "newest first even within one clock tick")
	}

	page, err := tracker.ListUsage(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, 3, page[0].InputTokens)
	assert.Equal(t, 2, page[1].InputTokens)

	empty, err := tracker.ListUsage(ctx, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCostTracker_ConcurrentRecord(t *testing.T) {
	ctx := context.Background()
	tracker := New(map[string]map[string]config.PricingInfo{"openai": {"m": {InputPerToken: 1}}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = tracker.RecordCost(ctx, CostEvent{Operation: models.OperationAssist, Provider: "openai", Model: "m", InputTokens: 1})
		}()
	}
	wg.Wait()

	total, err := tracker.TotalCost(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 50, total, 1e-9)
}
