package costtracker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"selectsense/internal/config"
	"selectsense/internal/models"
)

// CostEvent represents a single AI usage event before pricing is applied.
type CostEvent struct {
	Operation    string // e.g. "assist"
	Provider     string
	Model        string
	ActionID     string
	InputTokens  int
	OutputTokens int
}

// Summary aggregates recorded usage.
type Summary struct {
	TotalCost         float64            `json:"total_cost_usd"`
	TotalInputTokens  int64              `json:"total_input_tokens"`
	TotalOutputTokens int64              `json:"total_output_tokens"`
	ByOperation       map[string]float64 `json:"by_operation"`
	Events            int                `json:"events"`
}

// CostTracker provides methods to record and report costs.
type CostTracker interface {
	RecordCost(ctx context.Context, event CostEvent) (*models.UsageLog, error)
	TotalCost(ctx context.Context) (float64, error)
	Summary(ctx context.Context) (Summary, error)
	ListUsage(ctx context.Context, limit, offset int) ([]*models.UsageLog, error)
}

// New returns an in-memory tracker priced with pricing[provider][model].
func New(pricing map[string]map[string]config.PricingInfo) CostTracker {
	return &memoryCostTracker{pricing: pricing}
}

type memoryCostTracker struct {
	mu      sync.Mutex
	pricing map[string]map[string]config.PricingInfo
	logs    []*models.UsageLog
}

func (t *memoryCostTracker) RecordCost(ctx context.Context, event CostEvent) (*models.UsageLog, error) {
	var cost float64
	if price, ok := t.pricing[event.Provider][event.Model]; ok {
		cost = float64(event.InputTokens)*price.InputPerToken + float64(event.OutputTokens)*price.OutputPerToken
	} else if event.InputTokens+event.OutputTokens > 0 {
		log.Warnf("Pricing info not found for %s model '%s'. Recording usage with zero cost.", event.Provider, event.Model)
	}

	entry := &models.UsageLog{
		ID:           uuid.New(),
		Timestamp:    time.Now().UTC(),
		ProviderName: event.Provider,
		Operation:    event.Operation,
		ModelName:    event.Model,
		ActionID:     event.ActionID,
		InputTokens:  event.InputTokens,
		OutputTokens: event.OutputTokens,
		Cost:         cost,
	}

	t.mu.Lock()
	t.logs = append(t.logs, entry)
	t.mu.Unlock()

	log.Debugf("Recorded AI usage: Provider=%s, Operation=%s, Model=%s, InputTokens=%d, OutputTokens=%d, Cost=%.8f",
		entry.ProviderName, entry.Operation, entry.ModelName, entry.InputTokens, entry.OutputTokens, entry.Cost)
	return entry, nil
}

func (t *memoryCostTracker) TotalCost(ctx context.Context) (float64, error) {
	s, err := t.Summary(ctx)
	return s.TotalCost, err
}

func (t *memoryCostTracker) Summary(ctx context.Context) (Summary, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Summary{ByOperation: map[string]float64{}, Events: len(t.logs)}
	for _, l := range t.logs {
		s.TotalCost += l.Cost
		s.TotalInputTokens += int64(l.InputTokens)
		s.TotalOutputTokens += int64(l.OutputTokens)
		s.ByOperation[l.Operation] += l.Cost
	}
	return s, nil
}

// ListUsage returns usage logs newest first.
func (t *memoryCostTracker) ListUsage(ctx context.Context, limit, offset int) ([]*models.UsageLog, error) {
	// Logs are appended in recording order.
	t.mu.Lock()
	logs := make([]*models.UsageLog, len(t.logs))
	for i, l := range t.logs {
		logs[len(logs)-1-i] = l
	}
	t.mu.Unlock()

	if offset >= len(logs) {
		return []*models.UsageLog{}, nil
	}
	logs = logs[offset:]
	if limit > 0 && limit < len(logs) {
		logs = logs[:limit]
	}
	return logs, nil
}
