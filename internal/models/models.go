package models

import (
	"time"

	"github.com/google/uuid"
)

// Reply is a cached answer produced by running an action over a selection.
// The selection itself is only kept as part of the cache key.
type Reply struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Key              string    `db:"cache_key" json:"key"`
	Provider         string    `db:"provider" json:"provider"`
	Model            string    `db:"model" json:"model"`
	ActionID         string    `db:"action_id" json:"action"`
	Text             string    `db:"reply" json:"reply"`
	PromptTokens     int       `db:"prompt_tokens" json:"prompt_tokens"`
	CompletionTokens int       `db:"completion_tokens" json:"completion_tokens"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// UsageLog is a record of completion usage for cost tracking.
type UsageLog struct {
	ID           uuid.UUID `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	ProviderName string    `json:"provider"`
	Operation    string    `json:"operation"` // e.g. "assist"
	ModelName    string    `json:"model"`
	ActionID     string    `json:"action,omitempty"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	Cost         float64   `json:"cost"`
}
