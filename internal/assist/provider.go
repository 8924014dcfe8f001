// Package assist runs a selected action through an LLM completion provider.
package assist

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"selectsense/internal/config"
	"selectsense/internal/models"
)

// Completion is the text a provider returned and the tokens it consumed.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// CompletionProvider generates a completion for a single prompt.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
	Name() string      // Provider name (e.g., "together", "gemini")
	ModelName() string // Specific model used
	Status() models.ProviderStatus
	Close() error
}

// Provider names.
const (
	ProviderTogether = "together"
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderNone     = "none"
)

// NewProvider builds the provider selected by cfg.Assist.Provider. A missing
// API key yields a disabled provider rather than an error.
func NewProvider(ctx context.Context, cfg *config.Config) (CompletionProvider, error) {
	a := cfg.Assist
	name := strings.ToLower(strings.TrimSpace(a.Provider))
	retry := retryAfterFailures(a.Retries)

	switch name {
	case ProviderTogether, ProviderOpenAI:
		if a.APIKey == "" {
			log.Warnf("%s API key not provided. Assist provider will be disabled.", name)
			return NewNoopProvider(name), nil
		}
		return NewOpenAIProvider(OpenAISettings{
			Name:        name,
			APIKey:      a.APIKey,
			BaseURL:     a.BaseURL,
			Model:       a.Model,
			Temperature: a.Temperature,
			TopP:        a.TopP,
			MaxTokens:   a.MaxTokens,
			Retry:       retry,
		}), nil
	case ProviderGemini:
		if a.GeminiAPIKey == "" {
			log.Warn("Gemini API key not provided. Assist provider will be disabled.")
			return NewNoopProvider(name), nil
		}
		return NewGeminiProvider(ctx, GeminiSettings{
			APIKey:      a.GeminiAPIKey,
			Model:       a.Model,
			Temperature: a.Temperature,
			TopP:        a.TopP,
			MaxTokens:   a.MaxTokens,
			Retry:       retry,
		})
	case ProviderNone, "":
		return NewNoopProvider(ProviderNone), nil
	default:
		return nil, fmt.Errorf("%w: unknown assist provider %q", models.ErrValidation, a.Provider)
	}
}
