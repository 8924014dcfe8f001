package assist

import (
	"context"
	"fmt"

	"selectsense/internal/models"
)

// NoopProvider stands in when no provider is configured. Every call fails
// with models.ErrProviderDisabled.
type NoopProvider struct {
	name string
}

// NewNoopProvider returns a disabled provider reporting name.
func NewNoopProvider(name string) *NoopProvider {
	return &NoopProvider{name: name}
}

func (p *NoopProvider) Name() string                  { return p.name }
func (p *NoopProvider) ModelName() string             { return "" }
func (p *NoopProvider) Status() models.ProviderStatus { return models.ProviderStatusDisabled }
func (p *NoopProvider) Close() error                  { return nil }

func (p *NoopProvider) Complete(context.Context, string) (Completion, error) {
	return Completion{}, fmt.Errorf("%w: %s is not configured", models.ErrProviderDisabled, p.name)
}

var _ CompletionProvider = (*NoopProvider)(nil)
