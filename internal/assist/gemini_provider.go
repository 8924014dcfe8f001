package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"selectsense/internal/models"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiSettings configures the Gemini provider.
type GeminiSettings struct {
	APIKey      string
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int
	Retry       RetryStrategy
}

// GeminiProvider implements CompletionProvider using the Google Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
	retry  RetryStrategy
}

// NewGeminiProvider creates a Gemini completion provider.
func NewGeminiProvider(ctx context.Context, s GeminiSettings) (*GeminiProvider, error) {
	modelName := strings.TrimSpace(s.Model)
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	var maxTokens int32
	if s.MaxTokens > 0 {
		n, err := safecast.Conv[int32](s.MaxTokens)
		if err != nil {
			return nil, fmt.Errorf("%w: assist.max_tokens: %w", models.ErrValidation, err)
		}
		maxTokens = n
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	m := client.GenerativeModel(modelName)
	m.SetTemperature(s.Temperature)
	m.SetTopP(s.TopP)
	if maxTokens > 0 {
		m.SetMaxOutputTokens(maxTokens)
	}

	log.Infof("Gemini provider initialized with model %s", modelName)
	return &GeminiProvider{client: client, model: m, name: modelName, retry: s.Retry}, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string { return ProviderGemini }

// ModelName returns the specific model identifier.
func (p *GeminiProvider) ModelName() string { return p.name }

// Status reports whether the provider has a client.
func (p *GeminiProvider) Status() models.ProviderStatus {
	if p.client == nil {
		return models.ProviderStatusDisabled
	}
	return models.ProviderStatusActive
}

// Close releases the underlying client.
func (p *GeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

// Complete generates content for prompt.
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (Completion, error) {
	return withRetry(ctx, ProviderGemini, p.retry, func(ctx context.Context) (Completion, error) {
		resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return Completion{}, err
		}
		return completionFromGemini(resp)
	})
}

func completionFromGemini(resp *genai.GenerateContentResponse) (Completion, error) {
	text := strings.TrimSpace(firstText(resp))
	if text == "" {
		return Completion{}, errors.New("empty completion")
	}
	c := Completion{Text: text}
	if resp.UsageMetadata != nil {
		c.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		c.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return c, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

var _ CompletionProvider = (*GeminiProvider)(nil)
