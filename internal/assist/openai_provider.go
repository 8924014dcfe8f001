package assist

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"selectsense/internal/models"
)

const (
	togetherBaseURL      = "https://api.together.xyz/v1"
	defaultTogetherModel = "mistralai/Mixtral-8x7B-Instruct-v0.1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

// OpenAISettings configures an OpenAI-compatible provider.
type OpenAISettings struct {
	Name        string // "together" or "openai"
	APIKey      string
	BaseURL     string // empty selects the provider's public endpoint
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int
	Retry       RetryStrategy
}

// OpenAIProvider implements CompletionProvider against any endpoint that
// speaks the OpenAI chat completions API, including Together inference.
type OpenAIProvider struct {
	client      *openai.Client
	name        string
	model       string
	temperature float32
	topP        float32
	maxTokens   int
	stop        []string
	retry       RetryStrategy
}

// NewOpenAIProvider creates a chat completion provider.
func NewOpenAIProvider(s OpenAISettings) *OpenAIProvider {
	name := s.Name
	if name == "" {
		name = ProviderOpenAI
	}

	cfg := openai.DefaultConfig(s.APIKey)
	model := s.Model
	var stop []string
	if name == ProviderTogether {
		cfg.BaseURL = togetherBaseURL
		if model == "" {
			model = defaultTogetherModel
		}
		stop = []string{"</s>"}
	} else if model == "" {
		model = defaultOpenAIModel
	}
	if s.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(s.BaseURL, "/")
	}

	log.Infof("%s provider initialized with model %s", name, model)
	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(cfg),
		name:        name,
		model:       model,
		temperature: s.Temperature,
		topP:        s.TopP,
		maxTokens:   s.MaxTokens,
		stop:        stop,
		retry:       s.Retry,
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string { return p.name }

// ModelName returns the specific model identifier.
func (p *OpenAIProvider) ModelName() string { return p.model }

// Status reports whether the provider has a client.
func (p *OpenAIProvider) Status() models.ProviderStatus {
	if p.client == nil {
		return models.ProviderStatusDisabled
	}
	return models.ProviderStatusActive
}

// Close is a no-op; the HTTP client needs no teardown.
func (p *OpenAIProvider) Close() error { return nil }

// Complete sends prompt as a single user message.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (Completion, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: p.temperature,
		TopP:        p.topP,
		MaxTokens:   p.maxTokens,
		Stop:        p.stop,
	}

	return withRetry(ctx, p.name, p.retry, func(ctx context.Context) (Completion, error) {
		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return Completion{}, err
		}
		if len(resp.Choices) == 0 {
			return Completion{}, errors.New("no choices in response")
		}
		text := strings.TrimSpace(resp.Choices[0].Message.Content)
		if text == "" {
			return Completion{}, errors.New("empty completion")
		}
		return Completion{
			Text:             text,
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		}, nil
	})
}

var _ CompletionProvider = (*OpenAIProvider)(nil)
