package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"selectsense/internal/actions"
	"selectsense/internal/costtracker"
	"selectsense/internal/models"
	"selectsense/internal/store"
	"selectsense/pkg/categorizer"
)

// Request asks for one action to be run over a selection.
type Request struct {
	Text     string                     `json:"text"`
	Hint     categorizer.StructuralHint `json:"hint"`
	ActionID string                     `json:"action"`
	Question string                     `json:"question,omitempty"`
}

// Response is the outcome of an assist request.
type Response struct {
	Category categorizer.Category `json:"category"`
	Action   actions.Action       `json:"action"`
	Reply    string               `json:"reply"`
	Cached   bool                 `json:"cached"`
	Provider string               `json:"provider"`
	Model    string               `json:"model"`
}

// TextTransformer rewrites document text before it is prompted.
type TextTransformer interface {
	Transform(ctx context.Context, text string) (string, error)
}

// Service runs actions through a completion provider, caching replies and
// recording token cost.
type Service struct {
	categorizer categorizer.ContentCategorizer
	catalog     *actions.Catalog
	provider    CompletionProvider
	cache       store.ReplyCache        // optional
	costs       costtracker.CostTracker // optional
	timeout     time.Duration
	pages       TextTransformer // applied to summarize-page input; optional
}

// NewService wires the assist service. cache and costs may be nil.
func NewService(c categorizer.ContentCategorizer, catalog *actions.Catalog, provider CompletionProvider, cache store.ReplyCache, costs costtracker.CostTracker, timeout time.Duration) *Service {
	if catalog == nil {
		catalog = actions.NewCatalog()
	}
	return &Service{
		categorizer: c,
		catalog:     catalog,
		provider:    provider,
		cache:       cache,
		costs:       costs,
		timeout:     timeout,
	}
}

// SetPageTransformer installs the transformer applied to whole documents
// sent to the summarize-page action.
func (s *Service) SetPageTransformer(t TextTransformer) { s.pages = t }

// Provider returns the configured completion provider.
func (s *Service) Provider() CompletionProvider { return s.provider }

// Catalog returns the action catalog in use.
func (s *Service) Catalog() *actions.Catalog { return s.catalog }

// Assist classifies the selection, renders the action's prompt and returns
// the provider's reply, from the cache when possible.
func (s *Service) Assist(ctx context.Context, req Request) (*Response, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: selection text is empty", models.ErrValidation)
	}
	action, ok := s.catalog.Lookup(req.ActionID)
	if !ok {
		if suggestions := s.catalog.Suggest(req.ActionID); len(suggestions) > 0 {
			return nil, fmt.Errorf("%w: unknown action %q (did you mean %s?)", models.ErrValidation, req.ActionID, strings.Join(suggestions, ", "))
		}
		return nil, fmt.Errorf("%w: unknown action %q", models.ErrValidation, req.ActionID)
	}

	if action.ID == actions.SummarizePage && s.pages != nil {
		capped, err := s.pages.Transform(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("prepare page: %w", err)
		}
		text = capped
	}

	prompt, err := action.Prompt(text, req.Question)
	if err != nil {
		return nil, err
	}

	result, err := s.categorizer.Categorize(ctx, categorizer.Request{Text: text, Hint: req.Hint})
	if err != nil {
		return nil, fmt.Errorf("categorize selection: %w", err)
	}

	resp := &Response{
		Category: result.Category,
		Action:   action,
		Provider: s.provider.Name(),
		Model:    s.provider.ModelName(),
	}

	key := store.ReplyKey(store.KeyParts{
		Provider:  resp.Provider,
		Model:     resp.Model,
		ActionID:  action.ID,
		Question:  strings.TrimSpace(req.Question),
		Selection: text,
	})
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			log.Debugf("Assist cache hit for action %s (key %s)", action.ID, key[:12])
			resp.Reply = cached.Text
			resp.Cached = true
			return resp, nil
		case !errors.Is(err, store.ErrNotFound):
			log.Warnf("Reply cache lookup failed: %v", err)
		}
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log.Debugf("Running action %s on %s selection via %s", action.ID, result.Category, resp.Provider)
	completion, err := s.provider.Complete(callCtx, prompt)
	if err != nil {
		return nil, fmt.Errorf("action %s: %w", action.ID, err)
	}
	resp.Reply = completion.Text

	if s.costs != nil {
		if _, err := s.costs.RecordCost(ctx, costtracker.CostEvent{
			Operation:    models.OperationAssist,
			Provider:     resp.Provider,
			Model:        resp.Model,
			ActionID:     action.ID,
			InputTokens:  completion.PromptTokens,
			OutputTokens: completion.CompletionTokens,
		}); err != nil {
			log.Errorf("Failed to record assist usage: %v", err)
		}
	}

	if s.cache != nil {
		reply := &models.Reply{
			Key:              key,
			Provider:         resp.Provider,
			Model:            resp.Model,
			ActionID:         action.ID,
			Text:             completion.Text,
			PromptTokens:     completion.PromptTokens,
			CompletionTokens: completion.CompletionTokens,
		}
		if err := s.cache.Put(ctx, reply); err != nil {
			log.Warnf("Failed to cache assist reply: %v", err)
		}
	}

	return resp, nil
}
