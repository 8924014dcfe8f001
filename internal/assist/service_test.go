package assist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"selectsense/internal/actions"
	"selectsense/internal/config"
	"selectsense/internal/costtracker"
	"selectsense/internal/models"
	"selectsense/internal/store"
	"selectsense/pkg/categorizer"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Complete(ctx context.Context, prompt string) (Completion, error) {
	args := m.Called(ctx, prompt)
	return args.Get(0).(Completion), args.Error(1)
}

func (m *MockProvider) Name() string                  { return "mock" }
func (m *MockProvider) ModelName() string             { return "mock-model" }
func (m *MockProvider) Status() models.ProviderStatus { return models.ProviderStatusActive }
func (m *MockProvider) Close() error                  { return nil }

func newTestService(p CompletionProvider) (*Service, costtracker.CostTracker) {
	costs := costtracker.New(map[string]map[string]config.PricingInfo{
		"mock": {"mock-model": {InputPerToken: 0.001, OutputPerToken: 0.002}},
	})
	svc := NewService(categorizer.New(categorizer.DefaultOptions()), actions.NewCatalog(), p, store.NewMemoryCache(), costs, 0)
	return svc, costs
}

func TestAssist_CallsProviderThenCaches(t *testing.T) {
	p := new(MockProvider)
	p.On("Complete", mock.Anything, "Provide a clear definition of the following term, along with an example if appropriate:\n\n\"Machine Learning\"").
		Return(Completion{Text: "A field of AI.", PromptTokens: 20, CompletionTokens: 5}, nil).Once()

	svc, costs := newTestService(p)
	ctx := context.Background()

	resp, err := svc.Assist(ctx, Request{Text: "  Machine Learning  ", ActionID: "define"})
	require.NoError(t, err)
	assert.Equal(t, categorizer.CategoryTerm, resp.Category)
	assert.Equal(t, "define", resp.Action.ID)
	assert.Equal(t, "A field of AI.", resp.Reply)
	assert.False(t, resp.Cached)
	assert.Equal(t, "mock", resp.Provider)
	assert.Equal(t, "mock-model", resp.Model)

	again, err := svc.Assist(ctx, Request{Text: "Machine Learning", ActionID: "define"})
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, "A field of AI.", again.Reply)

	p.AssertExpectations(t)

	summary, err := costs.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Events)
	assert.InDelta(t, 20*0.001+5*0.002, summary.TotalCost, 1e-9)
	assert.InDelta(t, summary.TotalCost, summary.ByOperation[models.OperationAssist], 1e-9)
}

func TestAssist_QuestionIsPartOfCacheKey(t *testing.T) {
	p := new(MockProvider)
	p.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return prompt != ""
	})).Return(Completion{Text: "answer"}, nil).Twice()

	svc, _ := newTestService(p)
	for _, q := range []string{"what?", "why?"} {
		resp, err := svc.Assist(context.Background(), Request{Text: "some context", ActionID: "ask", Question: q})
		require.NoError(t, err)
		assert.False(t, resp.Cached)
	}
	p.AssertExpectations(t)
}

func TestAssist_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		req    Request
		errMsg string
	}{
		{"empty text", Request{Text: "   ", ActionID: "define"}, "empty"},
		{"unknown action", Request{Text: "x", ActionID: "paint"}, "unknown action"},
		{"suggests close ids", Request{Text: "x", ActionID: "dbg"}, "did you mean debug-code"},
		{"ask without question", Request{Text: "x", ActionID: "ask"}, "requires a question"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := new(MockProvider)
			svc, _ := newTestService(p)
			_, err := svc.Assist(context.Background(), tc.req)
			require.ErrorIs(t, err, models.ErrValidation)
			assert.Contains(t, err.Error(), tc.errMsg)
			p.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
		})
	}
}

func TestAssist_ProviderErrorIsNotCached(t *testing.T) {
	p := new(MockProvider)
	p.On("Complete", mock.Anything, mock.Anything).
		Return(Completion{}, errors.New("boom")).Once()
	p.On("Complete", mock.Anything, mock.Anything).
		Return(Completion{Text: "ok"}, nil).Once()

	svc, costs := newTestService(p)
	_, err := svc.Assist(context.Background(), Request{Text: "x = 2 + 3", ActionID: "solve"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	resp, err := svc.Assist(context.Background(), Request{Text: "x = 2 + 3", ActionID: "solve"})
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Equal(t, "ok", resp.Reply)

	total, err := costs.TotalCost(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestAssist_DisabledProvider(t *testing.T) {
	svc := NewService(categorizer.New(categorizer.Options{}), nil, NewNoopProvider("together"), nil, nil, 0)
	_, err := svc.Assist(context.Background(), Request{Text: "hello", ActionID: "explain"})
	assert.ErrorIs(t, err, models.ErrProviderDisabled)
}

func TestAssist_UsesCodeHint(t *testing.T) {
	p := new(MockProvider)
	p.On("Complete", mock.Anything, mock.Anything).Return(Completion{Text: "it adds"}, nil)

	svc, _ := newTestService(p)
	resp, err := svc.Assist(context.Background(), Request{
		Text:     "total",
		Hint:     categorizer.StructuralHint{LooksLikeCode: true},
		ActionID: "explain-code",
	})
	require.NoError(t, err)
	assert.Equal(t, categorizer.CategoryCode, resp.Category)
}

type truncator struct{ n int }

func (t truncator) Transform(_ context.Context, text string) (string, error) {
	return text[:min(t.n, len(text))], nil
}

func TestAssist_PageTransformerOnlyForSummarizePage(t *testing.T) {
	p := new(MockProvider)
	p.On("Complete", mock.Anything, "Please provide a concise summary of the following content, focusing on the key points and main ideas:\n\nLong").
		Return(Completion{Text: "short"}, nil).Once()
	p.On("Complete", mock.Anything, "Provide a concise summary of the following text, capturing the main points and key information:\n\n\"Long page body\"").
		Return(Completion{Text: "short"}, nil).Once()

	svc, _ := newTestService(p)
	svc.SetPageTransformer(truncator{n: 4})

	_, err := svc.Assist(context.Background(), Request{Text: "Long page body", ActionID: actions.SummarizePage})
	require.NoError(t, err)
	_, err = svc.Assist(context.Background(), Request{Text: "Long page body", ActionID: actions.Summarize})
	require.NoError(t, err)
	p.AssertExpectations(t)
}
