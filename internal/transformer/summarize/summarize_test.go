package summarize

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform(t *testing.T) {
	text := "The first sentence is here. The second one follows. A third closes the page."

	testCases := []struct {
		name      string
		maxLength int
		want      string
	}{
		{"no cap", 0, text},
		{"fits entirely", 500, text},
		{"keeps whole sentences", 55, "The first sentence is here. The second one follows."},
		{"one sentence", 30, "The first sentence is here."},
		{"cuts long sentence at a word", 12, "The first"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewSummarizeTransformer(tc.maxLength).Transform(context.Background(), text)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			if tc.maxLength > 0 {
				assert.LessOrEqual(t, len([]rune(got)), tc.maxLength)
			}
		})
	}
}

func TestTransform_CountsRunes(t *testing.T) {
	text := strings.Repeat("é", 10)
	got, err := NewSummarizeTransformer(4).Transform(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, "éééé", got)
}

func TestTransform_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSummarizeTransformer(10).Transform(ctx, "text")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInfo(t *testing.T) {
	assert.Equal(t, "Summarize transformer (max length: 80)", NewSummarizeTransformer(80).Info())
}
