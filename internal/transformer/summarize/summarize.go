// Package summarize prepares whole documents for the summarize-page action.
package summarize

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"selectsense/internal/segment"
)

// SummarizeTransformer caps document text so a page fits in one prompt.
type SummarizeTransformer struct {
	maxLength int
}

// NewSummarizeTransformer returns a transformer keeping at most maxLength
// runes. A non-positive maxLength disables the cap.
func NewSummarizeTransformer(maxLength int) *SummarizeTransformer {
	return &SummarizeTransformer{
		maxLength: maxLength,
	}
}

// Transform keeps the leading sentences of text that fit within the limit.
// When even the first sentence is too long it is cut at the last word
// boundary before the limit.
func (t *SummarizeTransformer) Transform(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if t.maxLength <= 0 || utf8.RuneCountInString(text) <= t.maxLength {
		return text, nil
	}

	sentences, err := segment.Split(text, segment.ModeSentence)
	if err != nil {
		return "", fmt.Errorf("failed to split document: %w", err)
	}

	var summary strings.Builder
	length := 0
	for _, s := range sentences {
		n := utf8.RuneCountInString(s)
		if length > 0 {
			n++
		}
		if length+n > t.maxLength {
			break
		}
		if length > 0 {
			summary.WriteByte(' ')
		}
		summary.WriteString(s)
		length += n
	}
	if length > 0 {
		return summary.String(), nil
	}

	cut := string([]rune(text)[:t.maxLength])
	if i := strings.LastIndexAny(cut, " \t\n"); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut), nil
}

func (t *SummarizeTransformer) Info() string {
	return fmt.Sprintf("Summarize transformer (max length: %d)", t.maxLength)
}
