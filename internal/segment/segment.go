// Package segment splits batch input into selections to classify.
package segment

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"

	"selectsense/internal/models"
)

// Mode selects how input text is split.
type Mode string

const (
	ModeLine      Mode = "line"
	ModeParagraph Mode = "paragraph"
	ModeSentence  Mode = "sentence"
	ModeWhole     Mode = "whole"
)

// Modes lists the supported modes.
func Modes() []Mode {
	return []Mode{ModeLine, ModeParagraph, ModeSentence, ModeWhole}
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown split mode %q", models.ErrValidation, s)
}

var blankLineRe = regexp.MustCompile(`\n[ \t]*\n`)

// Split cuts text into trimmed, non-empty segments.
func Split(text string, mode Mode) ([]string, error) {
	var parts []string
	switch mode {
	case ModeLine:
		parts = strings.Split(text, "\n")
	case ModeParagraph:
		parts = blankLineRe.Split(strings.ReplaceAll(text, "\r\n", "\n"), -1)
	case ModeSentence:
		tokenizer, err := sentenceTokenizer()
		if err != nil {
			return nil, err
		}
		for _, s := range tokenizer.Tokenize(text) {
			parts = append(parts, s.Text)
		}
	case ModeWhole:
		parts = []string{text}
	default:
		return nil, fmt.Errorf("%w: unknown split mode %q", models.ErrValidation, mode)
	}

	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return segments, nil
}

var (
	tokenizerOnce sync.Once
	tokenizer     *sentences.DefaultSentenceTokenizer
	tokenizerErr  error
)

// sentenceTokenizer loads the English Punkt model once.
func sentenceTokenizer() (*sentences.DefaultSentenceTokenizer, error) {
	tokenizerOnce.Do(func() {
		tokenizer, tokenizerErr = english.NewSentenceTokenizer(nil)
		if tokenizerErr != nil {
			tokenizerErr = fmt.Errorf("failed to create sentence tokenizer: %w", tokenizerErr)
		}
	})
	return tokenizer, tokenizerErr
}
