// Package categorizer decides which content category a highlighted span of
// text belongs to. Classification is pure and deterministic: the same text and
// structural hint always produce the same category, and calls share no state.
package categorizer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Category is the content type assigned to a selection.
type Category int

const (
	CategoryUnknown   Category = iota // empty selection, never scored
	CategoryCode                      // source code
	CategoryMath                      // mathematical expression
	CategoryQuestion                  // a question or instruction
	CategoryTerm                      // short term or definition request
	CategoryForeign                   // non-English text
	CategoryParagraph                 // prose paragraph
	CategoryGeneral                   // fallback when nothing is confident
)

// scoredCategories is the fixed enumeration order. Ties resolve to the
// category that appears first.
var scoredCategories = [...]Category{
	CategoryCode,
	CategoryMath,
	CategoryQuestion,
	CategoryTerm,
	CategoryForeign,
	CategoryParagraph,
}

var categoryNames = map[Category]string{
	CategoryUnknown:   "unknown",
	CategoryCode:      "code",
	CategoryMath:      "math",
	CategoryQuestion:  "question",
	CategoryTerm:      "term",
	CategoryForeign:   "foreign",
	CategoryParagraph: "paragraph",
	CategoryGeneral:   "general",
}

// String returns the lower-case name of the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if _, ok := categoryNames[c]; !ok {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory converts a category name back into a Category.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("unknown category %q", s)
}

// Categories lists every category, scored ones first in enumeration order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryNames))
	out = append(out, scoredCategories[:]...)
	return append(out, CategoryGeneral, CategoryUnknown)
}

// StructuralHint is evidence about the markup around a selection. The zero
// value means the caller could not tell.
type StructuralHint struct {
	LooksLikeCode bool `json:"looksLikeCode"`
	LooksLikeMath bool `json:"looksLikeMath"`
}

// Scores holds one score per scored category.
type Scores [len(scoredCategories)]float64

// Get returns the score for c, or 0 for categories that are never scored.
func (s *Scores) Get(c Category) float64 {
	if i, ok := scoreIndex(c); ok {
		return s[i]
	}
	return 0
}

func (s *Scores) add(c Category, v float64) {
	if i, ok := scoreIndex(c); ok {
		s[i] += v
	}
}

// Map returns the scores keyed by category name.
func (s *Scores) Map() map[string]float64 {
	m := make(map[string]float64, len(s))
	for i, c := range scoredCategories {
		m[c.String()] = s[i]
	}
	return m
}

func scoreIndex(c Category) (int, bool) {
	i := int(c) - int(CategoryCode)
	if i < 0 || i >= len(scoredCategories) {
		return 0, false
	}
	return i, true
}

// Signal is one factor that contributed to a score.
type Signal struct {
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Weight   float64  `json:"weight"`
	Detail   string   `json:"detail,omitempty"`
}

// Strategy selects between the additive scoring classifier and the older
// first-match cascade.
type Strategy string

const (
	StrategyScoring Strategy = "scoring"
	StrategyCascade Strategy = "cascade"
)

// Classification is a decision together with the evidence behind it.
type Classification struct {
	Category Category `json:"category"`
	Scores   Scores   `json:"-"`
	Signals  []Signal `json:"signals,omitempty"`
	Strategy Strategy `json:"strategy"`
}

// Options tunes the selection policy. Zero-valued fields take the value
// from DefaultOptions, so a MinLength of 1 rather than 0 turns off the
// short-selection fallback to general.
type Options struct {
	Strategy      Strategy
	MarkupBonus   float64 // added to code/math when the hint says so
	MinConfidence float64 // winning scores below this may fall back to general
	MinLength     int     // ...but only for selections shorter than this
}

// DefaultOptions returns the reference thresholds.
func DefaultOptions() Options {
	return Options{
		Strategy:      StrategyScoring,
		MarkupBonus:   10,
		MinConfidence: 2,
		MinLength:     15,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Strategy == "" {
		o.Strategy = d.Strategy
	}
	if o.MarkupBonus == 0 {
		o.MarkupBonus = d.MarkupBonus
	}
	if o.MinConfidence == 0 {
		o.MinConfidence = d.MinConfidence
	}
	if o.MinLength == 0 {
		o.MinLength = d.MinLength
	}
	return o
}

// Request is the service-level input for categorization.
type Request struct {
	Text string
	Hint StructuralHint
}

// Result is the service-level output of categorization.
type Result struct {
	Category Category           `json:"category"`
	Scores   map[string]float64 `json:"scores,omitempty"`
	Signals  []Signal           `json:"signals,omitempty"`
	Strategy Strategy           `json:"strategy"`
}

// ContentCategorizer categorizes selections.
type ContentCategorizer interface {
	Categorize(ctx context.Context, req Request) (Result, error)
}

// Classifier applies a fixed set of Options. It holds no mutable state and is
// safe for concurrent use.
type Classifier struct {
	opts Options
}

// New returns a Classifier; zero fields in opts take their defaults.
func New(opts Options) *Classifier {
	return &Classifier{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (c *Classifier) Options() Options { return c.opts }

var defaultClassifier = New(DefaultOptions())

// Classify returns the most likely category for text using the scoring
// strategy and reference thresholds.
func Classify(text string, hint StructuralHint) Category {
	return defaultClassifier.Classify(text, hint)
}

// Analyze is Classify plus the scores and signals behind the decision.
func Analyze(text string, hint StructuralHint) Classification {
	return defaultClassifier.Analyze(text, hint)
}

// Classify returns the most likely category for text.
func (c *Classifier) Classify(text string, hint StructuralHint) Category {
	if c.opts.Strategy == StrategyCascade {
		return Cascade(text, hint)
	}
	return c.Analyze(text, hint).Category
}

// Analyze classifies text and reports how the decision was reached.
func (c *Classifier) Analyze(text string, hint StructuralHint) Classification {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Classification{Category: CategoryUnknown, Strategy: c.opts.Strategy}
	}
	if c.opts.Strategy == StrategyCascade {
		return Classification{Category: Cascade(trimmed, hint), Strategy: StrategyCascade}
	}

	var t tally
	if hint.LooksLikeCode {
		t.add(CategoryCode, "code_markup", c.opts.MarkupBonus, "")
	}
	if hint.LooksLikeMath {
		t.add(CategoryMath, "math_markup", c.opts.MarkupBonus, "")
	}
	for _, s := range scorers {
		s(trimmed, &t)
	}
	disambiguate(trimmed, &t)

	return Classification{
		Category: c.selectCategory(trimmed, &t.scores),
		Scores:   t.scores,
		Signals:  t.signals,
		Strategy: StrategyScoring,
	}
}

// Categorize implements ContentCategorizer. It never fails.
func (c *Classifier) Categorize(_ context.Context, req Request) (Result, error) {
	cl := c.Analyze(req.Text, req.Hint)
	res := Result{
		Category: cl.Category,
		Signals:  cl.Signals,
		Strategy: cl.Strategy,
	}
	if cl.Strategy == StrategyScoring && cl.Category != CategoryUnknown {
		res.Scores = cl.Scores.Map()
	}
	return res, nil
}

// selectCategory picks the strictly highest score, earlier categories
// winning ties, then applies the general fallbacks.
func (c *Classifier) selectCategory(text string, scores *Scores) Category {
	best := -1
	for i := range scoredCategories {
		if best < 0 || scores[i] > scores[best] {
			best = i
		}
	}
	top := scores[best]
	if top <= 0 {
		return CategoryGeneral
	}
	if top < c.opts.MinConfidence && utf8.RuneCountInString(text) < c.opts.MinLength {
		return CategoryGeneral
	}
	return scoredCategories[best]
}

var _ ContentCategorizer = (*Classifier)(nil)
