// Package actions maps content categories to the follow-up actions offered
// for a selection, and renders the prompt each action sends to the model.
package actions

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"selectsense/internal/models"
	"selectsense/pkg/categorizer"
)

// Template placeholders.
const (
	SelectionPlaceholder = "{{SELECTION}}"
	QuestionPlaceholder  = "{{QUESTION}}"
)

// Action IDs.
const (
	Ask           = "ask"
	Answer        = "answer"
	Define        = "define"
	DebugCode     = "debug-code"
	Examples      = "examples"
	Explain       = "explain"
	ExplainCode   = "explain-code"
	ExplainMath   = "explain-math"
	ImproveCode   = "improve-code"
	KeyPoints     = "key-points"
	Solve         = "solve"
	Summarize     = "summarize"
	SummarizePage = "summarize-page"
	Translate     = "translate"
)

// Action is one follow-up offered for a selection.
type Action struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	Template      string `json:"-"`
	NeedsQuestion bool   `json:"needs_question,omitempty"`
}

// Prompt renders the action's template for selection. Actions that need a
// question fail with models.ErrValidation when it is empty.
func (a Action) Prompt(selection, question string) (string, error) {
	question = strings.TrimSpace(question)
	if a.NeedsQuestion && question == "" {
		return "", fmt.Errorf("%w: action %q requires a question", models.ErrValidation, a.ID)
	}
	r := strings.NewReplacer(SelectionPlaceholder, selection, QuestionPlaceholder, question)
	return r.Replace(a.Template), nil
}

var builtin = []Action{
	{ID: ExplainCode, Label: "Explain Code", Template: "Explain the following code in detail, describing what it does and how it works:\n\n```\n{{SELECTION}}\n```"},
	{ID: ImproveCode, Label: "Improve Code", Template: "Review the following code and suggest improvements for better readability, performance, and best practices:\n\n```\n{{SELECTION}}\n```\n\nPlease provide an improved version with explanations for the changes."},
	{ID: DebugCode, Label: "Debug Code", Template: "Debug the following code. Identify any issues, bugs, or potential problems, and suggest fixes:\n\n```\n{{SELECTION}}\n```"},
	{ID: Answer, Label: "Answer Question", Template: "Please answer the following question comprehensively and accurately:\n\n\"{{SELECTION}}\""},
	{ID: Solve, Label: "Solve", Template: "Solve the following mathematical expression or equation, showing the complete solution and final answer:\n\n{{SELECTION}}"},
	{ID: ExplainMath, Label: "Explain Steps", Template: "Explain the step-by-step process for solving this mathematical expression or equation:\n\n{{SELECTION}}\n\nPlease provide a detailed explanation of each step in the solution process."},
	{ID: Define, Label: "Define", Template: "Provide a clear definition of the following term, along with an example if appropriate:\n\n\"{{SELECTION}}\""},
	{ID: Explain, Label: "Explain", Template: "Please explain the following text in simple terms, providing context and any additional relevant information:\n\n\"{{SELECTION}}\""},
	{ID: Examples, Label: "Give Examples", Template: "Provide multiple examples and use cases for the term or concept:\n\n\"{{SELECTION}}\"\n\nPlease include diverse examples that illustrate the meaning and applications."},
	{ID: Translate, Label: "Translate", Template: "Translate the following text to English while preserving the original meaning and context:\n\n\"{{SELECTION}}\""},
	{ID: Summarize, Label: "Summarize", Template: "Provide a concise summary of the following text, capturing the main points and key information:\n\n\"{{SELECTION}}\""},
	{ID: KeyPoints, Label: "Key Points", Template: "Extract and list the key points from the following text:\n\n\"{{SELECTION}}\"\n\nPlease provide the most important ideas and information in a clear, organized format."},
	{ID: SummarizePage, Label: "Summarize Page", Template: "Please provide a concise summary of the following content, focusing on the key points and main ideas:\n\n{{SELECTION}}"},
	{ID: Ask, Label: "Ask AI", Template: "Question: {{QUESTION}}\n\nContext: \"{{SELECTION}}\"\n\nPlease answer the question based on the provided context.", NeedsQuestion: true},
}

var (
	defaultSet = []string{Explain, Define, Translate, Ask}

	byCategory = map[categorizer.Category][]string{
		categorizer.CategoryCode:      {ExplainCode, ImproveCode, DebugCode, Ask},
		categorizer.CategoryQuestion:  {Answer, Explain, Ask},
		categorizer.CategoryMath:      {Solve, ExplainMath, Ask},
		categorizer.CategoryTerm:      {Define, Explain, Examples, Ask},
		categorizer.CategoryForeign:   {Translate, Ask},
		categorizer.CategoryParagraph: {Summarize, Explain, KeyPoints, Ask},
	}
)

// Catalog holds the action set. It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	actions map[string]Action
}

// NewCatalog returns a catalog with the built-in templates.
func NewCatalog() *Catalog {
	c := &Catalog{actions: make(map[string]Action, len(builtin))}
	for _, a := range builtin {
		c.actions[a.ID] = a
	}
	return c
}

var defaultCatalog = NewCatalog()

// ForCategory returns the built-in actions offered for category.
func ForCategory(category categorizer.Category) []Action {
	return defaultCatalog.ForCategory(category)
}

// Lookup finds a built-in action by ID.
func Lookup(id string) (Action, bool) {
	return defaultCatalog.Lookup(id)
}

// ForCategory returns the actions offered for category, in display order.
// General and unknown selections get the default set.
func (c *Catalog) ForCategory(category categorizer.Category) []Action {
	ids, ok := byCategory[category]
	if !ok {
		ids = defaultSet
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Action, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.actions[id])
	}
	return out
}

// Lookup finds an action by ID.
func (c *Catalog) Lookup(id string) (Action, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.actions[strings.ToLower(strings.TrimSpace(id))]
	return a, ok
}

// IDs lists every action ID in sorted order.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.actions))
	for id := range c.actions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Suggest returns up to three action IDs that fuzzily match id.
func (c *Catalog) Suggest(id string) []string {
	matches := fuzzy.Find(strings.ToLower(strings.TrimSpace(id)), c.IDs())
	var out []string
	for i, m := range matches {
		if i == 3 {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// Override replaces the template of an existing action.
func (c *Catalog) Override(id, template string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.actions[id]
	if !ok {
		return fmt.Errorf("%w: unknown action %q", models.ErrValidation, id)
	}
	if !strings.Contains(template, SelectionPlaceholder) {
		return fmt.Errorf("%w: template for %q must contain %s", models.ErrValidation, id, SelectionPlaceholder)
	}
	if a.NeedsQuestion && !strings.Contains(template, QuestionPlaceholder) {
		return fmt.Errorf("%w: template for %q must contain %s", models.ErrValidation, id, QuestionPlaceholder)
	}
	a.Template = template
	c.actions[id] = a
	return nil
}
