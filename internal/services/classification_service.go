package services

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"selectsense/internal/hint"
	"selectsense/internal/models"
	"selectsense/internal/segment"
	"selectsense/internal/util"
	"selectsense/pkg/categorizer"
)

// Item is one selection in a batch.
type Item struct {
	Text string                     `json:"text"`
	Hint categorizer.StructuralHint `json:"hint"`
	Tag  string                     `json:"tag,omitempty"` // source element when the item came from HTML
}

// ItemResult pairs a batch item with its categorization. Results keep the
// index of their input item.
type ItemResult struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Tag   string `json:"tag,omitempty"`
	categorizer.Result
}

// ClassificationService categorizes single selections and batches.
type ClassificationService struct {
	Categorizer categorizer.ContentCategorizer
	concurrency int
	maxItems    int // 0 means unbounded
}

// NewClassificationService creates a service that classifies at most
// concurrency items at a time.
func NewClassificationService(cat categorizer.ContentCategorizer, concurrency int) *ClassificationService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &ClassificationService{Categorizer: cat, concurrency: concurrency}
}

// WithMaxItems returns a copy of the service that rejects batches of more
// than n items, however they were produced.
func (s *ClassificationService) WithMaxItems(n int) *ClassificationService {
	limited := *s
	limited.maxItems = n
	return &limited
}

// Classify categorizes one selection.
func (s *ClassificationService) Classify(ctx context.Context, text string, h categorizer.StructuralHint) (categorizer.Result, error) {
	return s.Categorizer.Categorize(ctx, categorizer.Request{Text: text, Hint: h})
}

// ClassifyBatch categorizes items concurrently. Results are in input order.
func (s *ClassificationService) ClassifyBatch(ctx context.Context, items []Item) ([]ItemResult, error) {
	if s.maxItems > 0 && len(items) > s.maxItems {
		return nil, fmt.Errorf("%w: too many items: %d (max %d)", models.ErrValidation, len(items), s.maxItems)
	}
	results := make([]ItemResult, len(items))
	if len(items) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Categorizer.Categorize(gctx, categorizer.Request{Text: item.Text, Hint: item.Hint})
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			results[i] = ItemResult{Index: i, Text: item.Text, Tag: item.Tag, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debugf("Classified %d items with concurrency %d", len(items), s.concurrency)
	return results, nil
}

// ClassifyText cleans raw text, splits it by mode and classifies each
// segment with the same hint.
func (s *ClassificationService) ClassifyText(ctx context.Context, raw []byte, src string, mode segment.Mode, h categorizer.StructuralHint) ([]ItemResult, error) {
	text, err := util.CleanText(raw, src)
	if err != nil {
		return nil, err
	}
	parts, err := segment.Split(text, mode)
	if err != nil {
		return nil, err
	}
	items := make([]Item, len(parts))
	for i, p := range parts {
		items[i] = Item{Text: p, Hint: h}
	}
	return s.ClassifyBatch(ctx, items)
}

// ClassifyHTML classifies every block of an HTML document, each with the
// hint derived from its own markup.
func (s *ClassificationService) ClassifyHTML(ctx context.Context, r io.Reader) ([]ItemResult, error) {
	blocks, err := hint.Blocks(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	items := make([]Item, len(blocks))
	for i, b := range blocks {
		items[i] = Item{Text: b.Text, Hint: b.Hint, Tag: b.Tag}
	}
	return s.ClassifyBatch(ctx, items)
}
