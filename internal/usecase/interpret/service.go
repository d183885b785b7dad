package interpret

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cognicart/cognicart/internal/domain"
	"github.com/cognicart/cognicart/internal/domain/convo"
	"github.com/cognicart/cognicart/internal/domain/query"
)

// Sort intents the ranking layer understands; anything else is dropped.
var knownSortIntents = map[string]struct{}{
	"price_asc":  {},
	"price_desc": {},
	"rating":     {},
	"popularity": {},
}

// Service turns free-text shopping queries into structured criteria.
// A failing or slow provider degrades to the heuristic extractor; the
// service itself never fails.
type Service struct {
	extractor Extractor
	brands    BrandLister
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a query interpretation service.
func New(extractor Extractor, brands BrandLister, timeout time.Duration, logger *zap.Logger) *Service {
	return &Service{
		extractor: extractor,
		brands:    brands,
		timeout:   timeout,
		logger:    logger,
	}
}

// Interpret extracts structured criteria from the query text. Prior
// conversation context, when present, is folded into the prompt as
// disambiguation hints.
func (s *Service) Interpret(ctx context.Context, text string, prior convo.Context) query.Criteria {
	hints := buildHints(prior)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	extraction, err := s.extractor.Extract(callCtx, text, hints)
	if err != nil {
		s.logger.Warn("Extraction failed, using heuristic fallback",
			zap.String("query", text), zap.Error(err))
		return Heuristic(text, s.brands.Brands())
	}

	criteria := fromExtraction(extraction)
	if criteria.IsEmpty() {
		// Provider returned nothing usable; the heuristic may still
		// recover a budget or brand from the raw text.
		return Heuristic(text, s.brands.Brands())
	}
	return criteria
}

// fromExtraction validates and converts provider output. Garbled fields
// are dropped, not fatal.
func fromExtraction(e domain.Extraction) query.Criteria {
	sortIntent := strings.TrimSpace(strings.ToLower(e.SortIntent))
	if _, ok := knownSortIntents[sortIntent]; !ok {
		sortIntent = ""
	}

	budget := query.NewBudget(e.BudgetMin, e.BudgetMax)

	return query.New(
		e.ProductType, e.Category,
		e.RequiredFeatures, e.PreferredBrands,
		budget, sortIntent, e.Terms,
	)
}

// buildHints renders the prior turn as prompt hint lines.
func buildHints(prior convo.Context) []string {
	if prior.IsZero() {
		return nil
	}

	var hints []string
	if q := prior.PriorQuery(); q != "" {
		hints = append(hints, fmt.Sprintf("previous query: %s", q))
	}
	if c, ok := prior.PriorCriteria(); ok {
		if pt := c.ProductType(); pt != "" {
			hints = append(hints, fmt.Sprintf("previously looking for: %s", pt))
		}
		if b := c.Budget(); !b.IsZero() {
			if max, ok := b.Max(); ok {
				hints = append(hints, fmt.Sprintf("previous budget cap: %.0f", max))
			}
		}
		if brands := c.PreferredBrands(); len(brands) > 0 {
			hints = append(hints, fmt.Sprintf("previously preferred brands: %s", strings.Join(brands, ", ")))
		}
	}
	if ids := prior.PriorProductIDs(); len(ids) > 0 {
		hints = append(hints, fmt.Sprintf("previously shown products: %s", strings.Join(ids, ", ")))
	}
	return hints
}
