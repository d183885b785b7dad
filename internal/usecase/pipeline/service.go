package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cognicart/cognicart/internal/domain"
	"github.com/cognicart/cognicart/internal/domain/catalog"
	"github.com/cognicart/cognicart/internal/domain/convo"
	"github.com/cognicart/cognicart/internal/domain/progress"
	"github.com/cognicart/cognicart/internal/domain/rank"
	"github.com/cognicart/cognicart/internal/metrics"
)

// MaxCompareProducts caps comparison mode; extra ids are truncated.
const MaxCompareProducts = 3

// Service coordinates the request lifecycle: interpretation, ranking,
// concurrent enrichment, and response assembly. Requests are
// independent; the only shared state is the read-only catalog.
type Service struct {
	interpreter Interpreter
	ranker      Ranker
	summarizer  Summarizer
	deals       DealEvaluator
	catalog     CatalogReader
	narrator    Narrator // nil disables narrative synthesis via the provider
	narrateTTL  time.Duration
	logger      *zap.Logger
}

// New creates a pipeline coordinator. narrator may be nil.
func New(
	interpreter Interpreter,
	ranker Ranker,
	summarizer Summarizer,
	deals DealEvaluator,
	cat CatalogReader,
	narrator Narrator,
	narrateTimeout time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		interpreter: interpreter,
		ranker:      ranker,
		summarizer:  summarizer,
		deals:       deals,
		catalog:     cat,
		narrator:    narrator,
		narrateTTL:  narrateTimeout,
		logger:      logger,
	}
}

// Search runs the full pipeline for a free-text query. stream may be
// nil for non-streaming callers; when set, stage events are published
// as they occur and the terminal event carries the full response.
func (s *Service) Search(
	ctx context.Context, text string, prior convo.Context, stream *progress.Stream,
) (*Response, error) {
	return s.run(ctx, "search", text, prior, stream)
}

// FollowUp refines the previous turn. The prior context is folded into
// the interpretation as disambiguation hints before delegating to
// search mode.
func (s *Service) FollowUp(
	ctx context.Context, text string, prior convo.Context, stream *progress.Stream,
) (*Response, error) {
	if prior.IsZero() {
		// Nothing to refine; behaves as a fresh search.
		s.logger.Debug("Follow-up without prior context, treating as search")
	}
	return s.run(ctx, "follow_up", text, prior, stream)
}

func (s *Service) run(
	ctx context.Context, mode, text string, prior convo.Context, stream *progress.Stream,
) (*Response, error) {
	resp, err := s.search(ctx, text, prior, stream)
	record(mode, err)
	if err != nil {
		terminate(stream, progress.StageError, callerSafeMessage(err), nil)
		return nil, err
	}
	terminate(stream, progress.StageDone, "here is what I found", resp)
	return resp, nil
}

func (s *Service) search(
	ctx context.Context, text string, prior convo.Context, stream *progress.Stream,
) (*Response, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: query text is required", domain.ErrInvalidInput)
	}
	if s.catalog.Len() == 0 {
		return nil, domain.ErrCatalogUnavailable
	}

	publish(stream, progress.StageUnderstanding, "understanding your request")
	criteria := s.interpreter.Interpret(ctx, text, prior)

	publish(stream, progress.StageSearching, "searching the catalog")
	ranked := s.ranker.Rank(criteria)

	publish(stream, progress.StageAnalyzing, "analyzing reviews and deals")
	enriched := s.enrich(ctx, ranked.Primary)

	publish(stream, progress.StageAssembling, "assembling recommendations")

	resp := &Response{
		Query:           echoCriteria(&criteria),
		Products:        enriched,
		BudgetRelaxed:   ranked.BudgetRelaxed,
		FeaturesRelaxed: ranked.FeaturesRelaxed,
	}
	for i := range ranked.More {
		resp.MoreOptions = append(resp.MoreOptions, candidateView(&ranked.More[i]))
	}

	if len(enriched) == 0 {
		resp.Kind = KindNoMatches
		resp.Suggestions = suggestions(&criteria)
		resp.Narrative = "No products matched what I understood from your query."
		return resp, nil
	}

	resp.Kind = KindRecommendations
	resp.Narrative = s.narrative(ctx, searchPrompt(&criteria, resp), searchFallback(resp))
	return resp, nil
}

// Compare enriches 2-3 explicit products and synthesizes a comparative
// narrative. Fewer than 2 ids is a caller error; extras are truncated.
func (s *Service) Compare(ctx context.Context, ids []string) (*Response, error) {
	resp, err := s.compare(ctx, ids)
	record("compare", err)
	return resp, err
}

func (s *Service) compare(ctx context.Context, ids []string) (*Response, error) {
	if len(ids) < 2 {
		return nil, fmt.Errorf("%w: comparison needs at least 2 product ids", domain.ErrInvalidInput)
	}
	if len(ids) > MaxCompareProducts {
		ids = ids[:MaxCompareProducts]
	}

	products := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := s.catalog.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
		}
		products = append(products, p)
	}

	views := s.enrichProducts(ctx, products)
	resp := &Response{
		Kind:     KindComparison,
		Products: views,
	}
	resp.Narrative = s.narrative(ctx, comparePrompt(views), compareFallback(views))
	return resp, nil
}

// Detail returns a single product's full record with enrichment.
func (s *Service) Detail(ctx context.Context, id string) (*Response, error) {
	resp, err := s.detail(ctx, id)
	record("detail", err)
	return resp, err
}

func (s *Service) detail(ctx context.Context, id string) (*Response, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}
	p, ok := s.catalog.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}

	views := s.enrichProducts(ctx, []catalog.Product{p})
	return &Response{
		Kind:     KindDetail,
		Products: views,
	}, nil
}

// enrich fans out review summarization and deal evaluation per
// candidate and waits for all of it to settle. Order is preserved.
func (s *Service) enrich(ctx context.Context, candidates []rank.Candidate) []ProductView {
	views := make([]ProductView, len(candidates))
	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := &candidates[i]
			p := c.Product()
			views[i] = candidateView(c)
			analysis := s.summarizer.Summarize(ctx, p)
			views[i].Review = reviewView(&analysis)
			views[i].Deal = dealView(s.deals.Evaluate(p))
		}(i)
	}
	wg.Wait()
	if len(views) == 0 {
		return nil
	}
	return views
}

func (s *Service) enrichProducts(ctx context.Context, products []catalog.Product) []ProductView {
	views := make([]ProductView, len(products))
	var wg sync.WaitGroup
	for i := range products {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := products[i]
			views[i] = productView(&p)
			analysis := s.summarizer.Summarize(ctx, p)
			views[i].Review = reviewView(&analysis)
			views[i].Deal = dealView(s.deals.Evaluate(p))
		}(i)
	}
	wg.Wait()
	return views
}

// narrative asks the provider for a synthesis and falls back to the
// template on any failure.
func (s *Service) narrative(ctx context.Context, prompt, fallback string) string {
	if s.narrator == nil {
		return fallback
	}
	callCtx, cancel := context.WithTimeout(ctx, s.narrateTTL)
	defer cancel()

	text, err := s.narrator.Narrate(callCtx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			s.logger.Debug("Narrative synthesis failed, using template", zap.Error(err))
		}
		return fallback
	}
	return strings.TrimSpace(text)
}

// record counts a pipeline run by mode and outcome.
func record(mode string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.PipelineRequestsTotal.WithLabelValues(mode, status).Inc()
}

func publish(stream *progress.Stream, stage progress.Stage, message string) {
	if stream != nil {
		stream.Publish(stage, message)
	}
}

func terminate(stream *progress.Stream, stage progress.Stage, message string, data any) {
	if stream != nil {
		stream.PublishTerminal(stage, message, data)
	}
}

// callerSafeMessage maps internal errors to messages safe to stream.
func callerSafeMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return err.Error()
	case errors.Is(err, domain.ErrProductNotFound):
		return err.Error()
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return "the catalog is currently unavailable"
	default:
		return "something went wrong processing your request"
	}
}
