package review

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cognicart/cognicart/internal/domain"
	"github.com/cognicart/cognicart/internal/domain/catalog"
	domrev "github.com/cognicart/cognicart/internal/domain/review"
)

// Service summarizes product reviews via the understanding provider.
// Summarization is enrichment: a failing provider yields the neutral
// default, never an error.
type Service struct {
	describer Describer
	cache     Cache // nil when caching is disabled
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a review summarization service. cache may be nil.
func New(describer Describer, cache Cache, timeout time.Duration, logger *zap.Logger) *Service {
	return &Service{
		describer: describer,
		cache:     cache,
		timeout:   timeout,
		logger:    logger,
	}
}

// Summarize produces a review analysis for the product. Never fails;
// provider errors and timeouts degrade to the unavailable default.
func (s *Service) Summarize(ctx context.Context, p catalog.Product) domrev.Analysis {
	if s.cache != nil {
		if a, ok := s.cache.Get(ctx, p); ok {
			return a
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	digest, err := s.describer.Describe(callCtx, attributes(p))
	if err != nil {
		s.logger.Warn("Review summarization failed, using neutral default",
			zap.String("product_id", p.ID()), zap.Error(err))
		return domrev.Unavailable()
	}

	analysis := domrev.New(
		domrev.NewSentiment(digest.PositivePct, digest.NeutralPct, digest.NegativePct),
		digest.Praises, digest.Complaints, digest.RedFlags,
		digest.Summary,
	)

	if s.cache != nil {
		s.cache.Put(ctx, p, analysis)
	}
	return analysis
}

func attributes(p catalog.Product) domain.ProductAttributes {
	return domain.ProductAttributes{
		ID:          p.ID(),
		Title:       p.Title(),
		Brand:       p.Brand(),
		Category:    p.Category(),
		ProductType: p.ProductType(),
		Price:       p.Price(),
		Currency:    p.Currency(),
		Rating:      p.Rating(),
		ReviewCount: p.ReviewCount(),
		Features:    p.Features(),
	}
}
