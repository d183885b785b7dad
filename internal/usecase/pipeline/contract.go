package pipeline

import (
	"context"

	"github.com/cognicart/cognicart/internal/domain/catalog"
	"github.com/cognicart/cognicart/internal/domain/convo"
	domdeal "github.com/cognicart/cognicart/internal/domain/deal"
	"github.com/cognicart/cognicart/internal/domain/query"
	domrev "github.com/cognicart/cognicart/internal/domain/review"
	"github.com/cognicart/cognicart/internal/usecase/ranking"
)

// Interpreter turns free text into structured criteria. Never fails.
type Interpreter interface {
	Interpret(ctx context.Context, text string, prior convo.Context) query.Criteria
}

// Ranker orders catalog products against criteria.
type Ranker interface {
	Rank(criteria query.Criteria) ranking.Result
}

// Summarizer produces a per-product review analysis. Never fails.
type Summarizer interface {
	Summarize(ctx context.Context, p catalog.Product) domrev.Analysis
}

// DealEvaluator derives a savings signal per product.
type DealEvaluator interface {
	Evaluate(p catalog.Product) domdeal.Assessment
}

// CatalogReader provides direct product lookup for comparison, detail
// and follow-up modes.
type CatalogReader interface {
	Get(id string) (catalog.Product, bool)
	Len() int
}

// Narrator produces a short free-form narrative. Optional enrichment;
// failures fall back to a templated synthesis.
type Narrator interface {
	Narrate(ctx context.Context, prompt string) (string, error)
}
