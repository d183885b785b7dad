package chi

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cognicart/cognicart/internal/domain/catalog"
	"github.com/cognicart/cognicart/internal/domain/convo"
	domdeal "github.com/cognicart/cognicart/internal/domain/deal"
	"github.com/cognicart/cognicart/internal/domain/query"
	"github.com/cognicart/cognicart/internal/domain/rank"
	domrev "github.com/cognicart/cognicart/internal/domain/review"
	healthuc "github.com/cognicart/cognicart/internal/usecase/health"
	pipelineuc "github.com/cognicart/cognicart/internal/usecase/pipeline"
	"github.com/cognicart/cognicart/internal/usecase/ranking"
)

type stubInterpreter struct {
	criteria query.Criteria
}

func (s *stubInterpreter) Interpret(_ context.Context, _ string, _ convo.Context) query.Criteria {
	return s.criteria
}

type stubRanker struct {
	result ranking.Result
}

func (s *stubRanker) Rank(_ query.Criteria) ranking.Result { return s.result }

type stubSummarizer struct{}

func (s *stubSummarizer) Summarize(_ context.Context, _ catalog.Product) domrev.Analysis {
	return domrev.New(
		domrev.NewSentiment(70, 20, 10),
		[]string{"great sound"}, []string{"average mic"}, nil,
		"well liked overall",
	)
}

type stubDeals struct{}

func (s *stubDeals) Evaluate(p catalog.Product) domdeal.Assessment {
	ref, ok := p.ReferencePrice()
	if !ok || ref <= p.Price() {
		return domdeal.NoDeal("selling at or above list price")
	}
	savings := ref - p.Price()
	return domdeal.New(true, savings, savings/ref*100, "below list price")
}

type stubCatalog struct {
	products map[string]catalog.Product
}

func (s *stubCatalog) Get(id string) (catalog.Product, bool) {
	p, ok := s.products[id]
	return p, ok
}

func (s *stubCatalog) Len() int { return len(s.products) }

func buildProduct(t *testing.T, id string, price, reference float64) catalog.Product {
	t.Helper()
	p, err := catalog.New(
		id, "Product "+id, "boAt", "electronics", "headphones",
		price, "INR", 4.3, 1200,
		[]string{"bluetooth", "mic"},
		catalog.InStock, reference,
	)
	if err != nil {
		t.Fatalf("buildProduct(%s): %v", id, err)
	}
	return p
}

func candidateFor(p catalog.Product, score float64) rank.Candidate {
	return rank.NewCandidate(p, score, map[string]float64{rank.TermRating: score}, 0)
}

// newTestServer wires a full pipeline over stubs and serves it through
// a chi router, the way main wires the real thing.
func newTestServer(t *testing.T, cat *stubCatalog, ranked ranking.Result) *httptest.Server {
	t.Helper()

	pipe := pipelineuc.New(
		&stubInterpreter{criteria: query.Empty()},
		&stubRanker{result: ranked},
		&stubSummarizer{},
		&stubDeals{},
		cat,
		nil,
		time.Second,
		zap.NewNop(),
	)
	health := healthuc.New(cat, nil, nil)

	srv := NewServer(pipe, health, zap.NewNop())
	r := chirouter.NewRouter()
	srv.RegisterRoutes(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}
