package pipeline

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/cognicart/cognicart/internal/domain/catalog"
	"github.com/cognicart/cognicart/internal/domain/convo"
	domdeal "github.com/cognicart/cognicart/internal/domain/deal"
	"github.com/cognicart/cognicart/internal/domain/query"
	"github.com/cognicart/cognicart/internal/domain/rank"
	domrev "github.com/cognicart/cognicart/internal/domain/review"
	"github.com/cognicart/cognicart/internal/usecase/ranking"
)

type mockInterpreter struct {
	criteria query.Criteria
}

func (m *mockInterpreter) Interpret(_ context.Context, _ string, _ convo.Context) query.Criteria {
	return m.criteria
}

type mockRanker struct {
	result ranking.Result
}

func (m *mockRanker) Rank(_ query.Criteria) ranking.Result { return m.result }

type mockSummarizer struct {
	analysis domrev.Analysis
	calls    int
}

func (m *mockSummarizer) Summarize(_ context.Context, _ catalog.Product) domrev.Analysis {
	m.calls++
	return m.analysis
}

type mockDeals struct{}

func (mockDeals) Evaluate(p catalog.Product) domdeal.Assessment {
	if ref, ok := p.ReferencePrice(); ok && ref > p.Price() {
		return domdeal.New(true, ref-p.Price(), (ref-p.Price())/ref*100, "discounted")
	}
	return domdeal.NoDeal("no discount")
}

type mockCatalog struct {
	byID  map[string]catalog.Product
	order []string
}

func newMockCatalog(t *testing.T, products ...catalog.Product) *mockCatalog {
	t.Helper()
	m := &mockCatalog{byID: map[string]catalog.Product{}}
	for _, p := range products {
		m.byID[p.ID()] = p
		m.order = append(m.order, p.ID())
	}
	return m
}

func (m *mockCatalog) Get(id string) (catalog.Product, bool) {
	p, ok := m.byID[id]
	return p, ok
}

func (m *mockCatalog) Len() int { return len(m.byID) }

type mockNarrator struct {
	text  string
	err   error
	calls int
}

func (m *mockNarrator) Narrate(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.text, m.err
}

func buildProduct(t *testing.T, id string, price, referencePrice float64, features ...string) catalog.Product {
	t.Helper()
	p, err := catalog.New(id, id+" title", "boAt", "electronics", "headphones",
		price, "INR", 4.2, 500, features, catalog.InStock, referencePrice)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func candidates(products ...catalog.Product) []rank.Candidate {
	out := make([]rank.Candidate, 0, len(products))
	for i, p := range products {
		out = append(out, rank.NewCandidate(p, 1-float64(i)*0.1, nil, 0))
	}
	return out
}

func svcCriteria() query.Criteria {
	return query.New("headphones", "electronics", nil, nil, query.Budget{}, "", nil)
}

func newTestService(
	t *testing.T,
	cat *mockCatalog,
	ranked ranking.Result,
	summarizer *mockSummarizer,
	narrator Narrator,
) *Service {
	t.Helper()
	if summarizer == nil {
		summarizer = &mockSummarizer{analysis: domrev.New(
			domrev.NewSentiment(70, 20, 10), []string{"battery"}, nil, nil, "good",
		)}
	}
	interp := &mockInterpreter{criteria: query.New("headphones", "electronics", nil, nil, query.Budget{}, "", nil)}
	return New(interp, &mockRanker{result: ranked}, summarizer, mockDeals{}, cat,
		narrator, 100*time.Millisecond, zap.NewNop())
}
