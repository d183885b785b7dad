package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cognicart/cognicart/internal/domain"
	"github.com/cognicart/cognicart/internal/domain/convo"
	"github.com/cognicart/cognicart/internal/domain/progress"
	domrev "github.com/cognicart/cognicart/internal/domain/review"
	"github.com/cognicart/cognicart/internal/usecase/ranking"
)

func TestSearch(t *testing.T) {
	p1 := buildProduct(t, "p1", 1499, 2990, "bluetooth")
	p2 := buildProduct(t, "p2", 1799, 0)
	cat := newMockCatalog(t, p1, p2)
	svc := newTestService(t, cat, ranking.Result{Primary: candidates(p1, p2)}, nil, nil)

	resp, err := svc.Search(context.Background(), "bluetooth headphones", convo.Context{}, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if resp.Kind != KindRecommendations {
		t.Errorf("Kind = %q", resp.Kind)
	}
	if len(resp.Products) != 2 {
		t.Fatalf("got %d products", len(resp.Products))
	}
	if resp.Products[0].ID != "p1" {
		t.Errorf("order not preserved: %q first", resp.Products[0].ID)
	}
	if resp.Products[0].Review == nil || resp.Products[0].Review.PositivePct != 70 {
		t.Error("missing review enrichment")
	}
	if resp.Products[0].Deal == nil || !resp.Products[0].Deal.HasDeal {
		t.Error("p1 should carry a deal (1499 vs 2990)")
	}
	if resp.Products[1].Deal.HasDeal {
		t.Error("p2 has no reference price, must not be a deal")
	}
	if resp.Query == nil || resp.Query.ProductType != "headphones" {
		t.Error("response must echo the parsed criteria")
	}
	if resp.Narrative == "" {
		t.Error("expected a narrative")
	}
}

func TestSearch_StageOrder(t *testing.T) {
	p1 := buildProduct(t, "p1", 1499, 0)
	cat := newMockCatalog(t, p1)
	svc := newTestService(t, cat, ranking.Result{Primary: candidates(p1)}, nil, nil)

	stream := progress.NewStream(0)
	done := make(chan struct{})
	var stages []progress.Stage
	var terminalData any
	go func() {
		defer close(done)
		for ev := range stream.Events() {
			stages = append(stages, ev.Stage)
			if ev.Stage.IsTerminal() {
				terminalData = ev.Data
			}
		}
	}()

	if _, err := svc.Search(context.Background(), "headphones", convo.Context{}, stream); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	<-done

	want := []progress.Stage{
		progress.StageUnderstanding,
		progress.StageSearching,
		progress.StageAnalyzing,
		progress.StageAssembling,
		progress.StageDone,
	}
	if len(stages) != len(want) {
		t.Fatalf("stages = %v, want %v", stages, want)
	}
	doneCount := 0
	for i, st := range stages {
		if st != want[i] {
			t.Errorf("stage[%d] = %q, want %q", i, st, want[i])
		}
		if st == progress.StageDone {
			doneCount++
		}
	}
	if doneCount != 1 {
		t.Errorf("done emitted %d times", doneCount)
	}
	if _, ok := terminalData.(*Response); !ok {
		t.Error("terminal event must carry the full response")
	}
}

func TestSearch_EmptyTextIsInputError(t *testing.T) {
	cat := newMockCatalog(t, buildProduct(t, "p1", 100, 0))
	svc := newTestService(t, cat, ranking.Result{}, nil, nil)

	stream := progress.NewStream(0)
	_, err := svc.Search(context.Background(), "   ", convo.Context{}, stream)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}

	var last progress.Event
	for ev := range stream.Events() {
		last = ev
	}
	if last.Stage != progress.StageError {
		t.Errorf("terminal stage = %q, want error", last.Stage)
	}
}

func TestSearch_EmptyCatalogIsFatal(t *testing.T) {
	svc := newTestService(t, newMockCatalog(t), ranking.Result{}, nil, nil)

	_, err := svc.Search(context.Background(), "headphones", convo.Context{}, nil)
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Fatalf("error = %v, want ErrCatalogUnavailable", err)
	}
}

func TestSearch_NoMatches(t *testing.T) {
	cat := newMockCatalog(t, buildProduct(t, "p1", 100, 0))
	svc := newTestService(t, cat, ranking.Result{}, nil, nil)

	resp, err := svc.Search(context.Background(), "underwater basket", convo.Context{}, nil)
	if err != nil {
		t.Fatalf("no matches must not be an error, got %v", err)
	}
	if resp.Kind != KindNoMatches {
		t.Errorf("Kind = %q", resp.Kind)
	}
	if len(resp.Suggestions) == 0 {
		t.Error("no-match response should carry suggestions")
	}
	if resp.Query == nil {
		t.Error("no-match response must still echo the criteria")
	}
}

func TestSearch_RelaxedBudgetFlagged(t *testing.T) {
	p1 := buildProduct(t, "p1", 1299, 0)
	cat := newMockCatalog(t, p1)
	svc := newTestService(t, cat,
		ranking.Result{Primary: candidates(p1), BudgetRelaxed: true}, nil, nil)

	resp, err := svc.Search(context.Background(), "headphones under 1000", convo.Context{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !resp.BudgetRelaxed {
		t.Error("BudgetRelaxed flag lost in assembly")
	}
	if !strings.Contains(resp.Narrative, "closest alternatives") {
		t.Errorf("narrative should mention closest alternatives: %q", resp.Narrative)
	}
}

func TestSearch_RelaxedFeaturesFlagged(t *testing.T) {
	p1 := buildProduct(t, "p1", 1299, 0)
	cat := newMockCatalog(t, p1)
	svc := newTestService(t, cat,
		ranking.Result{Primary: candidates(p1), BudgetRelaxed: true, FeaturesRelaxed: true}, nil, nil)

	resp, err := svc.Search(context.Background(), "noise cancelling headphones under 1000", convo.Context{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !resp.FeaturesRelaxed {
		t.Error("FeaturesRelaxed flag lost in assembly")
	}
	if !resp.BudgetRelaxed {
		t.Error("BudgetRelaxed flag lost in assembly")
	}
	if !strings.Contains(resp.Narrative, "features had to be relaxed") {
		t.Errorf("narrative should mention the relaxed features: %q", resp.Narrative)
	}
}

func TestSearch_DegradedEnrichment(t *testing.T) {
	p1 := buildProduct(t, "p1", 1499, 0)
	cat := newMockCatalog(t, p1)
	summarizer := &mockSummarizer{analysis: domrev.Unavailable()}
	svc := newTestService(t, cat, ranking.Result{Primary: candidates(p1)}, summarizer, nil)

	resp, err := svc.Search(context.Background(), "headphones", convo.Context{}, nil)
	if err != nil {
		t.Fatalf("degraded enrichment must not fail the request: %v", err)
	}
	if resp.Products[0].Review == nil {
		t.Fatal("review block should be present even when unavailable")
	}
	if resp.Products[0].Review.Available {
		t.Error("review should be flagged unavailable")
	}
}

func TestSearch_NarratorUsedAndFallsBack(t *testing.T) {
	p1 := buildProduct(t, "p1", 1499, 0)
	cat := newMockCatalog(t, p1)

	n := &mockNarrator{text: "a very tailored pitch"}
	svc := newTestService(t, cat, ranking.Result{Primary: candidates(p1)}, nil, n)
	resp, _ := svc.Search(context.Background(), "headphones", convo.Context{}, nil)
	if resp.Narrative != "a very tailored pitch" {
		t.Errorf("Narrative = %q, want narrator output", resp.Narrative)
	}

	failing := &mockNarrator{err: errors.New("model down")}
	svc = newTestService(t, cat, ranking.Result{Primary: candidates(p1)}, nil, failing)
	resp, _ = svc.Search(context.Background(), "headphones", convo.Context{}, nil)
	if resp.Narrative == "" {
		t.Error("narrator failure should fall back to the template")
	}
}

func TestCompare(t *testing.T) {
	p1 := buildProduct(t, "p1", 1499, 0, "bluetooth")
	p2 := buildProduct(t, "p2", 2999, 0, "noise cancelling")
	cat := newMockCatalog(t, p1, p2)
	svc := newTestService(t, cat, ranking.Result{}, nil, nil)

	resp, err := svc.Compare(context.Background(), []string{"p1", "p2"})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if resp.Kind != KindComparison {
		t.Errorf("Kind = %q", resp.Kind)
	}
	if len(resp.Products) != 2 {
		t.Fatalf("got %d products", len(resp.Products))
	}
	if resp.Narrative == "" {
		t.Error("comparison needs a narrative")
	}
	if !strings.Contains(resp.Narrative, "p1 title") {
		t.Errorf("narrative should name the cheapest product: %q", resp.Narrative)
	}
}

func TestCompare_TooFewIDs(t *testing.T) {
	cat := newMockCatalog(t, buildProduct(t, "p1", 100, 0))
	svc := newTestService(t, cat, ranking.Result{}, nil, nil)

	if _, err := svc.Compare(context.Background(), []string{"p1"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Compare(context.Background(), nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestCompare_TruncatesToThree(t *testing.T) {
	ps := []string{"p1", "p2", "p3", "p4"}
	cat := newMockCatalog(t,
		buildProduct(t, "p1", 100, 0), buildProduct(t, "p2", 200, 0),
		buildProduct(t, "p3", 300, 0), buildProduct(t, "p4", 400, 0))
	summarizer := &mockSummarizer{analysis: domrev.Unavailable()}
	svc := newTestService(t, cat, ranking.Result{}, summarizer, nil)

	resp, err := svc.Compare(context.Background(), ps)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Products) != 3 {
		t.Errorf("got %d products, want 3", len(resp.Products))
	}
	if summarizer.calls != 3 {
		t.Errorf("summarizer called %d times, want 3", summarizer.calls)
	}
}

func TestCompare_UnknownID(t *testing.T) {
	cat := newMockCatalog(t, buildProduct(t, "p1", 100, 0), buildProduct(t, "p2", 200, 0))
	svc := newTestService(t, cat, ranking.Result{}, nil, nil)

	_, err := svc.Compare(context.Background(), []string{"p1", "ghost"})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("error = %v, want ErrProductNotFound", err)
	}
}

func TestDetail(t *testing.T) {
	p1 := buildProduct(t, "p1", 1499, 2990)
	cat := newMockCatalog(t, p1)
	svc := newTestService(t, cat, ranking.Result{}, nil, nil)

	resp, err := svc.Detail(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Detail() error = %v", err)
	}
	if resp.Kind != KindDetail {
		t.Errorf("Kind = %q", resp.Kind)
	}
	if len(resp.Products) != 1 || resp.Products[0].ID != "p1" {
		t.Fatalf("unexpected products: %+v", resp.Products)
	}
	if resp.Products[0].Review == nil || resp.Products[0].Deal == nil {
		t.Error("detail must include review and deal enrichment")
	}
}

func TestDetail_Errors(t *testing.T) {
	cat := newMockCatalog(t, buildProduct(t, "p1", 100, 0))
	svc := newTestService(t, cat, ranking.Result{}, nil, nil)

	if _, err := svc.Detail(context.Background(), ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("empty id: error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Detail(context.Background(), "ghost"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("unknown id: error = %v, want ErrProductNotFound", err)
	}
}

func TestFollowUp_DelegatesToSearch(t *testing.T) {
	p1 := buildProduct(t, "p1", 1499, 0)
	cat := newMockCatalog(t, p1)
	svc := newTestService(t, cat, ranking.Result{Primary: candidates(p1)}, nil, nil)

	priorCriteria := svcCriteria()
	prior := convo.New("headphones", &priorCriteria, []string{"p1"})

	resp, err := svc.FollowUp(context.Background(), "cheaper options", prior, nil)
	if err != nil {
		t.Fatalf("FollowUp() error = %v", err)
	}
	if resp.Kind != KindRecommendations {
		t.Errorf("Kind = %q", resp.Kind)
	}
}
