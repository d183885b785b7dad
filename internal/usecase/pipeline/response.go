package pipeline

import (
	"github.com/cognicart/cognicart/internal/domain/catalog"
	"github.com/cognicart/cognicart/internal/domain/deal"
	"github.com/cognicart/cognicart/internal/domain/query"
	"github.com/cognicart/cognicart/internal/domain/rank"
	"github.com/cognicart/cognicart/internal/domain/review"
)

// Response kinds.
const (
	KindRecommendations = "recommendations"
	KindNoMatches       = "no_matches"
	KindComparison      = "comparison"
	KindDetail          = "detail"
)

// Response is the assembled pipeline result. Serialized as-is by the
// transport layer and carried whole inside the terminal progress event.
type Response struct {
	Kind            string        `json:"kind"`
	Query           *QueryEcho    `json:"query,omitempty"`
	Products        []ProductView `json:"products"`
	MoreOptions     []ProductView `json:"more_options,omitempty"`
	Narrative       string        `json:"narrative,omitempty"`
	BudgetRelaxed   bool          `json:"budget_relaxed,omitempty"`
	FeaturesRelaxed bool          `json:"features_relaxed,omitempty"`
	Suggestions     []string      `json:"suggestions,omitempty"`
}

// QueryEcho reflects the parsed criteria back to the caller so every
// response shows what was searched for, including no-match outcomes.
type QueryEcho struct {
	ProductType      string   `json:"product_type,omitempty"`
	Category         string   `json:"category,omitempty"`
	RequiredFeatures []string `json:"required_features,omitempty"`
	PreferredBrands  []string `json:"preferred_brands,omitempty"`
	BudgetMin        *float64 `json:"budget_min,omitempty"`
	BudgetMax        *float64 `json:"budget_max,omitempty"`
	SortIntent       string   `json:"sort_intent,omitempty"`
	ResidualTerms    []string `json:"residual_terms,omitempty"`
}

// ProductView is a product plus its per-request enrichment.
type ProductView struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Brand          string             `json:"brand,omitempty"`
	Category       string             `json:"category,omitempty"`
	ProductType    string             `json:"product_type,omitempty"`
	Price          float64            `json:"price"`
	Currency       string             `json:"currency,omitempty"`
	Rating         float64            `json:"rating"`
	ReviewCount    int                `json:"review_count"`
	Features       []string           `json:"features,omitempty"`
	Availability   string             `json:"availability"`
	ReferencePrice *float64           `json:"reference_price,omitempty"`
	Score          float64            `json:"score,omitempty"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown,omitempty"`
	Review         *ReviewView        `json:"review,omitempty"`
	Deal           *DealView          `json:"deal,omitempty"`
}

// ReviewView is the serialized review analysis.
type ReviewView struct {
	PositivePct int      `json:"positive_pct"`
	NeutralPct  int      `json:"neutral_pct"`
	NegativePct int      `json:"negative_pct"`
	Praises     []string `json:"praises,omitempty"`
	Complaints  []string `json:"complaints,omitempty"`
	RedFlags    []string `json:"red_flags,omitempty"`
	Summary     string   `json:"summary"`
	Available   bool     `json:"available"`
}

// DealView is the serialized deal assessment.
type DealView struct {
	HasDeal       bool    `json:"has_deal"`
	SavingsAmount float64 `json:"savings_amount"`
	SavingsPct    float64 `json:"savings_pct"`
	Rationale     string  `json:"rationale,omitempty"`
}

func echoCriteria(c *query.Criteria) *QueryEcho {
	echo := &QueryEcho{
		ProductType:      c.ProductType(),
		Category:         c.Category(),
		RequiredFeatures: c.RequiredFeatures(),
		PreferredBrands:  c.PreferredBrands(),
		SortIntent:       c.SortIntent(),
		ResidualTerms:    c.ResidualTerms(),
	}
	if min, ok := c.Budget().Min(); ok {
		echo.BudgetMin = &min
	}
	if max, ok := c.Budget().Max(); ok {
		echo.BudgetMax = &max
	}
	return echo
}

func candidateView(c *rank.Candidate) ProductView {
	p := c.Product()
	view := productView(&p)
	view.Score = c.Score()
	view.ScoreBreakdown = c.Breakdown()
	return view
}

func productView(p *catalog.Product) ProductView {
	view := ProductView{
		ID:           p.ID(),
		Title:        p.Title(),
		Brand:        p.Brand(),
		Category:     p.Category(),
		ProductType:  p.ProductType(),
		Price:        p.Price(),
		Currency:     p.Currency(),
		Rating:       p.Rating(),
		ReviewCount:  p.ReviewCount(),
		Features:     p.Features(),
		Availability: string(p.Availability()),
	}
	if ref, ok := p.ReferencePrice(); ok {
		view.ReferencePrice = &ref
	}
	return view
}

func reviewView(a *review.Analysis) *ReviewView {
	s := a.Sentiment()
	return &ReviewView{
		PositivePct: s.PositivePct(),
		NeutralPct:  s.NeutralPct(),
		NegativePct: s.NegativePct(),
		Praises:     a.Praises(),
		Complaints:  a.Complaints(),
		RedFlags:    a.RedFlags(),
		Summary:     a.Summary(),
		Available:   a.Available(),
	}
}

func dealView(a deal.Assessment) *DealView {
	return &DealView{
		HasDeal:       a.HasDeal(),
		SavingsAmount: a.SavingsAmount(),
		SavingsPct:    a.SavingsPct(),
		Rationale:     a.Rationale(),
	}
}
