package cognicart

import (
	"time"

	"github.com/cognicart/cognicart/internal/domain/convo"
	"github.com/cognicart/cognicart/internal/domain/progress"
	"github.com/cognicart/cognicart/internal/domain/query"
	pipelineuc "github.com/cognicart/cognicart/internal/usecase/pipeline"
)

// Result kinds.
const (
	KindRecommendations = "recommendations"
	KindNoMatches       = "no_matches"
	KindComparison      = "comparison"
	KindDetail          = "detail"
)

// Result is an assembled recommendation response.
type Result struct {
	Kind            string
	Query           *Criteria
	Products        []Product
	MoreOptions     []Product
	Narrative       string
	BudgetRelaxed   bool
	FeaturesRelaxed bool
	Suggestions     []string
}

// Product is a catalog entry plus its per-request enrichment.
type Product struct {
	ID             string
	Title          string
	Brand          string
	Category       string
	ProductType    string
	Price          float64
	Currency       string
	Rating         float64
	ReviewCount    int
	Features       []string
	Availability   string
	ReferencePrice *float64
	Score          float64
	ScoreBreakdown map[string]float64
	Review         *Review
	Deal           *Deal
}

// Review is a summarized review analysis.
type Review struct {
	PositivePct int
	NeutralPct  int
	NegativePct int
	Praises     []string
	Complaints  []string
	RedFlags    []string
	Summary     string
	Available   bool
}

// Deal is a savings signal derived from the reference price.
type Deal struct {
	HasDeal       bool
	SavingsAmount float64
	SavingsPct    float64
	Rationale     string
}

// Criteria is the structured form of a shopping request. In results it
// echoes what was understood; in Context it carries the previous turn.
type Criteria struct {
	ProductType      string
	Category         string
	RequiredFeatures []string
	PreferredBrands  []string
	BudgetMin        *float64
	BudgetMax        *float64
	SortIntent       string
	ResidualTerms    []string
}

// Context carries the previous conversation turn into a follow-up.
type Context struct {
	PriorQuery      string
	PriorCriteria   *Criteria
	PriorProductIDs []string
}

// Event is a single progress update from a streaming search.
type Event struct {
	Stage     string
	Message   string
	Timestamp time.Time
	Result    *Result // set on the terminal "done" event
	Err       string  // set on the terminal "error" event
}

func toDomainContext(c *Context) convo.Context {
	if c == nil {
		return convo.Context{}
	}
	var criteria *query.Criteria
	if c.PriorCriteria != nil {
		q := c.PriorCriteria.toDomain()
		criteria = &q
	}
	return convo.New(c.PriorQuery, criteria, c.PriorProductIDs)
}

func (c *Criteria) toDomain() query.Criteria {
	return query.New(
		c.ProductType,
		c.Category,
		c.RequiredFeatures,
		c.PreferredBrands,
		query.NewBudget(c.BudgetMin, c.BudgetMax),
		c.SortIntent,
		c.ResidualTerms,
	)
}

func toResult(r *pipelineuc.Response) *Result {
	if r == nil {
		return nil
	}
	out := &Result{
		Kind:            r.Kind,
		Narrative:       r.Narrative,
		BudgetRelaxed:   r.BudgetRelaxed,
		FeaturesRelaxed: r.FeaturesRelaxed,
		Suggestions:     r.Suggestions,
	}
	if r.Query != nil {
		out.Query = &Criteria{
			ProductType:      r.Query.ProductType,
			Category:         r.Query.Category,
			RequiredFeatures: r.Query.RequiredFeatures,
			PreferredBrands:  r.Query.PreferredBrands,
			BudgetMin:        r.Query.BudgetMin,
			BudgetMax:        r.Query.BudgetMax,
			SortIntent:       r.Query.SortIntent,
			ResidualTerms:    r.Query.ResidualTerms,
		}
	}
	for i := range r.Products {
		out.Products = append(out.Products, toProduct(&r.Products[i]))
	}
	for i := range r.MoreOptions {
		out.MoreOptions = append(out.MoreOptions, toProduct(&r.MoreOptions[i]))
	}
	return out
}

func toProduct(v *pipelineuc.ProductView) Product {
	p := Product{
		ID:             v.ID,
		Title:          v.Title,
		Brand:          v.Brand,
		Category:       v.Category,
		ProductType:    v.ProductType,
		Price:          v.Price,
		Currency:       v.Currency,
		Rating:         v.Rating,
		ReviewCount:    v.ReviewCount,
		Features:       v.Features,
		Availability:   v.Availability,
		ReferencePrice: v.ReferencePrice,
		Score:          v.Score,
		ScoreBreakdown: v.ScoreBreakdown,
	}
	if v.Review != nil {
		p.Review = &Review{
			PositivePct: v.Review.PositivePct,
			NeutralPct:  v.Review.NeutralPct,
			NegativePct: v.Review.NegativePct,
			Praises:     v.Review.Praises,
			Complaints:  v.Review.Complaints,
			RedFlags:    v.Review.RedFlags,
			Summary:     v.Review.Summary,
			Available:   v.Review.Available,
		}
	}
	if v.Deal != nil {
		p.Deal = &Deal{
			HasDeal:       v.Deal.HasDeal,
			SavingsAmount: v.Deal.SavingsAmount,
			SavingsPct:    v.Deal.SavingsPct,
			Rationale:     v.Deal.Rationale,
		}
	}
	return p
}

func toEvent(ev progress.Event) Event {
	out := Event{
		Stage:     string(ev.Stage),
		Message:   ev.Message,
		Timestamp: ev.Timestamp,
	}
	switch ev.Stage {
	case progress.StageDone:
		if resp, ok := ev.Data.(*pipelineuc.Response); ok {
			out.Result = toResult(resp)
		}
	case progress.StageError:
		out.Err = ev.Message
	}
	return out
}
