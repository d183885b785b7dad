package rank

import "github.com/cognicart/cognicart/internal/domain/catalog"

// Score breakdown keys.
const (
	TermFeatureOverlap  = "feature_overlap"
	TermBrandMatch      = "brand"
	TermRating          = "rating"
	TermTypeMatch       = "type_match"
	TermBudgetProximity = "budget_proximity"
)

// Weights holds the linear scoring coefficients. Exposed as
// configuration, not hard-coded constants.
type Weights struct {
	FeatureOverlap  float64
	BrandMatch      float64
	Rating          float64
	TypeMatch       float64
	BudgetProximity float64
}

// DefaultWeights returns the suggested coefficients.
func DefaultWeights() Weights {
	return Weights{
		FeatureOverlap:  0.35,
		BrandMatch:      0.20,
		Rating:          0.20,
		TypeMatch:       0.15,
		BudgetProximity: 0.10,
	}
}

// Candidate is a scored catalog product. Scores are comparable only
// within the same request.
type Candidate struct {
	product   catalog.Product
	score     float64
	breakdown map[string]float64
	brandRank int // secondary tiebreak; high = no preferred brand matched
}

// NewCandidate creates a ranked candidate.
func NewCandidate(p catalog.Product, score float64, breakdown map[string]float64, brandRank int) Candidate {
	return Candidate{product: p, score: score, breakdown: breakdown, brandRank: brandRank}
}

// Product returns the underlying catalog product.
func (c *Candidate) Product() catalog.Product { return c.product }

// Score returns the total relevance score.
func (c *Candidate) Score() float64 { return c.score }

// Breakdown returns per-criterion score contributions.
func (c *Candidate) Breakdown() map[string]float64 { return c.breakdown }

// BrandRank returns the preferred-brand position used as a tiebreak.
func (c *Candidate) BrandRank() int { return c.brandRank }
