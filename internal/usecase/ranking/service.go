package ranking

import (
	"sort"
	"strings"

	"github.com/cognicart/cognicart/internal/domain/catalog"
	"github.com/cognicart/cognicart/internal/domain/query"
	"github.com/cognicart/cognicart/internal/domain/rank"
)

// Relaxation policies: which constraint to drop first when the budget
// filter leaves nothing.
const (
	RelaxBudgetFirst   = "budget_first"
	RelaxFeaturesFirst = "features_first"
)

// Result is an ordered ranking outcome. Empty Primary with no error
// means no products matched.
type Result struct {
	Primary []rank.Candidate
	More    []rank.Candidate

	// BudgetRelaxed flags the "no exact budget matches, showing closest
	// alternatives" path.
	BudgetRelaxed   bool
	FeaturesRelaxed bool
}

// Service scores and orders catalog products against structured criteria.
type Service struct {
	catalog    CatalogReader
	weights    rank.Weights
	topK       int
	moreCount  int
	relaxOrder string
}

// New creates a ranking service.
func New(cat CatalogReader, weights rank.Weights, topK, moreCount int, relaxOrder string) *Service {
	return &Service{
		catalog:    cat,
		weights:    weights,
		topK:       topK,
		moreCount:  moreCount,
		relaxOrder: relaxOrder,
	}
}

// Rank runs a single pass over the catalog and returns the ordered
// top-K plus a "more options" slice. Never errors; an empty catalog or
// no surviving candidates yields an empty result.
func (s *Service) Rank(criteria query.Criteria) Result {
	pool := s.stockPool()
	if len(pool) == 0 {
		return Result{}
	}

	var out Result
	filtered := filterByBudget(pool, criteria.Budget())

	if len(filtered) == 0 && !criteria.Budget().IsZero() {
		criteria, filtered, out = s.relax(pool, criteria)
	}
	if len(filtered) == 0 {
		return out
	}

	candidates := make([]rank.Candidate, 0, len(filtered))
	for _, p := range filtered {
		candidates = append(candidates, s.score(p, &criteria))
	}
	sortCandidates(candidates, criteria.SortIntent())

	out.Primary, out.More = slice(candidates, s.topK, s.moreCount)
	return out
}

// relax retries filtering with constraints dropped in the configured
// order until candidates appear.
func (s *Service) relax(pool []catalog.Product, criteria query.Criteria) (query.Criteria, []catalog.Product, Result) {
	var out Result

	if s.relaxOrder == RelaxFeaturesFirst && len(criteria.RequiredFeatures()) > 0 {
		criteria = criteria.WithoutRequiredFeatures()
		out.FeaturesRelaxed = true
		if filtered := filterByBudget(pool, criteria.Budget()); len(filtered) > 0 {
			return criteria, filtered, out
		}
	}

	criteria = criteria.WithoutBudget()
	out.BudgetRelaxed = true
	return criteria, filterByBudget(pool, criteria.Budget()), out
}

// stockPool excludes out-of-stock items unless that would leave nothing.
func (s *Service) stockPool() []catalog.Product {
	all := s.catalog.Products()
	pool := make([]catalog.Product, 0, len(all))
	for _, p := range all {
		if p.Availability() != catalog.OutOfStock {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		return all
	}
	return pool
}

func filterByBudget(pool []catalog.Product, b query.Budget) []catalog.Product {
	if b.IsZero() {
		return pool
	}
	out := make([]catalog.Product, 0, len(pool))
	for _, p := range pool {
		if b.Contains(p.Price()) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Service) score(p catalog.Product, criteria *query.Criteria) rank.Candidate {
	breakdown := make(map[string]float64, 5)

	breakdown[rank.TermFeatureOverlap] = s.weights.FeatureOverlap * featureOverlap(p, criteria.RequiredFeatures())

	brandRank, brandMatched := criteria.BrandRank(p.Brand())
	if !brandMatched {
		brandRank = len(criteria.PreferredBrands())
	} else {
		breakdown[rank.TermBrandMatch] = s.weights.BrandMatch
	}

	breakdown[rank.TermRating] = s.weights.Rating * p.Rating() / 5

	breakdown[rank.TermTypeMatch] = s.weights.TypeMatch * typeMatch(p, criteria)

	breakdown[rank.TermBudgetProximity] = s.weights.BudgetProximity * budgetProximity(p.Price(), criteria.Budget())

	var total float64
	for _, v := range breakdown {
		total += v
	}
	return rank.NewCandidate(p, total, breakdown, brandRank)
}

// featureOverlap is the satisfied fraction of required features.
func featureOverlap(p catalog.Product, required []string) float64 {
	if len(required) == 0 {
		return 0
	}
	matched := 0
	for _, f := range required {
		if p.HasFeature(f) {
			matched++
		}
	}
	return float64(matched) / float64(len(required))
}

// typeMatch scores 1.0 for a product-type match, 0.5 for a category
// match, and otherwise the fraction of residual terms found in the
// title.
func typeMatch(p catalog.Product, criteria *query.Criteria) float64 {
	if pt := criteria.ProductType(); pt != "" {
		if strings.EqualFold(p.ProductType(), pt) {
			return 1.0
		}
	}
	if cat := criteria.Category(); cat != "" {
		if strings.EqualFold(p.Category(), cat) {
			return 0.5
		}
	}
	if criteria.ProductType() != "" || criteria.Category() != "" {
		return 0
	}

	terms := criteria.ResidualTerms()
	if len(terms) == 0 {
		return 0
	}
	title := strings.ToLower(p.Title())
	matched := 0
	for _, t := range terms {
		if strings.Contains(title, t) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

// budgetProximity rewards prices close to, but not over, budget max.
func budgetProximity(price float64, b query.Budget) float64 {
	max, ok := b.Max()
	if !ok || max <= 0 || price > max {
		return 0
	}
	return price / max
}

// sortCandidates orders candidates fully deterministically. An explicit
// sort intent overrides the relevance ordering; ties always resolve the
// same way.
func sortCandidates(cs []rank.Candidate, sortIntent string) {
	less := func(a, b *rank.Candidate) bool {
		return relevanceLess(a, b)
	}
	switch sortIntent {
	case "price_asc":
		less = func(a, b *rank.Candidate) bool {
			if pa, pb := a.Product(), b.Product(); pa.Price() != pb.Price() {
				return pa.Price() < pb.Price()
			}
			return relevanceLess(a, b)
		}
	case "price_desc":
		less = func(a, b *rank.Candidate) bool {
			if pa, pb := a.Product(), b.Product(); pa.Price() != pb.Price() {
				return pa.Price() > pb.Price()
			}
			return relevanceLess(a, b)
		}
	case "rating":
		less = func(a, b *rank.Candidate) bool {
			if pa, pb := a.Product(), b.Product(); pa.Rating() != pb.Rating() {
				return pa.Rating() > pb.Rating()
			}
			return relevanceLess(a, b)
		}
	case "popularity":
		less = func(a, b *rank.Candidate) bool {
			if pa, pb := a.Product(), b.Product(); pa.ReviewCount() != pb.ReviewCount() {
				return pa.ReviewCount() > pb.ReviewCount()
			}
			return relevanceLess(a, b)
		}
	}
	sort.SliceStable(cs, func(i, j int) bool { return less(&cs[i], &cs[j]) })
}

// relevanceLess: score desc, brand rank asc, review count desc, id asc.
func relevanceLess(a, b *rank.Candidate) bool {
	if a.Score() != b.Score() {
		return a.Score() > b.Score()
	}
	if a.BrandRank() != b.BrandRank() {
		return a.BrandRank() < b.BrandRank()
	}
	pa, pb := a.Product(), b.Product()
	if pa.ReviewCount() != pb.ReviewCount() {
		return pa.ReviewCount() > pb.ReviewCount()
	}
	return pa.ID() < pb.ID()
}

func slice(cs []rank.Candidate, topK, moreCount int) (primary, more []rank.Candidate) {
	if len(cs) <= topK {
		return cs, nil
	}
	primary = cs[:topK]
	rest := cs[topK:]
	if len(rest) > moreCount {
		rest = rest[:moreCount]
	}
	return primary, rest
}
