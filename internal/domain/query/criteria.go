package query

import "strings"

// Budget is an inclusive price range. Either bound may be absent.
type Budget struct {
	min    float64
	max    float64
	hasMin bool
	hasMax bool
}

// NewBudget builds a budget from optional bounds. Inverted bounds are
// swapped rather than rejected; negative bounds are dropped.
func NewBudget(min, max *float64) Budget {
	var b Budget
	if min != nil && *min >= 0 {
		b.min, b.hasMin = *min, true
	}
	if max != nil && *max >= 0 {
		b.max, b.hasMax = *max, true
	}
	if b.hasMin && b.hasMax && b.min > b.max {
		b.min, b.max = b.max, b.min
	}
	return b
}

// Min returns the lower bound and whether one is set.
func (b Budget) Min() (float64, bool) { return b.min, b.hasMin }

// Max returns the upper bound and whether one is set.
func (b Budget) Max() (float64, bool) { return b.max, b.hasMax }

// IsZero reports whether no bound is set.
func (b Budget) IsZero() bool { return !b.hasMin && !b.hasMax }

// Contains reports whether the price falls inside the budget, bounds
// inclusive. An unset bound never excludes.
func (b Budget) Contains(price float64) bool {
	if b.hasMin && price < b.min {
		return false
	}
	if b.hasMax && price > b.max {
		return false
	}
	return true
}

// Criteria is the structured representation of a shopping request.
// Owned by the request; never persisted.
type Criteria struct {
	productType      string
	category         string
	requiredFeatures []string
	preferredBrands  []string
	budget           Budget
	sortIntent       string
	residualTerms    []string
}

// New normalizes and creates request criteria. Empty and duplicate
// entries are dropped; order of brands is preserved (earlier = stronger
// preference).
func New(
	productType, category string,
	requiredFeatures, preferredBrands []string,
	budget Budget,
	sortIntent string,
	residualTerms []string,
) Criteria {
	return Criteria{
		productType:      strings.TrimSpace(strings.ToLower(productType)),
		category:         strings.TrimSpace(strings.ToLower(category)),
		requiredFeatures: dedupe(requiredFeatures),
		preferredBrands:  dedupe(preferredBrands),
		budget:           budget,
		sortIntent:       strings.TrimSpace(strings.ToLower(sortIntent)),
		residualTerms:    dedupe(residualTerms),
	}
}

// Empty returns criteria that match everything, ranked by rating.
func Empty() Criteria { return Criteria{} }

// ProductType returns the requested product type ("" = any).
func (c *Criteria) ProductType() string { return c.productType }

// Category returns the requested category ("" = any).
func (c *Criteria) Category() string { return c.category }

// RequiredFeatures returns the required feature set.
func (c *Criteria) RequiredFeatures() []string { return c.requiredFeatures }

// PreferredBrands returns preferred brands, strongest preference first.
func (c *Criteria) PreferredBrands() []string { return c.preferredBrands }

// Budget returns the price constraint.
func (c *Criteria) Budget() Budget { return c.budget }

// SortIntent returns the caller's sorting hint ("" = relevance).
func (c *Criteria) SortIntent() string { return c.sortIntent }

// ResidualTerms returns free-text terms left over after extraction,
// used for fallback title matching.
func (c *Criteria) ResidualTerms() []string { return c.residualTerms }

// IsEmpty reports whether no constraint was extracted at all.
func (c *Criteria) IsEmpty() bool {
	return c.productType == "" && c.category == "" &&
		len(c.requiredFeatures) == 0 && len(c.preferredBrands) == 0 &&
		c.budget.IsZero() && len(c.residualTerms) == 0
}

// BrandRank returns the preference position of a brand (0 = strongest)
// and whether the brand is preferred at all. Matching is case-insensitive.
func (c *Criteria) BrandRank(brand string) (int, bool) {
	for i, b := range c.preferredBrands {
		if strings.EqualFold(b, brand) {
			return i, true
		}
	}
	return 0, false
}

// WithoutBudget returns a copy of the criteria with the budget dropped.
// Used by the relaxation retry.
func (c *Criteria) WithoutBudget() Criteria {
	out := *c
	out.budget = Budget{}
	return out
}

// WithoutRequiredFeatures returns a copy with the feature requirement
// dropped.
func (c *Criteria) WithoutRequiredFeatures() Criteria {
	out := *c
	out.requiredFeatures = nil
	return out
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
