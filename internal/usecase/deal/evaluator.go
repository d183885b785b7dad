package deal

import (
	"fmt"

	"github.com/cognicart/cognicart/internal/domain/catalog"
	"github.com/cognicart/cognicart/internal/domain/deal"
)

// Evaluator derives a savings signal from price vs reference price.
// Pure and total: never fails, no external calls.
type Evaluator struct {
	minSavingsPct float64
}

// New creates a deal evaluator. Savings below minSavingsPct are not
// reported as deals to avoid noise.
func New(minSavingsPct float64) *Evaluator {
	return &Evaluator{minSavingsPct: minSavingsPct}
}

// Evaluate assesses whether the product is a deal.
func (e *Evaluator) Evaluate(p catalog.Product) deal.Assessment {
	ref, ok := p.ReferencePrice()
	if !ok {
		return deal.NoDeal("no list price to compare against")
	}

	savings := ref - p.Price()
	if savings <= 0 {
		return deal.NoDeal("selling at or above list price")
	}

	pct := savings / ref * 100
	if pct < e.minSavingsPct {
		return deal.New(false, savings, pct,
			fmt.Sprintf("%.1f%% off, below the %.0f%% reporting threshold", pct, e.minSavingsPct))
	}

	return deal.New(true, savings, pct,
		fmt.Sprintf("%.0f%% below the %s %.0f list price", pct, p.Currency(), ref))
}
