package deal

// Assessment is a per-product value signal derived purely from price vs
// reference price.
type Assessment struct {
	hasDeal       bool
	savingsAmount float64
	savingsPct    float64
	rationale     string
}

// New creates a deal assessment.
func New(hasDeal bool, savingsAmount, savingsPct float64, rationale string) Assessment {
	return Assessment{
		hasDeal:       hasDeal,
		savingsAmount: savingsAmount,
		savingsPct:    savingsPct,
		rationale:     rationale,
	}
}

// NoDeal returns an assessment without a reportable deal.
func NoDeal(rationale string) Assessment {
	return Assessment{rationale: rationale}
}

// HasDeal reports whether the savings clear the reporting threshold.
func (a Assessment) HasDeal() bool { return a.hasDeal }

// SavingsAmount returns the absolute savings (always >= 0).
func (a Assessment) SavingsAmount() float64 { return a.savingsAmount }

// SavingsPct returns the savings as a percentage of the reference price.
func (a Assessment) SavingsPct() float64 { return a.savingsPct }

// Rationale returns a short human-readable explanation.
func (a Assessment) Rationale() string { return a.rationale }
