package pipeline

import (
	"fmt"
	"strings"

	"github.com/cognicart/cognicart/internal/domain/query"
)

// searchPrompt renders the criteria and top results for the provider's
// narrative synthesis.
func searchPrompt(criteria *query.Criteria, resp *Response) string {
	var b strings.Builder
	b.WriteString("Write 2-3 sentences recommending products to a shopper. Plain text, no lists.\n")
	b.WriteString("They asked for: ")
	b.WriteString(describeCriteria(criteria))
	b.WriteString("\nTop matches:\n")
	for i, p := range resp.Products {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, "- %s (%s %.0f, rated %.1f", p.Title, p.Currency, p.Price, p.Rating)
		if p.Deal != nil && p.Deal.HasDeal {
			fmt.Fprintf(&b, ", %.0f%% off", p.Deal.SavingsPct)
		}
		b.WriteString(")\n")
	}
	if resp.FeaturesRelaxed {
		b.WriteString("Note: the required features had to be ignored to find matches.\n")
	}
	if resp.BudgetRelaxed {
		b.WriteString("Note: nothing matched the exact budget, these are the closest alternatives.\n")
	}
	return b.String()
}

func searchFallback(resp *Response) string {
	var b strings.Builder
	top := resp.Products[0]
	fmt.Fprintf(&b, "Found %d matching products.", len(resp.Products))
	fmt.Fprintf(&b, " Top pick: %s at %s %.0f (rated %.1f from %d reviews).",
		top.Title, top.Currency, top.Price, top.Rating, top.ReviewCount)
	if top.Deal != nil && top.Deal.HasDeal {
		fmt.Fprintf(&b, " It is %.0f%% below list price.", top.Deal.SavingsPct)
	}
	if resp.FeaturesRelaxed {
		b.WriteString(" The required features had to be relaxed.")
	}
	if resp.BudgetRelaxed {
		b.WriteString(" No exact budget matches, showing closest alternatives.")
	}
	return b.String()
}

// comparePrompt renders the compared products with their differentiators.
func comparePrompt(views []ProductView) string {
	var b strings.Builder
	b.WriteString("Compare these products for a shopper in 2-4 sentences, highlighting price, rating and feature differences. Plain text.\n")
	for _, p := range views {
		fmt.Fprintf(&b, "- %s: %s %.0f, rated %.1f (%d reviews), features: %s\n",
			p.Title, p.Currency, p.Price, p.Rating, p.ReviewCount, strings.Join(p.Features, ", "))
	}
	return b.String()
}

// compareFallback builds a deterministic comparative narrative from
// price, rating and feature deltas.
func compareFallback(views []ProductView) string {
	cheapest, bestRated := 0, 0
	for i, p := range views {
		if p.Price < views[cheapest].Price {
			cheapest = i
		}
		if p.Rating > views[bestRated].Rating {
			bestRated = i
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Comparing %d products. %s is the most affordable at %s %.0f.",
		len(views), views[cheapest].Title, views[cheapest].Currency, views[cheapest].Price)
	if bestRated != cheapest {
		fmt.Fprintf(&b, " %s has the best rating at %.1f.", views[bestRated].Title, views[bestRated].Rating)
	} else {
		b.WriteString(" It also carries the best rating.")
	}
	if unique := uniqueFeatures(views); unique != "" {
		b.WriteString(" ")
		b.WriteString(unique)
	}
	return b.String()
}

// uniqueFeatures names one feature per product the others lack.
func uniqueFeatures(views []ProductView) string {
	var parts []string
	for i, p := range views {
		for _, f := range p.Features {
			if !featureElsewhere(views, i, f) {
				parts = append(parts, fmt.Sprintf("only %s offers %s", p.Title, f))
				break
			}
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ") + "."
}

func featureElsewhere(views []ProductView, self int, feature string) bool {
	for i, p := range views {
		if i == self {
			continue
		}
		for _, f := range p.Features {
			if strings.EqualFold(f, feature) {
				return true
			}
		}
	}
	return false
}

// suggestions proposes ways to widen a query that matched nothing.
func suggestions(criteria *query.Criteria) []string {
	var out []string
	if !criteria.Budget().IsZero() {
		out = append(out, "try widening or removing the budget")
	}
	if len(criteria.RequiredFeatures()) > 0 {
		out = append(out, "try requiring fewer features")
	}
	if len(criteria.PreferredBrands()) > 0 {
		out = append(out, "try without a brand preference")
	}
	if criteria.ProductType() != "" {
		out = append(out, "try a broader product category")
	}
	if len(out) == 0 {
		out = append(out, "try rephrasing with a product type, e.g. \"wireless headphones\"")
	}
	return out
}

func describeCriteria(c *query.Criteria) string {
	var parts []string
	if pt := c.ProductType(); pt != "" {
		parts = append(parts, pt)
	} else if cat := c.Category(); cat != "" {
		parts = append(parts, cat)
	}
	if fs := c.RequiredFeatures(); len(fs) > 0 {
		parts = append(parts, "with "+strings.Join(fs, ", "))
	}
	if bs := c.PreferredBrands(); len(bs) > 0 {
		parts = append(parts, "preferring "+strings.Join(bs, ", "))
	}
	if max, ok := c.Budget().Max(); ok {
		parts = append(parts, fmt.Sprintf("under %.0f", max))
	}
	if len(parts) == 0 {
		return "anything relevant"
	}
	return strings.Join(parts, ", ")
}
