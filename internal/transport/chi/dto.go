package chi

import (
	"github.com/cognicart/cognicart/internal/domain/convo"
	"github.com/cognicart/cognicart/internal/domain/query"
	healthuc "github.com/cognicart/cognicart/internal/usecase/health"
)

// SearchRequest is the body for search, stream and follow-up endpoints.
type SearchRequest struct {
	Query   string                  `json:"query"`
	Context *ConversationContextDTO `json:"context,omitempty"`
}

// ConversationContextDTO carries the previous turn back from the caller.
type ConversationContextDTO struct {
	PriorQuery      string       `json:"prior_query,omitempty"`
	PriorCriteria   *CriteriaDTO `json:"prior_criteria,omitempty"`
	PriorProductIDs []string     `json:"prior_product_ids,omitempty"`
}

// CriteriaDTO is the wire form of structured shopping criteria.
type CriteriaDTO struct {
	ProductType      string   `json:"product_type,omitempty"`
	Category         string   `json:"category,omitempty"`
	RequiredFeatures []string `json:"required_features,omitempty"`
	PreferredBrands  []string `json:"preferred_brands,omitempty"`
	BudgetMin        *float64 `json:"budget_min,omitempty"`
	BudgetMax        *float64 `json:"budget_max,omitempty"`
	SortIntent       string   `json:"sort_intent,omitempty"`
	ResidualTerms    []string `json:"residual_terms,omitempty"`
}

// CompareRequest is the body for the compare endpoint.
type CompareRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// HealthResponse is the wire form of a health report.
type HealthResponse struct {
	Status      string            `json:"status"`
	Checks      map[string]string `json:"checks"`
	CatalogSize int               `json:"catalog_size"`
}

func (r SearchRequest) priorContext() convo.Context {
	if r.Context == nil {
		return convo.Context{}
	}
	var criteria *query.Criteria
	if dto := r.Context.PriorCriteria; dto != nil {
		c := query.New(
			dto.ProductType,
			dto.Category,
			dto.RequiredFeatures,
			dto.PreferredBrands,
			query.NewBudget(dto.BudgetMin, dto.BudgetMax),
			dto.SortIntent,
			dto.ResidualTerms,
		)
		criteria = &c
	}
	return convo.New(r.Context.PriorQuery, criteria, r.Context.PriorProductIDs)
}

func checksToWire(checks map[string]healthuc.CheckResult) map[string]string {
	out := make(map[string]string, len(checks))
	for name, c := range checks {
		out[name] = string(c)
	}
	return out
}
