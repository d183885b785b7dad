package domain

import "context"

// KeyPrefix namespaces all keys written to the cache store.
const KeyPrefix = "cognicart:"

// Understander is the shared text understanding contract between layers.
// Implementations call an LLM-style provider and return structured output.
type Understander interface {
	// Extract parses free-text shopping intent into structured fields.
	// hints carry prior-turn context lines for disambiguation.
	Extract(ctx context.Context, text string, hints []string) (Extraction, error)

	// Describe produces a review digest from product attributes.
	Describe(ctx context.Context, attrs ProductAttributes) (ReviewDigest, error)

	// Narrate produces a short free-form narrative for an assembled result.
	Narrate(ctx context.Context, prompt string) (string, error)
}

// HealthChecker verifies understanding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Extraction is the provider's structured reading of a shopping query.
// All fields are optional; garbled fields are dropped by the interpreter.
type Extraction struct {
	ProductType      string   `json:"product_type"`
	Category         string   `json:"category"`
	RequiredFeatures []string `json:"required_features"`
	PreferredBrands  []string `json:"preferred_brands"`
	BudgetMin        *float64 `json:"budget_min"`
	BudgetMax        *float64 `json:"budget_max"`
	SortIntent       string   `json:"sort_intent"`
	Terms            []string `json:"terms"`
}

// ProductAttributes is the flattened product view sent to the provider.
// No raw review corpus is assumed; the provider reasons over these signals.
type ProductAttributes struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	ProductType string   `json:"product_type"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	Features    []string `json:"features"`
}

// ReviewDigest is the provider's raw review summary before normalization.
type ReviewDigest struct {
	PositivePct int      `json:"positive_pct"`
	NeutralPct  int      `json:"neutral_pct"`
	NegativePct int      `json:"negative_pct"`
	Praises     []string `json:"praises"`
	Complaints  []string `json:"complaints"`
	RedFlags    []string `json:"red_flags"`
	Summary     string   `json:"summary"`
}
