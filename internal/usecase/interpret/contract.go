package interpret

import (
	"context"

	"github.com/cognicart/cognicart/internal/domain"
)

// Extractor parses free text into structured fields.
type Extractor interface {
	Extract(ctx context.Context, text string, hints []string) (domain.Extraction, error)
}

// BrandLister exposes the catalog's known brands for heuristic matching.
type BrandLister interface {
	Brands() []string
}
