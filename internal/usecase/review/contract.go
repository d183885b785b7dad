package review

import (
	"context"

	"github.com/cognicart/cognicart/internal/domain"
	"github.com/cognicart/cognicart/internal/domain/catalog"
	domrev "github.com/cognicart/cognicart/internal/domain/review"
)

// Describer produces a raw review digest from product attributes.
type Describer interface {
	Describe(ctx context.Context, attrs domain.ProductAttributes) (domain.ReviewDigest, error)
}

// Cache stores finished analyses keyed by product state. Optional.
type Cache interface {
	Get(ctx context.Context, p catalog.Product) (domrev.Analysis, bool)
	Put(ctx context.Context, p catalog.Product, a domrev.Analysis)
}
