package ranking

import "github.com/cognicart/cognicart/internal/domain/catalog"

// CatalogReader is the read-only catalog view the engine ranks over.
type CatalogReader interface {
	Products() []catalog.Product
}
