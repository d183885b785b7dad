package cognicart

import "github.com/cognicart/cognicart/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput             = domain.ErrInvalidInput
	ErrProductNotFound          = domain.ErrProductNotFound
	ErrCatalogUnavailable       = domain.ErrCatalogUnavailable
	ErrUnderstandingUnavailable = domain.ErrUnderstandingUnavailable
)
