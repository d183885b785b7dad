package domain

import "errors"

var (
	// ErrInvalidInput signals a malformed caller request (empty query, bad ids).
	ErrInvalidInput = errors.New("invalid input")
	// ErrProductNotFound signals a missing catalog product.
	ErrProductNotFound = errors.New("product not found")
	// ErrCatalogUnavailable signals that no catalog snapshot is loaded.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrUnderstandingUnavailable signals a text understanding provider failure.
	ErrUnderstandingUnavailable = errors.New("understanding provider error")
	// ErrMalformedExtraction signals unparseable structured output from the provider.
	ErrMalformedExtraction = errors.New("malformed extraction")
)
