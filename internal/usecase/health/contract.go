package health

import "context"

// CatalogCounter reports how many products are loaded.
type CatalogCounter interface {
	Len() int
}

// UnderstandingChecker checks understanding provider availability.
type UnderstandingChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks review cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
