package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status      Status
	Checks      map[string]CheckResult
	CatalogSize int
}

// Service coordinates health checks. The catalog is the only hard
// dependency; understanding and cache failures only degrade.
type Service struct {
	catalog       CatalogCounter
	understanding UnderstandingChecker
	cache         CachePinger
}

// New creates a Service. understanding and cache can be nil.
func New(catalog CatalogCounter, understanding UnderstandingChecker, cache CachePinger) *Service {
	return &Service{catalog: catalog, understanding: understanding, cache: cache}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	size := s.catalog.Len()

	if size > 0 {
		checks["catalog"] = CheckOK
	} else {
		checks["catalog"] = CheckError
	}

	if s.understanding != nil {
		if err := s.understanding.HealthCheck(ctx); err != nil {
			checks["understanding"] = CheckError
		} else {
			checks["understanding"] = CheckOK
		}
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	status := Healthy
	if checks["catalog"] == CheckError {
		// Without a catalog no request can be served.
		status = Unhealthy
	} else {
		for _, v := range checks {
			if v == CheckError {
				status = Degraded
				break
			}
		}
	}

	return Report{Status: status, Checks: checks, CatalogSize: size}
}
