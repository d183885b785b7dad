package metrics

import "github.com/prometheus/client_golang/prometheus"

// Understanding provider Prometheus metrics.
var (
	UnderstandingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cognicart",
			Name:      "understanding_requests_total",
			Help:      "Total number of understanding provider requests",
		},
		[]string{"provider", "model", "operation", "status"},
	)

	UnderstandingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cognicart",
			Name:      "understanding_request_duration_seconds",
			Help:      "Understanding provider request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"provider", "model", "operation"},
	)

	UnderstandingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cognicart",
			Name:      "understanding_errors_total",
			Help:      "Total understanding provider errors",
		},
		[]string{"provider", "model", "operation", "error_type"},
	)

	UnderstandingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cognicart",
			Name:      "understanding_tokens_total",
			Help:      "Total understanding tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	ReviewCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cognicart",
			Name:      "review_cache_total",
			Help:      "Review analysis cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	PipelineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cognicart",
			Name:      "pipeline_requests_total",
			Help:      "Total pipeline runs by mode and outcome",
		},
		[]string{"mode", "status"},
	)
)

var understandingMetricsRegistered bool

// RegisterUnderstandingMetrics registers Prometheus metrics. Must be called once from main.
func RegisterUnderstandingMetrics() {
	if understandingMetricsRegistered {
		return
	}
	prometheus.MustRegister(UnderstandingRequestsTotal)
	prometheus.MustRegister(UnderstandingRequestDuration)
	prometheus.MustRegister(UnderstandingErrorsTotal)
	prometheus.MustRegister(UnderstandingTokensTotal)
	prometheus.MustRegister(ReviewCacheTotal)
	prometheus.MustRegister(PipelineRequestsTotal)
	understandingMetricsRegistered = true
}
