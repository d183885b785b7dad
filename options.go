package cognicart

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	catalogPath string

	openaiAPIKey  string
	openaiBaseURL string
	openaiModel   string
	callTimeout   time.Duration

	redisAddr     string
	redisPassword string
	cacheTTL      time.Duration

	topK          int
	moreOptions   int
	relaxOrder    string
	minSavingsPct float64

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCatalogFile loads the product catalog from a JSON file. Required.
func WithCatalogFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogPath = path
	})
}

// WithOpenAI enables model-backed query extraction, review digests and
// narratives via an OpenAI-compatible API. baseURL may be empty for the
// default endpoint. Without this option the engine runs on built-in
// heuristics only.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openaiAPIKey = apiKey
		c.openaiBaseURL = baseURL
		c.openaiModel = model
	})
}

// WithCallTimeout sets the per-call budget for provider requests.
// Default: 8s. The heuristic fallback takes over after it expires.
func WithCallTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.callTimeout = d
	})
}

// WithRedisCache caches review analyses in Redis with the given TTL.
// Optional; without it every analysis is recomputed.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddr = addr
		c.redisPassword = password
		c.cacheTTL = ttl
	})
}

// WithResultCounts sets how many products the primary list and the
// more-options list carry. Defaults: 12 and 8.
func WithResultCounts(topK, moreOptions int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = topK
		c.moreOptions = moreOptions
	})
}

// WithRelaxationOrder controls which constraint is dropped first when a
// budget-constrained search comes back empty: "budget_first" (default)
// or "features_first".
func WithRelaxationOrder(order string) Option {
	return optionFunc(func(c *clientConfig) {
		c.relaxOrder = order
	})
}

// WithMinSavingsPct sets the deal reporting threshold. Default: 5.
func WithMinSavingsPct(pct float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.minSavingsPct = pct
	})
}

// WithLogger enables structured logging for engine operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers engine metrics (operation counts and
// durations) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
