package cognicart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/cognicart/cognicart/internal/db/redis"
	"github.com/cognicart/cognicart/internal/domain"
	"github.com/cognicart/cognicart/internal/domain/catalog"
	"github.com/cognicart/cognicart/internal/domain/rank"
	"github.com/cognicart/cognicart/internal/metrics"
	"github.com/cognicart/cognicart/internal/repository/catalogfile"
	"github.com/cognicart/cognicart/internal/repository/reviewcache"
	openaiTransport "github.com/cognicart/cognicart/internal/transport/openai"
	dealuc "github.com/cognicart/cognicart/internal/usecase/deal"
	healthuc "github.com/cognicart/cognicart/internal/usecase/health"
	interpretuc "github.com/cognicart/cognicart/internal/usecase/interpret"
	pipelineuc "github.com/cognicart/cognicart/internal/usecase/pipeline"
	rankinguc "github.com/cognicart/cognicart/internal/usecase/ranking"
	reviewuc "github.com/cognicart/cognicart/internal/usecase/review"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the embedded engine entry point.
type Client struct {
	store     *dbRedis.Store // nil without WithRedisCache
	catalog   *catalog.Store
	pipeline  *pipelineuc.Service
	healthSvc *healthuc.Service
	obs       *observer
}

// New creates a Client and loads the catalog. The provided context is
// used for the cache readiness check when WithRedisCache is set.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		callTimeout:   8 * time.Second,
		cacheTTL:      24 * time.Hour,
		topK:          12,
		moreOptions:   8,
		relaxOrder:    rankinguc.RelaxBudgetFirst,
		minSavingsPct: 5,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.catalogPath == "" {
		return nil, errors.New("cognicart: catalog file required (use WithCatalogFile)")
	}

	products, err := catalogfile.Load(cfg.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("cognicart: load catalog: %w", err)
	}
	store, err := catalog.NewStore(products)
	if err != nil {
		return nil, fmt.Errorf("cognicart: build catalog: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return wireClient(ctx, store, cfg, obs)
}

func wireClient(ctx context.Context, store *catalog.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	zlog := zap.NewNop()

	var kvStore *dbRedis.Store
	var cache reviewuc.Cache
	if cfg.redisAddr != "" {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    []string{cfg.redisAddr},
			Password: cfg.redisPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("cognicart: create cache store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("cognicart: cache not ready: %w", err)
		}
		kvStore = s
		cache = reviewcache.New(s, cfg.cacheTTL, metrics.ReviewCacheTotal, zlog)
	}

	// Provider: noop unless configured. Interpretation falls back to the
	// built-in heuristics and reviews come back unavailable.
	var (
		extractor interpretuc.Extractor = noopProvider{}
		describer reviewuc.Describer    = noopProvider{}
		narrator  pipelineuc.Narrator
		checker   healthuc.UnderstandingChecker
	)
	if cfg.openaiAPIKey != "" {
		u := openaiTransport.NewUnderstander(&openaiTransport.Config{
			APIKey:   cfg.openaiAPIKey,
			BaseURL:  cfg.openaiBaseURL,
			Model:    cfg.openaiModel,
			Provider: "openai",
			Logger:   zlog,
		})
		extractor = u
		describer = u
		narrator = u
		checker = u
	}

	interpretSvc := interpretuc.New(extractor, store, cfg.callTimeout, zlog)
	rankingSvc := rankinguc.New(store, rank.DefaultWeights(), cfg.topK, cfg.moreOptions, cfg.relaxOrder)
	reviewSvc := reviewuc.New(describer, cache, cfg.callTimeout, zlog)
	dealSvc := dealuc.New(cfg.minSavingsPct)
	pipelineSvc := pipelineuc.New(
		interpretSvc, rankingSvc, reviewSvc, dealSvc,
		store, narrator, cfg.callTimeout, zlog,
	)

	var pinger healthuc.CachePinger
	if kvStore != nil {
		pinger = kvStore
	}
	healthSvc := healthuc.New(store, checker, pinger)

	return &Client{
		store:     kvStore,
		catalog:   store,
		pipeline:  pipelineSvc,
		healthSvc: healthSvc,
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Search runs the full pipeline for a free-text query.
func (c *Client) Search(ctx context.Context, text string) (res *Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	resp, err := c.pipeline.Search(ctx, text, toDomainContext(nil), nil)
	if err != nil {
		return nil, err
	}
	return toResult(resp), nil
}

// FollowUp refines a previous turn using its conversation context.
func (c *Client) FollowUp(ctx context.Context, text string, prior *Context) (res *Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("follow_up", start, err) }()

	resp, err := c.pipeline.FollowUp(ctx, text, toDomainContext(prior), nil)
	if err != nil {
		return nil, err
	}
	return toResult(resp), nil
}

// Compare builds a side-by-side comparison of 2-3 products.
func (c *Client) Compare(ctx context.Context, productIDs ...string) (res *Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("compare", start, err) }()

	resp, err := c.pipeline.Compare(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	return toResult(resp), nil
}

// Detail returns a single enriched product.
func (c *Client) Detail(ctx context.Context, productID string) (res *Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("detail", start, err) }()

	resp, err := c.pipeline.Detail(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toResult(resp), nil
}

// ReloadCatalog swaps in a new product set from the given file without
// interrupting in-flight requests.
func (c *Client) ReloadCatalog(path string) error {
	products, err := catalogfile.Load(path)
	if err != nil {
		return fmt.Errorf("cognicart: reload catalog: %w", err)
	}
	if err := c.catalog.Replace(products); err != nil {
		return fmt.Errorf("cognicart: reload catalog: %w", err)
	}
	return nil
}

// HealthStatus represents the aggregated engine health.
type HealthStatus struct {
	Status      string            // "ok", "degraded", "error"
	Checks      map[string]string // component → "ok"/"error"
	CatalogSize int
}

// Health checks the health of all engine components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:      string(report.Status),
		Checks:      checks,
		CatalogSize: report.CatalogSize,
	}
}

// noopProvider fails every provider call (used when no model is
// configured): extraction falls back to heuristics, review analysis
// comes back unavailable.
type noopProvider struct{}

func (noopProvider) Extract(_ context.Context, _ string, _ []string) (domain.Extraction, error) {
	return domain.Extraction{}, errors.New(
		"cognicart: understanding provider not configured (use WithOpenAI)",
	)
}

func (noopProvider) Describe(_ context.Context, _ domain.ProductAttributes) (domain.ReviewDigest, error) {
	return domain.ReviewDigest{}, errors.New(
		"cognicart: understanding provider not configured (use WithOpenAI)",
	)
}
