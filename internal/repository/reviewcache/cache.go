package reviewcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/cognicart/cognicart/internal/db"
	"github.com/cognicart/cognicart/internal/domain"
	"github.com/cognicart/cognicart/internal/domain/catalog"
	"github.com/cognicart/cognicart/internal/domain/review"
)

var cacheKeyPrefix = domain.KeyPrefix + "review_cache:"

// store is the consumer interface for the review cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores review analyses in a key-value store.
//
// The key digests the product fields the analysis was derived from, so a
// price or rating change invalidates the entry naturally.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a review analysis cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cache {
	return &Cache{
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns a cached analysis for the product, if present.
func (c *Cache) Get(ctx context.Context, p catalog.Product) (review.Analysis, bool) {
	key := c.cacheKey(p)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached analysis", zap.String("key", key), zap.Error(err))
		}
		c.incCache("miss")
		return review.Analysis{}, false
	}
	if len(data) == 0 {
		c.incCache("miss")
		return review.Analysis{}, false
	}

	analysis, err := decodeAnalysis(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached analysis", zap.String("key", key), zap.Error(err))
		c.incCache("miss")
		return review.Analysis{}, false
	}

	c.incCache("hit")
	return analysis, true
}

// Put stores an analysis for the product. Failures are logged, not returned.
func (c *Cache) Put(ctx context.Context, p catalog.Product, a review.Analysis) {
	key := c.cacheKey(p)

	data, err := encodeAnalysis(a)
	if err != nil {
		c.logger.Warn("Failed to encode analysis", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache analysis", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *Cache) cacheKey(p catalog.Product) string {
	raw := fmt.Sprintf("%s|%.2f|%.1f|%d", p.ID(), p.Price(), p.Rating(), p.ReviewCount())
	h := sha256.Sum256([]byte(raw))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

// analysisDTO is the cache wire format.
type analysisDTO struct {
	PositivePct int      `json:"positive_pct"`
	NeutralPct  int      `json:"neutral_pct"`
	NegativePct int      `json:"negative_pct"`
	Praises     []string `json:"praises,omitempty"`
	Complaints  []string `json:"complaints,omitempty"`
	RedFlags    []string `json:"red_flags,omitempty"`
	Summary     string   `json:"summary"`
}

func encodeAnalysis(a review.Analysis) ([]byte, error) {
	s := a.Sentiment()
	return json.Marshal(analysisDTO{
		PositivePct: s.PositivePct(),
		NeutralPct:  s.NeutralPct(),
		NegativePct: s.NegativePct(),
		Praises:     a.Praises(),
		Complaints:  a.Complaints(),
		RedFlags:    a.RedFlags(),
		Summary:     a.Summary(),
	})
}

func decodeAnalysis(data []byte) (review.Analysis, error) {
	var dto analysisDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return review.Analysis{}, fmt.Errorf("unmarshal analysis: %w", err)
	}
	sentiment := review.NewSentiment(dto.PositivePct, dto.NeutralPct, dto.NegativePct)
	return review.New(sentiment, dto.Praises, dto.Complaints, dto.RedFlags, dto.Summary), nil
}
