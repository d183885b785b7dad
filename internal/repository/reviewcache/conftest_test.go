package reviewcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/cognicart/cognicart/internal/db"
	"github.com/cognicart/cognicart/internal/domain/catalog"
)

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCache(t *testing.T) (*Cache, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	c := New(ms, 24*time.Hour, nil, zap.NewNop())
	return c, ms
}

func testProduct(t *testing.T, id string, price float64) catalog.Product {
	t.Helper()
	p, err := catalog.New(
		id, "boAt Rockerz 450", "boAt", "electronics", "headphones",
		price, "INR", 4.2, 8421,
		[]string{"bluetooth", "40mm drivers"},
		catalog.InStock, 0,
	)
	if err != nil {
		t.Fatalf("failed to build product: %v", err)
	}
	return p
}
