package interpret

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/cognicart/cognicart/internal/domain"
)

type mockExtractor struct {
	extraction domain.Extraction
	err        error
	delay      time.Duration
	gotText    string
	gotHints   []string
}

func (m *mockExtractor) Extract(ctx context.Context, text string, hints []string) (domain.Extraction, error) {
	m.gotText = text
	m.gotHints = hints
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return domain.Extraction{}, ctx.Err()
		}
	}
	return m.extraction, m.err
}

type mockBrandLister struct {
	brands []string
}

func (m *mockBrandLister) Brands() []string { return m.brands }

func newTestService(t *testing.T, ex *mockExtractor, brands []string) *Service {
	t.Helper()
	return New(ex, &mockBrandLister{brands: brands}, 100*time.Millisecond, zap.NewNop())
}

func fptr(v float64) *float64 { return &v }
