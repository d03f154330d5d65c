// internal/collector/fetcher.go
package collector

import (
	"context"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// Fetcher defines the interface for fetching the current BTC price in USD.
type Fetcher interface {
	FetchPrice(ctx context.Context) (decimal.Decimal, error)
	Name() string
}

// MockFetcher returns a fixed price for demos and tests.
type MockFetcher struct {
	Price decimal.Decimal
	Err   error

	calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchPrice(_ context.Context) (decimal.Decimal, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return decimal.Decimal{}, m.Err
	}
	return m.Price, nil
}

// Calls reports how many times FetchPrice ran.
func (m *MockFetcher) Calls() int64 { return m.calls.Load() }
