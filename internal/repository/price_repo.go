// internal/repository/price_repo.go
package repository

import (
	"context"

	"btc-retire/internal/domain"
)

// PriceRepository stores BTC price samples.
type PriceRepository interface {
	// InsertPrice appends a sample and sets its ID.
	InsertPrice(ctx context.Context, q DBExecutor, sample *domain.PriceSample) error
	// LatestPrice returns the most recent sample, or util.ErrNoPrice.
	LatestPrice(ctx context.Context, q DBExecutor) (*domain.PriceSample, error)
	// EarliestPrice returns the oldest sample, or util.ErrNoPrice.
	EarliestPrice(ctx context.Context, q DBExecutor) (*domain.PriceSample, error)
	// DeleteAll removes the price history.
	DeleteAll(ctx context.Context, q DBExecutor) error
}
