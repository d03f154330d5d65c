// internal/repository/sqlstore/price_store.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"btc-retire/internal/domain"
	"btc-retire/internal/repository"
	"btc-retire/internal/util"
)

// PriceRepository implements repository.PriceRepository.
type PriceRepository struct{}

// NewPriceRepository creates a new PriceRepository.
func NewPriceRepository() repository.PriceRepository {
	return &PriceRepository{}
}

// InsertPrice appends a price sample.
func (r *PriceRepository) InsertPrice(ctx context.Context, q repository.DBExecutor, sample *domain.PriceSample) error {
	query := q.Rebind(`INSERT INTO btc_prices (price, timestamp) VALUES (?, ?) RETURNING id`)
	if err := q.QueryRowContext(ctx, query, sample.Price, sample.Timestamp.UTC()).Scan(&sample.ID); err != nil {
		return fmt.Errorf("failed to insert btc price: %w", err)
	}
	return nil
}

// LatestPrice returns the newest sample.
func (r *PriceRepository) LatestPrice(ctx context.Context, q repository.DBExecutor) (*domain.PriceSample, error) {
	return r.one(ctx, q, `SELECT id, price, timestamp FROM btc_prices ORDER BY timestamp DESC, id DESC LIMIT 1`)
}

// EarliestPrice returns the oldest sample.
func (r *PriceRepository) EarliestPrice(ctx context.Context, q repository.DBExecutor) (*domain.PriceSample, error) {
	return r.one(ctx, q, `SELECT id, price, timestamp FROM btc_prices ORDER BY timestamp ASC, id ASC LIMIT 1`)
}

// DeleteAll removes every price sample.
func (r *PriceRepository) DeleteAll(ctx context.Context, q repository.DBExecutor) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM btc_prices`); err != nil {
		return fmt.Errorf("failed to delete btc prices: %w", err)
	}
	return nil
}

func (r *PriceRepository) one(ctx context.Context, q repository.DBExecutor, query string) (*domain.PriceSample, error) {
	var sample domain.PriceSample
	if err := q.GetContext(ctx, &sample, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNoPrice
		}
		return nil, fmt.Errorf("failed to read btc price: %w", err)
	}
	return &sample, nil
}
