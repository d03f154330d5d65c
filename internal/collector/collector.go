// internal/collector/collector.go
package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"btc-retire/internal/domain"
	"btc-retire/internal/metrics"
	"btc-retire/internal/repository"
	"btc-retire/internal/util"

	"golang.org/x/sync/singleflight"
)

// DefaultMaxAge is how long a stored price counts as current.
const DefaultMaxAge = time.Hour

// Collector owns the BTC price history: it fetches from a Fetcher, records
// every observation and serves the latest one under a freshness policy.
type Collector struct {
	fetcher Fetcher
	repo    repository.PriceRepository
	q       repository.DBExecutor
	cache   Cache
	maxAge  time.Duration
	logger  *slog.Logger

	group singleflight.Group
	now   func() time.Time
}

// NewCollector creates a new Collector. A nil cache disables caching.
func NewCollector(fetcher Fetcher, repo repository.PriceRepository, q repository.DBExecutor, cache Cache, maxAge time.Duration, logger *slog.Logger) *Collector {
	if cache == nil {
		cache = NoopCache{}
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Collector{
		fetcher: fetcher,
		repo:    repo,
		q:       q,
		cache:   cache,
		maxAge:  maxAge,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Latest returns the newest price if it is younger than the max age and
// otherwise fetches, stores and returns a new one. Concurrent misses share a
// single fetch.
func (c *Collector) Latest(ctx context.Context) (*domain.PriceSample, error) {
	if cached, err := c.cache.Get(ctx); err != nil {
		c.logger.Warn("Price cache read failed", "error", err)
	} else if cached != nil && c.fresh(cached) {
		return cached, nil
	}

	stored, err := c.repo.LatestPrice(ctx, c.q)
	switch {
	case err == nil && c.fresh(stored):
		c.remember(ctx, stored)
		return stored, nil
	case err != nil && !errors.Is(err, util.ErrNoPrice):
		return nil, fmt.Errorf("latest price: %w", err)
	}

	c.logger.Info("No recent price stored, fetching", "source", c.fetcher.Name())
	v, err, _ := c.group.Do("refresh", func() (interface{}, error) {
		// Another caller may have refreshed between our read and this call.
		if stored, err := c.repo.LatestPrice(ctx, c.q); err == nil && c.fresh(stored) {
			return stored, nil
		}
		return c.Refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.PriceSample), nil
}

// WithdrawalPrice is the price a withdrawal round debits at. It follows the
// same freshness rule as Latest, so repeated rounds within max age reuse the
// stored sample and only fetch once it is stale.
func (c *Collector) WithdrawalPrice(ctx context.Context) (*domain.PriceSample, error) {
	return c.Latest(ctx)
}

// Refresh fetches the current price and records it.
func (c *Collector) Refresh(ctx context.Context) (*domain.PriceSample, error) {
	price, err := c.fetcher.FetchPrice(ctx)
	if err != nil {
		metrics.PriceFetches.WithLabelValues(c.fetcher.Name(), "error").Inc()
		return nil, fmt.Errorf("fetch btc price from %s: %w", c.fetcher.Name(), err)
	}
	if !price.IsPositive() {
		metrics.PriceFetches.WithLabelValues(c.fetcher.Name(), "error").Inc()
		return nil, fmt.Errorf("fetch btc price from %s: %w", c.fetcher.Name(), util.ErrInvalidPrice)
	}
	metrics.PriceFetches.WithLabelValues(c.fetcher.Name(), "ok").Inc()

	sample := &domain.PriceSample{Price: price, Timestamp: c.now()}
	if err := c.repo.InsertPrice(ctx, c.q, sample); err != nil {
		return nil, fmt.Errorf("store btc price: %w", err)
	}
	c.remember(ctx, sample)

	price64, _ := price.Float64()
	metrics.BTCPrice.Set(price64)
	c.logger.Info("BTC price updated", "price", price.String(), "source", c.fetcher.Name())
	return sample, nil
}

func (c *Collector) fresh(sample *domain.PriceSample) bool {
	return sample.Age(c.now()) < c.maxAge
}

func (c *Collector) remember(ctx context.Context, sample *domain.PriceSample) {
	ttl := c.maxAge - sample.Age(c.now())
	if ttl <= 0 {
		return
	}
	if err := c.cache.Set(ctx, sample, ttl); err != nil {
		c.logger.Warn("Price cache write failed", "error", err)
	}
}
