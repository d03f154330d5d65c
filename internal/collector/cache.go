// internal/collector/cache.go
package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"btc-retire/internal/domain"

	"github.com/redis/go-redis/v9"
)

const latestPriceKey = "btcretire:price:latest"

// Cache holds the most recent price sample. Get returns nil, nil on a miss.
type Cache interface {
	Get(ctx context.Context) (*domain.PriceSample, error)
	Set(ctx context.Context, sample *domain.PriceSample, ttl time.Duration) error
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(context.Context) (*domain.PriceSample, error) { return nil, nil }

func (NoopCache) Set(context.Context, *domain.PriceSample, time.Duration) error { return nil }

// RedisCache stores the latest sample as JSON under a single key.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache creates a cache on top of an existing Redis client.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context) (*domain.PriceSample, error) {
	raw, err := c.client.Get(ctx, latestPriceKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var sample domain.PriceSample
	if err := json.Unmarshal(raw, &sample); err != nil {
		return nil, fmt.Errorf("decode cached price: %w", err)
	}
	return &sample, nil
}

func (c *RedisCache) Set(ctx context.Context, sample *domain.PriceSample, ttl time.Duration) error {
	raw, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("encode price: %w", err)
	}
	if err := c.client.Set(ctx, latestPriceKey, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
