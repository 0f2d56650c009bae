package cache

import (
	"context"
	"errors"
	"time"

	"github.com/nsxzhou1114/restaurant-api/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Manager read-through cache with miss collapsing and a restaurant id filter
type Manager struct {
	cache       Cache
	group       singleflight.Group
	restaurants *IDFilter
	ttl         time.Duration
}

// Options manager settings
type Options struct {
	TTL                time.Duration
	BloomCapacity      uint
	BloomFalsePositive float64
}

// NewManager uses redis when client is non-nil, process memory otherwise
func NewManager(client *redis.Client, opts Options) *Manager {
	var backend Cache
	if client != nil {
		backend = NewRedisCache(client)
	} else {
		backend = NewMemoryCache()
	}
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	return &Manager{
		cache:       backend,
		restaurants: NewIDFilter(client, BloomFilterRestaurantKey, opts.BloomCapacity, opts.BloomFalsePositive),
		ttl:         opts.TTL,
	}
}

// Restaurants bloom filter over restaurant ids
func (m *Manager) Restaurants() *IDFilter {
	return m.restaurants
}

// TTL default entry lifetime
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Invalidate drops keys; failures are logged only
func (m *Manager) Invalidate(ctx context.Context, keys ...string) {
	if m == nil || len(keys) == 0 {
		return
	}
	if err := m.cache.Delete(ctx, keys...); err != nil {
		logger.Warn("cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// Close persists the filter and releases the backend
func (m *Manager) Close(ctx context.Context) error {
	if err := m.restaurants.SaveToRedis(ctx); err != nil {
		logger.Warn("save bloom filter failed", zap.Error(err))
	}
	return m.cache.Close()
}

// Fetch returns key from cache or runs load once across concurrent callers
// and stores the result. A nil manager always loads.
func Fetch[T any](ctx context.Context, m *Manager, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if m == nil {
		return load(ctx)
	}

	var cached T
	err := m.cache.GetJSON(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		loaded, err := load(ctx)
		if err != nil {
			return loaded, err
		}
		if ttl <= 0 {
			ttl = m.ttl
		}
		if err := m.cache.SetJSON(ctx, key, loaded, ttl); err != nil {
			logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
