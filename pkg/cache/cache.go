package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss key not present
var ErrCacheMiss = errors.New("cache miss")

// Cache key/value store holding JSON documents
type Cache interface {
	// GetJSON loads key into dest, ErrCacheMiss when absent
	GetJSON(ctx context.Context, key string, dest interface{}) error

	// SetJSON stores value under key
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// Delete removes keys
	Delete(ctx context.Context, keys ...string) error

	// Close releases the backend
	Close() error
}

const (
	RestaurantDetailKey = "restaurant:detail:%d"
	CategoryListKey     = "category:list"

	BloomFilterRestaurantKey = "bloom:restaurant:exists"
)

const (
	CategoryListExpiration = time.Hour
	BloomFilterExpiration  = 24 * time.Hour
)
