package cache

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/redis/go-redis/v9"
)

// IDFilter bloom filter over row ids. Until Ready it answers "maybe" for
// everything, so an unwarmed filter never hides existing rows.
type IDFilter struct {
	mutex     sync.RWMutex
	filter    *bloom.BloomFilter
	ready     bool
	client    *redis.Client
	redisKey  string
	capacity  uint
	errorRate float64
}

// NewIDFilter creates a filter; client may be nil for a process-local one
func NewIDFilter(client *redis.Client, redisKey string, capacity uint, errorRate float64) *IDFilter {
	if capacity == 0 {
		capacity = 100000
	}
	if errorRate <= 0 || errorRate >= 1 {
		errorRate = 0.01
	}
	return &IDFilter{
		filter:    bloom.NewWithEstimates(capacity, errorRate),
		client:    client,
		redisKey:  redisKey,
		capacity:  capacity,
		errorRate: errorRate,
	}
}

// Add records an id
func (f *IDFilter) Add(id uint) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.filter.AddString(strconv.FormatUint(uint64(id), 10))
}

// Warm resets the filter to exactly ids and marks it ready
func (f *IDFilter) Warm(ids []uint) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.filter = bloom.NewWithEstimates(f.capacity, f.errorRate)
	for _, id := range ids {
		f.filter.AddString(strconv.FormatUint(uint64(id), 10))
	}
	f.ready = true
}

// Ready reports whether the filter has been warmed
func (f *IDFilter) Ready() bool {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.ready
}

// MightContain false means the id certainly does not exist
func (f *IDFilter) MightContain(id uint) bool {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	if !f.ready {
		return true
	}
	return f.filter.TestString(strconv.FormatUint(uint64(id), 10))
}

// SaveToRedis persists the filter
func (f *IDFilter) SaveToRedis(ctx context.Context) error {
	if f.client == nil {
		return nil
	}
	f.mutex.RLock()
	data, err := f.filter.GobEncode()
	f.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("encode bloom filter failed: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return f.client.Set(ctx, f.redisKey, encoded, BloomFilterExpiration).Err()
}

// LoadFromRedis restores a persisted filter; a missing key leaves it unwarmed
func (f *IDFilter) LoadFromRedis(ctx context.Context) error {
	if f.client == nil {
		return nil
	}
	encoded, err := f.client.Get(ctx, f.redisKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get bloom filter from redis failed: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decode bloom filter data failed: %w", err)
	}
	filter := &bloom.BloomFilter{}
	if err := filter.GobDecode(data); err != nil {
		return fmt.Errorf("decode bloom filter failed: %w", err)
	}

	f.mutex.Lock()
	f.filter = filter
	f.ready = true
	f.mutex.Unlock()
	return nil
}
