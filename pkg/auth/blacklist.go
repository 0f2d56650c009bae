package auth

import (
	"context"
	"sync"
	"time"
)

// purge expired entries once the map grows past this
const memoryPurgeThreshold = 1024

// TokenBlacklist in-process blacklist
type TokenBlacklist struct {
	tokens map[string]time.Time
	mutex  sync.RWMutex
}

// NewMemoryBlacklist creates an empty in-process blacklist
func NewMemoryBlacklist() *TokenBlacklist {
	return &TokenBlacklist{tokens: make(map[string]time.Time)}
}

// AddToBlacklist revokes tokenID until expireAt
func (b *TokenBlacklist) AddToBlacklist(_ context.Context, tokenID string, expireAt time.Time) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if len(b.tokens) >= memoryPurgeThreshold {
		b.cleanupUnsafe(time.Now())
	}
	b.tokens[tokenID] = expireAt
	return nil
}

// IsBlacklisted reports whether tokenID is revoked and not yet expired
func (b *TokenBlacklist) IsBlacklisted(_ context.Context, tokenID string) bool {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	expireAt, exists := b.tokens[tokenID]
	return exists && time.Now().Before(expireAt)
}

// Len number of stored entries
func (b *TokenBlacklist) Len() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.tokens)
}

// Cleanup drops expired entries
func (b *TokenBlacklist) Cleanup() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.cleanupUnsafe(time.Now())
}

func (b *TokenBlacklist) cleanupUnsafe(now time.Time) {
	for token, expireAt := range b.tokens {
		if now.After(expireAt) {
			delete(b.tokens, token)
		}
	}
}
