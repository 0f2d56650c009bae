package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blacklist store of revoked token ids
type Blacklist interface {
	// AddToBlacklist revokes tokenID until expireAt
	AddToBlacklist(ctx context.Context, tokenID string, expireAt time.Time) error

	// IsBlacklisted reports whether tokenID was revoked
	IsBlacklisted(ctx context.Context, tokenID string) bool
}

// BlacklistType backing store
type BlacklistType string

const (
	MemoryBlacklist BlacklistType = "memory"
	RedisBlacklist  BlacklistType = "redis"
)

// NewBlacklist picks a store; redis falls back to memory without a client
func NewBlacklist(kind BlacklistType, client *redis.Client) Blacklist {
	if kind == RedisBlacklist && client != nil {
		return NewRedisBlacklist(client)
	}
	return NewMemoryBlacklist()
}
