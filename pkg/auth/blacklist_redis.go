package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/nsxzhou1114/restaurant-api/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const blacklistKeyPrefix = "jwt:blacklist:"

// RedisTokenBlacklist blacklist shared across instances through redis
type RedisTokenBlacklist struct {
	redis *redis.Client
}

// NewRedisBlacklist creates a redis backed blacklist
func NewRedisBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{redis: client}
}

// AddToBlacklist stores tokenID with a ttl matching the token expiry
func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, tokenID string, expireAt time.Time) error {
	duration := time.Until(expireAt)
	if duration <= 0 {
		return nil
	}
	if err := b.redis.Set(ctx, blacklistKeyPrefix+tokenID, "1", duration).Err(); err != nil {
		logger.Error("add token to redis blacklist failed", zap.String("jti", tokenID), zap.Error(err))
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

// IsBlacklisted checks redis; lookup errors count as not revoked
func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, tokenID string) bool {
	n, err := b.redis.Exists(ctx, blacklistKeyPrefix+tokenID).Result()
	if err != nil {
		logger.Error("check redis blacklist failed", zap.String("jti", tokenID), zap.Error(err))
		return false
	}
	return n > 0
}
