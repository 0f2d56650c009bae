package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nsxzhou1114/restaurant-api/internal/config"
	"github.com/nsxzhou1114/restaurant-api/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	Redis    *redis.Client
	redisOne sync.Once
)

// OpenRedis connects and pings redis
func OpenRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr()))
	return client, nil
}

// GetRedis returns the shared client, or nil when redis is disabled or unreachable
func GetRedis() *redis.Client {
	redisOne.Do(func() {
		cfg := config.GetConfig().Redis
		if !cfg.Enabled {
			return
		}
		client, err := OpenRedis(context.Background(), &cfg)
		if err != nil {
			logger.Warn("redis unavailable, continuing without it", zap.Error(err))
			return
		}
		Redis = client
	})
	return Redis
}
