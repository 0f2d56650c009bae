package cache

import (
	"context"
	"fmt"

	"github.com/nsxzhou1114/restaurant-api/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WarmRestaurantFilter loads every restaurant id into the bloom filter. When
// the database read fails the copy persisted in redis is used instead.
func WarmRestaurantFilter(ctx context.Context, m *Manager, db *gorm.DB) error {
	var ids []uint
	if err := db.WithContext(ctx).Table("restaurants").Pluck("id", &ids).Error; err != nil {
		if loadErr := m.restaurants.LoadFromRedis(ctx); loadErr != nil {
			logger.Warn("load persisted bloom filter failed", zap.Error(loadErr))
		}
		return fmt.Errorf("get restaurant ids failed: %w", err)
	}
	m.restaurants.Warm(ids)
	logger.Info("restaurant bloom filter warmed", zap.Int("count", len(ids)))
	return nil
}
