package service

import (
	"context"

	"github.com/nsxzhou1114/restaurant-api/internal/apperror"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"gorm.io/gorm"
)

// OwnershipRegistry answers who owns which restaurant
type OwnershipRegistry struct {
	db *gorm.DB
}

// NewOwnershipRegistry creates a registry over db
func NewOwnershipRegistry(db *gorm.DB) *OwnershipRegistry {
	return &OwnershipRegistry{db: db}
}

// OwnerOf returns the owner of a restaurant, NotFound when it does not exist
func (r *OwnershipRegistry) OwnerOf(ctx context.Context, restaurantID uint) (uint, error) {
	return ownerOf(r.db.WithContext(ctx), restaurantID)
}

// OwnedRestaurants returns id and name of every restaurant owned by ownerID
func (r *OwnershipRegistry) OwnedRestaurants(ctx context.Context, ownerID uint) ([]model.Restaurant, error) {
	var restaurants []model.Restaurant
	err := r.db.WithContext(ctx).
		Select("id", "name", "owner_id").
		Where("owner_id = ?", ownerID).
		Order("id").
		Find(&restaurants).Error
	if err != nil {
		return nil, apperror.Internal("load owned restaurants", err)
	}
	return restaurants, nil
}

func ownerOf(db *gorm.DB, restaurantID uint) (uint, error) {
	var owners []uint
	err := db.Model(&model.Restaurant{}).Where("id = ?", restaurantID).Limit(1).Pluck("owner_id", &owners).Error
	if err != nil {
		return 0, apperror.Internal("load restaurant owner", err)
	}
	if len(owners) == 0 {
		return 0, apperror.NotFound("restaurant not found")
	}
	return owners[0], nil
}
