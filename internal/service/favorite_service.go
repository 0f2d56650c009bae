package service

import (
	"context"

	"github.com/nsxzhou1114/restaurant-api/internal/apperror"
	"github.com/nsxzhou1114/restaurant-api/internal/dto"
	"github.com/nsxzhou1114/restaurant-api/internal/logger"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"github.com/nsxzhou1114/restaurant-api/internal/policy"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FavoriteService user bookmarks of restaurants
type FavoriteService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
	owners *OwnershipRegistry
}

// NewFavoriteService creates the service
func NewFavoriteService(db *gorm.DB, owners *OwnershipRegistry) *FavoriteService {
	return &FavoriteService{
		db:     db,
		logger: logger.GetSugaredLogger(),
		owners: owners,
	}
}

// Add bookmarks a restaurant; a second add conflicts
func (s *FavoriteService) Add(ctx context.Context, actor policy.Actor, restaurantID uint) error {
	if err := policy.Authorize(actor, policy.ActionFavoriteCreate, policy.Resource{}).Err(); err != nil {
		return err
	}
	if _, err := s.owners.OwnerOf(ctx, restaurantID); err != nil {
		return err
	}

	favorite := &model.Favorite{UserID: actor.ID, RestaurantID: restaurantID}
	if err := s.db.WithContext(ctx).Create(favorite).Error; err != nil {
		if apperror.IsDuplicate(err) {
			return policy.Authorize(actor, policy.ActionFavoriteCreate, policy.Resource{Exists: true}).Err()
		}
		return apperror.Internal("create favorite", err)
	}
	return nil
}

// Remove deletes the bookmark; NotFound when there was none
func (s *FavoriteService) Remove(ctx context.Context, actor policy.Actor, restaurantID uint) error {
	if actor.Anonymous() {
		return policy.Authorize(actor, policy.ActionFavoriteDelete, policy.Resource{}).Err()
	}
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND restaurant_id = ?", actor.ID, restaurantID).
		Delete(&model.Favorite{})
	if result.Error != nil {
		return apperror.Internal("delete favorite", result.Error)
	}
	return policy.Authorize(actor, policy.ActionFavoriteDelete, policy.Resource{Exists: result.RowsAffected > 0}).Err()
}

// IsFavorite reports whether the user bookmarked the restaurant
func (s *FavoriteService) IsFavorite(ctx context.Context, userID, restaurantID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Count(&count).Error
	if err != nil {
		return false, apperror.Internal("check favorite", err)
	}
	return count > 0, nil
}

// ListForUser returns the user's bookmarks with their restaurants, newest first
func (s *FavoriteService) ListForUser(ctx context.Context, userID uint) ([]dto.FavoriteResponse, error) {
	db := s.db.WithContext(ctx)

	var favorites []model.Favorite
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC").Find(&favorites).Error; err != nil {
		return nil, apperror.Internal("list favorites", err)
	}
	out := make([]dto.FavoriteResponse, 0, len(favorites))
	if len(favorites) == 0 {
		return out, nil
	}

	ids := make([]uint, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.RestaurantID)
	}
	var restaurants []model.Restaurant
	if err := db.Preload("Categories").Where("id IN ?", ids).Find(&restaurants).Error; err != nil {
		return nil, apperror.Internal("load favorite restaurants", err)
	}
	byID := make(map[uint]*model.Restaurant, len(restaurants))
	for i := range restaurants {
		byID[restaurants[i].ID] = &restaurants[i]
	}

	for _, f := range favorites {
		r, ok := byID[f.RestaurantID]
		if !ok {
			continue
		}
		out = append(out, dto.FavoriteResponse{
			ID:         f.ID,
			Restaurant: dto.NewRestaurantResponse(r),
			CreatedAt:  dto.FormatTime(f.CreatedAt),
		})
	}
	return out, nil
}
