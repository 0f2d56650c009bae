package service

import (
	"context"

	"github.com/nsxzhou1114/restaurant-api/internal/apperror"
	"github.com/nsxzhou1114/restaurant-api/internal/dto"
	"github.com/nsxzhou1114/restaurant-api/internal/logger"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"github.com/nsxzhou1114/restaurant-api/internal/policy"
	"github.com/nsxzhou1114/restaurant-api/pkg/cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CategoryService category labels
type CategoryService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
	cache  *cache.Manager
}

// NewCategoryService creates the service; cacheManager may be nil
func NewCategoryService(db *gorm.DB, cacheManager *cache.Manager) *CategoryService {
	return &CategoryService{
		db:     db,
		logger: logger.GetSugaredLogger(),
		cache:  cacheManager,
	}
}

// List returns every category ordered by name
func (s *CategoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	return cache.Fetch(ctx, s.cache, cache.CategoryListKey, cache.CategoryListExpiration, func(ctx context.Context) ([]dto.CategoryResponse, error) {
		var categories []model.Category
		if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
			return nil, apperror.Internal("list categories", err)
		}
		return dto.NewCategoryResponses(categories), nil
	})
}

// Create adds a category
func (s *CategoryService) Create(ctx context.Context, actor policy.Actor, req *dto.CategoryCreateRequest) (*dto.CategoryResponse, error) {
	if err := policy.Authorize(actor, policy.ActionCategoryManage, policy.Resource{}).Err(); err != nil {
		return nil, err
	}

	category := &model.Category{Name: req.Name}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, apperror.FromDB(err, "", "category already exists")
	}

	s.cache.Invalidate(ctx, cache.CategoryListKey)
	return &dto.CategoryResponse{ID: category.ID, Name: category.Name}, nil
}

// Delete removes a category and detaches it from its restaurants
func (s *CategoryService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	if err := policy.Authorize(actor, policy.ActionCategoryManage, policy.Resource{}).Err(); err != nil {
		return err
	}

	var restaurantIDs []uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(model.RestaurantCategoryTable).Where("category_id = ?", id).Pluck("restaurant_id", &restaurantIDs).Error; err != nil {
			return apperror.Internal("load category restaurants", err)
		}
		if err := tx.Exec("DELETE FROM "+model.RestaurantCategoryTable+" WHERE category_id = ?", id).Error; err != nil {
			return apperror.Internal("detach category", err)
		}
		result := tx.Delete(&model.Category{}, id)
		if result.Error != nil {
			return apperror.Internal("delete category", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound("category not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	keys := []string{cache.CategoryListKey}
	for _, rid := range restaurantIDs {
		keys = append(keys, detailKey(rid))
	}
	s.cache.Invalidate(ctx, keys...)
	return nil
}
