package service

import (
	"context"
	"fmt"

	"github.com/nsxzhou1114/restaurant-api/internal/apperror"
	"github.com/nsxzhou1114/restaurant-api/internal/dto"
	"github.com/nsxzhou1114/restaurant-api/internal/logger"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"github.com/nsxzhou1114/restaurant-api/internal/policy"
	"github.com/nsxzhou1114/restaurant-api/pkg/cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const errRestaurantNameTaken = "restaurant name already exists"

// RestaurantService restaurant CRUD with category associations
type RestaurantService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
	owners *OwnershipRegistry
	cache  *cache.Manager
}

// NewRestaurantService creates the service; cacheManager may be nil
func NewRestaurantService(db *gorm.DB, owners *OwnershipRegistry, cacheManager *cache.Manager) *RestaurantService {
	return &RestaurantService{
		db:     db,
		logger: logger.GetSugaredLogger(),
		owners: owners,
		cache:  cacheManager,
	}
}

func detailKey(id uint) string {
	return fmt.Sprintf(cache.RestaurantDetailKey, id)
}

// Create creates a restaurant owned by actor
func (s *RestaurantService) Create(ctx context.Context, actor policy.Actor, req *dto.RestaurantCreateRequest) (*dto.RestaurantResponse, error) {
	if err := policy.Authorize(actor, policy.ActionRestaurantCreate, policy.Resource{}).Err(); err != nil {
		return nil, err
	}

	restaurant := &model.Restaurant{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		OwnerID:     actor.ID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(restaurant).Error; err != nil {
			return apperror.FromDB(err, "", errRestaurantNameTaken)
		}
		return replaceCategories(tx, restaurant.ID, req.CategoryIDs)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Restaurants().Add(restaurant.ID)
	}
	s.logger.Infof("restaurant %d created by user %d", restaurant.ID, actor.ID)
	return s.load(ctx, restaurant.ID)
}

// Update applies the non-nil fields of req
func (s *RestaurantService) Update(ctx context.Context, actor policy.Actor, id uint, req *dto.RestaurantUpdateRequest) (*dto.RestaurantResponse, error) {
	ownerID, err := s.owners.OwnerOf(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionRestaurantUpdate, policy.Resource{OwnerID: ownerID}).Err(); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&model.Restaurant{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return apperror.FromDB(err, "", errRestaurantNameTaken)
			}
		}
		if req.CategoryIDs != nil {
			return replaceCategories(tx, id, *req.CategoryIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, detailKey(id))
	return s.load(ctx, id)
}

// Delete removes a restaurant with its reviews, favorites and notifications
func (s *RestaurantService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	ownerID, err := s.owners.OwnerOf(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.ActionRestaurantDelete, policy.Resource{OwnerID: ownerID}).Err(); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteRestaurants(tx, []uint{id})
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, detailKey(id))
	s.logger.Infof("restaurant %d deleted by user %d", id, actor.ID)
	return nil
}

// Get returns one restaurant with its categories. The bloom filter only
// learns ids created by this process, so a negative answer is confirmed
// against the database and rows written elsewhere are added to it.
func (s *RestaurantService) Get(ctx context.Context, id uint) (*dto.RestaurantResponse, error) {
	if s.cache != nil && !s.cache.Restaurants().MightContain(id) {
		resp, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		s.cache.Restaurants().Add(id)
		return resp, nil
	}
	return cache.Fetch(ctx, s.cache, detailKey(id), 0, func(ctx context.Context) (*dto.RestaurantResponse, error) {
		return s.load(ctx, id)
	})
}

// List returns a page of restaurants ordered by id
func (s *RestaurantService) List(ctx context.Context, req *dto.RestaurantListRequest) ([]*dto.RestaurantResponse, int64, error) {
	req.Normalize()

	query := s.db.WithContext(ctx).Model(&model.Restaurant{})
	if req.CategoryID != 0 {
		sub := s.db.Table(model.RestaurantCategoryTable).Select("restaurant_id").Where("category_id = ?", req.CategoryID)
		query = query.Where("id IN (?)", sub)
	}
	if req.OwnerID != 0 {
		query = query.Where("owner_id = ?", req.OwnerID)
	}
	if req.Keyword != "" {
		query = query.Where("name LIKE ?", "%"+req.Keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.Internal("count restaurants", err)
	}

	var restaurants []model.Restaurant
	err := query.Preload("Categories").
		Order("id").
		Offset(req.Offset()).
		Limit(req.PageSize).
		Find(&restaurants).Error
	if err != nil {
		return nil, 0, apperror.Internal("list restaurants", err)
	}

	out := make([]*dto.RestaurantResponse, 0, len(restaurants))
	for i := range restaurants {
		out = append(out, dto.NewRestaurantResponse(&restaurants[i]))
	}
	return out, total, nil
}

func (s *RestaurantService) load(ctx context.Context, id uint) (*dto.RestaurantResponse, error) {
	var restaurant model.Restaurant
	if err := s.db.WithContext(ctx).Preload("Categories").First(&restaurant, id).Error; err != nil {
		return nil, apperror.FromDB(err, "restaurant not found", "")
	}
	return dto.NewRestaurantResponse(&restaurant), nil
}

// replaceCategories sets the category set of a restaurant to the existing
// categories among ids; unknown ids are ignored and an empty set clears it
func replaceCategories(tx *gorm.DB, restaurantID uint, ids []uint) error {
	var categories []model.Category
	if len(ids) > 0 {
		if err := tx.Where("id IN ?", ids).Find(&categories).Error; err != nil {
			return apperror.Internal("load categories", err)
		}
	}

	assoc := tx.Model(&model.Restaurant{Base: model.Base{ID: restaurantID}}).Association("Categories")
	if len(categories) == 0 {
		if err := assoc.Clear(); err != nil {
			return apperror.Internal("clear categories", err)
		}
		return nil
	}
	if err := assoc.Replace(categories); err != nil {
		return apperror.Internal("replace categories", err)
	}
	return nil
}

// deleteRestaurants removes restaurants and everything hanging off them.
// Categories are only detached.
func deleteRestaurants(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	steps := []struct {
		what  string
		model interface{}
	}{
		{"reviews", &model.Review{}},
		{"favorites", &model.Favorite{}},
		{"notifications", &model.Notification{}},
	}
	for _, step := range steps {
		if err := tx.Where("restaurant_id IN ?", ids).Delete(step.model).Error; err != nil {
			return apperror.Internal("delete "+step.what, err)
		}
	}
	if err := tx.Exec("DELETE FROM "+model.RestaurantCategoryTable+" WHERE restaurant_id IN ?", ids).Error; err != nil {
		return apperror.Internal("detach categories", err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&model.Restaurant{}).Error; err != nil {
		return apperror.Internal("delete restaurants", err)
	}
	return nil
}
