package service

import (
	"github.com/nsxzhou1114/restaurant-api/pkg/auth"
	"github.com/nsxzhou1114/restaurant-api/pkg/cache"
	"gorm.io/gorm"
)

// Services every service wired over one database handle
type Services struct {
	Owners        *OwnershipRegistry
	Users         *UserService
	Restaurants   *RestaurantService
	Categories    *CategoryService
	Reviews       *ReviewService
	Favorites     *FavoriteService
	Notifications *NotificationService
	Teas          *TeaService
	Stats         *StatsService
	Tokens        *auth.TokenManager
}

// New wires the services; cacheManager may be nil to disable caching
func New(db *gorm.DB, tokens *auth.TokenManager, cacheManager *cache.Manager) *Services {
	owners := NewOwnershipRegistry(db)
	notifications := NewNotificationService(db, owners)
	return &Services{
		Owners:        owners,
		Users:         NewUserService(db, tokens, cacheManager),
		Restaurants:   NewRestaurantService(db, owners, cacheManager),
		Categories:    NewCategoryService(db, cacheManager),
		Reviews:       NewReviewService(db, notifications),
		Favorites:     NewFavoriteService(db, owners),
		Notifications: notifications,
		Teas:          NewTeaService(db),
		Stats:         NewStatsService(db),
		Tokens:        tokens,
	}
}
