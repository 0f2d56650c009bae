package service

import (
	"context"

	"github.com/nsxzhou1114/restaurant-api/internal/apperror"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"gorm.io/gorm"
)

// SystemStats row counts across the schema
type SystemStats struct {
	Users               int64
	Restaurants         int64
	Categories          int64
	Reviews             int64
	Favorites           int64
	Notifications       int64
	UnreadNotifications int64
	Teas                int64
}

// RoleCount users per role
type RoleCount struct {
	Role  model.Role
	Count int64
}

// RestaurantRating average rating of one restaurant
type RestaurantRating struct {
	ID            uint
	Name          string
	AverageRating float64
	ReviewCount   int64
}

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// System counts rows in every table
func (s *StatsService) System(ctx context.Context) (*SystemStats, error) {
	db := s.db.WithContext(ctx)
	stats := &SystemStats{}
	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&model.User{}, &stats.Users},
		{&model.Restaurant{}, &stats.Restaurants},
		{&model.Category{}, &stats.Categories},
		{&model.Review{}, &stats.Reviews},
		{&model.Favorite{}, &stats.Favorites},
		{&model.Notification{}, &stats.Notifications},
		{&model.Tea{}, &stats.Teas},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, apperror.Internal("count rows", err)
		}
	}
	if err := db.Model(&model.Notification{}).Where("is_read = ?", false).Count(&stats.UnreadNotifications).Error; err != nil {
		return nil, apperror.Internal("count unread notifications", err)
	}
	return stats, nil
}

// Roles user distribution by role
func (s *StatsService) Roles(ctx context.Context) ([]RoleCount, error) {
	var out []RoleCount
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Order("role").
		Scan(&out).Error
	if err != nil {
		return nil, apperror.Internal("count roles", err)
	}
	return out, nil
}

// TopRated restaurants with the best average rating, at least one review each
func (s *StatsService) TopRated(ctx context.Context, limit int) ([]RestaurantRating, error) {
	var out []RestaurantRating
	err := s.db.WithContext(ctx).Table("restaurants").
		Select("restaurants.id, restaurants.name, AVG(reviews.rating) AS average_rating, COUNT(reviews.id) AS review_count").
		Joins("JOIN reviews ON reviews.restaurant_id = restaurants.id").
		Group("restaurants.id, restaurants.name").
		Order("average_rating DESC, review_count DESC, restaurants.id").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, apperror.Internal("top rated restaurants", err)
	}
	return out, nil
}
