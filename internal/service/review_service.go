package service

import (
	"context"

	"github.com/nsxzhou1114/restaurant-api/internal/apperror"
	"github.com/nsxzhou1114/restaurant-api/internal/dto"
	"github.com/nsxzhou1114/restaurant-api/internal/logger"
	"github.com/nsxzhou1114/restaurant-api/internal/metrics"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"github.com/nsxzhou1114/restaurant-api/internal/policy"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ReviewService reviews and the notifications they trigger
type ReviewService struct {
	db       *gorm.DB
	logger   *zap.SugaredLogger
	notifier *NotificationService
}

// NewReviewService creates the service
func NewReviewService(db *gorm.DB, notifier *NotificationService) *ReviewService {
	return &ReviewService{
		db:       db,
		logger:   logger.GetSugaredLogger(),
		notifier: notifier,
	}
}

// Create stores a review and notifies the restaurant owner in one transaction.
// Uniqueness per (user, restaurant) is decided by the storage index.
func (s *ReviewService) Create(ctx context.Context, actor policy.Actor, restaurantID uint, req *dto.ReviewCreateRequest) (*dto.ReviewResponse, error) {
	if err := policy.Authorize(actor, policy.ActionReviewCreate, policy.Resource{}).Err(); err != nil {
		return nil, err
	}
	if req.Rating < MinRating || req.Rating > MaxRating {
		return nil, apperror.Validation("rating must be between 1 and 5")
	}

	var (
		review   model.Review
		reviewer model.User
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var restaurant model.Restaurant
		if err := tx.Select("id", "name", "owner_id").First(&restaurant, restaurantID).Error; err != nil {
			return apperror.FromDB(err, "restaurant not found", "")
		}
		if err := tx.Select("id", "username").First(&reviewer, actor.ID).Error; err != nil {
			return apperror.FromDB(err, "user not found", "")
		}

		review = model.Review{
			Rating:       req.Rating,
			Comment:      req.Comment,
			UserID:       actor.ID,
			RestaurantID: restaurantID,
		}
		if err := tx.Create(&review).Error; err != nil {
			if apperror.IsDuplicate(err) {
				return policy.Authorize(actor, policy.ActionReviewCreate, policy.Resource{Exists: true}).Err()
			}
			return apperror.Internal("create review", err)
		}
		return s.notifier.Emit(tx, &reviewer, &restaurant, &review)
	})
	if err != nil {
		return nil, err
	}

	metrics.ReviewsCreated.Inc()
	s.logger.Infof("review %d created by user %d for restaurant %d", review.ID, actor.ID, restaurantID)
	return &dto.ReviewResponse{
		ID:           review.ID,
		Rating:       review.Rating,
		Comment:      review.Comment,
		UserID:       review.UserID,
		UserName:     reviewer.Username,
		RestaurantID: review.RestaurantID,
		CreatedAt:    dto.FormatTime(review.CreatedAt),
	}, nil
}

// ListForRestaurant returns reviews of a restaurant, newest first
func (s *ReviewService) ListForRestaurant(ctx context.Context, restaurantID uint) ([]dto.ReviewResponse, error) {
	db := s.db.WithContext(ctx)
	if _, err := ownerOf(db, restaurantID); err != nil {
		return nil, err
	}

	var reviews []model.Review
	if err := db.Where("restaurant_id = ?", restaurantID).Order("created_at DESC").Order("id DESC").Find(&reviews).Error; err != nil {
		return nil, apperror.Internal("list reviews", err)
	}

	out := make([]dto.ReviewResponse, 0, len(reviews))
	if len(reviews) == 0 {
		return out, nil
	}
	userIDs := make([]uint, 0, len(reviews))
	for _, r := range reviews {
		userIDs = append(userIDs, r.UserID)
	}
	usernames, err := usernamesByID(db, userIDs)
	if err != nil {
		return nil, err
	}
	for _, r := range reviews {
		out = append(out, dto.ReviewResponse{
			ID:           r.ID,
			Rating:       r.Rating,
			Comment:      r.Comment,
			UserID:       r.UserID,
			UserName:     usernames[r.UserID],
			RestaurantID: r.RestaurantID,
			CreatedAt:    dto.FormatTime(r.CreatedAt),
		})
	}
	return out, nil
}
