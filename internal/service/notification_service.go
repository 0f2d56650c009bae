package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/nsxzhou1114/restaurant-api/internal/apperror"
	"github.com/nsxzhou1114/restaurant-api/internal/dto"
	"github.com/nsxzhou1114/restaurant-api/internal/logger"
	"github.com/nsxzhou1114/restaurant-api/internal/metrics"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"github.com/nsxzhou1114/restaurant-api/internal/policy"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// excerptRunes longest comment excerpt quoted in a notification message
const excerptRunes = 80

// NotificationService writes review notifications and serves them to owners
type NotificationService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
	owners *OwnershipRegistry
}

// NewNotificationService creates the service
func NewNotificationService(db *gorm.DB, owners *OwnershipRegistry) *NotificationService {
	return &NotificationService{
		db:     db,
		logger: logger.GetSugaredLogger(),
		owners: owners,
	}
}

// BuildMessage renders the owner-facing text for a new review
func BuildMessage(reviewer, restaurant string, rating int, comment string) string {
	msg := fmt.Sprintf("%s left a %d-star review on %s", reviewer, rating, restaurant)
	if comment == "" {
		return msg
	}
	if utf8.RuneCountInString(comment) > excerptRunes {
		comment = string([]rune(comment)[:excerptRunes]) + "..."
	}
	return fmt.Sprintf("%s: \"%s\"", msg, comment)
}

// Emit records a notification for the restaurant's owner. It must run on the
// transaction that inserted the review so both commit or neither does.
func (s *NotificationService) Emit(tx *gorm.DB, reviewer *model.User, restaurant *model.Restaurant, review *model.Review) error {
	notification := &model.Notification{
		RestaurantID: restaurant.ID,
		UserID:       reviewer.ID,
		Rating:       review.Rating,
		Message:      BuildMessage(reviewer.Username, restaurant.Name, review.Rating, review.Comment),
		Read:         false,
	}
	if err := tx.Create(notification).Error; err != nil {
		return apperror.Internal("create notification", err)
	}
	metrics.NotificationsEmitted.Inc()
	return nil
}

// ListForOwner returns notifications for every restaurant owned by ownerID,
// newest first. Owners without restaurants get an empty list.
func (s *NotificationService) ListForOwner(ctx context.Context, ownerID uint) ([]dto.NotificationResponse, error) {
	owned, err := s.owners.OwnedRestaurants(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := []dto.NotificationResponse{}
	if len(owned) == 0 {
		return out, nil
	}

	names := make(map[uint]string, len(owned))
	ids := make([]uint, 0, len(owned))
	for _, r := range owned {
		names[r.ID] = r.Name
		ids = append(ids, r.ID)
	}

	var notifications []model.Notification
	err = s.db.WithContext(ctx).
		Where("restaurant_id IN ?", ids).
		Order("created_at DESC").
		Order("id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, apperror.Internal("list notifications", err)
	}
	if len(notifications) == 0 {
		return out, nil
	}

	userIDs := make([]uint, 0, len(notifications))
	for _, n := range notifications {
		userIDs = append(userIDs, n.UserID)
	}
	usernames, err := usernamesByID(s.db.WithContext(ctx), userIDs)
	if err != nil {
		return nil, err
	}

	for _, n := range notifications {
		out = append(out, dto.NotificationResponse{
			ID:             n.ID,
			RestaurantID:   n.RestaurantID,
			RestaurantName: names[n.RestaurantID],
			UserName:       usernames[n.UserID],
			Rating:         n.Rating,
			Message:        n.Message,
			CreatedAt:      dto.FormatTime(n.CreatedAt),
			Read:           n.Read,
		})
	}
	return out, nil
}

// UnreadCount counts unread notifications across the owner's restaurants
func (s *NotificationService) UnreadCount(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("restaurant_id IN (?)", s.ownedIDs(ownerID)).
		Where("is_read = ?", false).
		Count(&count).Error
	if err != nil {
		return 0, apperror.Internal("count unread notifications", err)
	}
	return count, nil
}

// MarkRead marks one notification as read for the owner of its restaurant
func (s *NotificationService) MarkRead(ctx context.Context, actor policy.Actor, id uint) error {
	var notification model.Notification
	if err := s.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		return apperror.FromDB(err, "notification not found", "")
	}
	ownerID, err := s.owners.OwnerOf(ctx, notification.RestaurantID)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.ActionNotificationRead, policy.Resource{OwnerID: ownerID}).Err(); err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Model(&model.Notification{}).Where("id = ?", id).Update("is_read", true).Error
	if err != nil {
		return apperror.Internal("mark notification read", err)
	}
	return nil
}

// MarkAllRead marks every unread notification of the owner as read
func (s *NotificationService) MarkAllRead(ctx context.Context, ownerID uint) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("restaurant_id IN (?)", s.ownedIDs(ownerID)).
		Where("is_read = ?", false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, apperror.Internal("mark all notifications read", result.Error)
	}
	return result.RowsAffected, nil
}

// PurgeRead deletes read notifications created before cutoff
func (s *NotificationService) PurgeRead(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&model.Notification{})
	if result.Error != nil {
		return 0, apperror.Internal("purge notifications", result.Error)
	}
	s.logger.Infof("purged %d read notifications older than %s", result.RowsAffected, cutoff.Format(time.RFC3339))
	return result.RowsAffected, nil
}

func (s *NotificationService) ownedIDs(ownerID uint) *gorm.DB {
	return s.db.Model(&model.Restaurant{}).Select("id").Where("owner_id = ?", ownerID)
}

// usernamesByID resolves display names with a single query
func usernamesByID(db *gorm.DB, ids []uint) (map[uint]string, error) {
	var users []model.User
	if err := db.Select("id", "username").Where("id IN ?", uniqueIDs(ids)).Find(&users).Error; err != nil {
		return nil, apperror.Internal("load usernames", err)
	}
	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
