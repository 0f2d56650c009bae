package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/restaurant-api/internal/dto"
	"github.com/nsxzhou1114/restaurant-api/internal/logger"
	"github.com/nsxzhou1114/restaurant-api/internal/middleware"
	"github.com/nsxzhou1114/restaurant-api/internal/service"
	"github.com/nsxzhou1114/restaurant-api/pkg/response"
	"go.uber.org/zap"
)

type NotificationApi struct {
	logger              *zap.SugaredLogger
	notificationService *service.NotificationService
}

func NewNotificationApi(notificationService *service.NotificationService) *NotificationApi {
	return &NotificationApi{
		logger:              logger.GetSugaredLogger(),
		notificationService: notificationService,
	}
}

// List notifications for the restaurants the caller owns
func (api *NotificationApi) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notifications, err := api.notificationService.ListForOwner(c.Request.Context(), userID)
	if err != nil {
		handleError(c, api.logger, "list notifications", err)
		return
	}

	response.Success(c, "ok", gin.H{"notifications": notifications})
}

// UnreadCount number of unread notifications for the caller
func (api *NotificationApi) UnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := api.notificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		handleError(c, api.logger, "count unread notifications", err)
		return
	}

	response.Success(c, "ok", dto.UnreadCountResponse{Count: count})
}

// MarkRead marks one notification as read
func (api *NotificationApi) MarkRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := api.notificationService.MarkRead(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		handleError(c, api.logger, "mark notification read", err)
		return
	}

	response.Success(c, "notification marked as read", nil)
}

// MarkAllRead marks every notification of the caller as read
func (api *NotificationApi) MarkAllRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	updated, err := api.notificationService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		handleError(c, api.logger, "mark all notifications read", err)
		return
	}

	response.Success(c, "notifications marked as read", gin.H{"updated": updated})
}
