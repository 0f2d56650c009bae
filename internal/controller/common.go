package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/restaurant-api/internal/apperror"
	"github.com/nsxzhou1114/restaurant-api/internal/middleware"
	"github.com/nsxzhou1114/restaurant-api/pkg/response"
	"github.com/nsxzhou1114/restaurant-api/pkg/validate"
	"go.uber.org/zap"
)

// handleError maps a service error onto the HTTP envelope
func handleError(c *gin.Context, log *zap.SugaredLogger, action string, err error) {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)
	message := err.Error()
	if appErr, ok := apperror.As(err); ok {
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		log.Errorf("%s failed: %v", action, err)
		message = "internal server error"
	} else {
		log.Debugf("%s rejected: %v", action, err)
	}
	response.Error(c, status, message, err)
}

// bindJSON binds the body and replies 400 on failure
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			response.BadRequest(c, "request body is required", err)
			return false
		}
		response.BadRequest(c, validate.FormatError(err), err)
		return false
	}
	return true
}

// bindQuery binds the query string and replies 400 on failure
func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.BadRequest(c, validate.FormatError(err), err)
		return false
	}
	return true
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid "+name, err)
		return 0, false
	}
	return uint(id), true
}

// currentUserID id of the authenticated caller
func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "authentication required", nil)
		return 0, false
	}
	return userID, true
}
