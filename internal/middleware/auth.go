package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/restaurant-api/internal/apperror"
	"github.com/nsxzhou1114/restaurant-api/internal/dto"
	"github.com/nsxzhou1114/restaurant-api/internal/logger"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"github.com/nsxzhou1114/restaurant-api/internal/policy"
	"github.com/nsxzhou1114/restaurant-api/pkg/auth"
	"github.com/nsxzhou1114/restaurant-api/pkg/response"
)

const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"
	ctxUsername = "username"
	ctxToken    = "token"
)

// Accounts resolves the account behind a token subject
type Accounts interface {
	Get(ctx context.Context, id uint) (*dto.UserResponse, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// authenticate validates the bearer token, reloads the account and stores the
// caller with its current role; it aborts the request and returns false on failure
func authenticate(c *gin.Context, tokens *auth.TokenManager, accounts Accounts) bool {
	if c.GetHeader("Authorization") == "" {
		response.Unauthorized(c, "authentication required", nil)
		return false
	}
	token, ok := bearerToken(c)
	if !ok {
		response.Unauthorized(c, "malformed Authorization header", nil)
		return false
	}

	claims, err := tokens.Parse(c.Request.Context(), token)
	if err != nil {
		logger.Warnf("rejected token: %v", err)
		response.Unauthorized(c, "invalid or expired token", err)
		return false
	}
	userID, err := claims.UserID()
	if err != nil {
		response.Unauthorized(c, "invalid token subject", err)
		return false
	}

	account, err := accounts.Get(c.Request.Context(), userID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			logger.Warnf("token for deleted user %d rejected", userID)
			response.Unauthorized(c, "account no longer exists", err)
			return false
		}
		logger.Errorf("load account %d: %v", userID, err)
		response.Error(c, http.StatusInternalServerError, "internal server error", err)
		return false
	}

	c.Set(ctxUserID, account.ID)
	c.Set(ctxUserRole, string(account.Role))
	c.Set(ctxUsername, account.Username)
	c.Set(ctxToken, token)
	return true
}

// JWTAuth requires a valid bearer token
func JWTAuth(tokens *auth.TokenManager, accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, tokens, accounts) {
			return
		}
		c.Next()
	}
}

// AdminAuth requires a valid bearer token for an account with the admin role
func AdminAuth(tokens *auth.TokenManager, accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, tokens, accounts) {
			return
		}
		if GetActor(c).Role != model.RoleAdmin {
			response.Forbidden(c, "admin privileges required", nil)
			return
		}
		c.Next()
	}
}

// GetUserID caller id set by JWTAuth
func GetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// GetUserRole caller role set by JWTAuth
func GetUserRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxUserRole)
	if !exists {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}

// GetToken raw bearer token of the caller
func GetToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}

// GetActor caller as seen by the access policy; zero when anonymous
func GetActor(c *gin.Context) policy.Actor {
	id, _ := GetUserID(c)
	role, _ := GetUserRole(c)
	return policy.Actor{ID: id, Role: model.Role(role)}
}
