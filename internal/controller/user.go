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

type UserApi struct {
	logger      *zap.SugaredLogger
	userService *service.UserService
}

func NewUserApi(userService *service.UserService) *UserApi {
	return &UserApi{
		logger:      logger.GetSugaredLogger(),
		userService: userService,
	}
}

// Register creates a user or restaurant_owner account
func (api *UserApi) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := api.userService.Register(c.Request.Context(), &req)
	if err != nil {
		handleError(c, api.logger, "register", err)
		return
	}

	response.Created(c, "registered", gin.H{"user": user})
}

// Login exchanges credentials for an access token
func (api *UserApi) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := api.userService.Login(c.Request.Context(), &req)
	if err != nil {
		handleError(c, api.logger, "login", err)
		return
	}

	response.Success(c, "logged in", resp)
}

// Logout revokes the bearer token of the request
func (api *UserApi) Logout(c *gin.Context) {
	if err := api.userService.Logout(c.Request.Context(), middleware.GetToken(c)); err != nil {
		handleError(c, api.logger, "logout", err)
		return
	}
	response.Success(c, "logged out", nil)
}

// Me current user profile
func (api *UserApi) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := api.userService.Get(c.Request.Context(), userID)
	if err != nil {
		handleError(c, api.logger, "get current user", err)
		return
	}

	response.Success(c, "ok", gin.H{"user": user})
}

// Delete removes a user together with everything the user owns
func (api *UserApi) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := api.userService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		handleError(c, api.logger, "delete user", err)
		return
	}

	response.Success(c, "user deleted", nil)
}
