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

type FavoriteApi struct {
	logger          *zap.SugaredLogger
	favoriteService *service.FavoriteService
}

func NewFavoriteApi(favoriteService *service.FavoriteService) *FavoriteApi {
	return &FavoriteApi{
		logger:          logger.GetSugaredLogger(),
		favoriteService: favoriteService,
	}
}

// Check reports whether the caller has favorited the restaurant
func (api *FavoriteApi) Check(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	isFavorite, err := api.favoriteService.IsFavorite(c.Request.Context(), userID, id)
	if err != nil {
		handleError(c, api.logger, "check favorite", err)
		return
	}

	response.Success(c, "ok", dto.FavoriteStatusResponse{IsFavorite: isFavorite})
}

// Add favorites a restaurant
func (api *FavoriteApi) Add(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := api.favoriteService.Add(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		handleError(c, api.logger, "add favorite", err)
		return
	}

	response.Created(c, "added to favorites", dto.FavoriteStatusResponse{IsFavorite: true})
}

// Remove unfavorites a restaurant
func (api *FavoriteApi) Remove(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := api.favoriteService.Remove(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		handleError(c, api.logger, "remove favorite", err)
		return
	}

	response.Success(c, "removed from favorites", dto.FavoriteStatusResponse{IsFavorite: false})
}

// List the caller's favorites
func (api *FavoriteApi) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	favorites, err := api.favoriteService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		handleError(c, api.logger, "list favorites", err)
		return
	}

	response.Success(c, "ok", gin.H{"favorites": favorites})
}
