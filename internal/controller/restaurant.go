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

type RestaurantApi struct {
	logger            *zap.SugaredLogger
	restaurantService *service.RestaurantService
	reviewService     *service.ReviewService
}

func NewRestaurantApi(restaurantService *service.RestaurantService, reviewService *service.ReviewService) *RestaurantApi {
	return &RestaurantApi{
		logger:            logger.GetSugaredLogger(),
		restaurantService: restaurantService,
		reviewService:     reviewService,
	}
}

// List restaurants, optionally filtered by category, owner or keyword
func (api *RestaurantApi) List(c *gin.Context) {
	var req dto.RestaurantListRequest
	if !bindQuery(c, &req) {
		return
	}
	req.Normalize()

	restaurants, total, err := api.restaurantService.List(c.Request.Context(), &req)
	if err != nil {
		handleError(c, api.logger, "list restaurants", err)
		return
	}

	response.SuccessPage(c, "ok", restaurants, req.Page, req.PageSize, total)
}

// Get restaurant detail
func (api *RestaurantApi) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	restaurant, err := api.restaurantService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, api.logger, "get restaurant", err)
		return
	}

	response.Success(c, "ok", gin.H{"restaurant": restaurant})
}

// Create registers a restaurant owned by the caller
func (api *RestaurantApi) Create(c *gin.Context) {
	var req dto.RestaurantCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	restaurant, err := api.restaurantService.Create(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		handleError(c, api.logger, "create restaurant", err)
		return
	}

	response.Created(c, "restaurant created", gin.H{"restaurant": restaurant})
}

// Update partial update by the owner or an admin
func (api *RestaurantApi) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RestaurantUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	restaurant, err := api.restaurantService.Update(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		handleError(c, api.logger, "update restaurant", err)
		return
	}

	response.Success(c, "restaurant updated", gin.H{"restaurant": restaurant})
}

// Delete removes a restaurant with its reviews, favorites and notifications
func (api *RestaurantApi) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := api.restaurantService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		handleError(c, api.logger, "delete restaurant", err)
		return
	}

	response.Success(c, "restaurant deleted", nil)
}

// ListReviews reviews of one restaurant, newest first
func (api *RestaurantApi) ListReviews(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	reviews, err := api.reviewService.ListForRestaurant(c.Request.Context(), id)
	if err != nil {
		handleError(c, api.logger, "list reviews", err)
		return
	}

	response.Success(c, "ok", gin.H{"reviews": reviews})
}

// CreateReview posts the caller's review and notifies the owner
func (api *RestaurantApi) CreateReview(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ReviewCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := api.reviewService.Create(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		handleError(c, api.logger, "create review", err)
		return
	}

	response.Created(c, "review created", gin.H{"review": review})
}
