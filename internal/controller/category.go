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

type CategoryApi struct {
	logger          *zap.SugaredLogger
	categoryService *service.CategoryService
}

func NewCategoryApi(categoryService *service.CategoryService) *CategoryApi {
	return &CategoryApi{
		logger:          logger.GetSugaredLogger(),
		categoryService: categoryService,
	}
}

// List all categories
func (api *CategoryApi) List(c *gin.Context) {
	categories, err := api.categoryService.List(c.Request.Context())
	if err != nil {
		handleError(c, api.logger, "list categories", err)
		return
	}
	response.Success(c, "ok", gin.H{"categories": categories})
}

// Create adds a category
func (api *CategoryApi) Create(c *gin.Context) {
	var req dto.CategoryCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := api.categoryService.Create(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		handleError(c, api.logger, "create category", err)
		return
	}

	response.Created(c, "category created", gin.H{"category": category})
}

// Delete removes a category and detaches it from restaurants
func (api *CategoryApi) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := api.categoryService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		handleError(c, api.logger, "delete category", err)
		return
	}

	response.Success(c, "category deleted", nil)
}
