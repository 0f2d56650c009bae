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

type TeaApi struct {
	logger     *zap.SugaredLogger
	teaService *service.TeaService
}

func NewTeaApi(teaService *service.TeaService) *TeaApi {
	return &TeaApi{
		logger:     logger.GetSugaredLogger(),
		teaService: teaService,
	}
}

// List all teas
func (api *TeaApi) List(c *gin.Context) {
	teas, err := api.teaService.List(c.Request.Context())
	if err != nil {
		handleError(c, api.logger, "list teas", err)
		return
	}
	response.Success(c, "ok", gin.H{"teas": teas})
}

// Get tea with its comments
func (api *TeaApi) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tea, err := api.teaService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, api.logger, "get tea", err)
		return
	}

	response.Success(c, "ok", gin.H{"tea": tea})
}

func (api *TeaApi) Create(c *gin.Context) {
	var req dto.TeaCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	tea, err := api.teaService.Create(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		handleError(c, api.logger, "create tea", err)
		return
	}

	response.Created(c, "tea created", gin.H{"tea": tea})
}

func (api *TeaApi) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.TeaUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	tea, err := api.teaService.Update(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		handleError(c, api.logger, "update tea", err)
		return
	}

	response.Success(c, "tea updated", gin.H{"tea": tea})
}

func (api *TeaApi) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := api.teaService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		handleError(c, api.logger, "delete tea", err)
		return
	}

	response.Success(c, "tea deleted", nil)
}

// ListComments comments on one tea
func (api *TeaApi) ListComments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	comments, err := api.teaService.ListComments(c.Request.Context(), id)
	if err != nil {
		handleError(c, api.logger, "list tea comments", err)
		return
	}

	response.Success(c, "ok", gin.H{"comments": comments})
}

// AddComment comments on a tea
func (api *TeaApi) AddComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.TeaCommentCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := api.teaService.AddComment(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		handleError(c, api.logger, "add tea comment", err)
		return
	}

	response.Created(c, "comment added", gin.H{"comment": comment})
}
