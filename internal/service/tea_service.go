package service

import (
	"context"

	"github.com/nsxzhou1114/restaurant-api/internal/apperror"
	"github.com/nsxzhou1114/restaurant-api/internal/dto"
	"github.com/nsxzhou1114/restaurant-api/internal/logger"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"github.com/nsxzhou1114/restaurant-api/internal/policy"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const errTeaNameTaken = "tea name already exists"

// TeaService teas and their comments. Only a tea's owner may change it,
// admins included.
type TeaService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewTeaService creates the service
func NewTeaService(db *gorm.DB) *TeaService {
	return &TeaService{
		db:     db,
		logger: logger.GetSugaredLogger(),
	}
}

// List returns every tea ordered by id
func (s *TeaService) List(ctx context.Context) ([]*dto.TeaResponse, error) {
	var teas []model.Tea
	if err := s.db.WithContext(ctx).Order("id").Find(&teas).Error; err != nil {
		return nil, apperror.Internal("list teas", err)
	}
	out := make([]*dto.TeaResponse, 0, len(teas))
	for i := range teas {
		out = append(out, dto.NewTeaResponse(&teas[i]))
	}
	return out, nil
}

// Get returns one tea with its comments
func (s *TeaService) Get(ctx context.Context, id uint) (*dto.TeaResponse, error) {
	var tea model.Tea
	err := s.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&tea, id).Error
	if err != nil {
		return nil, apperror.FromDB(err, "tea not found", "")
	}
	return dto.NewTeaResponse(&tea), nil
}

// Create adds a tea owned by actor
func (s *TeaService) Create(ctx context.Context, actor policy.Actor, req *dto.TeaCreateRequest) (*dto.TeaResponse, error) {
	if actor.Anonymous() {
		return nil, apperror.Unauthorized("authentication required")
	}
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	tea := &model.Tea{Name: req.Name, InStock: inStock, Rating: req.Rating, UserID: actor.ID}
	if err := s.db.WithContext(ctx).Create(tea).Error; err != nil {
		return nil, apperror.FromDB(err, "", errTeaNameTaken)
	}
	return dto.NewTeaResponse(tea), nil
}

// Update applies the non-nil fields of req; owner only
func (s *TeaService) Update(ctx context.Context, actor policy.Actor, id uint, req *dto.TeaUpdateRequest) (*dto.TeaResponse, error) {
	tea, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionOwnedUpdate, policy.Resource{OwnerID: tea.UserID}).Err(); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.InStock != nil {
		updates["in_stock"] = *req.InStock
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(tea).Updates(updates).Error; err != nil {
			return nil, apperror.FromDB(err, "", errTeaNameTaken)
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a tea and its comments; owner only
func (s *TeaService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	tea, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.ActionOwnedDelete, policy.Resource{OwnerID: tea.UserID}).Err(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteTeas(tx, []uint{id})
	})
}

// AddComment comments on a tea
func (s *TeaService) AddComment(ctx context.Context, actor policy.Actor, teaID uint, req *dto.TeaCommentCreateRequest) (*dto.TeaCommentResponse, error) {
	if actor.Anonymous() {
		return nil, apperror.Unauthorized("authentication required")
	}
	if _, err := s.find(ctx, teaID); err != nil {
		return nil, err
	}
	comment := &model.TeaComment{Content: req.Content, TeaID: teaID}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, apperror.Internal("create tea comment", err)
	}
	resp := dto.NewTeaCommentResponse(comment)
	return &resp, nil
}

// ListComments returns comments of a tea in insertion order
func (s *TeaService) ListComments(ctx context.Context, teaID uint) ([]dto.TeaCommentResponse, error) {
	if _, err := s.find(ctx, teaID); err != nil {
		return nil, err
	}
	var comments []model.TeaComment
	if err := s.db.WithContext(ctx).Where("tea_id = ?", teaID).Order("id").Find(&comments).Error; err != nil {
		return nil, apperror.Internal("list tea comments", err)
	}
	out := make([]dto.TeaCommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, dto.NewTeaCommentResponse(&comments[i]))
	}
	return out, nil
}

func (s *TeaService) find(ctx context.Context, id uint) (*model.Tea, error) {
	var tea model.Tea
	if err := s.db.WithContext(ctx).First(&tea, id).Error; err != nil {
		return nil, apperror.FromDB(err, "tea not found", "")
	}
	return &tea, nil
}

func deleteTeas(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("tea_id IN ?", ids).Delete(&model.TeaComment{}).Error; err != nil {
		return apperror.Internal("delete tea comments", err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&model.Tea{}).Error; err != nil {
		return apperror.Internal("delete teas", err)
	}
	return nil
}
