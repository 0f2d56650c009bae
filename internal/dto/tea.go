package dto

import "github.com/nsxzhou1114/restaurant-api/internal/model"

// TeaCreateRequest create payload
type TeaCreateRequest struct {
	Name    string  `json:"name" binding:"required,max=100"`
	InStock *bool   `json:"in_stock"`
	Rating  float64 `json:"rating" binding:"gte=0,lte=5"`
}

// TeaUpdateRequest partial update
type TeaUpdateRequest struct {
	Name    *string  `json:"name" binding:"omitempty,min=1,max=100"`
	InStock *bool    `json:"in_stock"`
	Rating  *float64 `json:"rating" binding:"omitempty,gte=0,lte=5"`
}

// TeaCommentCreateRequest comment payload
type TeaCommentCreateRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// TeaCommentResponse comment view
type TeaCommentResponse struct {
	ID        uint   `json:"id"`
	Content   string `json:"content"`
	TeaID     uint   `json:"tea_id"`
	CreatedAt string `json:"created_at"`
}

// TeaResponse tea view
type TeaResponse struct {
	ID        uint                 `json:"id"`
	Name      string               `json:"name"`
	InStock   bool                 `json:"in_stock"`
	Rating    float64              `json:"rating"`
	UserID    uint                 `json:"user_id"`
	Comments  []TeaCommentResponse `json:"comments,omitempty"`
	CreatedAt string               `json:"created_at"`
}

// NewTeaCommentResponse converts a comment row
func NewTeaCommentResponse(c *model.TeaComment) TeaCommentResponse {
	return TeaCommentResponse{ID: c.ID, Content: c.Content, TeaID: c.TeaID, CreatedAt: FormatTime(c.CreatedAt)}
}

// NewTeaResponse converts a tea row
func NewTeaResponse(t *model.Tea) *TeaResponse {
	resp := &TeaResponse{
		ID:        t.ID,
		Name:      t.Name,
		InStock:   t.InStock,
		Rating:    t.Rating,
		UserID:    t.UserID,
		CreatedAt: FormatTime(t.CreatedAt),
	}
	for i := range t.Comments {
		resp.Comments = append(resp.Comments, NewTeaCommentResponse(&t.Comments[i]))
	}
	return resp
}
