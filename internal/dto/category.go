package dto

import "github.com/nsxzhou1114/restaurant-api/internal/model"

// CategoryCreateRequest admin payload
type CategoryCreateRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// CategoryResponse category view
type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// NewCategoryResponses converts category rows
func NewCategoryResponses(categories []model.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out
}
