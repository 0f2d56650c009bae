package dto

import "github.com/nsxzhou1114/restaurant-api/internal/model"

// RestaurantCreateRequest create payload; unknown category ids are ignored
type RestaurantCreateRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=2000"`
	Location    string `json:"location" binding:"max=255"`
	ImageURL    string `json:"image_url" binding:"omitempty,url,max=255"`
	CategoryIDs []uint `json:"category_ids"`
}

// RestaurantUpdateRequest partial update. A non-nil CategoryIDs, even an
// empty one, replaces the category set.
type RestaurantUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Location    *string `json:"location" binding:"omitempty,max=255"`
	ImageURL    *string `json:"image_url" binding:"omitempty,max=255"`
	CategoryIDs *[]uint `json:"category_ids"`
}

// RestaurantListRequest list query
type RestaurantListRequest struct {
	PageRequest
	CategoryID uint   `form:"category_id"`
	OwnerID    uint   `form:"owner_id"`
	Keyword    string `form:"keyword" binding:"max=100"`
}

// RestaurantResponse restaurant view with its categories
type RestaurantResponse struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Location    string             `json:"location"`
	ImageURL    string             `json:"image_url"`
	OwnerID     uint               `json:"owner_id"`
	Categories  []CategoryResponse `json:"categories"`
	CreatedAt   string             `json:"created_at"`
}

// NewRestaurantResponse converts a restaurant row with preloaded categories
func NewRestaurantResponse(r *model.Restaurant) *RestaurantResponse {
	return &RestaurantResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Location:    r.Location,
		ImageURL:    r.ImageURL,
		OwnerID:     r.OwnerID,
		Categories:  NewCategoryResponses(r.Categories),
		CreatedAt:   FormatTime(r.CreatedAt),
	}
}
