package dto

// ReviewCreateRequest review payload. Rating bounds are also enforced by
// the review service.
type ReviewCreateRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment" binding:"max=2000"`
}

// ReviewResponse review view
type ReviewResponse struct {
	ID           uint   `json:"id"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	UserID       uint   `json:"user_id"`
	UserName     string `json:"user_name"`
	RestaurantID uint   `json:"restaurant_id"`
	CreatedAt    string `json:"created_at"`
}
