package dto

// FavoriteStatusResponse favorite check
type FavoriteStatusResponse struct {
	IsFavorite bool `json:"is_favorite"`
}

// FavoriteResponse favorite with the restaurant it points to
type FavoriteResponse struct {
	ID         uint                `json:"id"`
	Restaurant *RestaurantResponse `json:"restaurant"`
	CreatedAt  string              `json:"created_at"`
}
