package dto

// NotificationResponse notification enriched with display names
type NotificationResponse struct {
	ID             uint   `json:"id"`
	RestaurantID   uint   `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
	UserName       string `json:"user_name"`
	Rating         int    `json:"rating"`
	Message        string `json:"message"`
	CreatedAt      string `json:"created_at"`
	Read           bool   `json:"read"`
}

// UnreadCountResponse unread counter
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
