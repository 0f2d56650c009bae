package model

// Review rating left by a user, at most one per user and restaurant
type Review struct {
	Base
	Rating       int    `gorm:"not null" json:"rating"`
	Comment      string `gorm:"type:text" json:"comment"`
	UserID       uint   `gorm:"not null;uniqueIndex:idx_review_user_restaurant" json:"user_id"`
	RestaurantID uint   `gorm:"not null;uniqueIndex:idx_review_user_restaurant;index" json:"restaurant_id"`
}

// TableName table name
func (Review) TableName() string {
	return "reviews"
}

// Favorite bookmark of a restaurant, at most one per user and restaurant
type Favorite struct {
	Base
	UserID       uint `gorm:"not null;uniqueIndex:idx_favorite_user_restaurant" json:"user_id"`
	RestaurantID uint `gorm:"not null;uniqueIndex:idx_favorite_user_restaurant;index" json:"restaurant_id"`
}

// TableName table name
func (Favorite) TableName() string {
	return "favorites"
}
