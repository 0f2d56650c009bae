package model

// Notification record for a restaurant owner, written when a review lands
type Notification struct {
	Base
	RestaurantID uint   `gorm:"not null;index" json:"restaurant_id"`
	UserID       uint   `gorm:"not null;index" json:"user_id"` // reviewer
	Rating       int    `gorm:"not null" json:"rating"`
	Message      string `gorm:"type:text;not null" json:"message"`
	Read         bool   `gorm:"column:is_read;not null;default:false;index" json:"read"`
}

// TableName table name
func (Notification) TableName() string {
	return "notifications"
}
