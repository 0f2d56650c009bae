package model

// RestaurantCategoryTable join table between restaurants and categories
const RestaurantCategoryTable = "restaurant_categories"

// Restaurant listed venue, owned by exactly one user
type Restaurant struct {
	Base
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Location    string `gorm:"type:varchar(255)" json:"location"`
	ImageURL    string `gorm:"type:varchar(255)" json:"image_url"`
	OwnerID     uint   `gorm:"not null;index" json:"owner_id"`

	Categories []Category `gorm:"many2many:restaurant_categories;" json:"categories"`
}

// TableName table name
func (Restaurant) TableName() string {
	return "restaurants"
}
