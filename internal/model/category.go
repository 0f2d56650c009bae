package model

// Category restaurant label
type Category struct {
	Base
	Name string `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
}

// TableName table name
func (Category) TableName() string {
	return "categories"
}
