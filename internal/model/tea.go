package model

// Tea owned catalogue entry; only its owner may change it
type Tea struct {
	Base
	Name    string  `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	InStock bool    `gorm:"not null" json:"in_stock"`
	Rating  float64 `gorm:"not null;default:0" json:"rating"`
	UserID  uint    `gorm:"not null;index" json:"user_id"`

	Comments []TeaComment `gorm:"foreignKey:TeaID" json:"comments,omitempty"`
}

// TableName table name
func (Tea) TableName() string {
	return "teas"
}
