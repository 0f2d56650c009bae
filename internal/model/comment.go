package model

// TeaComment comment on a tea, removed together with it
type TeaComment struct {
	Base
	Content string `gorm:"type:text;not null" json:"content"`
	TeaID   uint   `gorm:"not null;index" json:"tea_id"`
}

// TableName table name
func (TeaComment) TableName() string {
	return "tea_comments"
}
