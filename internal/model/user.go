package model

// Role closed set of account roles
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleUser            Role = "user"
	RoleRestaurantOwner Role = "restaurant_owner"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleRestaurantOwner:
		return true
	}
	return false
}

// Roles all known roles
func Roles() []Role {
	return []Role{RoleAdmin, RoleUser, RoleRestaurantOwner}
}

// User account
type User struct {
	Base
	Username string `gorm:"type:varchar(50);not null;uniqueIndex" json:"username"`
	Email    string `gorm:"type:varchar(100);not null;uniqueIndex" json:"email"`
	Password string `gorm:"type:varchar(100);not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
}

// TableName table name
func (User) TableName() string {
	return "users"
}
