package dto

import "github.com/nsxzhou1114/restaurant-api/internal/model"

// RegisterRequest sign-up payload; admins are created from the CLI only
type RegisterRequest struct {
	Username string     `json:"username" binding:"required,min=3,max=50"`
	Email    string     `json:"email" binding:"required,email,max=100"`
	Password string     `json:"password" binding:"required,max=72"`
	Role     model.Role `json:"role" binding:"omitempty,oneof=user restaurant_owner"`
}

// LoginRequest credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse issued bearer token
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        UserResponse `json:"user"`
}

// UserResponse public account view
type UserResponse struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	CreatedAt string     `json:"created_at"`
}

// NewUserResponse converts a user row
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: FormatTime(u.CreatedAt),
	}
}
