package service

import (
	"context"
	"errors"

	"github.com/nsxzhou1114/restaurant-api/internal/apperror"
	"github.com/nsxzhou1114/restaurant-api/internal/dto"
	"github.com/nsxzhou1114/restaurant-api/internal/logger"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"github.com/nsxzhou1114/restaurant-api/internal/policy"
	"github.com/nsxzhou1114/restaurant-api/pkg/auth"
	"github.com/nsxzhou1114/restaurant-api/pkg/cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const errInvalidCredentials = "invalid username or password"

// UserService accounts, credentials and tokens
type UserService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
	tokens *auth.TokenManager
	cache  *cache.Manager
}

// NewUserService creates the service; cacheManager may be nil
func NewUserService(db *gorm.DB, tokens *auth.TokenManager, cacheManager *cache.Manager) *UserService {
	return &UserService{
		db:     db,
		logger: logger.GetSugaredLogger(),
		tokens: tokens,
		cache:  cacheManager,
	}
}

// Register creates an account; role defaults to user
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if role == model.RoleAdmin {
		return nil, apperror.Forbidden("admin accounts cannot be self-registered")
	}
	user, err := s.CreateUser(ctx, req.Username, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// CreateUser stores a new account with a hashed password. Duplicate
// username or email surfaces as Conflict from the unique indexes.
func (s *UserService) CreateUser(ctx context.Context, username, email, password string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, apperror.Validation("unknown role")
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperror.Internal("hash password", err)
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: hashed,
		Role:     role,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, apperror.FromDB(err, "", "username or email already exists")
	}
	s.logger.Infof("user %d (%s) registered with role %s", user.ID, user.Username, user.Role)
	return user, nil
}

// VerifyCredentials returns the user when password matches
func (s *UserService) VerifyCredentials(ctx context.Context, username, password string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Unauthorized(errInvalidCredentials)
	}
	if err != nil {
		return nil, apperror.Internal("load user", err)
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, apperror.Unauthorized(errInvalidCredentials)
	}
	return &user, nil
}

// Login verifies credentials and issues a bearer token
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.VerifyCredentials(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	token, _, err := s.tokens.Issue(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, apperror.Internal("issue token", err)
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
		User:        dto.NewUserResponse(user),
	}, nil
}

// Logout revokes the presented token
func (s *UserService) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return apperror.New(apperror.KindUnauthorized, "invalid token", err)
	}
	return nil
}

// Get returns one account
func (s *UserService) Get(ctx context.Context, id uint) (*dto.UserResponse, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, apperror.FromDB(err, "user not found", "")
	}
	resp := dto.NewUserResponse(&user)
	return &resp, nil
}

// List returns every account ordered by id
func (s *UserService) List(ctx context.Context) ([]dto.UserResponse, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, apperror.Internal("list users", err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return out, nil
}

// Delete removes an account with everything it owns: restaurants (with
// their own dependents), reviews, favorites, authored notifications and teas
func (s *UserService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	if err := policy.Authorize(actor, policy.ActionUserDelete, policy.Resource{}).Err(); err != nil {
		return err
	}

	var restaurantIDs []uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Select("id").First(&user, id).Error; err != nil {
			return apperror.FromDB(err, "user not found", "")
		}

		if err := tx.Model(&model.Restaurant{}).Where("owner_id = ?", id).Pluck("id", &restaurantIDs).Error; err != nil {
			return apperror.Internal("load owned restaurants", err)
		}
		if err := deleteRestaurants(tx, restaurantIDs); err != nil {
			return err
		}

		steps := []struct {
			what  string
			model interface{}
		}{
			{"reviews", &model.Review{}},
			{"favorites", &model.Favorite{}},
			{"notifications", &model.Notification{}},
		}
		for _, step := range steps {
			if err := tx.Where("user_id = ?", id).Delete(step.model).Error; err != nil {
				return apperror.Internal("delete user "+step.what, err)
			}
		}

		var teaIDs []uint
		if err := tx.Model(&model.Tea{}).Where("user_id = ?", id).Pluck("id", &teaIDs).Error; err != nil {
			return apperror.Internal("load owned teas", err)
		}
		if err := deleteTeas(tx, teaIDs); err != nil {
			return err
		}

		if err := tx.Delete(&model.User{}, id).Error; err != nil {
			return apperror.Internal("delete user", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(restaurantIDs))
	for _, rid := range restaurantIDs {
		keys = append(keys, detailKey(rid))
	}
	s.cache.Invalidate(ctx, keys...)
	s.logger.Infof("user %d deleted by %d, %d restaurants removed", id, actor.ID, len(restaurantIDs))
	return nil
}
