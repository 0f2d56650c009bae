package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nsxzhou1114/restaurant-api/internal/apperror"
	"github.com/nsxzhou1114/restaurant-api/internal/dto"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"github.com/nsxzhou1114/restaurant-api/internal/policy"
	"github.com/nsxzhou1114/restaurant-api/internal/testutil"
	"github.com/nsxzhou1114/restaurant-api/pkg/auth"
	"github.com/nsxzhou1114/restaurant-api/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB
	svc *Services
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	tokens := auth.NewTokenManager("test-secret", "restaurant-api", 0, auth.NewMemoryBlacklist())
	return &fixture{t: t, ctx: context.Background(), db: db, svc: New(db, tokens, nil)}
}

func (f *fixture) user(username string, role model.Role) policy.Actor {
	f.t.Helper()
	u, err := f.svc.Users.CreateUser(f.ctx, username, username+"@example.com", "password123", role)
	require.NoError(f.t, err)
	return policy.Actor{ID: u.ID, Role: u.Role}
}

func (f *fixture) category(name string) uint {
	f.t.Helper()
	c := &model.Category{Name: name}
	require.NoError(f.t, f.db.Create(c).Error)
	return c.ID
}

func (f *fixture) restaurant(owner policy.Actor, name string, categoryIDs ...uint) *dto.RestaurantResponse {
	f.t.Helper()
	r, err := f.svc.Restaurants.Create(f.ctx, owner, &dto.RestaurantCreateRequest{Name: name, Location: "Main St", CategoryIDs: categoryIDs})
	require.NoError(f.t, err)
	return r
}

func (f *fixture) count(m interface{}, query string, args ...interface{}) int64 {
	f.t.Helper()
	var n int64
	q := f.db.Model(m)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(f.t, q.Count(&n).Error)
	return n
}

func (f *fixture) joinRows(restaurantID uint) int64 {
	f.t.Helper()
	var n int64
	require.NoError(f.t, f.db.Table(model.RestaurantCategoryTable).Where("restaurant_id = ?", restaurantID).Count(&n).Error)
	return n
}

func categoryIDs(r *dto.RestaurantResponse) []uint {
	ids := make([]uint, 0, len(r.Categories))
	for _, c := range r.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

func strPtr(s string) *string { return &s }

func TestRegisterLoginScenario(t *testing.T) {
	f := newFixture(t)

	alice, err := f.svc.Users.Register(f.ctx, &dto.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "pw123"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), alice.ID)
	assert.Equal(t, model.RoleUser, alice.Role)

	_, err = f.svc.Users.Register(f.ctx, &dto.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "pw123"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	_, err = f.svc.Users.Register(f.ctx, &dto.RegisterRequest{Username: "alice2", Email: "alice@x.com", Password: "pw123"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, int64(1), f.count(&model.User{}, ""))

	_, err = f.svc.Users.VerifyCredentials(f.ctx, "alice", "wrong")
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	_, err = f.svc.Users.VerifyCredentials(f.ctx, "nobody", "pw123")
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	login, err := f.svc.Users.Login(f.ctx, &dto.LoginRequest{Username: "alice", Password: "pw123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", login.TokenType)

	claims, err := f.svc.Tokens.Parse(f.ctx, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user", claims.Role)
	assert.WithinDuration(t, claims.IssuedAt.Time.Add(24*time.Hour), claims.ExpiresAt.Time, time.Second)

	require.NoError(t, f.svc.Users.Logout(f.ctx, login.AccessToken))
	_, err = f.svc.Tokens.Parse(f.ctx, login.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Users.Register(f.ctx, &dto.RegisterRequest{Username: "eve", Email: "eve@example.com", Password: "secret1", Role: model.RoleAdmin})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	owner, err := f.svc.Users.Register(f.ctx, &dto.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret1", Role: model.RoleRestaurantOwner})
	require.NoError(t, err)
	assert.Equal(t, model.RoleRestaurantOwner, owner.Role)
}

func TestRestaurantCreateRequiresOwnerRole(t *testing.T) {
	f := newFixture(t)
	diner := f.user("diner", model.RoleUser)

	_, err := f.svc.Restaurants.Create(f.ctx, diner, &dto.RestaurantCreateRequest{Name: "Nope"})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	admin := f.user("admin", model.RoleAdmin)
	r := f.restaurant(admin, "Admin Diner")
	assert.Equal(t, admin.ID, r.OwnerID)
}

func TestRestaurantCategoriesIgnoreUnknownAndReplace(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", model.RoleRestaurantOwner)
	italian := f.category("Italian")
	french := f.category("French")

	r := f.restaurant(owner, "Bistro", italian, 999)
	assert.Equal(t, []uint{italian}, categoryIDs(r))

	updated, err := f.svc.Restaurants.Update(f.ctx, owner, r.ID, &dto.RestaurantUpdateRequest{Description: strPtr("cozy")})
	require.NoError(t, err)
	assert.Equal(t, []uint{italian}, categoryIDs(updated), "absent category_ids leaves the set untouched")
	assert.Equal(t, "cozy", updated.Description)

	ids := []uint{french}
	updated, err = f.svc.Restaurants.Update(f.ctx, owner, r.ID, &dto.RestaurantUpdateRequest{CategoryIDs: &ids})
	require.NoError(t, err)
	assert.Equal(t, []uint{french}, categoryIDs(updated))

	empty := []uint{}
	updated, err = f.svc.Restaurants.Update(f.ctx, owner, r.ID, &dto.RestaurantUpdateRequest{CategoryIDs: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.Categories)
	assert.Equal(t, int64(0), f.joinRows(r.ID))
	assert.Equal(t, "Bistro", updated.Name)
	assert.Equal(t, "cozy", updated.Description)
	assert.Equal(t, "Main St", updated.Location)
}

func TestRestaurantUpdateByNonOwnerIsForbidden(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", model.RoleRestaurantOwner)
	rival := f.user("rival", model.RoleRestaurantOwner)
	admin := f.user("admin", model.RoleAdmin)
	r := f.restaurant(owner, "Trattoria")

	_, err := f.svc.Restaurants.Update(f.ctx, rival, r.ID, &dto.RestaurantUpdateRequest{Name: strPtr("Hijacked")})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	var row model.Restaurant
	require.NoError(t, f.db.First(&row, r.ID).Error)
	assert.Equal(t, "Trattoria", row.Name)

	err = f.svc.Restaurants.Delete(f.ctx, rival, r.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	updated, err := f.svc.Restaurants.Update(f.ctx, admin, r.ID, &dto.RestaurantUpdateRequest{Name: strPtr("Trattoria Nuova")})
	require.NoError(t, err)
	assert.Equal(t, "Trattoria Nuova", updated.Name)
	assert.Equal(t, owner.ID, updated.OwnerID)

	_, err = f.svc.Restaurants.Update(f.ctx, owner, 404, &dto.RestaurantUpdateRequest{})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestRestaurantNameConflict(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", model.RoleRestaurantOwner)
	f.restaurant(owner, "Taken")
	other := f.restaurant(owner, "Free")

	_, err := f.svc.Restaurants.Create(f.ctx, owner, &dto.RestaurantCreateRequest{Name: "Taken"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	_, err = f.svc.Restaurants.Update(f.ctx, owner, other.ID, &dto.RestaurantUpdateRequest{Name: strPtr("Taken")})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestRestaurantListFilters(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", model.RoleRestaurantOwner)
	other := f.user("other", model.RoleRestaurantOwner)
	thai := f.category("Thai")
	f.restaurant(owner, "Thai Garden", thai)
	f.restaurant(owner, "Burger Barn")
	f.restaurant(other, "Thai Express", thai)

	all, total, err := f.svc.Restaurants.List(f.ctx, &dto.RestaurantListRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	byCategory, total, err := f.svc.Restaurants.List(f.ctx, &dto.RestaurantListRequest{CategoryID: thai})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Thai Garden", byCategory[0].Name)

	byOwner, _, err := f.svc.Restaurants.List(f.ctx, &dto.RestaurantListRequest{OwnerID: other.ID})
	require.NoError(t, err)
	require.Len(t, byOwner, 1)
	assert.Equal(t, "Thai Express", byOwner[0].Name)

	paged, total, err := f.svc.Restaurants.List(f.ctx, &dto.RestaurantListRequest{PageRequest: dto.PageRequest{Page: 2, PageSize: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, paged, 1)
}

func TestRestaurantGetUsesCacheAndInvalidates(t *testing.T) {
	f := newFixture(t)
	manager := cache.NewManager(nil, cache.Options{TTL: time.Minute})
	restaurants := NewRestaurantService(f.db, f.svc.Owners, manager)
	require.NoError(t, cache.WarmRestaurantFilter(f.ctx, manager, f.db))

	owner := f.user("owner", model.RoleRestaurantOwner)
	created, err := restaurants.Create(f.ctx, owner, &dto.RestaurantCreateRequest{Name: "Cached"})
	require.NoError(t, err)

	got, err := restaurants.Get(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cached", got.Name)

	_, err = restaurants.Update(f.ctx, owner, created.ID, &dto.RestaurantUpdateRequest{Name: strPtr("Fresh")})
	require.NoError(t, err)
	got, err = restaurants.Get(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fresh", got.Name)

	_, err = restaurants.Get(f.ctx, 12345)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	require.NoError(t, restaurants.Delete(f.ctx, owner, created.ID))
	_, err = restaurants.Get(f.ctx, created.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestRestaurantGetFindsRowsOutsideFilter(t *testing.T) {
	f := newFixture(t)
	manager := cache.NewManager(nil, cache.Options{TTL: time.Minute})
	restaurants := NewRestaurantService(f.db, f.svc.Owners, manager)
	require.NoError(t, cache.WarmRestaurantFilter(f.ctx, manager, f.db))

	owner := f.user("owner", model.RoleRestaurantOwner)
	seeded := &model.Restaurant{Name: "Seeded Later", OwnerID: owner.ID}
	require.NoError(t, f.db.Create(seeded).Error)

	got, err := restaurants.Get(f.ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Seeded Later", got.Name)
	assert.True(t, manager.Restaurants().MightContain(seeded.ID))

	_, err = restaurants.Get(f.ctx, seeded.ID+100)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestRestaurantDeleteCascades(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", model.RoleRestaurantOwner)
	diner := f.user("diner", model.RoleUser)
	mexican := f.category("Mexican")
	r := f.restaurant(owner, "Cantina", mexican)
	keep := f.restaurant(owner, "Taqueria", mexican)

	_, err := f.svc.Reviews.Create(f.ctx, diner, r.ID, &dto.ReviewCreateRequest{Rating: 4, Comment: "tasty"})
	require.NoError(t, err)
	_, err = f.svc.Reviews.Create(f.ctx, diner, keep.ID, &dto.ReviewCreateRequest{Rating: 5})
	require.NoError(t, err)
	require.NoError(t, f.svc.Favorites.Add(f.ctx, diner, r.ID))

	require.NoError(t, f.svc.Restaurants.Delete(f.ctx, owner, r.ID))

	assert.Equal(t, int64(0), f.count(&model.Restaurant{}, "id = ?", r.ID))
	assert.Equal(t, int64(0), f.count(&model.Review{}, "restaurant_id = ?", r.ID))
	assert.Equal(t, int64(0), f.count(&model.Favorite{}, "restaurant_id = ?", r.ID))
	assert.Equal(t, int64(0), f.count(&model.Notification{}, "restaurant_id = ?", r.ID))
	assert.Equal(t, int64(0), f.joinRows(r.ID))
	assert.Equal(t, int64(1), f.count(&model.Category{}, "id = ?", mexican))

	assert.Equal(t, int64(1), f.count(&model.Review{}, "restaurant_id = ?", keep.ID))
	assert.Equal(t, int64(1), f.joinRows(keep.ID))

	err = f.svc.Restaurants.Delete(f.ctx, owner, r.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestReviewDuplicateConflicts(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", model.RoleRestaurantOwner)
	diner := f.user("diner", model.RoleUser)
	r := f.restaurant(owner, "Sushi Bar")

	first, err := f.svc.Reviews.Create(f.ctx, diner, r.ID, &dto.ReviewCreateRequest{Rating: 5, Comment: "great"})
	require.NoError(t, err)
	assert.Equal(t, "diner", first.UserName)

	_, err = f.svc.Reviews.Create(f.ctx, diner, r.ID, &dto.ReviewCreateRequest{Rating: 1, Comment: "changed my mind"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	assert.Equal(t, int64(1), f.count(&model.Review{}, "user_id = ? AND restaurant_id = ?", diner.ID, r.ID))
	assert.Equal(t, int64(1), f.count(&model.Notification{}, "restaurant_id = ?", r.ID), "failed review must not notify")
}

func TestReviewRolledBackWhenNotificationFails(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", model.RoleRestaurantOwner)
	diner := f.user("diner", model.RoleUser)
	r := f.restaurant(owner, "Fragile")

	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_notifications", func(db *gorm.DB) {
		if db.Statement.Table == "notifications" {
			_ = db.AddError(errors.New("notification store unavailable"))
		}
	}))
	t.Cleanup(func() { _ = f.db.Callback().Create().Remove("test:fail_notifications") })

	_, err := f.svc.Reviews.Create(f.ctx, diner, r.ID, &dto.ReviewCreateRequest{Rating: 4, Comment: "lost"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))

	assert.Equal(t, int64(0), f.count(&model.Review{}, "restaurant_id = ?", r.ID))
	assert.Equal(t, int64(0), f.count(&model.Notification{}, ""))
}

func TestReviewConcurrentCreateSamePair(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", model.RoleRestaurantOwner)
	diner := f.user("diner", model.RoleUser)
	r := f.restaurant(owner, "Busy")

	const callers = 5
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Reviews.Create(f.ctx, diner, r.ID, &dto.ReviewCreateRequest{Rating: 1 + i%5})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err), err.Error())
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, int64(1), f.count(&model.Review{}, "user_id = ? AND restaurant_id = ?", diner.ID, r.ID))
	assert.Equal(t, int64(1), f.count(&model.Notification{}, "restaurant_id = ?", r.ID))
}

func TestReviewValidation(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", model.RoleRestaurantOwner)
	diner := f.user("diner", model.RoleUser)
	r := f.restaurant(owner, "Diner")

	for _, rating := range []int{0, 6, -1} {
		_, err := f.svc.Reviews.Create(f.ctx, diner, r.ID, &dto.ReviewCreateRequest{Rating: rating})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err), rating)
	}

	_, err := f.svc.Reviews.Create(f.ctx, diner, 999, &dto.ReviewCreateRequest{Rating: 3})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = f.svc.Reviews.Create(f.ctx, policy.Actor{}, r.ID, &dto.ReviewCreateRequest{Rating: 3})
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	_, err = f.svc.Reviews.Create(f.ctx, policy.Actor{}, r.ID, &dto.ReviewCreateRequest{Rating: 6})
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err), "anonymous callers are rejected before the payload is checked")

	assert.Equal(t, int64(0), f.count(&model.Review{}, ""))
	assert.Equal(t, int64(0), f.count(&model.Notification{}, ""))
}

func TestReviewListForRestaurant(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", model.RoleRestaurantOwner)
	jane := f.user("jane", model.RoleUser)
	mike := f.user("mike", model.RoleUser)
	r := f.restaurant(owner, "Grill")

	_, err := f.svc.Reviews.Create(f.ctx, jane, r.ID, &dto.ReviewCreateRequest{Rating: 4})
	require.NoError(t, err)
	_, err = f.svc.Reviews.Create(f.ctx, mike, r.ID, &dto.ReviewCreateRequest{Rating: 2})
	require.NoError(t, err)

	reviews, err := f.svc.Reviews.ListForRestaurant(f.ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "mike", reviews[0].UserName)
	assert.Equal(t, "jane", reviews[1].UserName)

	_, err = f.svc.Reviews.ListForRestaurant(f.ctx, 999)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
