package service

import (
	"sync"
	"testing"

	"github.com/nsxzhou1114/restaurant-api/internal/apperror"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteLifecycle(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", model.RoleRestaurantOwner)
	diner := f.user("diner", model.RoleUser)
	first := f.restaurant(owner, "First")
	second := f.restaurant(owner, "Second")

	fav, err := f.svc.Favorites.IsFavorite(f.ctx, diner.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, fav)

	require.NoError(t, f.svc.Favorites.Add(f.ctx, diner, first.ID))
	require.NoError(t, f.svc.Favorites.Add(f.ctx, diner, second.ID))

	err = f.svc.Favorites.Add(f.ctx, diner, first.ID)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, int64(1), f.count(&model.Favorite{}, "user_id = ? AND restaurant_id = ?", diner.ID, first.ID))

	err = f.svc.Favorites.Add(f.ctx, diner, 999)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	fav, err = f.svc.Favorites.IsFavorite(f.ctx, diner.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, fav)

	list, err := f.svc.Favorites.ListForUser(f.ctx, diner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Restaurant.Name)
	assert.Equal(t, "First", list[1].Restaurant.Name)

	require.NoError(t, f.svc.Favorites.Remove(f.ctx, diner, first.ID))
	err = f.svc.Favorites.Remove(f.ctx, diner, first.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	list, err = f.svc.Favorites.ListForUser(f.ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFavoriteConcurrentAddSamePair(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", model.RoleRestaurantOwner)
	diner := f.user("diner", model.RoleUser)
	r := f.restaurant(owner, "Popular")

	const callers = 5
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.svc.Favorites.Add(f.ctx, diner, r.ID)
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
	assert.Equal(t, int64(1), f.count(&model.Favorite{}, "user_id = ? AND restaurant_id = ?", diner.ID, r.ID))
}
