package service

import (
	"testing"

	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	f := newFixture(t)
	summary, err := f.svc.Seed(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, &SeedSummary{Users: 6, Categories: 8, Restaurants: 5, Reviews: 6, Favorites: 5}, summary)
	assert.Equal(t, int64(6), f.count(&model.Notification{}, ""))

	sarah, err := f.svc.Users.VerifyCredentials(f.ctx, "owner_sarah", SeedPassword)
	require.NoError(t, err)
	list, err := f.svc.Notifications.ListForOwner(f.ctx, sarah.ID)
	require.NoError(t, err)
	assert.Len(t, list, 4)
}
