package service

import (
	"strings"
	"testing"
	"time"

	"github.com/nsxzhou1114/restaurant-api/internal/apperror"
	"github.com/nsxzhou1114/restaurant-api/internal/dto"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	assert.Equal(t, "jane left a 5-star review on Bistro", BuildMessage("jane", "Bistro", 5, ""))
	assert.Equal(t, `jane left a 3-star review on Bistro: "ok"`, BuildMessage("jane", "Bistro", 3, "ok"))

	long := strings.Repeat("é", excerptRunes+10)
	msg := BuildMessage("jane", "Bistro", 2, long)
	assert.Contains(t, msg, strings.Repeat("é", excerptRunes)+`..."`)
	assert.NotContains(t, msg, strings.Repeat("é", excerptRunes+1))
}

func TestNotificationRoundTrip(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner_sarah", model.RoleRestaurantOwner)
	jane := f.user("jane", model.RoleUser)
	r := f.restaurant(owner, "La Bella Italia")

	review, err := f.svc.Reviews.Create(f.ctx, jane, r.ID, &dto.ReviewCreateRequest{Rating: 5, Comment: "perfect pasta"})
	require.NoError(t, err)

	list, err := f.svc.Notifications.ListForOwner(f.ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	n := list[0]
	assert.Equal(t, r.ID, n.RestaurantID)
	assert.Equal(t, "La Bella Italia", n.RestaurantName)
	assert.Equal(t, "jane", n.UserName)
	assert.Equal(t, review.Rating, n.Rating)
	assert.Equal(t, `jane left a 5-star review on La Bella Italia: "perfect pasta"`, n.Message)
	assert.False(t, n.Read)
	_, err = time.Parse(time.RFC3339, n.CreatedAt)
	assert.NoError(t, err)
}

func TestNotificationListForNonOwnerIsEmpty(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", model.RoleRestaurantOwner)
	diner := f.user("diner", model.RoleUser)
	r := f.restaurant(owner, "Noodle House")
	_, err := f.svc.Reviews.Create(f.ctx, diner, r.ID, &dto.ReviewCreateRequest{Rating: 3})
	require.NoError(t, err)

	list, err := f.svc.Notifications.ListForOwner(f.ctx, diner.ID)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	fresh := f.user("fresh_owner", model.RoleRestaurantOwner)
	f.restaurant(fresh, "Quiet Place")
	list, err = f.svc.Notifications.ListForOwner(f.ctx, fresh.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNotificationsSpanOwnedRestaurantsNewestFirst(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", model.RoleRestaurantOwner)
	other := f.user("other", model.RoleRestaurantOwner)
	jane := f.user("jane", model.RoleUser)
	mike := f.user("mike", model.RoleUser)
	a := f.restaurant(owner, "Alpha")
	b := f.restaurant(owner, "Beta")
	c := f.restaurant(other, "Gamma")

	_, err := f.svc.Reviews.Create(f.ctx, jane, a.ID, &dto.ReviewCreateRequest{Rating: 4})
	require.NoError(t, err)
	_, err = f.svc.Reviews.Create(f.ctx, mike, b.ID, &dto.ReviewCreateRequest{Rating: 2})
	require.NoError(t, err)
	_, err = f.svc.Reviews.Create(f.ctx, jane, c.ID, &dto.ReviewCreateRequest{Rating: 5})
	require.NoError(t, err)

	list, err := f.svc.Notifications.ListForOwner(f.ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Beta", list[0].RestaurantName)
	assert.Equal(t, "mike", list[0].UserName)
	assert.Equal(t, "Alpha", list[1].RestaurantName)
	assert.Equal(t, "jane", list[1].UserName)
}

func TestNotificationReadState(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", model.RoleRestaurantOwner)
	jane := f.user("jane", model.RoleUser)
	mike := f.user("mike", model.RoleUser)
	r := f.restaurant(owner, "Cafe")
	_, err := f.svc.Reviews.Create(f.ctx, jane, r.ID, &dto.ReviewCreateRequest{Rating: 4})
	require.NoError(t, err)
	_, err = f.svc.Reviews.Create(f.ctx, mike, r.ID, &dto.ReviewCreateRequest{Rating: 3})
	require.NoError(t, err)

	count, err := f.svc.Notifications.UnreadCount(f.ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	list, err := f.svc.Notifications.ListForOwner(f.ctx, owner.ID)
	require.NoError(t, err)

	err = f.svc.Notifications.MarkRead(f.ctx, jane, list[0].ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	err = f.svc.Notifications.MarkRead(f.ctx, owner, 999)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	require.NoError(t, f.svc.Notifications.MarkRead(f.ctx, owner, list[0].ID))
	count, err = f.svc.Notifications.UnreadCount(f.ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	updated, err := f.svc.Notifications.MarkAllRead(f.ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)
	count, err = f.svc.Notifications.UnreadCount(f.ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	purged, err := f.svc.Notifications.PurgeRead(f.ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)
	assert.Equal(t, int64(0), f.count(&model.Notification{}, ""))
}
