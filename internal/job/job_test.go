package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nsxzhou1114/restaurant-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	cutoff time.Time
	calls  int
	n      int64
	err    error
}

func (f *fakePurger) PurgeRead(_ context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.cutoff = cutoff
	return f.n, f.err
}

func TestCleanupNotificationsCutoff(t *testing.T) {
	now := time.Date(2024, 5, 31, 3, 0, 0, 0, time.UTC)
	p := &fakePurger{n: 7}

	purged := CleanupNotifications(context.Background(), p, 30*24*time.Hour, now)

	assert.Equal(t, int64(7), purged)
	assert.Equal(t, time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC), p.cutoff)
}

func TestCleanupNotificationsSkipsWithoutRetention(t *testing.T) {
	p := &fakePurger{}
	assert.Zero(t, CleanupNotifications(context.Background(), p, 0, time.Now()))
	assert.Zero(t, p.calls)
}

func TestCleanupNotificationsError(t *testing.T) {
	p := &fakePurger{n: 3, err: errors.New("db down")}
	assert.Zero(t, CleanupNotifications(context.Background(), p, time.Hour, time.Now()))
	assert.Equal(t, 1, p.calls)
}

func TestNewScheduler(t *testing.T) {
	cfg := config.Default().Job

	s, err := NewScheduler(cfg, &fakePurger{})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Entries())

	cfg.DisableNotificationCleanup = true
	s, err = NewScheduler(cfg, &fakePurger{})
	require.NoError(t, err)
	assert.Zero(t, s.Entries())

	cfg.DisableNotificationCleanup = false
	cfg.NotificationCleanupSpec = "not a spec"
	_, err = NewScheduler(cfg, &fakePurger{})
	assert.Error(t, err)
}

func TestSchedulerStartStop(t *testing.T) {
	s, err := NewScheduler(config.Default().Job, &fakePurger{})
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
