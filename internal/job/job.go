package job

import (
	"context"
	"time"

	"github.com/nsxzhou1114/restaurant-api/internal/config"
	"github.com/nsxzhou1114/restaurant-api/internal/logger"
	"github.com/nsxzhou1114/restaurant-api/internal/metrics"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Purger removes read notifications created before cutoff
type Purger interface {
	PurgeRead(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler background jobs on a seconds-precision cron
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.SugaredLogger
}

// NewScheduler registers the notification cleanup job unless disabled
func NewScheduler(cfg config.JobConfig, purger Purger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
		logger: logger.GetSugaredLogger(),
	}
	if cfg.DisableNotificationCleanup {
		s.logger.Info("notification cleanup disabled")
		return s, nil
	}

	retention := time.Duration(cfg.NotificationRetentionDays) * 24 * time.Hour
	if _, err := s.cron.AddFunc(cfg.NotificationCleanupSpec, func() {
		CleanupNotifications(context.Background(), purger, retention, time.Now())
	}); err != nil {
		return nil, err
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs or for ctx to expire
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

// Entries number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// CleanupNotifications purges read notifications older than retention
func CleanupNotifications(ctx context.Context, purger Purger, retention time.Duration, now time.Time) int64 {
	if retention <= 0 {
		return 0
	}
	purged, err := purger.PurgeRead(ctx, now.Add(-retention))
	if err != nil {
		logger.Errorf("notification cleanup failed: %v", err)
		return 0
	}
	metrics.NotificationsPurged.Add(float64(purged))
	return purged
}
