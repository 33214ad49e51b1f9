package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
)

// LockScheduler locks the previous work week's reports. It ticks on a
// coarse interval and re-evaluates the unlocked filter every run, so a
// failed or skipped run is caught up by the next one without retry state.
type LockScheduler struct {
	reports  *repository.ReportRepository
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewLockScheduler(reports *repository.ReportRepository, interval time.Duration, logger *zap.Logger) *LockScheduler {
	return &LockScheduler{
		reports:  reports,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start runs the scheduler loop until the context is cancelled.
func (s *LockScheduler) Start(ctx context.Context) {
	go s.loop(ctx)
}

func (s *LockScheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.Warn("report lock run failed", zap.Error(err))
			}
		}
	}
}

// RunOnce locks every unlocked report of the work week that just ended.
// Exposed for tests and the manual admin trigger.
func (s *LockScheduler) RunOnce(ctx context.Context) (int64, error) {
	week, year := PreviousWorkWeek(s.now())

	locked, err := s.reports.BulkLock(ctx, week, year)
	if err != nil {
		return 0, err
	}
	if locked > 0 {
		s.logger.Info("locked weekly reports",
			zap.Int("week", week),
			zap.Int("year", year),
			zap.Int64("count", locked),
		)
	}
	return locked, nil
}
