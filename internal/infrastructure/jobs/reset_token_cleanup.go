package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"marketplace.backend/pkg/logger"
)

type resetTokenDeleter interface {
	DeleteDead(ctx context.Context, cutoff time.Time) (int64, error)
}

// ResetTokenCleanupJob periodically removes used and stale password
// reset token rows so the table does not grow without bound.
type ResetTokenCleanupJob struct {
	repo     resetTokenDeleter
	interval time.Duration
	maxAge   time.Duration
	stop     chan struct{}
}

func NewResetTokenCleanupJob(repo resetTokenDeleter, interval, maxAge time.Duration) *ResetTokenCleanupJob {
	return &ResetTokenCleanupJob{
		repo:     repo,
		interval: interval,
		maxAge:   maxAge,
		stop:     make(chan struct{}),
	}
}

func (j *ResetTokenCleanupJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting reset token cleanup job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "reset token cleanup job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "reset token cleanup job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *ResetTokenCleanupJob) Stop() {
	close(j.stop)
}

func (j *ResetTokenCleanupJob) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-j.maxAge)
	deleted, err := j.repo.DeleteDead(ctx, cutoff)
	if err != nil {
		logger.Error(ctx, "reset token cleanup sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		logger.Info(ctx, "reset token cleanup removed rows", zap.Int64("deleted", deleted))
	}
}
