package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/entity"
	"github.com/xavierca1/recruitica/internal/infra/http/middleware"
)

type ObjectDeleter interface {
	Delete(ctx context.Context, bucket, key string) error
}

// OrphanSweeper retries deleting uploads whose candidate insert failed.
type OrphanSweeper struct {
	repo         entity.PendingCleanupRepositoryInterface
	objects      ObjectDeleter
	logger       *zap.Logger
	tickInterval time.Duration
	maxAttempts  int
	batchSize    int
}

func NewOrphanSweeper(repo entity.PendingCleanupRepositoryInterface, objects ObjectDeleter, logger *zap.Logger, interval time.Duration, maxAttempts, batchSize int) *OrphanSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &OrphanSweeper{
		repo:         repo,
		objects:      objects,
		logger:       logger,
		tickInterval: interval,
		maxAttempts:  maxAttempts,
		batchSize:    batchSize,
	}
}

func (w *OrphanSweeper) Start(ctx context.Context) error {
	w.logger.Info("orphan sweeper started", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("orphan sweeper stopped")
			return nil
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep processes one batch and reports how many objects were removed and
// how many attempts failed.
func (w *OrphanSweeper) Sweep(ctx context.Context) (deleted, failed int) {
	due, err := w.repo.ListDue(ctx, w.maxAttempts, w.batchSize)
	if err != nil {
		w.logger.Error("load pending cleanups", zap.Error(err))
		return 0, 0
	}

	for _, p := range due {
		logger := w.logger.With(
			zap.String("bucket", p.Bucket),
			zap.String("key", p.ObjectKey),
			zap.Int("attempts", p.Attempts),
		)

		if err := w.objects.Delete(ctx, p.Bucket, p.ObjectKey); err != nil {
			failed++
			logger.Warn("orphan delete failed", zap.Error(err))
			if err := w.repo.MarkFailed(ctx, p.ID, err.Error()); err != nil {
				logger.Error("record cleanup failure", zap.Error(err))
			}
			continue
		}

		if err := w.repo.Delete(ctx, p.ID); err != nil {
			logger.Error("remove cleanup row", zap.Error(err))
			continue
		}
		deleted++
		logger.Info("orphaned upload removed")
	}

	if deleted > 0 || failed > 0 {
		middleware.RecordSweep(deleted, failed)
		w.logger.Info("sweep finished", zap.Int("deleted", deleted), zap.Int("failed", failed))
	}
	return deleted, failed
}
