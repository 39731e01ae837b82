package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/duespay/duespay/internal/application"
	"github.com/duespay/duespay/internal/config"
)

// Janitor sweeps expired idempotency records in the background. The sweep is
// best-effort housekeeping; request correctness never depends on it.
type Janitor struct {
	repo      application.IdempotencyRepository
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewJanitor(repo application.IdempotencyRepository, cfg config.JanitorConfig, logger *slog.Logger) *Janitor {
	return &Janitor{
		repo:      repo,
		interval:  cfg.Interval,
		batchSize: cfg.BatchSize,
		logger:    logger,
	}
}

func (j *Janitor) Start(ctx context.Context) {
	j.logger.Info("idempotency janitor started", "interval", j.interval)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("idempotency janitor stopping")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	deleted, err := j.repo.DeleteExpired(ctx, time.Now().UTC(), j.batchSize)
	if err != nil {
		j.logger.Error("idempotency sweep failed", "error", err)
		return
	}

	if deleted > 0 {
		j.logger.Info("swept expired idempotency records", "count", deleted)
	}
}
