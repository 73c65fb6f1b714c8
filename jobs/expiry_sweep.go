package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// ExpirySweeper deactivates assignments and overrides past their expiry.
type ExpirySweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (int64, int64, error)
}

// NewExpirySweepHandler returns the handler for TaskExpirySweep.
func NewExpirySweepHandler(sweeper ExpirySweeper, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		assignments, overrides, err := sweeper.SweepExpired(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("expiry sweep", slog.Any("error", err))
			return err
		}
		if assignments > 0 || overrides > 0 {
			logger.Info("expiry sweep",
				slog.Int64("assignments_deactivated", assignments),
				slog.Int64("overrides_deactivated", overrides))
		}
		return nil
	}
}
