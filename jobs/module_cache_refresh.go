package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// ModuleCacheRefresher rebuilds the enabled-modules cache for a company.
type ModuleCacheRefresher interface {
	RefreshCompany(ctx context.Context, companyID int64) error
}

// NewModuleCacheRefreshHandler returns the handler for TaskModuleCacheRefresh.
func NewModuleCacheRefreshHandler(refresher ModuleCacheRefresher, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ModuleCacheRefreshPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.CompanyID == 0 {
			logger.Warn("module cache refresh skipped", slog.String("reason", "missing company id"))
			return asynq.SkipRetry
		}
		if err := refresher.RefreshCompany(ctx, payload.CompanyID); err != nil {
			logger.Error("module cache refresh",
				slog.Int64("company_id", payload.CompanyID),
				slog.Any("error", err))
			return err
		}
		return nil
	}
}
