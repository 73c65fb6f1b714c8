package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskExpirySweep deactivates role assignments and overrides whose
	// expiry has passed.
	TaskExpirySweep = "authz:expiry_sweep"
	// TaskModuleCacheRefresh rebuilds the enabled-modules cache for one
	// company, or for every company when CompanyID is zero.
	TaskModuleCacheRefresh = "modules:cache_refresh"
)

// ModuleCacheRefreshPayload selects which company caches to rebuild.
type ModuleCacheRefreshPayload struct {
	CompanyID int64 `json:"company_id"`
}

// NewExpirySweepTask constructs the periodic expiry sweep task.
func NewExpirySweepTask() *asynq.Task {
	return asynq.NewTask(TaskExpirySweep, nil)
}

// NewModuleCacheRefreshTask constructs a cache refresh task.
func NewModuleCacheRefreshTask(payload ModuleCacheRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskModuleCacheRefresh, data), nil
}
