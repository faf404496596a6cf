// Package worker runs deferred dashboard refreshes through Asynq. When a
// request degrades because the source quota is exhausted, a refresh task is
// queued to run after the next quota reset so the cache warms back up without
// user traffic.
package worker

import "fmt"

const (
	// TypeDashboardRefresh is the task type for cache refreshes
	TypeDashboardRefresh = "dashboard:refresh"
)

// RefreshPayload identifies one cache entry to rebuild.
type RefreshPayload struct {
	Category     string `json:"category"`
	CallerKey    string `json:"caller_key"`
	SessionToken string `json:"session_token"`
}

// UniqueID returns a unique identifier for this task. One deferred refresh
// per (category, caller) is enough regardless of how many degraded requests
// the caller made.
func (p RefreshPayload) UniqueID() string {
	return fmt.Sprintf("%s:%s:%s", TypeDashboardRefresh, p.Category, p.CallerKey)
}
