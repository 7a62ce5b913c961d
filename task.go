package gridbase

import (
	"context"
	"net/url"
	"time"
)

// TaskInfo describes a triggered task run and its state.
type TaskInfo struct {
	TaskID      string     `json:"taskId"`
	TaskName    string     `json:"taskName"`
	TriggeredAt time.Time  `json:"triggeredAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	// Status is one of "pending", "processing", "completed" or "errors".
	Status string       `json:"status"`
	Errors []ErrorEntry `json:"errors,omitempty"`
}

// TaskManager triggers the app's scheduled tasks out of schedule and
// inspects their run status.
type TaskManager struct {
	fetcher *fetcher
}

// RunOnce triggers one immediate execution of the named task and returns
// the accepted run info. The scheduled cadence of the task is unaffected.
func (m *TaskManager) RunOnce(ctx context.Context, taskName string) (*TaskInfo, error) {
	body := map[string]interface{}{"taskName": taskName}

	var info TaskInfo
	if err := m.fetcher.post(ctx, "/_api/rest/v1/task", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetTaskStatus fetches the current state of a previously triggered run.
func (m *TaskManager) GetTaskStatus(ctx context.Context, taskID string) (*TaskInfo, error) {
	query := url.Values{}
	query.Set("taskId", taskID)

	var info TaskInfo
	if err := m.fetcher.get(ctx, "/_api/rest/v1/task/status", query, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
