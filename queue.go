package gridbase

import (
	"context"
	"net/url"
	"time"
)

// MessageInfo describes a message submitted to a queue and its processing
// state.
type MessageInfo struct {
	MessageID   string     `json:"messageId"`
	QueueID     string     `json:"queueId,omitempty"`
	QueueName   string     `json:"queueName"`
	SubmittedAt time.Time  `json:"submittedAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	// Status is one of "pending", "processing", "completed" or "errors".
	Status string       `json:"status"`
	Errors []ErrorEntry `json:"errors,omitempty"`
}

// SubmitOptions contains optional parameters for Submit.
type SubmitOptions struct {
	// DelaySeconds postpones delivery of the message to the queue handler.
	DelaySeconds int
}

// QueueManager submits messages to the platform queue service and inspects
// their processing status. Processing itself happens on the platform; the
// SDK only enqueues and polls.
type QueueManager struct {
	fetcher *fetcher
}

// Submit enqueues payload on the named queue and returns the accepted
// message info. The payload must be JSON-serializable.
//
// Example:
//
//	info, err := client.Queue().Submit(ctx, "send-email", map[string]any{
//	    "to": "bob@example.com",
//	}, nil)
func (m *QueueManager) Submit(ctx context.Context, queueName string, payload interface{}, opts *SubmitOptions) (*MessageInfo, error) {
	body := map[string]interface{}{
		"queueName": queueName,
		"message":   payload,
	}
	if opts != nil && opts.DelaySeconds > 0 {
		body["delay"] = opts.DelaySeconds
	}

	var info MessageInfo
	if err := m.fetcher.post(ctx, "/_api/rest/v1/queue", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetMessageStatus fetches the current processing state of a previously
// submitted message.
func (m *QueueManager) GetMessageStatus(ctx context.Context, messageID string) (*MessageInfo, error) {
	query := url.Values{}
	query.Set("messageId", messageID)

	var info MessageInfo
	if err := m.fetcher.get(ctx, "/_api/rest/v1/queue/message", query, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
