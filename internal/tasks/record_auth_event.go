package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/greenloop/greenloop/internal/entities"
)

// AuthEventWriter persists authentication audit events.
type AuthEventWriter interface {
	LogEvent(event *entities.AuthEvent) error
}

// RecordAuthEventTask persists one authentication event off the request
// path, so a slow audit write never delays a login response.
type RecordAuthEventTask struct {
	UserID    uint   `json:"user_id"`
	Action    string `json:"action"`
	Email     string `json:"email,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Success   bool   `json:"success"`
	ErrorMsg  string `json:"error_msg,omitempty"`
	// OccurredAt is when the auth operation happened, not when the task ran.
	OccurredAt time.Time `json:"occurred_at"`
}

// Config returns the queue configuration for auth event recording.
func (t RecordAuthEventTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "record_auth_event",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RecordAuthEventProcessor creates a processor function for RecordAuthEventTask.
func RecordAuthEventProcessor(writer AuthEventWriter) backlite.QueueProcessor[RecordAuthEventTask] {
	return func(ctx context.Context, task RecordAuthEventTask) error {
		if writer == nil {
			return fmt.Errorf("auth event writer not configured")
		}

		event := &entities.AuthEvent{
			UserID:    task.UserID,
			Action:    entities.AuthAction(task.Action),
			Email:     task.Email,
			IPAddress: task.IPAddress,
			UserAgent: task.UserAgent,
			Success:   task.Success,
			ErrorMsg:  task.ErrorMsg,
			CreatedAt: task.OccurredAt,
		}

		if err := writer.LogEvent(event); err != nil {
			return fmt.Errorf("record auth event: %w", err)
		}
		return nil
	}
}

// NewRecordAuthEventQueue creates a backlite queue for auth event recording.
func NewRecordAuthEventQueue(writer AuthEventWriter) backlite.Queue {
	return backlite.NewQueue(RecordAuthEventProcessor(writer))
}

// AuditRecorder enqueues auth events onto the task queue. It satisfies the
// auth service's recorder interface; enqueue failures are logged and
// swallowed so auth operations never fail on audit problems.
type AuditRecorder struct {
	client *Client
}

// NewAuditRecorder creates an audit recorder backed by the task queue.
func NewAuditRecorder(client *Client) *AuditRecorder {
	return &AuditRecorder{client: client}
}

// RecordAuthEvent enqueues the event for background persistence.
func (r *AuditRecorder) RecordAuthEvent(event entities.AuthEvent) {
	occurredAt := event.CreatedAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	_, err := r.client.Add(RecordAuthEventTask{
		UserID:     event.UserID,
		Action:     string(event.Action),
		Email:      event.Email,
		IPAddress:  event.IPAddress,
		UserAgent:  event.UserAgent,
		Success:    event.Success,
		ErrorMsg:   event.ErrorMsg,
		OccurredAt: occurredAt,
	}).Save()
	if err != nil {
		log.Printf("[TASK ERROR] failed to enqueue auth event: %v", err)
	}
}
