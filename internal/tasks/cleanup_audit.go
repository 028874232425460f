package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// AuthEventCleaner deletes auth events older than a cutoff.
type AuthEventCleaner interface {
	DeleteOldEvents(olderThan time.Time) (int64, error)
}

// CleanupAuthEventsTask removes auth events past the retention window.
type CleanupAuthEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for auth event cleanup.
func (t CleanupAuthEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_auth_events",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupAuthEventsProcessor creates a processor function for CleanupAuthEventsTask.
func CleanupAuthEventsProcessor(cleaner AuthEventCleaner) backlite.QueueProcessor[CleanupAuthEventsTask] {
	return func(ctx context.Context, task CleanupAuthEventsTask) error {
		if cleaner == nil {
			return fmt.Errorf("auth event cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 30
		}
		cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

		deleted, err := cleaner.DeleteOldEvents(cutoff)
		if err != nil {
			return fmt.Errorf("cleanup auth events: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d auth events older than %d days", deleted, retentionDays)
		return nil
	}
}

// NewCleanupAuthEventsQueue creates a backlite queue for auth event cleanup.
func NewCleanupAuthEventsQueue(cleaner AuthEventCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupAuthEventsProcessor(cleaner))
}
