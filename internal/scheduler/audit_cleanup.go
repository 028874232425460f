package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/greenloop/greenloop/internal/tasks"
)

// AuditCleanupScheduler periodically enqueues an auth event cleanup task.
// The scheduler only enqueues; the task queue does the deleting, so a slow
// cleanup never blocks the cron loop.
type AuditCleanupScheduler struct {
	taskClient    *tasks.Client
	schedule      string
	retentionDays int

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewAuditCleanupScheduler creates a scheduler with a standard 5-field cron
// schedule.
func NewAuditCleanupScheduler(taskClient *tasks.Client, schedule string, retentionDays int) *AuditCleanupScheduler {
	return &AuditCleanupScheduler{
		taskClient:    taskClient,
		schedule:      schedule,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *AuditCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.taskClient == nil {
		log.Printf("Audit cleanup scheduler: task queue disabled, skipping")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.enqueueCleanup()
	})
	if err != nil {
		return fmt.Errorf("invalid cleanup schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Audit cleanup scheduler: started with schedule '%s' (retention %d days)",
		s.schedule, s.retentionDays)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Audit cleanup scheduler: stopped")
}

// RunNow enqueues an immediate cleanup.
func (s *AuditCleanupScheduler) RunNow() {
	s.enqueueCleanup()
}

// IsRunning returns whether the scheduler is active.
func (s *AuditCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next cleanup will be enqueued.
func (s *AuditCleanupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *AuditCleanupScheduler) enqueueCleanup() {
	_, err := s.taskClient.Add(tasks.CleanupAuthEventsTask{
		RetentionDays: s.retentionDays,
	}).Save()
	if err != nil {
		log.Printf("Audit cleanup scheduler: failed to enqueue cleanup: %v", err)
		return
	}
	log.Printf("Audit cleanup scheduler: cleanup task enqueued")
}
