package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenloop/greenloop/internal/entities"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	// Queue database lives alongside the main database
	_, err = os.Stat(filepath.Join(tmpDir, "test-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Close())
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

// captureWriter records auth events handed to it.
type captureWriter struct {
	events chan entities.AuthEvent
}

func (w *captureWriter) LogEvent(event *entities.AuthEvent) error {
	w.events <- *event
	return nil
}

func TestAuditRecorder_RoundTrip(t *testing.T) {
	client := newTestClient(t)

	writer := &captureWriter{events: make(chan entities.AuthEvent, 1)}
	client.Register(NewRecordAuthEventQueue(writer))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	recorder := NewAuditRecorder(client)
	recorder.RecordAuthEvent(entities.AuthEvent{
		UserID:    7,
		Action:    entities.AuthActionLogin,
		Email:     "ann@example.com",
		IPAddress: "10.0.0.1",
		Success:   true,
	})

	select {
	case event := <-writer.events:
		assert.EqualValues(t, 7, event.UserID)
		assert.Equal(t, entities.AuthActionLogin, event.Action)
		assert.Equal(t, "ann@example.com", event.Email)
		assert.True(t, event.Success)
		assert.False(t, event.CreatedAt.IsZero())
	case <-time.After(5 * time.Second):
		t.Fatal("auth event was not processed within timeout")
	}
}

func TestRecordAuthEventTaskConfig(t *testing.T) {
	cfg := RecordAuthEventTask{}.Config()

	assert.Equal(t, "record_auth_event", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestCleanupAuthEventsTaskConfig(t *testing.T) {
	cfg := CleanupAuthEventsTask{}.Config()

	assert.Equal(t, "cleanup_auth_events", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
}

type countingCleaner struct {
	got time.Time
}

func (c *countingCleaner) DeleteOldEvents(olderThan time.Time) (int64, error) {
	c.got = olderThan
	return 4, nil
}

func TestCleanupAuthEventsProcessor(t *testing.T) {
	cleaner := &countingCleaner{}
	processor := CleanupAuthEventsProcessor(cleaner)

	err := processor(context.Background(), CleanupAuthEventsTask{RetentionDays: 7})

	require.NoError(t, err)
	wantCutoff := time.Now().Add(-7 * 24 * time.Hour)
	assert.WithinDuration(t, wantCutoff, cleaner.got, time.Minute)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)

	filled := Config{}.withDefaults()
	assert.Equal(t, cfg, filled)
}
