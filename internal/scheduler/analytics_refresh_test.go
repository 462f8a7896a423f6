package scheduler

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkau/biblio/internal/tasks"
)

func newTestTaskClient(t *testing.T) *tasks.Client {
	t.Helper()
	client, err := tasks.NewClient(filepath.Join(t.TempDir(), "biblio.db"), tasks.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	client.Register(tasks.NewRecomputeAnalyticsQueue(nil))
	return client
}

func TestSchedulerLifecycle(t *testing.T) {
	t.Run("start and stop", func(t *testing.T) {
		s := NewAnalyticsRefreshScheduler(newTestTaskClient(t), "0 3 * * *")

		require.NoError(t, s.Start(context.Background()))
		assert.True(t, s.IsRunning())
		assert.NotNil(t, s.NextRunTime())

		s.Stop()
		assert.False(t, s.IsRunning())
		assert.Nil(t, s.NextRunTime())
	})

	t.Run("empty schedule stays idle", func(t *testing.T) {
		s := NewAnalyticsRefreshScheduler(newTestTaskClient(t), "")

		require.NoError(t, s.Start(context.Background()))
		assert.False(t, s.IsRunning())
	})

	t.Run("invalid schedule is rejected", func(t *testing.T) {
		s := NewAnalyticsRefreshScheduler(newTestTaskClient(t), "every tuesday")

		err := s.Start(context.Background())
		assert.Error(t, err)
		assert.False(t, s.IsRunning())
	})

	t.Run("start is idempotent", func(t *testing.T) {
		s := NewAnalyticsRefreshScheduler(newTestTaskClient(t), "*/5 * * * *")

		require.NoError(t, s.Start(context.Background()))
		require.NoError(t, s.Start(context.Background()))
		s.Stop()
	})
}

func TestRunNow(t *testing.T) {
	s := NewAnalyticsRefreshScheduler(newTestTaskClient(t), "0 3 * * *")

	// Enqueues even when the cron loop is not running.
	s.RunNow()
}
