package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// SnapshotRecomputer rebuilds the derived analytics snapshots from the
// logged views and the current catalog.
type SnapshotRecomputer interface {
	RecomputeAll() error
}

// RecomputeAnalyticsTask rebuilds every category and author analytics
// snapshot. Enqueued periodically by the scheduler; safe to run at any
// time since recomputation is idempotent.
type RecomputeAnalyticsTask struct {
	Requested time.Time `json:"requested"`
}

// Config returns the queue configuration for analytics recompute tasks.
func (t RecomputeAnalyticsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "recompute_analytics",
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

// RecomputeAnalyticsProcessor creates a processor function for
// RecomputeAnalyticsTask.
func RecomputeAnalyticsProcessor(recomputer SnapshotRecomputer) backlite.QueueProcessor[RecomputeAnalyticsTask] {
	return func(ctx context.Context, task RecomputeAnalyticsTask) error {
		if recomputer == nil {
			return fmt.Errorf("analytics recomputer not configured")
		}

		started := time.Now()
		if err := recomputer.RecomputeAll(); err != nil {
			return fmt.Errorf("recompute analytics: %w", err)
		}

		log.Printf("[TASK] Recomputed analytics snapshots in %v (requested %s)",
			time.Since(started).Round(time.Millisecond), task.Requested.Format(time.RFC3339))
		return nil
	}
}

// NewRecomputeAnalyticsQueue creates a backlite queue for analytics
// recompute tasks.
func NewRecomputeAnalyticsQueue(recomputer SnapshotRecomputer) backlite.Queue {
	return backlite.NewQueue(RecomputeAnalyticsProcessor(recomputer))
}
