// Package scheduler drives the periodic refresh of the derived
// analytics snapshots. Cross-store consistency is eventual: a catalog
// write is not propagated synchronously, the next scheduled recompute
// pass picks it up.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/avolkau/biblio/internal/tasks"
)

// AnalyticsRefreshScheduler enqueues an analytics recompute task on a
// cron schedule.
type AnalyticsRefreshScheduler struct {
	taskClient *tasks.Client
	schedule   string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewAnalyticsRefreshScheduler creates a new scheduler instance.
func NewAnalyticsRefreshScheduler(taskClient *tasks.Client, schedule string) *AnalyticsRefreshScheduler {
	return &AnalyticsRefreshScheduler{
		taskClient: taskClient,
		schedule:   schedule,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *AnalyticsRefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		log.Printf("Analytics refresh scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.enqueueRecompute()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Analytics refresh scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to
// complete.
func (s *AnalyticsRefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Analytics refresh scheduler: stopped")
}

// RunNow enqueues an immediate recompute.
func (s *AnalyticsRefreshScheduler) RunNow() {
	s.enqueueRecompute()
}

// IsRunning returns whether the scheduler is active.
func (s *AnalyticsRefreshScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next refresh will occur.
func (s *AnalyticsRefreshScheduler) NextRunTime() *time.Time {
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

func (s *AnalyticsRefreshScheduler) enqueueRecompute() {
	task := tasks.RecomputeAnalyticsTask{Requested: time.Now()}
	if _, err := s.taskClient.Add(task).Save(); err != nil {
		log.Printf("Analytics refresh: failed to enqueue recompute task: %v", err)
		return
	}
	log.Printf("Analytics refresh: recompute task enqueued")
}
