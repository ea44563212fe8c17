// Package scheduler provides the per-publisher refresh scheduler that
// re-triggers KPI aggregation at fixed intervals.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/openpress/scorecard/pkg/logger"
	"github.com/openpress/scorecard/pkg/metrics"
)

// RefreshFunc recomputes a publisher's metrics. Errors are logged, never
// retried by the scheduler; the next tick simply tries again.
type RefreshFunc func(ctx context.Context, publisherID string) error

// entry is one publisher's active timer.
type entry struct {
	cancel  context.CancelFunc
	done    chan struct{}
	running sync.Mutex // held while a tick's callback executes
}

// Scheduler maintains at most one recurring refresh timer per publisher id.
type Scheduler struct {
	mu      sync.Mutex
	entries map[string]*entry

	logger logger.Logger
}

// New creates an empty scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("scheduler")
	}
	return s
}

// ScheduleRefresh registers a recurring timer that invokes refresh every
// interval. Scheduling a publisher that already has a timer cancels the
// prior one first, so at most one timer is active per publisher id.
func (s *Scheduler) ScheduleRefresh(ctx context.Context, publisherID string, interval time.Duration, refresh RefreshFunc) {
	s.mu.Lock()
	if prior, ok := s.entries[publisherID]; ok {
		prior.cancel()
		<-prior.done
	}

	tickCtx, cancel := context.WithCancel(ctx)
	e := &entry{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.entries[publisherID] = e
	metrics.UpdateSchedulerActiveTimers(len(s.entries))
	s.mu.Unlock()

	go s.run(tickCtx, e, publisherID, interval, refresh)
}

// ClearRefresh cancels and removes the publisher's timer, if any.
func (s *Scheduler) ClearRefresh(publisherID string) {
	s.mu.Lock()
	e, ok := s.entries[publisherID]
	if ok {
		delete(s.entries, publisherID)
		metrics.UpdateSchedulerActiveTimers(len(s.entries))
	}
	s.mu.Unlock()

	if ok {
		e.cancel()
		<-e.done
	}
}

// Stop cancels every timer and waits for in-flight ticks to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	entries := make([]*entry, 0, len(s.entries))
	for id, e := range s.entries {
		entries = append(entries, e)
		delete(s.entries, id)
	}
	metrics.UpdateSchedulerActiveTimers(0)
	s.mu.Unlock()

	for _, e := range entries {
		e.cancel()
		<-e.done
	}
}

// ActiveTimers returns the number of publishers with a live timer.
func (s *Scheduler) ActiveTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Scheduler) run(ctx context.Context, e *entry, publisherID string, interval time.Duration, refresh RefreshFunc) {
	defer close(e.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Serialize ticks per publisher: if the previous tick's callback
			// has not completed, skip this one instead of overlapping it.
			if !e.running.TryLock() {
				metrics.RecordSchedulerTickSkipped()
				continue
			}
			s.tick(ctx, publisherID, refresh)
			e.running.Unlock()
		}
	}
}

// tick runs one refresh. Failures are caught and logged; they never
// unschedule the timer.
func (s *Scheduler) tick(ctx context.Context, publisherID string, refresh RefreshFunc) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordSchedulerError()
			metrics.RecordErrorByComponent("scheduler", "refresh_panic")
			s.logger.Error(ctx, "refresh callback panicked",
				logger.String("publisher_id", publisherID),
				logger.Any("panic", r),
			)
		}
	}()

	metrics.RecordSchedulerTick()
	if err := refresh(ctx, publisherID); err != nil {
		metrics.RecordSchedulerError()
		metrics.RecordErrorByComponent("scheduler", "refresh_error")
		s.logger.Warn(ctx, "refresh callback failed",
			logger.String("publisher_id", publisherID),
			logger.Error(err),
		)
	}
}
