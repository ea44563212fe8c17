// Package worker defines the workers that drain the ingestion queue into
// the record store and notify dashboard subscribers.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/openpress/scorecard/internal/domain/model"
	"github.com/openpress/scorecard/pkg/logger"
	"github.com/openpress/scorecard/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Event is what workers read off the queue.
type Event = model.IngestEvent

// Applier persists ingested records.
type Applier interface {
	AppendSubmission(ctx context.Context, rec model.SubmissionRecord) error
	AppendReview(ctx context.Context, rec model.ReviewRecord) error
}

// Notifier pushes analytics events to a publisher's subscribers.
type Notifier interface {
	Emit(ctx context.Context, publisherID string, event model.AnalyticsEvent)
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker drains the queue until the context is canceled or the queue closes.
type Worker struct {
	queue    Queue
	applier  Applier
	notifier Notifier
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker.
func NewWorker(queue Queue, applier Applier, notifier Notifier, opts ...Option) *Worker {
	w := &Worker{
		queue:    queue,
		applier:  applier,
		notifier: notifier,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := w.processEvent(ctx, event); err != nil {
				w.logger.Error(ctx, "error processing event", logger.Error(err))
			}
		}
	}
}

// processEvent applies a single ingest event to the store and notifies the
// publisher's subscribers.
func (w *Worker) processEvent(ctx context.Context, event Event) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerApplyLatency(float64(time.Since(start).Milliseconds()))
	}()

	switch event.Kind {
	case model.IngestSubmission:
		rec := event.Submission
		if err := w.applier.AppendSubmission(ctx, rec); err != nil {
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "store_error")
			return fmt.Errorf("append submission %s: %w", rec.ID, err)
		}
		metrics.RecordRecordIngested(string(event.Kind))
		w.notifier.Emit(ctx, rec.PublisherID, model.AnalyticsEvent{
			ID:           model.NewEventID(),
			Type:         model.EventSubmissionRecorded,
			Timestamp:    time.Now().UTC(),
			JournalID:    rec.JournalID,
			SubmissionID: rec.ID,
		})
	case model.IngestReview:
		rec := event.Review
		if err := w.applier.AppendReview(ctx, rec); err != nil {
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "store_error")
			return fmt.Errorf("append review for %s: %w", rec.ReviewerID, err)
		}
		metrics.RecordRecordIngested(string(event.Kind))
		w.notifier.Emit(ctx, rec.PublisherID, model.AnalyticsEvent{
			ID:           model.NewEventID(),
			Type:         model.EventReviewRecorded,
			Timestamp:    time.Now().UTC(),
			SubmissionID: rec.SubmissionID,
		})
	default:
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "unknown_kind")
		return fmt.Errorf("unknown ingest kind %q for event %s", event.Kind, event.EventID)
	}

	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*Worker

	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers over one queue.
func NewPool(workerCount int, queue Queue, applier Applier, notifier Notifier) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers:  make([]*Worker, workerCount),
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewWorker(queue, applier, notifier,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop signals all workers and waits for them to drain, bounded per worker.
func (p *Pool) Stop() {
	close(p.shutdown)
	for _, w := range p.workers {
		select {
		case <-w.shutdown:
		default:
			close(w.shutdown)
		}
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
			p.logger.Warn(context.Background(), "worker shutdown timed out", logger.String("worker", w.name))
		}
	}
}
