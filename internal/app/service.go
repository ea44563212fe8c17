// Package service provides the core business service that implements the
// dependencies required by the HTTP API: ingestion, KPI aggregation,
// reviewer ranking, and the refresh/notification loop.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/openpress/scorecard/internal/adapters/bus"
	eventqueue "github.com/openpress/scorecard/internal/adapters/mq/queue"
	workerpool "github.com/openpress/scorecard/internal/adapters/mq/worker"
	"github.com/openpress/scorecard/internal/adapters/repository"
	"github.com/openpress/scorecard/internal/adapters/scheduler"
	"github.com/openpress/scorecard/internal/domain/dedupe"
	"github.com/openpress/scorecard/internal/domain/kpi"
	"github.com/openpress/scorecard/internal/domain/model"
	"github.com/openpress/scorecard/internal/domain/reviewer"
	"github.com/openpress/scorecard/pkg/logger"
	"github.com/openpress/scorecard/pkg/metrics"
)

// Service implements the API dependencies for the KPI aggregator.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	queue      eventqueue.Queue
	workerPool *workerpool.Pool
	eventBus   *bus.EventBus
	refresher  *scheduler.Scheduler
	calculator *kpi.Calculator
	ranker     *reviewer.Ranker

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	refreshInterval time.Duration
	calcOpts        []kpi.Option
	rankOpts        []reviewer.Option

	// State
	started   bool
	scheduled map[string]bool
	stopCh    chan struct{}

	// Logging
	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU() * 2,
		queueSize:       100_000,
		dedupeSize:      500_000,
		refreshInterval: 30 * time.Second,
		scheduled:       make(map[string]bool),
		stopCh:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting KPI aggregator service...")

	s.store = repository.NewMemStore(ctx)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
	)
	s.eventBus = bus.NewEventBus(
		bus.WithLogger(s.logger.Named("bus")),
	)
	s.refresher = scheduler.New(
		scheduler.WithLogger(s.logger.Named("scheduler")),
	)
	s.calculator = kpi.NewCalculator(s.calcOpts...)
	s.ranker = reviewer.NewRanker(s.rankOpts...)

	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.store, s.eventBus)
	s.workerPool.Start(ctx)

	go s.watchPublishers(ctx)

	s.started = true
	s.logger.Info(ctx, "KPI aggregator service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("refreshInterval", s.refreshInterval),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping KPI aggregator service...")

	if s.refresher != nil {
		s.refresher.Stop()
	}
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.scheduled = make(map[string]bool)
	s.logger.Info(ctx, "KPI aggregator service stopped")
}

// SeenAndRecord atomically checks if a request id was seen and records it
// if not. Returns true if the id was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordRecordDuplicate()
	}
	return seen
}

// Unrecord removes a request id from the seen set, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// EnqueueSubmission submits a submission record for asynchronous ingestion.
// Returns false on backpressure.
func (s *Service) EnqueueSubmission(ctx context.Context, eventID string, rec model.SubmissionRecord) bool {
	return s.queue.Enqueue(ctx, model.IngestEvent{
		EventID:    eventID,
		Kind:       model.IngestSubmission,
		Submission: rec,
	})
}

// EnqueueReview submits a review record for asynchronous ingestion.
// Returns false on backpressure.
func (s *Service) EnqueueReview(ctx context.Context, eventID string, rec model.ReviewRecord) bool {
	return s.queue.Enqueue(ctx, model.IngestEvent{
		EventID: eventID,
		Kind:    model.IngestReview,
		Review:  rec,
	})
}

// CalculateKPIs fetches the publisher's submissions for the window and runs
// the aggregation core. An empty record set yields the no-data sentinel,
// never an error.
func (s *Service) CalculateKPIs(ctx context.Context, publisherID string, window model.DateRange) (kpi.Result, error) {
	start := time.Now()
	defer func() {
		metrics.RecordKPICalculationLatency(float64(time.Since(start).Milliseconds()))
	}()

	records, err := s.store.Submissions(ctx, publisherID, window)
	if err != nil {
		return kpi.Result{}, err
	}

	result := s.calculator.Calculate(publisherID, records)
	metrics.RecordKPICalculation()
	if result.TotalProcessed == 0 {
		metrics.RecordKPIEmptyResult()
	}
	if result.AnomalousRecords > 0 {
		metrics.RecordAnomalousRecords(result.AnomalousRecords)
		s.logger.Warn(ctx, "anomalous records excluded from aggregation",
			logger.String("publisher_id", publisherID),
			logger.Int("count", result.AnomalousRecords),
		)
	}
	return result, nil
}

// ReviewerEfficiency fetches the publisher's reviews for the window and
// ranks reviewer performance.
func (s *Service) ReviewerEfficiency(ctx context.Context, publisherID string, window model.DateRange) (reviewer.Report, error) {
	records, err := s.store.Reviews(ctx, publisherID, window)
	if err != nil {
		return reviewer.Report{}, err
	}
	return s.ranker.Rank(records), nil
}

// Subscribe registers a dashboard callback for a publisher's analytics
// events and returns its unsubscribe function.
func (s *Service) Subscribe(publisherID string, cb bus.Callback) bus.UnsubscribeFunc {
	return s.eventBus.Subscribe(publisherID, cb)
}

// watchPublishers ensures every publisher with records has a refresh timer.
func (s *Service) watchPublishers(ctx context.Context) {
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.ensureSchedules(ctx)
		}
	}
}

func (s *Service) ensureSchedules(ctx context.Context) {
	for _, publisherID := range s.store.Publishers(ctx) {
		s.mu.Lock()
		already := s.scheduled[publisherID]
		if !already {
			s.scheduled[publisherID] = true
		}
		s.mu.Unlock()

		if !already {
			s.refresher.ScheduleRefresh(ctx, publisherID, s.refreshInterval, s.refreshPublisher)
			s.logger.Info(ctx, "scheduled KPI refresh",
				logger.String("publisher_id", publisherID),
				logger.Duration("interval", s.refreshInterval),
			)
		}
	}
}

// refreshPublisher is the scheduler callback: recompute KPIs over the full
// history and push the result to the publisher's subscribers.
func (s *Service) refreshPublisher(ctx context.Context, publisherID string) error {
	result, err := s.CalculateKPIs(ctx, publisherID, model.DateRange{})
	if err != nil {
		return err
	}
	s.eventBus.Emit(ctx, publisherID, model.AnalyticsEvent{
		ID:        model.NewEventID(),
		Type:      model.EventKPIRefreshed,
		Timestamp: time.Now().UTC(),
		Data:      result,
	})
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		ctx := context.Background()
		submissions, reviews, publishers := s.store.Counts(ctx)
		stats["queueLength"] = s.queue.Len(ctx)
		stats["submissions"] = submissions
		stats["reviews"] = reviews
		stats["publishers"] = publishers
		stats["activeTimers"] = s.refresher.ActiveTimers()

		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
