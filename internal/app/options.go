package service

import (
	"time"

	"github.com/openpress/scorecard/internal/domain/kpi"
	"github.com/openpress/scorecard/internal/domain/reviewer"
	"github.com/openpress/scorecard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of ingestion workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the ingestion queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithRefreshInterval sets the per-publisher KPI recomputation period.
func WithRefreshInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.refreshInterval = interval
		}
	}
}

// WithCalculatorOptions forwards threshold configuration to the KPI calculator.
func WithCalculatorOptions(opts ...kpi.Option) Option {
	return func(s *Service) {
		s.calcOpts = append(s.calcOpts, opts...)
	}
}

// WithRankerOptions forwards policy configuration to the reviewer ranker.
func WithRankerOptions(opts ...reviewer.Option) Option {
	return func(s *Service) {
		s.rankOpts = append(s.rankOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
