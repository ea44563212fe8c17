// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory ingestion queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// RefreshInterval is the per-publisher KPI recomputation period.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// MinReviewerSample is the minimum completed reviews a reviewer needs
	// before appearing in top-performer or underperformer rankings.
	MinReviewerSample int `koanf:"min_reviewer_sample"`

	// BenchmarkProcessingDays is the industry reference for submission-to-decision time.
	BenchmarkProcessingDays float64 `koanf:"benchmark_processing_days"`

	// BenchmarkAcceptanceRate is the industry reference acceptance rate percentage.
	BenchmarkAcceptanceRate float64 `koanf:"benchmark_acceptance_rate"`

	// VarianceAlertThreshold is the processing-time variance (days squared)
	// above which a timeline-standardization recommendation is issued.
	VarianceAlertThreshold float64 `koanf:"variance_alert_threshold"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		Addr:                    ":9090",
		QueueSize:               100_000,
		WorkerCount:             runtime.NumCPU() * 4,
		DedupeSize:              500_000,
		RefreshInterval:         30 * time.Second,
		MinReviewerSample:       3,
		BenchmarkProcessingDays: 90,
		BenchmarkAcceptanceRate: 25,
		VarianceAlertThreshold:  1000,
	}
}
