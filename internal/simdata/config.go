// Package simdata generates synthetic submission and review traffic and
// posts it to a running scorecard instance. Used for load and demo runs.
package simdata

import "time"

// Default simulation parameters.
const (
	defaultBaseURL     = "http://localhost:9090"
	defaultPublishers  = 3
	defaultJournals    = 4
	defaultSubmissions = 500
	defaultReviewers   = 25
	defaultReviews     = 800
	defaultWorkers     = 8
	defaultTimeout     = 10 * time.Second
)

// Config controls one simulation run.
type Config struct {
	BaseURL              string
	Publishers           int
	JournalsPerPublisher int
	Submissions          int
	Reviewers            int
	Reviews              int
	Workers              int
	Timeout              time.Duration
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		BaseURL:              defaultBaseURL,
		Publishers:           defaultPublishers,
		JournalsPerPublisher: defaultJournals,
		Submissions:          defaultSubmissions,
		Reviewers:            defaultReviewers,
		Reviews:              defaultReviews,
		Workers:              defaultWorkers,
		Timeout:              defaultTimeout,
	}
}

// Stats accumulates the outcome of a simulation run.
type Stats struct {
	SubmissionsSent int
	ReviewsSent     int
	Duplicates      int
	Failures        int
}
