package model

import (
	"math/rand"
	"strconv"
	"time"
)

// AnalyticsEvent is the payload pushed to dashboard subscribers. It carries
// no statistical meaning of its own.
type AnalyticsEvent struct {
	ID           string      `json:"id"`
	Type         string      `json:"type"`
	Timestamp    time.Time   `json:"timestamp"`
	JournalID    string      `json:"journal_id"`
	SubmissionID string      `json:"submission_id,omitempty"`
	Data         interface{} `json:"data,omitempty"`
}

// Analytics event types.
const (
	EventSubmissionRecorded = "submission.recorded"
	EventReviewRecorded     = "review.recorded"
	EventKPIRefreshed       = "kpi.refreshed"
)

// NewEventID returns an id of the form "<epoch-millis>-<random-base36-suffix>".
// Unique within a process; not unguessable.
func NewEventID() string {
	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
	suffix := strconv.FormatInt(rand.Int63n(1<<40), 36) //nolint:gosec // id suffix, not a secret
	return millis + "-" + suffix
}

// IngestKind discriminates payloads flowing through the ingestion queue.
type IngestKind string

// Ingest kinds.
const (
	IngestSubmission IngestKind = "submission"
	IngestReview     IngestKind = "review"
)

// IngestEvent is the unit of work carried by the ingestion queue. Exactly
// one of Submission or Review is set, matching Kind.
type IngestEvent struct {
	EventID    string
	Kind       IngestKind
	Submission SubmissionRecord
	Review     ReviewRecord
}
