// Package model contains domain records passed between layers.
package model

import "time"

// Decision enumerates the editorial outcome of a submission.
type Decision string

// Decision values.
const (
	DecisionAccepted Decision = "accepted"
	DecisionRejected Decision = "rejected"
	DecisionPending  Decision = "pending"
	DecisionOther    Decision = "other"
)

// Valid reports whether d is one of the known decision values.
func (d Decision) Valid() bool {
	switch d {
	case DecisionAccepted, DecisionRejected, DecisionPending, DecisionOther:
		return true
	}
	return false
}

// SubmissionRecord is a manuscript submission as supplied by the data layer.
// Records are immutable once produced; the aggregator never mutates them.
type SubmissionRecord struct {
	ID          string
	JournalID   string
	PublisherID string
	SubmittedAt time.Time
	DecidedAt   *time.Time
	Decision    Decision
}

// Decided reports whether the submission has reached an editorial decision.
func (s SubmissionRecord) Decided() bool {
	return s.DecidedAt != nil
}

// ReviewRecord is a single peer-review assignment as supplied by the data layer.
type ReviewRecord struct {
	ReviewerID    string
	ReviewerName  string
	PublisherID   string
	SubmissionID  string
	AssignedAt    time.Time
	RespondedAt   *time.Time
	CompletedAt   *time.Time
	QualityRating *float64
}

// ResponseDays returns the days between assignment and the reviewer's
// response. The second return is false when the reviewer has not responded.
func (r ReviewRecord) ResponseDays() (float64, bool) {
	if r.RespondedAt == nil {
		return 0, false
	}
	return r.RespondedAt.Sub(r.AssignedAt).Hours() / 24, true
}

// ReviewDays returns the days between assignment and review completion.
// The second return is false when the review is not complete.
func (r ReviewRecord) ReviewDays() (float64, bool) {
	if r.CompletedAt == nil {
		return 0, false
	}
	return r.CompletedAt.Sub(r.AssignedAt).Hours() / 24, true
}

// ProcessedRecord is a decided submission projected into normalized metrics.
type ProcessedRecord struct {
	SubmissionID   string
	JournalID      string
	SubmittedAt    time.Time
	Decision       Decision
	ProcessingDays float64
}

// DateRange is an optional time window; a zero bound means unbounded on
// that side.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}
