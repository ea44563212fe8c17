// Package repository defines the record store interface and errors.
//
// The aggregator depends on this narrow interface only, so the concrete
// storage technology is swappable and unit tests can supply in-memory fakes.
package repository

import (
	"context"

	"github.com/openpress/scorecard/internal/domain/model"
)

// Store provides read/write access to submission and review records.
type Store interface {
	// AppendSubmission records a submission for its publisher.
	AppendSubmission(ctx context.Context, rec model.SubmissionRecord) error

	// AppendReview records a review assignment for its publisher.
	AppendReview(ctx context.Context, rec model.ReviewRecord) error

	// Submissions returns the publisher's submissions whose submission
	// timestamp falls inside the range.
	Submissions(ctx context.Context, publisherID string, r model.DateRange) ([]model.SubmissionRecord, error)

	// Reviews returns the publisher's reviews whose assignment timestamp
	// falls inside the range.
	Reviews(ctx context.Context, publisherID string, r model.DateRange) ([]model.ReviewRecord, error)

	// Publishers lists every publisher id with at least one record.
	Publishers(ctx context.Context) []string

	// Counts returns totals across all publishers.
	Counts(ctx context.Context) (submissions, reviews, publishers int)
}
