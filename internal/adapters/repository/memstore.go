package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/openpress/scorecard/internal/domain/model"
	"github.com/openpress/scorecard/pkg/metrics"
)

// publisherRecords holds one publisher's records. Append-only; reads copy.
type publisherRecords struct {
	submissions []model.SubmissionRecord
	reviews     []model.ReviewRecord
}

// MemStore implements Store with an in-memory per-publisher index.
type MemStore struct {
	mu          sync.RWMutex
	byPublisher map[string]*publisherRecords

	bucketCapacity   int
	totalSubmissions int
	totalReviews     int
}

// NewMemStore creates an empty in-memory record store.
func NewMemStore(_ context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		byPublisher: make(map[string]*publisherRecords),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AppendSubmission records a submission for its publisher.
func (s *MemStore) AppendSubmission(_ context.Context, rec model.SubmissionRecord) error {
	if err := validateSubmission(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bucket(rec.PublisherID)
	b.submissions = append(b.submissions, rec)
	s.totalSubmissions++
	s.updateGauges()
	return nil
}

// AppendReview records a review assignment for its publisher.
func (s *MemStore) AppendReview(_ context.Context, rec model.ReviewRecord) error {
	if err := validateReview(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bucket(rec.PublisherID)
	b.reviews = append(b.reviews, rec)
	s.totalReviews++
	s.updateGauges()
	return nil
}

// Submissions returns the publisher's submissions inside the range. Unknown
// publishers yield an empty slice; the caller treats no data as a normal
// outcome, not a failure.
func (s *MemStore) Submissions(_ context.Context, publisherID string, r model.DateRange) ([]model.SubmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs, ok := s.byPublisher[publisherID]
	if !ok {
		return nil, nil
	}
	out := make([]model.SubmissionRecord, 0, len(recs.submissions))
	for _, rec := range recs.submissions {
		if r.Contains(rec.SubmittedAt) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Reviews returns the publisher's reviews assigned inside the range.
func (s *MemStore) Reviews(_ context.Context, publisherID string, r model.DateRange) ([]model.ReviewRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs, ok := s.byPublisher[publisherID]
	if !ok {
		return nil, nil
	}
	out := make([]model.ReviewRecord, 0, len(recs.reviews))
	for _, rec := range recs.reviews {
		if r.Contains(rec.AssignedAt) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Publishers lists every publisher id with at least one record, sorted.
func (s *MemStore) Publishers(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.byPublisher))
	for id := range s.byPublisher {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Counts returns totals across all publishers.
func (s *MemStore) Counts(_ context.Context) (submissions, reviews, publishers int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalSubmissions, s.totalReviews, len(s.byPublisher)
}

// bucket returns the records bucket for a publisher, creating it if needed.
// Must be called with s.mu held for writing.
func (s *MemStore) bucket(publisherID string) *publisherRecords {
	recs, ok := s.byPublisher[publisherID]
	if !ok {
		recs = &publisherRecords{
			submissions: make([]model.SubmissionRecord, 0, s.bucketCapacity),
			reviews:     make([]model.ReviewRecord, 0, s.bucketCapacity),
		}
		s.byPublisher[publisherID] = recs
	}
	return recs
}

// updateGauges refreshes store metrics. Must be called with s.mu held.
func (s *MemStore) updateGauges() {
	metrics.UpdateStoreSubmissions(s.totalSubmissions)
	metrics.UpdateStoreReviews(s.totalReviews)
	metrics.UpdateStorePublishers(len(s.byPublisher))
}

func validateSubmission(rec model.SubmissionRecord) error {
	switch {
	case rec.ID == "":
		return fmt.Errorf("%w: missing submission id", ErrInvalidRecord)
	case rec.PublisherID == "":
		return fmt.Errorf("%w: missing publisher id", ErrInvalidRecord)
	case rec.JournalID == "":
		return fmt.Errorf("%w: missing journal id", ErrInvalidRecord)
	case rec.SubmittedAt.IsZero():
		return fmt.Errorf("%w: missing submission timestamp", ErrInvalidRecord)
	case rec.Decided() && !rec.Decision.Valid():
		return fmt.Errorf("%w: unknown decision %q", ErrInvalidRecord, rec.Decision)
	}
	return nil
}

func validateReview(rec model.ReviewRecord) error {
	switch {
	case rec.ReviewerID == "":
		return fmt.Errorf("%w: missing reviewer id", ErrInvalidRecord)
	case rec.PublisherID == "":
		return fmt.Errorf("%w: missing publisher id", ErrInvalidRecord)
	case rec.AssignedAt.IsZero():
		return fmt.Errorf("%w: missing assignment timestamp", ErrInvalidRecord)
	}
	return nil
}
