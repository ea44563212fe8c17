// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openpress/scorecard/internal/domain/dedupe"
	"github.com/openpress/scorecard/internal/domain/model"
)

// ReviewDependencies defines the interface for review ingestion.
type ReviewDependencies interface {
	dedupe.Deduper
	EnqueueReview(ctx context.Context, eventID string, rec model.ReviewRecord) bool
}

// ReviewsHandler handles review ingestion requests.
type ReviewsHandler struct {
	deps ReviewDependencies
}

// NewReviewsHandler creates a new reviews handler.
func NewReviewsHandler(deps ReviewDependencies) *ReviewsHandler {
	return &ReviewsHandler{deps: deps}
}

// reviewRequest mirrors the JSON schema for POST /reviews.
type reviewRequest struct {
	EventID       string   `json:"event_id"`
	ReviewerID    string   `json:"reviewer_id"`
	ReviewerName  string   `json:"reviewer_name"`
	PublisherID   string   `json:"publisher_id"`
	SubmissionID  string   `json:"submission_id"`
	AssignedAt    string   `json:"assigned_at"`
	RespondedAt   string   `json:"responded_at,omitempty"`
	CompletedAt   string   `json:"completed_at,omitempty"`
	QualityRating *float64 `json:"quality_rating,omitempty"`
}

func (s reviewRequest) validate() error {
	switch {
	case strings.TrimSpace(s.ReviewerID) == "":
		return errors.New("missing reviewer_id")
	case strings.TrimSpace(s.PublisherID) == "":
		return errors.New("missing publisher_id")
	case strings.TrimSpace(s.AssignedAt) == "":
		return errors.New("missing assigned_at")
	}
	if _, err := time.Parse(time.RFC3339, s.AssignedAt); err != nil {
		return errors.New("invalid assigned_at; must be RFC3339")
	}
	for field, val := range map[string]string{"responded_at": s.RespondedAt, "completed_at": s.CompletedAt} {
		if val == "" {
			continue
		}
		if _, err := time.Parse(time.RFC3339, val); err != nil {
			return fmt.Errorf("invalid %s; must be RFC3339", field)
		}
	}
	return nil
}

func (s reviewRequest) toRecord() model.ReviewRecord {
	assignedAt, _ := time.Parse(time.RFC3339, s.AssignedAt)
	respondedAt, _ := parseOptionalTime(s.RespondedAt)
	completedAt, _ := parseOptionalTime(s.CompletedAt)
	return model.ReviewRecord{
		ReviewerID:    s.ReviewerID,
		ReviewerName:  s.ReviewerName,
		PublisherID:   s.PublisherID,
		SubmissionID:  s.SubmissionID,
		AssignedAt:    assignedAt,
		RespondedAt:   respondedAt,
		CompletedAt:   completedAt,
		QualityRating: s.QualityRating,
	}
}

// HandlePostReview handles POST /reviews requests.
func (h *ReviewsHandler) HandlePostReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	eventID := req.EventID
	if eventID == "" {
		eventID = uuid.New().String()
	}
	if h.deps.SeenAndRecord(r.Context(), eventID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	if ok := h.deps.EnqueueReview(r.Context(), eventID, req.toRecord()); !ok {
		h.deps.Unrecord(r.Context(), eventID)
		writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
