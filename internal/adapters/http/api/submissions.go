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

// SubmissionDependencies defines the interface for submission ingestion.
type SubmissionDependencies interface {
	dedupe.Deduper
	EnqueueSubmission(ctx context.Context, eventID string, rec model.SubmissionRecord) bool
}

// SubmissionsHandler handles submission ingestion requests.
type SubmissionsHandler struct {
	deps SubmissionDependencies
}

// NewSubmissionsHandler creates a new submissions handler.
func NewSubmissionsHandler(deps SubmissionDependencies) *SubmissionsHandler {
	return &SubmissionsHandler{deps: deps}
}

// submissionRequest mirrors the JSON schema for POST /submissions.
type submissionRequest struct {
	EventID      string `json:"event_id"`
	SubmissionID string `json:"submission_id"`
	JournalID    string `json:"journal_id"`
	PublisherID  string `json:"publisher_id"`
	SubmittedAt  string `json:"submitted_at"`
	DecidedAt    string `json:"decided_at,omitempty"`
	Decision     string `json:"decision,omitempty"`
}

func (s submissionRequest) validate() error {
	switch {
	case strings.TrimSpace(s.SubmissionID) == "":
		return errors.New("missing submission_id")
	case strings.TrimSpace(s.JournalID) == "":
		return errors.New("missing journal_id")
	case strings.TrimSpace(s.PublisherID) == "":
		return errors.New("missing publisher_id")
	case strings.TrimSpace(s.SubmittedAt) == "":
		return errors.New("missing submitted_at")
	}
	if _, err := time.Parse(time.RFC3339, s.SubmittedAt); err != nil {
		return errors.New("invalid submitted_at; must be RFC3339")
	}
	if s.DecidedAt != "" {
		if _, err := time.Parse(time.RFC3339, s.DecidedAt); err != nil {
			return errors.New("invalid decided_at; must be RFC3339")
		}
		if !model.Decision(s.Decision).Valid() {
			return fmt.Errorf("invalid decision %q", s.Decision)
		}
	}
	return nil
}

func (s submissionRequest) toRecord() model.SubmissionRecord {
	submittedAt, _ := time.Parse(time.RFC3339, s.SubmittedAt)
	decidedAt, _ := parseOptionalTime(s.DecidedAt)
	decision := model.Decision(s.Decision)
	if decision == "" {
		decision = model.DecisionPending
	}
	return model.SubmissionRecord{
		ID:          s.SubmissionID,
		JournalID:   s.JournalID,
		PublisherID: s.PublisherID,
		SubmittedAt: submittedAt,
		DecidedAt:   decidedAt,
		Decision:    decision,
	}
}

// HandlePostSubmission handles POST /submissions requests.
func (h *SubmissionsHandler) HandlePostSubmission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req submissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first.
	eventID := req.EventID
	if eventID == "" {
		eventID = uuid.New().String()
	}
	if h.deps.SeenAndRecord(r.Context(), eventID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	if ok := h.deps.EnqueueSubmission(r.Context(), eventID, req.toRecord()); !ok {
		// Roll back the seen status so the client can retry.
		h.deps.Unrecord(r.Context(), eventID)
		writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
