// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openpress/scorecard/internal/domain/model"
	"github.com/openpress/scorecard/internal/domain/reviewer"
)

// ReviewerDependencies defines the interface for reviewer efficiency queries.
type ReviewerDependencies interface {
	ReviewerEfficiency(ctx context.Context, publisherID string, window model.DateRange) (reviewer.Report, error)
}

// ReviewersHandler handles reviewer efficiency requests.
type ReviewersHandler struct {
	deps ReviewerDependencies
}

// NewReviewersHandler creates a new reviewers handler.
func NewReviewersHandler(deps ReviewerDependencies) *ReviewersHandler {
	return &ReviewersHandler{deps: deps}
}

// HandleGetReviewers handles GET /reviewers?publisher_id=X&from=&to= requests.
func (h *ReviewersHandler) HandleGetReviewers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	publisherID := strings.TrimSpace(r.URL.Query().Get("publisher_id"))
	if publisherID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing publisher_id", ErrBadRequest))
		return
	}
	window, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	report, err := h.deps.ReviewerEfficiency(r.Context(), publisherID, window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
