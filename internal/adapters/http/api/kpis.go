// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openpress/scorecard/internal/domain/kpi"
	"github.com/openpress/scorecard/internal/domain/model"
)

// KPIDependencies defines the interface for KPI queries.
type KPIDependencies interface {
	CalculateKPIs(ctx context.Context, publisherID string, window model.DateRange) (kpi.Result, error)
}

// KPIsHandler handles KPI query requests.
type KPIsHandler struct {
	deps KPIDependencies
}

// NewKPIsHandler creates a new KPIs handler.
func NewKPIsHandler(deps KPIDependencies) *KPIsHandler {
	return &KPIsHandler{deps: deps}
}

// HandleGetKPIs handles GET /kpis?publisher_id=X&from=&to= requests.
func (h *KPIsHandler) HandleGetKPIs(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.deps.CalculateKPIs(r.Context(), publisherID, window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
