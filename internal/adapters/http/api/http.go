// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openpress/scorecard/internal/domain/dedupe"
	"github.com/openpress/scorecard/internal/domain/kpi"
	"github.com/openpress/scorecard/internal/domain/model"
	"github.com/openpress/scorecard/internal/domain/reviewer"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Ingestion. Both return false on backpressure.
	EnqueueSubmission(ctx context.Context, eventID string, rec model.SubmissionRecord) bool
	EnqueueReview(ctx context.Context, eventID string, rec model.ReviewRecord) bool

	// Read operations expose computed analytics.
	CalculateKPIs(ctx context.Context, publisherID string, window model.DateRange) (kpi.Result, error)
	ReviewerEfficiency(ctx context.Context, publisherID string, window model.DateRange) (reviewer.Report, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	submissionsHandler *SubmissionsHandler
	reviewsHandler     *ReviewsHandler
	kpisHandler        *KPIsHandler
	reviewersHandler   *ReviewersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		submissionsHandler: NewSubmissionsHandler(deps),
		reviewsHandler:     NewReviewsHandler(deps),
		kpisHandler:        NewKPIsHandler(deps),
		reviewersHandler:   NewReviewersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/submissions", MetricsMiddleware(s.submissionsHandler.HandlePostSubmission, "submissions"))
	mux.HandleFunc("/reviews", MetricsMiddleware(s.reviewsHandler.HandlePostReview, "reviews"))
	mux.HandleFunc("/kpis", MetricsMiddleware(s.kpisHandler.HandleGetKPIs, "kpis"))
	mux.HandleFunc("/reviewers", MetricsMiddleware(s.reviewersHandler.HandleGetReviewers, "reviewers"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// parseWindow reads optional from/to query parameters into a DateRange.
// Accepts RFC3339 or plain dates (2006-01-02).
func parseWindow(r *http.Request) (model.DateRange, error) {
	var window model.DateRange
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := parseTime(from)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("invalid from: %w", err)
		}
		window.Start = t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := parseTime(to)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("invalid to: %w", err)
		}
		window.End = t
	}
	if !window.Start.IsZero() && !window.End.IsZero() && window.End.Before(window.Start) {
		return model.DateRange{}, errors.New("to precedes from")
	}
	return window, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.New("must be RFC3339 or YYYY-MM-DD")
	}
	return t, nil
}

// parseOptionalTime parses a nullable RFC3339 field from a request body.
func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil //nolint:nilnil // absent field, not an error
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
