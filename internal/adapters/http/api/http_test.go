package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/openpress/scorecard/internal/adapters/http/api"
	"github.com/openpress/scorecard/internal/domain/kpi"
	"github.com/openpress/scorecard/internal/domain/model"
	"github.com/openpress/scorecard/internal/domain/reviewer"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeDeps implements api.Dependencies for handler tests.
type fakeDeps struct {
	seen         map[string]struct{}
	backpressure bool

	enqueuedSubmissions []model.SubmissionRecord
	enqueuedReviews     []model.ReviewRecord

	kpiResult  kpi.Result
	kpiErr     error
	rankReport reviewer.Report
	rankErr    error
	lastQuery  string
	lastWindow model.DateRange
}

func newFakeDeps() *fakeDeps {
	return &fakeDeps{seen: make(map[string]struct{})}
}

func (f *fakeDeps) SeenAndRecord(_ context.Context, id string) bool {
	if _, ok := f.seen[id]; ok {
		return true
	}
	f.seen[id] = struct{}{}
	return false
}

func (f *fakeDeps) Unrecord(_ context.Context, id string) {
	delete(f.seen, id)
}

func (f *fakeDeps) Size() int64 {
	return int64(len(f.seen))
}

func (f *fakeDeps) EnqueueSubmission(_ context.Context, _ string, rec model.SubmissionRecord) bool {
	if f.backpressure {
		return false
	}
	f.enqueuedSubmissions = append(f.enqueuedSubmissions, rec)
	return true
}

func (f *fakeDeps) EnqueueReview(_ context.Context, _ string, rec model.ReviewRecord) bool {
	if f.backpressure {
		return false
	}
	f.enqueuedReviews = append(f.enqueuedReviews, rec)
	return true
}

func (f *fakeDeps) CalculateKPIs(_ context.Context, publisherID string, window model.DateRange) (kpi.Result, error) {
	f.lastQuery = publisherID
	f.lastWindow = window
	return f.kpiResult, f.kpiErr
}

func (f *fakeDeps) ReviewerEfficiency(_ context.Context, publisherID string, window model.DateRange) (reviewer.Report, error) {
	f.lastQuery = publisherID
	f.lastWindow = window
	return f.rankReport, f.rankErr
}

func (f *fakeDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"submissions": 1}
}

func postJSON(handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func get(handler http.HandlerFunc, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSubmissionsHandler(t *testing.T) {
	Convey("Given a submissions handler", t, func() {
		deps := newFakeDeps()
		handler := api.NewSubmissionsHandler(deps).HandlePostSubmission

		valid := `{
			"event_id": "evt-1",
			"submission_id": "sub-1",
			"journal_id": "j-1",
			"publisher_id": "pub-1",
			"submitted_at": "2025-01-10T00:00:00Z",
			"decided_at": "2025-03-10T00:00:00Z",
			"decision": "accepted"
		}`

		Convey("When posting a valid submission", func() {
			rec := postJSON(handler, "/submissions", valid)

			Convey("Then it is accepted and enqueued", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				So(deps.enqueuedSubmissions, ShouldHaveLength, 1)
				So(deps.enqueuedSubmissions[0].ID, ShouldEqual, "sub-1")
				So(deps.enqueuedSubmissions[0].Decision, ShouldEqual, model.DecisionAccepted)
			})

			Convey("And replaying the same event id reports a duplicate", func() {
				replay := postJSON(handler, "/submissions", valid)
				So(replay.Code, ShouldEqual, http.StatusOK)

				var ack map[string]any
				So(json.Unmarshal(replay.Body.Bytes(), &ack), ShouldBeNil)
				So(ack["duplicate"], ShouldEqual, true)
				So(deps.enqueuedSubmissions, ShouldHaveLength, 1)
			})
		})

		Convey("When posting without a decision", func() {
			rec := postJSON(handler, "/submissions", `{
				"submission_id": "sub-2",
				"journal_id": "j-1",
				"publisher_id": "pub-1",
				"submitted_at": "2025-01-10T00:00:00Z"
			}`)

			Convey("Then the record is stored as pending", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				So(deps.enqueuedSubmissions[0].Decision, ShouldEqual, model.DecisionPending)
				So(deps.enqueuedSubmissions[0].DecidedAt, ShouldBeNil)
			})
		})

		Convey("When posting malformed JSON", func() {
			rec := postJSON(handler, "/submissions", `{not json`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When required fields are missing", func() {
			rec := postJSON(handler, "/submissions", `{"submission_id": "sub-1"}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(deps.enqueuedSubmissions, ShouldBeEmpty)
		})

		Convey("When the decision value is unknown", func() {
			rec := postJSON(handler, "/submissions", `{
				"submission_id": "sub-1",
				"journal_id": "j-1",
				"publisher_id": "pub-1",
				"submitted_at": "2025-01-10T00:00:00Z",
				"decided_at": "2025-03-10T00:00:00Z",
				"decision": "withdrawn"
			}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the queue is saturated", func() {
			deps.backpressure = true
			rec := postJSON(handler, "/submissions", valid)

			Convey("Then the request is rejected with 429", func() {
				So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
			})

			Convey("And the event id is released for retry", func() {
				deps.backpressure = false
				retry := postJSON(handler, "/submissions", valid)
				So(retry.Code, ShouldEqual, http.StatusAccepted)
			})
		})

		Convey("When using the wrong method", func() {
			rec := get(handler, "/submissions")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestReviewsHandler(t *testing.T) {
	Convey("Given a reviews handler", t, func() {
		deps := newFakeDeps()
		handler := api.NewReviewsHandler(deps).HandlePostReview

		valid := `{
			"event_id": "evt-9",
			"reviewer_id": "r-1",
			"reviewer_name": "Reviewer One",
			"publisher_id": "pub-1",
			"submission_id": "sub-1",
			"assigned_at": "2025-01-10T00:00:00Z",
			"responded_at": "2025-01-12T00:00:00Z",
			"completed_at": "2025-01-20T00:00:00Z",
			"quality_rating": 4.5
		}`

		Convey("When posting a valid review", func() {
			rec := postJSON(handler, "/reviews", valid)

			Convey("Then it is accepted and enqueued", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				So(deps.enqueuedReviews, ShouldHaveLength, 1)
				So(deps.enqueuedReviews[0].ReviewerID, ShouldEqual, "r-1")
				So(*deps.enqueuedReviews[0].QualityRating, ShouldEqual, 4.5)
			})

			Convey("And a replay reports a duplicate", func() {
				replay := postJSON(handler, "/reviews", valid)
				So(replay.Code, ShouldEqual, http.StatusOK)
				So(deps.enqueuedReviews, ShouldHaveLength, 1)
			})
		})

		Convey("When optional fields are absent", func() {
			rec := postJSON(handler, "/reviews", `{
				"reviewer_id": "r-2",
				"publisher_id": "pub-1",
				"assigned_at": "2025-01-10T00:00:00Z"
			}`)

			Convey("Then the record carries nil optionals", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				So(deps.enqueuedReviews[0].RespondedAt, ShouldBeNil)
				So(deps.enqueuedReviews[0].CompletedAt, ShouldBeNil)
				So(deps.enqueuedReviews[0].QualityRating, ShouldBeNil)
			})
		})

		Convey("When the assigned timestamp is malformed", func() {
			rec := postJSON(handler, "/reviews", `{
				"reviewer_id": "r-2",
				"publisher_id": "pub-1",
				"assigned_at": "yesterday"
			}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestKPIsHandler(t *testing.T) {
	Convey("Given a KPIs handler", t, func() {
		deps := newFakeDeps()
		deps.kpiResult = kpi.Result{
			PublisherID:    "pub-1",
			TotalProcessed: 12,
			Grade:          "B",
		}
		handler := api.NewKPIsHandler(deps).HandleGetKPIs

		Convey("When querying with a publisher id", func() {
			rec := get(handler, "/kpis?publisher_id=pub-1")

			Convey("Then the KPI result is returned as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var result kpi.Result
				So(json.Unmarshal(rec.Body.Bytes(), &result), ShouldBeNil)
				So(result.PublisherID, ShouldEqual, "pub-1")
				So(result.TotalProcessed, ShouldEqual, 12)
				So(result.Grade, ShouldEqual, "B")
				So(deps.lastQuery, ShouldEqual, "pub-1")
			})
		})

		Convey("When a date window is supplied", func() {
			rec := get(handler, "/kpis?publisher_id=pub-1&from=2025-01-01&to=2025-06-30")

			Convey("Then the window is parsed and passed through", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.lastWindow.Start, ShouldResemble, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
				So(deps.lastWindow.End, ShouldResemble, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))
			})
		})

		Convey("When the publisher id is missing", func() {
			rec := get(handler, "/kpis")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the window is inverted", func() {
			rec := get(handler, "/kpis?publisher_id=pub-1&from=2025-06-30&to=2025-01-01")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the from parameter is malformed", func() {
			rec := get(handler, "/kpis?publisher_id=pub-1&from=last-week")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestReviewersHandler(t *testing.T) {
	Convey("Given a reviewers handler", t, func() {
		deps := newFakeDeps()
		deps.rankReport = reviewer.Report{
			Overall: []reviewer.Efficiency{
				{ReviewerID: "r-1", QualityScore: 4.5, TotalReviews: 6},
			},
			TopPerformers:   []reviewer.Efficiency{},
			Underperformers: []reviewer.Efficiency{},
		}
		handler := api.NewReviewersHandler(deps).HandleGetReviewers

		Convey("When querying with a publisher id", func() {
			rec := get(handler, "/reviewers?publisher_id=pub-1")

			Convey("Then the report is returned as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var report reviewer.Report
				So(json.Unmarshal(rec.Body.Bytes(), &report), ShouldBeNil)
				So(report.Overall, ShouldHaveLength, 1)
				So(report.Overall[0].ReviewerID, ShouldEqual, "r-1")
			})
		})

		Convey("When the publisher id is missing", func() {
			rec := get(handler, "/reviewers")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestStatsHandler(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		deps := newFakeDeps()
		handler := api.NewStatsHandler(deps).HandleStats

		Convey("When querying stats", func() {
			rec := get(handler, "/stats")

			So(rec.Code, ShouldEqual, http.StatusOK)
			var stats map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["submissions"], ShouldEqual, 1)
		})
	})
}

func TestServerRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newFakeDeps()
		server := api.NewServer(deps, deps)
		mux := http.NewServeMux()
		server.Register(context.Background(), mux)

		Convey("When hitting each route", func() {
			for _, route := range []string{"/stats", "/kpis?publisher_id=pub-1", "/reviewers?publisher_id=pub-1"} {
				req := httptest.NewRequest(http.MethodGet, route, nil)
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, req)
				So(rec.Code, ShouldEqual, http.StatusOK)
			}
		})

		Convey("When posting through the mux", func() {
			req := httptest.NewRequest(http.MethodPost, "/submissions", strings.NewReader(`{
				"submission_id": "sub-1",
				"journal_id": "j-1",
				"publisher_id": "pub-1",
				"submitted_at": "2025-01-10T00:00:00Z"
			}`))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusAccepted)
		})
	})
}
