// Package kpi implements the academic KPI aggregation core: metric
// extraction, statistical summaries, journal and monthly breakdowns,
// performance grading, and recommendations. Everything here is pure,
// synchronous computation over records supplied by the caller.
package kpi

import (
	"time"

	"github.com/openpress/scorecard/internal/domain/model"
	"github.com/openpress/scorecard/internal/domain/stats"
)

// Benchmark compares a publisher's aggregates to industry reference values.
type Benchmark struct {
	IndustryProcessingDays float64 `json:"industry_processing_days"`
	ProcessingDaysDelta    float64 `json:"processing_days_delta"` // actual minus industry; negative is faster
	IndustryAcceptanceRate float64 `json:"industry_acceptance_rate"`
	AcceptanceRateDelta    float64 `json:"acceptance_rate_delta"`
	Standing               string  `json:"standing"` // ahead, on_par, behind
}

// Result is the value object produced by one calculation call. It has no
// identity or lifecycle beyond that call.
type Result struct {
	PublisherID          string             `json:"publisher_id"`
	TotalProcessed       int                `json:"total_processed"`
	AnomalousRecords     int                `json:"anomalous_records"`
	AverageProcessingDays float64           `json:"average_processing_days"`
	MedianProcessingDays float64            `json:"median_processing_days"`
	P90ProcessingDays    float64            `json:"p90_processing_days"`
	AcceptanceRate       float64            `json:"acceptance_rate"`
	Journals             []JournalBreakdown `json:"journals"`
	MonthlyTrend         []MonthlyPoint     `json:"monthly_trend"`
	Benchmark            Benchmark          `json:"benchmark"`
	Grade                string             `json:"grade"`
	Recommendations      []string           `json:"recommendations"`
	GeneratedAt          time.Time          `json:"generated_at"`
}

// standingTolerance is the processing-day delta within which a publisher is
// considered on par with the benchmark.
const standingTolerance = 5.0

// Calculator computes KPI results. Thresholds are injected configuration,
// not constants buried in logic.
type Calculator struct {
	minReviewerSample int
	benchmarkDays     float64
	benchmarkRate     float64
	varianceThreshold float64
}

// NewCalculator creates a Calculator with default thresholds.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		minReviewerSample: 3,
		benchmarkDays:     90,
		benchmarkRate:     25,
		varianceThreshold: 1000,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MinReviewerSample exposes the configured ranking sample floor.
func (c *Calculator) MinReviewerSample() int {
	return c.minReviewerSample
}

// Calculate produces the KPI result for one publisher from its raw
// submission records. Records are assumed to be pre-filtered to the
// publisher and date window by the data layer.
func (c *Calculator) Calculate(publisherID string, records []model.SubmissionRecord) Result {
	extraction := Extract(records)
	processed := extraction.Processed

	// The empty sentinel must be returned before any summarizer call; the
	// stats package is undefined on empty series.
	if len(processed) == 0 {
		return Result{
			PublisherID:      publisherID,
			AnomalousRecords: extraction.Anomalous,
			Journals:         []JournalBreakdown{},
			MonthlyTrend:     []MonthlyPoint{},
			Grade:            "N/A",
			Recommendations:  []string{NoDataRecommendation},
			GeneratedAt:      time.Now().UTC(),
		}
	}

	days := make([]float64, len(processed))
	accepted := 0
	for i, r := range processed {
		days[i] = r.ProcessingDays
		if r.Decision == model.DecisionAccepted {
			accepted++
		}
	}

	avg := stats.Mean(days)
	acceptanceRate := 100 * float64(accepted) / float64(len(processed))

	return Result{
		PublisherID:           publisherID,
		TotalProcessed:        len(processed),
		AnomalousRecords:      extraction.Anomalous,
		AverageProcessingDays: avg,
		MedianProcessingDays:  stats.Median(days),
		P90ProcessingDays:     stats.Percentile(days, 90),
		AcceptanceRate:        acceptanceRate,
		Journals:              byJournal(processed),
		MonthlyTrend:          monthlyTrend(processed),
		Benchmark:             c.benchmark(avg, acceptanceRate),
		Grade:                 gradeFor(avg, acceptanceRate),
		Recommendations:       recommendations(avg, acceptanceRate, days, c.varianceThreshold),
		GeneratedAt:           time.Now().UTC(),
	}
}

func (c *Calculator) benchmark(avgDays, acceptanceRate float64) Benchmark {
	delta := avgDays - c.benchmarkDays
	standing := "on_par"
	switch {
	case delta < -standingTolerance:
		standing = "ahead"
	case delta > standingTolerance:
		standing = "behind"
	}
	return Benchmark{
		IndustryProcessingDays: c.benchmarkDays,
		ProcessingDaysDelta:    delta,
		IndustryAcceptanceRate: c.benchmarkRate,
		AcceptanceRateDelta:    acceptanceRate - c.benchmarkRate,
		Standing:               standing,
	}
}
