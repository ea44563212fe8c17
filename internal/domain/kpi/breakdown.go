package kpi

import (
	"math"
	"sort"
	"strconv"

	"github.com/openpress/scorecard/internal/domain/model"
	"github.com/openpress/scorecard/internal/domain/stats"
)

// JournalBreakdown summarizes decided submissions for one journal.
type JournalBreakdown struct {
	JournalID            string  `json:"journal_id"`
	Submissions          int     `json:"submissions"`
	AvgProcessingDays    int     `json:"avg_processing_days"`
	MedianProcessingDays int     `json:"median_processing_days"`
	AcceptanceRate       float64 `json:"acceptance_rate"`
}

// MonthlyPoint is one entry of the monthly submission trend.
type MonthlyPoint struct {
	Month             string `json:"month"` // YYYY-MM of the submission timestamp
	Submissions       int    `json:"submissions"`
	AvgProcessingDays int    `json:"avg_processing_days"`
	Label             string `json:"label"`
}

// byJournal partitions processed records by journal id and summarizes each
// partition. Results are ordered by journal id for deterministic output.
func byJournal(processed []model.ProcessedRecord) []JournalBreakdown {
	groups := make(map[string][]model.ProcessedRecord)
	for _, r := range processed {
		groups[r.JournalID] = append(groups[r.JournalID], r)
	}

	out := make([]JournalBreakdown, 0, len(groups))
	for journalID, recs := range groups {
		days := make([]float64, len(recs))
		accepted := 0
		for i, r := range recs {
			days[i] = r.ProcessingDays
			if r.Decision == model.DecisionAccepted {
				accepted++
			}
		}
		out = append(out, JournalBreakdown{
			JournalID:            journalID,
			Submissions:          len(recs),
			AvgProcessingDays:    int(math.Round(stats.Mean(days))),
			MedianProcessingDays: int(math.Round(stats.Median(days))),
			AcceptanceRate:       100 * float64(accepted) / float64(len(recs)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JournalID < out[j].JournalID })
	return out
}

// monthlyTrend partitions processed records by the calendar month of the
// submission timestamp (not the decision timestamp) and emits an ascending
// series keyed by YYYY-MM.
func monthlyTrend(processed []model.ProcessedRecord) []MonthlyPoint {
	groups := make(map[string][]float64)
	for _, r := range processed {
		key := r.SubmittedAt.UTC().Format("2006-01")
		groups[key] = append(groups[key], r.ProcessingDays)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]MonthlyPoint, 0, len(keys))
	for _, k := range keys {
		days := groups[k]
		out = append(out, MonthlyPoint{
			Month:             k,
			Submissions:       len(days),
			AvgProcessingDays: int(math.Round(stats.Mean(days))),
			Label:             strconv.Itoa(len(days)) + " submissions",
		})
	}
	return out
}
