package kpi

import (
	"github.com/openpress/scorecard/internal/domain/stats"
)

// Grading score components. The baseline represents factors the model does
// not capture; an acknowledged simplification.
const (
	fastProcessingDays     = 60
	normalProcessingDays   = 90
	slowProcessingDays     = 120
	processingPointsBest   = 40
	processingPointsGood   = 30
	processingPointsFair   = 20
	processingPointsPoor   = 10
	acceptanceIdealLow     = 20
	acceptanceIdealHigh    = 30
	acceptanceHealthyLow   = 15
	acceptanceHealthyHigh  = 35
	acceptancePointsIdeal  = 30
	acceptancePointsGood   = 25
	acceptancePointsOff    = 15
	baselinePoints         = 30
	gradeACutoff           = 90
	gradeBCutoff           = 80
	gradeCCutoff           = 70
	gradeDCutoff           = 60
)

// Recommendation thresholds.
const (
	slowAvgDaysThreshold    = 90
	lowAcceptanceThreshold  = 15
	highAcceptanceThreshold = 40
)

// NoDataRecommendation is the single recommendation returned for the
// empty-data sentinel result.
const NoDataRecommendation = "No data available for analysis"

// gradeFor maps average processing time and acceptance rate to a letter
// grade via a 100-point score.
func gradeFor(avgProcessingDays, acceptanceRate float64) string {
	score := baselinePoints

	switch {
	case avgProcessingDays <= fastProcessingDays:
		score += processingPointsBest
	case avgProcessingDays <= normalProcessingDays:
		score += processingPointsGood
	case avgProcessingDays <= slowProcessingDays:
		score += processingPointsFair
	default:
		score += processingPointsPoor
	}

	switch {
	case acceptanceRate >= acceptanceIdealLow && acceptanceRate <= acceptanceIdealHigh:
		score += acceptancePointsIdeal
	case acceptanceRate >= acceptanceHealthyLow && acceptanceRate <= acceptanceHealthyHigh:
		score += acceptancePointsGood
	default:
		score += acceptancePointsOff
	}

	switch {
	case score >= gradeACutoff:
		return "A"
	case score >= gradeBCutoff:
		return "B"
	case score >= gradeCCutoff:
		return "C"
	case score >= gradeDCutoff:
		return "D"
	default:
		return "F"
	}
}

// recommendations produces qualitative guidance from threshold rules. Rules
// are additive; a result can trigger several at once.
func recommendations(avgDays, acceptanceRate float64, processingDays []float64, varianceThreshold float64) []string {
	recs := make([]string, 0, 4)

	if avgDays > slowAvgDaysThreshold {
		recs = append(recs,
			"Streamline the review process to reduce submission-to-decision time",
			"Adopt automated reviewer assignment to cut time to first response",
		)
	}
	if acceptanceRate < lowAcceptanceThreshold {
		recs = append(recs, "Review submission guidelines to improve incoming manuscript quality")
	}
	if acceptanceRate > highAcceptanceThreshold {
		recs = append(recs, "Raise editorial standards; the acceptance rate is unusually high")
	}
	if len(processingDays) > 0 && stats.Variance(processingDays) > varianceThreshold {
		recs = append(recs, "Standardize review timelines; decision times vary widely across submissions")
	}

	return recs
}
