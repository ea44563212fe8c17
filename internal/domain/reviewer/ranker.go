// Package reviewer aggregates per-reviewer efficiency statistics and ranks
// top and bottom performers.
package reviewer

import (
	"sort"

	"github.com/openpress/scorecard/internal/domain/model"
	"github.com/openpress/scorecard/internal/domain/stats"
)

// Efficiency is the derived per-reviewer summary.
type Efficiency struct {
	ReviewerID        string  `json:"reviewer_id"`
	ReviewerName      string  `json:"reviewer_name"`
	ResponseRate      float64 `json:"response_rate"`       // percentage of assignments responded to
	AverageReviewDays float64 `json:"average_review_days"` // 0 when no completed reviews
	TotalReviews      int     `json:"total_reviews"`       // completed reviews
	QualityScore      float64 `json:"quality_score"`       // 0 when no ratings
}

// CompositeScore is the quality-weighted-by-reliability score used only for
// top-performer ranking.
func (e Efficiency) CompositeScore() float64 {
	return e.QualityScore * e.ResponseRate / 100
}

// Report groups the three ranked views over one set of review records.
type Report struct {
	Overall         []Efficiency `json:"overall"`
	TopPerformers   []Efficiency `json:"top_performers"`
	Underperformers []Efficiency `json:"underperformers"`
}

// aggregate accumulates raw observations for one reviewer. Built by folding
// over review records; lives only for the duration of one Rank call.
type aggregate struct {
	reviewerID   string
	reviewerName string
	assigned     int
	responded    int
	completed    int
	reviewDays   []float64
	ratings      []float64
}

// Ranking policy thresholds. The sample floor keeps reviewers with too few
// observations out of the ranked lists.
const (
	defaultMinSample        = 3
	defaultOverallLimit     = 20
	defaultPerformerLimit   = 5
	defaultResponseRateFloor = 70
	defaultQualityFloor      = 3
)

// Ranker computes reviewer efficiency reports.
type Ranker struct {
	minSample         int
	overallLimit      int
	performerLimit    int
	responseRateFloor float64
	qualityFloor      float64
}

// NewRanker creates a Ranker with default policy.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{
		minSample:         defaultMinSample,
		overallLimit:      defaultOverallLimit,
		performerLimit:    defaultPerformerLimit,
		responseRateFloor: defaultResponseRateFloor,
		qualityFloor:      defaultQualityFloor,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank folds review records into per-reviewer aggregates and derives the
// three ranked views. Records are assumed pre-filtered to one publisher.
func (r *Ranker) Rank(reviews []model.ReviewRecord) Report {
	byReviewer := make(map[string]*aggregate)
	order := make([]string, 0)

	for _, rev := range reviews {
		agg, ok := byReviewer[rev.ReviewerID]
		if !ok {
			agg = &aggregate{reviewerID: rev.ReviewerID, reviewerName: rev.ReviewerName}
			byReviewer[rev.ReviewerID] = agg
			order = append(order, rev.ReviewerID)
		}
		agg.assigned++
		if rev.RespondedAt != nil {
			agg.responded++
		}
		if days, ok := rev.ReviewDays(); ok {
			agg.completed++
			agg.reviewDays = append(agg.reviewDays, days)
		}
		if rev.QualityRating != nil {
			agg.ratings = append(agg.ratings, *rev.QualityRating)
		}
	}

	all := make([]Efficiency, 0, len(order))
	for _, id := range order {
		all = append(all, byReviewer[id].derive())
	}

	return Report{
		Overall:         r.overall(all),
		TopPerformers:   r.topPerformers(all),
		Underperformers: r.underperformers(all),
	}
}

func (a *aggregate) derive() Efficiency {
	e := Efficiency{
		ReviewerID:   a.reviewerID,
		ReviewerName: a.reviewerName,
		TotalReviews: a.completed,
	}
	if a.assigned > 0 {
		e.ResponseRate = 100 * float64(a.responded) / float64(a.assigned)
	}
	if len(a.reviewDays) > 0 {
		e.AverageReviewDays = stats.Mean(a.reviewDays)
	}
	if len(a.ratings) > 0 {
		e.QualityScore = stats.Mean(a.ratings)
	}
	return e
}

// overall is every reviewer sorted descending by quality score, truncated.
func (r *Ranker) overall(all []Efficiency) []Efficiency {
	out := make([]Efficiency, len(all))
	copy(out, all)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].QualityScore != out[j].QualityScore {
			return out[i].QualityScore > out[j].QualityScore
		}
		return out[i].ReviewerID < out[j].ReviewerID
	})
	return truncate(out, r.overallLimit)
}

// topPerformers filters by the sample floor and sorts descending by the
// composite score.
func (r *Ranker) topPerformers(all []Efficiency) []Efficiency {
	out := make([]Efficiency, 0, len(all))
	for _, e := range all {
		if e.TotalReviews >= r.minSample {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].CompositeScore(), out[j].CompositeScore()
		if si != sj {
			return si > sj
		}
		return out[i].ReviewerID < out[j].ReviewerID
	})
	return truncate(out, r.performerLimit)
}

// underperformers filters by the sample floor plus a low response rate or
// low quality score, sorted ascending by quality score so the weakest
// reviewers surface first.
func (r *Ranker) underperformers(all []Efficiency) []Efficiency {
	out := make([]Efficiency, 0, len(all))
	for _, e := range all {
		if e.TotalReviews < r.minSample {
			continue
		}
		if e.ResponseRate < r.responseRateFloor || e.QualityScore < r.qualityFloor {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].QualityScore != out[j].QualityScore {
			return out[i].QualityScore < out[j].QualityScore
		}
		return out[i].ReviewerID < out[j].ReviewerID
	})
	return truncate(out, r.performerLimit)
}

func truncate(xs []Efficiency, n int) []Efficiency {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}
