package kpi_test

import (
	"testing"
	"time"

	"github.com/openpress/scorecard/internal/domain/kpi"
	"github.com/openpress/scorecard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// uniformBatch builds n decided submissions with identical processing times,
// the first `accepted` of them accepted.
func uniformBatch(n, accepted int, days float64) []model.SubmissionRecord {
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.SubmissionRecord, 0, n)
	for i := 0; i < n; i++ {
		decision := model.DecisionRejected
		if i < accepted {
			decision = model.DecisionAccepted
		}
		out = append(out, submission("j-1", base.AddDate(0, 0, i), days, decision))
	}
	return out
}

func TestGrading(t *testing.T) {
	Convey("Given a calculator with default thresholds", t, func() {
		calc := kpi.NewCalculator()

		// One of four accepted keeps the acceptance rate at the ideal 25%.
		gradeAt := func(days float64) string {
			return calc.Calculate("pub-1", uniformBatch(4, 1, days)).Grade
		}

		Convey("When the acceptance rate is ideal", func() {
			Convey("Then faster processing earns a higher grade", func() {
				So(gradeAt(50), ShouldEqual, "A")
				So(gradeAt(70), ShouldEqual, "A")
				So(gradeAt(100), ShouldEqual, "B")
				So(gradeAt(150), ShouldEqual, "C")
			})

			Convey("And the grade is monotone in processing time", func() {
				order := map[string]int{"A": 4, "B": 3, "C": 2, "D": 1, "F": 0}
				prev := order[gradeAt(10)]
				for _, days := range []float64{55, 65, 85, 95, 115, 125, 200} {
					cur := order[gradeAt(days)]
					So(cur, ShouldBeLessThanOrEqualTo, prev)
					prev = cur
				}
			})
		})

		Convey("When the acceptance rate is far outside the healthy band", func() {
			// Half accepted, slow processing: worst score on both components.
			result := calc.Calculate("pub-1", uniformBatch(4, 2, 150))
			So(result.Grade, ShouldEqual, "F")
		})

		Convey("When the acceptance rate is healthy but not ideal", func() {
			// 1 of 3 accepted: 33.3%, inside the healthy band.
			result := calc.Calculate("pub-1", uniformBatch(3, 1, 100))
			So(result.Grade, ShouldEqual, "C")
		})
	})
}

func TestRecommendations(t *testing.T) {
	Convey("Given a calculator with default thresholds", t, func() {
		calc := kpi.NewCalculator()

		Convey("When processing is slow", func() {
			result := calc.Calculate("pub-1", uniformBatch(4, 1, 120))

			Convey("Then both slow-processing recommendations are present", func() {
				So(result.Recommendations, ShouldContain,
					"Streamline the review process to reduce submission-to-decision time")
				So(result.Recommendations, ShouldContain,
					"Adopt automated reviewer assignment to cut time to first response")
			})
		})

		Convey("When the acceptance rate is very low", func() {
			result := calc.Calculate("pub-1", uniformBatch(10, 1, 60))
			So(result.Recommendations, ShouldContain,
				"Review submission guidelines to improve incoming manuscript quality")
		})

		Convey("When the acceptance rate is very high", func() {
			result := calc.Calculate("pub-1", uniformBatch(10, 5, 60))
			So(result.Recommendations, ShouldContain,
				"Raise editorial standards; the acceptance rate is unusually high")
		})

		Convey("When processing times vary widely", func() {
			base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
			records := []model.SubmissionRecord{
				submission("j-1", base, 10, model.DecisionAccepted),
				submission("j-1", base.AddDate(0, 0, 1), 170, model.DecisionRejected),
				submission("j-1", base.AddDate(0, 0, 2), 10, model.DecisionRejected),
				submission("j-1", base.AddDate(0, 0, 3), 170, model.DecisionRejected),
			}
			result := calc.Calculate("pub-1", records)
			So(result.Recommendations, ShouldContain,
				"Standardize review timelines; decision times vary widely across submissions")
		})

		Convey("When everything is within healthy ranges", func() {
			result := calc.Calculate("pub-1", uniformBatch(4, 1, 60))
			So(result.Recommendations, ShouldBeEmpty)
		})

		Convey("When a custom variance threshold is configured", func() {
			strict := kpi.NewCalculator(kpi.WithVarianceAlertThreshold(1))
			result := strict.Calculate("pub-1", uniformBatch(4, 1, 60))

			Convey("Then identical processing times still stay quiet", func() {
				So(result.Recommendations, ShouldBeEmpty)
			})
		})
	})
}
