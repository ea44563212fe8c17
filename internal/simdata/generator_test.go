package simdata

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBuildWorld(t *testing.T) {
	Convey("Given a simulation config", t, func() {
		cfg := NewConfig()
		cfg.Publishers = 2
		cfg.JournalsPerPublisher = 3
		cfg.Reviewers = 5

		Convey("When building the world", func() {
			w := buildWorld(cfg)

			Convey("Then publishers, journals and reviewers match the config", func() {
				So(w.publishers, ShouldHaveLength, 2)
				So(w.reviewers, ShouldHaveLength, 5)
				for _, pub := range w.publishers {
					So(w.journals[pub], ShouldHaveLength, 3)
				}
			})

			Convey("And every journal has a latency profile", func() {
				for _, journals := range w.journals {
					for _, j := range journals {
						profile, ok := w.profiles[j]
						So(ok, ShouldBeTrue)
						So(profile, ShouldBeBetweenOrEqual, 0, profileCount-1)
					}
				}
			})
		})
	})
}

func TestGenerateSubmissions(t *testing.T) {
	Convey("Given a built world", t, func() {
		cfg := NewConfig()
		cfg.Publishers = 2
		cfg.JournalsPerPublisher = 2
		cfg.Submissions = 200
		w := buildWorld(cfg)

		Convey("When generating submissions", func() {
			payloads := generateSubmissions(cfg, w)

			Convey("Then the requested number is produced", func() {
				So(payloads, ShouldHaveLength, 200)
			})

			Convey("And every payload is well formed", func() {
				for _, p := range payloads {
					So(p.EventID, ShouldNotBeEmpty)
					So(p.SubmissionID, ShouldNotBeEmpty)
					So(w.journals[p.PublisherID], ShouldContain, p.JournalID)

					submittedAt, err := time.Parse(time.RFC3339, p.SubmittedAt)
					So(err, ShouldBeNil)

					if p.Decision == "" {
						So(p.DecidedAt, ShouldBeEmpty)
						continue
					}
					So(p.Decision, ShouldBeIn, "accepted", "rejected")
					decidedAt, err := time.Parse(time.RFC3339, p.DecidedAt)
					So(err, ShouldBeNil)
					So(decidedAt.After(submittedAt), ShouldBeTrue)
				}
			})

			Convey("And both decided and pending submissions occur", func() {
				decided := 0
				for _, p := range payloads {
					if p.Decision != "" {
						decided++
					}
				}
				So(decided, ShouldBeGreaterThan, 0)
				So(decided, ShouldBeLessThan, len(payloads))
			})
		})
	})
}

func TestGenerateReviews(t *testing.T) {
	Convey("Given a built world", t, func() {
		cfg := NewConfig()
		cfg.Publishers = 2
		cfg.JournalsPerPublisher = 2
		cfg.Reviewers = 10
		cfg.Reviews = 300
		w := buildWorld(cfg)

		Convey("When generating reviews", func() {
			payloads := generateReviews(cfg, w)

			Convey("Then the requested number is produced", func() {
				So(payloads, ShouldHaveLength, 300)
			})

			Convey("And every payload is well formed", func() {
				for _, p := range payloads {
					So(p.EventID, ShouldNotBeEmpty)
					So(w.reviewers, ShouldContain, p.ReviewerID)

					assignedAt, err := time.Parse(time.RFC3339, p.AssignedAt)
					So(err, ShouldBeNil)

					if p.CompletedAt != "" {
						So(p.RespondedAt, ShouldNotBeEmpty)
						completedAt, err := time.Parse(time.RFC3339, p.CompletedAt)
						So(err, ShouldBeNil)
						So(completedAt.After(assignedAt), ShouldBeTrue)
						So(p.QualityRating, ShouldNotBeNil)
						So(*p.QualityRating, ShouldBeBetweenOrEqual, ratingMin, ratingMax)
					}
				}
			})

			Convey("And some reviews never get a response", func() {
				unanswered := 0
				for _, p := range payloads {
					if p.RespondedAt == "" {
						unanswered++
					}
				}
				So(unanswered, ShouldBeGreaterThan, 0)
			})
		})
	})
}
