package simdata

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Journal latency profiles. Each journal is assigned one; submission
// processing times are drawn from it so per-journal breakdowns differ
// visibly.
const (
	profileFast = iota
	profileNormal
	profileSlow
	profileBacklogged
	profileCount
)

// Distribution parameters per profile, in days.
var profileRanges = [profileCount][2]float64{
	profileFast:       {15, 45},
	profileNormal:     {40, 95},
	profileSlow:       {80, 140},
	profileBacklogged: {120, 240},
}

const (
	acceptedRatio = 0.25
	rejectedRatio = 0.65 // remainder stays pending (in-flight)
	ratingMin     = 1.0
	ratingMax     = 5.0
)

// submissionPayload mirrors the POST /submissions JSON schema.
type submissionPayload struct {
	EventID      string `json:"event_id"`
	SubmissionID string `json:"submission_id"`
	JournalID    string `json:"journal_id"`
	PublisherID  string `json:"publisher_id"`
	SubmittedAt  string `json:"submitted_at"`
	DecidedAt    string `json:"decided_at,omitempty"`
	Decision     string `json:"decision,omitempty"`
}

// reviewPayload mirrors the POST /reviews JSON schema.
type reviewPayload struct {
	EventID       string   `json:"event_id"`
	ReviewerID    string   `json:"reviewer_id"`
	ReviewerName  string   `json:"reviewer_name"`
	PublisherID   string   `json:"publisher_id"`
	SubmissionID  string   `json:"submission_id"`
	AssignedAt    string   `json:"assigned_at"`
	RespondedAt   string   `json:"responded_at,omitempty"`
	CompletedAt   string   `json:"completed_at,omitempty"`
	QualityRating *float64 `json:"quality_rating,omitempty"`
}

type world struct {
	publishers []string
	journals   map[string][]string // publisher -> journal ids
	profiles   map[string]int      // journal -> latency profile
	reviewers  []string
}

func buildWorld(cfg *Config) *world {
	w := &world{
		journals: make(map[string][]string),
		profiles: make(map[string]int),
	}
	for p := 0; p < cfg.Publishers; p++ {
		pubID := fmt.Sprintf("pub-%02d", p+1)
		w.publishers = append(w.publishers, pubID)
		for j := 0; j < cfg.JournalsPerPublisher; j++ {
			journalID := fmt.Sprintf("%s-journal-%02d", pubID, j+1)
			w.journals[pubID] = append(w.journals[pubID], journalID)
			w.profiles[journalID] = rand.Intn(profileCount)
		}
	}
	for r := 0; r < cfg.Reviewers; r++ {
		w.reviewers = append(w.reviewers, uuid.New().String())
	}
	return w
}

// generateSubmissions produces synthetic submission payloads spread over
// the past year.
func generateSubmissions(cfg *Config, w *world) []submissionPayload {
	now := time.Now().UTC()
	out := make([]submissionPayload, 0, cfg.Submissions)

	for i := 0; i < cfg.Submissions; i++ {
		pubID := w.publishers[rand.Intn(len(w.publishers))]
		journals := w.journals[pubID]
		journalID := journals[rand.Intn(len(journals))]

		submittedAt := now.AddDate(0, 0, -rand.Intn(365)-30)
		p := submissionPayload{
			EventID:      uuid.New().String(),
			SubmissionID: uuid.New().String(),
			JournalID:    journalID,
			PublisherID:  pubID,
			SubmittedAt:  submittedAt.Format(time.RFC3339),
		}

		// Draw decision outcome; pending submissions stay undecided.
		switch roll := rand.Float64(); {
		case roll < acceptedRatio:
			p.Decision = "accepted"
		case roll < acceptedRatio+rejectedRatio:
			p.Decision = "rejected"
		}
		if p.Decision != "" {
			bounds := profileRanges[w.profiles[journalID]]
			days := bounds[0] + rand.Float64()*(bounds[1]-bounds[0])
			decidedAt := submittedAt.Add(time.Duration(days * 24 * float64(time.Hour)))
			p.DecidedAt = decidedAt.Format(time.RFC3339)
		}

		out = append(out, p)
	}
	return out
}

// generateReviews produces synthetic review payloads referencing the
// generated reviewer pool.
func generateReviews(cfg *Config, w *world) []reviewPayload {
	now := time.Now().UTC()
	out := make([]reviewPayload, 0, cfg.Reviews)

	for i := 0; i < cfg.Reviews; i++ {
		pubID := w.publishers[rand.Intn(len(w.publishers))]
		reviewerIdx := rand.Intn(len(w.reviewers))
		assignedAt := now.AddDate(0, 0, -rand.Intn(365)-14)

		p := reviewPayload{
			EventID:      uuid.New().String(),
			ReviewerID:   w.reviewers[reviewerIdx],
			ReviewerName: fmt.Sprintf("Reviewer %02d", reviewerIdx+1),
			PublisherID:  pubID,
			SubmissionID: uuid.New().String(),
			AssignedAt:   assignedAt.Format(time.RFC3339),
		}

		// Most reviewers respond; a tail never does.
		if rand.Float64() < 0.85 {
			respondedAt := assignedAt.Add(time.Duration(rand.Intn(7*24)) * time.Hour)
			p.RespondedAt = respondedAt.Format(time.RFC3339)

			if rand.Float64() < 0.8 {
				completedAt := respondedAt.Add(time.Duration(rand.Intn(30*24)+24) * time.Hour)
				p.CompletedAt = completedAt.Format(time.RFC3339)
				rating := ratingMin + rand.Float64()*(ratingMax-ratingMin)
				p.QualityRating = &rating
			}
		}

		out = append(out, p)
	}
	return out
}
