package kpi

import (
	"github.com/openpress/scorecard/internal/domain/model"
)

const hoursPerDay = 24

// Extraction is the output of projecting raw submissions into processing
// metrics. Anomalous counts records whose decision timestamp precedes the
// submission timestamp; those are excluded from every statistic and
// surfaced as a data-quality signal instead.
type Extraction struct {
	Processed []model.ProcessedRecord
	Anomalous int
}

// Extract projects each decided submission into a ProcessedRecord with a
// floating-point day difference. Undecided submissions are in-flight and
// excluded. No rounding happens at this stage.
func Extract(records []model.SubmissionRecord) Extraction {
	out := Extraction{
		Processed: make([]model.ProcessedRecord, 0, len(records)),
	}
	for _, r := range records {
		if !r.Decided() {
			continue
		}
		days := r.DecidedAt.Sub(r.SubmittedAt).Hours() / hoursPerDay
		if days < 0 {
			out.Anomalous++
			continue
		}
		out.Processed = append(out.Processed, model.ProcessedRecord{
			SubmissionID:   r.ID,
			JournalID:      r.JournalID,
			SubmittedAt:    r.SubmittedAt,
			Decision:       r.Decision,
			ProcessingDays: days,
		})
	}
	return out
}
