package reviewer

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithMinSample sets the minimum completed reviews required for ranking.
func WithMinSample(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.minSample = n
		}
	}
}

// WithOverallLimit caps the overall efficiency list.
func WithOverallLimit(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.overallLimit = n
		}
	}
}

// WithPerformerLimit caps the top-performer and underperformer lists.
func WithPerformerLimit(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.performerLimit = n
		}
	}
}

// WithResponseRateFloor sets the response rate below which a reviewer is
// flagged as underperforming.
func WithResponseRateFloor(rate float64) Option {
	return func(r *Ranker) {
		if rate > 0 {
			r.responseRateFloor = rate
		}
	}
}

// WithQualityFloor sets the quality score below which a reviewer is flagged
// as underperforming.
func WithQualityFloor(score float64) Option {
	return func(r *Ranker) {
		if score > 0 {
			r.qualityFloor = score
		}
	}
}
