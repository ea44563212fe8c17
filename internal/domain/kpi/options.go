package kpi

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithMinReviewerSample sets the minimum completed reviews a reviewer needs
// before appearing in performance rankings.
func WithMinReviewerSample(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.minReviewerSample = n
		}
	}
}

// WithBenchmarkProcessingDays sets the industry processing-time reference.
func WithBenchmarkProcessingDays(days float64) Option {
	return func(c *Calculator) {
		if days > 0 {
			c.benchmarkDays = days
		}
	}
}

// WithBenchmarkAcceptanceRate sets the industry acceptance-rate reference.
func WithBenchmarkAcceptanceRate(rate float64) Option {
	return func(c *Calculator) {
		if rate > 0 {
			c.benchmarkRate = rate
		}
	}
}

// WithVarianceAlertThreshold sets the processing-time variance above which
// a timeline-standardization recommendation is issued.
func WithVarianceAlertThreshold(v float64) Option {
	return func(c *Calculator) {
		if v >= 0 {
			c.varianceThreshold = v
		}
	}
}
