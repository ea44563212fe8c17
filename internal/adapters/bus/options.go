package bus

import "github.com/openpress/scorecard/pkg/logger"

// Option applies a configuration option to the EventBus.
type Option func(*EventBus)

// WithLogger sets a custom logger for the bus.
func WithLogger(l logger.Logger) Option {
	return func(b *EventBus) {
		if l != nil {
			b.logger = l
		}
	}
}
