// Package bus provides the in-process publish/subscribe registry that
// pushes freshly computed analytics to active dashboard sessions.
package bus

import (
	"context"
	"sync"

	"github.com/openpress/scorecard/internal/domain/model"
	"github.com/openpress/scorecard/pkg/logger"
	"github.com/openpress/scorecard/pkg/metrics"
)

// Callback receives events for one publisher subscription.
type Callback func(event model.AnalyticsEvent)

// UnsubscribeFunc removes the subscription it was returned for. Safe to
// call more than once.
type UnsubscribeFunc func()

// Bus delivers analytics events to subscribers keyed by publisher id.
// Delivery is synchronous and in subscription order on the emitting
// goroutine; there is no queuing, persistence, or redelivery.
type Bus interface {
	Subscribe(publisherID string, cb Callback) UnsubscribeFunc
	Emit(ctx context.Context, publisherID string, event model.AnalyticsEvent)

	// SubscriberCount returns the number of live subscriptions for a
	// publisher id.
	SubscriberCount(publisherID string) int
}

type subscription struct {
	id int64
	cb Callback
}

// EventBus implements Bus. The registry is constructed and owned by the
// composition root, not a lazily-initialized singleton, so its lifecycle is
// explicit and testable in isolation.
type EventBus struct {
	mu     sync.Mutex
	subs   map[string][]subscription
	nextID int64
	total  int

	logger logger.Logger
}

// NewEventBus creates an empty event bus.
func NewEventBus(opts ...Option) *EventBus {
	b := &EventBus{
		subs: make(map[string][]subscription),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logger.Get().Named("bus")
	}
	return b
}

// Subscribe registers cb for a publisher id and returns its unsubscribe
// function. The publisher's subscriber set is removed entirely when the
// last subscriber unsubscribes.
func (b *EventBus) Subscribe(publisherID string, cb Callback) UnsubscribeFunc {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[publisherID] = append(b.subs[publisherID], subscription{id: id, cb: cb})
	b.total++
	metrics.UpdateBusSubscribers(b.total)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.unsubscribe(publisherID, id)
		})
	}
}

func (b *EventBus) unsubscribe(publisherID string, id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[publisherID]
	for i, s := range subs {
		if s.id == id {
			subs = append(subs[:i], subs[i+1:]...)
			b.total--
			break
		}
	}
	if len(subs) == 0 {
		delete(b.subs, publisherID)
	} else {
		b.subs[publisherID] = subs
	}
	metrics.UpdateBusSubscribers(b.total)
}

// Emit synchronously invokes every currently subscribed callback for the
// publisher id, in subscription order. The subscriber slice is copied
// before iteration so a callback may unsubscribe itself mid-emission.
func (b *EventBus) Emit(ctx context.Context, publisherID string, event model.AnalyticsEvent) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs[publisherID]))
	copy(subs, b.subs[publisherID])
	b.mu.Unlock()

	if len(subs) == 0 {
		return
	}

	metrics.RecordBusEventPublished(event.Type)
	for _, s := range subs {
		b.invoke(ctx, s.cb, event)
	}
}

// invoke shields the bus from a panicking subscriber; one bad callback must
// not starve the rest of the set.
func (b *EventBus) invoke(ctx context.Context, cb Callback, event model.AnalyticsEvent) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordErrorByComponent("bus", "subscriber_panic")
			b.logger.Error(ctx, "subscriber panicked",
				logger.String("event_type", event.Type),
				logger.Any("panic", r),
			)
		}
	}()
	cb(event)
}

// SubscriberCount returns the number of live subscriptions for a publisher.
func (b *EventBus) SubscriberCount(publisherID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[publisherID])
}
