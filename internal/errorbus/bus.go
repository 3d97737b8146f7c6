// Package errorbus fans unexpected errors out to observers such as the
// logger and the metrics counter.
package errorbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Event is one unexpected error and where it surfaced.
type Event struct {
	Source string // e.g. "POST /users"
	Err    error
}

type Subscriber func(ctx context.Context, e Event)

// Bus delivers each published event to every subscriber, synchronously and
// in subscription order. The zero value is not usable; call New.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]Subscriber
	order  []uint64
	nextID uint64
	closed bool
}

func New() *Bus {
	return &Bus{subs: make(map[uint64]Subscriber)}
}

// Subscribe registers fn and returns a func that removes it. Subscribing to
// a closed bus is a no-op.
func (b *Bus) Subscribe(fn Subscriber) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers e. Nil errors and publishes after Close are dropped.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if e.Err == nil {
		return
	}
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	subs := make([]Subscriber, 0, len(b.order))
	for _, id := range b.order {
		subs = append(subs, b.subs[id])
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(ctx, e)
	}
}

// Close drops every subscriber and makes further publishes no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = map[uint64]Subscriber{}
	b.order = nil
}

// LogSubscriber writes each event at error level. The logger's context
// handler adds the request ID.
func LogSubscriber(logger *slog.Logger) Subscriber {
	logger = logger.With("component", "errorbus")
	return func(ctx context.Context, e Event) {
		logger.ErrorContext(ctx, "unexpected error", "source", e.Source, "error", e.Err)
	}
}

// CounterSubscriber increments counter labelled by source.
func CounterSubscriber(counter *prometheus.CounterVec) Subscriber {
	return func(_ context.Context, e Event) {
		counter.WithLabelValues(e.Source).Inc()
	}
}
