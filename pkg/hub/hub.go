// Package hub broadcasts state-change events to a dynamic subscriber set.
//
// Delivery is synchronous and in subscription order. A publish fixes its
// recipient set the moment it begins: subscribe and unsubscribe calls made
// while a publish is in flight, including from inside a delivery callback,
// take effect for later publishes only.
package hub

import (
	"context"
	"sync"
	"time"
)

// Event is a state-change notification.
type Event struct {
	// Type categorizes the event, dotted by convention ("pipeline.start").
	Type string
	// Source identifies the component that published the event.
	Source string
	// Time records when the event was published.
	Time time.Time
	// Data carries event metadata.
	Data map[string]any
}

// Common event types published by the pipeline runner.
const (
	EventPipelineStart    = "pipeline.start"
	EventPipelineComplete = "pipeline.complete"
	EventOperationStart   = "operation.start"
	EventOperationDone    = "operation.complete"
	EventOperationFailed  = "operation.failed"
	EventChainHandled     = "chain.handled"
	EventChainUnhandled   = "chain.unhandled"
)

// Subscriber receives published events. A subscriber may call back into the
// hub (subscribe, unsubscribe, even publish) from within its callback.
type Subscriber func(ctx context.Context, ev Event)

// Subscription is the handle returned by Subscribe, used to unsubscribe and
// to identify un-notified subscribers in a partial delivery.
type Subscription struct {
	fn Subscriber
}

// Delivery reports the outcome of a single Publish call.
type Delivery struct {
	// Delivered counts subscribers that were invoked.
	Delivered int
	// Skipped lists subscribers that were not invoked because the publish
	// context expired first. Best-effort delivery within a bound is the
	// contract, so this is a result, not an error.
	Skipped []*Subscription
}

// Hub maintains an ordered subscriber set. All methods are safe for
// concurrent use, and no deadlock occurs when a subscriber mutates the set
// during its own notification.
type Hub struct {
	mu   sync.Mutex
	subs []*Subscription
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{}
}

// Subscribe registers fn and returns its handle. Delivery order follows
// subscription order.
func (h *Hub) Subscribe(fn Subscriber) *Subscription {
	s := &Subscription{fn: fn}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs = append(h.subs, s)
	return s
}

// Unsubscribe removes s from the set. Removing a handle that is already
// gone is a no-op. An in-flight publish that snapshotted s still delivers
// its current event to s; s receives no events from later publishes.
func (h *Hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, sub := range h.subs {
		if sub == s {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			return
		}
	}
}

// Len returns the current number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Publish delivers ev to every subscriber present when the call began, in
// subscription order, and returns once all of them ran or ctx expired.
// Once ctx is done, the remaining subscribers are skipped and reported in
// the returned Delivery.
func (h *Hub) Publish(ctx context.Context, ev Event) Delivery {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	// Snapshot under the lock, deliver outside it, so callbacks can
	// re-enter the hub without deadlocking.
	h.mu.Lock()
	snapshot := make([]*Subscription, len(h.subs))
	copy(snapshot, h.subs)
	h.mu.Unlock()

	var d Delivery
	for i, s := range snapshot {
		if ctx.Err() != nil {
			d.Skipped = append(d.Skipped, snapshot[i:]...)
			break
		}
		s.fn(ctx, ev)
		d.Delivered++
	}
	return d
}
