package hub

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_SubscriptionOrder(t *testing.T) {
	h := New()
	var order []string
	for _, name := range []string{"s1", "s2", "s3"} {
		h.Subscribe(func(ctx context.Context, ev Event) {
			order = append(order, name)
		})
	}

	d := h.Publish(context.Background(), Event{Type: "test"})
	assert.Equal(t, 3, d.Delivered)
	assert.Empty(t, d.Skipped)
	assert.Equal(t, []string{"s1", "s2", "s3"}, order)
}

func TestPublish_StampsTime(t *testing.T) {
	h := New()
	var got Event
	h.Subscribe(func(ctx context.Context, ev Event) { got = ev })
	h.Publish(context.Background(), Event{Type: "test"})
	assert.False(t, got.Time.IsZero())
}

func TestUnsubscribe_DuringPublish_SnapshotSemantics(t *testing.T) {
	h := New()
	var events1, events2, events3 []string

	h.Subscribe(func(ctx context.Context, ev Event) {
		events1 = append(events1, ev.Type)
	})
	var s3 *Subscription
	h.Subscribe(func(ctx context.Context, ev Event) {
		events2 = append(events2, ev.Type)
		if ev.Type == "first" {
			h.Unsubscribe(s3)
		}
	})
	s3 = h.Subscribe(func(ctx context.Context, ev Event) {
		events3 = append(events3, ev.Type)
	})

	ctx := context.Background()
	d := h.Publish(ctx, Event{Type: "first"})
	// S3 was in the snapshot, so it still receives the in-progress event.
	assert.Equal(t, 3, d.Delivered)
	assert.Equal(t, []string{"first"}, events3)

	h.Publish(ctx, Event{Type: "second"})
	assert.Equal(t, []string{"first", "second"}, events1)
	assert.Equal(t, []string{"first", "second"}, events2)
	// S3 receives nothing after the publish that observed the unsubscribe.
	assert.Equal(t, []string{"first"}, events3)
}

func TestSubscribe_DuringPublish_NotDeliveredSamePublish(t *testing.T) {
	h := New()
	var lateEvents []string
	h.Subscribe(func(ctx context.Context, ev Event) {
		if ev.Type == "first" {
			h.Subscribe(func(ctx context.Context, ev Event) {
				lateEvents = append(lateEvents, ev.Type)
			})
		}
	})

	ctx := context.Background()
	d := h.Publish(ctx, Event{Type: "first"})
	assert.Equal(t, 1, d.Delivered)
	assert.Empty(t, lateEvents)

	h.Publish(ctx, Event{Type: "second"})
	assert.Equal(t, []string{"second"}, lateEvents)
}

func TestUnsubscribe_Idempotent(t *testing.T) {
	h := New()
	s := h.Subscribe(func(ctx context.Context, ev Event) {})
	h.Unsubscribe(s)
	h.Unsubscribe(s)
	assert.Equal(t, 0, h.Len())
}

func TestUnsubscribe_Self(t *testing.T) {
	h := New()
	count := 0
	var s *Subscription
	s = h.Subscribe(func(ctx context.Context, ev Event) {
		count++
		h.Unsubscribe(s)
	})

	ctx := context.Background()
	h.Publish(ctx, Event{Type: "a"})
	h.Publish(ctx, Event{Type: "b"})
	assert.Equal(t, 1, count)
}

func TestPublish_DeadlinePartialDelivery(t *testing.T) {
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	delivered := 0
	h.Subscribe(func(ctx context.Context, ev Event) {
		delivered++
		cancel() // the deadline elapses while s1 runs
	})
	s2 := h.Subscribe(func(ctx context.Context, ev Event) { delivered++ })
	s3 := h.Subscribe(func(ctx context.Context, ev Event) { delivered++ })

	d := h.Publish(ctx, Event{Type: "slow"})
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, d.Delivered)
	require.Len(t, d.Skipped, 2)
	assert.Same(t, s2, d.Skipped[0])
	assert.Same(t, s3, d.Skipped[1])
}

func TestPublish_ExpiredContextSkipsAll(t *testing.T) {
	h := New()
	s := h.Subscribe(func(ctx context.Context, ev Event) {
		t.Fatal("subscriber must not run with an expired context")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := h.Publish(ctx, Event{Type: "late"})
	assert.Equal(t, 0, d.Delivered)
	require.Len(t, d.Skipped, 1)
	assert.Same(t, s, d.Skipped[0])
}

func TestConcurrentSubscribeAndPublish(t *testing.T) {
	h := New()
	var mu sync.Mutex
	received := 0

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.Subscribe(func(ctx context.Context, ev Event) {
				mu.Lock()
				received++
				mu.Unlock()
			})
		}()
		go func() {
			defer wg.Done()
			h.Publish(context.Background(), Event{Type: "tick"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, h.Len())
}
