// Package chain implements an ordered, short-circuiting sequence of
// predicate/action handlers. A request walks the chain from the head; the
// first handler whose predicate matches runs its action and stops the walk.
// An exhausted chain is a normal outcome, not an error; callers decide
// whether an unhandled request matters.
package chain

import (
	"context"
	"sync"
)

// Predicate reports whether a handler can satisfy a request.
type Predicate[Req any] func(req Req) bool

// Action satisfies a request the predicate accepted.
type Action[Req, Res any] func(ctx context.Context, req Req) (Res, error)

// Handler is one link in a chain: a predicate paired with an action.
type Handler[Req, Res any] struct {
	// Name identifies the handler in logs and events.
	Name string
	// Match decides whether Run should see the request.
	Match Predicate[Req]
	// Run produces the result for a matched request.
	Run Action[Req, Res]
}

// Chain is an append-only handler sequence. Append and Handle are safe to
// call concurrently: a Handle that is already walking the chain either sees
// a newly appended tail in full or not at all, never a partially linked
// state.
type Chain[Req, Res any] struct {
	mu       sync.RWMutex
	handlers []Handler[Req, Res]
}

// New creates an empty chain.
func New[Req, Res any]() *Chain[Req, Res] {
	return &Chain[Req, Res]{}
}

// Append adds h to the end of the chain. Relative order of existing
// handlers never changes.
func (c *Chain[Req, Res]) Append(h Handler[Req, Res]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
}

// Len returns the number of handlers currently in the chain.
func (c *Chain[Req, Res]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handlers)
}

// Handle walks the chain from its head. The first handler whose predicate
// matches runs and the walk stops; later handlers never see a satisfied
// request. If no predicate matches, Handle returns the zero result and
// handled=false.
func (c *Chain[Req, Res]) Handle(ctx context.Context, req Req) (Res, bool, error) {
	// Snapshot under the read lock so concurrent appends cannot expose a
	// half-linked tail to an in-flight walk.
	c.mu.RLock()
	snapshot := c.handlers
	c.mu.RUnlock()

	var zero Res
	for _, h := range snapshot {
		if !h.Match(req) {
			continue
		}
		res, err := h.Run(ctx, req)
		if err != nil {
			return zero, true, err
		}
		return res, true, nil
	}
	return zero, false, nil
}
