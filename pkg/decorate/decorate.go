// Package decorate layers independently composable add-ons around a base
// behavior while preserving its contract. Add-ons are ordinary middleware:
// each receives the behavior it wraps and returns a new one.
//
// Composition is associative but not commutative: two add-ons that both
// touch shared state (a log, a counter) observe each other's ordering, so
// swapping them changes the observable sequence.
package decorate

import "context"

// Behavior is an invocable unit of work.
type Behavior[Req, Res any] func(ctx context.Context, req Req) (Res, error)

// AddOn wraps a behavior with additional logic. An add-on must invoke the
// behavior it wraps exactly once per call unless it documents
// short-circuiting (see Memoize).
type AddOn[Req, Res any] func(inner Behavior[Req, Res]) Behavior[Req, Res]

// Wrap applies addOns to inner in order: each add-on wraps the result of
// the previous one, so the last listed ends up outermost. Consequently
//
//	Wrap(Wrap(b, A), B) == Wrap(b, A, B)
//
// and a single invocation runs B's pre-logic, then A's, then b, then A's
// post-logic, then B's.
func Wrap[Req, Res any](inner Behavior[Req, Res], addOns ...AddOn[Req, Res]) Behavior[Req, Res] {
	wrapped := inner
	for _, a := range addOns {
		wrapped = a(wrapped)
	}
	return wrapped
}
