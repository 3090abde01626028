// Package dispatch routes named operations to per-variant behaviors over a
// tree. The resolution set is a plain lookup table keyed by
// (operation, variant), so it can be inspected and validated as data before
// anything runs.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/composekit/pkg/tree"
)

// Behavior resolves one operation for one node variant. It receives the node
// being visited and returns that node's result.
type Behavior func(ctx context.Context, n *tree.Node) (any, error)

// SkipChildren is a sentinel a Behavior may return to suppress recursion
// into the current composite's children. The dispatcher consumes it; callers
// of Dispatch never see it.
var SkipChildren = errors.New("dispatch: skip children")

// UnresolvedVariantError reports a dispatch over a variant that has no
// behavior registered for the requested operation. Dispatch never skips an
// unresolved node silently.
type UnresolvedVariantError struct {
	Operation string
	Kind      tree.Kind
}

func (e *UnresolvedVariantError) Error() string {
	return fmt.Sprintf("dispatch: no behavior registered for operation %q on variant %q", e.Operation, e.Kind)
}

// Dispatcher holds the (operation, variant) resolution table.
//
// Registration and dispatch must not be interleaved without external
// synchronization; the usual pattern is to register everything up front and
// then only dispatch.
type Dispatcher struct {
	resolutions map[string]map[tree.Kind]Behavior
}

// New creates an empty Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{
		resolutions: make(map[string]map[tree.Kind]Behavior),
	}
}

// Register binds fn to (op, kind). Re-registering the same pair overwrites
// the previous behavior, so call sites can extend or refine an operation set
// incrementally.
func (d *Dispatcher) Register(op string, kind tree.Kind, fn Behavior) {
	byKind, ok := d.resolutions[op]
	if !ok {
		byKind = make(map[tree.Kind]Behavior)
		d.resolutions[op] = byKind
	}
	if _, exists := byKind[kind]; exists {
		slog.Debug("Overwriting operation behavior.", "operation", op, "variant", kind.String())
	}
	byKind[kind] = fn
}

// Resolves reports whether a behavior is registered for (op, kind).
func (d *Dispatcher) Resolves(op string, kind tree.Kind) bool {
	_, ok := d.resolutions[op][kind]
	return ok
}

// Operations returns the sorted names of all registered operations.
func (d *Dispatcher) Operations() []string {
	ops := make([]string, 0, len(d.resolutions))
	for op := range d.resolutions {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// Dispatch runs op over the subtree rooted at n in pre-order: the node's own
// behavior runs first, then its children in insertion order. The first error
// aborts the traversal. The returned value is the root behavior's result;
// child results are side effects of their behaviors.
//
// A reachable variant with no registered behavior fails with
// *UnresolvedVariantError.
func (d *Dispatcher) Dispatch(ctx context.Context, op string, n *tree.Node) (any, error) {
	if n == nil {
		return nil, fmt.Errorf("dispatch: nil node for operation %q", op)
	}
	fn, ok := d.resolutions[op][n.Kind()]
	if !ok {
		return nil, &UnresolvedVariantError{Operation: op, Kind: n.Kind()}
	}

	result, err := fn(ctx, n)
	if err != nil {
		if errors.Is(err, SkipChildren) {
			return result, nil
		}
		return nil, err
	}

	for _, child := range n.Children() {
		if _, err := d.Dispatch(ctx, op, child); err != nil {
			return nil, err
		}
	}
	return result, nil
}
