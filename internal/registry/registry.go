// Package registry provides the central glue between pipeline definitions
// and compiled Go code.
//
// Pipeline files refer to behaviors, predicates, actions, add-ons, and
// subscribers by string name; the registry stores the mapping from those
// names to the functions modules registered at startup. After loading, the
// registry is validated against the config model so that every name a
// pipeline mentions is known before anything runs.
package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/composekit/pkg/chain"
	"github.com/vk/composekit/pkg/decorate"
	"github.com/vk/composekit/pkg/dispatch"
	"github.com/vk/composekit/pkg/hub"
)

// Module is the interface all pluggable modules implement to contribute
// named functions to a registry.
type Module interface {
	Register(r *Registry)
}

// SubscriberFactory builds a hub subscriber from a subscriber block's
// options. The returned closer, if non-nil, is invoked when the pipeline
// finishes.
type SubscriberFactory func(ctx context.Context, options map[string]any) (hub.Subscriber, io.Closer, error)

// Registry holds all registered names for a single application instance.
type Registry struct {
	behaviors   map[string]dispatch.Behavior
	predicates  map[string]chain.Predicate[any]
	actions     map[string]chain.Action[any, any]
	addOns      map[string]decorate.AddOn[any, any]
	subscribers map[string]SubscriberFactory
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		behaviors:   make(map[string]dispatch.Behavior),
		predicates:  make(map[string]chain.Predicate[any]),
		actions:     make(map[string]chain.Action[any, any]),
		addOns:      make(map[string]decorate.AddOn[any, any]),
		subscribers: make(map[string]SubscriberFactory),
	}
}

// RegisterBehavior registers a dispatch behavior under name. Registering
// the same name twice is a programmer error and panics.
func (r *Registry) RegisterBehavior(name string, fn dispatch.Behavior) {
	if _, exists := r.behaviors[name]; exists {
		panic(fmt.Sprintf("behavior %q already registered", name))
	}
	slog.Debug("Registering behavior.", "name", name)
	r.behaviors[name] = fn
}

// RegisterPredicate registers a chain predicate under name.
func (r *Registry) RegisterPredicate(name string, fn chain.Predicate[any]) {
	if _, exists := r.predicates[name]; exists {
		panic(fmt.Sprintf("predicate %q already registered", name))
	}
	slog.Debug("Registering predicate.", "name", name)
	r.predicates[name] = fn
}

// RegisterAction registers a chain action under name.
func (r *Registry) RegisterAction(name string, fn chain.Action[any, any]) {
	if _, exists := r.actions[name]; exists {
		panic(fmt.Sprintf("action %q already registered", name))
	}
	slog.Debug("Registering action.", "name", name)
	r.actions[name] = fn
}

// RegisterAddOn registers a decoration add-on under name.
func (r *Registry) RegisterAddOn(name string, fn decorate.AddOn[any, any]) {
	if _, exists := r.addOns[name]; exists {
		panic(fmt.Sprintf("add-on %q already registered", name))
	}
	slog.Debug("Registering add-on.", "name", name)
	r.addOns[name] = fn
}

// RegisterSubscriberFactory registers a subscriber kind.
func (r *Registry) RegisterSubscriberFactory(kind string, factory SubscriberFactory) {
	if _, exists := r.subscribers[kind]; exists {
		panic(fmt.Sprintf("subscriber kind %q already registered", kind))
	}
	slog.Debug("Registering subscriber kind.", "kind", kind)
	r.subscribers[kind] = factory
}

// Behavior looks up a registered behavior.
func (r *Registry) Behavior(name string) (dispatch.Behavior, bool) {
	fn, ok := r.behaviors[name]
	return fn, ok
}

// Predicate looks up a registered predicate.
func (r *Registry) Predicate(name string) (chain.Predicate[any], bool) {
	fn, ok := r.predicates[name]
	return fn, ok
}

// Action looks up a registered action.
func (r *Registry) Action(name string) (chain.Action[any, any], bool) {
	fn, ok := r.actions[name]
	return fn, ok
}

// AddOn looks up a registered add-on.
func (r *Registry) AddOn(name string) (decorate.AddOn[any, any], bool) {
	fn, ok := r.addOns[name]
	return fn, ok
}

// SubscriberFactory looks up a registered subscriber kind.
func (r *Registry) SubscriberFactory(kind string) (SubscriberFactory, bool) {
	factory, ok := r.subscribers[kind]
	return factory, ok
}
