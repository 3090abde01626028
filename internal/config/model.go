package config

// Model is the unified, format-agnostic representation of everything a run
// executes: one or more composition pipelines.
type Model struct {
	Pipelines []*Pipeline
}

// Pipeline describes one self-contained composition: a node tree, the
// operations dispatched over it, the handler chains driven against it, and
// the subscribers attached to its event hub.
type Pipeline struct {
	Name        string
	Roots       []*NodeSpec
	Operations  []*Operation
	Chains      []*ChainSpec
	Subscribers []*SubscriberSpec
}

// NodeSpec is the format-agnostic representation of a `node` block.
// Payloads are already bound to native Go values by the loader.
type NodeSpec struct {
	Kind     string
	Name     string
	Payload  any
	Children []*NodeSpec
}

// Operation binds behavior names to node variants for one named operation.
// AddOns lists decoration names applied around every bound behavior, last
// one outermost.
type Operation struct {
	Name        string
	Resolutions map[string]string // variant name -> registered behavior name
	AddOns      []string
}

// ChainSpec is the format-agnostic representation of a `chain` block. Feed
// holds the requests driven through the chain, in order.
type ChainSpec struct {
	Name     string
	Handlers []*HandlerSpec
	Feed     []any
}

// HandlerSpec names one predicate/action pair in a chain.
type HandlerSpec struct {
	Name      string
	Predicate string
	Action    string
}

// SubscriberSpec attaches a registered subscriber kind to a pipeline's hub.
type SubscriberSpec struct {
	Kind    string
	Name    string
	Options map[string]any
}
