package hcl

import "github.com/hashicorp/hcl/v2"

// NodeBlock represents a `node` block. Nodes nest: a composite's children
// are its own `node` blocks, in document order.
type NodeBlock struct {
	Kind     string         `hcl:"kind,label"`
	Name     string         `hcl:"name,label"`
	Payload  hcl.Expression `hcl:"payload,optional"`
	Children []*NodeBlock   `hcl:"node,block"`
}

// OperationBlock represents an `operation` block, binding registered
// behavior names to the node variants and naming the add-ons wrapped
// around them.
type OperationBlock struct {
	Name      string   `hcl:"name,label"`
	Leaf      string   `hcl:"leaf,optional"`
	Composite string   `hcl:"composite,optional"`
	With      []string `hcl:"with,optional"`
}

// HandlerBlock represents a `handler` block inside a chain.
type HandlerBlock struct {
	Name      string `hcl:"name,label"`
	Predicate string `hcl:"predicate"`
	Action    string `hcl:"action"`
}

// ChainBlock represents a `chain` block. Feed lists the requests driven
// through the chain once it is assembled.
type ChainBlock struct {
	Name     string          `hcl:"name,label"`
	Handlers []*HandlerBlock `hcl:"handler,block"`
	Feed     hcl.Expression  `hcl:"feed,optional"`
}

// SubscriberBlock represents a `subscriber` block attaching a registered
// subscriber kind to the pipeline's event hub.
type SubscriberBlock struct {
	Kind    string         `hcl:"kind,label"`
	Name    string         `hcl:"name,label"`
	Options hcl.Expression `hcl:"options,optional"`
}

// PipelineBlock represents a top-level `pipeline` block.
type PipelineBlock struct {
	Name        string             `hcl:"name,label"`
	Nodes       []*NodeBlock       `hcl:"node,block"`
	Operations  []*OperationBlock  `hcl:"operation,block"`
	Chains      []*ChainBlock      `hcl:"chain,block"`
	Subscribers []*SubscriberBlock `hcl:"subscriber,block"`
}

// FileSchema represents the top-level structure of a pipeline file.
type FileSchema struct {
	Pipelines []*PipelineBlock `hcl:"pipeline,block"`
	Body      hcl.Body         `hcl:",remain"`
}
