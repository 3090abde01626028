// Package tree provides the typed node tree that the dispatch package
// traverses. A tree is built from two variants: leaves, which carry a
// payload, and composites, which own an ordered sequence of children.
//
// The tree performs no internal locking. Structural mutation (AddChild,
// RemoveChild) must be serialized against any in-flight traversal by the
// caller; concurrent readers are safe once mutation has stopped.
package tree

import "fmt"

// Kind discriminates the two node variants.
type Kind int

const (
	// Leaf is a childless node carrying a payload.
	Leaf Kind = iota
	// Composite is a node owning an ordered sequence of children.
	Composite
)

// String returns the lower-case variant name, as used in config files.
func (k Kind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case Composite:
		return "composite"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Node is a single vertex in a composition tree. A node has at most one
// parent at a time; a composite exclusively owns its children.
type Node struct {
	// Name is an optional human-readable label used in logs and events.
	// It has no structural meaning.
	Name string

	kind     Kind
	payload  any
	parent   *Node
	children []*Node
}

// NewLeaf creates a leaf node holding the given payload.
func NewLeaf(payload any) *Node {
	return &Node{kind: Leaf, payload: payload}
}

// NewComposite creates an empty composite node.
func NewComposite() *Node {
	return &Node{kind: Composite}
}

// Kind returns the node's variant tag.
func (n *Node) Kind() Kind {
	return n.kind
}

// Payload returns the payload supplied at construction. Composites return nil.
func (n *Node) Payload() any {
	return n.payload
}

// Parent returns the node's current owner, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the node's children in insertion order.
// Leaves return nil.
func (n *Node) Children() []*Node {
	if len(n.children) == 0 {
		return nil
	}
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// AddChild appends child to n's children. It fails with a *StructureError
// if n is not a composite or the child already has a parent, and with a
// *CycleError if the addition would make n a descendant of itself.
func (n *Node) AddChild(child *Node) error {
	if n.kind != Composite {
		return &StructureError{Op: "add child", Reason: "parent is not a composite", Node: n.Name}
	}
	if child == nil {
		return &StructureError{Op: "add child", Reason: "child is nil", Node: n.Name}
	}
	if child.parent != nil {
		return &StructureError{Op: "add child", Reason: "child already has a parent", Node: child.Name}
	}
	// Walk up from n; hitting child means n lives inside child's subtree.
	for a := n; a != nil; a = a.parent {
		if a == child {
			return &CycleError{Node: child.Name}
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// RemoveChild detaches child from n, preserving the order of the remaining
// children. The child keeps its own subtree and may be re-parented
// afterwards. Fails with a *StructureError if n is not a composite or the
// child is not currently present.
func (n *Node) RemoveChild(child *Node) error {
	if n.kind != Composite {
		return &StructureError{Op: "remove child", Reason: "parent is not a composite", Node: n.Name}
	}
	if child == nil {
		return &StructureError{Op: "remove child", Reason: "child is nil", Node: n.Name}
	}
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return nil
		}
	}
	return &StructureError{Op: "remove child", Reason: "child not present", Node: child.Name}
}
