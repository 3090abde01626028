package tree

import "fmt"

// StructureError reports a malformed mutation: adding to a leaf, removing a
// child that is not present, or re-parenting a node that already has an
// owner. It indicates a caller programming error, not a transient condition.
type StructureError struct {
	Op     string
	Reason string
	Node   string
}

func (e *StructureError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("tree: %s: %s (node %q)", e.Op, e.Reason, e.Node)
	}
	return fmt.Sprintf("tree: %s: %s", e.Op, e.Reason)
}

// CycleError reports a mutation that would make a composite a descendant of
// itself. Traversal assumes termination, so the tree must stay acyclic.
type CycleError struct {
	Node string
}

func (e *CycleError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("tree: cycle detected involving node %q", e.Node)
	}
	return "tree: cycle detected"
}
