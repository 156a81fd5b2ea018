package hast

import "fmt"

// VisitStatus steers Visit after a node has been visited.
type VisitStatus int

const (
	// Continue descends into the node's children.
	Continue VisitStatus = iota
	// SkipChildren moves on to the next sibling.
	SkipChildren
	// Stop ends the traversal.
	Stop
)

// VisitFunc receives a node, its index in the parent's child list and the
// parent itself. The root is reported with index -1 and a nil parent.
type VisitFunc func(n *Node, index int, parent *Node) VisitStatus

// MalformedError reports a structurally invalid tree.
type MalformedError struct {
	Parent *Node
	Index  int
	Reason string
}

func (e *MalformedError) Error() string {
	tag := "#root"
	if e.Parent != nil && e.Parent.Tag != "" {
		tag = e.Parent.Tag
	}
	return fmt.Sprintf("hast: malformed tree at %s[%d]: %s", tag, e.Index, e.Reason)
}

// Visit walks the tree depth-first in document order, visiting each node once.
// The callback must not mutate the child list it is iterating; collect targets
// and mutate after Visit returns.
func Visit(root *Node, fn VisitFunc) error {
	if root == nil {
		return &MalformedError{Index: -1, Reason: "nil root"}
	}
	_, err := visit(root, -1, nil, fn)
	return err
}

func visit(n *Node, index int, parent *Node, fn VisitFunc) (bool, error) {
	switch fn(n, index, parent) {
	case Stop:
		return true, nil
	case SkipChildren:
		return false, nil
	}
	for i, c := range n.Children {
		if c == nil {
			return true, &MalformedError{Parent: n, Index: i, Reason: "nil child"}
		}
		if c.Type == RootNode {
			return true, &MalformedError{Parent: n, Index: i, Reason: "nested root"}
		}
		stop, err := visit(c, i, n, fn)
		if err != nil || stop {
			return true, err
		}
	}
	return false, nil
}
