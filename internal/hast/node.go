// Package hast is a small HTML syntax tree used by the map embed pipeline.
//
// Nodes carry a tag name, a property map and an ordered child list. The
// class list lives under the "className" property and may be stored either
// as a single space separated string or as a []string.
package hast

import (
	"fmt"
	"strings"
)

// NodeType identifies the kind of a Node.
type NodeType int

const (
	RootNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
	DoctypeNode
	RawNode
)

func (t NodeType) String() string {
	switch t {
	case RootNode:
		return "root"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case DoctypeNode:
		return "doctype"
	case RawNode:
		return "raw"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// PropClassName is the property key holding an element's class list.
const PropClassName = "className"

// Node is a single tree node. Text, comment, doctype and raw nodes use Value;
// root and element nodes use Children.
type Node struct {
	Type       NodeType
	Tag        string
	Properties map[string]any
	Children   []*Node
	Value      string
}

// Root creates a root node holding children.
func Root(children ...*Node) *Node {
	return &Node{Type: RootNode, Children: children}
}

// Element creates an element node. props may be nil.
func Element(tag string, props map[string]any, children ...*Node) *Node {
	if props == nil {
		props = map[string]any{}
	}
	return &Node{Type: ElementNode, Tag: tag, Properties: props, Children: children}
}

// Text creates a text node.
func Text(value string) *Node {
	return &Node{Type: TextNode, Value: value}
}

// IsElement reports whether n is an element with the given tag.
func (n *Node) IsElement(tag string) bool {
	return n != nil && n.Type == ElementNode && n.Tag == tag
}

// Property returns a property value.
func (n *Node) Property(key string) (any, bool) {
	if n == nil || n.Properties == nil {
		return nil, false
	}
	v, ok := n.Properties[key]
	return v, ok
}

// SetProperty sets a property, allocating the map when needed.
func (n *Node) SetProperty(key string, value any) {
	if n.Properties == nil {
		n.Properties = map[string]any{}
	}
	n.Properties[key] = value
}

// ClassNames returns the class tokens of n regardless of how they are encoded.
// Values that are neither strings nor string lists yield no tokens.
func (n *Node) ClassNames() []string {
	v, ok := n.Property(PropClassName)
	if !ok {
		return nil
	}
	switch c := v.(type) {
	case string:
		return strings.Fields(c)
	case []string:
		return c
	case []any:
		out := make([]string, 0, len(c))
		for _, item := range c {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// HasClass reports whether token is one of n's class names.
func (n *Node) HasClass(token string) bool {
	for _, c := range n.ClassNames() {
		if c == token {
			return true
		}
	}
	return false
}

// DirectText concatenates the values of n's direct text and raw children, in
// order and without separators. Nested elements are not descended into.
func (n *Node) DirectText() string {
	var b strings.Builder
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if c.Type == TextNode || c.Type == RawNode {
			b.WriteString(c.Value)
		}
	}
	return b.String()
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Type: n.Type, Tag: n.Tag, Value: n.Value}
	if n.Properties != nil {
		out.Properties = make(map[string]any, len(n.Properties))
		for k, v := range n.Properties {
			if list, ok := v.([]string); ok {
				v = append([]string(nil), list...)
			}
			out.Properties[k] = v
		}
	}
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}
