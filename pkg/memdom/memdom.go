// Package memdom is an in-memory host tree for the renderer.
//
// It implements renderer.Host over plain Go structs, records every mutation
// in an operation log, and can dispatch events to registered handlers. The
// preview server renders into it and serializes it with package render;
// tests use the operation log to assert which host mutations a patch made.
package memdom

import (
	"strings"

	"github.com/vango-dev/reactor/pkg/vdom"
)

// NodeType discriminates nodes.
type NodeType uint8

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
)

func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	default:
		return "unknown"
	}
}

// Node is a node of the in-memory tree.
type Node struct {
	ID   uint64
	Type NodeType
	Tag  string
	SVG  bool
	Text string

	Attrs     map[string]string
	Props     map[string]any
	Style     map[string]string
	Listeners map[string]vdom.Handler

	Parent   *Node
	Children []*Node
}

// Attr returns an attribute value.
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.Attrs[key]
	return v, ok
}

// Prop returns a DOM property value.
func (n *Node) Prop(key string) any {
	return n.Props[key]
}

// TextContent concatenates the text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Elements returns the element children of n.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Type == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// HasClass reports whether the class attribute contains name.
func (n *Node) HasClass(name string) bool {
	for _, c := range strings.Fields(n.Attrs["class"]) {
		if c == name {
			return true
		}
	}
	return false
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) detach(child *Node) {
	if i := n.indexOf(child); i >= 0 {
		n.Children = append(n.Children[:i], n.Children[i+1:]...)
	}
	child.Parent = nil
}
