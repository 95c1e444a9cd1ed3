package renderer

import (
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Node is an opaque host node. Host implementations must return untyped
// nil (not a typed nil pointer) for "no node", and nodes must be comparable.
type Node = any

// Host performs the mutations the renderer needs on a concrete tree.
type Host interface {
	CreateElement(tag string, svg bool) Node
	CreateText(text string) Node
	SetText(node Node, text string)

	SetAttribute(el Node, key, value string)
	RemoveAttribute(el Node, key string)
	SetProperty(el Node, key string, value any)
	SetStyle(el Node, name, value string)
	RemoveStyle(el Node, name string)
	AddEventListener(el Node, event string, handler vdom.Handler)
	RemoveEventListener(el Node, event string)

	// Insert places child into parent before anchor, or at the end when
	// anchor is nil. A child already in the tree is moved.
	Insert(parent, child, anchor Node)
	Remove(parent, child Node)
	Parent(node Node) Node
	NextSibling(node Node) Node
	// Query finds a node by selector, or returns nil.
	Query(selector string) Node
}
