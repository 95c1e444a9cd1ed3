package vdom

import "strings"

// Flags classifies a VNode.
type Flags uint16

const (
	FlagElementHTML Flags = 1 << iota
	FlagElementSVG
	FlagComponentStatefulNormal
	FlagComponentStatefulShouldKeepAlive
	FlagComponentStatefulKeptAlive
	FlagComponentFunctional
	FlagText
	FlagFragment
	FlagPortal
)

// Composite masks.
const (
	FlagElement           = FlagElementHTML | FlagElementSVG
	FlagComponentStateful = FlagComponentStatefulNormal | FlagComponentStatefulShouldKeepAlive | FlagComponentStatefulKeptAlive
	FlagComponent         = FlagComponentStateful | FlagComponentFunctional
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagElementHTML, "ELEMENT_HTML"},
	{FlagElementSVG, "ELEMENT_SVG"},
	{FlagComponentStatefulNormal, "COMPONENT_STATEFUL_NORMAL"},
	{FlagComponentStatefulShouldKeepAlive, "COMPONENT_STATEFUL_SHOULD_KEEP_ALIVE"},
	{FlagComponentStatefulKeptAlive, "COMPONENT_STATEFUL_KEPT_ALIVE"},
	{FlagComponentFunctional, "COMPONENT_FUNCTIONAL"},
	{FlagText, "TEXT"},
	{FlagFragment, "FRAGMENT"},
	{FlagPortal, "PORTAL"},
}

// Is reports whether any bit of mask is set.
func (f Flags) Is(mask Flags) bool {
	return f&mask != 0
}

// String returns the names of the set bits joined by "|".
func (f Flags) String() string {
	if f == 0 {
		return "NONE"
	}
	var names []string
	for _, n := range flagNames {
		if f&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// ChildFlags classifies the children of a VNode.
type ChildFlags uint8

const (
	ChildrenUnknown ChildFlags = 0
	NoChildren      ChildFlags = 1 << (iota - 1)
	SingleVNode
	KeyedVNodes
	NoneKeyedVNodes
)

// MultipleVNodes matches both keyed and unkeyed multiple children.
const MultipleVNodes = KeyedVNodes | NoneKeyedVNodes

// IsMultiple reports whether the flags describe more than one child.
func (c ChildFlags) IsMultiple() bool {
	return c&MultipleVNodes != 0
}

func (c ChildFlags) String() string {
	switch c {
	case ChildrenUnknown:
		return "UNKNOWN"
	case NoChildren:
		return "NO_CHILDREN"
	case SingleVNode:
		return "SINGLE_VNODE"
	case KeyedVNodes:
		return "KEYED_VNODES"
	case NoneKeyedVNodes:
		return "NONE_KEYED_VNODES"
	default:
		return "INVALID"
	}
}
