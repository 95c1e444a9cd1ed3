package vdom

import (
	"fmt"
	"strconv"
)

// Special is the type of the Fragment and Portal tag sentinels.
type Special struct{ name string }

func (s *Special) String() string { return s.name }

// Tag sentinels accepted by H.
var (
	Fragment = &Special{name: "Fragment"}
	Portal   = &Special{name: "Portal"}
)

// H creates a VNode.
//
// tag is an element name ("svg" yields an SVG element), Fragment, Portal
// (whose target comes from data["target"], a selector string or a host
// node), a Constructor or a FuncComponent. A tag of any other type yields a
// node without flags, which the renderer rejects.
//
// children may be nil, a *VNode, a []*VNode, a []any mixing nodes and
// scalars, or a scalar that becomes a text node. Multiple children are
// keyed; children without a key get "|<index>".
func H(tag any, data Data, children any) *VNode {
	v := &VNode{Data: data}

	switch t := tag.(type) {
	case string:
		v.Tag = t
		if t == "svg" {
			v.Flags = FlagElementSVG
		} else {
			v.Flags = FlagElementHTML
		}
	case *Special:
		switch t {
		case Fragment:
			v.Flags = FlagFragment
		case Portal:
			v.Flags = FlagPortal
			switch target := data.Get("target").(type) {
			case string:
				v.Tag = target
			default:
				v.Target = target
			}
		}
	case Constructor:
		v.Flags = FlagComponentStatefulNormal
		v.Component = t
	case func(*SetupContext) Component:
		v.Flags = FlagComponentStatefulNormal
		v.Component = Constructor(t)
	case FuncComponent:
		v.Flags = FlagComponentFunctional
		v.Component = t
	case func(Props, []*VNode) *VNode:
		v.Flags = FlagComponentFunctional
		v.Component = FuncComponent(t)
	}

	if k := data.Get("key"); k != nil {
		v.Key = fmt.Sprint(k)
	}
	v.Children, v.ChildFlags = NormalizeChildren(children)
	return v
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{Flags: FlagText, Text: content, ChildFlags: NoChildren}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// NormalizeChildren converts a children argument of H into a slice and its
// ChildFlags. Nil entries are dropped.
func NormalizeChildren(children any) ([]*VNode, ChildFlags) {
	var list []*VNode
	switch c := children.(type) {
	case nil:
	case *VNode:
		if c != nil {
			list = []*VNode{c}
		}
	case []*VNode:
		for _, child := range c {
			if child != nil {
				list = append(list, child)
			}
		}
	case []any:
		for _, item := range c {
			list = appendChild(list, item)
		}
	default:
		list = appendChild(list, c)
	}

	switch len(list) {
	case 0:
		return nil, NoChildren
	case 1:
		return list, SingleVNode
	}
	for i, child := range list {
		if child.Key == "" {
			child.Key = "|" + strconv.Itoa(i)
		}
	}
	return list, KeyedVNodes
}

func appendChild(list []*VNode, item any) []*VNode {
	switch c := item.(type) {
	case nil:
		return list
	case *VNode:
		if c == nil {
			return list
		}
		return append(list, c)
	case []*VNode:
		for _, child := range c {
			if child != nil {
				list = append(list, child)
			}
		}
		return list
	case string:
		return append(list, Text(c))
	}
	return append(list, Text(fmt.Sprint(item)))
}
