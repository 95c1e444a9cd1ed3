package renderer

import (
	"github.com/vango-dev/reactor/pkg/vdom"
)

// childFlags returns v's ChildFlags, deriving them from the children when a
// node was built without H.
func childFlags(v *vdom.VNode) vdom.ChildFlags {
	if v.ChildFlags != vdom.ChildrenUnknown {
		return v.ChildFlags
	}
	switch len(v.Children) {
	case 0:
		return vdom.NoChildren
	case 1:
		return vdom.SingleVNode
	}
	for _, child := range v.Children {
		if child.Key == "" {
			return vdom.NoneKeyedVNodes
		}
	}
	return vdom.KeyedVNodes
}

// patchChildren dispatches on the (previous, next) children classification.
// New children are inserted into container before anchor. With keyed diffing
// a single child takes part in the keyed diff as a one-element list.
func (r *Renderer) patchChildren(prev, next *vdom.VNode, container, anchor Node, svg bool) {
	prevFlags, nextFlags := childFlags(prev), childFlags(next)
	oldCh, newCh := prev.Children, next.Children

	switch {
	case prevFlags == vdom.SingleVNode:
		switch {
		case r.keyed && nextFlags == vdom.SingleVNode && oldCh[0].Key != newCh[0].Key:
			r.patchKeyedChildren(oldCh, newCh, container, anchor, svg)
		case nextFlags == vdom.SingleVNode:
			r.patch(oldCh[0], newCh[0], container, svg)
		case r.keyed && nextFlags == vdom.KeyedVNodes:
			r.patchKeyedChildren(oldCh[:1], newCh, container, anchor, svg)
		case nextFlags.IsMultiple():
			r.unmount(oldCh[0], true)
			r.mountAll(newCh, container, anchor, svg)
		default:
			r.unmount(oldCh[0], true)
		}

	case prevFlags.IsMultiple():
		switch {
		case r.keyed && prevFlags == vdom.KeyedVNodes && nextFlags == vdom.SingleVNode:
			r.patchKeyedChildren(oldCh, newCh[:1], container, anchor, svg)
		case nextFlags == vdom.SingleVNode:
			r.unmountAll(oldCh)
			r.mount(newCh[0], container, anchor, svg)
		case nextFlags.IsMultiple():
			if r.keyed && prevFlags == vdom.KeyedVNodes && nextFlags == vdom.KeyedVNodes {
				r.patchKeyedChildren(oldCh, newCh, container, anchor, svg)
				return
			}
			r.unmountAll(oldCh)
			r.mountAll(newCh, container, anchor, svg)
		default:
			r.unmountAll(oldCh)
		}

	default:
		switch {
		case nextFlags == vdom.SingleVNode:
			r.mount(newCh[0], container, anchor, svg)
		case nextFlags.IsMultiple():
			r.mountAll(newCh, container, anchor, svg)
		}
	}
}

func (r *Renderer) mountAll(children []*vdom.VNode, container, anchor Node, svg bool) {
	for _, child := range children {
		r.mount(child, container, anchor, svg)
	}
}

func (r *Renderer) unmountAll(children []*vdom.VNode) {
	for _, child := range children {
		r.unmount(child, true)
	}
}
