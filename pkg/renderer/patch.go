package renderer

import (
	"reflect"

	"github.com/vango-dev/reactor/pkg/vdom"
)

// patch updates the host nodes of prev to match next and carries the host
// references over to next. container is the host parent of prev's nodes.
func (r *Renderer) patch(prev, next *vdom.VNode, container Node, svg bool) {
	if prev == next {
		return
	}
	if prev.Flags != next.Flags || !sameTag(prev, next) {
		r.replace(prev, next, container, svg)
		return
	}

	switch {
	case next.Flags.Is(vdom.FlagElement):
		r.patchElement(prev, next, svg)
	case next.Flags.Is(vdom.FlagText):
		next.El = prev.El
		if next.Text != prev.Text {
			r.host.SetText(next.El, next.Text)
		}
	case next.Flags.Is(vdom.FlagFragment):
		r.patchFragment(prev, next, container, svg)
	case next.Flags.Is(vdom.FlagPortal):
		r.patchPortal(prev, next, container, svg)
	case next.Flags.Is(vdom.FlagComponent):
		r.patchComponent(prev, next, svg)
	default:
		next.El = prev.El
	}
}

// replace unmounts prev and mounts next at the same position.
func (r *Renderer) replace(prev, next *vdom.VNode, container Node, svg bool) {
	anchor := r.host.NextSibling(lastHost(prev))
	r.unmount(prev, true)
	r.mount(next, container, anchor, svg)
}

func (r *Renderer) patchElement(prev, next *vdom.VNode, svg bool) {
	svg = svg || next.Flags.Is(vdom.FlagElementSVG)
	el := prev.El
	next.El = el
	r.patchData(el, prev.Data, next.Data, svg)
	r.patchChildren(prev, next, el, nil, svg)
}

// patchFragment keeps a fragment's siblings in place: new children are
// mounted before the node that followed the previous fragment.
func (r *Renderer) patchFragment(prev, next *vdom.VNode, container Node, svg bool) {
	prevEmpty, nextEmpty := len(prev.Children) == 0, len(next.Children) == 0
	switch {
	case prevEmpty && nextEmpty:
		next.El = prev.El
	case prevEmpty:
		for _, child := range next.Children {
			r.mount(child, container, prev.El, svg)
		}
		r.host.Remove(container, prev.El)
		next.El = next.Children[0].El
	case nextEmpty:
		anchor := r.host.NextSibling(lastHost(prev))
		for _, child := range prev.Children {
			r.unmount(child, true)
		}
		next.El = r.host.CreateText("")
		r.host.Insert(container, next.El, anchor)
	default:
		anchor := r.host.NextSibling(lastHost(prev))
		r.patchChildren(prev, next, container, anchor, svg)
		next.El = next.Children[0].El
	}
}

func (r *Renderer) patchPortal(prev, next *vdom.VNode, container Node, svg bool) {
	next.El = prev.El
	r.patchChildren(prev, next, prev.TargetEl, nil, svg)

	target := r.resolveTarget(next, container)
	next.TargetEl = target
	if target == prev.TargetEl {
		return
	}
	for _, child := range next.Children {
		r.move(child, target, nil)
	}
}

// sameTag reports whether two nodes with equal flags render the same kind
// of thing: the same element name or the same component.
func sameTag(a, b *vdom.VNode) bool {
	switch {
	case a.Flags.Is(vdom.FlagElement):
		return a.Tag == b.Tag
	case a.Flags.Is(vdom.FlagComponent):
		return sameComponent(a.Component, b.Component)
	}
	return true
}

// sameComponent compares component functions by their code pointer, since
// funcs are not comparable. Closures created by the same literal compare
// equal.
func sameComponent(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || va.Kind() != reflect.Func {
		return false
	}
	return va.Pointer() == vb.Pointer()
}

// sameVNode reports whether next can be patched from prev in a keyed list.
func sameVNode(a, b *vdom.VNode) bool {
	return a.Flags == b.Flags && a.Key == b.Key && sameTag(a, b)
}

// firstHost returns the first top-level host node of a mounted vnode.
func firstHost(v *vdom.VNode) Node {
	switch {
	case v.Flags.Is(vdom.FlagComponent):
		if sub := subtreeOf(v); sub != nil {
			return firstHost(sub)
		}
	case v.Flags.Is(vdom.FlagFragment):
		if len(v.Children) > 0 {
			return firstHost(v.Children[0])
		}
	}
	return v.El
}

// lastHost returns the last top-level host node of a mounted vnode.
func lastHost(v *vdom.VNode) Node {
	switch {
	case v.Flags.Is(vdom.FlagComponent):
		if sub := subtreeOf(v); sub != nil {
			return lastHost(sub)
		}
	case v.Flags.Is(vdom.FlagFragment):
		if n := len(v.Children); n > 0 {
			return lastHost(v.Children[n-1])
		}
	}
	return v.El
}

// move re-inserts the top-level host nodes of v before anchor.
func (r *Renderer) move(v *vdom.VNode, container, anchor Node) {
	switch {
	case v.Flags.Is(vdom.FlagComponent):
		if sub := subtreeOf(v); sub != nil {
			r.move(sub, container, anchor)
			return
		}
	case v.Flags.Is(vdom.FlagFragment):
		if len(v.Children) > 0 {
			for _, child := range v.Children {
				r.move(child, container, anchor)
			}
			return
		}
	}
	r.host.Insert(container, v.El, anchor)
}

func subtreeOf(v *vdom.VNode) *vdom.VNode {
	if v.Instance == nil {
		return nil
	}
	return v.Instance.Subtree()
}
