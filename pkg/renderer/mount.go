package renderer

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// mount creates the host nodes for v and inserts them into container before
// anchor (or at the end when anchor is nil). svg is true inside an svg
// element.
func (r *Renderer) mount(v *vdom.VNode, container, anchor Node, svg bool) {
	switch {
	case v.Flags.Is(vdom.FlagElement):
		r.mountElement(v, container, anchor, svg)
	case v.Flags.Is(vdom.FlagText):
		v.El = r.host.CreateText(v.Text)
		r.host.Insert(container, v.El, anchor)
	case v.Flags.Is(vdom.FlagFragment):
		r.mountFragment(v, container, anchor, svg)
	case v.Flags.Is(vdom.FlagPortal):
		r.mountPortal(v, container, anchor, svg)
	case v.Flags.Is(vdom.FlagComponent):
		r.mountComponent(v, container, anchor, svg)
	default:
		r.warn(errors.New("E101").
			WithField("flags", v.Flags.String()).
			WithField("tag", describeTag(v)))
		v.El = r.host.CreateText("")
		r.host.Insert(container, v.El, anchor)
	}
}

func (r *Renderer) mountElement(v *vdom.VNode, container, anchor Node, svg bool) {
	svg = svg || v.Flags.Is(vdom.FlagElementSVG)
	el := r.host.CreateElement(v.Tag, svg)
	v.El = el
	r.patchData(el, nil, v.Data, svg)
	for _, child := range v.Children {
		r.mount(child, el, nil, svg)
	}
	r.host.Insert(container, el, anchor)
}

func (r *Renderer) mountFragment(v *vdom.VNode, container, anchor Node, svg bool) {
	if len(v.Children) == 0 {
		v.El = r.host.CreateText("")
		r.host.Insert(container, v.El, anchor)
		return
	}
	for _, child := range v.Children {
		r.mount(child, container, anchor, svg)
	}
	v.El = v.Children[0].El
}

func (r *Renderer) mountPortal(v *vdom.VNode, container, anchor Node, svg bool) {
	target := r.resolveTarget(v, container)
	v.TargetEl = target
	for _, child := range v.Children {
		r.mount(child, target, nil, svg)
	}
	v.El = r.host.CreateText("")
	r.host.Insert(container, v.El, anchor)
}

// resolveTarget finds the host node a portal renders into. A selector that
// matches nothing falls back to fallback with an E100 warning.
func (r *Renderer) resolveTarget(v *vdom.VNode, fallback Node) Node {
	if v.Tag != "" {
		if target := r.host.Query(v.Tag); target != nil {
			return target
		}
		r.warn(errors.New("E100").WithField("selector", v.Tag))
		return fallback
	}
	if v.Target != nil {
		return v.Target
	}
	r.warn(errors.New("E100").WithField("selector", "<none>"))
	return fallback
}

func describeTag(v *vdom.VNode) string {
	if v.Tag != "" {
		return v.Tag
	}
	if v.Component != nil {
		return componentName(v.Component)
	}
	return "<nil>"
}

// componentName returns the function name of a component, or its type when
// it is not a func.
func componentName(c any) string {
	rv := reflect.ValueOf(c)
	if rv.Kind() == reflect.Func && !rv.IsNil() {
		if fn := runtime.FuncForPC(rv.Pointer()); fn != nil {
			return fn.Name()
		}
	}
	return fmt.Sprintf("%T", c)
}
