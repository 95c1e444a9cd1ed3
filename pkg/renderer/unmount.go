package renderer

import (
	"github.com/vango-dev/reactor/pkg/vdom"
)

// unmount tears down v. When remove is false the host nodes are left in
// place because an ancestor element is being removed anyway; lifecycle
// hooks and effects are still torn down. Portal children always leave
// their target.
func (r *Renderer) unmount(v *vdom.VNode, remove bool) {
	switch {
	case v.Flags.Is(vdom.FlagElement):
		for _, child := range v.Children {
			r.unmount(child, false)
		}
		if remove {
			r.removeHost(v.El)
		}
	case v.Flags.Is(vdom.FlagFragment):
		if len(v.Children) == 0 {
			if remove {
				r.removeHost(v.El)
			}
			return
		}
		for _, child := range v.Children {
			r.unmount(child, remove)
		}
	case v.Flags.Is(vdom.FlagPortal):
		for _, child := range v.Children {
			r.unmount(child, true)
		}
		if remove {
			r.removeHost(v.El)
		}
	case v.Flags.Is(vdom.FlagComponent):
		if inst, ok := v.Instance.(*instance); ok {
			r.unmountComponent(inst, remove)
			return
		}
		if remove {
			r.removeHost(v.El)
		}
	default:
		if remove {
			r.removeHost(v.El)
		}
	}
}

func (r *Renderer) removeHost(n Node) {
	if n == nil {
		return
	}
	if parent := r.host.Parent(n); parent != nil {
		r.host.Remove(parent, n)
	}
}
