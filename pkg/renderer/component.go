package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/scheduler"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// instance is the mounted state of a component vnode. It implements
// vdom.Instance and vdom.ContextProvider.
type instance struct {
	uid    uint64
	name   string
	r      *Renderer
	vnode  *vdom.VNode
	parent *instance

	component vdom.Component

	rawProps map[string]any
	props    *reactive.Proxy
	view     *reactive.Proxy
	slots    []*vdom.VNode
	provides map[any]any

	subtree  *vdom.VNode
	el       Node
	effect   *reactive.Effect
	job      *scheduler.Job
	watchers []reactive.StopHandle

	// Mount position for the first render only.
	container Node
	anchor    Node
	svg       bool

	mounted   bool
	unmounted bool
	// suspended is set while a parent writes new props; the parent then
	// updates the instance itself.
	suspended bool
}

var (
	_ vdom.Instance        = (*instance)(nil)
	_ vdom.ContextProvider = (*instance)(nil)
)

func (r *Renderer) mountComponent(v *vdom.VNode, container, anchor Node, svg bool) {
	r.nextUID++
	inst := &instance{
		uid:       r.nextUID,
		name:      describeTag(v),
		r:         r,
		vnode:     v,
		parent:    r.current,
		rawProps:  propsOf(v.Data),
		slots:     v.Children,
		container: container,
		anchor:    anchor,
		svg:       svg,
	}
	inst.props = r.store.ShallowReactive(inst.rawProps)
	inst.view = r.store.ShallowReadonly(inst.props)
	v.Instance = inst

	r.withInstance(inst, func() {
		r.store.Untracked(func() {
			r.guard(inst, "setup", func() { inst.component = inst.setup(v.Component) })
		})
	})
	if inst.component == nil {
		inst.component = vdom.RenderFunc(func() *vdom.VNode { return nil })
	}

	inst.job = &scheduler.Job{ID: inst.uid, Run: inst.run, Name: inst.name}
	inst.effect = r.store.Effect(inst.update, reactive.WithScheduler(inst.schedule))
}

// setup creates the Component behind a component vnode. A functional
// component renders from the current props and slots on every update.
func (i *instance) setup(c any) vdom.Component {
	switch fn := c.(type) {
	case vdom.Constructor:
		return fn(vdom.NewSetupContext(i))
	case func(*vdom.SetupContext) vdom.Component:
		return fn(vdom.NewSetupContext(i))
	case vdom.FuncComponent:
		return i.functional(fn)
	case func(vdom.Props, []*vdom.VNode) *vdom.VNode:
		return i.functional(fn)
	}
	i.r.warn(errors.New("E101").WithField("tag", fmt.Sprintf("%T", c)))
	return nil
}

func (i *instance) functional(fn vdom.FuncComponent) vdom.Component {
	return vdom.RenderFunc(func() *vdom.VNode {
		return fn(copyProps(i.rawProps), i.slots)
	})
}

func (r *Renderer) withInstance(inst *instance, fn func()) {
	prev := r.current
	r.current = inst
	defer func() { r.current = prev }()
	fn()
}

// update is the render effect: the first run mounts the subtree, later runs
// patch it.
func (i *instance) update() {
	i.r.withInstance(i, func() {
		if !i.mounted {
			tree := i.render()
			i.subtree = tree
			i.r.mount(tree, i.container, i.anchor, i.svg)
			i.container, i.anchor = nil, nil
			i.el = tree.El
			i.vnode.El = tree.El
			i.mounted = true
			i.callHook("mounted")
			return
		}

		i.callHook("beforeUpdate")
		prevTree := i.subtree
		nextTree := i.render()
		i.subtree = nextTree
		i.r.patch(prevTree, nextTree, i.r.host.Parent(firstHost(prevTree)), i.svg)
		i.setHostEl(nextTree.El)
		i.callHook("updated")
	})
}

func (i *instance) render() *vdom.VNode {
	var tree *vdom.VNode
	i.r.guard(i, "render", func() { tree = i.component.Render() })
	if tree == nil {
		tree = vdom.Text("")
	}
	return tree
}

// setHostEl propagates a new root host node to the vnode and to every
// ancestor component whose subtree is this component.
func (i *instance) setHostEl(el Node) {
	v := i.vnode
	i.el, v.El = el, el
	for p := i.parent; p != nil && p.subtree == v; p = p.parent {
		p.el, p.vnode.El = el, el
		v = p.vnode
	}
}

func (i *instance) schedule(*reactive.Effect) {
	if i.suspended {
		return
	}
	i.r.queue.QueueJob(i.job)
}

func (i *instance) run() {
	if i.effect.Active() {
		i.effect.Run()
	}
}

// patchComponent reuses the instance of prev for next. New props are
// written through the reactive props, and the component re-renders when
// props changed or either side has slots.
func (r *Renderer) patchComponent(prev, next *vdom.VNode, svg bool) {
	inst, ok := prev.Instance.(*instance)
	if !ok {
		r.replace(prev, next, r.host.Parent(firstHost(prev)), svg)
		return
	}
	next.Instance = inst
	next.El = prev.El
	inst.vnode = next

	nextProps := propsOf(next.Data)
	propsChanged := propsDiffer(inst.rawProps, nextProps)
	slotsChanged := len(prev.Children) > 0 || len(next.Children) > 0
	if !propsChanged && !slotsChanged {
		return
	}

	inst.slots = next.Children
	if propsChanged {
		inst.setProps(nextProps)
	}
	r.queue.Invalidate(inst.job)
	inst.run()
}

func (i *instance) setProps(next map[string]any) {
	i.suspended = true
	defer func() { i.suspended = false }()

	for _, key := range sortedKeys(next) {
		old, had := i.rawProps[key]
		if !had || reactive.HasChanged(next[key], old) {
			i.props.Set(key, next[key])
		}
	}
	for _, key := range sortedKeys(i.rawProps) {
		if _, ok := next[key]; !ok {
			i.props.Delete(key)
		}
	}
}

func (r *Renderer) unmountComponent(i *instance, remove bool) {
	i.callHook("beforeUnmount")
	for _, stop := range i.watchers {
		stop()
	}
	i.watchers = nil
	if i.effect != nil {
		i.effect.Stop()
	}
	if i.job != nil {
		r.queue.Invalidate(i.job)
	}
	if i.subtree != nil {
		r.unmount(i.subtree, remove)
	}
	i.unmounted = true
	i.callHook("unmounted")
}

func (i *instance) callHook(name string) {
	c := i.component
	var hook func()
	switch name {
	case "mounted":
		if h, ok := c.(vdom.MountedHook); ok {
			hook = h.Mounted
		}
	case "beforeUpdate":
		if h, ok := c.(vdom.BeforeUpdateHook); ok {
			hook = h.BeforeUpdate
		}
	case "updated":
		if h, ok := c.(vdom.UpdatedHook); ok {
			hook = h.Updated
		}
	case "beforeUnmount":
		if h, ok := c.(vdom.BeforeUnmountHook); ok {
			hook = h.BeforeUnmount
		}
	case "unmounted":
		if h, ok := c.(vdom.UnmountedHook); ok {
			hook = h.Unmounted
		}
	}
	if hook == nil {
		return
	}
	i.r.store.Untracked(func() {
		i.r.guard(i, name, hook)
	})
}

// guard runs fn and routes a panic to the error handler as E102. Without a
// handler the panic propagates.
func (r *Renderer) guard(inst *instance, phase string, fn func()) {
	if r.onError == nil {
		fn()
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.onError(errors.New("E102").
				WithField("component", inst.name).
				WithField("phase", phase).
				Wrap(panicError(rec)))
		}
	}()
	fn()
}

func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return fmt.Errorf("%v", rec)
}

// UID implements vdom.Instance.
func (i *instance) UID() uint64 { return i.uid }

// Component implements vdom.Instance.
func (i *instance) Component() vdom.Component { return i.component }

// Subtree implements vdom.Instance.
func (i *instance) Subtree() *vdom.VNode { return i.subtree }

func (i *instance) El() any { return i.el }

func (i *instance) Store() *reactive.Store { return i.r.store }

func (i *instance) Props() *reactive.Proxy { return i.view }

func (i *instance) Slots() []*vdom.VNode { return i.slots }

func (i *instance) Provide(key, value any) {
	if i.provides == nil {
		i.provides = make(map[any]any)
	}
	i.provides[key] = value
}

// Inject looks in the ancestors' provides, nearest first, then in the
// renderer-wide provides.
func (i *instance) Inject(key any, defaultValue ...any) any {
	for p := i.parent; p != nil; p = p.parent {
		if v, ok := p.provides[key]; ok {
			return v
		}
	}
	if v, ok := i.r.provides[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	i.r.warn(errors.New("R011").
		WithField("key", fmt.Sprint(key)).
		WithField("component", i.name))
	return nil
}

func (i *instance) Emit(event string, payload any) {
	if event == "" {
		return
	}
	h := i.rawProps["on"+strings.ToUpper(event[:1])+event[1:]]
	if fn, ok := h.(func(any)); ok {
		fn(payload)
		return
	}
	if handler, ok := vdom.ToHandler(h); ok {
		handler(vdom.Event{Type: event, Value: payload})
	}
}

func (i *instance) Update() {
	i.r.queue.QueueJob(i.job)
}

func (i *instance) Watch(source any, cb reactive.WatchCallback, opts ...reactive.WatchOption) reactive.StopHandle {
	stop := reactive.Watch(i.r.store, source, cb, i.watchOptions(opts)...)
	i.watchers = append(i.watchers, stop)
	return stop
}

func (i *instance) WatchEffect(fn func(reactive.InvalidateFunc), opts ...reactive.WatchOption) reactive.StopHandle {
	stop := reactive.WatchEffect(i.r.store, fn, i.watchOptions(opts)...)
	i.watchers = append(i.watchers, stop)
	return stop
}

func (i *instance) watchOptions(opts []reactive.WatchOption) []reactive.WatchOption {
	out := []reactive.WatchOption{reactive.WithFlusher(i.r.queue)}
	if i.r.onError != nil {
		out = append(out, reactive.WatchOnError(i.r.onError))
	}
	return append(out, opts...)
}

// propsOf copies a component vnode's data without the reserved key.
func propsOf(data vdom.Data) map[string]any {
	props := make(map[string]any, len(data))
	for k, v := range data {
		if k == "key" {
			continue
		}
		props[k] = v
	}
	return props
}

func copyProps(m map[string]any) vdom.Props {
	props := make(vdom.Props, len(m))
	for k, v := range m {
		props[k] = v
	}
	return props
}

func propsDiffer(prev, next map[string]any) bool {
	if len(prev) != len(next) {
		return true
	}
	for k, v := range next {
		old, ok := prev[k]
		if !ok || reactive.HasChanged(v, old) {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
