package vdom

import (
	"github.com/vango-dev/reactor/pkg/reactive"
)

// Component is anything that can render to a VNode.
type Component interface {
	Render() *VNode
}

// Optional lifecycle hooks a Component may implement.
type (
	MountedHook       interface{ Mounted() }
	BeforeUpdateHook  interface{ BeforeUpdate() }
	UpdatedHook       interface{ Updated() }
	BeforeUnmountHook interface{ BeforeUnmount() }
	UnmountedHook     interface{ Unmounted() }
)

// Constructor creates a stateful component instance.
type Constructor func(ctx *SetupContext) Component

// FuncComponent is a stateless component.
type FuncComponent func(props Props, slots []*VNode) *VNode

// RenderFunc adapts a function to Component.
type RenderFunc func() *VNode

// Render implements Component.
func (f RenderFunc) Render() *VNode {
	return f()
}

// Func creates a component from a render function.
func Func(render func() *VNode) Component {
	return RenderFunc(render)
}

// ContextProvider is implemented by the renderer's component instances.
type ContextProvider interface {
	// Store is the reactive store the component renders in.
	Store() *reactive.Store
	// Props is a shallow readonly view over the component's props.
	Props() *reactive.Proxy
	// Slots are the children passed to the component.
	Slots() []*VNode
	// Provide makes value available to descendants under key.
	Provide(key, value any)
	// Inject looks key up in the ancestors' provides. Without a provider
	// it returns the default, or nil with a warning when none is given.
	Inject(key any, defaultValue ...any) any
	// Emit calls the on<Event> prop handler, if any, with payload.
	Emit(event string, payload any)
	// Update forces a re-render.
	Update()
	// Watch and WatchEffect create watchers that are stopped when the
	// component unmounts and flush through the renderer's queue.
	Watch(source any, cb reactive.WatchCallback, opts ...reactive.WatchOption) reactive.StopHandle
	WatchEffect(fn func(reactive.InvalidateFunc), opts ...reactive.WatchOption) reactive.StopHandle
}

// SetupContext is passed to a Constructor.
type SetupContext struct {
	ContextProvider
}

// NewSetupContext wraps a provider.
func NewSetupContext(p ContextProvider) *SetupContext {
	return &SetupContext{ContextProvider: p}
}

// Prop reads a single prop through the props view.
func (c *SetupContext) Prop(name string) any {
	return c.Props().Get(name)
}
