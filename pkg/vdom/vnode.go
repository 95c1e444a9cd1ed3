package vdom

// VNode is a virtual node. The renderer fills in El, TargetEl and Instance
// when the node is mounted; a node must not be mounted twice.
type VNode struct {
	Flags Flags
	// Tag is the element tag name, or the target selector of a portal.
	Tag string
	// Component is the Constructor or FuncComponent of a component node.
	Component any
	// Target is the portal target host node when it is not a selector.
	Target     any
	Data       Data
	Children   []*VNode
	ChildFlags ChildFlags
	Text       string
	Key        string

	El       any
	TargetEl any
	Instance Instance
}

// Data is the payload of a node: attributes, DOM properties, style, class
// and event handlers for elements; props for components.
type Data map[string]any

// Props are the data a component receives.
type Props = Data

// Get returns the value for key, or nil when data is nil.
func (d Data) Get(key string) any {
	if d == nil {
		return nil
	}
	return d[key]
}

// IsElement reports whether v is an HTML or SVG element.
func (v *VNode) IsElement() bool { return v != nil && v.Flags.Is(FlagElement) }

// IsComponent reports whether v is a stateful or functional component.
func (v *VNode) IsComponent() bool { return v != nil && v.Flags.Is(FlagComponent) }

// IsText reports whether v is a text node.
func (v *VNode) IsText() bool { return v != nil && v.Flags.Is(FlagText) }

// IsFragment reports whether v is a fragment.
func (v *VNode) IsFragment() bool { return v != nil && v.Flags.Is(FlagFragment) }

// IsPortal reports whether v is a portal.
func (v *VNode) IsPortal() bool { return v != nil && v.Flags.Is(FlagPortal) }

// IsInteractive returns true if this node has event handlers.
func (v *VNode) IsInteractive() bool {
	if !v.IsElement() {
		return false
	}
	for key := range v.Data {
		if IsEventKey(key) {
			return true
		}
	}
	return false
}

// Instance is the mounted state of a component node.
type Instance interface {
	UID() uint64
	Component() Component
	Subtree() *VNode
	// El is the host node of the component's root, shared with the
	// component's VNode.El.
	El() any
}

// Event is delivered to event handlers.
type Event struct {
	Type   string
	Target any
	Value  any
	Detail map[string]any
}

// Handler handles an event.
type Handler func(Event)

// ToHandler converts the accepted handler shapes (Handler, func(Event),
// func(), func(string)) to a Handler. func(string) receives the event value
// formatted as a string.
func ToHandler(v any) (Handler, bool) {
	switch h := v.(type) {
	case Handler:
		return h, h != nil
	case func(Event):
		return h, h != nil
	case func():
		if h == nil {
			return nil, false
		}
		return func(Event) { h() }, true
	case func(string):
		if h == nil {
			return nil, false
		}
		return func(e Event) {
			s, _ := e.Value.(string)
			h(s)
		}, true
	}
	return nil, false
}

// IsEventKey reports whether a data key names an event handler: "on"
// followed by an upper-case letter, as in "onClick".
func IsEventKey(key string) bool {
	return len(key) > 2 && key[0] == 'o' && key[1] == 'n' && key[2] >= 'A' && key[2] <= 'Z'
}

// EventName returns the host event name for an event key ("onClick" is
// "click").
func EventName(key string) string {
	name := []byte(key[2:])
	for i, c := range name {
		if c >= 'A' && c <= 'Z' {
			name[i] = c + ('a' - 'A')
		}
	}
	return string(name)
}
