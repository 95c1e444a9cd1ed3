// Package vdom defines the virtual node model rendered by package renderer.
//
// A VNode describes one piece of UI: an element, a text node, a fragment of
// siblings, a portal into another host container, or a component. Nodes are
// classified by Flags and their children by ChildFlags, so the renderer can
// dispatch with a switch instead of inspecting the node.
//
// # Creating Nodes
//
// H is the general factory:
//
//	H("div", Data{"class": "card"}, []*VNode{
//	    H("h1", nil, "Title"),
//	    H("p", nil, "Content"),
//	})
//
// Element factories offer the same through variadic arguments:
//
//	Div(Class("card"),
//	    H1(Text("Title")),
//	    Button(OnClick(handler), Text("Save")),
//	)
//
// Multiple children always get keys; children without an explicit key get
// the positional default "|<index>".
//
// # Components
//
// A stateful component is created by a Constructor, which receives a
// SetupContext and returns a Component. The renderer re-runs Render inside a
// reactive effect, so any reactive state read during Render schedules an
// update when it changes. A FuncComponent is a plain function of props and
// slots.
package vdom
