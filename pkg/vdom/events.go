package vdom

// On creates a handler entry for an arbitrary event name. The name is
// capitalized into the data key ("click" becomes "onClick").
func On(event string, handler any) Attr {
	if event == "" {
		return Attr{}
	}
	b := []byte(event)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return attr("on"+string(b), handler)
}

// Mouse events

// OnClick handles click events.
func OnClick(handler any) Attr { return On("click", handler) }

// OnDblClick handles double-click events.
func OnDblClick(handler any) Attr { return On("dblclick", handler) }

// OnMouseEnter handles mouseenter events.
func OnMouseEnter(handler any) Attr { return On("mouseenter", handler) }

// OnMouseLeave handles mouseleave events.
func OnMouseLeave(handler any) Attr { return On("mouseleave", handler) }

// Keyboard events

// OnKeyDown handles keydown events.
func OnKeyDown(handler any) Attr { return On("keydown", handler) }

// OnKeyUp handles keyup events.
func OnKeyUp(handler any) Attr { return On("keyup", handler) }

// Form events

// OnInput handles input events (fired when value changes).
func OnInput(handler any) Attr { return On("input", handler) }

// OnChange handles change events (fired when value is committed).
func OnChange(handler any) Attr { return On("change", handler) }

// OnSubmit handles form submission.
func OnSubmit(handler any) Attr { return On("submit", handler) }

// Focus events

// OnFocus handles focus events.
func OnFocus(handler any) Attr { return On("focus", handler) }

// OnBlur handles blur events.
func OnBlur(handler any) Attr { return On("blur", handler) }
