package vdom

import (
	"fmt"
	"strings"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// Attr is a single data entry for an element factory.
type Attr struct {
	Key   string
	Value any
}

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// El creates an element from variadic arguments.
// Arguments can be: nil, Attr, []Attr, Data, *VNode, []*VNode, string.
func El(tag string, args ...any) *VNode {
	var data Data
	set := func(key string, value any) {
		if key == "" {
			return
		}
		if data == nil {
			data = make(Data)
		}
		data[key] = value
	}

	var children []any
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			set(v.Key, v.Value)
		case []Attr:
			for _, a := range v {
				set(a.Key, a.Value)
			}
		case Data:
			for k, val := range v {
				set(k, val)
			}
		case *VNode:
			if v != nil {
				children = append(children, v)
			}
		case []*VNode:
			for _, child := range v {
				if child != nil {
					children = append(children, child)
				}
			}
		case string:
			children = append(children, Text(v))
		default:
			children = append(children, Text(fmt.Sprint(v)))
		}
	}

	if len(children) == 0 {
		return H(tag, data, nil)
	}
	return H(tag, data, children)
}

// Group creates a fragment from the same arguments El accepts for children.
func Group(children ...any) *VNode {
	return H(Fragment, nil, children)
}

// Teleport creates a portal rendering children into target, a selector or
// a host node.
func Teleport(target any, children ...any) *VNode {
	return H(Portal, Data{"target": target}, children)
}

// Comp creates a component node with props and slots.
func Comp(tag any, props Props, slots ...*VNode) *VNode {
	if len(slots) == 0 {
		return H(tag, props, nil)
	}
	return H(tag, props, slots)
}

// Element factories.

func Div(args ...any) *VNode     { return El("div", args...) }
func Span(args ...any) *VNode    { return El("span", args...) }
func P(args ...any) *VNode       { return El("p", args...) }
func H1(args ...any) *VNode      { return El("h1", args...) }
func H2(args ...any) *VNode      { return El("h2", args...) }
func H3(args ...any) *VNode      { return El("h3", args...) }
func Header(args ...any) *VNode  { return El("header", args...) }
func Footer(args ...any) *VNode  { return El("footer", args...) }
func Main(args ...any) *VNode    { return El("main", args...) }
func Section(args ...any) *VNode { return El("section", args...) }
func Nav(args ...any) *VNode     { return El("nav", args...) }
func Ul(args ...any) *VNode      { return El("ul", args...) }
func Ol(args ...any) *VNode      { return El("ol", args...) }
func Li(args ...any) *VNode      { return El("li", args...) }
func A(args ...any) *VNode       { return El("a", args...) }
func Strong(args ...any) *VNode  { return El("strong", args...) }
func Em(args ...any) *VNode      { return El("em", args...) }
func Code(args ...any) *VNode    { return El("code", args...) }
func Pre(args ...any) *VNode     { return El("pre", args...) }
func Br(args ...any) *VNode      { return El("br", args...) }
func Hr(args ...any) *VNode      { return El("hr", args...) }
func Img(args ...any) *VNode     { return El("img", args...) }

// Form elements

func Form(args ...any) *VNode     { return El("form", args...) }
func Button(args ...any) *VNode   { return El("button", args...) }
func Input(args ...any) *VNode    { return El("input", args...) }
func Label(args ...any) *VNode    { return El("label", args...) }
func Select(args ...any) *VNode   { return El("select", args...) }
func Option(args ...any) *VNode   { return El("option", args...) }
func Textarea(args ...any) *VNode { return El("textarea", args...) }

// SVG elements

func Svg(args ...any) *VNode    { return El("svg", args...) }
func Circle(args ...any) *VNode { return El("circle", args...) }
func Path(args ...any) *VNode   { return El("path", args...) }

// Attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// ClassMap sets the class from a set of conditional class names.
func ClassMap(classes map[string]bool) Attr { return attr("class", classes) }

// Style sets individual style properties.
func Style(props map[string]string) Attr { return attr("style", props) }

// StyleAttr sets the style attribute as a string.
func StyleAttr(style string) Attr { return attr("style", style) }

// Attribute sets an arbitrary attribute.
func Attribute(key string, value any) Attr { return attr(key, value) }

func Href(url string) Attr            { return attr("href", url) }
func Type(t string) Attr              { return attr("type", t) }
func Name(name string) Attr           { return attr("name", name) }
func Placeholder(text string) Attr    { return attr("placeholder", text) }
func Title(text string) Attr          { return attr("title", text) }
func Disabled(disabled bool) Attr     { return attr("disabled", disabled) }
func DataAttr(key, value string) Attr { return attr("data-"+key, value) }
func AriaLabel(label string) Attr     { return attr("aria-label", label) }

// DOM properties

// Value sets the value property.
func Value(v any) Attr { return attr("value", v) }

// Checked sets the checked property.
func Checked(checked bool) Attr { return attr("checked", checked) }

// Selected sets the selected property.
func Selected(selected bool) Attr { return attr("selected", selected) }
