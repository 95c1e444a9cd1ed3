package memdom

import (
	"fmt"
	"strings"

	"github.com/vango-dev/reactor/pkg/vdom"
)

// OpKind names a recorded host mutation.
type OpKind string

const (
	OpCreateElement  OpKind = "createElement"
	OpCreateText     OpKind = "createText"
	OpSetText        OpKind = "setText"
	OpSetAttribute   OpKind = "setAttribute"
	OpRemoveAttr     OpKind = "removeAttribute"
	OpSetProperty    OpKind = "setProperty"
	OpSetStyle       OpKind = "setStyle"
	OpRemoveStyle    OpKind = "removeStyle"
	OpAddListener    OpKind = "addEventListener"
	OpRemoveListener OpKind = "removeEventListener"
	OpInsert         OpKind = "insert"
	OpRemove         OpKind = "remove"
)

// Op is one recorded mutation.
type Op struct {
	Kind  OpKind
	Node  *Node
	Key   string
	Value string
}

func (o Op) String() string {
	if o.Key == "" {
		return fmt.Sprintf("%s #%d", o.Kind, o.Node.ID)
	}
	return fmt.Sprintf("%s #%d %s=%q", o.Kind, o.Node.ID, o.Key, o.Value)
}

// Document owns a tree and implements renderer.Host. It is not safe for
// concurrent use.
type Document struct {
	root   *Node
	ops    []Op
	nextID uint64
}

// New creates an empty document.
func New() *Document {
	d := &Document{}
	d.root = d.newNode(DocumentNode)
	return d
}

func (d *Document) newNode(t NodeType) *Node {
	d.nextID++
	return &Node{ID: d.nextID, Type: t}
}

func (d *Document) record(kind OpKind, n *Node, key, value string) {
	d.ops = append(d.ops, Op{Kind: kind, Node: n, Key: key, Value: value})
}

// Root returns the document node.
func (d *Document) Root() *Node {
	return d.root
}

// CreateContainer appends a div with the given id to the document and
// returns it. It is not recorded in the operation log.
func (d *Document) CreateContainer(id string) *Node {
	n := d.newNode(ElementNode)
	n.Tag = "div"
	n.Attrs = map[string]string{"id": id}
	n.Parent = d.root
	d.root.Children = append(d.root.Children, n)
	return n
}

// NodeByID finds an attached node by ID.
func (d *Document) NodeByID(id uint64) *Node {
	return findNode(d.root, id)
}

func findNode(n *Node, id uint64) *Node {
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := findNode(c, id); found != nil {
			return found
		}
	}
	return nil
}

// Ops returns the recorded operations.
func (d *Document) Ops() []Op {
	return d.ops
}

// ResetOps clears the operation log.
func (d *Document) ResetOps() {
	d.ops = nil
}

// CountOps counts recorded operations of a kind.
func (d *Document) CountOps(kind OpKind) int {
	n := 0
	for _, op := range d.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func asNode(n any) *Node {
	return n.(*Node)
}

// CreateElement implements renderer.Host.
func (d *Document) CreateElement(tag string, svg bool) any {
	n := d.newNode(ElementNode)
	n.Tag = tag
	n.SVG = svg
	d.record(OpCreateElement, n, "", tag)
	return n
}

// CreateText implements renderer.Host.
func (d *Document) CreateText(text string) any {
	n := d.newNode(TextNode)
	n.Text = text
	d.record(OpCreateText, n, "", text)
	return n
}

// SetText implements renderer.Host.
func (d *Document) SetText(node any, text string) {
	n := asNode(node)
	n.Text = text
	d.record(OpSetText, n, "", text)
}

// SetAttribute implements renderer.Host.
func (d *Document) SetAttribute(el any, key, value string) {
	n := asNode(el)
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	d.record(OpSetAttribute, n, key, value)
}

// RemoveAttribute implements renderer.Host.
func (d *Document) RemoveAttribute(el any, key string) {
	n := asNode(el)
	delete(n.Attrs, key)
	d.record(OpRemoveAttr, n, key, "")
}

// SetProperty implements renderer.Host. A nil value deletes the property.
func (d *Document) SetProperty(el any, key string, value any) {
	n := asNode(el)
	if value == nil {
		delete(n.Props, key)
	} else {
		if n.Props == nil {
			n.Props = make(map[string]any)
		}
		n.Props[key] = value
	}
	d.record(OpSetProperty, n, key, fmt.Sprint(value))
}

// SetStyle implements renderer.Host.
func (d *Document) SetStyle(el any, name, value string) {
	n := asNode(el)
	if n.Style == nil {
		n.Style = make(map[string]string)
	}
	n.Style[name] = value
	d.record(OpSetStyle, n, name, value)
}

// RemoveStyle implements renderer.Host.
func (d *Document) RemoveStyle(el any, name string) {
	n := asNode(el)
	delete(n.Style, name)
	d.record(OpRemoveStyle, n, name, "")
}

// AddEventListener implements renderer.Host. Each event has at most one
// listener per node.
func (d *Document) AddEventListener(el any, event string, handler vdom.Handler) {
	n := asNode(el)
	if n.Listeners == nil {
		n.Listeners = make(map[string]vdom.Handler)
	}
	n.Listeners[event] = handler
	d.record(OpAddListener, n, event, "")
}

// RemoveEventListener implements renderer.Host.
func (d *Document) RemoveEventListener(el any, event string) {
	n := asNode(el)
	delete(n.Listeners, event)
	d.record(OpRemoveListener, n, event, "")
}

// Insert implements renderer.Host.
func (d *Document) Insert(parent, child, anchor any) {
	p, c := asNode(parent), asNode(child)
	if c.Parent != nil {
		c.Parent.detach(c)
	}
	c.Parent = p
	idx := -1
	if anchor != nil {
		idx = p.indexOf(asNode(anchor))
	}
	if idx < 0 {
		p.Children = append(p.Children, c)
	} else {
		p.Children = append(p.Children, nil)
		copy(p.Children[idx+1:], p.Children[idx:])
		p.Children[idx] = c
	}
	d.record(OpInsert, c, "", "")
}

// Remove implements renderer.Host.
func (d *Document) Remove(parent, child any) {
	c := asNode(child)
	if p := asNode(parent); p.indexOf(c) >= 0 {
		p.detach(c)
	} else if c.Parent != nil {
		c.Parent.detach(c)
	}
	d.record(OpRemove, c, "", "")
}

// Parent implements renderer.Host.
func (d *Document) Parent(node any) any {
	n := asNode(node)
	if n.Parent == nil {
		return nil
	}
	return n.Parent
}

// NextSibling implements renderer.Host.
func (d *Document) NextSibling(node any) any {
	n := asNode(node)
	if n.Parent == nil {
		return nil
	}
	i := n.Parent.indexOf(n)
	if i < 0 || i+1 >= len(n.Parent.Children) {
		return nil
	}
	return n.Parent.Children[i+1]
}

// Query implements renderer.Host.
func (d *Document) Query(selector string) any {
	if n := d.QueryNode(selector); n != nil {
		return n
	}
	return nil
}

// QueryNode returns the first element in document order matching a simple
// selector: an optional tag followed by any number of #id and .class parts.
func (d *Document) QueryNode(selector string) *Node {
	all := d.QueryAll(selector)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// QueryAll returns every element matching selector in document order.
func (d *Document) QueryAll(selector string) []*Node {
	sel, ok := parseSelector(selector)
	if !ok {
		return nil
	}
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Type == ElementNode && sel.matches(n) {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(d.root)
	return out
}

type selector struct {
	tag     string
	id      string
	classes []string
}

func parseSelector(s string) (selector, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " >+~[") {
		return selector{}, false
	}
	var sel selector
	i := strings.IndexAny(s, "#.")
	if i < 0 {
		sel.tag = s
		return sel, true
	}
	sel.tag = s[:i]
	rest := s[i:]
	for rest != "" {
		kind := rest[0]
		rest = rest[1:]
		end := strings.IndexAny(rest, "#.")
		if end < 0 {
			end = len(rest)
		}
		part := rest[:end]
		rest = rest[end:]
		if part == "" {
			return selector{}, false
		}
		if kind == '#' {
			sel.id = part
		} else {
			sel.classes = append(sel.classes, part)
		}
	}
	return sel, true
}

func (s selector) matches(n *Node) bool {
	if s.tag != "" && !strings.EqualFold(s.tag, n.Tag) {
		return false
	}
	if s.id != "" && n.Attrs["id"] != s.id {
		return false
	}
	for _, c := range s.classes {
		if !n.HasClass(c) {
			return false
		}
	}
	return true
}

// Dispatch delivers an event to the first handler found on n or its
// ancestors. It reports whether a handler ran.
func (d *Document) Dispatch(n *Node, event string, ev vdom.Event) bool {
	ev.Type = event
	if ev.Target == nil {
		ev.Target = n
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if h, ok := cur.Listeners[event]; ok {
			h(ev)
			return true
		}
	}
	return false
}

// Click dispatches a click on n.
func (d *Document) Click(n *Node) bool {
	return d.Dispatch(n, "click", vdom.Event{})
}

// Input sets the value property of n and dispatches an input event
// carrying the value.
func (d *Document) Input(n *Node, value string) bool {
	if n.Props == nil {
		n.Props = make(map[string]any)
	}
	n.Props["value"] = value
	return d.Dispatch(n, "input", vdom.Event{Value: value})
}
