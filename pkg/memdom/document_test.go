package memdom_test

import (
	"testing"

	"github.com/vango-dev/reactor/pkg/memdom"
	"github.com/vango-dev/reactor/pkg/renderer"
	"github.com/vango-dev/reactor/pkg/vdom"
)

var _ renderer.Host = (*memdom.Document)(nil)

func TestInsertAndRemove(t *testing.T) {
	d := memdom.New()
	root := d.CreateContainer("app")

	a := d.CreateElement("p", false).(*memdom.Node)
	b := d.CreateText("b").(*memdom.Node)
	c := d.CreateElement("span", false).(*memdom.Node)

	d.Insert(root, a, nil)
	d.Insert(root, c, nil)
	d.Insert(root, b, c)

	if len(root.Children) != 3 || root.Children[1] != b {
		t.Fatalf("expected b inserted before c, got %v", root.Children)
	}
	if d.NextSibling(a) != b || d.NextSibling(c) != nil {
		t.Error("unexpected siblings")
	}
	if d.Parent(a) != root {
		t.Error("expected parent to be container")
	}

	// Inserting an attached node moves it.
	d.Insert(root, a, nil)
	if root.Children[2] != a || len(root.Children) != 3 {
		t.Errorf("expected a moved to the end, got %v", root.Children)
	}

	d.Remove(root, b)
	if len(root.Children) != 2 || b.Parent != nil {
		t.Errorf("expected b removed, got %v", root.Children)
	}
	if d.Parent(b) != nil {
		t.Error("expected detached node to have no parent")
	}
}

func TestAttributesPropertiesStyle(t *testing.T) {
	d := memdom.New()
	el := d.CreateElement("input", false).(*memdom.Node)

	d.SetAttribute(el, "class", "a")
	d.SetProperty(el, "value", "x")
	d.SetStyle(el, "color", "red")
	if v, _ := el.Attr("class"); v != "a" || el.Prop("value") != "x" || el.Style["color"] != "red" {
		t.Errorf("unexpected node state %+v", el)
	}

	d.RemoveAttribute(el, "class")
	d.SetProperty(el, "value", nil)
	d.RemoveStyle(el, "color")
	if _, ok := el.Attr("class"); ok || el.Prop("value") != nil || len(el.Style) != 0 {
		t.Errorf("expected cleared node, got %+v", el)
	}
	if d.CountOps(memdom.OpSetAttribute) != 1 || d.CountOps(memdom.OpRemoveAttr) != 1 {
		t.Errorf("unexpected op log %v", d.Ops())
	}

	d.ResetOps()
	if len(d.Ops()) != 0 {
		t.Error("expected empty log after reset")
	}
}

func TestQuery(t *testing.T) {
	d := memdom.New()
	root := d.CreateContainer("app")
	btn := d.CreateElement("button", false).(*memdom.Node)
	d.SetAttribute(btn, "class", "primary big")
	d.Insert(root, btn, nil)

	tests := []struct {
		selector string
		want     *memdom.Node
	}{
		{"#app", root},
		{"button", btn},
		{".primary", btn},
		{"button.big.primary", btn},
		{"div#app", root},
		{".missing", nil},
		{"div > p", nil},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			if got := d.QueryNode(tt.selector); got != tt.want {
				t.Errorf("QueryNode(%q) = %v, want %v", tt.selector, got, tt.want)
			}
		})
	}

	if d.Query(".missing") != nil {
		t.Error("expected untyped nil for a missing node")
	}
}

func TestDispatchBubbles(t *testing.T) {
	d := memdom.New()
	root := d.CreateContainer("app")
	inner := d.CreateText("label").(*memdom.Node)
	d.Insert(root, inner, nil)

	var got vdom.Event
	d.AddEventListener(root, "click", func(e vdom.Event) { got = e })

	if !d.Click(inner) {
		t.Fatal("expected handler to run")
	}
	if got.Type != "click" || got.Target != inner {
		t.Errorf("unexpected event %+v", got)
	}

	d.RemoveEventListener(root, "click")
	if d.Click(inner) {
		t.Error("expected no handler after removal")
	}
}

func TestInput(t *testing.T) {
	d := memdom.New()
	el := d.CreateElement("input", false).(*memdom.Node)

	var value string
	d.AddEventListener(el, "input", func(e vdom.Event) { value = e.Value.(string) })
	d.Input(el, "hello")

	if value != "hello" || el.Prop("value") != "hello" {
		t.Errorf("expected value propagated, got %q / %v", value, el.Prop("value"))
	}
}

func TestTextContent(t *testing.T) {
	d := memdom.New()
	root := d.CreateContainer("app")
	p := d.CreateElement("p", false)
	d.Insert(p, d.CreateText("hello "), nil)
	d.Insert(p, d.CreateText("world"), nil)
	d.Insert(root, p, nil)

	if got := root.TextContent(); got != "hello world" {
		t.Errorf("TextContent() = %q", got)
	}
	if len(root.Elements()) != 1 {
		t.Errorf("expected 1 element child, got %d", len(root.Elements()))
	}
}

func TestNodeByID(t *testing.T) {
	d := memdom.New()
	root := d.CreateContainer("app")
	p := d.CreateElement("p", false).(*memdom.Node)
	text := d.CreateText("x").(*memdom.Node)
	d.Insert(root, p, nil)
	d.Insert(p, text, nil)

	if d.NodeByID(text.ID) != text || d.NodeByID(root.ID) != root {
		t.Error("expected attached nodes to be found")
	}

	d.Remove(root, p)
	if d.NodeByID(p.ID) != nil {
		t.Error("detached nodes should not be found")
	}
}
