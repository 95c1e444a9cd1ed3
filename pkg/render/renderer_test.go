package render

import (
	"context"
	"strings"
	"testing"

	"github.com/vango-dev/reactor/pkg/memdom"
	"github.com/vango-dev/reactor/pkg/renderer"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// mountTree renders v into a fresh document and returns its container.
func mountTree(t *testing.T, v *vdom.VNode) (*memdom.Document, *memdom.Node) {
	t.Helper()
	doc := memdom.New()
	container := doc.CreateContainer("app")
	r := renderer.New(doc)
	if err := r.Render(context.Background(), v, container); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return doc, container
}

func renderInner(t *testing.T, config Config, n *memdom.Node) string {
	t.Helper()
	html, err := NewRenderer(config).InnerHTML(n)
	if err != nil {
		t.Fatalf("InnerHTML: %v", err)
	}
	return html
}

func TestRenderElements(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{"text", vdom.Text("a < b & c"), "a &lt; b &amp; c"},
		{"empty text", vdom.Text(""), ""},
		{"element", vdom.H("p", nil, "hi"), "<p>hi</p>"},
		{"sorted attributes", vdom.H("a", vdom.Data{"title": "t", "href": "/x?a=1&b=2"}, "go"), `<a href="/x?a=1&amp;b=2" title="t">go</a>`},
		{"boolean attribute", vdom.H("button", vdom.Data{"disabled": true}, "x"), "<button disabled>x</button>"},
		{"void element", vdom.H("br", nil, nil), "<br>"},
		{"nested", vdom.H("ul", nil, []*vdom.VNode{vdom.H("li", nil, "1"), vdom.H("li", nil, "2")}), "<ul><li>1</li><li>2</li></ul>"},
		{"fragment", vdom.H(vdom.Fragment, nil, []*vdom.VNode{vdom.H("b", nil, "x"), vdom.Text("y")}), "<b>x</b>y"},
		{"quoted attribute", vdom.H("div", vdom.Data{"data-x": `say "hi"`}, nil), `<div data-x="say &quot;hi&quot;"></div>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, container := mountTree(t, tt.node)
			if got := renderInner(t, Config{}, container); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderProperties(t *testing.T) {
	_, container := mountTree(t, vdom.H("div", nil, []*vdom.VNode{
		vdom.H("input", vdom.Data{"value": "v&", "checked": true, "readOnly": true}, nil),
		vdom.H("label", vdom.Data{"htmlFor": "x", "className": "c"}, nil),
		vdom.H("section", vdom.Data{"innerHTML": "<em>raw</em>"}, nil),
		vdom.H("span", vdom.Data{"textContent": "<esc>"}, nil),
		vdom.H("option", vdom.Data{"selected": false}, nil),
	}))

	got := renderInner(t, Config{}, container.Children[0])
	want := `<input value="v&amp;" checked readonly>` +
		`<label class="c" for="x"></label>` +
		`<section><em>raw</em></section>` +
		`<span>&lt;esc&gt;</span>` +
		`<option></option>`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestRenderStyle(t *testing.T) {
	_, container := mountTree(t, vdom.H("div", vdom.Data{
		"style": map[string]string{"width": "1px", "color": "red"},
	}, nil))
	got := renderInner(t, Config{}, container)
	if got != `<div style="color: red; width: 1px"></div>` {
		t.Errorf("got %s", got)
	}

	if s := styleString("display: none;", map[string]string{"color": "red"}); s != "display: none; color: red" {
		t.Errorf("merged style = %q", s)
	}
}

func TestRenderSVGSelfClosingTags(t *testing.T) {
	_, container := mountTree(t, vdom.H("svg", nil, vdom.H("line", vdom.Data{"x1": 0}, nil)))
	if got := renderInner(t, Config{}, container); got != `<svg><line x1="0"></line></svg>` {
		t.Errorf("got %s", got)
	}
}

func TestRenderNodeIDs(t *testing.T) {
	doc, container := mountTree(t, vdom.H("div", nil, []*vdom.VNode{
		vdom.H("button", vdom.Data{"onClick": func() {}, "onFocus": func() {}}, "+"),
		vdom.H("span", nil, "0"),
	}))
	button := container.Children[0].Children[0]

	got := renderInner(t, Config{NodeIDs: true}, container)
	if !strings.Contains(got, `data-on="click focus"`) {
		t.Errorf("missing event list: %s", got)
	}
	if !strings.Contains(got, `data-rid="`) || strings.Count(got, "data-rid") != 1 {
		t.Errorf("expected exactly one node id: %s", got)
	}
	if doc.NodeByID(button.ID) != button {
		t.Error("expected node id to resolve")
	}

	if plain := renderInner(t, Config{}, container); strings.Contains(plain, "data-rid") {
		t.Errorf("node ids rendered without NodeIDs: %s", plain)
	}
}

func TestRenderPretty(t *testing.T) {
	_, container := mountTree(t, vdom.H("div", nil, []*vdom.VNode{
		vdom.H("p", nil, []*vdom.VNode{vdom.Text("a "), vdom.H("b", nil, "b")}),
		vdom.H("hr", nil, nil),
	}))
	got := renderInner(t, Config{Pretty: true}, container)
	want := "<div>\n  <p>a <b>b</b></p>\n  <hr>\n</div>\n"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestRenderToStringIncludesRoot(t *testing.T) {
	_, container := mountTree(t, vdom.H("i", nil, "x"))
	got, err := NewRenderer(Config{}).RenderToString(container)
	if err != nil {
		t.Fatal(err)
	}
	if got != `<div id="app"><i>x</i></div>` {
		t.Errorf("got %s", got)
	}

	if s, _ := NewRenderer(Config{}).RenderToString(nil); s != "" {
		t.Errorf("nil node rendered %q", s)
	}
}

func TestEscape(t *testing.T) {
	if got := EscapeHTML(`<a href="x">'&'</a>`); got != "&lt;a href=&quot;x&quot;&gt;&#39;&amp;&#39;&lt;/a&gt;" {
		t.Errorf("EscapeHTML = %s", got)
	}
	if got := EscapeAttr("a\nb\tc"); got != "a&#10;b&#9;c" {
		t.Errorf("EscapeAttr = %s", got)
	}
}
