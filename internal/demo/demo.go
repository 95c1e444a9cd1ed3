// Package demo is the sample application served by "reactor preview" and
// rendered by "reactor render": a counter and a todo list.
package demo

import (
	"strings"

	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// themeKey is provided by the app and injected by the todo list.
type themeKey struct{}

// App returns the root node of the demo.
func App() *vdom.VNode {
	return vdom.Comp(vdom.Constructor(newApp), nil)
}

func newApp(ctx *vdom.SetupContext) vdom.Component {
	ctx.Provide(themeKey{}, "light")
	total := ctx.Store().Ref(0)

	return vdom.Func(func() *vdom.VNode {
		return vdom.Main(vdom.ID("demo"),
			vdom.H1("reactor"),
			vdom.Comp(vdom.Constructor(newCounter), vdom.Props{
				"start":    0,
				"onChange": func(v any) { total.Set(v) },
			}),
			vdom.P(vdom.Class("total"), "last change: ", total.Value()),
			vdom.Comp(vdom.Constructor(newTodos), nil),
		)
	})
}

type counter struct {
	ctx     *vdom.SetupContext
	count   *reactive.Ref
	doubled *reactive.Computed[int]
}

func newCounter(ctx *vdom.SetupContext) vdom.Component {
	store := ctx.Store()
	start, _ := ctx.Prop("start").(int)

	c := &counter{ctx: ctx, count: store.Ref(start)}
	c.doubled = reactive.NewComputed(store, func() int {
		return c.count.Value().(int) * 2
	})
	return c
}

func (c *counter) add(delta int) {
	next := c.count.Peek().(int) + delta
	c.count.Set(next)
	c.ctx.Emit("change", next)
}

func (c *counter) Render() *vdom.VNode {
	return vdom.Div(vdom.Class("counter"),
		vdom.Button(vdom.ID("dec"), vdom.OnClick(func() { c.add(-1) }), "-"),
		vdom.Span(vdom.Class("count"), c.count.Value()),
		vdom.Button(vdom.ID("inc"), vdom.OnClick(func() { c.add(1) }), "+"),
		vdom.Span(vdom.Class("doubled"), c.doubled.Value()),
	)
}

type todos struct {
	state     *reactive.Proxy
	remaining *reactive.Computed[int]
	theme     string
	nextID    int
}

func newTodos(ctx *vdom.SetupContext) vdom.Component {
	store := ctx.Store()
	t := &todos{
		state: store.Reactive(map[string]any{
			"draft": "",
			"items": &[]any{},
		}),
	}
	t.theme, _ = ctx.Inject(themeKey{}, "dark").(string)
	t.remaining = reactive.NewComputed(store, func() int {
		n := 0
		t.items().Range(func(_, v any) bool {
			if done, _ := v.(*reactive.Proxy).Get("done").(bool); !done {
				n++
			}
			return true
		})
		return n
	})
	return t
}

func (t *todos) items() *reactive.Proxy {
	return t.state.Get("items").(*reactive.Proxy)
}

func (t *todos) add() {
	text := strings.TrimSpace(t.state.Get("draft").(string))
	if text == "" {
		return
	}
	t.nextID++
	t.items().Push(map[string]any{"id": t.nextID, "text": text, "done": false})
	t.state.Set("draft", "")
}

func (t *todos) remove(id any) {
	index := -1
	t.items().Range(func(k, v any) bool {
		if v.(*reactive.Proxy).Get("id") == id {
			index = k.(int)
			return false
		}
		return true
	})
	if index >= 0 {
		t.items().Splice(index, 1)
	}
}

func (t *todos) Render() *vdom.VNode {
	var rows []*vdom.VNode
	t.items().Range(func(_, v any) bool {
		item := v.(*reactive.Proxy)
		id := item.Get("id")
		done, _ := item.Get("done").(bool)
		rows = append(rows, vdom.Li(
			vdom.Attribute("key", id),
			vdom.ClassMap(map[string]bool{"todo": true, "done": done}),
			vdom.Span(item.Get("text")),
			vdom.Button(vdom.Class("toggle"), vdom.OnClick(func() { item.Set("done", !done) }), "toggle"),
			vdom.Button(vdom.Class("remove"), vdom.OnClick(func() { t.remove(id) }), "x"),
		))
		return true
	})

	return vdom.Section(vdom.Class("todos", t.theme),
		vdom.Input(
			vdom.ID("draft"),
			vdom.Placeholder("what needs doing?"),
			vdom.Value(t.state.Get("draft")),
			vdom.OnInput(func(v string) { t.state.Set("draft", v) }),
		),
		vdom.Button(vdom.ID("add"), vdom.OnClick(t.add), "add"),
		vdom.Ul(rows),
		vdom.P(vdom.Class("remaining"), t.remaining.Value(), " left"),
	)
}
