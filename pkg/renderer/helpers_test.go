package renderer

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/memdom"
	"github.com/vango-dev/reactor/pkg/vdom"
)

type testEnv struct {
	r         *Renderer
	doc       *memdom.Document
	container *memdom.Node
	warnings  []string
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	env := &testEnv{doc: memdom.New()}
	env.container = env.doc.CreateContainer("app")
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithWarningHandler(func(err *errors.ReactorError) {
			env.warnings = append(env.warnings, err.Code)
		}),
	}
	env.r = New(env.doc, append(base, opts...)...)
	return env
}

func (e *testEnv) render(t *testing.T, v *vdom.VNode) {
	t.Helper()
	if err := e.r.Render(context.Background(), v, e.container); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

func (e *testEnv) flush(t *testing.T) {
	t.Helper()
	if err := e.r.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func (e *testEnv) warned(code string) bool {
	for _, c := range e.warnings {
		if c == code {
			return true
		}
	}
	return false
}

// texts returns the text content of each child of n.
func texts(n *memdom.Node) []string {
	out := make([]string, len(n.Children))
	for i, c := range n.Children {
		out[i] = c.TextContent()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// hooked is a component that records its lifecycle hooks.
type hooked struct {
	name   string
	log    *[]string
	render func() *vdom.VNode
}

func (h *hooked) Render() *vdom.VNode { return h.render() }
func (h *hooked) Mounted()            { *h.log = append(*h.log, h.name+":mounted") }
func (h *hooked) BeforeUpdate()       { *h.log = append(*h.log, h.name+":beforeUpdate") }
func (h *hooked) Updated()            { *h.log = append(*h.log, h.name+":updated") }
func (h *hooked) BeforeUnmount()      { *h.log = append(*h.log, h.name+":beforeUnmount") }
func (h *hooked) Unmounted()          { *h.log = append(*h.log, h.name+":unmounted") }
