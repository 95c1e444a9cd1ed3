package render

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/reactor/pkg/memdom"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Config configures the HTML renderer.
type Config struct {
	// Pretty enables indented output. Meant for development only.
	Pretty bool

	// Indent is the string used per level in pretty mode (default: two
	// spaces).
	Indent string

	// NodeIDs adds data-rid and data-on attributes to elements that have
	// event listeners.
	NodeIDs bool
}

// Renderer writes memdom trees as HTML. It holds no per-render state and
// may be reused.
type Renderer struct {
	config Config
}

// NewRenderer creates a renderer.
func NewRenderer(config Config) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders n, including n itself when it is an element.
func (r *Renderer) RenderToString(n *memdom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter renders n to w.
func (r *Renderer) RenderToWriter(w io.Writer, n *memdom.Node) error {
	bw := bufio.NewWriter(w)
	pretty := r.config.Pretty
	if n != nil && n.Type == memdom.ElementNode {
		pretty = pretty && !isInlineElement(n.Tag)
	} else if n != nil {
		pretty = pretty && blockChildren(n)
	}
	r.renderNode(bw, n, 0, pretty)
	return bw.Flush()
}

// InnerHTML renders the children of n.
func (r *Renderer) InnerHTML(n *memdom.Node) (string, error) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if n != nil {
		r.renderChildren(bw, n, 0, r.config.Pretty && blockChildren(n))
	}
	if err := bw.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// pretty is decided by the parent: elements laid out on their own line
// are indented and followed by a newline.
func (r *Renderer) renderNode(w *bufio.Writer, n *memdom.Node, depth int, pretty bool) {
	if n == nil {
		return
	}
	switch n.Type {
	case memdom.TextNode:
		w.WriteString(EscapeHTML(n.Text))
	case memdom.ElementNode:
		r.renderElement(w, n, depth, pretty)
	default:
		r.renderChildren(w, n, depth, pretty)
	}
}

func (r *Renderer) renderChildren(w *bufio.Writer, n *memdom.Node, depth int, pretty bool) {
	for _, child := range n.Children {
		r.renderNode(w, child, depth, pretty)
	}
}

func (r *Renderer) renderElement(w *bufio.Writer, n *memdom.Node, depth int, pretty bool) {
	if pretty {
		r.writeIndent(w, depth)
	}

	w.WriteByte('<')
	w.WriteString(n.Tag)
	r.renderAttributes(w, n)
	w.WriteByte('>')

	if !n.SVG && vdom.IsVoidElement(n.Tag) {
		if pretty {
			w.WriteByte('\n')
		}
		return
	}

	switch {
	case n.Props["innerHTML"] != nil:
		w.WriteString(fmt.Sprint(n.Props["innerHTML"]))
	case n.Props["textContent"] != nil:
		w.WriteString(EscapeHTML(fmt.Sprint(n.Props["textContent"])))
	default:
		block := r.config.Pretty && blockChildren(n)
		if block {
			w.WriteByte('\n')
		}
		r.renderChildren(w, n, depth+1, block)
		if block {
			r.writeIndent(w, depth)
		}
	}

	w.WriteString("</")
	w.WriteString(n.Tag)
	w.WriteByte('>')
	if pretty {
		w.WriteByte('\n')
	}
}

// renderAttributes writes attributes, serializable properties and the
// style map, each in sorted order.
func (r *Renderer) renderAttributes(w *bufio.Writer, n *memdom.Node) {
	attrs := make(map[string]string, len(n.Attrs))
	for k, v := range n.Attrs {
		attrs[k] = v
	}
	var flags []string

	for key, value := range n.Props {
		if booleanProps[key] {
			if on, _ := value.(bool); on {
				flags = append(flags, strings.ToLower(key))
				delete(attrs, strings.ToLower(key))
			}
			continue
		}
		if name, ok := propAttrs[key]; ok && value != nil {
			attrs[name] = fmt.Sprint(value)
		}
	}

	if style := styleString(attrs["style"], n.Style); style != "" {
		attrs["style"] = style
	}

	if r.config.NodeIDs && len(n.Listeners) > 0 {
		attrs["data-rid"] = strconv.FormatUint(n.ID, 10)
		attrs["data-on"] = strings.Join(sortedKeys(n.Listeners), " ")
	}

	for _, key := range sortedKeys(attrs) {
		value := attrs[key]
		w.WriteByte(' ')
		w.WriteString(key)
		if value == "" {
			continue
		}
		w.WriteString(`="`)
		w.WriteString(EscapeAttr(value))
		w.WriteByte('"')
	}
	sort.Strings(flags)
	for _, flag := range flags {
		w.WriteByte(' ')
		w.WriteString(flag)
	}
}

// styleString merges a style attribute with individual style properties.
func styleString(attr string, props map[string]string) string {
	parts := make([]string, 0, len(props)+1)
	if attr = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(attr), ";")); attr != "" {
		parts = append(parts, attr)
	}
	for _, name := range sortedKeys(props) {
		parts = append(parts, name+": "+props[name])
	}
	return strings.Join(parts, "; ")
}

// blockChildren reports whether n's children each go on their own line:
// there is at least one and all are non-inline elements.
func blockChildren(n *memdom.Node) bool {
	if len(n.Children) == 0 {
		return false
	}
	for _, c := range n.Children {
		if c.Type != memdom.ElementNode || isInlineElement(c.Tag) {
			return false
		}
	}
	return true
}

func (r *Renderer) writeIndent(w *bufio.Writer, depth int) {
	for i := 0; i < depth; i++ {
		w.WriteString(r.config.Indent)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
