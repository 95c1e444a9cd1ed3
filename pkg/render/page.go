package render

import (
	"io"

	"github.com/vango-dev/reactor/pkg/memdom"
)

// PageData describes a complete HTML document.
type PageData struct {
	// Body is rendered inside <body>. A document or container node renders
	// its children, an element renders itself.
	Body *memdom.Node

	Title string

	// Lang defaults to "en".
	Lang string

	Meta        []MetaTag
	StyleSheets []string
	Styles      []string

	// Scripts with Defer or Async set go in the head, the rest at the end
	// of the body.
	Scripts []ScriptTag
}

// MetaTag is a <meta> element. Empty fields are omitted.
type MetaTag struct {
	Name     string
	Property string
	Content  string
}

// ScriptTag is a <script> element.
type ScriptTag struct {
	Src    string
	Module bool
	Defer  bool
	Async  bool
	Inline string
}

// stickyWriter keeps the first write error and drops later writes.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) str(v string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, v)
}

// attr writes ` name="value"` when value is non-empty.
func (s *stickyWriter) attr(name, value string) {
	if value == "" {
		return
	}
	s.str(" " + name + `="` + EscapeAttr(value) + `"`)
}

// RenderPage writes a complete HTML document to w.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	sw := &stickyWriter{w: w}
	r.pageStart(sw, page)
	r.pageBody(sw, page)
	return sw.err
}

func (r *Renderer) pageStart(sw *stickyWriter, page PageData) {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	sw.str("<!DOCTYPE html>\n<html")
	sw.attr("lang", lang)
	sw.str(">\n<head>\n")
	sw.str(`  <meta charset="utf-8">` + "\n")
	sw.str(`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	if page.Title != "" {
		sw.str("  <title>" + EscapeHTML(page.Title) + "</title>\n")
	}
	for _, m := range page.Meta {
		sw.str("  <meta")
		sw.attr("name", m.Name)
		sw.attr("property", m.Property)
		sw.attr("content", m.Content)
		sw.str(">\n")
	}
	for _, href := range page.StyleSheets {
		sw.str(`  <link rel="stylesheet"`)
		sw.attr("href", href)
		sw.str(">\n")
	}
	for _, css := range page.Styles {
		sw.str("  <style>" + css + "</style>\n")
	}
	for _, s := range page.Scripts {
		if s.Defer || s.Async {
			writeScript(sw, s)
		}
	}
	sw.str("</head>\n")
}

func (r *Renderer) pageBody(sw *stickyWriter, page PageData) {
	sw.str("<body>\n")
	if page.Body != nil && sw.err == nil {
		if page.Body.Type == memdom.ElementNode {
			sw.err = r.RenderToWriter(sw.w, page.Body)
		} else {
			html, err := r.InnerHTML(page.Body)
			sw.str(html)
			if sw.err == nil {
				sw.err = err
			}
		}
	}
	sw.str("\n")
	for _, s := range page.Scripts {
		if !s.Defer && !s.Async {
			writeScript(sw, s)
		}
	}
	sw.str("</body>\n</html>\n")
}

func writeScript(sw *stickyWriter, s ScriptTag) {
	sw.str("  <script")
	sw.attr("src", s.Src)
	if s.Module {
		sw.str(` type="module"`)
	}
	if s.Defer {
		sw.str(" defer")
	}
	if s.Async {
		sw.str(" async")
	}
	sw.str(">")
	if s.Src == "" {
		sw.str(s.Inline)
	}
	sw.str("</script>\n")
}
