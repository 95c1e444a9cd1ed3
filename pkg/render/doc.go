// Package render serializes an in-memory host tree to HTML.
//
// The renderer package mutates a memdom.Document; this package turns the
// resulting tree (or a part of it) into markup for the preview server,
// snapshots and tests:
//
//	r := render.NewRenderer(render.Config{})
//	html, err := r.RenderToString(container)
//
// Text and attribute values are escaped. DOM properties that have an HTML
// form (value, checked, selected, ...) are written as attributes, style
// properties are folded into the style attribute, and innerHTML is written
// verbatim in place of the children.
//
// # Node IDs
//
// With Config.NodeIDs set, every element that has event listeners gets a
// data-rid attribute holding its memdom node ID and a data-on attribute
// listing its events, so a live client can route browser events back to
// the node with memdom.Document.NodeByID.
//
// # Pages
//
// RenderPage wraps a tree in a complete HTML document; StreamingRenderer
// does the same while flushing the head early.
package render
