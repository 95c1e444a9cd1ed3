package render

import (
	"io"
	"net/http"
)

// StreamingRenderer writes pages to an http.ResponseWriter, flushing the
// head before the body so the browser can start fetching stylesheets.
type StreamingRenderer struct {
	*Renderer
	w       io.Writer
	flusher http.Flusher
}

// NewStreamingRenderer creates a streaming renderer. Flushing is skipped
// when w does not implement http.Flusher.
func NewStreamingRenderer(w http.ResponseWriter, config Config) *StreamingRenderer {
	flusher, _ := w.(http.Flusher)
	return &StreamingRenderer{Renderer: NewRenderer(config), w: w, flusher: flusher}
}

// RenderPage writes page, flushing after the head and at the end.
func (s *StreamingRenderer) RenderPage(page PageData) error {
	sw := &stickyWriter{w: s.w}
	s.pageStart(sw, page)
	if sw.err != nil {
		return sw.err
	}
	s.flush()
	s.pageBody(sw, page)
	if sw.err != nil {
		return sw.err
	}
	s.flush()
	return nil
}

func (s *StreamingRenderer) flush() {
	if s.flusher != nil {
		s.flusher.Flush()
	}
}
