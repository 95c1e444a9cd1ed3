package preview

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/memdom"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/render"
	"github.com/vango-dev/reactor/pkg/renderer"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// ErrSessionClosed is returned for work submitted after a session closed.
var ErrSessionClosed = stderrors.New("preview: session closed")

// session owns one document and the store and renderer driving it. All
// access to them happens on the loop goroutine; other goroutines submit
// closures through do.
type session struct {
	id        string
	doc       *memdom.Document
	container *memdom.Node
	r         *renderer.Renderer
	html      *render.Renderer
	logger    *slog.Logger

	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once

	// attached is closed when a websocket takes the session.
	attached   chan struct{}
	attachOnce sync.Once

	// last is the HTML most recently sent to the client. Loop-owned.
	last string
}

func (s *Server) newSession(id string) (*session, error) {
	logger := s.logger.With("session", id)
	doc := memdom.New()

	var host renderer.Host = doc
	storeOpts := []reactive.Option{reactive.WithLogger(logger)}
	rendererOpts := []renderer.Option{
		renderer.WithLogger(logger),
		renderer.WithTracerName(s.config.TracerName),
		renderer.WithErrorHandler(func(err error) {
			logger.Error("component error", "error", err)
		}),
	}
	if s.metrics != nil {
		host = s.metrics.Host(doc)
		storeOpts = append(storeOpts, reactive.WithObserver(s.metrics))
		rendererOpts = append(rendererOpts, renderer.WithRecorder(s.metrics))
	}
	if s.config.KeyedDiff {
		rendererOpts = append(rendererOpts, renderer.WithKeyedDiff())
	}
	rendererOpts = append(rendererOpts, renderer.WithStore(reactive.NewStore(storeOpts...)))

	sess := &session{
		id:        id,
		doc:       doc,
		container: doc.CreateContainer("app"),
		r:         renderer.New(host, rendererOpts...),
		html:      render.NewRenderer(render.Config{Pretty: s.config.Pretty, NodeIDs: true}),
		logger:    logger,
		tasks:     make(chan func()),
		done:      make(chan struct{}),
		attached:  make(chan struct{}),
	}
	go sess.loop()

	err := sess.do(context.Background(), func() error {
		return sess.r.Render(context.Background(), s.root(), sess.container)
	})
	if err != nil {
		sess.close()
		return nil, err
	}
	return sess, nil
}

// attach marks the session as taken by a websocket. Only the first call
// succeeds.
func (s *session) attach() bool {
	ok := false
	s.attachOnce.Do(func() {
		close(s.attached)
		ok = true
	})
	return ok
}

func (s *session) loop() {
	for {
		select {
		case fn := <-s.tasks:
			fn()
		case <-s.done:
			return
		}
	}
}

// do runs fn on the loop goroutine and waits for it. A panic in fn is
// returned as an E102 error.
func (s *session) do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	task := func() {
		defer func() {
			if p := recover(); p != nil {
				result <- errors.New("E102").WithField("panic", fmt.Sprint(p))
			}
		}()
		result <- fn()
	}

	select {
	case s.tasks <- task:
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// clientEvent is a browser event routed to a node by its data-rid.
type clientEvent struct {
	RID   uint64 `json:"rid"`
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// dispatch delivers ev, flushes pending renders and returns the new markup
// if it changed since the last call.
func (s *session) dispatch(ctx context.Context, ev clientEvent) (html string, changed bool, err error) {
	err = s.do(ctx, func() error {
		node := s.doc.NodeByID(ev.RID)
		if node == nil {
			return errors.New("E100").WithDetail(fmt.Sprintf("no node with id %d", ev.RID))
		}
		s.doc.Dispatch(node, ev.Type, vdom.Event{Value: ev.Value})
		if err := s.r.Flush(ctx); err != nil {
			return err
		}
		out, err := s.html.InnerHTML(s.container)
		if err != nil {
			return err
		}
		if out != s.last {
			s.last, html, changed = out, out, true
		}
		return nil
	})
	return html, changed, err
}

// markup returns the current markup of the container.
func (s *session) markup(ctx context.Context) (string, error) {
	var out string
	err := s.do(ctx, func() error {
		var err error
		out, err = s.html.InnerHTML(s.container)
		return err
	})
	return out, err
}

// writePage streams a full page for the session to sr.
func (s *session) writePage(ctx context.Context, sr *render.StreamingRenderer, page render.PageData) error {
	return s.do(ctx, func() error {
		html, err := s.html.InnerHTML(s.container)
		if err != nil {
			return err
		}
		s.last = html
		page.Body = s.container
		return sr.RenderPage(page)
	})
}

// close unmounts the tree and stops the loop. It is idempotent.
func (s *session) close() {
	s.closeOnce.Do(func() {
		err := s.do(context.Background(), func() error {
			return s.r.Render(context.Background(), nil, s.container)
		})
		if err != nil {
			s.logger.Warn("unmount failed", "error", err)
		}
		close(s.done)
	})
}
