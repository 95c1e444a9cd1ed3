// Package preview serves a live, server-rendered preview of a component
// tree.
//
// GET / creates a session: a memdom document rendered by its own store and
// renderer. The page carries data-rid attributes on elements with listeners
// and a small script that forwards browser events over a websocket. Each
// event is dispatched to the node, pending renders are flushed and the new
// markup is sent back when it changed.
package preview

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/metrics"
	"github.com/vango-dev/reactor/pkg/render"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Config configures the server.
type Config struct {
	// Title is the page title.
	Title string

	KeyedDiff  bool
	Pretty     bool
	TracerName string

	// AttachTimeout closes sessions whose websocket never connects
	// (default: 30s).
	AttachTimeout time.Duration

	// MetricsPath serves the metrics gatherer when metrics are enabled
	// (default: "/metrics").
	MetricsPath string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records engine metrics for every session in c and serves g
// at Config.MetricsPath.
func WithMetrics(c *metrics.Collector, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = c
		s.gatherer = g
	}
}

// Server is the preview HTTP server.
type Server struct {
	root     func() *vdom.VNode
	config   Config
	logger   *slog.Logger
	router   chi.Router
	upgrader websocket.Upgrader
	metrics  *metrics.Collector
	gatherer prometheus.Gatherer

	mu       sync.Mutex
	sessions map[string]*session
}

// New creates a server rendering root for every session.
func New(root func() *vdom.VNode, config Config, opts ...Option) *Server {
	if config.AttachTimeout <= 0 {
		config.AttachTimeout = 30 * time.Second
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	if config.TracerName == "" {
		config.TracerName = "reactor"
	}
	s := &Server{
		root:     root,
		config:   config,
		logger:   slog.Default(),
		sessions: make(map[string]*session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", s.handleMarkup)
		r.Delete("/", s.handleDelete)
	})
	r.Get("/ws/{id}", s.handleWebsocket)
	if s.gatherer != nil {
		r.Method(http.MethodGet, s.config.MetricsPath, metrics.Handler(s.gatherer))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down and
// closes all sessions.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.Close()
		return errors.New("S351").Wrap(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return errors.New("S351").Wrap(err)
	}
	return nil
}

// Close closes every session.
func (s *Server) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
}

func (s *Server) openSession() (*session, error) {
	id := uuid.NewString()
	sess, err := s.newSession(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	s.logger.Debug("session opened", "session", id)
	return sess, nil
}

func (s *Server) session(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

func (s *Server) closeSession(id string) {
	s.mu.Lock()
	sess := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if sess != nil {
		sess.close()
		s.logger.Debug("session closed", "session", id)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := s.openSession()
	if err != nil {
		s.logger.Error("session setup failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	time.AfterFunc(s.config.AttachTimeout, func() {
		select {
		case <-sess.attached:
		default:
			s.closeSession(sess.id)
		}
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sr := render.NewStreamingRenderer(w, render.Config{Pretty: s.config.Pretty, NodeIDs: true})
	page := render.PageData{
		Title:   s.config.Title,
		Meta:    []render.MetaTag{{Name: "reactor-session", Content: sess.id}},
		Scripts: []render.ScriptTag{{Inline: clientScript(sess.id)}},
	}
	if err := sess.writePage(r.Context(), sr, page); err != nil {
		s.logger.Error("page render failed", "session", sess.id, "error", err)
	}
}

func (s *Server) handleMarkup(w http.ResponseWriter, r *http.Request) {
	sess := s.session(chi.URLParam(r, "id"))
	if sess == nil {
		http.NotFound(w, r)
		return
	}
	html, err := sess.markup(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.session(id) == nil {
		http.NotFound(w, r)
		return
	}
	s.closeSession(id)
	w.WriteHeader(http.StatusNoContent)
}

// serverMessage is sent to the browser.
type serverMessage struct {
	Type    string `json:"type"`
	HTML    string `json:"html,omitempty"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess := s.session(id)
	if sess == nil {
		http.NotFound(w, r)
		return
	}
	if !sess.attach() {
		http.Error(w, "session already attached", http.StatusConflict)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "session", id, "error", err)
		s.closeSession(id)
		return
	}
	defer func() {
		conn.Close()
		s.closeSession(id)
	}()

	for {
		var ev clientEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				sess.logger.Warn("read error", "error", err)
			}
			return
		}

		html, changed, err := sess.dispatch(r.Context(), ev)
		var msg *serverMessage
		switch {
		case stderrors.Is(err, ErrSessionClosed):
			return
		case err != nil:
			sess.logger.Warn("event failed", "type", ev.Type, "rid", ev.RID, "error", err)
			msg = &serverMessage{Type: "error", Message: err.Error()}
		case changed:
			msg = &serverMessage{Type: "html", HTML: html}
		default:
			msg = &serverMessage{Type: "ack"}
		}
		if err := conn.WriteJSON(msg); err != nil {
			sess.logger.Warn("write error", "error", err)
			return
		}
	}
}

// logRequests logs each request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
