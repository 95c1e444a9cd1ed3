// Package renderer reconciles vdom trees against a host tree.
//
// A Renderer mounts a VNode tree into a container on first Render and
// patches the previous tree on every later Render for the same container.
// All host mutations go through the injected Host, so the same renderer
// drives a browser bridge, the in-memory tree of package memdom, or
// anything else that can create, move and remove nodes.
//
// Stateful components render inside a reactive effect of the renderer's
// store. A write to state read during render queues the component's update
// job on the renderer's scheduler queue, which Flush drains.
package renderer

import (
	"context"
	"log/slog"
	"time"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/scheduler"
	"github.com/vango-dev/reactor/pkg/vdom"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for render spans.
const defaultTracerName = "reactor"

// Recorder observes render passes. It is implemented by package metrics.
type Recorder interface {
	ObserveRender(op string, d time.Duration)
}

// Renderer mounts and patches vnode trees through a Host. It is not safe for
// concurrent use; it belongs to the goroutine that owns its store.
type Renderer struct {
	host   Host
	store  *reactive.Store
	queue  *scheduler.Queue
	logger *slog.Logger
	tracer trace.Tracer

	tracerName string
	recorder   Recorder
	keyed      bool
	onError    func(error)
	onWarning  func(*errors.ReactorError)
	provides   map[any]any

	roots   map[Node]*vdom.VNode
	current *instance
	nextUID uint64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStore sets the reactive store components render in. By default each
// renderer creates its own.
func WithStore(s *reactive.Store) Option {
	return func(r *Renderer) {
		r.store = s
	}
}

// WithScheduler sets the queue that component updates and watchers flush
// through.
func WithScheduler(q *scheduler.Queue) Option {
	return func(r *Renderer) {
		r.queue = q
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracerName sets the name of the tracer taken from the global
// OpenTelemetry provider (default: "reactor").
func WithTracerName(name string) Option {
	return func(r *Renderer) {
		r.tracerName = name
	}
}

// WithRecorder attaches a Recorder that observes render and flush timings.
func WithRecorder(rec Recorder) Option {
	return func(r *Renderer) {
		r.recorder = rec
	}
}

// WithKeyedDiff enables the keyed children diff for keyed sibling lists.
// Without it, a list of multiple children is replaced wholesale.
func WithKeyedDiff() Option {
	return func(r *Renderer) {
		r.keyed = true
	}
}

// WithErrorHandler installs the error boundary. Panics raised by component
// setup, render or watch callbacks are reported to fn as E102/E105
// diagnostics instead of propagating.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Renderer) {
		r.onError = fn
	}
}

// WithWarningHandler receives every warning diagnostic. It only applies
// when the renderer creates its own store.
func WithWarningHandler(fn func(*errors.ReactorError)) Option {
	return func(r *Renderer) {
		r.onWarning = fn
	}
}

// WithProvide makes value injectable by every component under key.
func WithProvide(key, value any) Option {
	return func(r *Renderer) {
		r.provides[key] = value
	}
}

// New creates a renderer over host.
func New(host Host, opts ...Option) *Renderer {
	r := &Renderer{
		host:       host,
		logger:     slog.Default(),
		tracerName: defaultTracerName,
		provides:   make(map[any]any),
		roots:      make(map[Node]*vdom.VNode),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.store == nil {
		storeOpts := []reactive.Option{reactive.WithLogger(r.logger)}
		if r.onWarning != nil {
			storeOpts = append(storeOpts, reactive.WithWarningHandler(r.onWarning))
		}
		r.store = reactive.NewStore(storeOpts...)
	}
	if r.queue == nil {
		r.queue = scheduler.New(scheduler.WithLogger(r.logger))
	}
	r.tracer = otel.Tracer(r.tracerName)
	return r
}

// Store returns the reactive store components render in.
func (r *Renderer) Store() *reactive.Store {
	return r.store
}

// Queue returns the scheduler queue.
func (r *Renderer) Queue() *scheduler.Queue {
	return r.queue
}

// Host returns the host the renderer mutates.
func (r *Renderer) Host() Host {
	return r.host
}

// Root returns the tree last rendered into container.
func (r *Renderer) Root(container Node) *vdom.VNode {
	return r.roots[container]
}

// Render makes the content of container match v. The first call for a
// container mounts v; later calls patch the previous tree; a nil v unmounts
// it. Pending updates are flushed before Render returns, and the flush
// error, if any, is returned.
func (r *Renderer) Render(ctx context.Context, v *vdom.VNode, container Node) error {
	prev := r.roots[container]
	op := "patch"
	switch {
	case prev == nil && v == nil:
		return nil
	case prev == nil:
		op = "mount"
	case v == nil:
		op = "unmount"
	}

	_, span := r.tracer.Start(ctx, "reactor.render",
		trace.WithAttributes(attribute.String("reactor.op", op)),
	)
	defer span.End()
	start := time.Now()

	switch op {
	case "mount":
		r.mount(v, container, nil, false)
		r.roots[container] = v
	case "patch":
		r.patch(prev, v, container, false)
		r.roots[container] = v
	case "unmount":
		r.unmount(prev, true)
		delete(r.roots, container)
	}

	err := r.queue.Flush()
	r.observe(op, start)
	finishSpan(span, err)
	return err
}

// Flush runs queued component updates and watcher callbacks.
func (r *Renderer) Flush(ctx context.Context) error {
	if !r.queue.Pending() {
		return nil
	}
	_, span := r.tracer.Start(ctx, "reactor.flush")
	defer span.End()
	start := time.Now()

	err := r.queue.Flush()
	r.observe("flush", start)
	finishSpan(span, err)
	return err
}

func (r *Renderer) observe(op string, start time.Time) {
	if r.recorder != nil {
		r.recorder.ObserveRender(op, time.Since(start))
	}
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

func (r *Renderer) warn(err *errors.ReactorError) {
	r.store.Warn(err)
}
