package reactive

import (
	"fmt"

	"github.com/vango-dev/reactor/internal/errors"
)

// FlushMode controls when a watcher's callback runs after a change.
type FlushMode uint8

const (
	// FlushPre queues the callback before the next render flush.
	FlushPre FlushMode = iota
	// FlushPost queues the callback after the next render flush.
	FlushPost
	// FlushSync runs the callback synchronously inside the trigger.
	FlushSync
)

func (m FlushMode) String() string {
	switch m {
	case FlushPre:
		return "pre"
	case FlushPost:
		return "post"
	case FlushSync:
		return "sync"
	default:
		return fmt.Sprintf("FlushMode(%d)", m)
	}
}

// Flusher queues watcher jobs. *scheduler.Queue implements it. Without a
// flusher, pre and post watchers run synchronously.
type Flusher interface {
	QueuePreFlush(fn func())
	QueuePostFlush(fn func())
}

// InvalidateFunc registers a cleanup that runs before the next callback
// invocation and when the watcher stops.
type InvalidateFunc func(cleanup func())

// WatchCallback receives the new and previous source values. The previous
// value is nil on an immediate first call.
type WatchCallback func(value, oldValue any, onInvalidate InvalidateFunc)

// StopHandle stops a watcher.
type StopHandle func()

type watchConfig struct {
	immediate bool
	deep      bool
	flush     FlushMode
	flusher   Flusher
	onTrack   func(DebuggerEvent)
	onTrigger func(DebuggerEvent)
	onError   func(error)
}

// WatchOption configures Watch and WatchEffect.
type WatchOption func(*watchConfig)

// Immediate runs the callback once at creation.
func Immediate() WatchOption {
	return func(c *watchConfig) { c.immediate = true }
}

// Deep traverses the source so nested changes are observed, and calls the
// callback even when the top-level value is unchanged.
func Deep() WatchOption {
	return func(c *watchConfig) { c.deep = true }
}

// Flush sets the flush timing.
func Flush(mode FlushMode) WatchOption {
	return func(c *watchConfig) { c.flush = mode }
}

// WithFlusher sets the queue used for pre and post flush timing.
func WithFlusher(f Flusher) WatchOption {
	return func(c *watchConfig) { c.flusher = f }
}

// WatchOnTrack sets the OnTrack hook of the watcher's effect.
func WatchOnTrack(fn func(DebuggerEvent)) WatchOption {
	return func(c *watchConfig) { c.onTrack = fn }
}

// WatchOnTrigger sets the OnTrigger hook of the watcher's effect.
func WatchOnTrigger(fn func(DebuggerEvent)) WatchOption {
	return func(c *watchConfig) { c.onTrigger = fn }
}

// WatchOnError routes panics from the source getter, callback or cleanup to
// fn instead of propagating them.
func WatchOnError(fn func(error)) WatchOption {
	return func(c *watchConfig) { c.onError = fn }
}

type watcher struct {
	store   *Store
	cfg     watchConfig
	getter  func() any
	cb      WatchCallback
	deep    bool
	force   bool
	multi   bool
	runner  *Effect
	cleanup func()

	oldValue any
	initial  bool
	queued   bool
}

// Watch observes source and calls cb when its value changes. source may be
// a *Ref, a *Computed, a *Proxy (watched deeply), a func() any getter or a
// []any of those.
func Watch(s *Store, source any, cb WatchCallback, opts ...WatchOption) StopHandle {
	w := &watcher{store: s, cb: cb, initial: true}
	w.configure(opts)
	w.getter = w.sourceGetter(source)
	return w.start()
}

// WatchEffect runs fn immediately and again whenever anything it read
// changes.
func WatchEffect(s *Store, fn func(onInvalidate InvalidateFunc), opts ...WatchOption) StopHandle {
	w := &watcher{store: s}
	w.configure(opts)
	if w.cfg.immediate || w.cfg.deep {
		s.warn(errors.New("R006").
			WithField("immediate", w.cfg.immediate).
			WithField("deep", w.cfg.deep))
	}
	w.getter = func() any {
		w.runCleanup()
		w.guard("watch effect", func() { fn(w.onInvalidate) })
		return nil
	}
	return w.start()
}

func (w *watcher) configure(opts []WatchOption) {
	for _, opt := range opts {
		opt(&w.cfg)
	}
	w.deep = w.cfg.deep
}

func (w *watcher) sourceGetter(source any) func() any {
	switch src := source.(type) {
	case *Ref:
		w.force = src.shallow
		return src.Value
	case refLike:
		return src.refValue
	case *Proxy:
		w.deep = true
		return func() any { return src }
	case func() any:
		return func() any {
			var v any
			w.guard("watch getter", func() { v = src() })
			return v
		}
	case []any:
		w.multi = true
		return func() any {
			values := make([]any, len(src))
			for i, item := range src {
				switch it := item.(type) {
				case refLike:
					values[i] = it.refValue()
				case *Proxy:
					values[i] = traverse(it, make(map[any]struct{}))
				case func() any:
					w.guard("watch getter", func() { values[i] = it() })
				default:
					w.invalidSource(item)
				}
			}
			return values
		}
	}
	w.invalidSource(source)
	return func() any { return nil }
}

func (w *watcher) invalidSource(v any) {
	w.store.warn(errors.New("R005").WithField("type", fmt.Sprintf("%T", v)))
}

func (w *watcher) start() StopHandle {
	getter := w.getter
	if w.cb != nil && w.deep {
		base := getter
		getter = func() any {
			return traverse(base(), make(map[any]struct{}))
		}
	}

	opts := []EffectOption{
		Lazy(),
		WithScheduler(w.schedule),
		OnStop(w.runCleanup),
	}
	if w.cfg.onTrack != nil {
		opts = append(opts, OnTrack(w.cfg.onTrack))
	}
	if w.cfg.onTrigger != nil {
		opts = append(opts, OnTrigger(w.cfg.onTrigger))
	}
	w.runner = w.store.newEffect(getter, opts...)

	switch {
	case w.cb != nil && w.cfg.immediate:
		w.job()
	case w.cb != nil:
		w.oldValue = w.runner.Run()
		w.initial = false
	case w.cfg.flush == FlushPost && w.cfg.flusher != nil:
		w.cfg.flusher.QueuePostFlush(func() { w.runner.Run() })
	default:
		w.runner.Run()
	}

	return func() { w.runner.Stop() }
}

func (w *watcher) schedule(*Effect) {
	if w.cfg.flush == FlushSync || w.cfg.flusher == nil {
		w.job()
		return
	}
	if w.queued {
		return
	}
	w.queued = true
	if w.cfg.flush == FlushPost {
		w.cfg.flusher.QueuePostFlush(w.job)
	} else {
		w.cfg.flusher.QueuePreFlush(w.job)
	}
}

func (w *watcher) job() {
	w.queued = false
	if !w.runner.active {
		return
	}
	if w.cb == nil {
		w.runner.Run()
		return
	}
	value := w.runner.Run()
	if !w.deep && !w.force && !w.changed(value) {
		return
	}
	w.runCleanup()
	var old any
	if !w.initial {
		old = w.oldValue
	}
	w.guard("watch callback", func() { w.cb(value, old, w.onInvalidate) })
	w.oldValue = value
	w.initial = false
}

func (w *watcher) changed(value any) bool {
	if w.initial {
		return true
	}
	if !w.multi {
		return HasChanged(value, w.oldValue)
	}
	next, _ := value.([]any)
	prev, _ := w.oldValue.([]any)
	if len(next) != len(prev) {
		return true
	}
	for i := range next {
		if HasChanged(next[i], prev[i]) {
			return true
		}
	}
	return false
}

func (w *watcher) onInvalidate(fn func()) {
	w.cleanup = fn
}

func (w *watcher) runCleanup() {
	if w.cleanup == nil {
		return
	}
	fn := w.cleanup
	w.cleanup = nil
	w.guard("watch cleanup", fn)
}

// guard runs fn, routing a panic to the configured error handler.
func (w *watcher) guard(info string, fn func()) {
	if w.cfg.onError == nil {
		fn()
		return
	}
	defer func() {
		if r := recover(); r != nil {
			w.cfg.onError(errors.New("E105").
				WithField("phase", info).
				Wrap(panicError(r)))
		}
	}()
	fn()
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

// traverse reads every nested key of v so the running effect depends on
// all of them.
func traverse(v any, seen map[any]struct{}) any {
	switch t := v.(type) {
	case *Proxy:
		if _, ok := seen[t]; ok {
			return v
		}
		seen[t] = struct{}{}
		t.Range(func(_, value any) bool {
			traverse(value, seen)
			return true
		})
	case refLike:
		if _, ok := seen[t]; ok {
			return v
		}
		seen[t] = struct{}{}
		traverse(t.refValue(), seen)
	}
	return v
}
