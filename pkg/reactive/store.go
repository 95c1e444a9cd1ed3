package reactive

import (
	"log/slog"
	"unsafe"

	"github.com/vango-dev/reactor/internal/errors"
)

// Observer receives low-level engine events. It is used by the metrics
// package; all methods are called synchronously on the store's goroutine.
type Observer interface {
	ObserveTrack(op TrackOp)
	ObserveTrigger(op TriggerOp, effects int)
	ObserveEffectRun()
}

// Store owns all reactive state for one application root: the dependency
// table, the proxy tables for each wrapping mode, the skip set and the effect
// stack. The zero value is not usable; create stores with NewStore.
type Store struct {
	targets map[unsafe.Pointer]*depsMap

	reactiveMap        map[unsafe.Pointer]*Proxy
	shallowReactiveMap map[unsafe.Pointer]*Proxy
	readonlyMap        map[unsafe.Pointer]*Proxy
	shallowReadonlyMap map[unsafe.Pointer]*Proxy

	skip map[unsafe.Pointer]struct{}

	effectStack  []*Effect
	activeEffect *Effect
	shouldTrack  bool
	trackStack   []bool
	nextEffectID uint64

	logger    *slog.Logger
	onWarning func(*errors.ReactorError)
	observer  Observer
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for warning diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWarningHandler registers a hook that receives every warning diagnostic
// in addition to it being logged.
func WithWarningHandler(fn func(*errors.ReactorError)) Option {
	return func(s *Store) {
		s.onWarning = fn
	}
}

// WithObserver attaches an Observer to the store.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		s.observer = o
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		targets:            make(map[unsafe.Pointer]*depsMap),
		reactiveMap:        make(map[unsafe.Pointer]*Proxy),
		shallowReactiveMap: make(map[unsafe.Pointer]*Proxy),
		readonlyMap:        make(map[unsafe.Pointer]*Proxy),
		shallowReadonlyMap: make(map[unsafe.Pointer]*Proxy),
		skip:               make(map[unsafe.Pointer]struct{}),
		shouldTrack:        true,
		logger:             slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Logger returns the store's logger.
func (s *Store) Logger() *slog.Logger {
	return s.logger
}

// MarkRaw flags an aggregate so that it is never wrapped. Wrapping it returns
// the raw value unchanged. The value itself is returned for chaining.
func (s *Store) MarkRaw(v any) any {
	if t, ok := targetOf(v); ok {
		s.skip[t.id] = struct{}{}
	}
	return v
}

// Forget drops the dependency entries and cached proxies of a raw aggregate.
// Identity keys hold strong references, so long-lived stores that churn
// through many short-lived aggregates should call Forget when done with one.
func (s *Store) Forget(v any) {
	v = ToRaw(v)
	t, ok := targetOf(v)
	if !ok {
		return
	}
	delete(s.targets, t.id)
	for _, table := range s.tables() {
		if p, ok := table[t.id]; ok {
			delete(s.readonlyMap, unsafe.Pointer(p))
			delete(s.shallowReadonlyMap, unsafe.Pointer(p))
			delete(table, t.id)
		}
	}
	delete(s.skip, t.id)
}

// Targets reports how many aggregates currently have dependency entries.
func (s *Store) Targets() int {
	return len(s.targets)
}

func (s *Store) tables() []map[unsafe.Pointer]*Proxy {
	return []map[unsafe.Pointer]*Proxy{
		s.reactiveMap, s.shallowReactiveMap, s.readonlyMap, s.shallowReadonlyMap,
	}
}

func (s *Store) proxyTable(readonly, shallow bool) map[unsafe.Pointer]*Proxy {
	switch {
	case readonly && shallow:
		return s.shallowReadonlyMap
	case readonly:
		return s.readonlyMap
	case shallow:
		return s.shallowReactiveMap
	default:
		return s.reactiveMap
	}
}

// Warn reports a misuse diagnostic through the store's logger and warning
// hook. Packages built on the store use it so all diagnostics of one root
// share a channel.
func (s *Store) Warn(err *errors.ReactorError) {
	s.warn(err)
}

func (s *Store) warn(err *errors.ReactorError) {
	s.logger.Warn(err.Message, slog.Any("diagnostic", err))
	if s.onWarning != nil {
		s.onWarning(err)
	}
}
