package reactive

// Effect is a re-runnable computation that records the dependencies it
// reads and re-runs (or is scheduled) when any of them change.
type Effect struct {
	id     uint64
	store  *Store
	fn     func() any
	active bool
	deps   []*dep

	lazy         bool
	allowRecurse bool
	scheduler    func(*Effect)
	onTrack      func(DebuggerEvent)
	onTrigger    func(DebuggerEvent)
	onStop       func()
}

// EffectOption configures an Effect.
type EffectOption func(*Effect)

// Lazy prevents the effect from running at creation.
func Lazy() EffectOption {
	return func(e *Effect) { e.lazy = true }
}

// WithScheduler makes triggers hand the effect to fn instead of running it.
func WithScheduler(fn func(*Effect)) EffectOption {
	return func(e *Effect) { e.scheduler = fn }
}

// AllowRecurse lets the effect be re-triggered by its own writes.
func AllowRecurse() EffectOption {
	return func(e *Effect) { e.allowRecurse = true }
}

// OnTrack registers a hook called when the effect subscribes to a key.
func OnTrack(fn func(DebuggerEvent)) EffectOption {
	return func(e *Effect) { e.onTrack = fn }
}

// OnTrigger registers a hook called before the effect is re-run or scheduled.
func OnTrigger(fn func(DebuggerEvent)) EffectOption {
	return func(e *Effect) { e.onTrigger = fn }
}

// OnStop registers a hook called once when the effect is stopped.
func OnStop(fn func()) EffectOption {
	return func(e *Effect) { e.onStop = fn }
}

// Effect creates an effect running fn. Unless Lazy is given it runs once
// immediately.
func (s *Store) Effect(fn func(), opts ...EffectOption) *Effect {
	return s.newEffect(func() any {
		fn()
		return nil
	}, opts...)
}

func (s *Store) newEffect(fn func() any, opts ...EffectOption) *Effect {
	s.nextEffectID++
	e := &Effect{
		id:     s.nextEffectID,
		store:  s,
		fn:     fn,
		active: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.lazy {
		e.Run()
	}
	return e
}

// ID returns the effect's store-unique identifier.
func (e *Effect) ID() uint64 {
	return e.id
}

// Active reports whether the effect has not been stopped.
func (e *Effect) Active() bool {
	return e.active
}

// DepCount returns the number of dependency sets the effect belongs to.
func (e *Effect) DepCount() int {
	return len(e.deps)
}

// Run executes the effect, re-collecting its dependencies, and returns the
// function's result. A stopped effect without a scheduler runs its function
// untracked; with a scheduler it does nothing. An effect that is already on
// the stack is skipped.
func (e *Effect) Run() any {
	s := e.store
	if !e.active {
		if e.scheduler != nil {
			return nil
		}
		return e.fn()
	}
	for _, running := range s.effectStack {
		if running == e {
			return nil
		}
	}

	e.cleanup()
	s.EnableTracking()
	s.effectStack = append(s.effectStack, e)
	s.activeEffect = e
	defer func() {
		s.effectStack = s.effectStack[:len(s.effectStack)-1]
		s.ResetTracking()
		if n := len(s.effectStack); n > 0 {
			s.activeEffect = s.effectStack[n-1]
		} else {
			s.activeEffect = nil
		}
	}()

	if s.observer != nil {
		s.observer.ObserveEffectRun()
	}
	return e.fn()
}

// Stop removes the effect from every dependency set and deactivates it.
// Stopping twice is a no-op.
func (e *Effect) Stop() {
	if !e.active {
		return
	}
	e.cleanup()
	if e.onStop != nil {
		e.onStop()
	}
	e.active = false
}

func (e *Effect) cleanup() {
	for _, d := range e.deps {
		d.remove(e)
	}
	e.deps = e.deps[:0]
}
