package reactive

import (
	"fmt"
	"unsafe"

	"github.com/vango-dev/reactor/internal/errors"
)

// Computed is a derived value. The getter runs lazily on the first Value
// call after a dependency changed; until then the cached result is returned.
// Effects reading Value are notified once per invalidation.
type Computed[T any] struct {
	store  *Store
	t      target
	effect *Effect
	value  T
	dirty  bool
	setter func(T)
}

// NewComputed creates a readonly computed value.
func NewComputed[T any](s *Store, getter func() T) *Computed[T] {
	return newComputed(s, getter, nil)
}

// NewWritableComputed creates a computed value whose Set calls setter.
func NewWritableComputed[T any](s *Store, getter func() T, setter func(T)) *Computed[T] {
	return newComputed(s, getter, setter)
}

func newComputed[T any](s *Store, getter func() T, setter func(T)) *Computed[T] {
	c := &Computed[T]{store: s, dirty: true, setter: setter}
	c.t = target{id: unsafe.Pointer(c), raw: c, kind: KindRef}
	c.effect = s.newEffect(func() any {
		c.value = getter()
		return c.value
	}, Lazy(), WithScheduler(func(*Effect) {
		if !c.dirty {
			c.dirty = true
			s.trigger(c.t, TriggerSet, "value", nil, nil)
		}
	}))
	return c
}

// Value returns the cached value, recomputing it first if it is dirty.
func (c *Computed[T]) Value() T {
	if c.dirty {
		c.effect.Run()
		c.dirty = false
	}
	c.store.track(c.t, TrackGet, "value")
	return c.value
}

// Set calls the setter. Without one it warns and does nothing.
func (c *Computed[T]) Set(v T) {
	if c.setter == nil {
		c.store.warn(errors.New("R004"))
		return
	}
	c.setter(v)
}

// Dirty reports whether the next Value call recomputes.
func (c *Computed[T]) Dirty() bool {
	return c.dirty
}

// Effect returns the underlying effect, which can be stopped.
func (c *Computed[T]) Effect() *Effect {
	return c.effect
}

func (c *Computed[T]) isReadonlyRef() bool { return c.setter == nil }

func (c *Computed[T]) refValue() any { return c.Value() }

func (c *Computed[T]) setRefValue(v any) {
	if v == nil {
		var zero T
		c.Set(zero)
		return
	}
	tv, ok := v.(T)
	if !ok {
		c.store.warn(errors.New("R009").
			WithField("op", "set computed").
			WithField("type", fmt.Sprintf("%T", v)))
		return
	}
	c.Set(tv)
}
