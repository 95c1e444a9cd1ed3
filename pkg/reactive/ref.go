package reactive

import (
	"unsafe"
)

// refLike is implemented by *Ref and *Computed. Objects unwrap ref-like
// values on read and write through them on assignment.
type refLike interface {
	refValue() any
	setRefValue(v any)
}

// Ref is a reactive box around a single value. Aggregates stored in a deep
// ref are wrapped reactive.
type Ref struct {
	store   *Store
	t       target
	raw     any
	value   any
	shallow bool
}

// Ref creates a ref holding v. If v is already a *Ref it is returned.
func (s *Store) Ref(v any) *Ref {
	if r, ok := v.(*Ref); ok {
		return r
	}
	r := &Ref{store: s, raw: ToRaw(v), value: s.toReactive(v)}
	r.t = target{id: unsafe.Pointer(r), raw: r, kind: KindRef}
	return r
}

// ShallowRef creates a ref that stores v as is and only triggers when the
// ref itself is assigned.
func (s *Store) ShallowRef(v any) *Ref {
	r := &Ref{store: s, raw: v, value: v, shallow: true}
	r.t = target{id: unsafe.Pointer(r), raw: r, kind: KindRef}
	return r
}

// Value returns the current value, tracking the ref.
func (r *Ref) Value() any {
	r.store.track(r.t, TrackGet, "value")
	return r.value
}

// Peek returns the current value without tracking.
func (r *Ref) Peek() any {
	return r.value
}

// Set stores v, triggering subscribers if it changed.
func (r *Ref) Set(v any) {
	next := v
	if !r.shallow {
		next = ToRaw(v)
	}
	if !HasChanged(next, r.raw) {
		return
	}
	old := r.value
	r.raw = next
	if r.shallow {
		r.value = v
	} else {
		r.value = r.store.toReactive(v)
	}
	r.store.trigger(r.t, TriggerSet, "value", v, old)
}

// Trigger notifies subscribers without changing the value. Use it after
// mutating the contents of a shallow ref in place.
func (r *Ref) Trigger() {
	r.store.trigger(r.t, TriggerSet, "value", r.value, nil)
}

func (r *Ref) refValue() any      { return r.Value() }
func (r *Ref) setRefValue(v any) { r.Set(v) }

// IsRef reports whether v is a *Ref or a computed value.
func IsRef(v any) bool {
	_, ok := v.(refLike)
	return ok
}

// Unref returns the value of a ref or computed, tracking it, or v itself.
func Unref(v any) any {
	if r, ok := v.(refLike); ok {
		return r.refValue()
	}
	return v
}
