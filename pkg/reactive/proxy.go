package reactive

import (
	"fmt"
	"reflect"
	"sort"
	"unsafe"

	"github.com/vango-dev/reactor/internal/errors"
)

// Mode selects how an aggregate is wrapped.
type Mode uint8

const (
	// ModeReactive tracks reads, triggers on writes and wraps nested
	// aggregates on read.
	ModeReactive Mode = iota
	// ModeShallowReactive tracks and triggers only at the top level.
	ModeShallowReactive
	// ModeReadonly rejects writes and wraps nested aggregates readonly.
	ModeReadonly
	// ModeShallowReadonly rejects top-level writes only.
	ModeShallowReadonly
)

func (m Mode) readonly() bool { return m == ModeReadonly || m == ModeShallowReadonly }
func (m Mode) shallow() bool  { return m == ModeShallowReactive || m == ModeShallowReadonly }

func (m Mode) String() string {
	switch m {
	case ModeReactive:
		return "reactive"
	case ModeShallowReactive:
		return "shallowReactive"
	case ModeReadonly:
		return "readonly"
	case ModeShallowReadonly:
		return "shallowReadonly"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// Proxy is a reactive view over a raw aggregate. All access to the
// underlying value goes through its methods.
type Proxy struct {
	store    *Store
	t        target
	readonly bool
	shallow  bool
	// source is set for readonly views created over a reactive proxy;
	// reads are delegated to it so they keep tracking.
	source *Proxy
}

// Reactive returns the deep reactive proxy for v, or nil if v cannot be
// wrapped.
func (s *Store) Reactive(v any) *Proxy {
	return asProxy(s.Wrap(v, ModeReactive))
}

// ShallowReactive returns the shallow reactive proxy for v, or nil if v
// cannot be wrapped.
func (s *Store) ShallowReactive(v any) *Proxy {
	return asProxy(s.Wrap(v, ModeShallowReactive))
}

// Readonly returns the deep readonly proxy for v, or nil if v cannot be
// wrapped.
func (s *Store) Readonly(v any) *Proxy {
	return asProxy(s.Wrap(v, ModeReadonly))
}

// ShallowReadonly returns the shallow readonly proxy for v, or nil if v
// cannot be wrapped.
func (s *Store) ShallowReadonly(v any) *Proxy {
	return asProxy(s.Wrap(v, ModeShallowReadonly))
}

func asProxy(v any) *Proxy {
	p, _ := v.(*Proxy)
	return p
}

// Wrap returns the proxy for v in the given mode, creating and memoizing it
// on first use. Values that cannot be wrapped are returned unchanged: values
// flagged with MarkRaw silently, anything else with a diagnostic. An
// existing readonly proxy is returned as is, as is a reactive proxy wrapped
// in a non-readonly mode.
func (s *Store) Wrap(v any, mode Mode) any {
	readonly, shallow := mode.readonly(), mode.shallow()

	if p, ok := v.(*Proxy); ok {
		if p.readonly || !readonly {
			return p
		}
		table := s.proxyTable(true, shallow)
		key := unsafe.Pointer(p)
		if existing, ok := table[key]; ok {
			return existing
		}
		ro := &Proxy{store: s, t: p.t, readonly: true, shallow: shallow, source: p}
		table[key] = ro
		return ro
	}

	t, ok := targetOf(v)
	if !ok {
		s.warn(errors.New("R003").
			WithField("type", fmt.Sprintf("%T", v)).
			WithField("mode", mode.String()))
		return v
	}
	if _, skip := s.skip[t.id]; skip {
		return v
	}
	table := s.proxyTable(readonly, shallow)
	if existing, ok := table[t.id]; ok {
		return existing
	}
	p := &Proxy{store: s, t: t, readonly: readonly, shallow: shallow}
	table[t.id] = p
	return p
}

// toReactive wraps v deeply when it is a wrappable aggregate.
func (s *Store) toReactive(v any) any {
	if isAggregate(v) {
		return s.Wrap(v, ModeReactive)
	}
	return v
}

func isAggregate(v any) bool {
	if _, ok := v.(*Proxy); ok {
		return true
	}
	_, ok := targetOf(v)
	return ok
}

// IsReactive reports whether v is a reactive proxy, including a readonly
// view over one.
func IsReactive(v any) bool {
	p, ok := v.(*Proxy)
	return ok && p.IsReactive()
}

// IsReadonly reports whether v is a readonly proxy or a computed value
// without a setter.
func IsReadonly(v any) bool {
	switch t := v.(type) {
	case *Proxy:
		return t.readonly
	case interface{ isReadonlyRef() bool }:
		return t.isReadonlyRef()
	}
	return false
}

// IsShallow reports whether v is a shallow proxy.
func IsShallow(v any) bool {
	p, ok := v.(*Proxy)
	return ok && p.shallow
}

// IsProxy reports whether v is any kind of proxy.
func IsProxy(v any) bool {
	_, ok := v.(*Proxy)
	return ok
}

// ToRaw returns the raw aggregate behind a proxy, or v itself.
func ToRaw(v any) any {
	if p, ok := v.(*Proxy); ok && p != nil {
		return p.t.raw
	}
	return v
}

// IsReactive reports whether the proxy tracks reads.
func (p *Proxy) IsReactive() bool {
	if p.source != nil {
		return true
	}
	return !p.readonly
}

// IsReadonly reports whether the proxy rejects writes.
func (p *Proxy) IsReadonly() bool { return p.readonly }

// IsShallow reports whether nested aggregates are left unwrapped.
func (p *Proxy) IsShallow() bool { return p.shallow }

// Kind returns the kind of the wrapped aggregate.
func (p *Proxy) Kind() Kind { return p.t.kind }

// Raw returns the wrapped aggregate without tracking.
func (p *Proxy) Raw() any { return p.t.raw }

// Store returns the store that owns the proxy.
func (p *Proxy) Store() *Store { return p.store }

func (p *Proxy) String() string {
	return fmt.Sprintf("Proxy(%s %s)", p.mode(), p.t.kind)
}

func (p *Proxy) mode() Mode {
	switch {
	case p.readonly && p.shallow:
		return ModeShallowReadonly
	case p.readonly:
		return ModeReadonly
	case p.shallow:
		return ModeShallowReactive
	default:
		return ModeReactive
	}
}

func (p *Proxy) object() map[string]any { return p.t.raw.(map[string]any) }
func (p *Proxy) seq() *[]any             { return p.t.raw.(*[]any) }
func (p *Proxy) collection() map[any]any { return p.t.raw.(map[any]any) }

// normalizeKey validates a key for the wrapped kind. Sequence keys become
// int indices or LengthKey.
func (p *Proxy) normalizeKey(key any) (any, bool) {
	switch p.t.kind {
	case KindObject:
		if _, ok := key.(string); ok {
			return key, true
		}
	case KindSequence:
		if key == LengthKey {
			return key, true
		}
		if i, ok := toIndex(key); ok {
			return i, true
		}
	case KindMap:
		if key == nil || reflect.TypeOf(key).Comparable() {
			return key, true
		}
	}
	p.store.warn(errors.New("R009").
		WithField("kind", p.t.kind.String()).
		WithField("key", fmt.Sprintf("%T(%v)", key, key)))
	return nil, false
}

// rawGet reads a normalized key from the raw aggregate.
func (p *Proxy) rawGet(key any) (any, bool) {
	switch p.t.kind {
	case KindObject:
		v, ok := p.object()[key.(string)]
		return v, ok
	case KindSequence:
		s := *p.seq()
		if key == LengthKey {
			return len(s), true
		}
		i := key.(int)
		if i < 0 || i >= len(s) {
			return nil, false
		}
		return s[i], true
	case KindMap:
		v, ok := p.collection()[key]
		return v, ok
	}
	return nil, false
}

// wrapChild wraps a nested aggregate read through the proxy.
func (p *Proxy) wrapChild(v any) any {
	if !isAggregate(v) {
		return v
	}
	if p.readonly {
		return p.store.Wrap(v, ModeReadonly)
	}
	return p.store.Wrap(v, ModeReactive)
}

// Get reads key, tracking it unless the proxy is readonly. Nested
// aggregates come back wrapped in the proxy's mode; refs stored in objects
// come back unwrapped.
func (p *Proxy) Get(key any) any {
	if p.source != nil {
		v := p.source.Get(key)
		if p.shallow {
			return v
		}
		return p.wrapChild(v)
	}

	k, ok := p.normalizeKey(key)
	if !ok {
		return nil
	}
	v, _ := p.rawGet(k)
	if !p.readonly {
		p.store.track(p.t, TrackGet, k)
	}
	if p.shallow {
		return v
	}
	if p.t.kind == KindObject {
		if r, ok := v.(refLike); ok {
			return r.refValue()
		}
	}
	return p.wrapChild(v)
}

// Set writes key and notifies subscribers. It triggers an add when the key
// is new and a set when an existing value changed. On a readonly proxy the
// write is rejected with a warning and Set still reports success.
func (p *Proxy) Set(key, value any) bool {
	if p.readonly {
		p.store.warn(errors.New("R001").
			WithField("key", fmt.Sprint(key)).
			WithField("kind", p.t.kind.String()))
		return true
	}
	k, ok := p.normalizeKey(key)
	if !ok {
		return false
	}
	if !p.shallow {
		value = ToRaw(value)
	}

	switch p.t.kind {
	case KindObject:
		m := p.object()
		old, had := m[k.(string)]
		if !p.shallow {
			if oldRef, ok := old.(refLike); ok {
				if _, isRef := value.(refLike); !isRef {
					oldRef.setRefValue(value)
					return true
				}
			}
		}
		m[k.(string)] = value
		p.afterSet(k, value, old, had)
	case KindSequence:
		if k == LengthKey {
			n, ok := toIndex(value)
			if !ok || n < 0 {
				p.store.warn(errors.New("R008").WithField("length", fmt.Sprint(value)))
				return false
			}
			p.setLength(n)
			return true
		}
		i := k.(int)
		if i < 0 {
			p.store.warn(errors.New("R008").WithField("index", i))
			return false
		}
		p.setIndex(i, value)
	case KindMap:
		m := p.collection()
		old, had := m[k]
		m[k] = value
		p.afterSet(k, value, old, had)
	}
	return true
}

func (p *Proxy) afterSet(key, value, old any, had bool) {
	if !had {
		p.store.trigger(p.t, TriggerAdd, key, value, nil)
	} else if HasChanged(value, old) {
		p.store.trigger(p.t, TriggerSet, key, value, old)
	}
}

func (p *Proxy) setIndex(i int, value any) {
	s := p.seq()
	had := i < len(*s)
	var old any
	if had {
		old = (*s)[i]
	} else {
		*s = append(*s, make([]any, i-len(*s)+1)...)
	}
	(*s)[i] = value
	p.afterSet(i, value, old, had)
}

func (p *Proxy) setLength(n int) {
	s := p.seq()
	old := len(*s)
	switch {
	case n < old:
		clear((*s)[n:])
		*s = (*s)[:n]
	case n > old:
		*s = append(*s, make([]any, n-old)...)
	}
	if n != old {
		p.store.trigger(p.t, TriggerSet, LengthKey, n, old)
	}
}

// Delete removes key, triggering a delete only if it existed. Deleting a
// sequence index leaves a nil hole and keeps the length.
func (p *Proxy) Delete(key any) bool {
	if p.readonly {
		p.store.warn(errors.New("R002").
			WithField("key", fmt.Sprint(key)).
			WithField("kind", p.t.kind.String()))
		return true
	}
	k, ok := p.normalizeKey(key)
	if !ok {
		return false
	}

	switch p.t.kind {
	case KindObject:
		m := p.object()
		old, had := m[k.(string)]
		delete(m, k.(string))
		if had {
			p.store.trigger(p.t, TriggerDelete, k, nil, old)
		}
	case KindSequence:
		if k == LengthKey {
			return false
		}
		s := *p.seq()
		i := k.(int)
		if i >= 0 && i < len(s) {
			old := s[i]
			s[i] = nil
			p.store.trigger(p.t, TriggerDelete, i, nil, old)
		}
	case KindMap:
		m := p.collection()
		old, had := m[k]
		delete(m, k)
		if had {
			p.store.trigger(p.t, TriggerDelete, k, nil, old)
		}
	}
	return true
}

// Has reports whether key is present, tracking it with op has.
func (p *Proxy) Has(key any) bool {
	if p.source != nil {
		return p.source.Has(key)
	}
	k, ok := p.normalizeKey(key)
	if !ok {
		return false
	}
	_, present := p.rawGet(k)
	if !p.readonly {
		p.store.track(p.t, TrackHas, k)
	}
	return present
}

// Keys enumerates the keys of the aggregate. Object keys are sorted,
// sequence keys are indices and map keys are ordered by their printed form.
// Objects track the iterate key, sequences "length" and maps the map key
// iterate key.
func (p *Proxy) Keys() []any {
	if p.source != nil {
		return p.source.Keys()
	}
	switch p.t.kind {
	case KindObject:
		p.trackIterate(IterateKey)
		m := p.object()
		names := make([]string, 0, len(m))
		for k := range m {
			names = append(names, k)
		}
		sort.Strings(names)
		keys := make([]any, len(names))
		for i, k := range names {
			keys[i] = k
		}
		return keys
	case KindSequence:
		p.trackIterate(LengthKey)
		keys := make([]any, len(*p.seq()))
		for i := range keys {
			keys[i] = i
		}
		return keys
	case KindMap:
		p.trackIterate(MapKeyIterateKey)
		return sortedKeys(p.collection())
	}
	return nil
}

// Len returns the number of entries (the length for sequences).
func (p *Proxy) Len() int {
	if p.source != nil {
		return p.source.Len()
	}
	switch p.t.kind {
	case KindObject:
		p.trackIterate(IterateKey)
		return len(p.object())
	case KindSequence:
		if !p.readonly {
			p.store.track(p.t, TrackGet, LengthKey)
		}
		return len(*p.seq())
	case KindMap:
		p.trackIterate(IterateKey)
		return len(p.collection())
	}
	return 0
}

// Range calls fn for every entry in Keys order until fn returns false.
// Values are wrapped as Get would wrap them.
func (p *Proxy) Range(fn func(key, value any) bool) {
	if p.source != nil {
		p.source.Range(func(key, value any) bool {
			if !p.shallow {
				value = p.wrapChild(value)
			}
			return fn(key, value)
		})
		return
	}
	if p.t.kind == KindMap {
		p.trackIterate(IterateKey)
		m := p.collection()
		for _, k := range sortedKeys(m) {
			v := m[k]
			if !p.shallow {
				v = p.wrapChild(v)
			}
			if !fn(k, v) {
				return
			}
		}
		return
	}
	for _, k := range p.Keys() {
		if !fn(k, p.Get(k)) {
			return
		}
	}
}

func (p *Proxy) trackIterate(key any) {
	if !p.readonly {
		p.store.track(p.t, TrackIterate, key)
	}
}

func sortedKeys(m map[any]any) []any {
	keys := make([]any, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
	return keys
}
