package reactive

import (
	"fmt"
	"reflect"
	"unsafe"
)

// TrackOp classifies a tracked read.
type TrackOp uint8

const (
	TrackGet TrackOp = iota
	TrackHas
	TrackIterate
)

func (op TrackOp) String() string {
	switch op {
	case TrackGet:
		return "get"
	case TrackHas:
		return "has"
	case TrackIterate:
		return "iterate"
	default:
		return fmt.Sprintf("TrackOp(%d)", op)
	}
}

// TriggerOp classifies a write.
type TriggerOp uint8

const (
	TriggerSet TriggerOp = iota
	TriggerAdd
	TriggerDelete
	TriggerClear
)

func (op TriggerOp) String() string {
	switch op {
	case TriggerSet:
		return "set"
	case TriggerAdd:
		return "add"
	case TriggerDelete:
		return "delete"
	case TriggerClear:
		return "clear"
	default:
		return fmt.Sprintf("TriggerOp(%d)", op)
	}
}

type pseudoKey struct{ name string }

func (k *pseudoKey) String() string { return k.name }

// Pseudo-keys that stand for structural reads. IterateKey is tracked by
// enumeration of objects and map-like collections; MapKeyIterateKey only by
// key enumeration of map-like collections.
var (
	IterateKey       any = &pseudoKey{"iterate"}
	MapKeyIterateKey any = &pseudoKey{"map key iterate"}
)

// LengthKey is the key sequences track for their length.
const LengthKey = "length"

// Kind discriminates the aggregates a Proxy can wrap.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindObject
	KindSequence
	KindMap
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindSequence:
		return "sequence"
	case KindMap:
		return "map"
	case KindRef:
		return "ref"
	default:
		return "invalid"
	}
}

// target identifies a tracked aggregate.
type target struct {
	id   unsafe.Pointer
	raw  any
	kind Kind
}

// targetOf resolves the identity of a raw aggregate.
func targetOf(v any) (target, bool) {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return target{}, false
		}
		return target{id: reflect.ValueOf(t).UnsafePointer(), raw: t, kind: KindObject}, true
	case map[any]any:
		if t == nil {
			return target{}, false
		}
		return target{id: reflect.ValueOf(t).UnsafePointer(), raw: t, kind: KindMap}, true
	case *[]any:
		if t == nil {
			return target{}, false
		}
		return target{id: unsafe.Pointer(t), raw: t, kind: KindSequence}, true
	}
	return target{}, false
}

// dep is the insertion-ordered set of effects subscribed to one key.
type dep struct {
	subs  []*Effect
	index map[*Effect]struct{}
}

func newDep() *dep {
	return &dep{index: make(map[*Effect]struct{})}
}

func (d *dep) has(e *Effect) bool {
	_, ok := d.index[e]
	return ok
}

func (d *dep) add(e *Effect) {
	d.index[e] = struct{}{}
	d.subs = append(d.subs, e)
}

func (d *dep) remove(e *Effect) {
	if _, ok := d.index[e]; !ok {
		return
	}
	delete(d.index, e)
	for i, sub := range d.subs {
		if sub == e {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

func (d *dep) size() int {
	return len(d.subs)
}

// depsMap holds the deps of one target keyed by property key, remembering
// the order keys were first tracked so sweeps are deterministic.
type depsMap struct {
	deps  map[any]*dep
	order []any
}

func newDepsMap() *depsMap {
	return &depsMap{deps: make(map[any]*dep)}
}

func (m *depsMap) get(key any) *dep {
	return m.deps[key]
}

func (m *depsMap) getOrCreate(key any) *dep {
	d, ok := m.deps[key]
	if !ok {
		d = newDep()
		m.deps[key] = d
		m.order = append(m.order, key)
	}
	return d
}

// effectSet collects effects for one trigger in first-seen order.
type effectSet struct {
	list []*Effect
	seen map[*Effect]struct{}
}

func (s *effectSet) add(e *Effect) {
	if s.seen == nil {
		s.seen = make(map[*Effect]struct{})
	}
	if _, ok := s.seen[e]; ok {
		return
	}
	s.seen[e] = struct{}{}
	s.list = append(s.list, e)
}
