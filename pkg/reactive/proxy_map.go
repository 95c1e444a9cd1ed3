package reactive

import (
	"github.com/vango-dev/reactor/internal/errors"
)

// Entry is a key/value pair of a map-like collection.
type Entry struct {
	Key   any
	Value any
}

// Clear removes every entry of a map-like collection, triggering a clear
// when it was not empty.
func (p *Proxy) Clear() {
	if p.t.kind != KindMap {
		p.store.warn(errors.New("R009").
			WithField("op", "clear").
			WithField("kind", p.t.kind.String()))
		return
	}
	if p.readonly {
		p.store.warn(errors.New("R001").WithField("op", "clear"))
		return
	}
	m := p.collection()
	had := len(m) > 0
	clear(m)
	if had {
		p.store.trigger(p.t, TriggerClear, nil, nil, nil)
	}
}

// Values returns the values of a map-like collection in key order,
// tracking the iterate key.
func (p *Proxy) Values() []any {
	var values []any
	p.rangeCollection("values", func(_, v any) {
		values = append(values, v)
	})
	return values
}

// Entries returns the entries of a map-like collection in key order,
// tracking the iterate key.
func (p *Proxy) Entries() []Entry {
	var entries []Entry
	p.rangeCollection("entries", func(k, v any) {
		entries = append(entries, Entry{Key: k, Value: v})
	})
	return entries
}

func (p *Proxy) rangeCollection(op string, fn func(k, v any)) {
	if p.t.kind != KindMap {
		p.store.warn(errors.New("R009").
			WithField("op", op).
			WithField("kind", p.t.kind.String()))
		return
	}
	p.Range(func(k, v any) bool {
		fn(k, v)
		return true
	})
}
