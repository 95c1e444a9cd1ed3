package reactive

import (
	"github.com/vango-dev/reactor/internal/errors"
)

// Sequence methods. Searches track every index so that any change to the
// sequence re-runs the caller. Mutators pause tracking while they run, since
// they read the length they are about to change and would otherwise
// subscribe the running effect to its own write.

// Includes reports whether v is an element, using same-value-zero equality.
func (p *Proxy) Includes(v any) bool {
	return p.search(v, sameValueZero, false) >= 0
}

// IndexOf returns the first index of v, or -1.
func (p *Proxy) IndexOf(v any) int {
	return p.search(v, strictEqual, false)
}

// LastIndexOf returns the last index of v, or -1.
func (p *Proxy) LastIndexOf(v any) int {
	return p.search(v, strictEqual, true)
}

func (p *Proxy) search(v any, eq func(a, b any) bool, reverse bool) int {
	if !p.requireSequence("search") {
		return -1
	}
	if p.source != nil {
		return p.source.search(v, eq, reverse)
	}
	s := *p.seq()
	if !p.readonly {
		p.store.track(p.t, TrackGet, LengthKey)
		for i := range s {
			p.store.track(p.t, TrackGet, i)
		}
	}
	idx := find(s, v, eq, reverse)
	if idx < 0 && IsProxy(v) {
		idx = find(s, ToRaw(v), eq, reverse)
	}
	return idx
}

func find(s []any, v any, eq func(a, b any) bool, reverse bool) int {
	if reverse {
		for i := len(s) - 1; i >= 0; i-- {
			if eq(s[i], v) {
				return i
			}
		}
		return -1
	}
	for i := range s {
		if eq(s[i], v) {
			return i
		}
	}
	return -1
}

// Push appends values and returns the new length.
func (p *Proxy) Push(values ...any) int {
	if !p.mutable("push") {
		return p.rawLen()
	}
	p.store.PauseTracking()
	defer p.store.ResetTracking()

	for _, v := range values {
		p.setIndex(len(*p.seq()), p.storable(v))
	}
	n := len(*p.seq())
	p.setLength(n)
	return n
}

// Pop removes and returns the last element.
func (p *Proxy) Pop() any {
	if !p.mutable("pop") {
		return nil
	}
	p.store.PauseTracking()
	defer p.store.ResetTracking()

	s := *p.seq()
	if len(s) == 0 {
		p.setLength(0)
		return nil
	}
	last := s[len(s)-1]
	p.Delete(len(s) - 1)
	p.setLength(len(s) - 1)
	return p.element(last)
}

// Shift removes and returns the first element.
func (p *Proxy) Shift() any {
	if !p.mutable("shift") {
		return nil
	}
	p.store.PauseTracking()
	defer p.store.ResetTracking()

	s := *p.seq()
	if len(s) == 0 {
		p.setLength(0)
		return nil
	}
	first := s[0]
	next := make([]any, len(s)-1)
	copy(next, s[1:])
	p.rewrite(next)
	return p.element(first)
}

// Unshift prepends values and returns the new length.
func (p *Proxy) Unshift(values ...any) int {
	if !p.mutable("unshift") {
		return p.rawLen()
	}
	p.store.PauseTracking()
	defer p.store.ResetTracking()

	s := *p.seq()
	next := make([]any, 0, len(values)+len(s))
	for _, v := range values {
		next = append(next, p.storable(v))
	}
	next = append(next, s...)
	p.rewrite(next)
	return len(next)
}

// Splice removes deleteCount elements starting at start, inserts items in
// their place and returns the removed elements. A negative start counts
// from the end.
func (p *Proxy) Splice(start, deleteCount int, items ...any) []any {
	if !p.mutable("splice") {
		return nil
	}
	p.store.PauseTracking()
	defer p.store.ResetTracking()

	s := *p.seq()
	n := len(s)
	if start < 0 {
		start = max(n+start, 0)
	}
	start = min(start, n)
	deleteCount = min(max(deleteCount, 0), n-start)

	removed := make([]any, deleteCount)
	for i := range removed {
		removed[i] = p.element(s[start+i])
	}
	next := make([]any, 0, n-deleteCount+len(items))
	next = append(next, s[:start]...)
	for _, v := range items {
		next = append(next, p.storable(v))
	}
	next = append(next, s[start+deleteCount:]...)
	p.rewrite(next)
	return removed
}

// SetLength truncates or extends the sequence with nil elements.
func (p *Proxy) SetLength(n int) {
	if !p.mutable("setLength") {
		return
	}
	if n < 0 {
		p.store.warn(errors.New("R008").WithField("length", n))
		return
	}
	p.store.PauseTracking()
	defer p.store.ResetTracking()
	p.setLength(n)
}

// rewrite replaces the contents with next, writing each index (add or set)
// and then the length. next must not alias the current backing array.
func (p *Proxy) rewrite(next []any) {
	for i, v := range next {
		p.setIndex(i, v)
	}
	p.setLength(len(next))
}

func (p *Proxy) storable(v any) any {
	if p.shallow {
		return v
	}
	return ToRaw(v)
}

func (p *Proxy) element(v any) any {
	if p.shallow {
		return v
	}
	return p.wrapChild(v)
}

func (p *Proxy) rawLen() int {
	if p.t.kind != KindSequence {
		return 0
	}
	return len(*p.seq())
}

func (p *Proxy) requireSequence(op string) bool {
	if p.t.kind == KindSequence {
		return true
	}
	p.store.warn(errors.New("R009").
		WithField("op", op).
		WithField("kind", p.t.kind.String()))
	return false
}

func (p *Proxy) mutable(op string) bool {
	if !p.requireSequence(op) {
		return false
	}
	if p.readonly {
		p.store.warn(errors.New("R007").WithField("op", op))
		return false
	}
	return true
}
