package reactive

import (
	"testing"
)

func TestComputedCaching(t *testing.T) {
	s, _ := newTestStore(t)
	state := s.Reactive(map[string]any{"count": 5})

	computations := 0
	doubled := NewComputed(s, func() int {
		computations++
		return state.Get("count").(int) * 2
	})

	if computations != 0 {
		t.Fatalf("expected lazy computed, got %d computations", computations)
	}
	if doubled.Value() != 10 || doubled.Value() != 10 {
		t.Errorf("expected 10, got %d", doubled.Value())
	}
	if computations != 1 {
		t.Errorf("expected 1 computation, got %d", computations)
	}

	state.Set("count", 6)
	if computations != 1 {
		t.Errorf("expected no eager recomputation, got %d", computations)
	}
	if !doubled.Dirty() {
		t.Error("expected computed to be dirty")
	}
	if doubled.Value() != 12 {
		t.Errorf("expected 12, got %d", doubled.Value())
	}
	if computations != 2 {
		t.Errorf("expected 2 computations, got %d", computations)
	}
}

func TestComputedNotifiesOncePerDirtyCycle(t *testing.T) {
	s, _ := newTestStore(t)
	state := s.Reactive(map[string]any{"a": 1})
	c := NewComputed(s, func() int { return state.Get("a").(int) + 1 })

	scheduled := 0
	s.Effect(func() { c.Value() }, WithScheduler(func(*Effect) { scheduled++ }))

	state.Set("a", 2)
	state.Set("a", 3)
	if scheduled != 1 {
		t.Errorf("expected one notification while dirty, got %d", scheduled)
	}

	c.Value()
	state.Set("a", 4)
	if scheduled != 2 {
		t.Errorf("expected a new notification after reading, got %d", scheduled)
	}
}

func TestComputedInEffect(t *testing.T) {
	s, _ := newTestStore(t)
	state := s.Reactive(map[string]any{"first": "Ada", "last": "Lovelace"})
	full := NewComputed(s, func() string {
		return state.Get("first").(string) + " " + state.Get("last").(string)
	})

	var seen string
	s.Effect(func() { seen = full.Value() })
	state.Set("first", "Grace")
	if seen != "Grace Lovelace" {
		t.Errorf("expected %q, got %q", "Grace Lovelace", seen)
	}
}

func TestChainedComputed(t *testing.T) {
	s, _ := newTestStore(t)
	r := s.Ref(2)
	square := NewComputed(s, func() int { return r.Value().(int) * r.Value().(int) })
	plusOne := NewComputed(s, func() int { return square.Value() + 1 })

	if plusOne.Value() != 5 {
		t.Fatalf("expected 5, got %d", plusOne.Value())
	}
	r.Set(3)
	if plusOne.Value() != 10 {
		t.Errorf("expected 10, got %d", plusOne.Value())
	}
}

func TestWritableComputed(t *testing.T) {
	s, codes := newTestStore(t)
	state := s.Reactive(map[string]any{"celsius": 0.0})
	fahrenheit := NewWritableComputed(s,
		func() float64 { return state.Get("celsius").(float64)*9/5 + 32 },
		func(f float64) { state.Set("celsius", (f-32)*5/9) },
	)

	fahrenheit.Set(212)
	if got := state.Get("celsius"); got != 100.0 {
		t.Errorf("expected 100, got %v", got)
	}
	if fahrenheit.Value() != 212 {
		t.Errorf("expected 212, got %v", fahrenheit.Value())
	}
	if IsReadonly(fahrenheit) {
		t.Error("expected writable computed not to be readonly")
	}

	ro := NewComputed(s, func() int { return 1 })
	ro.Set(2)
	if !hasCode(*codes, "R004") {
		t.Errorf("expected R004 warning, got %v", *codes)
	}
	if !IsReadonly(ro) {
		t.Error("expected computed without setter to be readonly")
	}
}

func TestComputedStop(t *testing.T) {
	s, _ := newTestStore(t)
	r := s.Ref(1)
	c := NewComputed(s, func() int { return r.Value().(int) })

	c.Value()
	c.Effect().Stop()
	r.Set(2)
	if c.Dirty() {
		t.Error("expected stopped computed not to be invalidated")
	}
	if c.Value() != 1 {
		t.Errorf("expected cached 1, got %d", c.Value())
	}
}

func TestComputedInsideObjectIsUnwrapped(t *testing.T) {
	s, _ := newTestStore(t)
	r := s.Ref(3)
	c := NewComputed(s, func() int { return r.Value().(int) * 2 })
	state := s.Reactive(map[string]any{"double": c})

	if got := state.Get("double"); got != 6 {
		t.Errorf("expected 6, got %v", got)
	}
}
