package reactive

import (
	"math"
	"testing"
)

func TestPushNotifiesLengthOnce(t *testing.T) {
	s, _ := newTestStore(t)
	list := s.Reactive(&[]any{1, 2})

	runs := 0
	var events []DebuggerEvent
	s.Effect(func() {
		runs++
		list.Len()
	}, OnTrigger(func(e DebuggerEvent) { events = append(events, e) }))

	if n := list.Push(3); n != 3 {
		t.Errorf("expected new length 3, got %d", n)
	}
	if runs != 2 {
		t.Errorf("expected one rerun, got %d runs", runs)
	}
	if len(events) != 1 {
		t.Fatalf("expected one notification, got %d", len(events))
	}
	if events[0].Trigger != TriggerAdd || events[0].Key != 2 {
		t.Errorf("expected add at index 2, got %+v", events[0])
	}
}

func TestPushInsideEffectDoesNotTrackLength(t *testing.T) {
	s, _ := newTestStore(t)
	list := s.Reactive(&[]any{})

	runs := 0
	e := s.Effect(func() {
		runs++
		list.Push(runs)
	})
	if e.DepCount() != 0 {
		t.Errorf("expected push not to subscribe, got %d deps", e.DepCount())
	}

	list.Push("x")
	if runs != 1 {
		t.Errorf("expected no rerun, got %d runs", runs)
	}
}

func TestPopAndShift(t *testing.T) {
	s, _ := newTestStore(t)
	raw := &[]any{1, 2, 3}
	list := s.Reactive(raw)

	runs := 0
	s.Effect(func() {
		runs++
		list.Len()
	})

	if v := list.Pop(); v != 3 {
		t.Errorf("expected 3, got %v", v)
	}
	if runs != 2 {
		t.Errorf("expected rerun after pop, got %d", runs)
	}
	if v := list.Shift(); v != 1 {
		t.Errorf("expected 1, got %v", v)
	}
	if len(*raw) != 1 || (*raw)[0] != 2 {
		t.Errorf("expected [2], got %v", *raw)
	}
	if runs != 3 {
		t.Errorf("expected rerun after shift, got %d", runs)
	}

	list.Pop()
	if v := list.Pop(); v != nil {
		t.Errorf("expected nil from empty pop, got %v", v)
	}
}

func TestUnshiftAndSplice(t *testing.T) {
	s, _ := newTestStore(t)
	raw := &[]any{1, 2, 3, 4}
	list := s.Reactive(raw)

	removed := list.Splice(1, 2, "a")
	if len(removed) != 2 || removed[0] != 2 || removed[1] != 3 {
		t.Errorf("expected [2 3] removed, got %v", removed)
	}
	want := []any{1, "a", 4}
	if len(*raw) != len(want) {
		t.Fatalf("expected %v, got %v", want, *raw)
	}
	for i := range want {
		if (*raw)[i] != want[i] {
			t.Errorf("index %d: expected %v, got %v", i, want[i], (*raw)[i])
		}
	}

	if n := list.Unshift(0); n != 4 || (*raw)[0] != 0 || (*raw)[3] != 4 {
		t.Errorf("expected [0 1 a 4], got %v (n=%d)", *raw, n)
	}

	list.Splice(-1, 1)
	if len(*raw) != 3 || (*raw)[2] != "a" {
		t.Errorf("expected negative start to count from the end, got %v", *raw)
	}
}

func TestSetLengthTriggersTrailingIndices(t *testing.T) {
	s, _ := newTestStore(t)
	list := s.Reactive(&[]any{"a", "b", "c", "d"})

	headRuns, tailRuns := 0, 0
	s.Effect(func() {
		headRuns++
		list.Get(0)
	})
	s.Effect(func() {
		tailRuns++
		list.Get(3)
	})

	list.SetLength(2)
	if tailRuns != 2 {
		t.Errorf("expected truncated index to rerun, got %d", tailRuns)
	}
	if headRuns != 1 {
		t.Errorf("expected kept index not to rerun, got %d", headRuns)
	}
	if list.Get(3) != nil {
		t.Errorf("expected nil past the end, got %v", list.Get(3))
	}
}

func TestSetBeyondLengthIsAnAdd(t *testing.T) {
	s, _ := newTestStore(t)
	raw := &[]any{"a"}
	list := s.Reactive(raw)

	runs := 0
	s.Effect(func() {
		runs++
		list.Len()
	})

	list.Set(3, "d")
	if len(*raw) != 4 || (*raw)[3] != "d" {
		t.Errorf("expected sequence to grow, got %v", *raw)
	}
	if runs != 2 {
		t.Errorf("expected length subscribers to rerun, got %d", runs)
	}
}

func TestSearchTracksEveryIndex(t *testing.T) {
	s, _ := newTestStore(t)
	list := s.Reactive(&[]any{"a", "b"})

	var found bool
	s.Effect(func() { found = list.Includes("z") })
	if found {
		t.Fatal("expected z to be absent")
	}
	list.Set(1, "z")
	if !found {
		t.Error("expected search to rerun after index write")
	}
}

func TestSearchRetriesWithRawValue(t *testing.T) {
	s, _ := newTestStore(t)
	item := map[string]any{"id": 1}
	list := s.Reactive(&[]any{"x", item})

	wrapped := list.Get(1)
	if !IsProxy(wrapped) {
		t.Fatalf("expected wrapped element, got %T", wrapped)
	}
	if !list.Includes(wrapped) {
		t.Error("expected Includes to find proxy of stored element")
	}
	if i := list.IndexOf(wrapped); i != 1 {
		t.Errorf("expected index 1, got %d", i)
	}
	if i := list.LastIndexOf(wrapped); i != 1 {
		t.Errorf("expected last index 1, got %d", i)
	}
}

func TestSearchNaN(t *testing.T) {
	s, _ := newTestStore(t)
	list := s.Reactive(&[]any{math.NaN()})

	if !list.Includes(math.NaN()) {
		t.Error("expected Includes to match NaN")
	}
	if i := list.IndexOf(math.NaN()); i != -1 {
		t.Errorf("expected IndexOf not to match NaN, got %d", i)
	}
}

func TestReadonlySequenceMutatorsWarn(t *testing.T) {
	s, codes := newTestStore(t)
	raw := &[]any{1}
	ro := s.Readonly(raw)

	if n := ro.Push(2); n != 1 {
		t.Errorf("expected unchanged length 1, got %d", n)
	}
	ro.Pop()
	ro.Splice(0, 1)
	if len(*raw) != 1 {
		t.Errorf("expected raw sequence untouched, got %v", *raw)
	}
	if !hasCode(*codes, "R007") {
		t.Errorf("expected R007 warning, got %v", *codes)
	}
}

func TestSequenceMethodsOnObjectWarn(t *testing.T) {
	s, codes := newTestStore(t)
	obj := s.Reactive(map[string]any{})

	obj.Push(1)
	if !hasCode(*codes, "R009") {
		t.Errorf("expected R009 warning, got %v", *codes)
	}
}
