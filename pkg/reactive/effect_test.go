package reactive

import (
	"testing"
)

func TestEffectRerunsOnChange(t *testing.T) {
	s, _ := newTestStore(t)
	state := s.Reactive(map[string]any{"a": 1})

	runs := 0
	var seen any
	s.Effect(func() {
		runs++
		seen = state.Get("a")
	})
	if runs != 1 || seen != 1 {
		t.Fatalf("expected 1 run seeing 1, got %d runs seeing %v", runs, seen)
	}

	state.Set("a", 2)
	if runs != 2 || seen != 2 {
		t.Errorf("expected 2 runs seeing 2, got %d runs seeing %v", runs, seen)
	}

	// Same value is not a change
	state.Set("a", 2)
	if runs != 2 {
		t.Errorf("expected no rerun for unchanged value, got %d runs", runs)
	}
}

func TestEffectStopIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	state := s.Reactive(map[string]any{"a": 1})

	runs, stops := 0, 0
	e := s.Effect(func() {
		runs++
		state.Get("a")
	}, OnStop(func() { stops++ }))

	e.Stop()
	e.Stop()
	if stops != 1 {
		t.Errorf("expected onStop once, got %d", stops)
	}
	if e.Active() {
		t.Error("expected effect to be inactive")
	}
	if e.DepCount() != 0 {
		t.Errorf("expected no deps after stop, got %d", e.DepCount())
	}

	state.Set("a", 2)
	if runs != 1 {
		t.Errorf("expected stopped effect not to rerun, got %d runs", runs)
	}

	// A stopped effect without scheduler still runs its function on demand.
	e.Run()
	if runs != 2 {
		t.Errorf("expected manual run of stopped effect, got %d runs", runs)
	}
	if e.DepCount() != 0 {
		t.Errorf("expected manual run not to track, got %d deps", e.DepCount())
	}
}

func TestEffectLazy(t *testing.T) {
	s, _ := newTestStore(t)
	runs := 0
	e := s.Effect(func() { runs++ }, Lazy())
	if runs != 0 {
		t.Fatalf("expected lazy effect not to run, got %d", runs)
	}
	e.Run()
	if runs != 1 {
		t.Errorf("expected 1 run, got %d", runs)
	}
}

func TestEffectScheduler(t *testing.T) {
	s, _ := newTestStore(t)
	state := s.Reactive(map[string]any{"a": 1})

	runs := 0
	var scheduled []*Effect
	e := s.Effect(func() {
		runs++
		state.Get("a")
	}, WithScheduler(func(e *Effect) {
		scheduled = append(scheduled, e)
	}))

	state.Set("a", 2)
	if runs != 1 {
		t.Errorf("expected scheduler to replace rerun, got %d runs", runs)
	}
	if len(scheduled) != 1 || scheduled[0] != e {
		t.Fatalf("expected effect to be scheduled once, got %v", scheduled)
	}

	scheduled[0].Run()
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
}

func TestEffectDoesNotTriggerItself(t *testing.T) {
	s, _ := newTestStore(t)
	state := s.Reactive(map[string]any{"n": 0})

	runs := 0
	s.Effect(func() {
		runs++
		state.Set("n", state.Get("n").(int)+1)
	})
	if runs != 1 {
		t.Fatalf("expected 1 run, got %d", runs)
	}

	state.Set("n", 10)
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
	if got := state.Get("n"); got != 11 {
		t.Errorf("expected 11, got %v", got)
	}
}

func TestEffectAllowRecurse(t *testing.T) {
	s, _ := newTestStore(t)
	state := s.Reactive(map[string]any{"n": 0})

	scheduled := 0
	s.Effect(func() {
		state.Set("n", state.Get("n").(int)+1)
	}, AllowRecurse(), WithScheduler(func(*Effect) { scheduled++ }))

	if scheduled != 1 {
		t.Errorf("expected self-trigger to schedule once, got %d", scheduled)
	}
}

func TestNestedEffectsRestoreActive(t *testing.T) {
	s, _ := newTestStore(t)
	state := s.Reactive(map[string]any{"a": 1, "b": 1})

	outer, inner := 0, 0
	s.Effect(func() {
		outer++
		s.Effect(func() {
			inner++
			state.Get("b")
		})
		state.Get("a")
	})

	state.Set("b", 2)
	if outer != 1 {
		t.Errorf("expected outer not to depend on b, got %d runs", outer)
	}
	if inner != 2 {
		t.Errorf("expected inner rerun, got %d runs", inner)
	}

	state.Set("a", 2)
	if outer != 2 {
		t.Errorf("expected outer rerun on a, got %d runs", outer)
	}
	if s.ActiveEffect() != nil {
		t.Error("expected no active effect after runs")
	}
}

func TestCleanupDropsStaleDependencies(t *testing.T) {
	s, _ := newTestStore(t)
	state := s.Reactive(map[string]any{"flag": true, "a": 1, "b": 1})

	runs := 0
	s.Effect(func() {
		runs++
		if state.Get("flag").(bool) {
			state.Get("a")
		} else {
			state.Get("b")
		}
	})

	state.Set("flag", false)
	if runs != 2 {
		t.Fatalf("expected 2 runs, got %d", runs)
	}

	state.Set("a", 5)
	if runs != 2 {
		t.Errorf("expected stale dependency on a to be dropped, got %d runs", runs)
	}
	state.Set("b", 5)
	if runs != 3 {
		t.Errorf("expected rerun on b, got %d runs", runs)
	}
}

func TestTriggerOrderFollowsSubscription(t *testing.T) {
	s, _ := newTestStore(t)
	state := s.Reactive(map[string]any{"a": 1})

	var order []string
	s.Effect(func() {
		state.Get("a")
		order = append(order, "first")
	})
	s.Effect(func() {
		state.Get("a")
		order = append(order, "second")
	})
	order = nil

	state.Set("a", 2)
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected [first second], got %v", order)
	}
}

func TestUntracked(t *testing.T) {
	s, _ := newTestStore(t)
	state := s.Reactive(map[string]any{"a": 1})

	runs := 0
	s.Effect(func() {
		runs++
		s.Untracked(func() { state.Get("a") })
	})

	state.Set("a", 2)
	if runs != 1 {
		t.Errorf("expected untracked read not to subscribe, got %d runs", runs)
	}
}

func TestTrackingStackRestoresState(t *testing.T) {
	s, _ := newTestStore(t)

	s.PauseTracking()
	if s.shouldTrack {
		t.Fatal("expected tracking paused")
	}
	s.EnableTracking()
	if !s.shouldTrack {
		t.Fatal("expected tracking enabled")
	}
	s.ResetTracking()
	if s.shouldTrack {
		t.Error("expected reset to restore paused state")
	}
	s.ResetTracking()
	if !s.shouldTrack {
		t.Error("expected reset to restore enabled state")
	}
	s.ResetTracking()
	if !s.shouldTrack {
		t.Error("expected unbalanced reset to enable tracking")
	}
}

func TestEffectPanicRestoresStack(t *testing.T) {
	s, _ := newTestStore(t)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate")
			}
		}()
		s.Effect(func() { panic("boom") })
	}()

	if s.ActiveEffect() != nil {
		t.Error("expected active effect to be restored")
	}
	if len(s.effectStack) != 0 {
		t.Errorf("expected empty effect stack, got %d", len(s.effectStack))
	}
	if !s.shouldTrack {
		t.Error("expected tracking state to be restored")
	}
}

func TestDebuggerHooks(t *testing.T) {
	s, _ := newTestStore(t)
	state := s.Reactive(map[string]any{"a": 1})

	var tracked, triggered []DebuggerEvent
	s.Effect(func() {
		state.Get("a")
		state.Get("a")
	},
		OnTrack(func(e DebuggerEvent) { tracked = append(tracked, e) }),
		OnTrigger(func(e DebuggerEvent) { triggered = append(triggered, e) }),
	)

	if len(tracked) != 1 {
		t.Fatalf("expected one track event, got %d", len(tracked))
	}
	if tracked[0].Key != "a" || tracked[0].Track != TrackGet || tracked[0].Kind != KindObject {
		t.Errorf("unexpected track event %+v", tracked[0])
	}

	state.Set("a", 2)
	if len(triggered) != 1 {
		t.Fatalf("expected one trigger event, got %d", len(triggered))
	}
	ev := triggered[0]
	if ev.Trigger != TriggerSet || ev.Key != "a" || ev.NewValue != 2 || ev.OldValue != 1 {
		t.Errorf("unexpected trigger event %+v", ev)
	}
}

type countingObserver struct {
	tracks, triggers, runs int
}

func (o *countingObserver) ObserveTrack(TrackOp)          { o.tracks++ }
func (o *countingObserver) ObserveTrigger(TriggerOp, int) { o.triggers++ }
func (o *countingObserver) ObserveEffectRun()             { o.runs++ }

func TestObserver(t *testing.T) {
	obs := &countingObserver{}
	s := NewStore(WithObserver(obs))
	state := s.Reactive(map[string]any{"a": 1})

	s.Effect(func() { state.Get("a") })
	state.Set("a", 2)

	if obs.runs != 2 {
		t.Errorf("expected 2 effect runs, got %d", obs.runs)
	}
	if obs.tracks != 2 {
		t.Errorf("expected 2 tracks, got %d", obs.tracks)
	}
	if obs.triggers != 1 {
		t.Errorf("expected 1 trigger, got %d", obs.triggers)
	}
}
