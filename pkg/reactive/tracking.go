package reactive

// DebuggerEvent describes a track or trigger for OnTrack/OnTrigger hooks.
type DebuggerEvent struct {
	Effect   *Effect
	Target   any
	Kind     Kind
	Key      any
	Track    TrackOp
	Trigger  TriggerOp
	NewValue any
	OldValue any
}

// PauseTracking disables tracking until the matching ResetTracking.
func (s *Store) PauseTracking() {
	s.trackStack = append(s.trackStack, s.shouldTrack)
	s.shouldTrack = false
}

// EnableTracking enables tracking until the matching ResetTracking.
func (s *Store) EnableTracking() {
	s.trackStack = append(s.trackStack, s.shouldTrack)
	s.shouldTrack = true
}

// ResetTracking restores the tracking state saved by the last
// PauseTracking or EnableTracking. An unbalanced reset enables tracking.
func (s *Store) ResetTracking() {
	n := len(s.trackStack)
	if n == 0 {
		s.shouldTrack = true
		return
	}
	s.shouldTrack = s.trackStack[n-1]
	s.trackStack = s.trackStack[:n-1]
}

// Untracked runs fn with tracking paused.
func (s *Store) Untracked(fn func()) {
	s.PauseTracking()
	defer s.ResetTracking()
	fn()
}

// Tracking reports whether a read right now would be tracked.
func (s *Store) Tracking() bool {
	return s.shouldTrack && s.activeEffect != nil
}

// ActiveEffect returns the effect currently running, or nil.
func (s *Store) ActiveEffect() *Effect {
	return s.activeEffect
}

func (s *Store) track(t target, op TrackOp, key any) {
	if !s.shouldTrack || s.activeEffect == nil {
		return
	}
	deps, ok := s.targets[t.id]
	if !ok {
		deps = newDepsMap()
		s.targets[t.id] = deps
	}
	d := deps.getOrCreate(key)
	e := s.activeEffect
	if d.has(e) {
		return
	}
	d.add(e)
	e.deps = append(e.deps, d)
	if s.observer != nil {
		s.observer.ObserveTrack(op)
	}
	if e.onTrack != nil {
		e.onTrack(DebuggerEvent{
			Effect: e,
			Target: t.raw,
			Kind:   t.kind,
			Key:    key,
			Track:  op,
		})
	}
}

func (s *Store) trigger(t target, op TriggerOp, key any, newValue, oldValue any) {
	deps, ok := s.targets[t.id]
	if !ok {
		return
	}

	var effects effectSet
	add := func(d *dep) {
		if d == nil {
			return
		}
		for _, e := range d.subs {
			if e != s.activeEffect || e.allowRecurse {
				effects.add(e)
			}
		}
	}

	switch {
	case op == TriggerClear:
		for _, k := range deps.order {
			add(deps.get(k))
		}
	case t.kind == KindSequence && key == LengthKey:
		newLen, _ := newValue.(int)
		for _, k := range deps.order {
			if k == LengthKey {
				add(deps.get(k))
				continue
			}
			if i, ok := k.(int); ok && i >= newLen {
				add(deps.get(k))
			}
		}
	default:
		if key != nil {
			add(deps.get(key))
		}
		switch op {
		case TriggerAdd:
			if t.kind != KindSequence {
				add(deps.get(IterateKey))
				if t.kind == KindMap {
					add(deps.get(MapKeyIterateKey))
				}
			} else if _, ok := key.(int); ok {
				add(deps.get(LengthKey))
			}
		case TriggerDelete:
			if t.kind != KindSequence {
				add(deps.get(IterateKey))
				if t.kind == KindMap {
					add(deps.get(MapKeyIterateKey))
				}
			}
		case TriggerSet:
			if t.kind == KindMap {
				add(deps.get(IterateKey))
			}
		}
	}

	if s.observer != nil {
		s.observer.ObserveTrigger(op, len(effects.list))
	}
	for _, e := range effects.list {
		if e.onTrigger != nil {
			e.onTrigger(DebuggerEvent{
				Effect:   e,
				Target:   t.raw,
				Kind:     t.kind,
				Key:      key,
				Trigger:  op,
				NewValue: newValue,
				OldValue: oldValue,
			})
		}
		if e.scheduler != nil {
			e.scheduler(e)
		} else {
			e.Run()
		}
	}
}
