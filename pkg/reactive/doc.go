// Package reactive provides the fine-grained reactivity engine for reactor.
//
// Dependencies are tracked automatically at runtime: reading a key of a
// reactive aggregate while an effect is running subscribes that effect to the
// (target, key) pair, and writing the key re-runs every subscriber. There is
// no global state; every application root owns a *Store that holds the
// dependency table, the proxy tables and the effect stack.
//
// # Core Types
//
// Proxy is an explicit reactive view over a plain aggregate. Go has no
// transparent property interception, so reads and writes go through methods:
//
//	s := reactive.NewStore()
//	state := s.Reactive(map[string]any{"count": 0})
//	state.Get("count")     // tracks (state, "count")
//	state.Set("count", 1)  // notifies subscribers of (state, "count")
//
// Supported aggregates are map[string]any (objects), *[]any (sequences) and
// map[any]any (map-like collections). Nested aggregates are wrapped lazily on
// read and memoized, so each raw value has exactly one proxy per mode.
//
// Effect is a re-runnable computation:
//
//	e := s.Effect(func() {
//	    fmt.Println("count is", state.Get("count"))
//	})
//	defer e.Stop()
//
// Computed is a lazily recomputed, cached derived value:
//
//	doubled := reactive.NewComputed(s, func() int {
//	    return state.Get("count").(int) * 2
//	})
//	doubled.Value()
//
// Ref boxes a single value; reactive objects unwrap refs stored in them.
//
// # Scheduling
//
// By default a triggered effect re-runs synchronously. WithScheduler hands
// the effect to a function that decides when to run it, which is how render
// effects and watchers batch updates through a queue.
//
// # Thread Safety
//
// A Store is confined to the goroutine that drives it, the same way a
// browser event loop owns its heap. Callers that share a store across
// goroutines must serialize access themselves.
package reactive
