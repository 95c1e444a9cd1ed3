package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// domProps are keys applied as DOM properties rather than attributes.
var domProps = map[string]bool{
	"value":    true,
	"checked":  true,
	"selected": true,
	"muted":    true,
}

// patchData applies next's keys to el and removes the keys only prev had.
// Keys whose value did not change are skipped.
func (r *Renderer) patchData(el Node, prev, next vdom.Data, svg bool) {
	for _, key := range sortedKeys(next) {
		old, had := prev[key]
		r.patchProp(el, key, old, next[key], had, svg)
	}
	for _, key := range sortedKeys(prev) {
		if _, ok := next[key]; !ok {
			r.patchProp(el, key, prev[key], nil, true, svg)
		}
	}
}

func (r *Renderer) patchProp(el Node, key string, old, value any, had, svg bool) {
	switch {
	case key == "key":
	case key == "style":
		r.patchStyle(el, old, value)
	case key == "class":
		r.patchClass(el, old, value, had)
	case vdom.IsEventKey(key):
		r.patchEvent(el, key, old, value)
	case had && !reactive.HasChanged(value, old):
	case isDOMProp(key, svg):
		r.host.SetProperty(el, key, value)
	default:
		r.patchAttr(el, key, value)
	}
}

func isDOMProp(key string, svg bool) bool {
	if domProps[key] {
		return true
	}
	if svg {
		return false
	}
	return strings.ToLower(key) != key
}

func (r *Renderer) patchAttr(el Node, key string, value any) {
	switch v := value.(type) {
	case nil:
		r.host.RemoveAttribute(el, key)
	case bool:
		if v {
			r.host.SetAttribute(el, key, "")
		} else {
			r.host.RemoveAttribute(el, key)
		}
	case string:
		r.host.SetAttribute(el, key, v)
	default:
		r.host.SetAttribute(el, key, fmt.Sprint(v))
	}
}

func (r *Renderer) patchClass(el Node, old, value any, had bool) {
	next := NormalizeClass(value)
	if had && next == NormalizeClass(old) {
		return
	}
	if next == "" {
		if had {
			r.host.RemoveAttribute(el, "class")
		}
		return
	}
	r.host.SetAttribute(el, "class", next)
}

// patchEvent replaces the listener for an event key. A value that is not a
// handler is reported with E104 and leaves no listener behind.
func (r *Renderer) patchEvent(el Node, key string, old, value any) {
	event := vdom.EventName(key)
	if old != nil {
		r.host.RemoveEventListener(el, event)
	}
	if value == nil {
		return
	}
	h, ok := vdom.ToHandler(value)
	if !ok {
		r.warn(errors.New("E104").
			WithField("event", event).
			WithField("type", fmt.Sprintf("%T", value)))
		return
	}
	r.host.AddEventListener(el, event, h)
}

// patchStyle applies a style value: a string is the whole style attribute,
// a map sets individual properties.
func (r *Renderer) patchStyle(el Node, old, value any) {
	oldMap, oldIsMap := normalizeStyle(old)
	nextMap, nextIsMap := normalizeStyle(value)

	if !nextIsMap {
		next, _ := value.(string)
		if oldIsMap {
			for _, name := range sortedKeys(oldMap) {
				r.host.RemoveStyle(el, name)
			}
		} else if prev, _ := old.(string); prev == next {
			return
		}
		if next == "" {
			r.host.RemoveAttribute(el, "style")
		} else {
			r.host.SetAttribute(el, "style", next)
		}
		return
	}

	if !oldIsMap {
		if prev, _ := old.(string); prev != "" {
			r.host.RemoveAttribute(el, "style")
		}
	}
	for _, name := range sortedKeys(nextMap) {
		if prev, ok := oldMap[name]; !ok || prev != nextMap[name] {
			r.host.SetStyle(el, name, nextMap[name])
		}
	}
	for _, name := range sortedKeys(oldMap) {
		if _, ok := nextMap[name]; !ok {
			r.host.RemoveStyle(el, name)
		}
	}
}

// normalizeStyle converts the map forms of a style value. It reports false
// for strings and nil.
func normalizeStyle(v any) (map[string]string, bool) {
	switch s := v.(type) {
	case map[string]string:
		return s, true
	case map[string]any:
		out := make(map[string]string, len(s))
		for k, val := range s {
			if val == nil {
				continue
			}
			out[k] = fmt.Sprint(val)
		}
		return out, true
	}
	return nil, false
}

// NormalizeClass flattens a class value to a space separated string. It
// accepts a string, []string, map[string]bool (true keys, sorted) and []any
// of those.
func NormalizeClass(v any) string {
	var parts []string
	appendClass(&parts, v)
	return strings.Join(parts, " ")
}

func appendClass(parts *[]string, v any) {
	switch c := v.(type) {
	case nil:
	case string:
		if c = strings.TrimSpace(c); c != "" {
			*parts = append(*parts, c)
		}
	case []string:
		for _, s := range c {
			appendClass(parts, s)
		}
	case map[string]bool:
		names := make([]string, 0, len(c))
		for name, on := range c {
			if on {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			appendClass(parts, name)
		}
	case []any:
		for _, item := range c {
			appendClass(parts, item)
		}
	default:
		appendClass(parts, fmt.Sprint(c))
	}
}
