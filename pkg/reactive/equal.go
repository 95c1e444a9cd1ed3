package reactive

import (
	"math"
	"reflect"
)

// HasChanged reports whether a write of value over old counts as a change.
// Comparison is same-value-zero: NaN equals NaN, reference kinds (maps,
// slices, funcs, pointers, channels) compare by identity, and values of
// different dynamic types are always different.
func HasChanged(value, old any) bool {
	return !sameValueZero(value, old)
}

func sameValueZero(a, b any) bool {
	if isNaN(a) && isNaN(b) {
		return true
	}
	return strictEqual(a, b)
}

// strictEqual never panics, even for uncomparable dynamic types.
func strictEqual(a, b any) (eq bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Map, reflect.Func, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	}
	if !ra.Type().Comparable() {
		return false
	}
	// Comparable struct and array types can still hold uncomparable values
	// in interface fields.
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

func isNaN(v any) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	}
	return false
}

// toIndex converts a sequence key to an index.
func toIndex(key any) (int, bool) {
	switch k := key.(type) {
	case int:
		return k, true
	case int64:
		return int(k), true
	case int32:
		return int(k), true
	case uint:
		return int(k), true
	}
	return 0, false
}
