// Package deepsize estimates the memory reachable from a Go value.
package deepsize

import (
	"reflect"
)

// mapEntryOverhead approximates per-entry bucket bookkeeping in a Go map.
const mapEntryOverhead = 8

// Of returns an estimate of the total memory occupied by v: its own inline
// size plus everything reachable through pointers, strings, slices, maps
// and interfaces. Shared pointers are counted once.
func Of(v any) int64 {
	if v == nil {
		return 0
	}
	w := walker{seen: make(map[uintptr]bool)}
	rv := reflect.ValueOf(v)
	return int64(rv.Type().Size()) + w.indirect(rv)
}

type walker struct {
	seen map[uintptr]bool
}

// indirect returns the memory reachable from v that is not already part of
// v's inline storage (which the caller has accounted for).
func (w *walker) indirect(v reflect.Value) int64 {
	if !v.IsValid() {
		return 0
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() || w.visited(v.Pointer()) {
			return 0
		}
		elem := v.Elem()
		return int64(elem.Type().Size()) + w.indirect(elem)

	case reflect.String:
		return int64(v.Len())

	case reflect.Slice:
		if v.IsNil() || w.visited(v.Pointer()) {
			return 0
		}
		s := int64(v.Cap()) * int64(v.Type().Elem().Size())
		return s + w.elements(v)

	case reflect.Array:
		return w.elements(v)

	case reflect.Struct:
		var s int64
		for i := range v.NumField() {
			s += w.indirect(v.Field(i))
		}
		return s

	case reflect.Map:
		if v.IsNil() {
			return 0
		}
		var s int64
		iter := v.MapRange()
		for iter.Next() {
			k, e := iter.Key(), iter.Value()
			s += mapEntryOverhead
			s += int64(k.Type().Size()) + w.indirect(k)
			s += int64(e.Type().Size()) + w.indirect(e)
		}
		return s

	case reflect.Interface:
		if v.IsNil() {
			return 0
		}
		elem := v.Elem()
		return int64(elem.Type().Size()) + w.indirect(elem)

	default:
		// Scalars live entirely inline.
		return 0
	}
}

// elements sums the indirect memory of every element in an array or slice,
// skipping the walk when the element type cannot reference anything.
func (w *walker) elements(v reflect.Value) int64 {
	if !hasIndirect(v.Type().Elem()) {
		return 0
	}
	var s int64
	for i := range v.Len() {
		s += w.indirect(v.Index(i))
	}
	return s
}

func (w *walker) visited(ptr uintptr) bool {
	if w.seen[ptr] {
		return true
	}
	w.seen[ptr] = true
	return false
}

// hasIndirect reports whether values of t may reference memory outside
// their inline storage.
func hasIndirect(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.String,
		reflect.Interface:
		return true
	case reflect.Struct:
		for i := range t.NumField() {
			if hasIndirect(t.Field(i).Type) {
				return true
			}
		}
	case reflect.Array:
		return hasIndirect(t.Elem())
	}
	return false
}
