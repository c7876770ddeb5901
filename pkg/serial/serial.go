// Package serial checks that a value is made only of plain JSON-shaped data.
package serial

import "reflect"

// IsSerializable reports whether v, and everything reachable from it, is
// nil, a string, a bool, a number, a slice or array, or a string-keyed map.
// Funcs, channels, structs and other exotic kinds fail the check.
func IsSerializable(v any) bool {
	return check(reflect.ValueOf(v), make(map[uintptr]bool))
}

func check(v reflect.Value, visiting map[uintptr]bool) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Interface:
		if v.IsNil() {
			return true
		}
		return check(v.Elem(), visiting)
	case reflect.Pointer:
		if v.IsNil() {
			return true
		}
		if !enter(v, visiting) {
			return false
		}
		defer delete(visiting, v.Pointer())
		return check(v.Elem(), visiting)
	case reflect.Slice:
		if v.IsNil() {
			return true
		}
		if !enter(v, visiting) {
			return false
		}
		defer delete(visiting, v.Pointer())
		return checkElems(v, visiting)
	case reflect.Array:
		return checkElems(v, visiting)
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return false
		}
		if v.IsNil() {
			return true
		}
		if !enter(v, visiting) {
			return false
		}
		defer delete(visiting, v.Pointer())
		iter := v.MapRange()
		for iter.Next() {
			if !check(iter.Value(), visiting) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func checkElems(v reflect.Value, visiting map[uintptr]bool) bool {
	for i := 0; i < v.Len(); i++ {
		if !check(v.Index(i), visiting) {
			return false
		}
	}
	return true
}

// enter marks a reference value as being walked. A value met again while
// still on the stack is a cycle and cannot be serialized.
func enter(v reflect.Value, visiting map[uintptr]bool) bool {
	ptr := v.Pointer()
	if ptr == 0 {
		return true
	}
	if visiting[ptr] {
		return false
	}
	visiting[ptr] = true
	return true
}
