// Package equal implements the strict comparison used by the validation value
// cache and by subscription dependency snapshots: scalars compare by value,
// reference-like values (maps, slices, funcs, channels, pointers) compare by
// identity.
package equal

import "reflect"

// Same reports whether a and b are the same value. It never panics on
// uncomparable dynamic types.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return safeEqual(a, b)
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Slice:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() == vb.IsNil()
		}
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	default:
		return false
	}
}

// Snapshots compares two dependency snapshots element by element. Differing
// lengths are never equal.
func Snapshots(prev, next []any) bool {
	if len(prev) != len(next) {
		return false
	}
	for i := range next {
		if !Same(prev[i], next[i]) {
			return false
		}
	}
	return true
}

// safeEqual guards against structs or arrays whose static type is comparable
// but that hold uncomparable values in interface fields.
func safeEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
