// Package layering overlays typed snapshots so that values present in a
// stronger layer win and absent values fall through to weaker ones.
//
// "Absent" is structural: a nil pointer, nil slice, nil map or nil interface.
// Scalars cannot express absence, so the strongest layer's scalar is kept.
// Callers that need per-key presence (for example a partially persisted
// record) should model their patch with pointer fields.
package layering

import "reflect"

// MergeLayers composes snapshots ordered from strongest to weakest and
// returns a detached copy of the result. None of the inputs are modified.
func MergeLayers[T any](layers ...T) T {
	var zero T
	if len(layers) == 0 {
		return zero
	}

	merged := Clone(layers[len(layers)-1])
	for i := len(layers) - 2; i >= 0; i-- {
		merged = overlay(layers[i], merged)
	}
	return merged
}

// Clone deep copies value so the result shares no pointers, slices or maps
// with the input.
func Clone[T any](value T) T {
	rv := reflect.ValueOf(&value).Elem()
	out := reflect.New(rv.Type()).Elem()
	out.Set(deepCopy(rv))
	return out.Interface().(T)
}

func overlay[T any](strong, weak T) T {
	s := reflect.ValueOf(&strong).Elem()
	w := reflect.ValueOf(&weak).Elem()
	out := reflect.New(s.Type()).Elem()
	out.Set(overlayValue(s, w))
	return out.Interface().(T)
}

func overlayValue(strong, weak reflect.Value) reflect.Value {
	if isAbsent(strong) {
		return deepCopy(weak)
	}

	switch strong.Kind() {
	case reflect.Pointer:
		inner := reflect.Value{}
		if weak.Kind() == reflect.Pointer && !weak.IsNil() {
			inner = weak.Elem()
		}
		ptr := reflect.New(strong.Type().Elem())
		if inner.IsValid() {
			ptr.Elem().Set(overlayValue(strong.Elem(), inner))
		} else {
			ptr.Elem().Set(deepCopy(strong.Elem()))
		}
		return ptr
	case reflect.Struct:
		out := reflect.New(strong.Type()).Elem()
		for i := 0; i < strong.NumField(); i++ {
			if !out.Field(i).CanSet() {
				continue
			}
			out.Field(i).Set(overlayValue(strong.Field(i), weak.Field(i)))
		}
		return out
	case reflect.Map:
		out := reflect.MakeMapWithSize(strong.Type(), strong.Len())
		if weak.Kind() == reflect.Map && !weak.IsNil() {
			iter := weak.MapRange()
			for iter.Next() {
				out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
			}
		}
		iter := strong.MapRange()
		for iter.Next() {
			if existing := out.MapIndex(iter.Key()); existing.IsValid() {
				out.SetMapIndex(iter.Key(), overlayValue(iter.Value(), existing))
				continue
			}
			out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return out
	default:
		// Slices replace wholesale: a present selection is never merged
		// element-wise with the weaker one.
		return deepCopy(strong)
	}
}

func isAbsent(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

func deepCopy(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		ptr := reflect.New(v.Type().Elem())
		ptr.Elem().Set(deepCopy(v.Elem()))
		return ptr
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(deepCopy(v.Elem()))
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if out.Field(i).CanSet() {
				out.Field(i).Set(deepCopy(v.Field(i)))
			}
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	default:
		return v
	}
}
