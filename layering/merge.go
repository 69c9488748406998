// Package layering overlays partial values of the same type.
//
// Layers are ordered from strongest to weakest. A zero or nil field in a
// stronger layer falls through to the next weaker layer; anything else wins.
// Maps merge key by key, slices and scalars are replaced wholesale. A non-nil
// pointer to a scalar wins outright, so &false overrides a weaker &true;
// pointers to structs and maps are merged through. Structs with unexported
// fields, such as time.Time, are treated as single values.
package layering

import (
	"reflect"

	"github.com/goliatone/go-history/internal/clone"
)

// MergeLayers composes layers, strongest first, into a new value. Inputs are
// never aliased by the result.
func MergeLayers[T any](layers ...T) T {
	var zero T
	if len(layers) == 0 {
		return zero
	}

	merged := clone.Reflect(reflect.ValueOf(&layers[len(layers)-1]).Elem())
	for i := len(layers) - 2; i >= 0; i-- {
		merged = merge(reflect.ValueOf(&layers[i]).Elem(), merged)
	}
	if !merged.IsValid() {
		return zero
	}

	out := reflect.New(reflect.TypeOf(&zero).Elem()).Elem()
	out.Set(merged)
	return out.Interface().(T)
}

// Overlay applies patch over base; zero fields in patch keep base values.
func Overlay[T any](base, patch T) T {
	return MergeLayers(patch, base)
}

func merge(strong, weak reflect.Value) reflect.Value {
	if !strong.IsValid() {
		return clone.Reflect(weak)
	}
	if !weak.IsValid() || weak.Type() != strong.Type() {
		weak = reflect.Value{}
	}

	switch strong.Kind() {
	case reflect.Pointer:
		if strong.IsNil() {
			return fallback(strong, weak)
		}
		if !mergeable(strong.Type().Elem()) {
			return clone.Reflect(strong)
		}
		var weakElem reflect.Value
		if weak.IsValid() && !weak.IsNil() {
			weakElem = weak.Elem()
		}
		out := reflect.New(strong.Type().Elem())
		out.Elem().Set(merge(strong.Elem(), weakElem))
		return out
	case reflect.Interface:
		if strong.IsNil() {
			return fallback(strong, weak)
		}
		if !mergeable(strong.Elem().Type()) {
			return clone.Reflect(strong)
		}
		var weakElem reflect.Value
		if weak.IsValid() && !weak.IsNil() && weak.Elem().Type() == strong.Elem().Type() {
			weakElem = weak.Elem()
		}
		out := reflect.New(strong.Type()).Elem()
		out.Set(merge(strong.Elem(), weakElem))
		return out
	case reflect.Struct:
		if clone.Opaque(strong.Type()) {
			if strong.IsZero() && weak.IsValid() {
				return clone.Reflect(weak)
			}
			return clone.Reflect(strong)
		}
		out := reflect.New(strong.Type()).Elem()
		for i := 0; i < strong.NumField(); i++ {
			field := out.Field(i)
			if !field.CanSet() {
				continue
			}
			var weakField reflect.Value
			if weak.IsValid() {
				weakField = weak.Field(i)
			}
			field.Set(merge(strong.Field(i), weakField))
		}
		return out
	case reflect.Map:
		if strong.IsNil() {
			return fallback(strong, weak)
		}
		out := reflect.MakeMapWithSize(strong.Type(), strong.Len())
		if weak.IsValid() && !weak.IsNil() {
			iter := weak.MapRange()
			for iter.Next() {
				out.SetMapIndex(iter.Key(), clone.Reflect(iter.Value()))
			}
		}
		iter := strong.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), merge(iter.Value(), out.MapIndex(iter.Key())))
		}
		return out
	case reflect.Slice:
		if strong.IsNil() {
			return fallback(strong, weak)
		}
		return clone.Reflect(strong)
	case reflect.Array:
		out := reflect.New(strong.Type()).Elem()
		for i := 0; i < strong.Len(); i++ {
			var weakElem reflect.Value
			if weak.IsValid() {
				weakElem = weak.Index(i)
			}
			out.Index(i).Set(merge(strong.Index(i), weakElem))
		}
		return out
	default:
		if strong.IsZero() && weak.IsValid() {
			return clone.Reflect(weak)
		}
		return clone.Reflect(strong)
	}
}

// mergeable reports whether values of t are merged field by field or key by
// key rather than replaced.
func mergeable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Map:
		return true
	case reflect.Struct:
		return !clone.Opaque(t)
	}
	return false
}

// fallback returns a copy of weak, or the zero value of strong's type when
// there is no weaker layer.
func fallback(strong, weak reflect.Value) reflect.Value {
	if weak.IsValid() {
		return clone.Reflect(weak)
	}
	return reflect.Zero(strong.Type())
}
