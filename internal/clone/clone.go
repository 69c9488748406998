// Package clone deep-copies plain data values through reflection.
//
// Structs with unexported fields are copied as a whole first, so hidden state
// such as the wall clock of a time.Time survives; only their exported fields
// are then deep-copied. Values holding funcs or channels keep sharing them.
package clone

import (
	"reflect"
	"sync"
)

var opaque sync.Map

// Opaque reports whether t is a struct with unexported fields. Such structs
// cannot be rebuilt field by field and are treated as single values.
func Opaque(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	if cached, ok := opaque.Load(t); ok {
		return cached.(bool)
	}
	hidden := false
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).IsExported() {
			hidden = true
			break
		}
	}
	opaque.Store(t, hidden)
	return hidden
}

// Value returns a deep copy of v.
func Value[T any](v T) T {
	rv := reflect.ValueOf(&v).Elem()
	copied := Reflect(rv)
	if !copied.IsValid() {
		var zero T
		return zero
	}
	out := reflect.New(rv.Type()).Elem()
	out.Set(copied)
	return out.Interface().(T)
}

// Reflect deep-copies a reflect.Value. Invalid values are returned untouched.
func Reflect(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(Reflect(v.Elem()))
		return out
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		elem := Reflect(v.Elem())
		if !elem.IsValid() {
			return reflect.Zero(v.Type())
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(elem)
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		if Opaque(v.Type()) {
			out.Set(v)
		}
		for i := 0; i < v.NumField(); i++ {
			field := out.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(Reflect(v.Field(i)))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), Reflect(iter.Value()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(Reflect(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(Reflect(v.Index(i)))
		}
		return out
	default:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		return out
	}
}
