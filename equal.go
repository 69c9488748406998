package history

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
)

// JSONEqual compares a and b by their canonical JSON encoding. Struct fields
// encode in declaration order and map keys are sorted, so documents rebuilt
// field by field compare equal to the original. Values that cannot be encoded
// (funcs, channels, NaN) fall back to a structural comparison that matches
// reflect.DeepEqual except that NaN equals NaN, so committing the same NaN
// twice is still a no-op.
//
// Only what encoding/json sees takes part in the comparison: unexported
// fields and fields tagged `json:"-"` are ignored, and a nil slice differs
// from an empty one.
func JSONEqual(a, b any) bool {
	left, err := json.Marshal(a)
	if err != nil {
		return structuralEqual(a, b)
	}
	right, err := json.Marshal(b)
	if err != nil {
		return structuralEqual(a, b)
	}
	return bytes.Equal(left, right)
}

// DeepEqual compares a and b with reflect.DeepEqual.
func DeepEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func structuralEqual(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	return valuesEqual(reflect.ValueOf(a), reflect.ValueOf(b), map[[2]uintptr]bool{})
}

func valuesEqual(x, y reflect.Value, seen map[[2]uintptr]bool) bool {
	if !x.IsValid() || !y.IsValid() {
		return x.IsValid() == y.IsValid()
	}
	if x.Type() != y.Type() {
		return false
	}

	switch x.Kind() {
	case reflect.Float32, reflect.Float64:
		return floatsEqual(x.Float(), y.Float())
	case reflect.Complex64, reflect.Complex128:
		cx, cy := x.Complex(), y.Complex()
		return floatsEqual(real(cx), real(cy)) && floatsEqual(imag(cx), imag(cy))
	case reflect.Bool:
		return x.Bool() == y.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return x.Int() == y.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return x.Uint() == y.Uint()
	case reflect.String:
		return x.String() == y.String()
	case reflect.Pointer:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() == y.IsNil()
		}
		key := [2]uintptr{x.Pointer(), y.Pointer()}
		if key[0] == key[1] || seen[key] {
			return true
		}
		seen[key] = true
		return valuesEqual(x.Elem(), y.Elem(), seen)
	case reflect.Interface:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() == y.IsNil()
		}
		return valuesEqual(x.Elem(), y.Elem(), seen)
	case reflect.Struct:
		for i := 0; i < x.NumField(); i++ {
			if !valuesEqual(x.Field(i), y.Field(i), seen) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := 0; i < x.Len(); i++ {
			if !valuesEqual(x.Index(i), y.Index(i), seen) {
				return false
			}
		}
		return true
	case reflect.Slice:
		if x.IsNil() != y.IsNil() || x.Len() != y.Len() {
			return false
		}
		for i := 0; i < x.Len(); i++ {
			if !valuesEqual(x.Index(i), y.Index(i), seen) {
				return false
			}
		}
		return true
	case reflect.Map:
		if x.IsNil() != y.IsNil() || x.Len() != y.Len() {
			return false
		}
		key := [2]uintptr{x.Pointer(), y.Pointer()}
		if key[0] == key[1] || seen[key] {
			return true
		}
		seen[key] = true
		iter := x.MapRange()
		for iter.Next() {
			other := y.MapIndex(iter.Key())
			if !other.IsValid() || !valuesEqual(iter.Value(), other, seen) {
				return false
			}
		}
		return true
	case reflect.Func:
		return x.IsNil() && y.IsNil()
	default:
		return x.Pointer() == y.Pointer()
	}
}

func floatsEqual(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
