package clone

import (
	"reflect"
	"testing"
	"time"
)

type nested struct {
	Tags   []string
	Limits map[string]int
	Child  *nested
	Any    any
	hidden string
}

func TestValueDeepCopiesContainers(t *testing.T) {
	original := nested{
		Tags:   []string{"a", "b"},
		Limits: map[string]int{"x": 1},
		Child:  &nested{Tags: []string{"c"}},
		Any:    map[string]any{"k": []any{"v"}},
	}

	copied := Value(original)
	if !reflect.DeepEqual(original, copied) {
		t.Fatalf("expected copy to equal original:\nwant: %#v\n got: %#v", original, copied)
	}

	copied.Tags[0] = "changed"
	copied.Limits["x"] = 99
	copied.Child.Tags[0] = "changed"
	copied.Any.(map[string]any)["k"].([]any)[0] = "changed"

	if original.Tags[0] != "a" {
		t.Fatalf("slice shared with copy: %v", original.Tags)
	}
	if original.Limits["x"] != 1 {
		t.Fatalf("map shared with copy: %v", original.Limits)
	}
	if original.Child.Tags[0] != "c" {
		t.Fatalf("pointer target shared with copy: %v", original.Child.Tags)
	}
	if original.Any.(map[string]any)["k"].([]any)[0] != "v" {
		t.Fatalf("interface payload shared with copy: %v", original.Any)
	}
}

func TestValuePreservesNilness(t *testing.T) {
	var original nested
	copied := Value(original)
	if copied.Tags != nil || copied.Limits != nil || copied.Child != nil || copied.Any != nil {
		t.Fatalf("expected nil containers to stay nil, got %#v", copied)
	}
}

func TestValueKeepsUnexportedFields(t *testing.T) {
	copied := Value(nested{hidden: "secret", Tags: []string{"a"}})
	if copied.hidden != "secret" {
		t.Fatalf("expected unexported field to be kept, got %q", copied.hidden)
	}
}

type stamped struct {
	At    time.Time
	Notes []string
}

func TestValueKeepsTimestamps(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	original := stamped{At: at, Notes: []string{"a"}}

	copied := Value(original)
	if !copied.At.Equal(at) {
		t.Fatalf("expected %v, got %v", at, copied.At)
	}
	copied.Notes[0] = "changed"
	if original.Notes[0] != "a" {
		t.Fatalf("slice shared with copy: %v", original.Notes)
	}

	ptr := Value(&at)
	if ptr == &at || !ptr.Equal(at) {
		t.Fatalf("expected a distinct pointer to an equal time, got %v", ptr)
	}
}

func TestOpaque(t *testing.T) {
	if !Opaque(reflect.TypeOf(time.Time{})) || !Opaque(reflect.TypeOf(nested{})) {
		t.Fatalf("structs with unexported fields must be opaque")
	}
	if Opaque(reflect.TypeOf(stamped{})) || Opaque(reflect.TypeOf(42)) {
		t.Fatalf("exported-only structs and scalars are not opaque")
	}
}

func TestValueScalars(t *testing.T) {
	if got := Value(42); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := Value("text"); got != "text" {
		t.Fatalf("expected text, got %q", got)
	}
	var nilMap map[string]int
	if got := Value(nilMap); got != nil {
		t.Fatalf("expected nil map, got %v", got)
	}
}
