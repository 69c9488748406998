package hydrate

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type profile struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
	Years  any      `json:"years,omitempty"`
}

func TestDecode(t *testing.T) {
	cases := []struct {
		name      string
		options   []DecoderOption[profile]
		input     map[string]any
		want      profile
		expectErr string
	}{
		{
			name:  "plain payload",
			input: map[string]any{"name": "Ada", "skills": []any{"go"}},
			want:  profile{Name: "Ada", Skills: []string{"go"}},
		},
		{
			name:    "use number",
			options: []DecoderOption[profile]{WithUseNumber[profile]()},
			input:   map[string]any{"years": 4},
			want:    profile{Years: json.Number("4")},
		},
		{
			name:      "unknown fields rejected",
			options:   []DecoderOption[profile]{WithDisallowUnknownFields[profile]()},
			input:     map[string]any{"name": "Ada", "extra": true},
			expectErr: "unknown field",
		},
		{
			name:      "nil payload",
			expectErr: "payload is nil",
		},
		{
			name: "pre hook renames keys",
			options: []DecoderOption[profile]{WithPreHook[profile](func(_ Context, payload map[string]any) (map[string]any, error) {
				payload["name"] = payload["fullName"]
				delete(payload, "fullName")
				return payload, nil
			})},
			input: map[string]any{"fullName": "Grace"},
			want:  profile{Name: "Grace"},
		},
		{
			name: "post hook validates",
			options: []DecoderOption[profile]{WithPostHook[profile](func(_ Context, p *profile) error {
				if p.Name == "" {
					return errors.New("name required")
				}
				return nil
			})},
			input:     map[string]any{"skills": []any{"go"}},
			expectErr: "name required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewDecoder(tc.options...).Decode(Context{Source: "test"}, tc.input)
			if tc.expectErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.expectErr) {
					t.Fatalf("expected error containing %q, got %v", tc.expectErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !reflect.DeepEqual(tc.want, got) {
				t.Fatalf("decoded mismatch:\nwant: %#v\n got: %#v", tc.want, got)
			}
		})
	}
}

func TestDecodeDoesNotMutateInput(t *testing.T) {
	input := map[string]any{"fullName": "Grace"}
	decoder := NewDecoder(WithPreHook[profile](func(_ Context, payload map[string]any) (map[string]any, error) {
		delete(payload, "fullName")
		payload["name"] = "changed"
		return nil, nil
	}))
	if _, err := decoder.Decode(Context{}, input); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if input["fullName"] != "Grace" {
		t.Fatalf("input mutated: %#v", input)
	}
}

func TestDecodeJSON(t *testing.T) {
	got, err := NewDecoder[profile]().DecodeJSON(Context{Ref: "docs/1"}, []byte(`{"name":"Ada"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Ada" {
		t.Fatalf("unexpected profile %+v", got)
	}

	_, err = NewDecoder[profile]().DecodeJSON(Context{Source: "file", Ref: "docs/1"}, []byte(`{`))
	if err == nil || !strings.Contains(err.Error(), "file:docs/1") {
		t.Fatalf("expected context in error, got %v", err)
	}
}
