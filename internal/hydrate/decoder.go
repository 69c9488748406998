// Package hydrate decodes loosely typed payloads into typed values.
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Context identifies where a payload came from in error messages and hooks.
type Context struct {
	Source string
	Ref    string
}

func (c Context) String() string {
	switch {
	case c.Source == "" && c.Ref == "":
		return "payload"
	case c.Ref == "":
		return c.Source
	case c.Source == "":
		return c.Ref
	default:
		return c.Source + ":" + c.Ref
	}
}

// PreHook rewrites the payload before decoding. Returning nil keeps the
// current payload.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook adjusts or validates the decoded value.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts map payloads into T through encoding/json.
type Decoder[T any] struct {
	preHooks  []PreHook
	postHooks []PostHook[T]
	configure []func(*json.Decoder)
}

// WithPreHook appends hook to the pre-decode chain.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.preHooks = append(d.preHooks, hook)
		}
	}
}

// WithPostHook appends hook to the post-decode chain.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.postHooks = append(d.postHooks, hook)
		}
	}
}

// WithUseNumber decodes numbers into json.Number.
func WithUseNumber[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configure = append(d.configure, func(dec *json.Decoder) {
			dec.UseNumber()
		})
	}
}

// WithDisallowUnknownFields rejects payload keys T does not declare.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configure = append(d.configure, func(dec *json.Decoder) {
			dec.DisallowUnknownFields()
		})
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode runs the pre hooks on a private copy of payload, decodes the result
// into T and runs the post hooks.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T
	if payload == nil {
		return zero, fmt.Errorf("hydrate: %s: payload is nil", ctx)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return zero, fmt.Errorf("hydrate: %s: encode payload: %w", ctx, err)
	}
	if len(d.preHooks) > 0 {
		var current map[string]any
		if err := json.Unmarshal(raw, &current); err != nil {
			return zero, fmt.Errorf("hydrate: %s: copy payload: %w", ctx, err)
		}
		for _, hook := range d.preHooks {
			next, err := hook(ctx, current)
			if err != nil {
				return zero, fmt.Errorf("hydrate: %s: pre-hook: %w", ctx, err)
			}
			if next != nil {
				current = next
			}
		}
		if raw, err = json.Marshal(current); err != nil {
			return zero, fmt.Errorf("hydrate: %s: encode payload: %w", ctx, err)
		}
	}
	return d.finish(ctx, raw)
}

// DecodeJSON decodes a raw JSON object. Pre hooks are applied when present.
func (d *Decoder[T]) DecodeJSON(ctx Context, raw []byte) (T, error) {
	if len(d.preHooks) == 0 {
		return d.finish(ctx, raw)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		var zero T
		return zero, fmt.Errorf("hydrate: %s: %w", ctx, err)
	}
	return d.Decode(ctx, payload)
}

func (d *Decoder[T]) finish(ctx Context, raw []byte) (T, error) {
	var zero, result T
	decoder := json.NewDecoder(bytes.NewReader(raw))
	for _, configure := range d.configure {
		configure(decoder)
	}
	if err := decoder.Decode(&result); err != nil {
		return zero, fmt.Errorf("hydrate: %s: decode: %w", ctx, err)
	}
	for _, hook := range d.postHooks {
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: %s: post-hook: %w", ctx, err)
		}
	}
	return result, nil
}
