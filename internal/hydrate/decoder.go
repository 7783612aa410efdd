// Package hydrate decodes loosely typed key/value payloads (merged config
// layers, stored documents) into typed structs with pre and post hooks.
package hydrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Context names the payload being decoded for error messages and hooks.
type Context struct {
	// Source describes where the payload came from, e.g. "config".
	Source string
	// Sources optionally maps dotted keys to the layer that supplied them.
	Sources map[string]string
}

func (c Context) label() string {
	if c.Source == "" {
		return "payload"
	}
	return c.Source
}

// PreHook lets callers mutate or normalise the payload before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook lets callers adjust or validate the hydrated struct after decoding.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts payloads into strongly typed structs.
type Decoder[T any] struct {
	preHooks     []PreHook
	postHooks    []PostHook[T]
	configureDec []func(*json.Decoder)
	base         func() T
}

// FieldError reports a value that could not be decoded into its field.
type FieldError struct {
	Key    string
	Source string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("key %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("key %s (from %s): %v", e.Key, e.Source, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithDisallowUnknownFields rejects payload keys with no matching field.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.DisallowUnknownFields()
		})
	}
}

// WithBase decodes over the value returned by base, so fields missing from
// the payload keep their base value.
func WithBase[T any](base func() T) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.base = base
	}
}

// NewDecoder builds a Decoder applying opts in order.
func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into T applying configured hooks. The payload is
// never mutated.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T

	if payload == nil {
		return zero, fmt.Errorf("hydrate: payload is nil for %s", ctx.label())
	}

	current, err := clonePayload(payload)
	if err != nil {
		return zero, fmt.Errorf("hydrate: clone payload for %s: %w", ctx.label(), err)
	}

	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for %s failed: %w", ctx.label(), err)
		}
		if next != nil {
			current = next
		}
	}

	var result T
	if d.base != nil {
		result = d.base()
	}
	buffer, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("hydrate: marshal payload for %s: %w", ctx.label(), err)
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	for _, configure := range d.configureDec {
		configure(decoder)
	}
	if err := decoder.Decode(&result); err != nil {
		return zero, fmt.Errorf("hydrate: decode %s: %w", ctx.label(), fieldError(ctx, err))
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for %s failed: %w", ctx.label(), err)
		}
	}

	return result, nil
}

// NormalizeKeys is a PreHook that lowercases keys and turns '-' into '_'
// at every depth, so "Log-Level" and "log_level" decode alike. Two keys of
// one map that normalise to the same name are an error.
func NormalizeKeys(_ Context, payload map[string]any) (map[string]any, error) {
	return normalizeMap(payload, "")
}

func normalizeMap(in map[string]any, prefix string) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for key, value := range in {
		name := strings.ReplaceAll(strings.ToLower(key), "-", "_")
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if nested, ok := value.(map[string]any); ok {
			normalized, err := normalizeMap(nested, path)
			if err != nil {
				return nil, err
			}
			value = normalized
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("hydrate: key %q given more than once", path)
		}
		out[name] = value
	}
	return out, nil
}

func fieldError(ctx Context, err error) error {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Field == "" {
		return err
	}
	key := typeErr.Field
	return &FieldError{Key: key, Source: ctx.Sources[key], Err: err}
}

func clonePayload(payload map[string]any) (map[string]any, error) {
	buffer, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(buffer, &out); err != nil {
		return nil, err
	}
	return out, nil
}
