// Package codec defines the pluggable byte transforms applied to assets and the
// built-in image backends.
//
// A Backend is created once from a Factory and reused for every asset. Backends
// inspect the buffer they are given and pass through content that is not their
// format, so one ordered list of backends can be applied to any asset.
package codec

import (
	"context"
	"fmt"
	"maps"

	"github.com/spf13/cast"
)

// Backend transforms the bytes of one asset.
type Backend interface {
	Encode(ctx context.Context, data []byte) ([]byte, error)
}

// Func adapts a plain function to Backend.
type Func func(ctx context.Context, data []byte) ([]byte, error)

func (f Func) Encode(ctx context.Context, data []byte) ([]byte, error) { return f(ctx, data) }

// Factory builds a Backend from its resolved options.
// Factories do not fail: bad options surface as errors from Encode.
type Factory func(opts Options) Backend

// Fail returns a Backend that rejects every buffer with err.
func Fail(err error) Backend {
	return Func(func(context.Context, []byte) ([]byte, error) { return nil, err })
}

// Options holds per-backend settings. Values come from Go code or from loosely
// typed configuration files, so accessors coerce them.
type Options map[string]any

// Clone returns a shallow copy. A nil receiver yields an empty map.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	maps.Copy(out, o)
	return out
}

// DropNil returns a copy without keys whose value is nil.
func (o Options) DropNil() Options {
	out := make(Options, len(o))
	for k, v := range o {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

func (o Options) Int(key string, def int) (int, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("option %q: %w", key, err)
	}
	return n, nil
}

func (o Options) Bool(key string, def bool) (bool, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, fmt.Errorf("option %q: %w", key, err)
	}
	return b, nil
}

func (o Options) String(key string, def string) (string, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("option %q: %w", key, err)
	}
	return s, nil
}
