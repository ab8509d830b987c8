package dsl

import (
	"context"
	"fmt"

	wirebind "github.com/reoring/wirebind"
	js "github.com/reoring/wirebind/jsonschema"
	"github.com/reoring/wirebind/scalar"
	"github.com/reoring/wirebind/transform"
)

// Field is one named slot of a record: where its value lives on the wire
// (key), where it lands in the internal mapping (source), the numeric pipeline
// between the two and the scalar coder that types it. A built Field is
// immutable and safe for concurrent use.
type Field struct {
	name    string
	key     string
	keySegs []string
	source  string
	srcSegs []string

	steps       transform.Pipeline
	override    transform.Pipeline
	hasOverride bool
	format      Formatter

	coder      scalar.Coder
	required   bool
	allowNull  bool
	def        any
	hasDefault bool
	readOnly   bool
	writeOnly  bool

	nested  *nested
	compute func(ctx context.Context, rec map[string]any) any
}

// nested adapts an embedded binder of any result type.
type nested struct {
	bind    func(ctx context.Context, v any) (any, error)
	present func(ctx context.Context, v any) any
	schema  func() (*js.Schema, error)
}

var _ wirebind.Binder[any] = (*Field)(nil)

func (f *Field) Name() string { return f.name }

// BoundKey is the external key path: the declared key, or the name.
func (f *Field) BoundKey() string {
	if f.key != "" {
		return f.key
	}
	return f.name
}

// Source is the internal destination path.
func (f *Field) Source() string { return f.source }

func (f *Field) Steps() transform.Pipeline { return append(transform.Pipeline(nil), f.steps...) }

// Override returns the export pipeline and whether one is declared.
func (f *Field) Override() (transform.Pipeline, bool) {
	return append(transform.Pipeline(nil), f.override...), f.hasOverride
}

func (f *Field) Coder() scalar.Coder { return f.coder }
func (f *Field) Required() bool      { return f.required }
func (f *Field) AllowNull() bool     { return f.allowNull }
func (f *Field) ReadOnly() bool      { return f.readOnly }
func (f *Field) WriteOnly() bool     { return f.writeOnly }

// Default returns the default internal value and whether one is declared.
func (f *Field) Default() (any, bool) { return f.def, f.hasDefault }

// Bind imports a standalone value. When the field has a key and v is a
// mapping, the key path is walked first.
func (f *Field) Bind(ctx context.Context, v any) (any, error) {
	raw, present := v, true
	if f.key != "" {
		if m, ok := asMap(v); ok {
			raw, present = lookup(m, f.keySegs)
		}
	}
	out, _, err := f.toInternal(ctx, raw, present)
	return out, err
}

// Present exports an internal value.
func (f *Field) Present(ctx context.Context, v any) any { return f.toExternal(ctx, v) }

// toInternal reports set=false when an optional field is absent and must not
// be assigned.
func (f *Field) toInternal(ctx context.Context, raw any, present bool) (any, bool, error) {
	if !present {
		switch {
		case f.hasDefault:
			return f.def, true, nil
		case f.required:
			return nil, false, issue(wirebind.CodeRequired, "required property missing")
		}
		return nil, false, nil
	}
	if raw == nil {
		if f.allowNull {
			return nil, true, nil
		}
		return nil, false, issue(wirebind.CodeNull, "")
	}
	if f.nested != nil {
		v, err := f.nested.bind(ctx, raw)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}
	v, err := f.steps.Forward(raw)
	if err != nil {
		return nil, false, stepIssues(err)
	}
	out, err := f.coder.Coerce(ctx, v)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// toExternal panics when a transform fails: internal state that cannot be
// exported was never produced by toInternal.
func (f *Field) toExternal(ctx context.Context, v any) any {
	if v == nil {
		return nil
	}
	var out any
	if f.nested != nil {
		out = f.nested.present(ctx, v)
	} else {
		var err error
		out = f.coder.Serialize(ctx, v)
		if f.hasOverride {
			out, err = f.override.Forward(out)
		} else {
			out, err = f.steps.Reverse(out)
		}
		if err != nil {
			panic(fmt.Errorf("dsl: export field %q: %w", f.name, err))
		}
	}
	if f.format != nil {
		out = f.format(out)
	}
	return out
}
