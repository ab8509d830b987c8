package dsl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	wirebind "github.com/reoring/wirebind"
	"github.com/reoring/wirebind/scalar"
	"github.com/reoring/wirebind/transform"
)

// FieldDecl is accepted by RecordBuilder.Field: a *FieldBuilder or a built *Field.
type FieldDecl interface {
	buildField(precision uint32) (*Field, error)
}

// FieldBuilder declares a Field. Fields are required and non-nullable unless
// told otherwise.
type FieldBuilder struct {
	f         Field
	precision uint32
	errs      []error
}

// NewField starts a field typed by coder.
func NewField(name string, coder scalar.Coder) *FieldBuilder {
	return &FieldBuilder{f: Field{name: name, coder: coder, required: true}}
}

func Integer(name string) *FieldBuilder   { return NewField(name, scalar.Integer()) }
func Decimal(name string) *FieldBuilder   { return NewField(name, scalar.Decimal()) }
func Text(name string) *FieldBuilder      { return NewField(name, scalar.Text()) }
func Boolean(name string) *FieldBuilder   { return NewField(name, scalar.Boolean()) }
func Timestamp(name string) *FieldBuilder { return NewField(name, scalar.Timestamp()) }

// ListField declares a field holding a sequence of elem values.
func ListField(name string, elem scalar.Coder) *FieldBuilder {
	return NewField(name, scalar.List(elem))
}

// Embed declares a field whose value is bound by another binder, such as a
// nested record or a list of records.
func Embed[T any](name string, b wirebind.Binder[T]) *FieldBuilder {
	n := &nested{
		bind: func(ctx context.Context, v any) (any, error) { return b.Bind(ctx, v) },
		present: func(ctx context.Context, v any) any {
			t, ok := v.(T)
			if !ok {
				panic(fmt.Errorf("dsl: field %q: cannot present %T", name, v))
			}
			return b.Present(ctx, t)
		},
	}
	if p, ok := b.(wirebind.Projector); ok {
		n.schema = p.JSONSchema
	}
	fb := NewField(name, nil)
	fb.f.nested = n
	return fb
}

// Computed declares a read-only field derived from the whole internal record
// at export time.
func Computed(name string, fn func(ctx context.Context, rec map[string]any) any) *FieldBuilder {
	fb := NewField(name, scalar.Computed())
	fb.f.compute = fn
	fb.f.readOnly = true
	fb.f.required = false
	return fb
}

// Key sets the dotted external key path.
func (b *FieldBuilder) Key(path string) *FieldBuilder { b.f.key = path; return b }

// Source sets the dotted internal destination path.
func (b *FieldBuilder) Source(path string) *FieldBuilder { b.f.source = path; return b }

// Coder replaces the scalar coder.
func (b *FieldBuilder) Coder(c scalar.Coder) *FieldBuilder { b.f.coder = c; return b }

// Step appends a step given by kind name ("multiply", "divide", "add", "subtract").
func (b *FieldBuilder) Step(kind string, operand any, precision uint32) *FieldBuilder {
	s, err := transform.Parse(kind, operand, precision)
	return b.appendStep(s, err)
}

func (b *FieldBuilder) Multiply(operand any) *FieldBuilder { return b.kindStep(transform.Multiply, operand) }
func (b *FieldBuilder) Divide(operand any) *FieldBuilder   { return b.kindStep(transform.Divide, operand) }
func (b *FieldBuilder) Add(operand any) *FieldBuilder      { return b.kindStep(transform.Add, operand) }
func (b *FieldBuilder) Subtract(operand any) *FieldBuilder { return b.kindStep(transform.Subtract, operand) }

// Steps appends pre-built steps.
func (b *FieldBuilder) Steps(steps ...transform.Step) *FieldBuilder {
	b.f.steps = append(b.f.steps, steps...)
	return b
}

// Precision bounds the scale steps of this field that declare no precision.
func (b *FieldBuilder) Precision(p uint32) *FieldBuilder { b.precision = p; return b }

// Export declares the export override: these steps run forward on export
// instead of the inverted import pipeline. Export() with no steps exports the
// serialized value untouched.
func (b *FieldBuilder) Export(steps ...transform.Step) *FieldBuilder {
	b.f.hasOverride = true
	b.f.override = append(b.f.override, steps...)
	return b
}

// ExportStep appends an override step given by kind name.
func (b *FieldBuilder) ExportStep(kind string, operand any, precision uint32) *FieldBuilder {
	b.f.hasOverride = true
	s, err := transform.Parse(kind, operand, precision)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.f.override = append(b.f.override, s)
	return b
}

// Format sets the export formatter.
func (b *FieldBuilder) Format(fn Formatter) *FieldBuilder { b.f.format = fn; return b }

// FormatName sets the export formatter by registry name (see LookupFormatter).
func (b *FieldBuilder) FormatName(name string) *FieldBuilder {
	fn, err := LookupFormatter(name)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.f.format = fn
	return b
}

func (b *FieldBuilder) Required() *FieldBuilder { b.f.required = true; return b }
func (b *FieldBuilder) Optional() *FieldBuilder { b.f.required = false; return b }

// Nullable accepts null on import.
func (b *FieldBuilder) Nullable() *FieldBuilder { b.f.allowNull = true; return b }

// Default sets the internal value used when the key is absent. It is not
// transformed or coerced.
func (b *FieldBuilder) Default(v any) *FieldBuilder {
	b.f.def = v
	b.f.hasDefault = true
	return b
}

func (b *FieldBuilder) ReadOnly() *FieldBuilder  { b.f.readOnly = true; return b }
func (b *FieldBuilder) WriteOnly() *FieldBuilder { b.f.writeOnly = true; return b }

// Build validates the declaration.
func (b *FieldBuilder) Build() (*Field, error) { return b.buildField(0) }

// MustBuild is like Build but panics on error.
func (b *FieldBuilder) MustBuild() *Field {
	f, err := b.Build()
	if err != nil {
		panic(err)
	}
	return f
}

func (b *FieldBuilder) kindStep(k transform.Kind, operand any) *FieldBuilder {
	s, err := transform.New(k, operand, 0)
	return b.appendStep(s, err)
}

func (b *FieldBuilder) appendStep(s transform.Step, err error) *FieldBuilder {
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.f.steps = append(b.f.steps, s)
	return b
}

func (b *FieldBuilder) buildField(precision uint32) (*Field, error) {
	f := b.f
	name := f.name
	if name == "" {
		return nil, defErr("", "field name is empty")
	}
	if len(b.errs) > 0 {
		return nil, &DefinitionError{Field: name, Err: errors.Join(b.errs...)}
	}
	if f.source == "" {
		f.source = name
	}
	for _, p := range []string{f.key, f.source} {
		if p != "" && (strings.HasPrefix(p, ".") || strings.HasSuffix(p, ".") || strings.Contains(p, "..")) {
			return nil, defErr(name, "empty segment in path %q", p)
		}
	}
	f.keySegs = splitPath(f.BoundKey())
	f.srcSegs = splitPath(f.source)
	switch {
	case f.readOnly && f.writeOnly:
		return nil, defErr(name, "field cannot be both read-only and write-only")
	case f.nested == nil && f.coder == nil:
		return nil, defErr(name, "field has no coder")
	case (f.nested != nil || f.compute != nil) && (len(f.steps) > 0 || f.hasOverride):
		return nil, defErr(name, "embedded and computed fields take no transforms")
	}
	if b.precision != 0 {
		precision = b.precision
	}
	if precision != 0 {
		f.steps = f.steps.WithPrecision(precision)
		f.override = f.override.WithPrecision(precision)
	} else {
		f.steps = append(transform.Pipeline(nil), f.steps...)
		f.override = append(transform.Pipeline(nil), f.override...)
	}
	return &f, nil
}

// buildField lets a built Field be passed to RecordBuilder.Field as is.
func (f *Field) buildField(uint32) (*Field, error) { return f, nil }
