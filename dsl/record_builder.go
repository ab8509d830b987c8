package dsl

import (
	wirebind "github.com/reoring/wirebind"
)

// RecordBuilder declares a RecordBinding.
type RecordBuilder struct {
	decls      []FieldDecl
	validators map[string]FieldValidator
	refines    []recordRefine
	unknown    wirebind.UnknownPolicy
	precision  uint32
	factory    ListFactory
	listOpts   []ListOption
}

type recordRefine struct {
	name string
	fn   RefineFunc
}

// Record starts a record declaration. Unknown keys are stripped by default.
func Record() *RecordBuilder {
	return &RecordBuilder{
		validators: map[string]FieldValidator{},
		unknown:    wirebind.UnknownStrip,
	}
}

// Field appends fields in declaration order.
func (b *RecordBuilder) Field(decls ...FieldDecl) *RecordBuilder {
	b.decls = append(b.decls, decls...)
	return b
}

// Validate registers the custom validator of the named field. It runs after
// the field's own coercion succeeded and may replace the value.
func (b *RecordBuilder) Validate(field string, fn FieldValidator) *RecordBuilder {
	if fn != nil {
		b.validators[field] = fn
	}
	return b
}

// Refine adds a record-level check that runs once every field bound.
// Its failures are reported under NonFieldErrorsKey.
func (b *RecordBuilder) Refine(name string, fn RefineFunc) *RecordBuilder {
	if fn == nil {
		return b
	}
	b.refines = append(b.refines, recordRefine{name: name, fn: fn})
	return b
}

func (b *RecordBuilder) UnknownStrict() *RecordBuilder      { b.unknown = wirebind.UnknownStrict; return b }
func (b *RecordBuilder) UnknownStrip() *RecordBuilder       { b.unknown = wirebind.UnknownStrip; return b }
func (b *RecordBuilder) UnknownPassthrough() *RecordBuilder { b.unknown = wirebind.UnknownPassthrough; return b }

// Unknown sets the unknown-key policy.
func (b *RecordBuilder) Unknown(p wirebind.UnknownPolicy) *RecordBuilder { b.unknown = p; return b }

// Precision is the default precision of scale steps in fields that declare none.
func (b *RecordBuilder) Precision(p uint32) *RecordBuilder { b.precision = p; return b }

// ListFactory replaces the list binding used by Many.
func (b *RecordBuilder) ListFactory(fn ListFactory) *RecordBuilder { b.factory = fn; return b }

// ManyOptions configures the default list binding returned by Many().
func (b *RecordBuilder) ManyOptions(opts ...ListOption) *RecordBuilder {
	b.listOpts = append(b.listOpts, opts...)
	return b
}

// Build validates the declaration and returns an immutable RecordBinding.
func (b *RecordBuilder) Build() (*RecordBinding, error) {
	r := &RecordBinding{
		byName:     make(map[string]*Field, len(b.decls)),
		validators: make(map[string]FieldValidator, len(b.validators)),
		refines:    append([]recordRefine(nil), b.refines...),
		unknown:    b.unknown,
		consumed:   map[string]struct{}{},
		factory:    b.factory,
	}
	for _, d := range b.decls {
		if d == nil {
			return nil, defErr("", "nil field declaration")
		}
		f, err := d.buildField(b.precision)
		if err != nil {
			return nil, err
		}
		if _, dup := r.byName[f.name]; dup {
			return nil, defErr(f.name, "duplicate field name")
		}
		for _, prev := range r.fields {
			if !f.readOnly && !prev.readOnly && overlaps(f.srcSegs, prev.srcSegs) {
				return nil, defErr(f.name, "source %q overlaps field %q", f.source, prev.name)
			}
			if !f.writeOnly && !prev.writeOnly && overlaps(f.keySegs, prev.keySegs) {
				return nil, defErr(f.name, "key %q overlaps field %q", f.BoundKey(), prev.name)
			}
		}
		r.fields = append(r.fields, f)
		r.byName[f.name] = f
		// Read-only keys in a payload are ignored rather than unknown.
		r.consumed[f.keySegs[0]] = struct{}{}
	}
	for name, fn := range b.validators {
		if _, ok := r.byName[name]; !ok {
			return nil, defErr(name, "validator for undeclared field")
		}
		r.validators[name] = fn
	}
	if r.factory != nil {
		r.many = r.factory(r, b.listOpts...)
	} else {
		r.many = List[map[string]any](r, b.listOpts...)
	}
	return r, nil
}

// MustBuild is like Build but panics on error.
func (b *RecordBuilder) MustBuild() *RecordBinding {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}
	return r
}
