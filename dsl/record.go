package dsl

import (
	"context"
	"sort"

	wirebind "github.com/reoring/wirebind"
	"github.com/reoring/wirebind/i18n"
)

// FieldValidator checks a coerced field value. It may return a replacement.
// Errors that are not wirebind.Issues are reported with code "custom".
type FieldValidator func(ctx context.Context, v any) (any, error)

// RefineFunc checks the assembled internal record.
type RefineFunc func(ctx context.Context, rec map[string]any) error

// ListFactory builds the list binding a record uses in many mode.
type ListFactory func(child *RecordBinding, opts ...ListOption) wirebind.Binder[[]map[string]any]

// RecordBinding binds one external mapping to one internal mapping. It keeps
// no per-call state and may be shared across goroutines.
type RecordBinding struct {
	fields     []*Field
	byName     map[string]*Field
	validators map[string]FieldValidator
	refines    []recordRefine
	unknown    wirebind.UnknownPolicy
	consumed   map[string]struct{}
	factory    ListFactory
	many       wirebind.Binder[[]map[string]any]
}

var _ wirebind.Binder[map[string]any] = (*RecordBinding)(nil)

// Fields returns the fields in declaration order.
func (r *RecordBinding) Fields() []*Field { return append([]*Field(nil), r.fields...) }

// Field returns the named field.
func (r *RecordBinding) Field(name string) (*Field, bool) {
	f, ok := r.byName[name]
	return f, ok
}

func (r *RecordBinding) UnknownPolicy() wirebind.UnknownPolicy { return r.unknown }

// Bind imports an external mapping. Every writable field is attempted in
// declaration order and all failures are returned together in a
// *wirebind.RecordError, unless the context asks for fail-fast.
func (r *RecordBinding) Bind(ctx context.Context, v any) (map[string]any, error) {
	src, ok := asMap(v)
	if !ok {
		return nil, wirebind.NewShapeError("object", v)
	}
	failFast := wirebind.IsFailFast(ctx)
	out := make(map[string]any, len(r.fields))
	var fails []wirebind.FieldError
	for _, f := range r.fields {
		if f.readOnly {
			continue
		}
		raw, present := lookup(src, f.keySegs)
		val, set, err := f.toInternal(ctx, raw, present)
		if err == nil && set {
			if fn := r.validators[f.name]; fn != nil {
				if val, err = fn(ctx, val); err != nil {
					err = customIssues(err)
				}
			}
		}
		if err != nil {
			fails = append(fails, wirebind.FieldError{Name: f.name, Key: f.BoundKey(), Err: err})
			if failFast {
				return nil, &wirebind.RecordError{Fields: fails}
			}
			continue
		}
		if set {
			assign(out, f.srcSegs, val)
		}
	}
	if r.unknown != wirebind.UnknownStrip {
		for _, k := range r.unknownKeys(src) {
			if r.unknown == wirebind.UnknownPassthrough {
				if _, taken := out[k]; !taken {
					out[k] = src[k]
				}
				continue
			}
			fails = append(fails, wirebind.FieldError{Name: k, Key: k, Err: wirebind.Issues{{
				Path: "/", Code: wirebind.CodeUnknownKey, Message: i18n.T(wirebind.CodeUnknownKey, nil), Hint: k,
			}}})
			if failFast {
				return nil, &wirebind.RecordError{Fields: fails}
			}
		}
	}
	if len(fails) > 0 {
		return nil, &wirebind.RecordError{Fields: fails}
	}
	for _, rf := range r.refines {
		if err := rf.fn(ctx, out); err != nil {
			fails = append(fails, wirebind.FieldError{Name: wirebind.NonFieldErrorsKey, Key: rf.name, Err: customIssues(err)})
			if failFast {
				break
			}
		}
	}
	if len(fails) > 0 {
		return nil, &wirebind.RecordError{Fields: fails}
	}
	return out, nil
}

// Present exports an internal mapping. Fields whose source is missing are
// omitted; dotted keys are emitted as nested mappings.
func (r *RecordBinding) Present(ctx context.Context, rec map[string]any) any {
	out := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		if f.writeOnly {
			continue
		}
		var v any
		if f.compute != nil {
			v = f.compute(ctx, rec)
		} else {
			var ok bool
			if v, ok = lookup(rec, f.srcSegs); !ok {
				continue
			}
		}
		assign(out, f.keySegs, f.toExternal(ctx, v))
	}
	if r.unknown == wirebind.UnknownPassthrough {
		for k, v := range rec {
			if _, taken := out[k]; taken || r.isSource(k) {
				continue
			}
			out[k] = v
		}
	}
	return out
}

// Many returns the list binding for many mode. Without options it is the one
// created by Build; a declared ListFactory is used when present.
func (r *RecordBinding) Many(opts ...ListOption) wirebind.Binder[[]map[string]any] {
	if len(opts) == 0 {
		return r.many
	}
	if r.factory != nil {
		return r.factory(r, opts...)
	}
	return List[map[string]any](r, opts...)
}

// BindMany binds a sequence of external mappings through Many().
func (r *RecordBinding) BindMany(ctx context.Context, v any) ([]map[string]any, error) {
	return r.many.Bind(ctx, v)
}

// PresentMany exports a sequence of internal mappings through Many().
func (r *RecordBinding) PresentMany(ctx context.Context, recs []map[string]any) any {
	return r.many.Present(ctx, recs)
}

func (r *RecordBinding) unknownKeys(src map[string]any) []string {
	var out []string
	for k := range src {
		if _, ok := r.consumed[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func (r *RecordBinding) isSource(k string) bool {
	for _, f := range r.fields {
		if f.srcSegs[0] == k {
			return true
		}
	}
	return false
}
