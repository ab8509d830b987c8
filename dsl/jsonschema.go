package dsl

import (
	"context"
	"fmt"
	"slices"

	wirebind "github.com/reoring/wirebind"
	js "github.com/reoring/wirebind/jsonschema"
)

// JSONSchema describes the external value of the field.
func (f *Field) JSONSchema() (*js.Schema, error) {
	var s *js.Schema
	switch {
	case f.nested != nil && f.nested.schema != nil:
		var err error
		if s, err = f.nested.schema(); err != nil {
			return nil, err
		}
	case f.nested != nil:
		s = &js.Schema{}
	default:
		s = f.coder.JSONSchema()
		if len(f.steps) > 0 || len(f.override) > 0 {
			// Bounds and choices apply to internal units.
			if s.Type == "integer" {
				s.Type = "number"
			}
			s.Minimum, s.Maximum, s.Enum = nil, nil, nil
		}
	}
	s.Nullable = f.allowNull
	s.ReadOnly = f.readOnly
	s.WriteOnly = f.writeOnly
	if f.hasDefault && f.def != nil {
		d, err := f.externalDefault()
		if err != nil {
			return nil, err
		}
		s.Default = d
	}
	return s, nil
}

func (f *Field) externalDefault() (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = defErr(f.name, "default cannot be exported: %v", r)
		}
	}()
	return f.toExternal(context.Background(), f.def), nil
}

// requiredOnInput reports whether a payload must carry the field.
func (f *Field) requiredOnInput() bool {
	return f.required && !f.hasDefault && !f.readOnly
}

// JSONSchema describes the external mapping: dotted keys become nested
// objects and required fields are listed at every level of their key path.
func (r *RecordBinding) JSONSchema() (*js.Schema, error) {
	root := js.Object()
	if r.unknown == wirebind.UnknownStrict {
		root.AdditionalProperties = false
	}
	for _, f := range r.fields {
		fs, err := f.JSONSchema()
		if err != nil {
			return nil, fmt.Errorf("dsl: schema of field %q: %w", f.name, err)
		}
		place(root, f.keySegs, fs, f.requiredOnInput())
	}
	return root, nil
}

func place(root *js.Schema, segs []string, leaf *js.Schema, required bool) {
	cur := root
	for i, seg := range segs {
		if required && !slices.Contains(cur.Required, seg) {
			cur.Required = append(cur.Required, seg)
		}
		if i == len(segs)-1 {
			cur.Properties[seg] = leaf
			return
		}
		next, ok := cur.Properties[seg]
		if !ok || next.Type != "object" || next.Properties == nil {
			next = js.Object()
			cur.Properties[seg] = next
		}
		cur = next
	}
}
