package scalar

import (
	"context"
	"reflect"

	wirebind "github.com/reoring/wirebind"
	js "github.com/reoring/wirebind/jsonschema"
)

// ListCoder coerces every element of a sequence with an element coder.
// Element failures are reported per index.
type ListCoder struct {
	elem       Coder
	allowEmpty bool
}

// List returns a coder for sequences of elem. Empty sequences are accepted.
func List(elem Coder) *ListCoder { return &ListCoder{elem: elem, allowEmpty: true} }

// AllowEmpty toggles acceptance of empty sequences.
func (c *ListCoder) AllowEmpty(ok bool) *ListCoder { c.allowEmpty = ok; return c }

func (c *ListCoder) Kind() string { return "list" }

func (c *ListCoder) Elem() Coder { return c.elem }

func (c *ListCoder) Coerce(ctx context.Context, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if v == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, invalidType("array", v)
	}
	if rv.Len() == 0 && !c.allowEmpty {
		return nil, fail(wirebind.CodeEmpty, "", nil)
	}
	out := make([]any, rv.Len())
	var iss wirebind.Issues
	for i := 0; i < rv.Len(); i++ {
		e, err := c.elem.Coerce(ctx, rv.Index(i).Interface())
		if err != nil {
			iss = wirebind.AppendIssues(iss, wirebind.Rebase(wirebind.Root().Index(i), err)...)
			if wirebind.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[i] = e
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (c *ListCoder) Serialize(ctx context.Context, v any) any {
	rv := reflect.ValueOf(v)
	if v == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return v
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = c.elem.Serialize(ctx, rv.Index(i).Interface())
	}
	return out
}

func (c *ListCoder) JSONSchema() *js.Schema {
	s := js.Array(c.elem.JSONSchema())
	if !c.allowEmpty {
		s.MinItems = js.Int(1)
	}
	return s
}

// ComputedCoder passes values through unchanged. It backs read-only and
// untyped fields.
type ComputedCoder struct{}

func Computed() *ComputedCoder { return &ComputedCoder{} }

func (ComputedCoder) Kind() string                                   { return "computed" }
func (ComputedCoder) Coerce(ctx context.Context, v any) (any, error) { return v, nil }
func (ComputedCoder) Serialize(ctx context.Context, v any) any       { return v }
func (ComputedCoder) JSONSchema() *js.Schema                         { return &js.Schema{} }
