package dsl

import (
	"context"
	"reflect"
	"strconv"

	wirebind "github.com/reoring/wirebind"
	js "github.com/reoring/wirebind/jsonschema"
)

// ListOption configures a ListBinding.
type ListOption func(*listConfig)

type listConfig struct {
	allowEmpty bool
	minItems   int
	maxItems   int
}

// AllowEmpty toggles acceptance of empty sequences (default true).
func AllowEmpty(ok bool) ListOption { return func(c *listConfig) { c.allowEmpty = ok } }

// MinItems sets the minimum item count.
func MinItems(n int) ListOption { return func(c *listConfig) { c.minItems = n } }

// MaxItems sets the maximum item count.
func MaxItems(n int) ListOption { return func(c *listConfig) { c.maxItems = n } }

// ListBinding applies a child binder to every item of a sequence and
// aggregates item failures by index.
type ListBinding[T any] struct {
	child wirebind.Binder[T]
	cfg   listConfig
}

var _ wirebind.Binder[[]map[string]any] = (*ListBinding[map[string]any])(nil)

// List returns a list binding over child.
func List[T any](child wirebind.Binder[T], opts ...ListOption) *ListBinding[T] {
	cfg := listConfig{allowEmpty: true, minItems: -1, maxItems: -1}
	for _, o := range opts {
		o(&cfg)
	}
	return &ListBinding[T]{child: child, cfg: cfg}
}

func (l *ListBinding[T]) Child() wirebind.Binder[T] { return l.child }
func (l *ListBinding[T]) AllowsEmpty() bool         { return l.cfg.allowEmpty }

// Bind imports a sequence. On failure the *wirebind.ListError holds one slot
// per attempted item, nil where the item bound.
func (l *ListBinding[T]) Bind(ctx context.Context, v any) ([]T, error) {
	items, ok := asSlice(v)
	if !ok {
		return nil, wirebind.NewShapeError("array", v)
	}
	n := len(items)
	switch {
	case n == 0 && !l.cfg.allowEmpty:
		return nil, wirebind.NewPolicyError(wirebind.CodeEmpty, nil)
	case l.cfg.minItems >= 0 && n < l.cfg.minItems:
		return nil, wirebind.NewPolicyError(wirebind.CodeTooShort, map[string]string{"min": strconv.Itoa(l.cfg.minItems)})
	case l.cfg.maxItems >= 0 && n > l.cfg.maxItems:
		return nil, wirebind.NewPolicyError(wirebind.CodeTooLong, map[string]string{"max": strconv.Itoa(l.cfg.maxItems)})
	}
	failFast := wirebind.IsFailFast(ctx)
	out := make([]T, 0, n)
	errs := make([]error, 0, n)
	failed := false
	for _, it := range items {
		val, err := l.child.Bind(ctx, it)
		if err != nil {
			errs = append(errs, err)
			failed = true
			if failFast {
				break
			}
			continue
		}
		out = append(out, val)
		errs = append(errs, nil)
	}
	if failed {
		return nil, &wirebind.ListError{Items: errs}
	}
	return out, nil
}

// Present exports every item through the child.
func (l *ListBinding[T]) Present(ctx context.Context, vs []T) any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = l.child.Present(ctx, v)
	}
	return out
}

// JSONSchema describes the external sequence.
func (l *ListBinding[T]) JSONSchema() (*js.Schema, error) {
	items := &js.Schema{}
	if p, ok := l.child.(wirebind.Projector); ok {
		s, err := p.JSONSchema()
		if err != nil {
			return nil, err
		}
		items = s
	}
	s := js.Array(items)
	if l.cfg.minItems >= 0 {
		s.MinItems = js.Int(l.cfg.minItems)
	}
	if !l.cfg.allowEmpty && (s.MinItems == nil || *s.MinItems < 1) {
		s.MinItems = js.Int(1)
	}
	if l.cfg.maxItems >= 0 {
		s.MaxItems = js.Int(l.cfg.maxItems)
	}
	return s, nil
}

func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if v == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
