package wirebind

import (
	"context"

	js "github.com/reoring/wirebind/jsonschema"
	"github.com/reoring/wirebind/source"
)

// Binder is the bidirectional contract shared by fields, records and lists.
type Binder[T any] interface {
	// Bind converts an external (wire) value into the internal value T.
	// Failures are Issues, *ShapeError, *RecordError or *ListError.
	Bind(ctx context.Context, v any) (T, error)
	// Present converts an internal value back to its external form. It never
	// fails; a broken invariant panics.
	Present(ctx context.Context, v T) any
}

// Projector is implemented by binders that can describe their wire shape.
type Projector interface {
	JSONSchema() (*js.Schema, error)
}

// BindJSON decodes data with json.Number semantics and binds it.
func BindJSON[T any](ctx context.Context, b Binder[T], data []byte) (T, error) {
	v, err := source.JSON(data)
	if err != nil {
		var zero T
		return zero, Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return b.Bind(ctx, v)
}

// PresentJSON presents v and encodes the result as JSON.
func PresentJSON[T any](ctx context.Context, b Binder[T], v T) ([]byte, error) {
	return source.MarshalJSON(b.Present(ctx, v), false)
}

// SafeBind binds v, returning (zero, false) on any failure.
func SafeBind[T any](ctx context.Context, b Binder[T], v any) (T, bool) {
	val, err := b.Bind(ctx, v)
	if err != nil {
		var zero T
		return zero, false
	}
	return val, true
}

// Is reports whether v binds without error.
func Is[T any](ctx context.Context, b Binder[T], v any) bool {
	_, err := b.Bind(ctx, v)
	return err == nil
}

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
)

// WithFailFast returns a child context that stops record and list binding at
// the first failure.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current bind should stop on the first failure.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}
