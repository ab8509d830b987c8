package wirebind

import (
	"context"

	"github.com/reoring/wirebind/i18n"
)

type serviceKey[T any] struct{}

// WithService stores svc in ctx for validators and refine hooks that need a
// dependency (a lookup table, a repository) during Bind.
func WithService[T any](ctx context.Context, svc T) context.Context {
	return context.WithValue(ctx, serviceKey[T]{}, any(svc))
}

// Service retrieves the service of type T stored in ctx.
func Service[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(serviceKey[T]{}).(T)
	return v, ok
}

// RequireService is Service returning a dependency_unavailable issue when
// the service is missing.
func RequireService[T any](ctx context.Context) (T, error) {
	if v, ok := Service[T](ctx); ok {
		return v, nil
	}
	var zero T
	return zero, Issues{{Path: "/", Code: CodeDependencyUnavailable, Message: i18n.T(CodeDependencyUnavailable, nil)}}
}
