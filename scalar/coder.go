// Package scalar holds the type-specific coercion and serialization capability
// that a field composes: integers, decimals, text, booleans, timestamps, lists
// and computed values.
package scalar

import (
	"context"
	"fmt"

	wirebind "github.com/reoring/wirebind"
	"github.com/reoring/wirebind/i18n"
	js "github.com/reoring/wirebind/jsonschema"
)

// Coder converts between the value produced by a field's pipeline and the
// internal value of one scalar kind.
type Coder interface {
	// Kind names the scalar kind ("integer", "text", ...).
	Kind() string
	// Coerce type-checks v and applies the kind's rules. Failures are
	// wirebind.Issues rooted at "/".
	Coerce(ctx context.Context, v any) (any, error)
	// Serialize renders an internal value in its canonical external form.
	Serialize(ctx context.Context, v any) any
	// JSONSchema describes the external value.
	JSONSchema() *js.Schema
}

func fail(code, hint string, params map[string]string) error {
	var p map[string]any
	if len(params) > 0 {
		p = make(map[string]any, len(params))
		for k, v := range params {
			p[k] = v
		}
	}
	return wirebind.Issues{{Path: "/", Code: code, Message: i18n.T(code, params), Hint: hint, Params: p}}
}

func invalidType(expected string, got any) error {
	return fail(wirebind.CodeInvalidType, fmt.Sprintf("expected %s, got %T", expected, got), map[string]string{"expected": expected})
}

// ByKind returns a default-configured coder for a kind name. List coders need
// an element and are not covered.
func ByKind(kind string) (Coder, bool) {
	switch kind {
	case "integer", "int":
		return Integer(), true
	case "decimal", "number":
		return Decimal(), true
	case "text", "string":
		return Text(), true
	case "boolean", "bool":
		return Boolean(), true
	case "timestamp", "datetime":
		return Timestamp(), true
	case "computed", "any":
		return Computed(), true
	}
	return nil, false
}
