package dsl

import (
	"errors"
	"fmt"

	wirebind "github.com/reoring/wirebind"
	"github.com/reoring/wirebind/i18n"
	"github.com/reoring/wirebind/transform"
)

// ErrInvalidDefinition is matched by every error returned from Build.
var ErrInvalidDefinition = errors.New("dsl: invalid definition")

// DefinitionError reports a declaration mistake found while building a field
// or record.
type DefinitionError struct {
	Field string
	Err   error
}

func (e *DefinitionError) Error() string {
	if e.Field == "" {
		return "dsl: " + e.Err.Error()
	}
	return fmt.Sprintf("dsl: field %q: %v", e.Field, e.Err)
}

func (e *DefinitionError) Unwrap() []error { return []error{ErrInvalidDefinition, e.Err} }

func defErr(field, format string, args ...any) error {
	return &DefinitionError{Field: field, Err: fmt.Errorf(format, args...)}
}

func issue(code, hint string) wirebind.Issues {
	return wirebind.Issues{{Path: "/", Code: code, Message: i18n.T(code, nil), Hint: hint}}
}

// stepIssues reports a failed import transform as a coercion failure.
func stepIssues(err error) wirebind.Issues {
	code := wirebind.CodeInvalidType
	if errors.Is(err, transform.ErrOverflow) || errors.Is(err, transform.ErrArithmetic) {
		code = wirebind.CodeOverflow
	}
	return wirebind.Issues{{Path: "/", Code: code, Message: i18n.T(code, nil), Hint: err.Error(), Cause: err}}
}

// customIssues keeps Issues returned by validators and refine hooks and wraps
// any other error as a custom failure.
func customIssues(err error) error {
	if _, ok := wirebind.AsIssues(err); ok {
		return err
	}
	return wirebind.Issues{{Path: "/", Code: wirebind.CodeCustom, Message: err.Error(), Cause: err}}
}
