package wirebind

import (
	"fmt"

	"github.com/reoring/wirebind/i18n"
)

// IssueAt creates an Issue at p.
func IssueAt(p PathRef, code, msg string, params map[string]any) Issue {
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: params}
}

// Fail returns a single root issue with the translated message for code.
func Fail(code, hint string) Issues {
	return Issues{{Path: "/", Code: code, Message: i18n.T(code, nil), Hint: hint}}
}

// Rebase converts err into Issues whose paths are prefixed with base.
// Errors that carry no Issues become a parse_error at base.
func Rebase(base PathRef, err error) Issues {
	if err == nil {
		return nil
	}
	child, ok := AsIssues(err)
	if !ok {
		return Issues{{Path: base.Pointer(), Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	prefix := base.Pointer()
	if prefix == "/" {
		prefix = ""
	}
	out := make(Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = prefix
		case p[0] == '/':
			p = prefix + p
		default:
			p = prefix + "/" + p
		}
		if p == "" {
			p = "/"
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}

// NewShapeError builds a ShapeError for a container of the wrong type.
func NewShapeError(expected string, got any) *ShapeError {
	return &ShapeError{
		Code:     CodeInvalidType,
		Expected: expected,
		Got:      typeName(got),
		Message:  i18n.T(CodeInvalidType, map[string]string{"expected": expected}),
	}
}

// NewPolicyError builds a ShapeError for a list that violates its length policy.
func NewPolicyError(code string, params map[string]string) *ShapeError {
	return &ShapeError{Code: code, Expected: "array", Message: i18n.T(code, params)}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", v)
}
