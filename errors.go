package wirebind

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeNull          = "null"
	CodeBlank         = "blank"
	CodeEmpty         = "empty"
	CodeUnknownKey    = "unknown_key"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeOverflow      = "overflow"
	CodeParseError    = "parse_error"
	// Raised by per-field validators and record refine hooks.
	CodeCustom                = "custom"
	CodeDependencyUnavailable = "dependency_unavailable"
)

// NonFieldErrorsKey names the RecordError slot used by record-level refine hooks.
const NonFieldErrorsKey = "non_field_errors"

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer into the external payload (for example: /price/amount).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected types, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "got":42}) for i18n.
	Params map[string]any
}

// Kind classifies the issue into the field-level error kinds.
func (it Issue) Kind() ErrorKind {
	if it.Code == CodeCustom || it.Code == CodeDependencyUnavailable {
		return KindCustomValidation
	}
	return KindCoercion
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// issuer is implemented by the aggregate errors so they flatten like Issues.
type issuer interface {
	Issues() Issues
}

// AsIssues extracts Issues from an error. Aggregate and shape errors are
// flattened into their Issues view.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	// Aggregates first: their Unwrap chain also contains the per-field Issues.
	var is issuer
	if errors.As(err, &is) {
		return is.Issues(), true
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ErrorKind is the error taxonomy of the binding layer.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindCoercion: a raw value cannot be coerced to the declared scalar kind.
	KindCoercion
	// KindCustomValidation: a per-field validator rejected a coercible value.
	KindCustomValidation
	// KindShape: the top-level input is not a mapping or sequence.
	KindShape
	// KindAggregate: one or more field or item failures were collected.
	KindAggregate
)

func (k ErrorKind) String() string {
	switch k {
	case KindCoercion:
		return "coercion"
	case KindCustomValidation:
		return "custom_validation"
	case KindShape:
		return "shape"
	case KindAggregate:
		return "aggregate"
	}
	return "unknown"
}

// KindOf classifies err. Issues made only of custom codes are KindCustomValidation.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var re *RecordError
	if errors.As(err, &re) {
		return KindAggregate
	}
	var le *ListError
	if errors.As(err, &le) {
		return KindAggregate
	}
	var se *ShapeError
	if errors.As(err, &se) {
		return KindShape
	}
	var iss Issues
	if errors.As(err, &iss) && len(iss) > 0 {
		for _, it := range iss {
			if it.Kind() != KindCustomValidation {
				return KindCoercion
			}
		}
		return KindCustomValidation
	}
	return KindUnknown
}

// ShapeError reports that a record or list input has the wrong container shape,
// or that a list violates its emptiness or length policy. It is raised before any
// field or item is looked at.
type ShapeError struct {
	Code     string // CodeInvalidType, CodeEmpty, CodeTooShort or CodeTooLong.
	Expected string // "object" or "array".
	Got      string
	Message  string
}

func (e *ShapeError) Error() string {
	if e.Code == CodeInvalidType {
		return fmt.Sprintf("wirebind: expected %s, got %s", e.Expected, e.Got)
	}
	return fmt.Sprintf("wirebind: %s: %s", e.Code, e.Message)
}

// Issues reports the shape failure as a single root issue.
func (e *ShapeError) Issues() Issues {
	return Issues{{Path: "/", Code: e.Code, Message: e.Message, Hint: "expected " + e.Expected}}
}

// FieldError is the failure detail of one field of a record.
type FieldError struct {
	Name string // Declared field name.
	Key  string // External key path the value was read from.
	Err  error
}

// RecordError aggregates every failed field of a record in declaration order.
type RecordError struct {
	Fields []FieldError
}

func (e *RecordError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Name)
	}
	return fmt.Sprintf("wirebind: %d invalid field(s): %s", len(e.Fields), strings.Join(names, ", "))
}

// Detail returns the failure recorded for the named field.
func (e *RecordError) Detail(name string) (error, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Err, true
		}
	}
	return nil, false
}

// Map returns the failures keyed by field name. Several failures under one
// name (record-level refine hooks) are joined.
func (e *RecordError) Map() map[string]error {
	out := make(map[string]error, len(e.Fields))
	for _, f := range e.Fields {
		if prev, ok := out[f.Name]; ok {
			out[f.Name] = errors.Join(prev, f.Err)
			continue
		}
		out[f.Name] = f.Err
	}
	return out
}

// Unwrap exposes the per-field errors to errors.Is/As.
func (e *RecordError) Unwrap() []error {
	out := make([]error, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.Err)
	}
	return out
}

// Issues flattens the field failures, rebasing each under the external key path.
func (e *RecordError) Issues() Issues {
	var out Issues
	for _, f := range e.Fields {
		base := Root()
		key := f.Key
		if key == "" {
			key = f.Name
		}
		if f.Name != NonFieldErrorsKey {
			base = Root().Path(key)
		}
		out = AppendIssues(out, Rebase(base, f.Err)...)
	}
	return out
}

// ListError aggregates item failures. Items has one slot per input item; the slot
// is nil for items that bound successfully.
type ListError struct {
	Items []error
}

func (e *ListError) Error() string {
	var idx []string
	for i, err := range e.Items {
		if err != nil {
			idx = append(idx, fmt.Sprint(i))
		}
	}
	return fmt.Sprintf("wirebind: %d invalid item(s) at index %s", len(idx), strings.Join(idx, ", "))
}

// Failed reports the indexes whose items failed.
func (e *ListError) Failed() []int {
	var out []int
	for i, err := range e.Items {
		if err != nil {
			out = append(out, i)
		}
	}
	return out
}

// Unwrap exposes the non-nil item errors to errors.Is/As.
func (e *ListError) Unwrap() []error {
	var out []error
	for _, err := range e.Items {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}

// Issues flattens the item failures, rebasing each under its index.
func (e *ListError) Issues() Issues {
	var out Issues
	for i, err := range e.Items {
		if err == nil {
			continue
		}
		out = AppendIssues(out, Rebase(Root().Index(i), err)...)
	}
	return out
}
