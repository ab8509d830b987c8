package scalar

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/cockroachdb/apd/v3"

	wirebind "github.com/reoring/wirebind"
	js "github.com/reoring/wirebind/jsonschema"
)

// TextCoder accepts strings and numbers (rendered as text). Booleans are
// rejected. Whitespace is kept as is.
type TextCoder struct {
	allowBlank     bool
	minLen, maxLen *int
	choices        []string
}

func Text() *TextCoder { return &TextCoder{} }

// AllowBlank accepts the empty string.
func (c *TextCoder) AllowBlank() *TextCoder { c.allowBlank = true; return c }

// MinLen and MaxLen bound the length in runes.
func (c *TextCoder) MinLen(n int) *TextCoder { c.minLen = &n; return c }
func (c *TextCoder) MaxLen(n int) *TextCoder { c.maxLen = &n; return c }

func (c *TextCoder) Choices(vals ...string) *TextCoder {
	c.choices = append(c.choices, vals...)
	return c
}

func (c *TextCoder) Kind() string { return "text" }

func (c *TextCoder) Coerce(ctx context.Context, v any) (any, error) {
	s, ok := toText(v)
	if !ok {
		return nil, invalidType("string", v)
	}
	if s == "" {
		if !c.allowBlank {
			return nil, fail(wirebind.CodeBlank, "", nil)
		}
		return s, nil
	}
	n := utf8.RuneCountInString(s)
	if c.minLen != nil && n < *c.minLen {
		return nil, fail(wirebind.CodeTooShort, fmt.Sprintf("min length %d", *c.minLen), map[string]string{"min": strconv.Itoa(*c.minLen)})
	}
	if c.maxLen != nil && n > *c.maxLen {
		return nil, fail(wirebind.CodeTooLong, fmt.Sprintf("max length %d", *c.maxLen), map[string]string{"max": strconv.Itoa(*c.maxLen)})
	}
	if len(c.choices) > 0 {
		ok := false
		for _, ch := range c.choices {
			if ch == s {
				ok = true
				break
			}
		}
		if !ok {
			return nil, fail(wirebind.CodeInvalidEnum, s, nil)
		}
	}
	return s, nil
}

func (c *TextCoder) Serialize(ctx context.Context, v any) any {
	if s, ok := toText(v); ok {
		return s
	}
	return fmt.Sprint(v)
}

func (c *TextCoder) JSONSchema() *js.Schema {
	s := &js.Schema{Type: "string", MinLength: c.minLen, MaxLength: c.maxLen}
	if !c.allowBlank && c.minLen == nil {
		s.MinLength = js.Int(1)
	}
	for _, ch := range c.choices {
		s.Enum = append(s.Enum, ch)
	}
	return s
}

func toText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case int:
		return strconv.Itoa(t), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case *apd.Decimal:
		if t != nil {
			return t.String(), true
		}
	case fmt.Stringer:
		return t.String(), true
	}
	return "", false
}
