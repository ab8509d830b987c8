package scalar

import (
	"context"
	"time"

	wirebind "github.com/reoring/wirebind"
	js "github.com/reoring/wirebind/jsonschema"
)

// TimestampCoder converts between time strings and time.Time. By default it
// accepts RFC3339 with optional fractional seconds and serializes canonical
// UTC RFC3339Nano.
type TimestampCoder struct {
	layouts []string
}

func Timestamp() *TimestampCoder { return &TimestampCoder{} }

// Layouts replaces the accepted input layouts (time.Parse syntax).
func (c *TimestampCoder) Layouts(layouts ...string) *TimestampCoder {
	c.layouts = append([]string(nil), layouts...)
	return c
}

func (c *TimestampCoder) Kind() string { return "timestamp" }

func (c *TimestampCoder) Coerce(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		tt, err := c.parse(t)
		if err != nil {
			return nil, wirebind.Issues{{Path: "/", Code: wirebind.CodeInvalidFormat, Message: "invalid time", Hint: t, Cause: err}}
		}
		return tt, nil
	}
	return nil, invalidType("string", v)
}

func (c *TimestampCoder) Serialize(ctx context.Context, v any) any {
	if t, ok := v.(time.Time); ok {
		return formatRFC3339Canonical(t)
	}
	return v
}

func (c *TimestampCoder) JSONSchema() *js.Schema {
	s := &js.Schema{Type: "string"}
	if len(c.layouts) == 0 {
		s.Format = "date-time"
	}
	return s
}

func (c *TimestampCoder) parse(s string) (time.Time, error) {
	if len(c.layouts) == 0 {
		return parseRFC3339(s)
	}
	var err error
	for _, l := range c.layouts {
		var t time.Time
		if t, err = time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
