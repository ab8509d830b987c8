package scalar

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	wirebind "github.com/reoring/wirebind"
	js "github.com/reoring/wirebind/jsonschema"
	"github.com/reoring/wirebind/transform"
)

// maxIntegerText bounds the length of integer strings accepted by Integer.
const maxIntegerText = 1000

var trailingZeroFraction = regexp.MustCompile(`\.0*\s*$`)

// IntegerCoder accepts integral numbers and integer text ("42", "42.00") and
// yields int64.
type IntegerCoder struct {
	min, max *int64
	choices  []int64
}

func Integer() *IntegerCoder { return &IntegerCoder{} }

func (c *IntegerCoder) Min(n int64) *IntegerCoder { c.min = &n; return c }
func (c *IntegerCoder) Max(n int64) *IntegerCoder { c.max = &n; return c }

// Choices restricts the accepted values.
func (c *IntegerCoder) Choices(vals ...int64) *IntegerCoder {
	c.choices = append(c.choices, vals...)
	return c
}

func (c *IntegerCoder) Kind() string { return "integer" }

func (c *IntegerCoder) Coerce(ctx context.Context, v any) (any, error) {
	n, err := toInt64(v)
	if err != nil {
		return nil, err
	}
	if c.min != nil && n < *c.min {
		return nil, fail(wirebind.CodeTooSmall, "", map[string]string{"min": strconv.FormatInt(*c.min, 10)})
	}
	if c.max != nil && n > *c.max {
		return nil, fail(wirebind.CodeTooBig, "", map[string]string{"max": strconv.FormatInt(*c.max, 10)})
	}
	if len(c.choices) > 0 {
		ok := false
		for _, ch := range c.choices {
			if ch == n {
				ok = true
				break
			}
		}
		if !ok {
			return nil, fail(wirebind.CodeInvalidEnum, strconv.FormatInt(n, 10), nil)
		}
	}
	return n, nil
}

// Serialize returns integral values as int64 and anything else unchanged.
func (c *IntegerCoder) Serialize(ctx context.Context, v any) any {
	if n, err := toInt64(v); err == nil {
		return n
	}
	return v
}

func (c *IntegerCoder) JSONSchema() *js.Schema {
	s := &js.Schema{Type: "integer"}
	if c.min != nil {
		s.Minimum = *c.min
	}
	if c.max != nil {
		s.Maximum = *c.max
	}
	for _, ch := range c.choices {
		s.Enum = append(s.Enum, ch)
	}
	return s
}

func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint:
		if uint64(t) > math.MaxInt64 {
			return 0, fail(wirebind.CodeOverflow, "", nil)
		}
		return int64(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return 0, fail(wirebind.CodeOverflow, "", nil)
		}
		return int64(t), nil
	case float32:
		return floatToInt64(float64(t))
	case float64:
		return floatToInt64(t)
	case json.Number:
		return parseInt64(t.String())
	case string:
		return parseInt64(t)
	case *apd.Decimal:
		if t == nil {
			return 0, invalidType("integer", v)
		}
		var integ, frac apd.Decimal
		t.Modf(&integ, &frac)
		if !frac.IsZero() {
			return 0, invalidType("integer", v)
		}
		n, err := integ.Int64()
		if err != nil {
			return 0, fail(wirebind.CodeOverflow, "", nil)
		}
		return n, nil
	}
	return 0, invalidType("integer", v)
}

func floatToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, invalidType("integer", f)
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fail(wirebind.CodeOverflow, "", nil)
	}
	return int64(f), nil
}

func parseInt64(s string) (int64, error) {
	if len(s) > maxIntegerText {
		return 0, fail(wirebind.CodeTooLong, "integer text too long", nil)
	}
	s = strings.TrimSpace(trailingZeroFraction.ReplaceAllString(s, ""))
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fail(wirebind.CodeOverflow, "", nil)
		}
		return 0, invalidType("integer", s)
	}
	return n, nil
}

// DecimalCoder accepts any finite number or numeric text and yields *apd.Decimal.
type DecimalCoder struct {
	min, max *apd.Decimal
}

func Decimal() *DecimalCoder { return &DecimalCoder{} }

// Min sets an inclusive lower bound. It panics when v is not numeric.
func (c *DecimalCoder) Min(v any) *DecimalCoder { c.min = mustDecimal(v); return c }

// Max sets an inclusive upper bound. It panics when v is not numeric.
func (c *DecimalCoder) Max(v any) *DecimalCoder { c.max = mustDecimal(v); return c }

func (c *DecimalCoder) Kind() string { return "decimal" }

func (c *DecimalCoder) Coerce(ctx context.Context, v any) (any, error) {
	if _, isBool := v.(bool); isBool {
		return nil, invalidType("number", v)
	}
	d, err := transform.ToDecimal(v)
	if err != nil {
		return nil, invalidType("number", v)
	}
	if c.min != nil && d.Cmp(c.min) < 0 {
		return nil, fail(wirebind.CodeTooSmall, "", map[string]string{"min": c.min.String()})
	}
	if c.max != nil && d.Cmp(c.max) > 0 {
		return nil, fail(wirebind.CodeTooBig, "", map[string]string{"max": c.max.String()})
	}
	return d, nil
}

func (c *DecimalCoder) Serialize(ctx context.Context, v any) any {
	if d, err := transform.ToDecimal(v); err == nil {
		return d
	}
	return v
}

func (c *DecimalCoder) JSONSchema() *js.Schema {
	s := &js.Schema{Type: "number"}
	if c.min != nil {
		s.Minimum = json.Number(c.min.String())
	}
	if c.max != nil {
		s.Maximum = json.Number(c.max.String())
	}
	return s
}

func mustDecimal(v any) *apd.Decimal {
	d, err := transform.ToDecimal(v)
	if err != nil {
		panic(err)
	}
	return d
}
