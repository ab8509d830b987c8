package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/reoring/wirebind/transform"
)

// Formatter post-processes an exported value. Formatters are total: input
// they do not apply to is returned unchanged.
type Formatter func(v any) any

var formatters = map[string]Formatter{
	"string": FormatString,
	"float":  FormatFloat,
	"int":    FormatInt,
	"upper":  func(v any) any { return mapString(v, strings.ToUpper) },
	"lower":  func(v any) any { return mapString(v, strings.ToLower) },
}

// LookupFormatter resolves a formatter name: string, float, int, upper, lower
// or fixed:N (N decimal places).
func LookupFormatter(name string) (Formatter, error) {
	if f, ok := formatters[name]; ok {
		return f, nil
	}
	if places, ok := strings.CutPrefix(name, "fixed:"); ok {
		n, err := strconv.Atoi(places)
		if err != nil || n < 0 {
			return nil, defErr("", "invalid formatter %q", name)
		}
		return Fixed(n), nil
	}
	return nil, defErr("", "unknown formatter %q", name)
}

// FormatString renders numbers as decimal text.
func FormatString(v any) any {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return nil
	}
	if d, err := transform.ToDecimal(v); err == nil {
		if f, isFloat := v.(float64); isFloat {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return d.Text('f')
	}
	return fmt.Sprint(v)
}

// FormatFloat converts numbers to float64.
func FormatFloat(v any) any {
	if _, ok := v.(string); ok {
		return v
	}
	d, err := transform.ToDecimal(v)
	if err != nil {
		return v
	}
	f, err := d.Float64()
	if err != nil {
		return v
	}
	return f
}

// FormatInt truncates numbers to int64.
func FormatInt(v any) any {
	if _, ok := v.(string); ok {
		return v
	}
	d, err := transform.ToDecimal(v)
	if err != nil {
		return v
	}
	var integ, frac apd.Decimal
	d.Modf(&integ, &frac)
	n, err := integ.Int64()
	if err != nil {
		return v
	}
	return n
}

// Fixed renders numbers as text with exactly places decimals, rounding half up.
func Fixed(places int) Formatter {
	return func(v any) any {
		if _, ok := v.(string); ok {
			return v
		}
		d, err := transform.ToDecimal(v)
		if err != nil {
			return v
		}
		intDigits := max(int64(d.Exponent)+d.NumDigits(), 1)
		c := apd.BaseContext.WithPrecision(uint32(intDigits) + uint32(places) + 1)
		c.Rounding = apd.RoundHalfUp
		var out apd.Decimal
		if _, err := c.Quantize(&out, d, int32(-places)); err != nil {
			return v
		}
		return out.Text('f')
	}
}

func mapString(v any, fn func(string) string) any {
	if s, ok := v.(string); ok {
		return fn(s)
	}
	return v
}
