package transform

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// DefaultPrecision is the significant-digit bound of scale operations that do
// not declare one.
const DefaultPrecision uint32 = 28

// native remembers which numeric representation a value arrived in so that
// offset results can be handed back in the same representation.
type native int

const (
	nativeDecimal native = iota
	nativeInt
	nativeFloat
	nativeNumber
)

// numberLike matches json.Number-style types from any JSON package.
type numberLike interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

// ToDecimal converts a numeric value (Go integers and floats, json.Number,
// numeric strings, apd decimals) into a new decimal.
func ToDecimal(v any) (*apd.Decimal, error) {
	d, _, err := toDecimal(v)
	return d, err
}

func toDecimal(v any) (*apd.Decimal, native, error) {
	switch t := v.(type) {
	case *apd.Decimal:
		if t == nil {
			return nil, nativeDecimal, fmt.Errorf("%w: nil decimal", ErrNotNumeric)
		}
		return finite(new(apd.Decimal).Set(t), nativeDecimal)
	case int:
		return new(apd.Decimal).SetInt64(int64(t)), nativeInt, nil
	case int8:
		return new(apd.Decimal).SetInt64(int64(t)), nativeInt, nil
	case int16:
		return new(apd.Decimal).SetInt64(int64(t)), nativeInt, nil
	case int32:
		return new(apd.Decimal).SetInt64(int64(t)), nativeInt, nil
	case int64:
		return new(apd.Decimal).SetInt64(t), nativeInt, nil
	case uint:
		return parseDecimal(fmt.Sprint(t), nativeInt)
	case uint8:
		return new(apd.Decimal).SetInt64(int64(t)), nativeInt, nil
	case uint16:
		return new(apd.Decimal).SetInt64(int64(t)), nativeInt, nil
	case uint32:
		return new(apd.Decimal).SetInt64(int64(t)), nativeInt, nil
	case uint64:
		return parseDecimal(fmt.Sprint(t), nativeInt)
	case float32:
		return fromFloat(float64(t))
	case float64:
		return fromFloat(t)
	case json.Number:
		return parseDecimal(t.String(), nativeNumber)
	case string:
		return parseDecimal(strings.TrimSpace(t), nativeDecimal)
	case bool:
		return nil, nativeDecimal, fmt.Errorf("%w: boolean", ErrNotNumeric)
	case numberLike:
		return parseDecimal(t.String(), nativeNumber)
	}
	return nil, nativeDecimal, fmt.Errorf("%w: %T", ErrNotNumeric, v)
}

func fromFloat(f float64) (*apd.Decimal, native, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, nativeFloat, fmt.Errorf("%w: %v", ErrNotNumeric, f)
	}
	d, err := new(apd.Decimal).SetFloat64(f)
	if err != nil {
		return nil, nativeFloat, fmt.Errorf("%w: %v", ErrNotNumeric, err)
	}
	return d, nativeFloat, nil
}

func parseDecimal(s string, n native) (*apd.Decimal, native, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, n, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	return finite(d, n)
}

func finite(d *apd.Decimal, n native) (*apd.Decimal, native, error) {
	if d.Form != apd.Finite {
		return nil, n, fmt.Errorf("%w: %s", ErrNotNumeric, d.String())
	}
	return d, n, nil
}

// restore hands an offset result back in the representation of its input.
func restore(d *apd.Decimal, n native) any {
	switch n {
	case nativeInt:
		if i, err := d.Int64(); err == nil {
			return i
		}
	case nativeFloat:
		if f, err := d.Float64(); err == nil {
			return f
		}
	case nativeNumber:
		return json.Number(d.String())
	}
	return d
}

func scaleContext(precision uint32) *apd.Context {
	if precision == 0 {
		precision = DefaultPrecision
	}
	c := apd.BaseContext.WithPrecision(precision)
	c.Rounding = apd.RoundHalfEven
	return c
}

// exactContext returns a context wide enough for x+y or x-y to be exact.
func exactContext(x, y *apd.Decimal) *apd.Context {
	hi := max(adjusted(x), adjusted(y))
	lo := min(int64(x.Exponent), int64(y.Exponent))
	return apd.BaseContext.WithPrecision(uint32(hi - lo + 2))
}

func adjusted(d *apd.Decimal) int64 {
	return int64(d.Exponent) + d.NumDigits() - 1
}

// truncate drops the fractional part (toward zero) and returns the integer.
func truncate(d *apd.Decimal) (int64, error) {
	var integ, frac apd.Decimal
	d.Modf(&integ, &frac)
	n, err := integ.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrOverflow, d.String())
	}
	return n, nil
}

// toIdeal strips the padding zeros a quotient carries beyond the exponent the
// operands call for, e.g. 1250/100 renders as 12.5 and 1000/100 as 10.
func toIdeal(c *apd.Context, q *apd.Decimal, ideal int32) *apd.Decimal {
	var reduced apd.Decimal
	reduced.Reduce(q)
	if reduced.Exponent <= ideal {
		return &reduced
	}
	var out apd.Decimal
	if _, err := c.Quantize(&out, &reduced, ideal); err != nil || out.Form != apd.Finite {
		return &reduced
	}
	return &out
}

// SignificantDigits reports the number of significant digits of a numeric
// value. Trailing zeros do not count.
func SignificantDigits(v any) (int64, error) {
	d, err := ToDecimal(v)
	if err != nil {
		return 0, err
	}
	var r apd.Decimal
	r.Reduce(d)
	return r.NumDigits(), nil
}
