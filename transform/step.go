package transform

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

var (
	ErrUnknownKind  = errors.New("transform: unknown kind")
	ErrZeroOperand  = errors.New("transform: scale operand must be non-zero")
	ErrPrecision    = errors.New("transform: precision applies to scale operations only")
	ErrNotNumeric   = errors.New("transform: value is not numeric")
	ErrOverflow     = errors.New("transform: result does not fit in int64")
	ErrArithmetic   = errors.New("transform: arithmetic condition")
	errUninitialize = errors.New("transform: zero Step")
)

// Step is one reversible operation. It records everything needed to invert it
// (kind, operand, precision), so inversion never consults the declaration again.
//
// Multiply truncates its product to an integer while its inverse (Divide) keeps
// the quotient bounded to the precision. Forward-then-reverse is therefore
// lossy. Reverse-then-forward from a scaled integer round trips only when the
// quotient is exact within the precision (operands such as 100 or 0.25); with
// an operand like 3, 10 reverses to 3.333...3 and multiplies back to 9.
type Step struct {
	kind      Kind
	operand   *apd.Decimal
	precision uint32
}

// New validates and builds a Step. precision is the total number of significant
// digits for scale operations; zero selects DefaultPrecision.
func New(kind Kind, operand any, precision uint32) (Step, error) {
	if !kind.valid() {
		return Step{}, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
	d, err := ToDecimal(operand)
	if err != nil {
		return Step{}, fmt.Errorf("transform: %s operand: %w", kind, err)
	}
	if kind.Scale() && d.IsZero() {
		return Step{}, ErrZeroOperand
	}
	if !kind.Scale() && precision != 0 {
		return Step{}, fmt.Errorf("%w: %s", ErrPrecision, kind)
	}
	return Step{kind: kind, operand: d, precision: precision}, nil
}

// Parse is New with the kind given by name ("multiply", "divide", "add", "subtract").
func Parse(kind string, operand any, precision uint32) (Step, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return Step{}, err
	}
	return New(k, operand, precision)
}

// MustNew is like New but panics on error.
func MustNew(kind Kind, operand any, precision uint32) Step {
	s, err := New(kind, operand, precision)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Step) Kind() Kind { return s.kind }

// Operand returns a copy of the operand.
func (s Step) Operand() *apd.Decimal {
	if s.operand == nil {
		return nil
	}
	return new(apd.Decimal).Set(s.operand)
}

// Precision returns the declared precision (0 when unset).
func (s Step) Precision() uint32 { return s.precision }

// WithDefaultPrecision returns s with precision p when s is a scale step
// without its own precision.
func (s Step) WithDefaultPrecision(p uint32) Step {
	if s.kind.Scale() && s.precision == 0 {
		s.precision = p
	}
	return s
}

// Inverse flips the operation and keeps operand and precision.
func (s Step) Inverse() Step {
	return Step{kind: s.kind.Inverse(), operand: s.operand, precision: s.precision}
}

func (s Step) String() string {
	if s.operand == nil {
		return "<zero step>"
	}
	if s.kind.Scale() && s.precision != 0 {
		return fmt.Sprintf("%s(%s, prec=%d)", s.kind, s.operand, s.precision)
	}
	return fmt.Sprintf("%s(%s)", s.kind, s.operand)
}

// Apply runs the step forward. nil passes through.
//
//   - Multiply: decimal product bounded to the precision, truncated to int64.
//   - Divide: decimal quotient bounded to the precision (*apd.Decimal).
//   - Add, Subtract: exact, in the input's numeric representation.
func (s Step) Apply(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if s.operand == nil {
		return nil, errUninitialize
	}
	x, n, err := toDecimal(v)
	if err != nil {
		return nil, err
	}
	switch s.kind {
	case Multiply:
		var prod apd.Decimal
		if _, err := scaleContext(s.precision).Mul(&prod, x, s.operand); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrArithmetic, err)
		}
		return truncate(&prod)
	case Divide:
		c := scaleContext(s.precision)
		var q apd.Decimal
		if _, err := c.Quo(&q, x, s.operand); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrArithmetic, err)
		}
		return toIdeal(c, &q, x.Exponent-s.operand.Exponent), nil
	case Add, Subtract:
		c := exactContext(x, s.operand)
		var r apd.Decimal
		var err error
		if s.kind == Add {
			_, err = c.Add(&r, x, s.operand)
		} else {
			_, err = c.Sub(&r, x, s.operand)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrArithmetic, err)
		}
		return restore(&r, n), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownKind, s.kind)
}

// Reverse undoes Apply by running the inverse step.
func (s Step) Reverse(v any) (any, error) { return s.Inverse().Apply(v) }
