package transform

import (
	"fmt"
	"strings"
)

// Kind is the closed set of transform operations.
type Kind int

const (
	Multiply Kind = iota + 1
	Divide
	Add
	Subtract
)

var kindNames = map[Kind]string{
	Multiply: "multiply",
	Divide:   "divide",
	Add:      "add",
	Subtract: "subtract",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Scale reports whether k is a scale operation (multiply/divide). Only scale
// operations honor a precision.
func (k Kind) Scale() bool { return k == Multiply || k == Divide }

// Inverse returns the operation that undoes k with the same operand.
func (k Kind) Inverse() Kind {
	switch k {
	case Multiply:
		return Divide
	case Divide:
		return Multiply
	case Add:
		return Subtract
	case Subtract:
		return Add
	}
	return k
}

func (k Kind) valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind maps a case-insensitive operation name to its Kind.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for k, kn := range kindNames {
		if kn == n {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
