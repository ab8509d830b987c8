// Package transform implements reversible numeric steps (multiply, divide,
// add, subtract) and ordered pipelines of them.
//
// Values enter as Go integers, floats, json.Number, numeric strings or
// *apd.Decimal. Scale operations compute in decimal arithmetic bounded to a
// precision (DefaultPrecision when the step declares none) using
// round-half-even. Multiply truncates toward zero to an int64; Divide returns
// an *apd.Decimal. Offset operations are exact and return the value in the
// representation it arrived in.
package transform
