package helpers

import "math"

// This wraps float64 math operations. The Go compiler may combine multiple
// floating-point operations into a single "fused multiply and add" (FMA)
// instruction on some processors, which skips an intermediate rounding step.
// JavaScript requires every arithmetic step to be rounded to double precision,
// so a folded constant must come out bit-for-bit identical on every platform.
// From the Go specification (https://go.dev/ref/spec#Floating_point_operators):
//
//	An explicit floating-point type conversion rounds to the precision of the
//	target type, preventing fusion that would discard that rounding.
//
// All constant folding goes through this wrapper so the conversions are
// present everywhere instead of being added case by case.
type F64 struct {
	value float64
}

func NewF64(a float64) F64 {
	return F64{value: float64(a)}
}

func (a F64) Value() float64 {
	return a.value
}

func (a F64) IsNaN() bool {
	return math.IsNaN(a.value)
}

func (a F64) IsInf() bool {
	return math.IsInf(a.value, 0)
}

func (a F64) Neg() F64 {
	return NewF64(-a.value)
}

func (a F64) Abs() F64 {
	return NewF64(math.Abs(a.value))
}

func (a F64) Trunc() F64 {
	return NewF64(math.Trunc(a.value))
}

func (a F64) Add(b F64) F64 {
	return NewF64(a.value + b.value)
}

func (a F64) Sub(b F64) F64 {
	return NewF64(a.value - b.value)
}

func (a F64) Mul(b F64) F64 {
	return NewF64(a.value * b.value)
}

func (a F64) Div(b F64) F64 {
	return NewF64(a.value / b.value)
}

// JavaScript's "%" truncates like C's fmod, which is what "math.Mod" does.
// A zero divisor or an infinite dividend produces NaN.
func (a F64) Mod(b F64) F64 {
	return NewF64(math.Mod(a.value, b.value))
}

// This implements "Number::exponentiate" which differs from "math.Pow" in two
// places: a NaN exponent always produces NaN (Go returns 1 for "1 ** NaN"),
// and a base of magnitude one raised to an infinite power is NaN (Go returns 1).
func (a F64) Pow(b F64) F64 {
	if math.IsNaN(b.value) {
		return NewF64(math.NaN())
	}
	if b.value == 0 {
		return NewF64(1)
	}
	if math.IsInf(b.value, 0) && math.Abs(a.value) == 1 {
		return NewF64(math.NaN())
	}
	return NewF64(math.Pow(a.value, b.value))
}
