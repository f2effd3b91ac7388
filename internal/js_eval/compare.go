package js_eval

import (
	"math"
	"math/big"

	"github.com/evanw/jsfold/internal/helpers"
	"github.com/evanw/jsfold/internal/js_ast"
)

// The result of the abstract relational comparison "left < right". A NaN on
// either side makes the operands incomparable, which is false for all four
// relational operators.
type Tristate uint8

const (
	TristateFalse Tristate = iota
	TristateTrue
	TristateIncomparable
)

func tristate(value bool) Tristate {
	if value {
		return TristateTrue
	}
	return TristateFalse
}

// Both operands must be side-effect free primitives. Bigints are not handled.
func (ev *Evaluator) compare(left js_ast.Expr, right js_ast.Expr) (Tristate, bool) {
	leftType := ev.ValueType(left)
	rightType := ev.ValueType(right)
	if !leftType.IsPrimitive() || !rightType.IsPrimitive() || leftType == js_ast.ValueBigInt || rightType == js_ast.ValueBigInt {
		return 0, false
	}

	// Two strings compare by UTF-16 code units instead of numerically
	if leftType == js_ast.ValueString && rightType == js_ast.ValueString {
		a, ok := ev.GetSideFreeStringValue(left)
		if !ok {
			return 0, false
		}
		b, ok := ev.GetSideFreeStringValue(right)
		if !ok {
			return 0, false
		}
		return tristate(helpers.UTF16Compare(a, b) < 0), true
	}

	a, ok := ev.GetSideFreeNumberValue(left)
	if !ok {
		return 0, false
	}
	b, ok := ev.GetSideFreeNumberValue(right)
	if !ok {
		return 0, false
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		return TristateIncomparable, true
	}
	return tristate(a < b), true
}

// Implements "IsStrictlyEqual" for primitives
func StrictEquals(a Value, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindBoolean:
		return a.Bool == b.Bool
	case KindNumber:
		return a.Number == b.Number
	case KindString:
		return helpers.UTF16EqualsUTF16(a.String, b.String)
	case KindBigInt:
		return a.BigInt.Cmp(b.BigInt) == 0
	}
	return true
}

// Implements "IsLooselyEqual" for primitives
func LooseEquals(a Value, b Value) bool {
	if a.Kind == b.Kind {
		return StrictEquals(a, b)
	}

	aIsNullish := a.Kind == KindUndefined || a.Kind == KindNull
	bIsNullish := b.Kind == KindUndefined || b.Kind == KindNull
	if aIsNullish || bIsNullish {
		return aIsNullish && bIsNullish
	}

	// Booleans are converted to numbers before anything else
	if a.Kind == KindBoolean {
		n, _ := ToNumber(a)
		return LooseEquals(Number(n), b)
	}
	if b.Kind == KindBoolean {
		n, _ := ToNumber(b)
		return LooseEquals(a, Number(n))
	}

	if a.Kind == KindString {
		a, b = b, a
	}
	switch {
	case a.Kind == KindNumber && b.Kind == KindString:
		return a.Number == helpers.StringToNumber(b.String)

	case a.Kind == KindBigInt && b.Kind == KindString:
		n, ok := StringToBigInt(b.String)
		return ok && a.BigInt.Cmp(n) == 0

	case a.Kind == KindBigInt && b.Kind == KindNumber:
		return bigIntEqualsNumber(a.BigInt, b.Number)

	case a.Kind == KindNumber && b.Kind == KindBigInt:
		return bigIntEqualsNumber(b.BigInt, a.Number)
	}
	return false
}

func bigIntEqualsNumber(a *big.Int, b float64) bool {
	if math.IsNaN(b) || math.IsInf(b, 0) || b != math.Trunc(b) {
		return false
	}
	n, _ := new(big.Float).SetFloat64(b).Int(nil)
	return a.Cmp(n) == 0
}
