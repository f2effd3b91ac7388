package js_eval

import (
	"math"
	"math/big"

	"github.com/evanw/jsfold/internal/js_ast"
)

// These return a value only if the expression's value is known and the
// expression can be dropped entirely. Replacing the expression with the
// returned literal is then always safe.

func (ev *Evaluator) sideFreeValue(expr js_ast.Expr) (Value, bool) {
	if ev.MayHaveSideEffects(expr) {
		return Value{}, false
	}
	return ev.EvalExpr(expr)
}

func (ev *Evaluator) GetSideFreeNumberValue(expr js_ast.Expr) (float64, bool) {
	if ev.MayHaveSideEffects(expr) {
		return 0, false
	}

	// "+{}" is "NaN" because an empty object literal has the default "valueOf"
	// and "toString" methods
	if object, ok := expr.Data.(*js_ast.EObject); ok && len(object.Properties) == 0 {
		return math.NaN(), true
	}

	if value, ok := ev.EvalExpr(expr); ok {
		return ToNumber(value)
	}
	return 0, false
}

func (ev *Evaluator) GetSideFreeStringValue(expr js_ast.Expr) ([]uint16, bool) {
	if value, ok := ev.sideFreeValue(expr); ok {
		return ToString(value), true
	}
	return nil, false
}

func (ev *Evaluator) GetSideFreeBooleanValue(expr js_ast.Expr) (bool, bool) {
	if ev.MayHaveSideEffects(expr) {
		return false, false
	}
	return ev.EvalBoolean(expr)
}

func (ev *Evaluator) GetSideFreeBigIntValue(expr js_ast.Expr) (*big.Int, bool) {
	if value, ok := ev.sideFreeValue(expr); ok {
		return ToBigInt(value)
	}
	return nil, false
}
