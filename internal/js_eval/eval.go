package js_eval

import (
	"math"
	"math/big"

	"github.com/evanw/jsfold/internal/helpers"
	"github.com/evanw/jsfold/internal/js_ast"
)

// The evaluator computes the value an expression is guaranteed to produce
// without running it. When "EvalExpr" succeeds, every part of the expression
// that the value no longer accounts for has been checked with the oracle, so
// the expression may be replaced by the literal. This is weaker than the oracle
// itself: "({}) + 1" folds to "NaN" even though the oracle can't prove that
// adding an object has no side effects in general.
type Evaluator struct {
	Oracle SideEffectOracle

	// Identifiers are only resolved through this. A nil value means no
	// identifier is ever known to refer to a global.
	Globals js_ast.GlobalChecker

	// Optional. Returns the value of a binding that is known to always hold the
	// same primitive at every point it can be read.
	KnownConstant func(ref js_ast.Ref) (Value, bool)
}

func NewEvaluator(oracle SideEffectOracle, globals js_ast.GlobalChecker) *Evaluator {
	return &Evaluator{Oracle: oracle, Globals: globals}
}

func (ev *Evaluator) MayHaveSideEffects(expr js_ast.Expr) bool {
	if ev.Oracle == nil {
		return true
	}
	return ev.Oracle.MayHaveSideEffects(expr)
}

func (ev *Evaluator) isGlobal(ref js_ast.Ref, name string) bool {
	return ev.Globals != nil && ev.Globals.IsGlobalReference(ref, name)
}

// Like "js_ast.KnownValueType" but also sees through known constants
func (ev *Evaluator) ValueType(expr js_ast.Expr) js_ast.ValueType {
	if t := js_ast.KnownValueType(expr, ev.Globals); t != js_ast.ValueUndetermined {
		return t
	}
	if id, ok := expr.Data.(*js_ast.EIdentifier); ok {
		if value, ok := ev.identifierValue(id.Ref); ok {
			return value.Type()
		}
	}
	return js_ast.ValueUndetermined
}

func (ev *Evaluator) EvalExpr(expr js_ast.Expr) (Value, bool) {
	switch e := expr.Data.(type) {
	case *js_ast.EUndefined, *js_ast.ENull, *js_ast.EBoolean, *js_ast.ENumber, *js_ast.EString, *js_ast.EBigInt:
		return LiteralValue(e)

	case *js_ast.EIdentifier:
		return ev.identifierValue(e.Ref)

	case *js_ast.ETemplate:
		if e.TagOrNil.Data == nil {
			return ev.templateValue(e)
		}

	case *js_ast.EDot:
		if e.Name == "length" && e.OptionalChain == js_ast.OptionalChainNone {
			return ev.lengthValue(e.Target)
		}

	case *js_ast.EIndex:
		if index, ok := e.Index.Data.(*js_ast.EString); ok && e.OptionalChain == js_ast.OptionalChainNone &&
			helpers.UTF16EqualsString(index.Value, "length") {
			return ev.lengthValue(e.Target)
		}

	case *js_ast.EIf:
		if test, ok := ev.GetSideFreeBooleanValue(e.Test); ok {
			if test {
				return ev.EvalExpr(e.Yes)
			}
			return ev.EvalExpr(e.No)
		}

	case *js_ast.EUnary:
		return ev.evalUnary(e)

	case *js_ast.EBinary:
		return ev.evalBinary(e)
	}

	return Value{}, false
}

func (ev *Evaluator) identifierValue(ref js_ast.Ref) (Value, bool) {
	switch {
	case ev.isGlobal(ref, "undefined"):
		return Undefined(), true
	case ev.isGlobal(ref, "NaN"):
		return Number(math.NaN()), true
	case ev.isGlobal(ref, "Infinity"):
		return Number(math.Inf(1)), true
	}
	if ev.KnownConstant != nil {
		return ev.KnownConstant(ref)
	}
	return Value{}, false
}

func (ev *Evaluator) templateValue(e *js_ast.ETemplate) (Value, bool) {
	text := e.HeadCooked
	for _, part := range e.Parts {
		value, ok := ev.GetSideFreeStringValue(part.Value)
		if !ok {
			return Value{}, false
		}
		text = helpers.UTF16Concat(text, value)
		text = helpers.UTF16Concat(text, part.TailCooked)
	}
	return String(text), true
}

func (ev *Evaluator) lengthValue(target js_ast.Expr) (Value, bool) {
	if ev.MayHaveSideEffects(target) {
		return Value{}, false
	}
	switch t := target.Data.(type) {
	case *js_ast.EString:
		return Number(float64(len(t.Value))), true

	case *js_ast.EArray:
		for _, item := range t.Items {
			if _, ok := item.Data.(*js_ast.ESpread); ok {
				return Value{}, false
			}
		}
		return Number(float64(len(t.Items))), true
	}
	return Value{}, false
}

func (ev *Evaluator) evalUnary(e *js_ast.EUnary) (Value, bool) {
	switch e.Op {
	case js_ast.UnOpVoid:
		if js_ast.IsPrimitiveLiteral(e.Value.Data) || !ev.MayHaveSideEffects(e.Value) {
			return Undefined(), true
		}

	case js_ast.UnOpTypeof:
		if name, ok := ev.typeofName(e.Value); ok {
			return String(helpers.StringToUTF16(name)), true
		}

	case js_ast.UnOpNot:
		if value, ok := ev.GetSideFreeBooleanValue(e.Value); ok {
			return Boolean(!value), true
		}

	case js_ast.UnOpPos:
		if value, ok := ev.GetSideFreeNumberValue(e.Value); ok {
			return Number(value), true
		}

	case js_ast.UnOpNeg:
		if ev.ValueType(e.Value) == js_ast.ValueBigInt {
			if value, ok := ev.GetSideFreeBigIntValue(e.Value); ok {
				return BigInt(new(big.Int).Neg(value)), true
			}
			break
		}
		if value, ok := ev.GetSideFreeNumberValue(e.Value); ok {
			if math.IsNaN(value) {
				return Number(math.NaN()), true
			}
			return Number(-value), true
		}

	case js_ast.UnOpCpl:
		if ev.ValueType(e.Value) == js_ast.ValueBigInt {
			if value, ok := ev.GetSideFreeBigIntValue(e.Value); ok {
				return BigInt(new(big.Int).Not(value)), true
			}
			break
		}
		if value, ok := ev.GetSideFreeNumberValue(e.Value); ok {
			return Number(float64(^js_ast.ToInt32(value))), true
		}
	}

	// "delete" and the update operators are never folded
	return Value{}, false
}

func (ev *Evaluator) typeofName(operand js_ast.Expr) (string, bool) {
	if id, ok := operand.Data.(*js_ast.EIdentifier); ok {
		if value, ok := ev.identifierValue(id.Ref); ok {
			return value.TypeofName(), true
		}
		return "", false
	}
	if ev.MayHaveSideEffects(operand) {
		return "", false
	}

	switch operand.Data.(type) {
	case *js_ast.EFunction, *js_ast.EArrow, *js_ast.EClass:
		return "function", true

	case *js_ast.EObject, *js_ast.EArray, *js_ast.ERegExp:
		return "object", true
	}

	switch ev.ValueType(operand) {
	case js_ast.ValueUndefined:
		return "undefined", true
	case js_ast.ValueNull:
		return "object", true
	case js_ast.ValueBoolean:
		return "boolean", true
	case js_ast.ValueNumber:
		return "number", true
	case js_ast.ValueString:
		return "string", true
	case js_ast.ValueBigInt:
		return "bigint", true
	}
	return "", false
}

func (ev *Evaluator) evalBinary(e *js_ast.EBinary) (Value, bool) {
	switch e.Op {
	case js_ast.BinOpComma:
		if !ev.MayHaveSideEffects(e.Left) {
			return ev.EvalExpr(e.Right)
		}

	case js_ast.BinOpLogicalAnd:
		if left, ok := ev.GetSideFreeBooleanValue(e.Left); ok {
			if !left {
				return ev.EvalExpr(e.Left)
			}
			return ev.EvalExpr(e.Right)
		}

	case js_ast.BinOpLogicalOr:
		if left, ok := ev.GetSideFreeBooleanValue(e.Left); ok {
			if left {
				return ev.EvalExpr(e.Left)
			}
			return ev.EvalExpr(e.Right)
		}

	case js_ast.BinOpNullishCoalescing:
		if left, ok := ev.sideFreeValue(e.Left); ok {
			if left.Kind == KindUndefined || left.Kind == KindNull {
				return ev.EvalExpr(e.Right)
			}
			return left, true
		}

	case js_ast.BinOpAdd:
		return ev.evalAdd(e)

	case js_ast.BinOpSub, js_ast.BinOpMul, js_ast.BinOpDiv, js_ast.BinOpRem, js_ast.BinOpPow:
		left, ok := ev.GetSideFreeNumberValue(e.Left)
		if !ok {
			break
		}
		right, ok := ev.GetSideFreeNumberValue(e.Right)
		if !ok {
			break
		}
		a, b := helpers.NewF64(left), helpers.NewF64(right)
		switch e.Op {
		case js_ast.BinOpSub:
			return Number(a.Sub(b).Value()), true
		case js_ast.BinOpMul:
			return Number(a.Mul(b).Value()), true
		case js_ast.BinOpDiv:
			return Number(a.Div(b).Value()), true
		case js_ast.BinOpRem:
			return Number(a.Mod(b).Value()), true
		default:
			return Number(a.Pow(b).Value()), true
		}

	case js_ast.BinOpShl, js_ast.BinOpShr, js_ast.BinOpUShr:
		left, ok := ev.GetSideFreeNumberValue(e.Left)
		if !ok {
			break
		}
		right, ok := ev.GetSideFreeNumberValue(e.Right)
		if !ok {
			break
		}
		shift := js_ast.ToUint32(right) & 31
		switch e.Op {
		case js_ast.BinOpShl:
			return Number(float64(js_ast.ToInt32(left) << shift)), true
		case js_ast.BinOpShr:
			return Number(float64(js_ast.ToInt32(left) >> shift)), true
		default:
			return Number(float64(js_ast.ToUint32(left) >> shift)), true
		}

	case js_ast.BinOpBitwiseAnd, js_ast.BinOpBitwiseOr, js_ast.BinOpBitwiseXor:
		return ev.evalBitwise(e)

	case js_ast.BinOpLt:
		if result, ok := ev.compare(e.Left, e.Right); ok {
			return Boolean(result == TristateTrue), true
		}

	case js_ast.BinOpGt:
		if result, ok := ev.compare(e.Right, e.Left); ok {
			return Boolean(result == TristateTrue), true
		}

	case js_ast.BinOpLe:
		if result, ok := ev.compare(e.Right, e.Left); ok {
			return Boolean(result == TristateFalse), true
		}

	case js_ast.BinOpGe:
		if result, ok := ev.compare(e.Left, e.Right); ok {
			return Boolean(result == TristateFalse), true
		}

	case js_ast.BinOpStrictEq, js_ast.BinOpStrictNe, js_ast.BinOpLooseEq, js_ast.BinOpLooseNe:
		left, ok := ev.sideFreeValue(e.Left)
		if !ok {
			break
		}
		right, ok := ev.sideFreeValue(e.Right)
		if !ok {
			break
		}
		var equal bool
		if e.Op == js_ast.BinOpStrictEq || e.Op == js_ast.BinOpStrictNe {
			equal = StrictEquals(left, right)
		} else {
			equal = LooseEquals(left, right)
		}
		if e.Op == js_ast.BinOpStrictNe || e.Op == js_ast.BinOpLooseNe {
			equal = !equal
		}
		return Boolean(equal), true

	case js_ast.BinOpInstanceof:
		return ev.evalInstanceof(e)
	}

	// "in" and all assignment operators are never folded
	return Value{}, false
}

func (ev *Evaluator) evalAdd(e *js_ast.EBinary) (Value, bool) {
	if ev.MayHaveSideEffects(e.Left) || ev.MayHaveSideEffects(e.Right) {
		return Value{}, false
	}

	leftType := ev.ValueType(e.Left)
	rightType := ev.ValueType(e.Right)

	if leftType == js_ast.ValueString || rightType == js_ast.ValueString {
		left, ok := ev.GetSideFreeStringValue(e.Left)
		if !ok {
			return Value{}, false
		}
		right, ok := ev.GetSideFreeStringValue(e.Right)
		if !ok {
			return Value{}, false
		}
		return String(helpers.UTF16Concat(left, right)), true
	}

	if leftType == js_ast.ValueNumber || rightType == js_ast.ValueNumber {
		left, ok := ev.GetSideFreeNumberValue(e.Left)
		if !ok {
			return Value{}, false
		}
		right, ok := ev.GetSideFreeNumberValue(e.Right)
		if !ok {
			return Value{}, false
		}
		return Number(left + right), true
	}

	return Value{}, false
}

func (ev *Evaluator) evalBitwise(e *js_ast.EBinary) (Value, bool) {
	// Bigint operands are only folded when both are written as literals
	if left, ok := e.Left.Data.(*js_ast.EBigInt); ok {
		right, ok := e.Right.Data.(*js_ast.EBigInt)
		if !ok {
			return Value{}, false
		}
		a, ok := ParseBigIntLiteral(left.Value)
		if !ok {
			return Value{}, false
		}
		b, ok := ParseBigIntLiteral(right.Value)
		if !ok {
			return Value{}, false
		}
		result := new(big.Int)
		switch e.Op {
		case js_ast.BinOpBitwiseAnd:
			result.And(a, b)
		case js_ast.BinOpBitwiseOr:
			result.Or(a, b)
		default:
			result.Xor(a, b)
		}
		return BigInt(result), true
	}

	left, ok := ev.GetSideFreeNumberValue(e.Left)
	if !ok {
		return Value{}, false
	}
	right, ok := ev.GetSideFreeNumberValue(e.Right)
	if !ok {
		return Value{}, false
	}
	a, b := js_ast.ToInt32(left), js_ast.ToInt32(right)
	switch e.Op {
	case js_ast.BinOpBitwiseAnd:
		return Number(float64(a & b)), true
	case js_ast.BinOpBitwiseOr:
		return Number(float64(a | b)), true
	default:
		return Number(float64(a ^ b)), true
	}
}

func (ev *Evaluator) evalInstanceof(e *js_ast.EBinary) (Value, bool) {
	id, ok := e.Right.Data.(*js_ast.EIdentifier)
	if !ok || ev.MayHaveSideEffects(e.Left) {
		return Value{}, false
	}
	leftType := ev.ValueType(e.Left)
	if leftType == js_ast.ValueObject && !hasBuiltInPrototype(e.Left) {
		return Value{}, false
	}

	switch {
	case ev.isGlobal(id.Ref, "Object"):
		if leftType == js_ast.ValueObject {
			return Boolean(true), true
		}
		if leftType.IsPrimitive() {
			return Boolean(false), true
		}

	// Literals are never wrapper objects, and the prototype chain of a literal
	// object never reaches these constructors
	case ev.isGlobal(id.Ref, "Number"), ev.isGlobal(id.Ref, "Boolean"), ev.isGlobal(id.Ref, "String"):
		if leftType != js_ast.ValueUndetermined {
			return Boolean(false), true
		}
	}

	return Value{}, false
}

// Returns true if every object "expr" can produce has the prototype chain its
// syntax implies. "{__proto__: null}" has no prototype, and a constructor can
// return any object.
func hasBuiltInPrototype(expr js_ast.Expr) bool {
	switch e := expr.Data.(type) {
	case *js_ast.EArray, *js_ast.EFunction, *js_ast.EArrow, *js_ast.EClass, *js_ast.ERegExp:
		return true

	case *js_ast.EObject:
		for _, property := range e.Properties {
			if property.Flags.Has(js_ast.PropertyIsComputed) {
				continue
			}
			if key, ok := property.Key.Data.(*js_ast.EString); ok && helpers.UTF16EqualsString(key.Value, "__proto__") {
				return false
			}
		}
		return true

	case *js_ast.EBinary:
		if e.Op == js_ast.BinOpComma {
			return hasBuiltInPrototype(e.Right)
		}
		if e.Op.IsShortCircuit() {
			return hasBuiltInPrototype(e.Left) && hasBuiltInPrototype(e.Right)
		}

	case *js_ast.EIf:
		return hasBuiltInPrototype(e.Yes) && hasBuiltInPrototype(e.No)
	}

	return false
}

// Coerces to a boolean for the purpose of pruning branches. Unlike "EvalExpr"
// this also knows that every object is truthy.
func (ev *Evaluator) EvalBoolean(expr js_ast.Expr) (bool, bool) {
	switch e := expr.Data.(type) {
	case *js_ast.EObject, *js_ast.EArray, *js_ast.EFunction, *js_ast.EArrow, *js_ast.EClass, *js_ast.ERegExp:
		return true, true

	case *js_ast.EUnary:
		switch e.Op {
		case js_ast.UnOpVoid:
			return false, true

		// The result is always a non-empty string
		case js_ast.UnOpTypeof:
			return true, true

		case js_ast.UnOpNot:
			if value, ok := ev.EvalBoolean(e.Value); ok {
				return !value, true
			}
			return false, false
		}

	case *js_ast.EBinary:
		switch e.Op {
		case js_ast.BinOpLogicalAnd:
			left, leftOk := ev.EvalBoolean(e.Left)
			right, rightOk := ev.EvalBoolean(e.Right)
			if (leftOk && !left) || (rightOk && !right) {
				return false, true
			}
			if leftOk && rightOk {
				return true, true
			}
			return false, false

		case js_ast.BinOpLogicalOr:
			left, leftOk := ev.EvalBoolean(e.Left)
			right, rightOk := ev.EvalBoolean(e.Right)
			if (leftOk && left) || (rightOk && right) {
				return true, true
			}
			if leftOk && rightOk {
				return false, true
			}
			return false, false

		case js_ast.BinOpNullishCoalescing:
			return false, false

		case js_ast.BinOpComma:
			return ev.EvalBoolean(e.Right)
		}

	case *js_ast.EIf:
		if test, ok := ev.EvalBoolean(e.Test); ok {
			if test {
				return ev.EvalBoolean(e.Yes)
			}
			return ev.EvalBoolean(e.No)
		}
		yes, yesOk := ev.EvalBoolean(e.Yes)
		no, noOk := ev.EvalBoolean(e.No)
		if yesOk && noOk && yes == no {
			return yes, true
		}
		return false, false
	}

	if value, ok := ev.EvalExpr(expr); ok {
		return ToBoolean(value), true
	}
	return false, false
}
