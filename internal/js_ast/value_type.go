package js_ast

// This is a coarse classification of what an expression evaluates to, derived
// only from the shape of the tree. It exists to pick which coercion applies
// before anything is evaluated. For example, "+" is string concatenation if
// either side is a string and numeric addition otherwise.
type ValueType uint8

const (
	ValueUndetermined ValueType = iota
	ValueUndefined
	ValueNull
	ValueBoolean
	ValueNumber
	ValueString
	ValueBigInt
	ValueObject
)

func (t ValueType) String() string {
	switch t {
	case ValueUndetermined:
		return "undetermined"
	case ValueUndefined:
		return "undefined"
	case ValueNull:
		return "null"
	case ValueBoolean:
		return "boolean"
	case ValueNumber:
		return "number"
	case ValueString:
		return "string"
	case ValueBigInt:
		return "bigint"
	case ValueObject:
		return "object"
	default:
		panic("Internal error")
	}
}

func (t ValueType) IsPrimitive() bool {
	return t != ValueUndetermined && t != ValueObject
}

// Pass a nil "globals" to skip identifiers entirely
func KnownValueType(expr Expr, globals GlobalChecker) ValueType {
	switch e := expr.Data.(type) {
	case *EUndefined:
		return ValueUndefined

	case *ENull:
		return ValueNull

	case *EBoolean:
		return ValueBoolean

	case *ENumber:
		return ValueNumber

	case *EString:
		return ValueString

	case *EBigInt:
		return ValueBigInt

	case *EArray, *EObject, *EFunction, *EArrow, *EClass, *ERegExp:
		return ValueObject

	case *ETemplate:
		if e.TagOrNil.Data == nil {
			return ValueString
		}

	case *EIdentifier:
		if globals != nil {
			switch {
			case globals.IsGlobalReference(e.Ref, "undefined"):
				return ValueUndefined
			case globals.IsGlobalReference(e.Ref, "NaN"), globals.IsGlobalReference(e.Ref, "Infinity"):
				return ValueNumber
			}
		}

	case *EIf:
		if yes := KnownValueType(e.Yes, globals); yes == KnownValueType(e.No, globals) {
			return yes
		}

	case *EUnary:
		switch e.Op {
		case UnOpVoid:
			return ValueUndefined

		case UnOpTypeof:
			return ValueString

		case UnOpNot, UnOpDelete:
			return ValueBoolean

		case UnOpPos:
			return ValueNumber // Cannot be bigint because that throws an exception

		case UnOpNeg, UnOpCpl:
			value := KnownValueType(e.Value, globals)
			if value == ValueBigInt {
				return ValueBigInt
			}
			if value.IsPrimitive() {
				return ValueNumber
			}
		}

	case *EBinary:
		switch e.Op {
		case BinOpStrictEq, BinOpStrictNe, BinOpLooseEq, BinOpLooseNe,
			BinOpLt, BinOpGt, BinOpLe, BinOpGe,
			BinOpInstanceof, BinOpIn:
			return ValueBoolean

		case BinOpLogicalOr, BinOpLogicalAnd, BinOpNullishCoalescing:
			if left := KnownValueType(e.Left, globals); left == KnownValueType(e.Right, globals) {
				return left
			}

		case BinOpAdd:
			left := KnownValueType(e.Left, globals)
			right := KnownValueType(e.Right, globals)
			if left == ValueString || right == ValueString {
				return ValueString
			}
			if left == ValueBigInt && right == ValueBigInt {
				return ValueBigInt
			}
			if left.IsPrimitive() && left != ValueBigInt && right.IsPrimitive() && right != ValueBigInt {
				return ValueNumber
			}

		case BinOpSub, BinOpMul, BinOpDiv, BinOpRem, BinOpPow,
			BinOpBitwiseAnd, BinOpBitwiseOr, BinOpBitwiseXor,
			BinOpShl, BinOpShr, BinOpUShr:
			left := KnownValueType(e.Left, globals)
			right := KnownValueType(e.Right, globals)
			if left == ValueBigInt && right == ValueBigInt && e.Op != BinOpUShr {
				return ValueBigInt
			}
			if left.IsPrimitive() && left != ValueBigInt && right.IsPrimitive() && right != ValueBigInt {
				return ValueNumber
			}

		case BinOpAssign, BinOpComma:
			return KnownValueType(e.Right, globals)
		}
	}

	return ValueUndetermined
}

// Returns true for literal nodes that evaluate to a primitive without running
// any code
func IsPrimitiveLiteral(data E) bool {
	switch e := data.(type) {
	case *ENull, *EUndefined, *EString, *EBoolean, *ENumber, *EBigInt:
		return true

	case *EUnary:
		// "void 0" and "-1" are how these are usually written
		if e.Op == UnOpVoid || e.Op == UnOpNeg {
			return IsPrimitiveLiteral(e.Value.Data)
		}
	}
	return false
}
