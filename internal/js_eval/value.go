package js_eval

import (
	"math"
	"math/big"

	"github.com/evanw/jsfold/internal/helpers"
	"github.com/evanw/jsfold/internal/js_ast"
	"github.com/evanw/jsfold/internal/logger"
)

type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindBigInt
)

// A statically known primitive value. Values are passed around by copy. The
// string and bigint payloads may be shared with the tree or with other values,
// so they must never be mutated.
type Value struct {
	String []uint16
	BigInt *big.Int
	Number float64
	Bool   bool
	Kind   Kind
}

func Undefined() Value {
	return Value{Kind: KindUndefined}
}

func Null() Value {
	return Value{Kind: KindNull}
}

func Boolean(value bool) Value {
	return Value{Kind: KindBoolean, Bool: value}
}

func Number(value float64) Value {
	return Value{Kind: KindNumber, Number: value}
}

func String(value []uint16) Value {
	return Value{Kind: KindString, String: value}
}

func BigInt(value *big.Int) Value {
	return Value{Kind: KindBigInt, BigInt: value}
}

func (v Value) Type() js_ast.ValueType {
	switch v.Kind {
	case KindUndefined:
		return js_ast.ValueUndefined
	case KindNull:
		return js_ast.ValueNull
	case KindBoolean:
		return js_ast.ValueBoolean
	case KindNumber:
		return js_ast.ValueNumber
	case KindString:
		return js_ast.ValueString
	case KindBigInt:
		return js_ast.ValueBigInt
	default:
		panic("Internal error")
	}
}

// The result of the "typeof" operator for this value
func (v Value) TypeofName() string {
	switch v.Kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "object"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBigInt:
		return "bigint"
	default:
		panic("Internal error")
	}
}

// Implements "SameValue". This is used by tests and by the driver to avoid
// replacing a literal with an identical literal.
func (v Value) SameValue(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindBoolean:
		return v.Bool == other.Bool
	case KindNumber:
		if math.IsNaN(v.Number) {
			return math.IsNaN(other.Number)
		}
		return v.Number == other.Number && math.Signbit(v.Number) == math.Signbit(other.Number)
	case KindString:
		return helpers.UTF16EqualsUTF16(v.String, other.String)
	case KindBigInt:
		return v.BigInt.Cmp(other.BigInt) == 0
	}
	return true
}

// Converts this value back into a literal node
func (v Value) ToExpr(loc logger.Loc) js_ast.Expr {
	switch v.Kind {
	case KindUndefined:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUndefined{}}
	case KindNull:
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENull{}}
	case KindBoolean:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: v.Bool}}
	case KindNumber:
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: v.Number}}
	case KindString:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: v.String}}
	case KindBigInt:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBigInt{Value: v.BigInt.String()}}
	default:
		panic("Internal error")
	}
}

// Returns the value of a literal node without looking at anything else
func LiteralValue(data js_ast.E) (Value, bool) {
	switch e := data.(type) {
	case *js_ast.EUndefined:
		return Undefined(), true
	case *js_ast.ENull:
		return Null(), true
	case *js_ast.EBoolean:
		return Boolean(e.Value), true
	case *js_ast.ENumber:
		return Number(e.Value), true
	case *js_ast.EString:
		return String(e.Value), true
	case *js_ast.EBigInt:
		if value, ok := ParseBigIntLiteral(e.Value); ok {
			return BigInt(value), true
		}
	}
	return Value{}, false
}

// The tree stores bigint literals as base-10 digits
func ParseBigIntLiteral(text string) (*big.Int, bool) {
	return new(big.Int).SetString(text, 10)
}
