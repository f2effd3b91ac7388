package js_eval

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanw/jsfold/internal/config"
	"github.com/evanw/jsfold/internal/helpers"
	"github.com/evanw/jsfold/internal/js_ast"
)

type fixture struct {
	symbols *js_ast.SymbolTable
	oracle  *DefaultOracle
	ev      *Evaluator
}

func newFixture() *fixture {
	symbols := &js_ast.SymbolTable{}
	oracle := NewDefaultOracle(symbols, config.ProcessKnownGlobals(nil))
	return &fixture{
		symbols: symbols,
		oracle:  oracle,
		ev:      NewEvaluator(oracle, symbols),
	}
}

func (f *fixture) global(name string) js_ast.Expr {
	return js_ast.Expr{Data: f.symbols.NewIdentifier(f.symbols.UnboundRef(name), js_ast.ReferenceRead)}
}

func (f *fixture) local(name string) js_ast.Expr {
	ref := f.symbols.NewSymbol(js_ast.SymbolOther, name)
	return js_ast.Expr{Data: f.symbols.NewIdentifier(ref, js_ast.ReferenceRead)}
}

func (f *fixture) call(name string) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.ECall{Target: f.global(name)}}
}

func num(value float64) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.ENumber{Value: value}}
}

func str(value string) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EString{Value: helpers.StringToUTF16(value)}}
}

func bigint(value string) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EBigInt{Value: value}}
}

func null() js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.ENull{}}
}

func emptyObject() js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EObject{}}
}

func bin(op js_ast.OpCode, left js_ast.Expr, right js_ast.Expr) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EBinary{Op: op, Left: left, Right: right}}
}

func un(op js_ast.OpCode, value js_ast.Expr) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EUnary{Op: op, Value: value}}
}

func (f *fixture) evalNumber(t *testing.T, expr js_ast.Expr) float64 {
	t.Helper()
	value, ok := f.ev.EvalExpr(expr)
	require.True(t, ok)
	require.Equal(t, KindNumber, value.Kind)
	return value.Number
}

func (f *fixture) evalString(t *testing.T, expr js_ast.Expr) string {
	t.Helper()
	value, ok := f.ev.EvalExpr(expr)
	require.True(t, ok)
	require.Equal(t, KindString, value.Kind)
	return helpers.UTF16ToString(value.String)
}

func (f *fixture) evalBool(t *testing.T, expr js_ast.Expr) bool {
	t.Helper()
	value, ok := f.ev.EvalExpr(expr)
	require.True(t, ok)
	require.Equal(t, KindBoolean, value.Kind)
	return value.Bool
}

func (f *fixture) declines(t *testing.T, expr js_ast.Expr) {
	t.Helper()
	_, ok := f.ev.EvalExpr(expr)
	assert.False(t, ok)
}

type alwaysEffects struct{}

func (alwaysEffects) MayHaveSideEffects(js_ast.Expr) bool { return true }

func TestSideFreeValuesRespectOracle(t *testing.T) {
	f := newFixture()
	ev := NewEvaluator(alwaysEffects{}, f.symbols)

	for _, expr := range []js_ast.Expr{num(1), str("a"), bigint("1"), null(), emptyObject(), bin(js_ast.BinOpAdd, num(1), num(2))} {
		_, ok := ev.GetSideFreeNumberValue(expr)
		assert.False(t, ok)
		_, ok = ev.GetSideFreeStringValue(expr)
		assert.False(t, ok)
		_, ok = ev.GetSideFreeBooleanValue(expr)
		assert.False(t, ok)
		_, ok = ev.GetSideFreeBigIntValue(expr)
		assert.False(t, ok)
	}

	// The real oracle reports a call as effectful
	call := f.call("foo")
	_, ok := f.ev.GetSideFreeBooleanValue(bin(js_ast.BinOpComma, call, num(1)))
	assert.False(t, ok)
	_, ok = f.ev.GetSideFreeNumberValue(bin(js_ast.BinOpComma, call, num(1)))
	assert.False(t, ok)
}

func TestAdd(t *testing.T) {
	f := newFixture()
	assert.Equal(t, "a1", f.evalString(t, bin(js_ast.BinOpAdd, str("a"), num(1))))
	assert.Equal(t, 2.0, f.evalNumber(t, bin(js_ast.BinOpAdd, num(1), num(1))))
	assert.True(t, math.IsNaN(f.evalNumber(t, bin(js_ast.BinOpAdd, emptyObject(), num(1)))))
	assert.Equal(t, "nulltrue", f.evalString(t, bin(js_ast.BinOpAdd, null(), str("true"))))
	assert.Equal(t, "a1e+21", f.evalString(t, bin(js_ast.BinOpAdd, str("a"), num(1e21))))
	assert.True(t, math.IsNaN(f.evalNumber(t, bin(js_ast.BinOpAdd, f.global("undefined"), num(1)))))

	// Never fold across an undetermined operand
	f.declines(t, bin(js_ast.BinOpAdd, f.local("x"), num(1)))
	f.declines(t, bin(js_ast.BinOpAdd, str("a"), f.call("foo")))

	// Mixing bigint and number throws at run time
	f.declines(t, bin(js_ast.BinOpAdd, bigint("1"), num(1)))
}

func TestArithmetic(t *testing.T) {
	f := newFixture()
	assert.Equal(t, 1.0, f.evalNumber(t, bin(js_ast.BinOpSub, str("3"), num(2))))
	assert.Equal(t, 6.0, f.evalNumber(t, bin(js_ast.BinOpMul, num(2), num(3))))
	assert.Equal(t, math.Inf(1), f.evalNumber(t, bin(js_ast.BinOpDiv, num(1), num(0))))
	assert.True(t, math.IsNaN(f.evalNumber(t, bin(js_ast.BinOpRem, num(5), num(0)))))
	assert.Equal(t, -1.0, f.evalNumber(t, bin(js_ast.BinOpRem, num(-7), num(2))))
	assert.Equal(t, 1024.0, f.evalNumber(t, bin(js_ast.BinOpPow, num(2), num(10))))
	assert.True(t, math.IsNaN(f.evalNumber(t, bin(js_ast.BinOpPow, num(1), f.global("Infinity")))))
	f.declines(t, bin(js_ast.BinOpSub, bigint("3"), bigint("2")))
}

func TestShifts(t *testing.T) {
	f := newFixture()
	assert.Equal(t, 2.0, f.evalNumber(t, bin(js_ast.BinOpShl, num(1), num(33))))
	assert.Equal(t, -2147483648.0, f.evalNumber(t, bin(js_ast.BinOpShl, num(1), num(31))))
	assert.Equal(t, -1.0, f.evalNumber(t, bin(js_ast.BinOpShr, num(-1), num(4))))
	assert.Equal(t, 4294967295.0, f.evalNumber(t, bin(js_ast.BinOpUShr, num(-1), num(0))))
	assert.Equal(t, 268435455.0, f.evalNumber(t, bin(js_ast.BinOpUShr, num(-1), num(4))))
}

func TestBitwise(t *testing.T) {
	f := newFixture()
	assert.Equal(t, 1.0, f.evalNumber(t, bin(js_ast.BinOpBitwiseAnd, num(5), num(3))))
	assert.Equal(t, 7.0, f.evalNumber(t, bin(js_ast.BinOpBitwiseOr, num(5), num(3))))
	assert.Equal(t, 6.0, f.evalNumber(t, bin(js_ast.BinOpBitwiseXor, num(5), num(3))))
	assert.Equal(t, 0.0, f.evalNumber(t, bin(js_ast.BinOpBitwiseOr, num(4294967296), num(0))))

	value, ok := f.ev.EvalExpr(bin(js_ast.BinOpBitwiseAnd, bigint("340282366920938463463374607431768211455"), bigint("255")))
	require.True(t, ok)
	require.Equal(t, KindBigInt, value.Kind)
	assert.Equal(t, "255", value.BigInt.String())

	f.declines(t, bin(js_ast.BinOpBitwiseAnd, bigint("1"), num(1)))
	f.declines(t, bin(js_ast.BinOpBitwiseAnd, num(1), bigint("1")))
}

func TestDoubleComplementIsIdentity(t *testing.T) {
	f := newFixture()
	for _, n := range []float64{0, 1, -1, 42, math.MaxInt32, math.MinInt32, -123456789} {
		assert.Equal(t, n, f.evalNumber(t, un(js_ast.UnOpCpl, un(js_ast.UnOpCpl, num(n)))))
	}

	value, ok := f.ev.EvalExpr(un(js_ast.UnOpCpl, bigint("5")))
	require.True(t, ok)
	assert.Equal(t, 0, value.BigInt.Cmp(big.NewInt(-6)))
}

func TestRelationalWithNaN(t *testing.T) {
	f := newFixture()
	ops := []js_ast.OpCode{js_ast.BinOpLt, js_ast.BinOpGt, js_ast.BinOpLe, js_ast.BinOpGe}
	operands := []js_ast.Expr{f.global("NaN"), f.global("undefined"), str("abc"), num(math.NaN())}
	for _, op := range ops {
		for _, nan := range operands {
			assert.False(t, f.evalBool(t, bin(op, nan, num(1))))
			assert.False(t, f.evalBool(t, bin(op, num(1), nan)))
		}
	}
}

func TestRelational(t *testing.T) {
	f := newFixture()
	assert.True(t, f.evalBool(t, bin(js_ast.BinOpLt, num(1), num(2))))
	assert.False(t, f.evalBool(t, bin(js_ast.BinOpGt, num(1), num(2))))
	assert.True(t, f.evalBool(t, bin(js_ast.BinOpLe, num(2), num(2))))
	assert.True(t, f.evalBool(t, bin(js_ast.BinOpGe, num(2), num(2))))
	assert.True(t, f.evalBool(t, bin(js_ast.BinOpLt, null(), num(1))))

	// Strings compare by code unit, not numerically
	assert.True(t, f.evalBool(t, bin(js_ast.BinOpLt, str("10"), str("9"))))
	assert.False(t, f.evalBool(t, bin(js_ast.BinOpLt, str("10"), num(9))))

	f.declines(t, bin(js_ast.BinOpLt, emptyObject(), num(1)))
	f.declines(t, bin(js_ast.BinOpLt, bigint("1"), num(2)))
	f.declines(t, bin(js_ast.BinOpLt, f.local("x"), num(2)))
}

func TestEquality(t *testing.T) {
	f := newFixture()
	assert.True(t, f.evalBool(t, bin(js_ast.BinOpStrictEq, num(1), num(1))))
	assert.False(t, f.evalBool(t, bin(js_ast.BinOpStrictEq, num(1), str("1"))))
	assert.True(t, f.evalBool(t, bin(js_ast.BinOpLooseEq, num(1), str("1"))))
	assert.True(t, f.evalBool(t, bin(js_ast.BinOpLooseEq, null(), f.global("undefined"))))
	assert.False(t, f.evalBool(t, bin(js_ast.BinOpLooseEq, null(), num(0))))
	assert.True(t, f.evalBool(t, bin(js_ast.BinOpStrictNe, f.global("NaN"), f.global("NaN"))))
	assert.True(t, f.evalBool(t, bin(js_ast.BinOpLooseEq, bigint("1"), num(1))))
	assert.True(t, f.evalBool(t, bin(js_ast.BinOpLooseEq, bigint("16"), str("0x10"))))
	assert.True(t, f.evalBool(t, bin(js_ast.BinOpLooseEq, js_ast.Expr{Data: &js_ast.EBoolean{Value: true}}, str("1"))))
	f.declines(t, bin(js_ast.BinOpStrictEq, emptyObject(), emptyObject()))
}

func TestUnary(t *testing.T) {
	f := newFixture()

	negZero := f.evalNumber(t, un(js_ast.UnOpNeg, null()))
	assert.Equal(t, 0.0, negZero)
	assert.True(t, math.Signbit(negZero))

	assert.True(t, math.IsNaN(f.evalNumber(t, un(js_ast.UnOpNeg, f.global("undefined")))))
	assert.True(t, math.IsNaN(f.evalNumber(t, un(js_ast.UnOpNeg, f.global("NaN")))))
	assert.Equal(t, -3.0, f.evalNumber(t, un(js_ast.UnOpNeg, str("3"))))
	assert.Equal(t, 3.0, f.evalNumber(t, un(js_ast.UnOpPos, str(" 3 "))))
	assert.False(t, f.evalBool(t, un(js_ast.UnOpNot, str("x"))))
	assert.True(t, f.evalBool(t, un(js_ast.UnOpNot, num(math.Copysign(0, -1)))))

	value, ok := f.ev.EvalExpr(un(js_ast.UnOpNeg, bigint("12345678901234567890")))
	require.True(t, ok)
	assert.Equal(t, "-12345678901234567890", value.BigInt.String())

	f.declines(t, un(js_ast.UnOpPos, bigint("1")))
	f.declines(t, un(js_ast.UnOpDelete, f.local("x")))
}

func TestVoidKeepsSideEffects(t *testing.T) {
	f := newFixture()
	value, ok := f.ev.EvalExpr(un(js_ast.UnOpVoid, num(0)))
	require.True(t, ok)
	assert.Equal(t, KindUndefined, value.Kind)

	f.declines(t, un(js_ast.UnOpVoid, f.call("doSomething")))
}

func TestTypeof(t *testing.T) {
	f := newFixture()
	assert.Equal(t, "undefined", f.evalString(t, un(js_ast.UnOpTypeof, f.global("undefined"))))
	assert.Equal(t, "number", f.evalString(t, un(js_ast.UnOpTypeof, f.global("Infinity"))))
	assert.Equal(t, "object", f.evalString(t, un(js_ast.UnOpTypeof, null())))
	assert.Equal(t, "object", f.evalString(t, un(js_ast.UnOpTypeof, emptyObject())))
	assert.Equal(t, "bigint", f.evalString(t, un(js_ast.UnOpTypeof, bigint("1"))))
	assert.Equal(t, "string", f.evalString(t, un(js_ast.UnOpTypeof, str(""))))
	assert.Equal(t, "undefined", f.evalString(t, un(js_ast.UnOpTypeof, un(js_ast.UnOpVoid, num(0)))))
	assert.Equal(t, "function", f.evalString(t, un(js_ast.UnOpTypeof, js_ast.Expr{Data: &js_ast.EArrow{}})))

	// A local named "undefined" shadows the global
	f.declines(t, un(js_ast.UnOpTypeof, f.local("undefined")))
	f.declines(t, un(js_ast.UnOpTypeof, f.global("window")))
}

func TestLength(t *testing.T) {
	f := newFixture()

	// U+1F600 is two UTF-16 code units
	assert.Equal(t, 3.0, f.evalNumber(t, js_ast.Expr{Data: &js_ast.EDot{Target: str("a\U0001F600"), Name: "length"}}))
	assert.Equal(t, 2.0, f.evalNumber(t, js_ast.Expr{Data: &js_ast.EIndex{
		Target: js_ast.Expr{Data: &js_ast.EArray{Items: []js_ast.Expr{num(1), {Data: &js_ast.EMissing{}}}}},
		Index:  str("length"),
	}}))

	f.declines(t, js_ast.Expr{Data: &js_ast.EDot{
		Target: js_ast.Expr{Data: &js_ast.EArray{Items: []js_ast.Expr{f.call("foo")}}},
		Name:   "length",
	}})
}

func TestInstanceof(t *testing.T) {
	f := newFixture()
	assert.True(t, f.evalBool(t, bin(js_ast.BinOpInstanceof, emptyObject(), f.global("Object"))))
	assert.False(t, f.evalBool(t, bin(js_ast.BinOpInstanceof, num(1), f.global("Number"))))
	assert.False(t, f.evalBool(t, bin(js_ast.BinOpInstanceof, str("s"), f.global("String"))))
	f.declines(t, bin(js_ast.BinOpInstanceof, f.local("x"), f.global("Object")))
	f.declines(t, bin(js_ast.BinOpInstanceof, emptyObject(), f.local("Object")))

	// "{__proto__: null}" doesn't inherit from anything, and "{__proto__: X}"
	// can inherit from "Number.prototype"
	protoNull := js_ast.Expr{Data: &js_ast.EObject{Properties: []js_ast.Property{{Key: str("__proto__"), ValueOrNil: null()}}}}
	f.declines(t, bin(js_ast.BinOpInstanceof, protoNull, f.global("Object")))
	f.declines(t, bin(js_ast.BinOpInstanceof, protoNull, f.global("Number")))
	f.declines(t, bin(js_ast.BinOpInstanceof, bin(js_ast.BinOpComma, num(0), protoNull), f.global("Object")))

	withKey := js_ast.Expr{Data: &js_ast.EObject{Properties: []js_ast.Property{{Key: str("proto"), ValueOrNil: null()}}}}
	assert.True(t, f.evalBool(t, bin(js_ast.BinOpInstanceof, withKey, f.global("Object"))))
	assert.True(t, f.evalBool(t, bin(js_ast.BinOpInstanceof, js_ast.Expr{Data: &js_ast.EArray{}}, f.global("Object"))))
}

func TestEvalBoolean(t *testing.T) {
	f := newFixture()
	unknown := f.call("foo")

	check := func(expr js_ast.Expr, expected bool) {
		t.Helper()
		value, ok := f.ev.EvalBoolean(expr)
		require.True(t, ok)
		assert.Equal(t, expected, value)
	}

	check(f.global("undefined"), false)
	check(f.global("NaN"), false)
	check(f.global("Infinity"), true)
	check(num(math.Copysign(0, -1)), false)
	check(emptyObject(), true)
	check(bin(js_ast.BinOpLogicalAnd, unknown, num(0)), false)
	check(bin(js_ast.BinOpLogicalOr, unknown, num(1)), true)
	check(bin(js_ast.BinOpComma, unknown, str("")), false)

	_, ok := f.ev.EvalBoolean(bin(js_ast.BinOpLogicalAnd, unknown, num(1)))
	assert.False(t, ok)
	_, ok = f.ev.EvalBoolean(bin(js_ast.BinOpNullishCoalescing, null(), num(1)))
	assert.False(t, ok)
}

func TestKnownConstant(t *testing.T) {
	f := newFixture()
	x := f.local("x")
	ref := x.Data.(*js_ast.EIdentifier).Ref
	f.ev.KnownConstant = func(r js_ast.Ref) (Value, bool) {
		if r == ref {
			return Number(2), true
		}
		return Value{}, false
	}
	assert.Equal(t, 3.0, f.evalNumber(t, bin(js_ast.BinOpAdd, x, num(1))))
	assert.Equal(t, "number", f.evalString(t, un(js_ast.UnOpTypeof, x)))
}

func TestTemplate(t *testing.T) {
	f := newFixture()
	template := js_ast.Expr{Data: &js_ast.ETemplate{
		HeadCooked: helpers.StringToUTF16("a"),
		Parts: []js_ast.TemplatePart{
			{Value: num(1), TailCooked: helpers.StringToUTF16("b")},
			{Value: null(), TailCooked: nil},
		},
	}}
	assert.Equal(t, "a1bnull", f.evalString(t, template))
}
