package js_eval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanw/jsfold/internal/helpers"
	"github.com/evanw/jsfold/internal/js_ast"
)

func TestToNumber(t *testing.T) {
	n, ok := ToNumber(Undefined())
	require.True(t, ok)
	assert.True(t, math.IsNaN(n))

	n, _ = ToNumber(Null())
	assert.Equal(t, 0.0, n)

	n, _ = ToNumber(String(helpers.StringToUTF16("  0x1F ")))
	assert.Equal(t, 31.0, n)

	_, ok = ToNumber(BigInt(nil))
	assert.False(t, ok)
}

func TestToString(t *testing.T) {
	assert.Equal(t, "undefined", helpers.UTF16ToString(ToString(Undefined())))
	assert.Equal(t, "-0", helpers.UTF16ToString(ToString(String(helpers.StringToUTF16("-0")))))
	assert.Equal(t, "0", helpers.UTF16ToString(ToString(Number(math.Copysign(0, -1)))))
	assert.Equal(t, "NaN", helpers.UTF16ToString(ToString(Number(math.NaN()))))
	assert.Equal(t, "1e-7", helpers.UTF16ToString(ToString(Number(1e-7))))
}

func TestToBoolean(t *testing.T) {
	assert.False(t, ToBoolean(Number(math.NaN())))
	assert.False(t, ToBoolean(String(nil)))
	assert.True(t, ToBoolean(String(helpers.StringToUTF16("0"))))
	big, _ := ParseBigIntLiteral("0")
	assert.False(t, ToBoolean(BigInt(big)))
}

func TestToInt32(t *testing.T) {
	n, ok := ToInt32(Number(4294967297))
	require.True(t, ok)
	assert.Equal(t, int32(1), n)

	n, _ = ToInt32(Number(2147483648))
	assert.Equal(t, int32(math.MinInt32), n)

	n, _ = ToInt32(Number(math.Inf(-1)))
	assert.Equal(t, int32(0), n)

	u, _ := ToUint32(Number(-1))
	assert.Equal(t, uint32(math.MaxUint32), u)
}

func TestStringToBigInt(t *testing.T) {
	expect := func(text string, expected string) {
		t.Helper()
		n, ok := StringToBigInt(helpers.StringToUTF16(text))
		require.True(t, ok, text)
		assert.Equal(t, expected, n.String())
	}
	reject := func(text string) {
		t.Helper()
		_, ok := StringToBigInt(helpers.StringToUTF16(text))
		assert.False(t, ok, text)
	}

	expect("", "0")
	expect("  ", "0")
	expect("123", "123")
	expect("-123", "-123")
	expect("0x10", "16")
	expect("0b101", "5")
	expect("0o17", "15")
	expect(" 99999999999999999999 ", "99999999999999999999")

	reject("1.5")
	reject("1e3")
	reject("0x")
	reject("-0x10")
	reject("0x-1")
	reject("Infinity")
	reject("1_000")
}

func TestValueToExpr(t *testing.T) {
	expr := Number(math.NaN()).ToExpr(js_ast.Expr{}.Loc)
	number, ok := expr.Data.(*js_ast.ENumber)
	require.True(t, ok)
	assert.True(t, math.IsNaN(number.Value))

	n, _ := ParseBigIntLiteral("-42")
	expr = BigInt(n).ToExpr(expr.Loc)
	assert.Equal(t, "-42", expr.Data.(*js_ast.EBigInt).Value)

	assert.True(t, Number(math.NaN()).SameValue(Number(math.NaN())))
	assert.False(t, Number(0).SameValue(Number(math.Copysign(0, -1))))
}
