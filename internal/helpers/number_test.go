package helpers_test

import (
	"math"
	"testing"

	"github.com/evanw/jsfold/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func TestNumberToString(t *testing.T) {
	expect := func(value float64, expected string) {
		t.Helper()
		assert.Equal(t, expected, helpers.NumberToString(value))
	}

	expect(0, "0")
	expect(math.Copysign(0, -1), "0")
	expect(math.NaN(), "NaN")
	expect(math.Inf(1), "Infinity")
	expect(math.Inf(-1), "-Infinity")
	expect(1, "1")
	expect(-1.5, "-1.5")
	expect(123.456, "123.456")
	expect(0.1, "0.1")
	expect(0.1+0.2, "0.30000000000000004")
	expect(1e20, "100000000000000000000")
	expect(1e21, "1e+21")
	expect(1.5e21, "1.5e+21")
	expect(1e-6, "0.000001")
	expect(1e-7, "1e-7")
	expect(1.25e-7, "1.25e-7")
	expect(4294967295, "4294967295")
	expect(math.MaxFloat64, "1.7976931348623157e+308")
	expect(5e-324, "5e-324")
}

func TestStringToNumber(t *testing.T) {
	expect := func(text string, expected float64) {
		t.Helper()
		actual := helpers.StringToNumber(helpers.StringToUTF16(text))
		if math.IsNaN(expected) {
			assert.True(t, math.IsNaN(actual), "%q should be NaN, got %v", text, actual)
			return
		}
		assert.Equal(t, expected, actual, "%q", text)
	}

	expect("", 0)
	expect("   ", 0)
	expect(" \n\t ", 0)
	expect("1", 1)
	expect("  12  ", 12)
	expect("\uFEFF3\u3000", 3)
	expect("-1.5", -1.5)
	expect("+.5", 0.5)
	expect("5.", 5)
	expect("1e3", 1000)
	expect("1E-2", 0.01)
	expect("1e1000", math.Inf(1))
	expect("0x10", 16)
	expect("0XfF", 255)
	expect("0o17", 15)
	expect("0b101", 5)
	expect("0x", math.NaN())
	expect("-0x10", math.NaN())
	expect("0b2", math.NaN())
	expect("Infinity", math.Inf(1))
	expect("-Infinity", math.Inf(-1))
	expect("infinity", math.NaN())
	expect("inf", math.NaN())
	expect("NaN", math.NaN())
	expect(".", math.NaN())
	expect("1e", math.NaN())
	expect("1_000", math.NaN())
	expect("12px", math.NaN())
	expect("\u0661", math.NaN())
	expect("0x20000000000001", 9007199254740992)
}

func TestF64Pow(t *testing.T) {
	pow := func(a float64, b float64) float64 {
		return helpers.NewF64(a).Pow(helpers.NewF64(b)).Value()
	}

	assert.Equal(t, 8.0, pow(2, 3))
	assert.Equal(t, 1.0, pow(math.NaN(), 0))
	assert.True(t, math.IsNaN(pow(1, math.NaN())))
	assert.True(t, math.IsNaN(pow(1, math.Inf(1))))
	assert.True(t, math.IsNaN(pow(-1, math.Inf(-1))))
	assert.Equal(t, math.Inf(1), pow(2, math.Inf(1)))
}

func TestF64Mod(t *testing.T) {
	mod := func(a float64, b float64) float64 {
		return helpers.NewF64(a).Mod(helpers.NewF64(b)).Value()
	}

	assert.Equal(t, 1.0, mod(7, 3))
	assert.Equal(t, -1.0, mod(-7, 3))
	assert.True(t, math.IsNaN(mod(1, 0)))
	assert.True(t, math.Signbit(mod(-4, 2)))
}

func TestUTF16Compare(t *testing.T) {
	u := helpers.StringToUTF16
	assert.Equal(t, -1, helpers.UTF16Compare(u("a"), u("b")))
	assert.Equal(t, 1, helpers.UTF16Compare(u("b"), u("a")))
	assert.Equal(t, -1, helpers.UTF16Compare(u("a"), u("ab")))
	assert.Equal(t, 0, helpers.UTF16Compare(u("abc"), u("abc")))

	// Code unit order puts surrogates before U+FFFF
	assert.Equal(t, -1, helpers.UTF16Compare(u("\U0001F600"), u("\uFFFF")))
}
