package js_eval

import (
	"math"
	"math/big"

	"github.com/evanw/jsfold/internal/helpers"
	"github.com/evanw/jsfold/internal/js_ast"
)

// Implements "ToNumber". This returns false for bigints because converting one
// to a number with "+" throws a TypeError.
func ToNumber(v Value) (float64, bool) {
	switch v.Kind {
	case KindUndefined:
		return math.NaN(), true
	case KindNull:
		return 0, true
	case KindBoolean:
		if v.Bool {
			return 1, true
		}
		return 0, true
	case KindNumber:
		return v.Number, true
	case KindString:
		return helpers.StringToNumber(v.String), true
	}
	return 0, false
}

// Implements "ToBoolean"
func ToBoolean(v Value) bool {
	switch v.Kind {
	case KindBoolean:
		return v.Bool
	case KindNumber:
		return v.Number != 0 && !math.IsNaN(v.Number)
	case KindString:
		return len(v.String) > 0
	case KindBigInt:
		return v.BigInt.Sign() != 0
	}
	return false
}

// Implements "ToString". Every primitive has a string form, so this always
// succeeds.
func ToString(v Value) []uint16 {
	switch v.Kind {
	case KindUndefined:
		return helpers.StringToUTF16("undefined")
	case KindNull:
		return helpers.StringToUTF16("null")
	case KindBoolean:
		if v.Bool {
			return helpers.StringToUTF16("true")
		}
		return helpers.StringToUTF16("false")
	case KindNumber:
		return helpers.StringToUTF16(helpers.NumberToString(v.Number))
	case KindString:
		return v.String
	case KindBigInt:
		return helpers.StringToUTF16(v.BigInt.String())
	default:
		panic("Internal error")
	}
}

func ToInt32(v Value) (int32, bool) {
	n, ok := ToNumber(v)
	if !ok {
		return 0, false
	}
	return js_ast.ToInt32(n), true
}

func ToUint32(v Value) (uint32, bool) {
	n, ok := ToNumber(v)
	if !ok {
		return 0, false
	}
	return js_ast.ToUint32(n), true
}

// Implements "ToBigInt". Numbers, undefined, and null all throw a TypeError
// here so they return false.
func ToBigInt(v Value) (*big.Int, bool) {
	switch v.Kind {
	case KindBoolean:
		if v.Bool {
			return big.NewInt(1), true
		}
		return new(big.Int), true
	case KindBigInt:
		return v.BigInt, true
	case KindString:
		return StringToBigInt(v.String)
	}
	return nil, false
}

// Implements "StringToBigInt". Unlike "StringToNumber" there is no fraction,
// no exponent, and no "Infinity". A sign is only allowed on decimal integers.
func StringToBigInt(text []uint16) (*big.Int, bool) {
	text = helpers.TrimStrWhiteSpace(text)
	if len(text) == 0 {
		return new(big.Int), true
	}

	bytes := make([]byte, len(text))
	for i, c := range text {
		if c >= 0x80 {
			return nil, false
		}
		bytes[i] = byte(c)
	}
	str := string(bytes)

	base := 10
	if len(str) > 2 && str[0] == '0' {
		switch str[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
	}

	digits := str
	if base != 10 {
		digits = str[2:]
	} else if str[0] == '+' || str[0] == '-' {
		digits = str[1:]
	}
	if len(digits) == 0 {
		return nil, false
	}
	for _, c := range digits {
		if !isDigitInBase(c, base) {
			return nil, false
		}
	}

	if base != 10 {
		str = digits
	}
	return new(big.Int).SetString(str, base)
}

func isDigitInBase(c rune, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return int(c-'0') < base
	case c >= 'a' && c <= 'f':
		return base == 16
	case c >= 'A' && c <= 'F':
		return base == 16
	}
	return false
}
