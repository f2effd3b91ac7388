package helpers

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// This implements "Number::toString" with a radix of 10. Go's shortest
// round-trip formatting produces the same digits JavaScript does, so only the
// placement of the decimal point and the exponent needs to be adjusted.
func NumberToString(value float64) string {
	switch {
	case math.IsNaN(value):
		return "NaN"
	case value == 0:
		// Both positive and negative zero print as "0"
		return "0"
	case math.IsInf(value, 1):
		return "Infinity"
	case math.IsInf(value, -1):
		return "-Infinity"
	case value < 0:
		return "-" + NumberToString(-value)
	}

	// This is always of the form "d.ddde±x" or "de±x"
	text := strconv.FormatFloat(value, 'e', -1, 64)
	e := strings.IndexByte(text, 'e')
	digits := strings.Replace(text[:e], ".", "", 1)
	exponent, _ := strconv.Atoi(text[e+1:])

	k := len(digits)
	n := exponent + 1

	switch {
	case k <= n && n <= 21:
		return digits + strings.Repeat("0", n-k)

	case 0 < n && n <= 21:
		return digits[:n] + "." + digits[n:]

	case -6 < n && n <= 0:
		return "0." + strings.Repeat("0", -n) + digits
	}

	sign := "+"
	if n-1 < 0 {
		sign = "-"
	}
	suffix := "e" + sign + strconv.Itoa(abs(n-1))
	if k == 1 {
		return digits + suffix
	}
	return digits[:1] + "." + digits[1:] + suffix
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// "StrWhiteSpaceChar" is the union of "WhiteSpace" and "LineTerminator"
func IsStrWhiteSpace(c uint16) bool {
	switch c {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		0x00A0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return c >= 0x2000 && c <= 0x200A
}

func TrimStrWhiteSpace(text []uint16) []uint16 {
	for len(text) > 0 && IsStrWhiteSpace(text[0]) {
		text = text[1:]
	}
	for len(text) > 0 && IsStrWhiteSpace(text[len(text)-1]) {
		text = text[:len(text)-1]
	}
	return text
}

// This implements "StringToNumber". Anything that isn't a valid
// "StringNumericLiteral" is NaN, and an empty or all-whitespace string is 0.
func StringToNumber(text []uint16) float64 {
	text = TrimStrWhiteSpace(text)
	if len(text) == 0 {
		return 0
	}

	// Everything valid from here on is ASCII
	bytes := make([]byte, len(text))
	for i, c := range text {
		if c > 0x7F {
			return math.NaN()
		}
		bytes[i] = byte(c)
	}
	str := string(bytes)

	// Non-decimal integers can't have a sign
	if len(str) > 2 && str[0] == '0' {
		base := 0
		switch str[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			return parseNonDecimalInteger(str[2:], base)
		}
	}

	switch str {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if !isStrDecimalLiteral(str) {
		return math.NaN()
	}

	// Values that are too large become infinity, which is what we want. The
	// error is "ErrRange" in that case so it can be ignored.
	value, _ := strconv.ParseFloat(str, 64)
	return value
}

func parseNonDecimalInteger(digits string, base int) float64 {
	for _, c := range digits {
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c >= 'a' && c <= 'f':
			d = int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = int(c-'A') + 10
		default:
			return math.NaN()
		}
		if d >= base {
			return math.NaN()
		}
	}

	// Integers above 2^53 must round the same way JavaScript does
	i, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return math.NaN()
	}
	value, _ := new(big.Float).SetInt(i).Float64()
	return value
}

// Matches "[+-]? (digits ('.' digits?)? | '.' digits) ([eE] [+-]? digits)?"
func isStrDecimalLiteral(str string) bool {
	i := 0
	n := len(str)

	if i < n && (str[i] == '+' || str[i] == '-') {
		i++
	}

	intDigits := 0
	for i < n && str[i] >= '0' && str[i] <= '9' {
		i++
		intDigits++
	}

	fracDigits := 0
	if i < n && str[i] == '.' {
		i++
		for i < n && str[i] >= '0' && str[i] <= '9' {
			i++
			fracDigits++
		}
	}

	if intDigits == 0 && fracDigits == 0 {
		return false
	}

	if i < n && (str[i] == 'e' || str[i] == 'E') {
		i++
		if i < n && (str[i] == '+' || str[i] == '-') {
			i++
		}
		expDigits := 0
		for i < n && str[i] >= '0' && str[i] <= '9' {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return false
		}
	}

	return i == n
}
