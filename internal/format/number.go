// Package format holds the leaf-level text rendering rules shared by the
// TOON encoder and decoder: number canonicalization, string quoting and
// escaping, and the low-level Writer used to assemble output lines.
package format

import (
	"math"
	"strconv"
	"strings"
)

// CanonicalizeFloat renders f as canonical TOON decimal text: no exponent,
// no trailing fractional zeros, "-0"/"-0.0" collapsed to "0". The second
// return value is false when f is NaN or ±Inf, in which case the value must
// be encoded as the null literal instead (Section 4.2 of the spec).
func CanonicalizeFloat(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	if f == 0 {
		return "0", true
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

// CanonicalizeInt renders an exact signed integer as canonical decimal text.
func CanonicalizeInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// CanonicalizeUint renders an exact unsigned integer as canonical decimal text.
func CanonicalizeUint(u uint64) string {
	return strconv.FormatUint(u, 10)
}

// CanonicalizeNumberText converts a raw numeric token (already known to
// match the number grammar of Section 4.3, optionally carrying an exponent)
// into canonical decimal text without going through a floating-point
// intermediate, so that precision is not lost for large integers and
// high-precision decimals. It performs plain digit-shifting: an exponent
// moves the decimal point, never introducing scientific notation on output.
func CanonicalizeNumberText(raw string) string {
	neg := false
	s := raw
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	mantissa := s
	exp := 0
	if idx := strings.IndexAny(s, "eE"); idx != -1 {
		mantissa = s[:idx]
		expPart := s[idx+1:]
		e, err := strconv.Atoi(expPart)
		if err == nil {
			exp = e
		}
	}

	intPart := mantissa
	fracPart := ""
	if idx := strings.IndexByte(mantissa, '.'); idx != -1 {
		intPart = mantissa[:idx]
		fracPart = mantissa[idx+1:]
	}

	digits := intPart + fracPart
	point := len(intPart) + exp // position of the decimal point within digits, counted from the left

	var intDigits, fracDigits string
	switch {
	case point <= 0:
		intDigits = "0"
		fracDigits = strings.Repeat("0", -point) + digits
	case point >= len(digits):
		intDigits = digits + strings.Repeat("0", point-len(digits))
		fracDigits = ""
	default:
		intDigits = digits[:point]
		fracDigits = digits[point:]
	}

	intDigits = strings.TrimLeft(intDigits, "0")
	if intDigits == "" {
		intDigits = "0"
	}
	fracDigits = strings.TrimRight(fracDigits, "0")

	out := intDigits
	if fracDigits != "" {
		out += "." + fracDigits
	}
	if out == "0" {
		return "0"
	}
	if neg {
		return "-" + out
	}
	return out
}
