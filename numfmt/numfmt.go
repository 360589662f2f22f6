// Package numfmt formats and parses numbers the way the calculators display them.
//
// Displayed precision is part of the clinical contract: a value shown as
// "14.3" must be "14.3" on every surface. Fixed therefore rounds on the exact
// binary value with ties going away from zero, which is not what strconv does
// (strconv rounds ties to even).
package numfmt

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// exactDigits is enough fractional digits to print any float64 exactly.
const exactDigits = 1100

var leadingNumber = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// Fixed formats x with digits decimals.
func Fixed(x float64, digits int) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	}
	if digits < 0 {
		digits = 0
	}
	if digits > 100 {
		digits = 100
	}

	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}
	if x >= 1e21 {
		return sign + Shortest(x)
	}

	exact := new(big.Float).SetFloat64(x).Text('f', exactDigits)
	dot := strings.IndexByte(exact, '.')
	intPart, frac := exact[:dot], exact[dot+1:]

	kept := []byte(intPart + frac[:digits])
	if frac[digits] >= '5' {
		kept = increment(kept)
	}

	s := string(kept)
	if digits > 0 {
		s = s[:len(s)-digits] + "." + s[len(s)-digits:]
	}
	return sign + s
}

// increment adds one to a string of decimal digits.
func increment(digits []byte) []byte {
	for i := len(digits) - 1; i >= 0; i-- {
		if digits[i] < '9' {
			digits[i]++
			return digits
		}
		digits[i] = '0'
	}
	return append([]byte{'1'}, digits...)
}

// Shortest returns the shortest decimal string that reads back as x.
// Very large and very small magnitudes use exponent notation ("1e+21", "1e-7").
func Shortest(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	case x == 0:
		return "0"
	}

	abs := math.Abs(x)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(x, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		expSign := exp[:1]
		expDigits := strings.TrimLeft(exp[1:], "0")
		return mant + "e" + expSign + expDigits
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// ParseLeading reads the longest numeric prefix of s after leading
// whitespace, so "15 mg" gives 15 and "2.5-5" gives 2.5.
// It reports false when s does not start with a number.
func ParseLeading(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f\u00a0\ufeff")
	m := leadingNumber.FindString(s)
	if m == "" {
		return math.NaN(), false
	}

	switch strings.TrimLeft(m, "+-") {
	case "Infinity":
		if strings.HasPrefix(m, "-") {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// out of range still yields a signed infinity or zero from ParseFloat
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v, true
		}
		return math.NaN(), false
	}
	return v, true
}

// Positive parses s with ParseLeading and reports whether the result is a
// finite number greater than zero.
func Positive(s string) (float64, bool) {
	v, ok := ParseLeading(s)
	if !ok || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// Round rounds half up, so 2.5 gives 3 and -2.5 gives -2.
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}
