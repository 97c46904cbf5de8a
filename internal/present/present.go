// Package present renders evaluation results for people. Whole numbers are
// shown without a fractional part.
package present

import (
	"math"
	"strconv"
)

// Number returns v as an int64 when it is a whole number that fits in one,
// otherwise v itself. The result is suitable for encoding as a JSON number.
func Number(v float64) any {
	if i, ok := whole(v); ok {
		return i
	}
	return v
}

// String formats v as Number would present it. Finite results never use
// exponent notation, so the text of a result is itself a valid expression.
func String(v float64) string {
	if i, ok := whole(v); ok {
		return strconv.FormatInt(i, 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// whole converts v to an int64 if that loses nothing. Negative zero becomes 0.
func whole(v float64) (int64, bool) {
	// 2^63 is exactly representable, and it's the first value out of range.
	if math.IsInf(v, 0) || math.IsNaN(v) || v != math.Trunc(v) || v >= 1<<63 || v < -(1<<63) {
		return 0, false
	}
	return int64(v), true
}
