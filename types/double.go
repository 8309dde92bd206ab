package types

import (
	"math"
	"strconv"
)

// String returns the canonical decimal representation. Unlike a MOO
// float, a Scratch number prints bare when it is integral: 3.0 renders
// as "3", not "3.0". NaN and the infinities are represented by
// SpecialValue and never reach here in a well-formed program, but are
// handled defensively in case a DoubleValue escapes construction with
// a non-finite payload.
func (v DoubleValue) String() string {
	if math.IsNaN(v.Val) {
		return NaN.String()
	}
	if math.IsInf(v.Val, 1) {
		return PosInf.String()
	}
	if math.IsInf(v.Val, -1) {
		return NegInf.String()
	}
	return strconv.FormatFloat(v.Val, 'g', -1, 64)
}
