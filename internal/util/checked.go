package util

import (
	"math"

	"golang.org/x/exp/constraints"
)

// MulInt multiplies non-negative a and b and reports false on overflow of int.
func MulInt[T constraints.Integer](a, b T) (int, bool) {
	x, y := int64(a), int64(b)
	if x < 0 || y < 0 {
		return 0, false
	}
	if x == 0 || y == 0 {
		return 0, true
	}
	if x > math.MaxInt/y {
		return 0, false
	}
	return int(x * y), true
}
