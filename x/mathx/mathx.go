// Package mathx holds the small integer helpers used by sensor conversions.
package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. Swapped bounds are put in order first.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	return min(max(v, lo), hi)
}

// RoundDiv returns a/b rounded half up. b == 0 yields 0.
func RoundDiv[T constraints.Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}

// ScaleRound returns v*num/den rounded half up, with a 64-bit intermediate.
func ScaleRound(v, num, den uint32) uint32 {
	return uint32(RoundDiv(uint64(v)*uint64(num), uint64(den)))
}
