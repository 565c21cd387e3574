// Package bitx holds bit-level helpers over any integer type.
package bitx

import (
	"math/bits"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Width returns the number of bits in T.
func Width[T constraints.Integer]() int {
	var z T
	return int(unsafe.Sizeof(z)) * 8
}

// Signed reports whether T is a signed integer type.
func Signed[T constraints.Integer]() bool {
	var z T
	return z-1 < 0
}

// Mask returns a value with only bit set.
func Mask[T constraints.Integer](bit int) T {
	return T(1) << bit
}

// MaskRange returns n consecutive set bits starting at lsb.
func MaskRange[T constraints.Integer](lsb, n int) T {
	if n <= 0 {
		return 0
	}
	if n >= Width[T]() {
		return ^T(0) << lsb
	}
	return ((T(1) << n) - 1) << lsb
}

// Pattern returns the two's complement bit pattern of v limited to T's width.
func Pattern[T constraints.Integer](v T) uint64 {
	u := uint64(v)
	if w := Width[T](); w < 64 {
		u &= (uint64(1) << w) - 1
	}
	return u
}

// HighestBitSet returns the index of the most significant set bit of v, or
// -1 when no bit is set.
func HighestBitSet[T constraints.Integer](v T) int {
	return bits.Len64(Pattern(v)) - 1
}

// CRC8 computes an MSB-first CRC-8 over p with the given polynomial and
// initial value, no reflection and no final xor.
func CRC8(p []byte, poly, init byte) byte {
	crc := init
	for _, b := range p {
		crc ^= b
		for range 8 {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
