// Package fixed provides containers over caller-provided storage. Capacity is
// fixed at construction; nothing reallocates.
package fixed

import (
	"devicecore-go/errcode"
	"devicecore-go/trap"
)

// Vector is a length-tracked view over a caller-owned backing array.
type Vector[T any] struct {
	buf []T
	n   int
}

// NewVector returns an empty vector using buf (its full length) as storage.
func NewVector[T any](buf []T) Vector[T] {
	return Vector[T]{buf: buf[:len(buf):len(buf)]}
}

func (v *Vector[T]) Len() int    { return v.n }
func (v *Vector[T]) Cap() int    { return len(v.buf) }
func (v *Vector[T]) Empty() bool { return v.n == 0 }
func (v *Vector[T]) Full() bool  { return v.n == len(v.buf) }

// Push appends x, or returns ErrOutOfRange when full.
func (v *Vector[T]) Push(x T) error {
	if v.Full() {
		return errcode.ErrOutOfRange
	}
	v.buf[v.n] = x
	v.n++
	return nil
}

// Append copies as much of xs as fits and returns the count copied.
func (v *Vector[T]) Append(xs []T) int {
	n := copy(v.buf[v.n:], xs)
	v.n += n
	return n
}

// Pop removes and returns the last element. Popping an empty vector traps.
func (v *Vector[T]) Pop() T {
	trap.Expect(v.n > 0, errcode.ErrOutOfRange)
	v.n--
	x := v.buf[v.n]
	var zero T
	v.buf[v.n] = zero
	return x
}

// At returns element i. Out-of-range indices trap.
func (v *Vector[T]) At(i int) T {
	trap.Expect(i >= 0 && i < v.n, errcode.ErrOutOfRange)
	return v.buf[i]
}

// Set replaces element i. Out-of-range indices trap.
func (v *Vector[T]) Set(i int, x T) {
	trap.Expect(i >= 0 && i < v.n, errcode.ErrOutOfRange)
	v.buf[i] = x
}

// Slice returns the live elements. The slice aliases the backing storage.
func (v *Vector[T]) Slice() []T { return v.buf[:v.n] }

// Clear empties the vector without touching capacity.
func (v *Vector[T]) Clear() {
	clear(v.buf[:v.n])
	v.n = 0
}
