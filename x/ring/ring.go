// Package ring is a single-producer, single-consumer byte ring over
// caller-provided power-of-two storage.
package ring

import (
	"sync/atomic"

	"devicecore-go/errcode"
	"devicecore-go/trap"
)

// Ring is safe for one producer and one consumer running concurrently.
type Ring struct {
	buf  []byte
	mask uint32
	rd   atomic.Uint32 // consumer index (monotonic)
	wr   atomic.Uint32 // producer index (monotonic)

	readable chan struct{} // empty -> non-empty edge
	writable chan struct{} // full -> non-full edge
}

// New wraps buf, whose length must be a power of two >= 2.
func New(buf []byte) *Ring {
	n := len(buf)
	trap.Expect(n >= 2 && n&(n-1) == 0, errcode.ErrInvalidArgument)
	return &Ring{
		buf:      buf,
		mask:     uint32(n - 1),
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
	}
}

func (r *Ring) size() uint32 { return uint32(len(r.buf)) }

// Size returns the capacity in bytes.
func (r *Ring) Size() int { return len(r.buf) }

// Space returns the number of bytes that can be written now.
func (r *Ring) Space() int {
	return int(r.size() - (r.wr.Load() - r.rd.Load()))
}

// Available returns the number of bytes that can be read now.
func (r *Ring) Available() int {
	return int(r.wr.Load() - r.rd.Load())
}

// TryWriteFrom copies as much of src as fits and returns the count.
func (r *Ring) TryWriteFrom(src []byte) int {
	if len(src) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load()
	before := wr - rd
	n := int(r.size() - before)
	if n <= 0 {
		return 0
	}
	if len(src) < n {
		n = len(src)
	}
	idx := wr & r.mask
	first := copy(r.buf[idx:], src[:n])
	copy(r.buf, src[first:n])
	r.wr.Store(wr + uint32(n))

	if before == 0 {
		notify(r.readable)
	}
	return n
}

// ReadInto copies up to len(dst) buffered bytes and returns the count.
func (r *Ring) ReadInto(dst []byte) int {
	if len(dst) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load()
	n := int(wr - rd)
	if n <= 0 {
		return 0
	}
	if len(dst) < n {
		n = len(dst)
	}
	idx := rd & r.mask
	end := idx + uint32(n)
	if end > r.size() {
		end = r.size()
	}
	first := copy(dst[:n], r.buf[idx:end])
	copy(dst[first:n], r.buf)
	r.rd.Store(rd + uint32(n))

	if wr-rd == r.size() {
		notify(r.writable)
	}
	return n
}

// Reset discards buffered bytes. Only valid while neither side is active.
func (r *Ring) Reset() {
	r.rd.Store(0)
	r.wr.Store(0)
}

func (r *Ring) Readable() <-chan struct{} { return r.readable }
func (r *Ring) Writable() <-chan struct{} { return r.writable }

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
