package stream

import (
	"io"

	"devicecore-go/errcode"
	"devicecore-go/trap"
	"devicecore-go/x/fixed"
	"devicecore-go/x/ring"
)

// StringBuffer is a reliable buffer over caller storage. Writing past the
// capacity is a precondition violation.
type StringBuffer struct {
	buf []byte
	n   int
}

// NewStringBuffer uses storage (its full length) as capacity.
func NewStringBuffer(storage []byte) StringBuffer {
	return StringBuffer{buf: storage}
}

func (b *StringBuffer) Put(c byte) {
	trap.Expect(b.n < len(b.buf), errcode.ErrOutOfRange)
	b.buf[b.n] = c
	b.n++
}

func (b *StringBuffer) PutBytes(p []byte) {
	trap.Expect(len(p) <= len(b.buf)-b.n, errcode.ErrOutOfRange)
	b.n += copy(b.buf[b.n:], p)
}

func (b *StringBuffer) PutString(s string) {
	trap.Expect(len(s) <= len(b.buf)-b.n, errcode.ErrOutOfRange)
	b.n += copy(b.buf[b.n:], s)
}

func (b *StringBuffer) Flush() {}

func (b *StringBuffer) Len() int       { return b.n }
func (b *StringBuffer) Cap() int       { return len(b.buf) }
func (b *StringBuffer) Bytes() []byte  { return b.buf[:b.n] }
func (b *StringBuffer) String() string { return string(b.buf[:b.n]) }
func (b *StringBuffer) Reset()         { b.n = 0 }

// Counter is a reliable buffer that discards bytes and counts them.
type Counter struct{ N int }

func (c *Counter) Put(byte)           { c.N++ }
func (c *Counter) PutBytes(p []byte)  { c.N += len(p) }
func (c *Counter) PutString(s string) { c.N += len(s) }
func (c *Counter) Flush()             {}

// VectorBuffer is a fallible buffer over a fixed-capacity vector. A write
// that does not fit is rejected whole with ErrOutOfRange.
type VectorBuffer struct {
	v fixed.Vector[byte]
}

func NewVectorBuffer(storage []byte) VectorBuffer {
	return VectorBuffer{v: fixed.NewVector(storage)}
}

func (b *VectorBuffer) Put(c byte) error { return b.v.Push(c) }

func (b *VectorBuffer) PutBytes(p []byte) error {
	if len(p) > b.v.Cap()-b.v.Len() {
		return errcode.ErrOutOfRange
	}
	b.v.Append(p)
	return nil
}

func (b *VectorBuffer) PutString(s string) error {
	if len(s) > b.v.Cap()-b.v.Len() {
		return errcode.ErrOutOfRange
	}
	for i := 0; i < len(s); i++ {
		_ = b.v.Push(s[i])
	}
	return nil
}

func (b *VectorBuffer) Flush() error  { return nil }
func (b *VectorBuffer) Bytes() []byte { return b.v.Slice() }
func (b *VectorBuffer) Reset()        { b.v.Clear() }

// RingBuffer is a fallible buffer feeding a ring consumed elsewhere (an
// interrupt handler or transmit loop). A write that does not fit returns
// ErrWouldBlock and writes nothing.
type RingBuffer struct {
	r *ring.Ring
}

func NewRingBuffer(r *ring.Ring) RingBuffer {
	trap.Expect(r != nil, errcode.ErrInvalidArgument)
	return RingBuffer{r: r}
}

func (b RingBuffer) Put(c byte) error {
	one := [1]byte{c}
	return b.PutBytes(one[:])
}

func (b RingBuffer) PutBytes(p []byte) error {
	if len(p) > b.r.Space() {
		return errcode.ErrWouldBlock
	}
	b.r.TryWriteFrom(p)
	return nil
}

func (b RingBuffer) PutString(s string) error {
	if len(s) > b.r.Space() {
		return errcode.ErrWouldBlock
	}
	var chunk [32]byte
	for len(s) > 0 {
		n := copy(chunk[:], s)
		b.r.TryWriteFrom(chunk[:n])
		s = s[n:]
	}
	return nil
}

// Flush reports whether the consumer has drained the ring.
func (b RingBuffer) Flush() error {
	if b.r.Available() != 0 {
		return errcode.ErrWouldBlock
	}
	return nil
}

// Flusher is implemented by writers with their own buffering.
type Flusher interface{ Flush() error }

// WriterBuffer adapts an io.Writer. A short write is an error.
type WriterBuffer struct {
	w io.Writer
}

func NewWriterBuffer(w io.Writer) WriterBuffer {
	trap.Expect(w != nil, errcode.ErrInvalidArgument)
	return WriterBuffer{w: w}
}

func (b WriterBuffer) Put(c byte) error {
	if bw, ok := b.w.(io.ByteWriter); ok {
		return bw.WriteByte(c)
	}
	one := [1]byte{c}
	return b.PutBytes(one[:])
}

func (b WriterBuffer) PutBytes(p []byte) error {
	n, err := b.w.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return io.ErrShortWrite
	}
	return nil
}

func (b WriterBuffer) PutString(s string) error {
	n, err := io.WriteString(b.w, s)
	if err != nil {
		return err
	}
	if n != len(s) {
		return io.ErrShortWrite
	}
	return nil
}

func (b WriterBuffer) Flush() error {
	if f, ok := b.w.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// Format renders a single formatter into storage and returns the text. It is
// the building block for String methods of formattable values.
func Format(storage []byte, f Formatter) string {
	b := NewStringBuffer(storage)
	out := NewReliableOutput(&b)
	out.Print("{}", f)
	return b.String()
}
