package stream

import (
	"devicecore-go/errcode"
	"devicecore-go/trap"
)

// ReliableOutput is an output stream with no failure path.
type ReliableOutput struct {
	Stream
	buf ReliableBuffer
}

// NewReliableOutput returns a stream over b.
func NewReliableOutput(b ReliableBuffer) ReliableOutput {
	trap.Expect(b != nil, errcode.ErrInvalidArgument)
	return ReliableOutput{buf: b}
}

func (o *ReliableOutput) Buffer() ReliableBuffer { return o.buf }

func (o *ReliableOutput) Put(c byte)         { o.buf.Put(c) }
func (o *ReliableOutput) PutBytes(p []byte)  { o.buf.PutBytes(p) }
func (o *ReliableOutput) PutString(s string) { o.buf.PutString(s) }
func (o *ReliableOutput) PutInt8(v int8)     { o.buf.Put(byte(v)) }
func (o *ReliableOutput) PutInt8s(p []int8)  { o.buf.PutBytes(int8sAsBytes(p)) }
func (o *ReliableOutput) Flush()             { o.buf.Flush() }
func (o *ReliableOutput) Sink() Sink         { return reliableSink{o.buf} }
func (o *ReliableOutput) Write(p []byte) (int, error) {
	o.buf.PutBytes(p)
	return len(p), nil
}

// Print writes format with args substituted and returns the byte count.
// A uint8 argument prints as a character; see Formatter.
// A formatter that reports an error on a reliable stream is a logic error.
func (o *ReliableOutput) Print(format string, args ...any) int {
	n, err := render(reliableSink{o.buf}, format, args)
	trap.Ensure(err == nil, errcode.ErrUnexpected)
	return n
}

// Println is Print followed by a newline.
func (o *ReliableOutput) Println(format string, args ...any) int {
	n := o.Print(format, args...)
	o.buf.Put('\n')
	return n + 1
}

type reliableSink struct{ b ReliableBuffer }

func (s reliableSink) Put(c byte) error         { s.b.Put(c); return nil }
func (s reliableSink) PutBytes(p []byte) error  { s.b.PutBytes(p); return nil }
func (s reliableSink) PutString(v string) error { s.b.PutString(v); return nil }
