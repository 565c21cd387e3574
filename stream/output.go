package stream

import (
	"unsafe"

	"devicecore-go/errcode"
	"devicecore-go/trap"
)

// Output is a fallible output stream.
type Output struct {
	Stream
	buf Buffer
}

// NewOutput returns a nominal stream over b.
func NewOutput(b Buffer) Output {
	trap.Expect(b != nil, errcode.ErrInvalidArgument)
	return Output{buf: b}
}

// Buffer returns the underlying buffer.
func (o *Output) Buffer() Buffer { return o.buf }

func (o *Output) check(err error) error {
	if err != nil {
		o.Report(FatalError)
	}
	return err
}

func (o *Output) Put(c byte) error {
	trap.Expect(o.IsNominal(), errcode.ErrIOStreamDegraded)
	return o.check(o.buf.Put(c))
}

func (o *Output) PutBytes(p []byte) error {
	trap.Expect(o.IsNominal(), errcode.ErrIOStreamDegraded)
	return o.check(o.buf.PutBytes(p))
}

func (o *Output) PutString(s string) error {
	trap.Expect(o.IsNominal(), errcode.ErrIOStreamDegraded)
	return o.check(o.buf.PutString(s))
}

func (o *Output) PutInt8(v int8) error { return o.Put(byte(v)) }

func (o *Output) PutInt8s(p []int8) error { return o.PutBytes(int8sAsBytes(p)) }

func (o *Output) Flush() error {
	trap.Expect(o.IsNominal(), errcode.ErrIOStreamDegraded)
	return o.check(o.buf.Flush())
}

// Print writes format with args substituted. It returns the number of bytes
// written, or the first error, after which nothing more is written.
// A uint8 argument prints as a character; see Formatter.
func (o *Output) Print(format string, args ...any) (int, error) {
	trap.Expect(o.IsNominal(), errcode.ErrIOStreamDegraded)
	return render(o, format, args)
}

// Println is Print followed by a newline.
func (o *Output) Println(format string, args ...any) (int, error) {
	n, err := o.Print(format, args...)
	if err != nil {
		return n, err
	}
	if err := o.Put('\n'); err != nil {
		return n, err
	}
	return n + 1, nil
}

func int8sAsBytes(p []int8) []byte {
	if len(p) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(p))), len(p))
}
