// Package stream defines the byte sink abstraction that diagnostics, drivers
// and transports share, in two flavours:
//
//   - Output wraps a fallible Buffer. A failed buffer operation degrades the
//     stream; using a degraded Output is a precondition violation.
//   - ReliableOutput wraps a ReliableBuffer whose operations cannot fail.
//
// Both support Print, a brace-delimited formatter ("{}" placeholders, "{{"
// and "}}" escapes) that delegates each argument to its Formatter.
package stream

// Buffer is a fallible byte sink. Any transport that implements it can serve
// as a stream (a UART transmitter is the canonical example).
type Buffer interface {
	Put(c byte) error
	PutBytes(p []byte) error
	PutString(s string) error
	Flush() error
}

// ReliableBuffer is a byte sink that cannot report failure.
type ReliableBuffer interface {
	Put(c byte)
	PutBytes(p []byte)
	PutString(s string)
	Flush()
}

// Sink is the write surface handed to formatters.
type Sink interface {
	Put(c byte) error
	PutBytes(p []byte) error
	PutString(s string) error
}

// State holds the sticky stream flags. Flags combine; a stream may be at
// end-of-file and I/O errored at once.
type State uint8

const (
	EndOfFile State = 1 << iota
	IOError
	FatalError

	Nominal State = 0
)

// Stream carries the state flags. Embed it in stream types.
type Stream struct {
	state State
}

func (s *Stream) State() State            { return s.state }
func (s *Stream) IsNominal() bool         { return s.state == Nominal }
func (s *Stream) EndOfFileReached() bool  { return s.state&EndOfFile != 0 }
func (s *Stream) IOErrorPresent() bool    { return s.state&IOError != 0 }
func (s *Stream) FatalErrorPresent() bool { return s.state&FatalError != 0 }

// Report sets flags. They stay set until cleared.
func (s *Stream) Report(f State) { s.state |= f }

// Clear clears flags.
func (s *Stream) Clear(f State) { s.state &^= f }

func (s *Stream) ClearAll() { s.state = Nominal }
