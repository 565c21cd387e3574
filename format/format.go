// Package format provides the built-in integer and hex-dump formatters for
// stream.Print:
//
//	out.Print("{} {} {}", format.NewHex(uint32(0x48B18626)), format.NewDec(int16(-32768)), format.NewBin(uint8(5)))
//	// 0x48B18626 -32768 0b00000101
//
// None of them accept format options; a non-empty spec is an invalid format.
package format

import (
	"golang.org/x/exp/constraints"

	"devicecore-go/errcode"
	"devicecore-go/stream"
	"devicecore-go/x/bitx"
	"devicecore-go/x/conv"
)

func noOptions(spec string) error {
	if spec != "" {
		return errcode.ErrInvalidFormat
	}
	return nil
}

func put(s stream.Sink, p []byte) (int, error) {
	if err := s.PutBytes(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Bin prints 0b followed by every bit of the two's complement pattern.
type Bin[T constraints.Integer] struct{ V T }

func NewBin[T constraints.Integer](v T) Bin[T] { return Bin[T]{V: v} }

func (Bin[T]) ParseFormat(spec string) error { return noOptions(spec) }

func (b Bin[T]) FormatTo(s stream.Sink) (int, error) {
	var buf [2 + 64]byte
	w := bitx.Width[T]()
	conv.UBin(buf[:], bitx.Pattern(b.V), w)
	i := len(buf) - w - 2
	buf[i], buf[i+1] = '0', 'b'
	return put(s, buf[i:])
}

// Dec prints the minimal decimal representation, with '-' for negatives.
type Dec[T constraints.Integer] struct{ V T }

func NewDec[T constraints.Integer](v T) Dec[T] { return Dec[T]{V: v} }

func (Dec[T]) ParseFormat(spec string) error { return noOptions(spec) }

func (d Dec[T]) FormatTo(s stream.Sink) (int, error) {
	var buf [20]byte
	if bitx.Signed[T]() {
		return put(s, conv.Itoa(buf[:], int64(d.V)))
	}
	return put(s, conv.Utoa(buf[:], uint64(d.V)))
}

// Hex prints 0x followed by the zero-padded upper-case nibbles of the type width.
type Hex[T constraints.Integer] struct{ V T }

func NewHex[T constraints.Integer](v T) Hex[T] { return Hex[T]{V: v} }

func (Hex[T]) ParseFormat(spec string) error { return noOptions(spec) }

func (h Hex[T]) FormatTo(s stream.Sink) (int, error) {
	var buf [2 + 16]byte
	nibbles := bitx.Width[T]() / 4
	conv.UHex(buf[:], bitx.Pattern(h.V), nibbles)
	i := len(buf) - nibbles - 2
	buf[i], buf[i+1] = '0', 'x'
	return put(s, buf[i:])
}

// Width returns the formatted length of v for each base, prefix and sign
// included.
func Width[T constraints.Integer](v T) (bin, dec, hex int) {
	var buf [20]byte
	w := bitx.Width[T]()
	if bitx.Signed[T]() {
		dec = len(conv.Itoa(buf[:], int64(v)))
	} else {
		dec = len(conv.Utoa(buf[:], uint64(v)))
	}
	return 2 + w, dec, 2 + w/4
}
