// Package mac holds the 48-bit MAC address value type.
package mac

import (
	"bytes"

	"devicecore-go/errcode"
	"devicecore-go/stream"
	"devicecore-go/trap"
)

// Address is a MAC address, first transmitted byte first.
type Address [6]byte

const (
	groupBit = 0x01
	localBit = 0x02
)

// FromUint64 takes the low 48 bits of v. Wider values are out of range.
func FromUint64(v uint64) Address {
	trap.Expect(v>>48 == 0, errcode.ErrOutOfRange)
	var a Address
	for i := 5; i >= 0; i-- {
		a[i] = byte(v)
		v >>= 8
	}
	return a
}

func FromBytes(b [6]byte) Address { return Address(b) }

func Broadcast() Address { return Address{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF} }

func (a Address) Uint64() uint64 {
	var v uint64
	for _, b := range a {
		v = v<<8 | uint64(b)
	}
	return v
}

func (a Address) Bytes() [6]byte { return [6]byte(a) }

func (a Address) IsLocallyAdministered() bool     { return a[0]&localBit != 0 }
func (a Address) IsUniversallyAdministered() bool { return a[0]&localBit == 0 }
func (a Address) IsMulticast() bool               { return a[0]&groupBit != 0 }
func (a Address) IsUnicast() bool                 { return a[0]&groupBit == 0 }

func (a Address) Compare(b Address) int { return bytes.Compare(a[:], b[:]) }
func (a Address) Less(b Address) bool   { return a.Compare(b) < 0 }

func (Address) ParseFormat(spec string) error {
	if spec != "" {
		return errcode.ErrInvalidFormat
	}
	return nil
}

const hexDigits = "0123456789ABCDEF"

func (a Address) text() [17]byte {
	var out [17]byte
	for i, b := range a {
		if i > 0 {
			out[i*3-1] = '-'
		}
		out[i*3] = hexDigits[b>>4]
		out[i*3+1] = hexDigits[b&0x0F]
	}
	return out
}

// FormatTo writes AA-BB-CC-DD-EE-FF.
func (a Address) FormatTo(s stream.Sink) (int, error) {
	t := a.text()
	if err := s.PutBytes(t[:]); err != nil {
		return 0, err
	}
	return len(t), nil
}

func (a Address) String() string {
	t := a.text()
	return string(t[:])
}

// Parse reads six hex pairs separated by '-' or ':'. Case is ignored.
func Parse(s string) (Address, error) {
	var a Address
	if len(s) != 17 {
		return a, parseError(s)
	}
	sep := s[2]
	if sep != '-' && sep != ':' {
		return a, parseError(s)
	}
	for i := range a {
		if i > 0 && s[i*3-1] != sep {
			return a, parseError(s)
		}
		hi, ok1 := nibble(s[i*3])
		lo, ok2 := nibble(s[i*3+1])
		if !ok1 || !ok2 {
			return a, parseError(s)
		}
		a[i] = hi<<4 | lo
	}
	return a, nil
}

func parseError(s string) error {
	return &errcode.E{C: errcode.ErrInvalidFormat, Op: "mac.parse", Msg: s}
}

func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
