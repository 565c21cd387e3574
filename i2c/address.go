package i2c

import (
	"devicecore-go/errcode"
	"devicecore-go/format"
	"devicecore-go/stream"
	"devicecore-go/trap"
)

// Address is a 7-bit target address.
type Address struct{ n uint8 }

// AddressNumeric returns the address with 7-bit value n.
func AddressNumeric(n uint8) Address {
	trap.Expect(n <= 0x7F, errcode.ErrOutOfRange)
	return Address{n: n}
}

// AddressTransmitted returns the address whose on-wire form (R/W bit clear)
// is t.
func AddressTransmitted(t uint8) Address {
	trap.Expect(t&1 == 0, errcode.ErrInvalidArgument)
	return Address{n: t >> 1}
}

func (a Address) Numeric() uint8     { return a.n }
func (a Address) Transmitted() uint8 { return a.n << 1 }

// Frame returns the address byte sent on the wire for op.
func (a Address) Frame(op Operation) uint8 { return a.Transmitted() | uint8(op) }

func (a Address) Compare(b Address) int {
	switch {
	case a.n < b.n:
		return -1
	case a.n > b.n:
		return 1
	}
	return 0
}

func (a Address) Less(b Address) bool { return a.n < b.n }

func (Address) ParseFormat(spec string) error {
	if spec != "" {
		return errcode.ErrInvalidFormat
	}
	return nil
}

// FormatTo writes the numeric address as 0xNN.
func (a Address) FormatTo(s stream.Sink) (int, error) {
	return format.NewHex(a.n).FormatTo(s)
}

func (a Address) String() string {
	var storage [4]byte
	return stream.Format(storage[:], a)
}
