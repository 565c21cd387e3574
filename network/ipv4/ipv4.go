// Package ipv4 holds the IPv4 address value type.
package ipv4

import (
	"encoding/binary"
	"net/netip"

	"devicecore-go/errcode"
	"devicecore-go/stream"
	"devicecore-go/x/conv"
)

// Address is an IPv4 address, most significant byte first.
type Address [4]byte

func New(a, b, c, d uint8) Address { return Address{a, b, c, d} }

func FromUint32(v uint32) Address {
	var a Address
	binary.BigEndian.PutUint32(a[:], v)
	return a
}

func FromBytes(b [4]byte) Address { return Address(b) }

func Any() Address       { return Address{} }
func Loopback() Address  { return Address{127, 0, 0, 1} }
func Broadcast() Address { return Address{255, 255, 255, 255} }
func Min() Address       { return Address{} }
func Max() Address       { return Broadcast() }

func (a Address) Uint32() uint32 { return binary.BigEndian.Uint32(a[:]) }
func (a Address) Bytes() [4]byte { return [4]byte(a) }

func (a Address) IsAny() bool       { return a == Address{} }
func (a Address) IsLoopback() bool  { return a[0] == 127 }
func (a Address) IsMulticast() bool { return a[0]&0xF0 == 0xE0 }
func (a Address) IsBroadcast() bool { return a == Broadcast() }

// Compare orders addresses by their integer value.
func (a Address) Compare(b Address) int {
	x, y := a.Uint32(), b.Uint32()
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func (a Address) Less(b Address) bool { return a.Compare(b) < 0 }

func (Address) ParseFormat(spec string) error {
	if spec != "" {
		return errcode.ErrInvalidFormat
	}
	return nil
}

// FormatTo writes dotted-quad text.
func (a Address) FormatTo(s stream.Sink) (int, error) {
	var out [15]byte
	n := a.appendText(out[:0])
	if err := s.PutBytes(n); err != nil {
		return 0, err
	}
	return len(n), nil
}

func (a Address) appendText(dst []byte) []byte {
	var digits [3]byte
	for i, b := range a {
		if i > 0 {
			dst = append(dst, '.')
		}
		dst = append(dst, conv.Utoa(digits[:], uint64(b))...)
	}
	return dst
}

func (a Address) String() string {
	var out [15]byte
	return string(a.appendText(out[:0]))
}

// AsNetip converts to the standard library representation.
func (a Address) AsNetip() netip.Addr { return netip.AddrFrom4(a) }

// FromNetip accepts IPv4 and IPv4-mapped IPv6 addresses.
func FromNetip(addr netip.Addr) (Address, error) {
	addr = addr.Unmap()
	if !addr.Is4() {
		return Address{}, errcode.ErrInvalidArgument
	}
	return Address(addr.As4()), nil
}

// Parse reads dotted-quad text.
func Parse(s string) (Address, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return Address{}, &errcode.E{C: errcode.ErrInvalidFormat, Op: "ipv4.parse", Msg: s, Err: err}
	}
	return Address(addr.As4()), nil
}
