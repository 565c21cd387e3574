// Package ip holds version-agnostic address, port and endpoint values.
package ip

import (
	"devicecore-go/errcode"
	"devicecore-go/network/ipv4"
	"devicecore-go/stream"
	"devicecore-go/trap"
	"devicecore-go/x/conv"
)

// Version tags the active member of an Address.
type Version uint8

const (
	Unspecified Version = iota
	V4
)

func (v Version) String() string {
	if v == V4 {
		return "IPv4"
	}
	return "unspecified"
}

// Address is a tagged IP address. The zero value is unspecified.
type Address struct {
	version Version
	v4      ipv4.Address
}

func FromIPv4(a ipv4.Address) Address { return Address{version: V4, v4: a} }

func (a Address) Version() Version    { return a.version }
func (a Address) IsUnspecified() bool { return a.version == Unspecified }
func (a Address) IsV4() bool          { return a.version == V4 }

// IPv4 returns the contained IPv4 address. The address must be V4.
func (a Address) IPv4() ipv4.Address {
	trap.Expect(a.version == V4, errcode.ErrLogic)
	return a.v4
}

func (a Address) IsAny() bool {
	return a.version == Unspecified || a.v4.IsAny()
}

func (a Address) IsLoopback() bool  { return a.version == V4 && a.v4.IsLoopback() }
func (a Address) IsMulticast() bool { return a.version == V4 && a.v4.IsMulticast() }

// Compare orders by version, then by value within the version.
func (a Address) Compare(b Address) int {
	switch {
	case a.version < b.version:
		return -1
	case a.version > b.version:
		return 1
	case a.version == V4:
		return a.v4.Compare(b.v4)
	}
	return 0
}

func (a Address) Less(b Address) bool { return a.Compare(b) < 0 }

func (Address) ParseFormat(spec string) error { return noOptions(spec) }

func (a Address) FormatTo(s stream.Sink) (int, error) {
	if a.IsAny() {
		if err := s.PutString("ANY"); err != nil {
			return 0, err
		}
		return 3, nil
	}
	return a.v4.FormatTo(s)
}

func (a Address) String() string {
	var storage [15]byte
	return stream.Format(storage[:], a)
}

// Port is a transport-layer port number.
type Port uint16

const AnyPort Port = 0

func (p Port) IsAny() bool { return p == AnyPort }

func (Port) ParseFormat(spec string) error { return noOptions(spec) }

func (p Port) FormatTo(s stream.Sink) (int, error) {
	var buf [5]byte
	d := conv.Utoa(buf[:], uint64(p))
	if err := s.PutBytes(d); err != nil {
		return 0, err
	}
	return len(d), nil
}

func (p Port) String() string {
	var buf [5]byte
	return string(conv.Utoa(buf[:], uint64(p)))
}

// Endpoint is an (address, port) pair.
type Endpoint struct {
	Address Address
	Port    Port
}

func NewEndpoint(a Address, p Port) Endpoint { return Endpoint{Address: a, Port: p} }

// Compare orders by address first, then port.
func (e Endpoint) Compare(o Endpoint) int {
	if c := e.Address.Compare(o.Address); c != 0 {
		return c
	}
	switch {
	case e.Port < o.Port:
		return -1
	case e.Port > o.Port:
		return 1
	}
	return 0
}

func (e Endpoint) Less(o Endpoint) bool { return e.Compare(o) < 0 }

func (Endpoint) ParseFormat(spec string) error { return noOptions(spec) }

func (e Endpoint) FormatTo(s stream.Sink) (int, error) {
	n, err := e.Address.FormatTo(s)
	if err != nil {
		return n, err
	}
	if err := s.Put(':'); err != nil {
		return n, err
	}
	m, err := e.Port.FormatTo(s)
	return n + 1 + m, err
}

func (e Endpoint) String() string {
	var storage [21]byte
	return stream.Format(storage[:], e)
}

func noOptions(spec string) error {
	if spec != "" {
		return errcode.ErrInvalidFormat
	}
	return nil
}
