// Package i2c defines the bit-level I²C controller capability and the
// transactions built on it: bus control guards, register-framed devices and
// bus scans.
//
// Controllers are not safe for concurrent use; a caller holding a
// BusControlGuard owns the bus until Release.
package i2c

// Operation is the R/W bit that follows the address.
type Operation uint8

const (
	Write Operation = 0
	Read  Operation = 1
)

func (o Operation) String() string {
	if o == Read {
		return "READ"
	}
	return "WRITE"
}

// Response is the acknowledgement of one byte.
type Response uint8

const (
	ACK Response = iota
	NACK
)

func (r Response) String() string {
	if r == NACK {
		return "NACK"
	}
	return "ACK"
}

// Controller emits bus conditions and bytes. Read's argument is the
// acknowledgement the controller returns after receiving the byte.
type Controller interface {
	Start() error
	RepeatedStart() error
	Stop() error
	Address(a Address, op Operation) (Response, error)
	Read(resp Response) (byte, error)
	Write(b byte) (Response, error)
}

// BlockController is implemented by controllers with native block transfers.
type BlockController interface {
	Controller
	ReadBlock(p []byte, last Response) error
	WriteBlock(p []byte) (Response, error)
}

// ReadBlock reads len(p) bytes, acknowledging all but the last, which gets
// last.
func ReadBlock(c Controller, p []byte, last Response) error {
	if bc, ok := c.(BlockController); ok {
		return bc.ReadBlock(p, last)
	}
	for i := range p {
		resp := ACK
		if i == len(p)-1 {
			resp = last
		}
		b, err := c.Read(resp)
		if err != nil {
			return err
		}
		p[i] = b
	}
	return nil
}

// WriteBlock writes p, stopping at the first NACK.
func WriteBlock(c Controller, p []byte) (Response, error) {
	if bc, ok := c.(BlockController); ok {
		return bc.WriteBlock(p)
	}
	for _, b := range p {
		resp, err := c.Write(b)
		if err != nil || resp == NACK {
			return resp, err
		}
	}
	return ACK, nil
}
