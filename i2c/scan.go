package i2c

import "devicecore-go/diag"

// Scan range: 0b0000xxx and 0b1111xxx are reserved.
const (
	ScanFirst = 0x08
	ScanEnd   = 0x78
)

// ScanFunc receives one probe result. Returning an error stops the scan.
type ScanFunc func(a Address, op Operation, resp Response) error

// Scan probes every non-reserved address, READ then WRITE.
func Scan(c Controller, fn ScanFunc) error {
	log := diag.For(diag.ComponentI2C)
	found := 0
	for n := uint8(ScanFirst); n < ScanEnd; n++ {
		a := AddressNumeric(n)
		for _, op := range [...]Operation{Read, Write} {
			resp, err := probe(c, a, op)
			if err != nil {
				log.Warn("scan aborted", "address", a.String(), "op", op.String(), "err", err)
				return err
			}
			if resp == ACK {
				found++
				log.Debug("scan hit", "address", a.String(), "op", op.String())
			}
			if err := fn(a, op, resp); err != nil {
				return err
			}
		}
	}
	log.Debug("scan done", "acks", found)
	return nil
}

// probe addresses a and, for an acknowledged read, discards one byte so the
// target releases SDA before the stop.
func probe(c Controller, a Address, op Operation) (Response, error) {
	g, err := Acquire(c)
	if err != nil {
		return NACK, err
	}
	defer g.Release()

	resp, err := c.Address(a, op)
	if err != nil {
		return NACK, err
	}
	if op == Read && resp == ACK {
		if _, err := c.Read(NACK); err != nil {
			return resp, err
		}
	}
	return resp, nil
}
