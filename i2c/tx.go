package i2c

import (
	"devicecore-go/errcode"
	"devicecore-go/trap"

	"tinygo.org/x/drivers"
)

// TxAdapter runs transaction-level drivers (tinygo.org/x/drivers) over a
// bit-level Controller. When both w and r are given the write is followed
// by a repeated start and the read, without releasing the bus.
type TxAdapter struct {
	c     Controller
	align BusMultiplexerAligner
	// Nonresponsive is returned when a target NACKs.
	Nonresponsive errcode.Code
}

var _ drivers.I2C = (*TxAdapter)(nil)

func NewTxAdapter(c Controller, align BusMultiplexerAligner) *TxAdapter {
	trap.Expect(c != nil, errcode.ErrInvalidArgument)
	if align == nil {
		align = NopAligner
	}
	return &TxAdapter{c: c, align: align, Nonresponsive: errcode.ErrNonresponsiveDevice}
}

func (t *TxAdapter) Tx(addr uint16, w, r []byte) error {
	if addr > 0x7F {
		return errcode.ErrInvalidArgument
	}
	if err := t.align(); err != nil {
		return err
	}
	a := AddressNumeric(uint8(addr))

	g, err := Acquire(t.c)
	if err != nil {
		return err
	}
	defer g.Release()

	if len(w) > 0 || len(r) == 0 {
		if err := t.address(a, Write); err != nil {
			return err
		}
		resp, err := WriteBlock(t.c, w)
		if err != nil {
			return err
		}
		if resp == NACK {
			return t.Nonresponsive
		}
	}
	if len(r) == 0 {
		return nil
	}
	if len(w) > 0 {
		if err := g.RepeatedStart(); err != nil {
			return err
		}
	}
	if err := t.address(a, Read); err != nil {
		return err
	}
	return ReadBlock(t.c, r, NACK)
}

func (t *TxAdapter) address(a Address, op Operation) error {
	resp, err := t.c.Address(a, op)
	if err != nil {
		return err
	}
	if resp == NACK {
		return t.Nonresponsive
	}
	return nil
}
