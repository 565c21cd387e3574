// Package spi defines the byte-exchange SPI controller capability, chip
// selection and devices that reconfigure the controller for each
// transaction.
package spi

import (
	"devicecore-go/errcode"
	"devicecore-go/trap"
)

// Mode is the CPOL/CPHA pair, 0 to 3.
type Mode uint8

const (
	Mode0 Mode = iota
	Mode1
	Mode2
	Mode3
)

func (m Mode) CPOL() bool { return m&2 != 0 }
func (m Mode) CPHA() bool { return m&1 != 0 }

type BitOrder uint8

const (
	MSBFirst BitOrder = iota
	LSBFirst
)

// Configuration is interpreted by the controller implementation only.
type Configuration struct {
	Mode      Mode
	Frequency uint32 // Hz
	BitOrder  BitOrder
}

// Controller exchanges one byte per clock frame.
type Controller interface {
	Configure(cfg Configuration) error
	Exchange(tx byte) (byte, error)
}

// BlockController is implemented by controllers with native block transfers.
// rx may be nil.
type BlockController interface {
	Controller
	ExchangeBlock(tx, rx []byte) error
}

// ExchangeBlock clocks out tx while clocking in rx. Lengths must match.
func ExchangeBlock(c Controller, tx, rx []byte) error {
	trap.Expect(len(tx) == len(rx), errcode.ErrInvalidArgument)
	if bc, ok := c.(BlockController); ok {
		return bc.ExchangeBlock(tx, rx)
	}
	for i, b := range tx {
		v, err := c.Exchange(b)
		if err != nil {
			return err
		}
		rx[i] = v
	}
	return nil
}

// Receive fills rx, transmitting zeros.
func Receive(c Controller, rx []byte) error {
	if bc, ok := c.(BlockController); ok {
		var zero [32]byte
		for len(rx) > 0 {
			n := min(len(rx), len(zero))
			if err := bc.ExchangeBlock(zero[:n], rx[:n]); err != nil {
				return err
			}
			rx = rx[n:]
		}
		return nil
	}
	for i := range rx {
		v, err := c.Exchange(0x00)
		if err != nil {
			return err
		}
		rx[i] = v
	}
	return nil
}

// Transmit sends tx, discarding what is clocked in.
func Transmit(c Controller, tx []byte) error {
	if bc, ok := c.(BlockController); ok {
		return bc.ExchangeBlock(tx, nil)
	}
	for _, b := range tx {
		if _, err := c.Exchange(b); err != nil {
			return err
		}
	}
	return nil
}
