package spi

import (
	"devicecore-go/errcode"
	"devicecore-go/trap"

	"tinygo.org/x/drivers"
)

// TxAdapter presents a Controller as drivers.SPI for tinygo.org/x/drivers
// peripherals. Chip select stays with the caller, as drivers expect.
type TxAdapter struct{ c Controller }

var _ drivers.SPI = TxAdapter{}

func NewTxAdapter(c Controller) TxAdapter {
	trap.Expect(c != nil, errcode.ErrInvalidArgument)
	return TxAdapter{c: c}
}

// Tx follows the drivers.SPI contract: w or r may be nil, otherwise their
// lengths match.
func (t TxAdapter) Tx(w, r []byte) error {
	switch {
	case w == nil:
		return Receive(t.c, r)
	case r == nil:
		return Transmit(t.c, w)
	case len(w) != len(r):
		return errcode.ErrInvalidArgument
	}
	return ExchangeBlock(t.c, w, r)
}

func (t TxAdapter) Transfer(b byte) (byte, error) { return t.c.Exchange(b) }

// driversController runs this package over a drivers.SPI bus such as
// TinyGo's machine.SPI.
type driversController struct {
	bus       drivers.SPI
	configure func(Configuration) error
}

// FromDrivers wraps bus. configure applies a configuration to the hardware;
// nil accepts any configuration unchanged.
func FromDrivers(bus drivers.SPI, configure func(Configuration) error) BlockController {
	trap.Expect(bus != nil, errcode.ErrInvalidArgument)
	return driversController{bus: bus, configure: configure}
}

func (d driversController) Configure(cfg Configuration) error {
	if d.configure == nil {
		return nil
	}
	return d.configure(cfg)
}

func (d driversController) Exchange(b byte) (byte, error) { return d.bus.Transfer(b) }

func (d driversController) ExchangeBlock(tx, rx []byte) error { return d.bus.Tx(tx, rx) }
