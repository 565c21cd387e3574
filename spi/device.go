package spi

import (
	"devicecore-go/errcode"
	"devicecore-go/trap"
)

// Device pairs a controller with the configuration and chip select of one
// peripheral. Each transaction reconfigures the controller first, so devices
// with different modes can share it.
type Device struct {
	c   Controller
	cfg Configuration
	sel DeviceSelector
}

func NewDevice(c Controller, cfg Configuration, sel DeviceSelector) *Device {
	trap.Expect(c != nil && sel != nil, errcode.ErrInvalidArgument)
	return &Device{c: c, cfg: cfg, sel: sel}
}

func (d *Device) Controller() Controller       { return d.c }
func (d *Device) Configuration() Configuration { return d.cfg }

// Initialize puts the chip select in its idle state.
func (d *Device) Initialize() error { return d.sel.Initialize() }

// Configure applies the device configuration to the controller.
func (d *Device) Configure() error { return d.c.Configure(d.cfg) }

// Transaction runs fn with the controller configured and the device
// selected.
func (d *Device) Transaction(fn func(c Controller) error) error {
	if err := d.Configure(); err != nil {
		return err
	}
	g, err := Select(d.sel)
	if err != nil {
		return err
	}
	defer g.Release()
	return fn(d.c)
}

func (d *Device) Exchange(tx, rx []byte) error {
	return d.Transaction(func(c Controller) error { return ExchangeBlock(c, tx, rx) })
}

func (d *Device) Receive(rx []byte) error {
	return d.Transaction(func(c Controller) error { return Receive(c, rx) })
}

func (d *Device) Transmit(tx []byte) error {
	return d.Transaction(func(c Controller) error { return Transmit(c, tx) })
}
