// Package tca9548a drives the TCA9548A 1-to-8 I²C multiplexer.
//
// The device has a single control register, written and read without a
// register address. Its value is cached so aligners only touch the bus when
// the selection changes.
package tca9548a

import (
	"devicecore-go/errcode"
	"devicecore-go/i2c"
	"devicecore-go/trap"
)

// AddressDefault is the address with A2..A0 tied low.
const AddressDefault = 0x70

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x70 if zero.
	Address uint8
}

type Device struct {
	dev     *i2c.Device
	control uint8
}

// New binds the multiplexer on c. It does not touch the device.
func New(c i2c.Controller, cfg Config) *Device {
	addr := cfg.Address
	if addr == 0 {
		addr = AddressDefault
	}
	trap.Expect(addr&^0x07 == AddressDefault, errcode.ErrOutOfRange)
	return &Device{dev: i2c.NewDevice(i2c.NopAligner, c, i2c.AddressNumeric(addr), errcode.ErrNonresponsiveDevice)}
}

func (d *Device) Address() i2c.Address { return d.dev.Address() }

// Initialize returns the cache to the power-on value (all channels off).
func (d *Device) Initialize() { d.control = 0 }

// Channels returns the cached channel mask.
func (d *Device) Channels() uint8 { return d.control }

// Select enables exactly the channels in mask.
func (d *Device) Select(mask uint8) error {
	if err := d.dev.WriteRaw([]byte{mask}); err != nil {
		return err
	}
	d.control = mask
	return nil
}

func (d *Device) Enable(mask uint8) error  { return d.Select(d.control | mask) }
func (d *Device) Disable(mask uint8) error { return d.Select(d.control &^ mask) }

// ReadControl reads the control register from the device and refreshes the
// cache.
func (d *Device) ReadControl() (uint8, error) {
	var b [1]byte
	if err := d.dev.ReadRaw(b[:]); err != nil {
		return 0, err
	}
	d.control = b[0]
	return b[0], nil
}

// Aligner returns an aligner for devices behind the channels in mask.
func (d *Device) Aligner(mask uint8) i2c.BusMultiplexerAligner {
	return func() error {
		if d.control == mask {
			return nil
		}
		return d.Select(mask)
	}
}

// Channel returns the mask for channel n (0-7).
func Channel(n int) uint8 {
	trap.Expect(n >= 0 && n < 8, errcode.ErrOutOfRange)
	return 1 << n
}
