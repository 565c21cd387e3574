// Package register joins typed drivers to their transports: a Transport
// reads and writes 8-bit registers, a Cache shadows registers that are
// cheaper (or impossible) to read back.
package register

import (
	"devicecore-go/errcode"
	"devicecore-go/i2c"
	"devicecore-go/trap"
)

// Transport accesses 8-bit registers by address.
type Transport interface {
	ReadRegister(reg uint8) (uint8, error)
	WriteRegister(reg, v uint8) error
	ReadRegisters(reg uint8, p []byte) error
	WriteRegisters(reg uint8, p []byte) error
}

type i2cTransport struct{ dev *i2c.Device }

// I2C frames each access as register address then data.
func I2C(dev *i2c.Device) Transport {
	trap.Expect(dev != nil, errcode.ErrInvalidArgument)
	return i2cTransport{dev: dev}
}

func (t i2cTransport) ReadRegister(reg uint8) (uint8, error)    { return t.dev.Read(reg) }
func (t i2cTransport) WriteRegister(reg, v uint8) error         { return t.dev.Write(reg, v) }
func (t i2cTransport) ReadRegisters(reg uint8, p []byte) error  { return t.dev.ReadBlock(reg, p) }
func (t i2cTransport) WriteRegisters(reg uint8, p []byte) error { return t.dev.WriteBlock(reg, p) }

// Cache holds the last value written to each register in [0, len(shadow)).
type Cache struct {
	t      Transport
	reset  []uint8
	shadow []uint8
}

// NewCache uses shadow as storage. reset holds the power-on values and must
// be the same length. Call Reset before use.
func NewCache(t Transport, reset, shadow []uint8) *Cache {
	trap.Expect(t != nil, errcode.ErrInvalidArgument)
	trap.Expect(len(reset) == len(shadow), errcode.ErrInvalidArgument)
	return &Cache{t: t, reset: reset, shadow: shadow}
}

// Reset restores the shadow to the power-on values. It does not touch the
// device.
func (c *Cache) Reset() { copy(c.shadow, c.reset) }

func (c *Cache) Len() int { return len(c.shadow) }

// Read returns the cached value without a bus transaction.
func (c *Cache) Read(reg uint8) uint8 {
	trap.Expect(int(reg) < len(c.shadow), errcode.ErrOutOfRange)
	return c.shadow[reg]
}

// Write writes through; the shadow changes only if the bus write succeeds.
func (c *Cache) Write(reg, v uint8) error {
	trap.Expect(int(reg) < len(c.shadow), errcode.ErrOutOfRange)
	if err := c.t.WriteRegister(reg, v); err != nil {
		return err
	}
	c.shadow[reg] = v
	return nil
}

// Update sets then clears bits of the cached value and writes the result.
// A value that would not change is not written.
func (c *Cache) Update(reg, set, clear uint8) error {
	cur := c.Read(reg)
	next := (cur | set) &^ clear
	if next == cur {
		return nil
	}
	return c.Write(reg, next)
}

// Transport exposes the uncached path for volatile registers.
func (c *Cache) Transport() Transport { return c.t }
