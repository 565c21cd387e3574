package mcp23x08

import (
	"devicecore-go/errcode"
	"devicecore-go/i2c"
	"devicecore-go/register"
	"devicecore-go/spi"
	"devicecore-go/trap"
)

// BaseAddress is the I²C address with A2..A0 tied low.
const BaseAddress = 0x20

// I2CAddress returns the address for the A2..A0 strapping hw.
func I2CAddress(hw uint8) i2c.Address {
	trap.Expect(hw <= 7, errcode.ErrOutOfRange)
	return i2c.AddressNumeric(BaseAddress | hw)
}

// NewI2CTransport reaches an MCP23008 strapped to hw.
func NewI2CTransport(align i2c.BusMultiplexerAligner, c i2c.Controller, hw uint8) register.Transport {
	return register.I2C(i2c.NewDevice(align, c, I2CAddress(hw), errcode.ErrNonresponsiveDevice))
}

// spiTransport frames MCP23S08 accesses as opcode, register, data.
type spiTransport struct {
	dev    *spi.Device
	opcode uint8
}

// NewSPITransport reaches an MCP23S08 strapped to hw (A1..A0). Addresses
// other than 0 require IOCON.HAEN.
func NewSPITransport(dev *spi.Device, hw uint8) register.Transport {
	trap.Expect(dev != nil, errcode.ErrInvalidArgument)
	trap.Expect(hw <= 3, errcode.ErrOutOfRange)
	return spiTransport{dev: dev, opcode: 0x40 | hw<<1}
}

func (t spiTransport) ReadRegister(reg uint8) (uint8, error) {
	var b [1]byte
	err := t.ReadRegisters(reg, b[:])
	return b[0], err
}

func (t spiTransport) WriteRegister(reg, v uint8) error {
	return t.WriteRegisters(reg, []byte{v})
}

func (t spiTransport) ReadRegisters(reg uint8, p []byte) error {
	return t.dev.Transaction(func(c spi.Controller) error {
		if err := spi.Transmit(c, []byte{t.opcode | 1, reg}); err != nil {
			return err
		}
		return spi.Receive(c, p)
	})
}

func (t spiTransport) WriteRegisters(reg uint8, p []byte) error {
	return t.dev.Transaction(func(c spi.Controller) error {
		if err := spi.Transmit(c, []byte{t.opcode, reg}); err != nil {
			return err
		}
		return spi.Transmit(c, p)
	})
}
