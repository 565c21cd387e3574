// Package mcp23x08 drives the MCP23008 (I²C) and MCP23S08 (SPI) 8-bit port
// expanders.
//
// Configuration registers and the output latch are cached: reads of IODIR,
// GPPU, OLAT and friends never touch the bus, writes go through. The port,
// interrupt flag and capture registers are always read from the device.
//
// Pin handles claim disjoint bits of the port; see the *Pin types.
package mcp23x08

import (
	"devicecore-go/diag"
	"devicecore-go/errcode"
	"devicecore-go/register"
	"devicecore-go/trap"
	"devicecore-go/x/bitx"
)

// Register addresses (IOCON.BANK is irrelevant on the 8-bit parts).
const (
	RegIODIR   uint8 = 0x00
	RegIPOL    uint8 = 0x01
	RegGPINTEN uint8 = 0x02
	RegDEFVAL  uint8 = 0x03
	RegINTCON  uint8 = 0x04
	RegIOCON   uint8 = 0x05
	RegGPPU    uint8 = 0x06
	RegINTF    uint8 = 0x07
	RegINTCAP  uint8 = 0x08
	RegGPIO    uint8 = 0x09
	RegOLAT    uint8 = 0x0A

	numRegs = 0x0B
)

// IOCON bits.
const (
	IOCONIntPol uint8 = 1 << 1 // INT active high
	IOCONODR    uint8 = 1 << 2 // INT open drain
	IOCONHAEN   uint8 = 1 << 3 // MCP23S08 hardware address enable
	IOCONDISSLW uint8 = 1 << 4 // SDA slew rate disabled
	IOCONSEQOP  uint8 = 1 << 5 // sequential operation disabled
)

// Power-on values. Every pin starts as an input.
var resetValues = [numRegs]uint8{RegIODIR: 0xFF}

// Mask returns the mask for pin n (0-7).
func Mask(n int) uint8 {
	trap.Expect(n >= 0 && n < 8, errcode.ErrOutOfRange)
	return bitx.Mask[uint8](n)
}

// Driver caches the expander's configuration and tracks pin ownership.
type Driver struct {
	cache   *register.Cache
	shadow  [numRegs]uint8
	claimed uint8
}

// New binds a driver to a transport. It performs no bus I/O.
func New(t register.Transport) *Driver {
	d := &Driver{}
	d.cache = register.NewCache(t, resetValues[:], d.shadow[:])
	d.cache.Reset()
	return d
}

// Initialize returns the cache to the power-on state. Call it after the
// device has been reset.
func (d *Driver) Initialize() { d.cache.Reset() }

func (d *Driver) Transport() register.Transport { return d.cache.Transport() }

func (d *Driver) IODIR() uint8   { return d.cache.Read(RegIODIR) }
func (d *Driver) IPOL() uint8    { return d.cache.Read(RegIPOL) }
func (d *Driver) GPINTEN() uint8 { return d.cache.Read(RegGPINTEN) }
func (d *Driver) DEFVAL() uint8  { return d.cache.Read(RegDEFVAL) }
func (d *Driver) INTCON() uint8  { return d.cache.Read(RegINTCON) }
func (d *Driver) IOCON() uint8   { return d.cache.Read(RegIOCON) }
func (d *Driver) GPPU() uint8    { return d.cache.Read(RegGPPU) }
func (d *Driver) OLAT() uint8    { return d.cache.Read(RegOLAT) }

func (d *Driver) ReadGPIO() (uint8, error)   { return d.Transport().ReadRegister(RegGPIO) }
func (d *Driver) ReadINTF() (uint8, error)   { return d.Transport().ReadRegister(RegINTF) }
func (d *Driver) ReadINTCAP() (uint8, error) { return d.Transport().ReadRegister(RegINTCAP) }

func (d *Driver) SetIODIRBits(mask uint8) error   { return d.cache.Update(RegIODIR, mask, 0) }
func (d *Driver) ClearIODIRBits(mask uint8) error { return d.cache.Update(RegIODIR, 0, mask) }
func (d *Driver) ToggleIODIRBits(mask uint8) error {
	return d.cache.Write(RegIODIR, d.IODIR()^mask)
}

func (d *Driver) SetGPPUBits(mask uint8) error   { return d.cache.Update(RegGPPU, mask, 0) }
func (d *Driver) ClearGPPUBits(mask uint8) error { return d.cache.Update(RegGPPU, 0, mask) }

func (d *Driver) SetOLATBits(mask uint8) error   { return d.cache.Update(RegOLAT, mask, 0) }
func (d *Driver) ClearOLATBits(mask uint8) error { return d.cache.Update(RegOLAT, 0, mask) }
func (d *Driver) ToggleOLATBits(mask uint8) error {
	return d.cache.Write(RegOLAT, d.OLAT()^mask)
}

func (d *Driver) WriteIOCON(v uint8) error { return d.cache.Write(RegIOCON, v) }
func (d *Driver) WriteIPOL(v uint8) error  { return d.cache.Write(RegIPOL, v) }

// ConfigureInterrupts sets interrupt-on-change for the pins in enable.
// Pins in compare interrupt when they differ from defval; the others on
// any change.
func (d *Driver) ConfigureInterrupts(enable, compare, defval uint8) error {
	if err := d.cache.Write(RegDEFVAL, defval); err != nil {
		return err
	}
	if err := d.cache.Write(RegINTCON, compare); err != nil {
		return err
	}
	return d.cache.Write(RegGPINTEN, enable)
}

// Claim records ownership of mask. Overlapping claims are a logic error.
func (d *Driver) Claim(mask uint8) {
	trap.Expect(mask != 0, errcode.ErrInvalidArgument)
	trap.Expect(d.claimed&mask == 0, errcode.ErrLogic)
	d.claimed |= mask
	diag.For(diag.ComponentGPIO).Debug("mcp23x08 claim", "mask", mask, "claimed", d.claimed)
}

// Claimed returns the bits owned by live pin handles.
func (d *Driver) Claimed() uint8 { return d.claimed }

func (d *Driver) release(mask uint8) { d.claimed &^= mask }
