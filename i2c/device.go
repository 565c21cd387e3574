package i2c

import (
	"devicecore-go/errcode"
	"devicecore-go/trap"
)

// BusMultiplexerAligner routes the bus to the segment a device sits on.
type BusMultiplexerAligner func() error

// NopAligner is used for devices on an unmultiplexed bus.
func NopAligner() error { return nil }

// PingOperation selects which directions Ping probes.
type PingOperation uint8

const (
	PingRead PingOperation = 1 << iota
	PingWrite
	PingBoth = PingRead | PingWrite
)

// Device is a target at a fixed address, reached through an aligner.
type Device struct {
	align         BusMultiplexerAligner
	c             Controller
	addr          Address
	nonresponsive errcode.Code
}

// NewDevice binds a device. A nil aligner means NopAligner.
// nonresponsive is returned whenever the device NACKs.
func NewDevice(align BusMultiplexerAligner, c Controller, addr Address, nonresponsive errcode.Code) *Device {
	trap.Expect(c != nil, errcode.ErrInvalidArgument)
	if align == nil {
		align = NopAligner
	}
	return &Device{align: align, c: c, addr: addr, nonresponsive: nonresponsive}
}

func (d *Device) Address() Address            { return d.addr }
func (d *Device) Controller() Controller      { return d.c }
func (d *Device) Nonresponsive() errcode.Code { return d.nonresponsive }

// Ping reports whether the device acknowledges its address in the
// requested directions. op must name at least one direction.
func (d *Device) Ping(op PingOperation) (bool, error) {
	trap.Expect(op&PingBoth != 0, errcode.ErrInvalidArgument)
	if err := d.align(); err != nil {
		return false, err
	}
	ok := true
	for _, dir := range [...]struct {
		p  PingOperation
		op Operation
	}{{PingRead, Read}, {PingWrite, Write}} {
		if op&dir.p == 0 {
			continue
		}
		resp, err := probe(d.c, d.addr, dir.op)
		if err != nil {
			return false, err
		}
		ok = ok && resp == ACK
	}
	return ok, nil
}

// Read reads one register.
func (d *Device) Read(reg uint8) (uint8, error) {
	var b [1]byte
	if err := d.ReadBlock(reg, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadBlock reads len(p) consecutive bytes starting at reg. p must not be
// empty: the target drives a byte once addressed for reading.
func (d *Device) ReadBlock(reg uint8, p []byte) error {
	trap.Expect(len(p) > 0, errcode.ErrInvalidArgument)
	return d.transact(func(g *BusControlGuard) error {
		if err := d.address(Write); err != nil {
			return err
		}
		if err := d.write([]byte{reg}); err != nil {
			return err
		}
		if err := g.RepeatedStart(); err != nil {
			return err
		}
		if err := d.address(Read); err != nil {
			return err
		}
		return ReadBlock(d.c, p, NACK)
	})
}

// Write writes one register.
func (d *Device) Write(reg, v uint8) error {
	return d.WriteBlock(reg, []byte{v})
}

// WriteBlock writes p to consecutive registers starting at reg.
func (d *Device) WriteBlock(reg uint8, p []byte) error {
	return d.transact(func(*BusControlGuard) error {
		if err := d.address(Write); err != nil {
			return err
		}
		if err := d.write([]byte{reg}); err != nil {
			return err
		}
		return d.write(p)
	})
}

// ReadRaw reads len(p) bytes with no register framing. p must not be empty.
func (d *Device) ReadRaw(p []byte) error {
	trap.Expect(len(p) > 0, errcode.ErrInvalidArgument)
	return d.transact(func(*BusControlGuard) error {
		if err := d.address(Read); err != nil {
			return err
		}
		return ReadBlock(d.c, p, NACK)
	})
}

// WriteRaw writes p with no register framing.
func (d *Device) WriteRaw(p []byte) error {
	return d.transact(func(*BusControlGuard) error {
		if err := d.address(Write); err != nil {
			return err
		}
		return d.write(p)
	})
}

func (d *Device) transact(fn func(g *BusControlGuard) error) error {
	if err := d.align(); err != nil {
		return err
	}
	g, err := Acquire(d.c)
	if err != nil {
		return err
	}
	defer g.Release()
	return fn(&g)
}

func (d *Device) address(op Operation) error {
	resp, err := d.c.Address(d.addr, op)
	if err != nil {
		return err
	}
	if resp == NACK {
		return d.nonresponsive
	}
	return nil
}

func (d *Device) write(p []byte) error {
	resp, err := WriteBlock(d.c, p)
	if err != nil {
		return err
	}
	if resp == NACK {
		return d.nonresponsive
	}
	return nil
}
