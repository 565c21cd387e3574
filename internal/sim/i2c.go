// Package sim provides in-memory buses and peripherals for tests and the
// console. Nothing here is safe for concurrent use.
package sim

import (
	"devicecore-go/errcode"
	"devicecore-go/i2c"
)

// I2CTarget is a device on a simulated bus. Begin follows an acknowledged
// address phase; End follows the stop or repeated start that closes it.
type I2CTarget interface {
	Begin(op i2c.Operation)
	WriteByte(b byte) i2c.Response
	ReadByte() byte
	End()
}

// I2CBus is a bit-level i2c.Controller over attached targets.
type I2CBus struct {
	targets map[uint8]I2CTarget
	muxes   []*Mux

	// FailStart and FailStop, when set, are returned by the next Start and
	// every Stop.
	FailStart error
	FailStop  error

	// Log records bus conditions when Trace is set.
	Trace bool
	Log   []string

	Starts, Stops int

	started bool
	active  I2CTarget
}

var _ i2c.Controller = (*I2CBus)(nil)

func NewI2CBus() *I2CBus { return &I2CBus{targets: map[uint8]I2CTarget{}} }

// Attach places t at numeric address addr on the root segment.
func (b *I2CBus) Attach(addr uint8, t I2CTarget) { b.targets[addr] = t }

// AttachMux places m at addr; targets behind it answer while their channel
// is enabled.
func (b *I2CBus) AttachMux(addr uint8, m *Mux) {
	b.targets[addr] = m
	b.muxes = append(b.muxes, m)
}

func (b *I2CBus) lookup(addr uint8) I2CTarget {
	if t, ok := b.targets[addr]; ok {
		return t
	}
	for _, m := range b.muxes {
		if t := m.lookup(addr); t != nil {
			return t
		}
	}
	return nil
}

func (b *I2CBus) trace(s string) {
	if b.Trace {
		b.Log = append(b.Log, s)
	}
}

func (b *I2CBus) end() {
	if b.active != nil {
		b.active.End()
		b.active = nil
	}
}

func (b *I2CBus) Start() error {
	if err := b.FailStart; err != nil {
		b.FailStart = nil
		return err
	}
	if b.started {
		return errcode.ErrLogic
	}
	b.started = true
	b.Starts++
	b.trace("S")
	return nil
}

func (b *I2CBus) RepeatedStart() error {
	if !b.started {
		return errcode.ErrLogic
	}
	b.end()
	b.trace("Sr")
	return nil
}

func (b *I2CBus) Stop() error {
	b.end()
	b.started = false
	b.Stops++
	b.trace("P")
	return b.FailStop
}

func (b *I2CBus) Address(a i2c.Address, op i2c.Operation) (i2c.Response, error) {
	if !b.started {
		return i2c.NACK, errcode.ErrLogic
	}
	b.end()
	t := b.lookup(a.Numeric())
	resp := i2c.NACK
	if t != nil {
		resp = i2c.ACK
		b.active = t
		t.Begin(op)
	}
	b.trace(a.String() + " " + op.String() + " " + resp.String())
	return resp, nil
}

func (b *I2CBus) Read(resp i2c.Response) (byte, error) {
	if !b.started {
		return 0, errcode.ErrLogic
	}
	v := byte(0xFF)
	if b.active != nil {
		v = b.active.ReadByte()
	}
	b.trace("R " + resp.String())
	return v, nil
}

func (b *I2CBus) Write(v byte) (i2c.Response, error) {
	if !b.started {
		return i2c.NACK, errcode.ErrLogic
	}
	resp := i2c.NACK
	if b.active != nil {
		resp = b.active.WriteByte(v)
	}
	b.trace("W " + resp.String())
	return resp, nil
}

// Mux models a TCA9548A: one control byte, bit n enables channel n.
type Mux struct {
	Control  byte
	channels [8]map[uint8]I2CTarget
	Writes   int
}

var _ I2CTarget = (*Mux)(nil)

func NewMux() *Mux { return &Mux{} }

// Attach places t at addr behind channel ch.
func (m *Mux) Attach(ch int, addr uint8, t I2CTarget) {
	if m.channels[ch] == nil {
		m.channels[ch] = map[uint8]I2CTarget{}
	}
	m.channels[ch][addr] = t
}

func (m *Mux) lookup(addr uint8) I2CTarget {
	for ch, targets := range m.channels {
		if m.Control&(1<<ch) == 0 {
			continue
		}
		if t, ok := targets[addr]; ok {
			return t
		}
	}
	return nil
}

func (m *Mux) Begin(i2c.Operation) {}
func (m *Mux) End()                {}
func (m *Mux) ReadByte() byte      { return m.Control }

func (m *Mux) WriteByte(b byte) i2c.Response {
	m.Control = b
	m.Writes++
	return i2c.ACK
}
