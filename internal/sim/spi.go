package sim

import (
	"devicecore-go/errcode"
	"devicecore-go/gpio"
	"devicecore-go/spi"
)

// SPITarget is a peripheral on a simulated SPI bus.
type SPITarget interface {
	Select()
	Exchange(b byte) byte
	Deselect()
}

// SPIBus is an spi.Controller that routes bytes to the selected target and
// records every configuration applied.
type SPIBus struct {
	Configs  []spi.Configuration
	selected SPITarget
}

var _ spi.Controller = (*SPIBus)(nil)

func (b *SPIBus) Configure(cfg spi.Configuration) error {
	b.Configs = append(b.Configs, cfg)
	return nil
}

func (b *SPIBus) Exchange(tx byte) (byte, error) {
	if b.selected == nil {
		return 0xFF, nil
	}
	return b.selected.Exchange(tx), nil
}

// Selector is the chip select of one target on an SPIBus.
type Selector struct {
	Bus    *SPIBus
	Target SPITarget
	// FailDeselect is returned by Deselect.
	FailDeselect error
}

var _ spi.DeviceSelector = (*Selector)(nil)

func (s *Selector) Initialize() error { return nil }

func (s *Selector) Select() error {
	if s.Bus.selected != nil {
		return errcode.ErrLogic
	}
	s.Bus.selected = s.Target
	s.Target.Select()
	return nil
}

func (s *Selector) Deselect() error {
	if s.Bus.selected == s.Target {
		s.Bus.selected = nil
		s.Target.Deselect()
	}
	return s.FailDeselect
}

// ChipSelectLine is a GPIO output wired to a target's chip select. The
// target is selected while the line is at its active level. It starts low.
type ChipSelectLine struct {
	Bus        *SPIBus
	Target     SPITarget
	ActiveHigh bool

	// Edges counts level changes.
	Edges int
	high  bool
}

var _ gpio.OutputPin = (*ChipSelectLine)(nil)

func (l *ChipSelectLine) TransitionToLow() error  { return l.set(false) }
func (l *ChipSelectLine) TransitionToHigh() error { return l.set(true) }
func (l *ChipSelectLine) Toggle() error           { return l.set(!l.high) }

// High reports the line level.
func (l *ChipSelectLine) High() bool { return l.high }

func (l *ChipSelectLine) set(high bool) error {
	if high != l.high {
		l.Edges++
	}
	l.high = high
	active := high == l.ActiveHigh
	switch {
	case active && l.Bus.selected == nil:
		l.Bus.selected = l.Target
		l.Target.Select()
	case active && l.Bus.selected != l.Target:
		return errcode.ErrLogic
	case !active && l.Bus.selected == l.Target:
		l.Bus.selected = nil
		l.Target.Deselect()
	}
	return nil
}

// SPIExpander speaks MCP23S08 framing: opcode 0b0100_0AAR, register, data.
type SPIExpander struct {
	File RegisterFile
	HW   uint8

	n     int
	read  bool
	match bool
	ptr   uint8
}

var _ SPITarget = (*SPIExpander)(nil)

func (x *SPIExpander) Select()   { x.n = 0 }
func (x *SPIExpander) Deselect() {}

func (x *SPIExpander) Exchange(b byte) byte {
	defer func() { x.n++ }()
	switch x.n {
	case 0:
		x.match = b&0xFE == 0x40|x.HW<<1
		x.read = b&1 == 1
		return 0
	case 1:
		x.ptr = b
		return 0
	}
	if !x.match {
		return 0
	}
	if x.read {
		v := x.File.Load(x.ptr)
		x.ptr++
		return v
	}
	x.File.Store(x.ptr, b)
	x.ptr++
	return 0
}
