package spi

import (
	"devicecore-go/diag"
	"devicecore-go/errcode"
	"devicecore-go/gpio"
	"devicecore-go/trap"
)

// DeviceSelector drives a chip select.
type DeviceSelector interface {
	Initialize() error
	Select() error
	Deselect() error
}

// SelectionGuard keeps a device selected until Release.
type SelectionGuard struct {
	sel    DeviceSelector
	active bool
}

// Select asserts sel. On failure there is nothing to release.
func Select(sel DeviceSelector) (SelectionGuard, error) {
	trap.Expect(sel != nil, errcode.ErrInvalidArgument)
	if err := sel.Select(); err != nil {
		return SelectionGuard{}, err
	}
	return SelectionGuard{sel: sel, active: true}, nil
}

// Release deselects. A failed deselect leaves the device holding the bus and
// is fatal. Calling Release again does nothing.
func (g *SelectionGuard) Release() {
	if !g.active {
		return
	}
	g.active = false
	if err := g.sel.Deselect(); err != nil {
		diag.For(diag.ComponentSPI).Error("deselect failed", "err", err)
		trap.Fatal(errcode.Of(err))
	}
}

// GPIOSelector is an active-low chip select on an output pin.
type GPIOSelector struct{ Pin gpio.OutputPin }

func (s GPIOSelector) Initialize() error { return s.Pin.TransitionToHigh() }
func (s GPIOSelector) Select() error     { return s.Pin.TransitionToLow() }
func (s GPIOSelector) Deselect() error   { return s.Pin.TransitionToHigh() }

// ActiveHighSelector is a chip select asserted high.
type ActiveHighSelector struct{ Pin gpio.OutputPin }

func (s ActiveHighSelector) Initialize() error { return s.Pin.TransitionToLow() }
func (s ActiveHighSelector) Select() error     { return s.Pin.TransitionToHigh() }
func (s ActiveHighSelector) Deselect() error   { return s.Pin.TransitionToLow() }

// NopSelector is for a device that owns the bus alone with CS tied active.
type NopSelector struct{}

func (NopSelector) Initialize() error { return nil }
func (NopSelector) Select() error     { return nil }
func (NopSelector) Deselect() error   { return nil }
