package i2c

import (
	"devicecore-go/diag"
	"devicecore-go/errcode"
	"devicecore-go/trap"
)

// BusControlGuard holds the bus between a start and its stop.
//
//	g, err := i2c.Acquire(c)
//	if err != nil {
//		return err
//	}
//	defer g.Release()
type BusControlGuard struct {
	c      Controller
	active bool
}

// Acquire emits a start. On failure no stop is emitted.
func Acquire(c Controller) (BusControlGuard, error) {
	trap.Expect(c != nil, errcode.ErrInvalidArgument)
	if err := c.Start(); err != nil {
		return BusControlGuard{}, err
	}
	return BusControlGuard{c: c, active: true}, nil
}

func (g *BusControlGuard) Active() bool { return g.active }

// RepeatedStart re-issues a start without releasing the bus.
func (g *BusControlGuard) RepeatedStart() error {
	trap.Expect(g.active, errcode.ErrLogic)
	return g.c.RepeatedStart()
}

// Release emits the stop. A failed stop leaves the bus in an unknown state
// and is fatal. Calling Release again does nothing.
func (g *BusControlGuard) Release() {
	if !g.active {
		return
	}
	g.active = false
	if err := g.c.Stop(); err != nil {
		diag.For(diag.ComponentI2C).Error("stop failed", "err", err)
		trap.Fatal(errcode.Of(err))
	}
}
