package mcp23x08

import (
	"devicecore-go/diag"
	"devicecore-go/errcode"
	"devicecore-go/gpio"
	"devicecore-go/trap"
)

// handle is the (driver, mask) pair shared by every pin variant. Creating a
// handle claims the mask and puts the bits in the safe default: input with
// the pull-up off. Close restores that default and gives up the claim.
type handle struct {
	d    *Driver
	mask uint8
}

func newHandle(d *Driver, mask uint8) (handle, error) {
	trap.Expect(d != nil, errcode.ErrInvalidArgument)
	d.Claim(mask)
	if err := safeDefault(d, mask); err != nil {
		d.release(mask)
		return handle{}, err
	}
	return handle{d: d, mask: mask}, nil
}

// safeDefault writes only the registers whose cached bits differ.
func safeDefault(d *Driver, mask uint8) error {
	if err := d.SetIODIRBits(mask); err != nil {
		return err
	}
	return d.ClearGPPUBits(mask)
}

// Mask returns the owned bits; zero once closed or moved from.
func (h *handle) Mask() uint8 { return h.mask }

func (h *handle) live() *Driver {
	trap.Expect(h.mask != 0, errcode.ErrLogic)
	return h.d
}

// Close restores the safe default and releases the bits. The claim is given
// up even if the bus write fails.
func (h *handle) Close() error {
	if h.mask == 0 {
		return nil
	}
	d, mask := h.d, h.mask
	h.mask = 0
	defer d.release(mask)

	err := d.SetIODIRBits(mask)
	if err2 := d.ClearGPPUBits(mask); err == nil {
		err = err2
	}
	if err != nil {
		diag.For(diag.ComponentGPIO).Warn("mcp23x08 pin release failed", "mask", mask, "err", err)
	}
	return err
}

func (h *handle) moveFrom(src *handle) error {
	if h == src {
		return nil
	}
	err := h.Close()
	h.d, h.mask = src.d, src.mask
	src.mask = 0
	return err
}

func (h *handle) readLow() (bool, error) {
	v, err := h.live().ReadGPIO()
	if err != nil {
		return false, err
	}
	return v&h.mask == 0, nil
}

func (h *handle) readHigh() (bool, error) {
	low, err := h.readLow()
	return !low && err == nil, err
}

// InternallyPulledUpInputPin is an input with a switchable pull-up.
type InternallyPulledUpInputPin struct{ handle }

var _ gpio.InputPin = (*InternallyPulledUpInputPin)(nil)

func NewInternallyPulledUpInputPin(d *Driver, mask uint8) (*InternallyPulledUpInputPin, error) {
	h, err := newHandle(d, mask)
	if err != nil {
		return nil, err
	}
	return &InternallyPulledUpInputPin{h}, nil
}

// Initialize makes the pins inputs and applies pull.
func (p *InternallyPulledUpInputPin) Initialize(pull gpio.PullUpState) error {
	d := p.live()
	if err := d.SetIODIRBits(p.mask); err != nil {
		return err
	}
	if pull == gpio.PullUpEnabled {
		return d.SetGPPUBits(p.mask)
	}
	return d.ClearGPPUBits(p.mask)
}

func (p *InternallyPulledUpInputPin) IsLow() (bool, error)  { return p.readLow() }
func (p *InternallyPulledUpInputPin) IsHigh() (bool, error) { return p.readHigh() }

// MoveFrom takes over src's bits, closing p's own first.
func (p *InternallyPulledUpInputPin) MoveFrom(src *InternallyPulledUpInputPin) error {
	return p.moveFrom(&src.handle)
}

// PushPullIOPin drives its bits from the output latch. The state queries
// report the latch, not the pin.
type PushPullIOPin struct{ handle }

var _ gpio.IOPin = (*PushPullIOPin)(nil)

func NewPushPullIOPin(d *Driver, mask uint8) (*PushPullIOPin, error) {
	h, err := newHandle(d, mask)
	if err != nil {
		return nil, err
	}
	return &PushPullIOPin{h}, nil
}

// Initialize loads the latch, then turns the bits into outputs.
func (p *PushPullIOPin) Initialize(s gpio.InitialState) error {
	d := p.live()
	var err error
	if s == gpio.High {
		err = d.SetOLATBits(p.mask)
	} else {
		err = d.ClearOLATBits(p.mask)
	}
	if err != nil {
		return err
	}
	return d.ClearIODIRBits(p.mask)
}

func (p *PushPullIOPin) IsLow() (bool, error)    { return p.live().OLAT()&p.mask == 0, nil }
func (p *PushPullIOPin) IsHigh() (bool, error)   { return p.live().OLAT()&p.mask != 0, nil }
func (p *PushPullIOPin) TransitionToLow() error  { return p.live().ClearOLATBits(p.mask) }
func (p *PushPullIOPin) TransitionToHigh() error { return p.live().SetOLATBits(p.mask) }
func (p *PushPullIOPin) Toggle() error           { return p.live().ToggleOLATBits(p.mask) }

func (p *PushPullIOPin) MoveFrom(src *PushPullIOPin) error { return p.moveFrom(&src.handle) }

// OpenDrainIOPin emulates an open-drain output: the latch stays low and
// the direction bit switches between driving low (output) and released
// (input).
type OpenDrainIOPin struct{ handle }

var _ gpio.IOPin = (*OpenDrainIOPin)(nil)

func NewOpenDrainIOPin(d *Driver, mask uint8) (*OpenDrainIOPin, error) {
	h, err := newHandle(d, mask)
	if err != nil {
		return nil, err
	}
	return &OpenDrainIOPin{h}, nil
}

func (p *OpenDrainIOPin) Initialize(s gpio.InitialState) error {
	d := p.live()
	if err := d.ClearOLATBits(p.mask); err != nil {
		return err
	}
	if s == gpio.High {
		return d.SetIODIRBits(p.mask)
	}
	return d.ClearIODIRBits(p.mask)
}

func (p *OpenDrainIOPin) IsLow() (bool, error)    { return p.readLow() }
func (p *OpenDrainIOPin) IsHigh() (bool, error)   { return p.readHigh() }
func (p *OpenDrainIOPin) TransitionToLow() error  { return p.live().ClearIODIRBits(p.mask) }
func (p *OpenDrainIOPin) TransitionToHigh() error { return p.live().SetIODIRBits(p.mask) }
func (p *OpenDrainIOPin) Toggle() error           { return p.live().ToggleIODIRBits(p.mask) }

func (p *OpenDrainIOPin) MoveFrom(src *OpenDrainIOPin) error { return p.moveFrom(&src.handle) }
