// Package periphx exposes pin handles as periph.io gpio.PinIO so code written
// against periph.io can drive expander pins.
package periphx

import (
	"time"

	"devicecore-go/diag"
	"devicecore-go/errcode"
	"devicecore-go/gpio"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// PullUpConfigurable is implemented by inputs with a switchable pull-up.
type PullUpConfigurable interface {
	Initialize(gpio.PullUpState) error
}

// Pin adapts an input, an output, or both. A nil side rejects the matching
// periph calls.
type Pin struct {
	name   string
	number int
	in     gpio.InputPin
	out    gpio.OutputPin
	pull   pgpio.Pull
}

var _ pgpio.PinIO = (*Pin)(nil)

func New(name string, number int, p gpio.IOPin) *Pin {
	return &Pin{name: name, number: number, in: p, out: p, pull: pgpio.PullNoChange}
}

func NewInput(name string, number int, p gpio.InputPin) *Pin {
	return &Pin{name: name, number: number, in: p, pull: pgpio.PullNoChange}
}

func NewOutput(name string, number int, p gpio.OutputPin) *Pin {
	return &Pin{name: name, number: number, out: p, pull: pgpio.PullNoChange}
}

func (p *Pin) String() string { return p.name }
func (p *Pin) Name() string   { return p.name }
func (p *Pin) Number() int    { return p.number }
func (p *Pin) Halt() error    { return nil }

func (p *Pin) Function() string {
	switch {
	case p.in != nil && p.out != nil:
		return "IO"
	case p.in != nil:
		return "In"
	case p.out != nil:
		return "Out"
	}
	return ""
}

// In applies pull when the handle supports it. Edge detection is not
// available on expander pins.
func (p *Pin) In(pull pgpio.Pull, edge pgpio.Edge) error {
	if p.in == nil {
		return unsupported("in", "not an input")
	}
	if edge != pgpio.NoEdge {
		return unsupported("in", "edge detection")
	}
	if pull == pgpio.PullNoChange {
		return nil
	}
	pc, ok := p.in.(PullUpConfigurable)
	switch {
	case pull == pgpio.PullDown:
		return unsupported("in", "pull-down")
	case !ok && pull == pgpio.PullUp:
		return unsupported("in", "pull-up")
	case ok:
		state := gpio.PullUpDisabled
		if pull == pgpio.PullUp {
			state = gpio.PullUpEnabled
		}
		if err := pc.Initialize(state); err != nil {
			return err
		}
	}
	p.pull = pull
	return nil
}

// Read returns Low when the level cannot be read; the error is logged.
func (p *Pin) Read() pgpio.Level {
	if p.in == nil {
		return pgpio.Low
	}
	hi, err := p.in.IsHigh()
	if err != nil {
		diag.For(diag.ComponentGPIO).Warn("read failed", "pin", p.name, "err", err)
		return pgpio.Low
	}
	return pgpio.Level(hi)
}

func (p *Pin) WaitForEdge(time.Duration) bool { return false }
func (p *Pin) Pull() pgpio.Pull               { return p.pull }
func (p *Pin) DefaultPull() pgpio.Pull        { return pgpio.Float }

func (p *Pin) Out(l pgpio.Level) error {
	if p.out == nil {
		return unsupported("out", "not an output")
	}
	return gpio.Set(p.out, bool(l))
}

func (p *Pin) PWM(pgpio.Duty, physic.Frequency) error {
	return unsupported("pwm", "not supported")
}

func unsupported(op, msg string) error {
	return &errcode.E{C: errcode.ErrInvalidArgument, Op: "periphx." + op, Msg: msg}
}
