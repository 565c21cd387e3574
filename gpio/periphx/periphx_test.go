package periphx

import (
	"errors"
	"testing"

	"devicecore-go/errcode"
	"devicecore-go/gpio"

	pgpio "periph.io/x/conn/v3/gpio"
)

type fakeIO struct {
	level  bool
	pullUp gpio.PullUpState
	err    error
}

func (f *fakeIO) IsLow() (bool, error)  { return !f.level, f.err }
func (f *fakeIO) IsHigh() (bool, error) { return f.level, f.err }
func (f *fakeIO) TransitionToLow() error {
	f.level = false
	return nil
}
func (f *fakeIO) TransitionToHigh() error {
	f.level = true
	return nil
}
func (f *fakeIO) Toggle() error {
	f.level = !f.level
	return nil
}
func (f *fakeIO) Initialize(s gpio.PullUpState) error {
	f.pullUp = s
	return nil
}

var (
	_ gpio.IOPin         = (*fakeIO)(nil)
	_ PullUpConfigurable = (*fakeIO)(nil)
)

func TestOutAndRead(t *testing.T) {
	raw := &fakeIO{}
	var p pgpio.PinIO = New("GPA3", 3, raw)

	if err := p.Out(pgpio.High); err != nil {
		t.Fatal(err)
	}
	if !raw.level || p.Read() != pgpio.High {
		t.Fatalf("Out(High) not visible")
	}
	if p.Function() != "IO" || p.Number() != 3 || p.String() != "GPA3" {
		t.Fatalf("identity = %s/%d/%s", p.Function(), p.Number(), p.String())
	}

	raw.err = errcode.ErrNonresponsiveDevice
	if p.Read() != pgpio.Low {
		t.Fatalf("failed read should report Low")
	}
}

func TestInPull(t *testing.T) {
	raw := &fakeIO{}
	p := New("GPA0", 0, raw)

	if err := p.In(pgpio.PullUp, pgpio.NoEdge); err != nil {
		t.Fatal(err)
	}
	if raw.pullUp != gpio.PullUpEnabled || p.Pull() != pgpio.PullUp {
		t.Fatalf("pull-up not applied")
	}
	if err := p.In(pgpio.PullDown, pgpio.NoEdge); !errors.Is(err, errcode.ErrInvalidArgument) {
		t.Fatalf("pull-down err = %v", err)
	}
	if err := p.In(pgpio.Float, pgpio.RisingEdge); !errors.Is(err, errcode.ErrInvalidArgument) {
		t.Fatalf("edge err = %v", err)
	}
	if p.WaitForEdge(0) {
		t.Fatalf("WaitForEdge reported an edge")
	}
}

func TestOneSided(t *testing.T) {
	in := NewInput("in", 1, &fakeIO{})
	if err := in.Out(pgpio.High); err == nil {
		t.Fatalf("Out on input-only pin succeeded")
	}
	out := NewOutput("out", 2, &fakeIO{})
	if err := out.In(pgpio.Float, pgpio.NoEdge); err == nil {
		t.Fatalf("In on output-only pin succeeded")
	}
	if out.Function() != "Out" {
		t.Fatalf("Function = %q", out.Function())
	}
}
