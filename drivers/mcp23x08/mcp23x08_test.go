package mcp23x08

import (
	"testing"

	"devicecore-go/errcode"
	"devicecore-go/gpio"
	"devicecore-go/i2c"
	"devicecore-go/internal/sim"
	"devicecore-go/spi"
	"devicecore-go/trap"
)

func newI2C(t *testing.T) (*Driver, *sim.Expander, *sim.I2CBus) {
	t.Helper()
	bus := sim.NewI2CBus()
	exp := sim.NewExpander()
	bus.Attach(0x23, sim.NewRegisterTarget(exp))
	d := New(NewI2CTransport(i2c.NopAligner, bus, 3))
	d.Initialize()
	return d, exp, bus
}

// must unwraps a pin constructor in tests that expect it to succeed.
func must[P any](p P, err error) P {
	if err != nil {
		panic(err)
	}
	return p
}

func quietTraps(t *testing.T) {
	t.Helper()
	prev := trap.SetHandler(func(loc trap.Location, err errcode.Code) {
		panic(&trap.Failure{Location: loc, Code: err})
	})
	t.Cleanup(func() { trap.SetHandler(prev) })
}

func TestPushPullDrivesLatch(t *testing.T) {
	d, exp, _ := newI2C(t)
	p := must(NewPushPullIOPin(d, Mask(2)))

	if err := p.Initialize(gpio.High); err != nil {
		t.Fatal(err)
	}
	if exp.Reg(RegOLAT) != 0x04 || exp.Reg(RegIODIR) != 0xFB {
		t.Fatalf("OLAT=%#x IODIR=%#x", exp.Reg(RegOLAT), exp.Reg(RegIODIR))
	}
	if err := p.TransitionToLow(); err != nil {
		t.Fatal(err)
	}
	if lo, _ := p.IsLow(); !lo || exp.Port()&0x04 != 0 {
		t.Fatalf("pin not low after TransitionToLow")
	}
}

func TestToggleTwiceIsNoOp(t *testing.T) {
	d, exp, _ := newI2C(t)
	p := must(NewPushPullIOPin(d, Mask(0)|Mask(7)))
	if err := p.Initialize(gpio.Low); err != nil {
		t.Fatal(err)
	}
	before := d.OLAT()
	for i := 0; i < 2; i++ {
		if err := p.Toggle(); err != nil {
			t.Fatal(err)
		}
	}
	if d.OLAT() != before || exp.Reg(RegOLAT) != before {
		t.Fatalf("OLAT %#x -> %#x", before, d.OLAT())
	}
}

func TestCachedReadsSkipBus(t *testing.T) {
	d, _, bus := newI2C(t)
	if err := d.SetGPPUBits(0x0F); err != nil {
		t.Fatal(err)
	}
	starts := bus.Starts
	if d.GPPU() != 0x0F || d.IODIR() != 0xFF || d.OLAT() != 0 {
		t.Fatalf("cache GPPU=%#x IODIR=%#x", d.GPPU(), d.IODIR())
	}
	if err := d.SetGPPUBits(0x0F); err != nil {
		t.Fatal(err)
	}
	if bus.Starts != starts {
		t.Fatalf("cached access used the bus")
	}
}

func TestCloseRestoresSafeDefault(t *testing.T) {
	d, exp, _ := newI2C(t)

	in := must(NewInternallyPulledUpInputPin(d, Mask(0)))
	pp := must(NewPushPullIOPin(d, Mask(1)))
	od := must(NewOpenDrainIOPin(d, Mask(2)|Mask(3)))
	if err := in.Initialize(gpio.PullUpEnabled); err != nil {
		t.Fatal(err)
	}
	if err := pp.Initialize(gpio.High); err != nil {
		t.Fatal(err)
	}
	if err := od.Initialize(gpio.Low); err != nil {
		t.Fatal(err)
	}
	if err := d.SetGPPUBits(0x0F); err != nil {
		t.Fatal(err)
	}

	for _, c := range []interface {
		Close() error
		Mask() uint8
	}{in, pp, od} {
		m := c.Mask()
		if err := c.Close(); err != nil {
			t.Fatal(err)
		}
		if exp.Reg(RegIODIR)&m != m || exp.Reg(RegGPPU)&m != 0 {
			t.Fatalf("mask %#x: IODIR=%#x GPPU=%#x", m, exp.Reg(RegIODIR), exp.Reg(RegGPPU))
		}
		if c.Mask() != 0 {
			t.Fatalf("mask not cleared after Close")
		}
		if err := c.Close(); err != nil {
			t.Fatalf("second Close: %v", err)
		}
	}
	if d.Claimed() != 0 {
		t.Fatalf("claims left: %#x", d.Claimed())
	}
}

func TestConstructorAppliesSafeDefault(t *testing.T) {
	d, exp, bus := newI2C(t)
	if err := d.ClearIODIRBits(Mask(0)); err != nil {
		t.Fatal(err)
	}
	if err := d.SetGPPUBits(Mask(0)); err != nil {
		t.Fatal(err)
	}

	p := must(NewInternallyPulledUpInputPin(d, Mask(0)))
	if exp.Reg(RegIODIR) != 0xFF || exp.Reg(RegGPPU) != 0x00 {
		t.Fatalf("IODIR=%#x GPPU=%#x, want 0xff 0x00", exp.Reg(RegIODIR), exp.Reg(RegGPPU))
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}

	// Bits already at the default cost no bus traffic.
	starts := bus.Starts
	q := must(NewPushPullIOPin(d, Mask(3)))
	if bus.Starts != starts {
		t.Fatalf("constructor on default bits used the bus")
	}
	_ = q.Close()
}

func TestConstructorFailureReleasesClaim(t *testing.T) {
	d, _, bus := newI2C(t)
	if err := d.ClearIODIRBits(Mask(2)); err != nil {
		t.Fatal(err)
	}

	bus.FailStart = errcode.ErrTimeout
	p, err := NewOpenDrainIOPin(d, Mask(2))
	if errcode.Of(err) != errcode.ErrTimeout || p != nil {
		t.Fatalf("got %v, %v; want nil, OPERATION_TIMEOUT", p, err)
	}
	if d.Claimed() != 0 {
		t.Fatalf("claim kept after failed constructor: %#x", d.Claimed())
	}
	if d.IODIR()&Mask(2) != 0 {
		t.Fatalf("cache updated after failed write")
	}
}

func TestOverlappingClaimTraps(t *testing.T) {
	quietTraps(t)
	d, _, _ := newI2C(t)
	_ = must(NewPushPullIOPin(d, 0x03))
	f := trap.Catch(func() { _, _ = NewOpenDrainIOPin(d, 0x06) })
	if f == nil || f.Code != errcode.ErrLogic {
		t.Fatalf("overlap not trapped: %+v", f)
	}
	if f := trap.Catch(func() { Mask(8) }); f == nil || f.Code != errcode.ErrOutOfRange {
		t.Fatalf("Mask(8): %+v", f)
	}
}

func TestMoveFrom(t *testing.T) {
	quietTraps(t)
	d, exp, _ := newI2C(t)
	a := must(NewPushPullIOPin(d, Mask(4)))
	b := must(NewPushPullIOPin(d, Mask(5)))
	if err := b.Initialize(gpio.Low); err != nil {
		t.Fatal(err)
	}

	if err := a.MoveFrom(a); err != nil || a.Mask() != Mask(4) {
		t.Fatalf("self move changed the handle")
	}
	if err := b.MoveFrom(a); err != nil {
		t.Fatal(err)
	}
	if b.Mask() != Mask(4) || a.Mask() != 0 {
		t.Fatalf("after move a=%#x b=%#x", a.Mask(), b.Mask())
	}
	if exp.Reg(RegIODIR)&Mask(5) == 0 {
		t.Fatalf("destination's old bits not released to input")
	}
	if d.Claimed() != Mask(4) {
		t.Fatalf("claimed = %#x", d.Claimed())
	}
	if f := trap.Catch(func() { _ = a.Toggle() }); f == nil || f.Code != errcode.ErrLogic {
		t.Fatalf("moved-from handle still usable: %+v", f)
	}
}

func TestOpenDrain(t *testing.T) {
	d, exp, _ := newI2C(t)
	exp.Inputs = 0xFF
	p := must(NewOpenDrainIOPin(d, Mask(6)))

	if err := p.Initialize(gpio.High); err != nil {
		t.Fatal(err)
	}
	if hi, err := p.IsHigh(); err != nil || !hi {
		t.Fatalf("released line reads %v, %v", hi, err)
	}
	if err := p.TransitionToLow(); err != nil {
		t.Fatal(err)
	}
	if exp.Reg(RegIODIR)&Mask(6) != 0 || exp.Reg(RegOLAT)&Mask(6) != 0 {
		t.Fatalf("not driving low: IODIR=%#x OLAT=%#x", exp.Reg(RegIODIR), exp.Reg(RegOLAT))
	}
	if lo, _ := p.IsLow(); !lo {
		t.Fatalf("driven line reads high")
	}
	if err := p.Toggle(); err != nil {
		t.Fatal(err)
	}
	if exp.Reg(RegIODIR)&Mask(6) == 0 {
		t.Fatalf("toggle did not release the line")
	}
}

func TestPulledUpInput(t *testing.T) {
	d, exp, _ := newI2C(t)
	exp.Floating = Mask(1)
	p := must(NewInternallyPulledUpInputPin(d, Mask(1)))

	if err := p.Initialize(gpio.PullUpDisabled); err != nil {
		t.Fatal(err)
	}
	if lo, _ := p.IsLow(); !lo {
		t.Fatalf("floating input without pull-up reads high")
	}
	if err := p.Initialize(gpio.PullUpEnabled); err != nil {
		t.Fatal(err)
	}
	if hi, _ := p.IsHigh(); !hi || d.GPPU() != Mask(1) {
		t.Fatalf("pull-up not applied, GPPU=%#x", d.GPPU())
	}
}

func TestAbsentDeviceReportsNonresponsive(t *testing.T) {
	bus := sim.NewI2CBus()
	d := New(NewI2CTransport(nil, bus, 0))
	d.Initialize()
	if err := d.SetOLATBits(1); err != errcode.ErrNonresponsiveDevice {
		t.Fatalf("err = %v", err)
	}
	if d.OLAT() != 0 {
		t.Fatalf("cache updated after failed write")
	}
	if _, err := d.ReadGPIO(); err != errcode.ErrNonresponsiveDevice {
		t.Fatalf("ReadGPIO err = %v", err)
	}
}

func TestInterruptConfiguration(t *testing.T) {
	d, exp, _ := newI2C(t)
	if err := d.ConfigureInterrupts(0x0F, 0x03, 0x01); err != nil {
		t.Fatal(err)
	}
	if exp.Reg(RegGPINTEN) != 0x0F || exp.Reg(RegINTCON) != 0x03 || exp.Reg(RegDEFVAL) != 0x01 {
		t.Fatalf("GPINTEN=%#x INTCON=%#x DEFVAL=%#x", exp.Reg(RegGPINTEN), exp.Reg(RegINTCON), exp.Reg(RegDEFVAL))
	}
	if d.GPINTEN() != 0x0F || d.INTCON() != 0x03 || d.DEFVAL() != 0x01 {
		t.Fatalf("cache not updated")
	}
}

func TestSPITransport(t *testing.T) {
	bus := &sim.SPIBus{}
	exp := sim.NewExpander()
	target := &sim.SPIExpander{File: exp, HW: 2}
	cfg := spi.Configuration{Mode: spi.Mode0, Frequency: 10_000_000}
	dev := spi.NewDevice(bus, cfg, &sim.Selector{Bus: bus, Target: target})

	d := New(NewSPITransport(dev, 2))
	d.Initialize()
	if err := d.WriteIOCON(IOCONHAEN); err != nil {
		t.Fatal(err)
	}
	p := must(NewPushPullIOPin(d, 0xF0))
	if err := p.Initialize(gpio.High); err != nil {
		t.Fatal(err)
	}
	if exp.Reg(RegOLAT) != 0xF0 || exp.Reg(RegIODIR) != 0x0F || exp.Reg(RegIOCON) != IOCONHAEN {
		t.Fatalf("OLAT=%#x IODIR=%#x", exp.Reg(RegOLAT), exp.Reg(RegIODIR))
	}
	port, err := d.ReadGPIO()
	if err != nil || port&0xF0 != 0xF0 {
		t.Fatalf("ReadGPIO = %#x, %v", port, err)
	}
	if len(bus.Configs) == 0 || bus.Configs[0] != cfg {
		t.Fatalf("controller not configured per transaction: %v", bus.Configs)
	}

	other := New(NewSPITransport(dev, 1))
	other.Initialize()
	if err := other.SetOLATBits(0x01); err != nil {
		t.Fatal(err)
	}
	if exp.Reg(RegOLAT) != 0xF0 {
		t.Fatalf("write to another hardware address reached the device")
	}
}
