package aht20

import (
	"testing"
	"time"

	"devicecore-go/errcode"
	"devicecore-go/i2c"
	"devicecore-go/internal/sim"
	"devicecore-go/stream"

	"tinygo.org/x/drivers"
)

func newSensor(t *testing.T, s *sim.AHT20) (*Device, *sim.I2CBus) {
	t.Helper()
	bus := sim.NewI2CBus()
	bus.Attach(AddressDefault, s)
	d := New(i2c.NewTxAdapter(bus, nil), Config{
		PollInterval:   time.Millisecond,
		CollectTimeout: 50 * time.Millisecond,
		InitDelay:      time.Microsecond,
	})
	return d, bus
}

func TestConfigureCalibratesOnce(t *testing.T) {
	s := &sim.AHT20{}
	d, bus := newSensor(t, s)

	if err := d.Configure(); err != nil {
		t.Fatal(err)
	}
	if !s.Calibrated {
		t.Fatalf("initialise command not sent")
	}
	starts := bus.Starts
	if err := d.Configure(); err != nil {
		t.Fatal(err)
	}
	// Only the status read; the sensor already reports calibrated.
	if bus.Starts-starts != 1 {
		t.Fatalf("second Configure used %d transactions, want 1", bus.Starts-starts)
	}
}

func TestReadPollsUntilReady(t *testing.T) {
	raw := RawFromDeci(215, 400)
	s := &sim.AHT20{Calibrated: true, BusyReads: 2, RawHumidity: raw.RawHumidity, RawTemp: raw.RawTemp}
	d, _ := newSensor(t, s)

	got, err := d.Read()
	if err != nil {
		t.Fatal(err)
	}
	if got.DeciCelsius() != 215 || got.DeciRelHumidity() != 400 {
		t.Fatalf("got %d deci°C %d deci%%RH, want 215 400", got.DeciCelsius(), got.DeciRelHumidity())
	}
	if s.Triggers != 1 {
		t.Fatalf("triggers = %d, want 1", s.Triggers)
	}
	if d.Last() != got {
		t.Fatalf("Last() = %+v, want %+v", d.Last(), got)
	}
}

func TestCollectErrors(t *testing.T) {
	s := &sim.AHT20{Calibrated: true, BusyReads: 1}
	d, _ := newSensor(t, s)
	if err := d.Trigger(); err != nil {
		t.Fatal(err)
	}
	if err := d.Collect(nil); err != errcode.ErrWouldBlock {
		t.Fatalf("busy Collect = %v, want WOULD_BLOCK", err)
	}

	s.CorruptCRC = true
	if err := d.Collect(nil); errcode.Of(err) != errcode.ErrInvalidFormat {
		t.Fatalf("corrupt Collect = %v, want INVALID_FORMAT", err)
	}
}

func TestReadTimesOut(t *testing.T) {
	s := &sim.AHT20{Calibrated: true, BusyReads: 1 << 20}
	d, _ := newSensor(t, s)
	if _, err := d.Read(); errcode.Of(err) != errcode.ErrTimeout {
		t.Fatalf("Read = %v, want OPERATION_TIMEOUT", err)
	}
}

func TestAbsentSensor(t *testing.T) {
	d := New(i2c.NewTxAdapter(sim.NewI2CBus(), nil), Config{})
	if err := d.Configure(); err != errcode.ErrNonresponsiveDevice {
		t.Fatalf("Configure = %v, want NONRESPONSIVE_DEVICE", err)
	}
}

type recordingBus struct {
	addr uint16
	w    []byte
	r    int
}

var _ drivers.I2C = (*recordingBus)(nil)

func (b *recordingBus) Tx(addr uint16, w, r []byte) error {
	b.addr, b.w, b.r = addr, append([]byte(nil), w...), len(r)
	return nil
}

func TestCommandFraming(t *testing.T) {
	bus := &recordingBus{}
	d := New(bus, Config{Address: 0x39})
	if err := d.Trigger(); err != nil {
		t.Fatal(err)
	}
	if bus.addr != 0x39 || string(bus.w) != "\xAC\x33\x00" || bus.r != 0 {
		t.Fatalf("trigger tx addr=%#x w=% X r=%d", bus.addr, bus.w, bus.r)
	}
	if _, err := d.Status(); err != nil {
		t.Fatal(err)
	}
	if string(bus.w) != "\x71" || bus.r != 1 {
		t.Fatalf("status tx w=% X r=%d", bus.w, bus.r)
	}
}

func TestSampleFormat(t *testing.T) {
	var buf [32]byte
	cases := []struct {
		deciC, deciRH int32
		want          string
	}{
		{215, 400, "21.5C 40.0%RH"},
		{-123, 555, "-12.3C 55.5%RH"},
		{0, 1000, "0.0C 100.0%RH"},
	}
	for _, c := range cases {
		if got := stream.Format(buf[:], RawFromDeci(c.deciC, c.deciRH)); got != c.want {
			t.Fatalf("got %q, want %q", got, c.want)
		}
	}
}
