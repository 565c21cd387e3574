package register

import (
	"slices"
	"testing"

	"devicecore-go/errcode"
	"devicecore-go/trap"
)

type fakeTransport struct {
	regs   [4]uint8
	writes int
	reads  int
	fail   error
}

func (f *fakeTransport) ReadRegister(reg uint8) (uint8, error) {
	f.reads++
	return f.regs[reg], f.fail
}

func (f *fakeTransport) WriteRegister(reg, v uint8) error {
	if f.fail != nil {
		return f.fail
	}
	f.writes++
	f.regs[reg] = v
	return nil
}

func (f *fakeTransport) ReadRegisters(reg uint8, p []byte) error {
	f.reads++
	copy(p, f.regs[reg:])
	return f.fail
}

func (f *fakeTransport) WriteRegisters(reg uint8, p []byte) error {
	f.writes++
	copy(f.regs[reg:], p)
	return f.fail
}

var _ Transport = (*fakeTransport)(nil)

func newCache(t *fakeTransport) *Cache {
	c := NewCache(t, []uint8{0xFF, 0, 0, 0}, make([]uint8, 4))
	c.Reset()
	return c
}

func TestWriteThenReadHitsCache(t *testing.T) {
	tr := &fakeTransport{}
	c := newCache(tr)

	if c.Read(0) != 0xFF {
		t.Fatalf("reset value = %#x", c.Read(0))
	}
	if err := c.Write(2, 0x5A); err != nil {
		t.Fatal(err)
	}
	if got := c.Read(2); got != 0x5A {
		t.Fatalf("Read = %#x, want 0x5A", got)
	}
	if tr.reads != 0 || tr.writes != 1 {
		t.Fatalf("bus reads=%d writes=%d, want 0/1", tr.reads, tr.writes)
	}
}

func TestFailedWriteLeavesShadow(t *testing.T) {
	tr := &fakeTransport{fail: errcode.ErrNonresponsiveDevice}
	c := newCache(tr)
	if err := c.Write(1, 7); err != errcode.ErrNonresponsiveDevice {
		t.Fatalf("err = %v", err)
	}
	if c.Read(1) != 0 {
		t.Fatalf("shadow updated after failed write")
	}
}

func TestUpdate(t *testing.T) {
	tr := &fakeTransport{}
	c := newCache(tr)

	if err := c.Update(0, 0, 0x0F); err != nil {
		t.Fatal(err)
	}
	if err := c.Update(0, 0x01, 0x80); err != nil {
		t.Fatal(err)
	}
	if err := c.Update(0, 0x01, 0); err != nil {
		t.Fatal(err)
	}
	if c.Read(0) != 0x71 || tr.regs[0] != 0x71 || tr.writes != 2 {
		t.Fatalf("cache %#x device %#x writes %d", c.Read(0), tr.regs[0], tr.writes)
	}

	c.Reset()
	if !slices.Equal([]uint8{c.Read(0), c.Read(1)}, []uint8{0xFF, 0}) {
		t.Fatalf("Reset did not restore power-on values")
	}
}

func TestOutOfRangeTraps(t *testing.T) {
	prev := trap.SetHandler(func(loc trap.Location, err errcode.Code) {
		panic(&trap.Failure{Location: loc, Code: err})
	})
	defer trap.SetHandler(prev)

	c := newCache(&fakeTransport{})
	if f := trap.Catch(func() { c.Read(4) }); f == nil || f.Code != errcode.ErrOutOfRange {
		t.Fatalf("Read(4): %+v", f)
	}
	if f := trap.Catch(func() { _ = c.Write(9, 0) }); f == nil || f.Code != errcode.ErrOutOfRange {
		t.Fatalf("Write(9): %+v", f)
	}
	if f := trap.Catch(func() { NewCache(&fakeTransport{}, make([]uint8, 2), make([]uint8, 3)) }); f == nil {
		t.Fatalf("mismatched reset/shadow accepted")
	}
}
