package mac

import (
	"errors"
	"testing"

	"devicecore-go/errcode"
	"devicecore-go/trap"
)

func TestText(t *testing.T) {
	a := Address{0x00, 0x1b, 0x2c, 0xa0, 0xff, 0x09}
	if got, want := a.String(), "00-1B-2C-A0-FF-09"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	for _, s := range []string{"00-1B-2C-A0-FF-09", "00:1b:2c:a0:ff:09"} {
		p, err := Parse(s)
		if err != nil || p != a {
			t.Fatalf("Parse(%q) = %v, %v", s, p, err)
		}
	}
	for _, s := range []string{"", "00-1B-2C-A0-FF", "00-1B:2C-A0-FF-09", "0G-1B-2C-A0-FF-09"} {
		if _, err := Parse(s); !errors.Is(err, errcode.ErrInvalidFormat) {
			t.Fatalf("Parse(%q) err = %v", s, err)
		}
	}
}

func TestIntegerView(t *testing.T) {
	a := FromUint64(0x0242AC110002)
	if a != (Address{0x02, 0x42, 0xAC, 0x11, 0x00, 0x02}) || a.Uint64() != 0x0242AC110002 {
		t.Fatalf("FromUint64 = %v", a)
	}

	prev := trap.SetHandler(func(loc trap.Location, err errcode.Code) {
		panic(&trap.Failure{Location: loc, Code: err})
	})
	defer trap.SetHandler(prev)
	if f := trap.Catch(func() { FromUint64(1 << 48) }); f == nil || f.Code != errcode.ErrOutOfRange {
		t.Fatalf("49-bit value did not trap: %+v", f)
	}
}

func TestBits(t *testing.T) {
	local := FromUint64(0x0242AC110002)
	if !local.IsLocallyAdministered() || local.IsUniversallyAdministered() || !local.IsUnicast() {
		t.Fatalf("%v: admin/unicast bits", local)
	}
	if !Broadcast().IsMulticast() || Broadcast().IsUnicast() {
		t.Fatalf("broadcast is a group address")
	}
	if !(Address{0x00, 0x1B}).IsUniversallyAdministered() {
		t.Fatalf("OUI address reported local")
	}
}

func TestOrdering(t *testing.T) {
	if !FromUint64(1).Less(FromUint64(0x010000000000)) || Broadcast().Compare(Broadcast()) != 0 {
		t.Fatalf("ordering mismatch")
	}
}
