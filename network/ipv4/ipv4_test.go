package ipv4

import (
	"errors"
	"math/rand"
	"net/netip"
	"testing"

	"devicecore-go/errcode"
)

func TestIntegerRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		v := r.Uint32()
		a := FromUint32(v)
		if a.Uint32() != v {
			t.Fatalf("FromUint32(%#x).Uint32() = %#x", v, a.Uint32())
		}
		if FromBytes(a.Bytes()) != a {
			t.Fatalf("byte round trip lost %v", a)
		}
	}
	if FromUint32(0xC0A80001) != New(192, 168, 0, 1) {
		t.Fatalf("byte order is not big-endian")
	}
}

func TestPredicates(t *testing.T) {
	cases := []struct {
		a                           Address
		any, loop, multicast, bcast bool
	}{
		{Any(), true, false, false, false},
		{Loopback(), false, true, false, false},
		{New(127, 8, 9, 10), false, true, false, false},
		{New(224, 0, 0, 251), false, false, true, false},
		{New(239, 255, 255, 250), false, false, true, false},
		{New(240, 0, 0, 1), false, false, false, false},
		{Broadcast(), false, false, false, true},
	}
	for _, c := range cases {
		if c.a.IsAny() != c.any || c.a.IsLoopback() != c.loop ||
			c.a.IsMulticast() != c.multicast || c.a.IsBroadcast() != c.bcast {
			t.Fatalf("%v: predicates mismatch", c.a)
		}
	}
}

func TestOrdering(t *testing.T) {
	if !Min().Less(New(0, 0, 0, 1)) || !New(9, 255, 255, 255).Less(New(10, 0, 0, 0)) {
		t.Fatalf("ordering is not by integer value")
	}
	if Max().Compare(Broadcast()) != 0 || Max().Compare(Min()) != 1 {
		t.Fatalf("Compare mismatch")
	}
}

func TestText(t *testing.T) {
	cases := map[Address]string{
		Any():              "0.0.0.0",
		Loopback():         "127.0.0.1",
		Broadcast():        "255.255.255.255",
		New(10, 0, 100, 7): "10.0.100.7",
	}
	for a, want := range cases {
		if got := a.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
		p, err := Parse(want)
		if err != nil || p != a {
			t.Fatalf("Parse(%q) = %v, %v", want, p, err)
		}
	}
}

func TestParseRejects(t *testing.T) {
	for _, s := range []string{"", "1.2.3", "256.0.0.1", "01.2.3.4", "::1"} {
		if _, err := Parse(s); !errors.Is(err, errcode.ErrInvalidFormat) {
			t.Fatalf("Parse(%q) err = %v", s, err)
		}
	}
}

func TestNetip(t *testing.T) {
	a := New(192, 0, 2, 33)
	if a.AsNetip() != netip.MustParseAddr("192.0.2.33") {
		t.Fatalf("AsNetip = %v", a.AsNetip())
	}
	got, err := FromNetip(netip.MustParseAddr("::ffff:192.0.2.33"))
	if err != nil || got != a {
		t.Fatalf("FromNetip(mapped) = %v, %v", got, err)
	}
	if _, err := FromNetip(netip.MustParseAddr("2001:db8::1")); err != errcode.ErrInvalidArgument {
		t.Fatalf("FromNetip(v6) err = %v", err)
	}
}
