package errcode

import (
	"errors"
	"fmt"
	"testing"
)

type otherCategory struct{}

func (*otherCategory) Name() string          { return "Other" }
func (*otherCategory) Description(ID) string { return "OTHER" }

var other Category = &otherCategory{}

func TestGenericIdentifiersAreStable(t *testing.T) {
	cases := map[ID]string{
		0:  "INVALID_ARGUMENT",
		1:  "LOGIC_ERROR",
		2:  "OUT_OF_RANGE",
		3:  "WOULD_BLOCK",
		4:  "OPERATION_TIMEOUT",
		5:  "NOT_CONNECTED",
		6:  "INVALID_FORMAT",
		7:  "IO_STREAM_DEGRADED",
		8:  "NONRESPONSIVE_DEVICE",
		9:  "RUNTIME_ERROR",
		10: "END_OF_FILE",
		11: "UNEXPECTED",
		12: "NONE",
	}
	for id, want := range cases {
		if got := Generic.Description(id); got != want {
			t.Fatalf("Description(%d) = %q, want %q", id, got, want)
		}
	}
}

func TestCodeEqualityUsesCategoryIdentity(t *testing.T) {
	a := New(Generic, OutOfRange)
	b := New(other, OutOfRange)
	if a == b {
		t.Fatalf("codes from different categories with the same id compare equal")
	}
	if a != ErrOutOfRange {
		t.Fatalf("New(Generic, OutOfRange) != ErrOutOfRange")
	}
	if !OK.IsSuccess() || ErrRuntime.IsSuccess() || (Code{}).IsSuccess() {
		t.Fatalf("IsSuccess mismatch")
	}
}

func TestCodeError(t *testing.T) {
	if got, want := ErrOutOfRange.Error(), "Generic::OUT_OF_RANGE"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if got, want := (Code{}).Error(), "UNKNOWN"; got != want {
		t.Fatalf("zero Error() = %q, want %q", got, want)
	}
}

func TestOfAndWrapping(t *testing.T) {
	if Of(nil) != OK {
		t.Fatalf("Of(nil) != OK")
	}
	if Of(ErrWouldBlock) != ErrWouldBlock {
		t.Fatalf("Of(code) lost the code")
	}
	w := fmt.Errorf("ctx: %w", ErrTimeout)
	if Of(w) != ErrTimeout {
		t.Fatalf("Of(wrapped) = %v", Of(w))
	}
	e := Wrap("i2c.read", ErrNonresponsiveDevice, ErrTimeout)
	if Of(e) != ErrNonresponsiveDevice {
		t.Fatalf("outer code must win, got %v", Of(e))
	}
	if !errors.Is(e, ErrNonresponsiveDevice) || !errors.Is(e, ErrTimeout) {
		t.Fatalf("errors.Is should match both outer and cause")
	}
	if got, want := e.Error(), "i2c.read: Generic::NONRESPONSIVE_DEVICE"; got != want {
		t.Fatalf("E.Error() = %q, want %q", got, want)
	}
	if Of(errors.New("plain")) != ErrRuntime {
		t.Fatalf("plain error should map to ErrRuntime")
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		c    Code
		want Kind
	}{
		{OK, KindSuccess},
		{ErrInvalidArgument, KindUsage},
		{ErrInvalidFormat, KindUsage},
		{ErrWouldBlock, KindTransient},
		{ErrTimeout, KindTransient},
		{ErrIOStreamDegraded, KindPersistent},
		{ErrEndOfFile, KindPersistent},
		{ErrUnexpected, KindCatastrophic},
		{New(other, 0), KindCatastrophic},
	}
	for _, c := range cases {
		if got := KindOf(c.c); got != c.want {
			t.Fatalf("KindOf(%v) = %v, want %v", c.c, got, c.want)
		}
	}
	if !IsTransient(fmt.Errorf("x: %w", ErrWouldBlock)) || IsTransient(nil) {
		t.Fatalf("IsTransient mismatch")
	}
}
