package main

import (
	"bytes"
	"testing"

	"devicecore-go/drivers/aht20"
	"devicecore-go/errcode"
	"devicecore-go/stream"
	"devicecore-go/trap"
)

// flakyUART accepts bytes and fails the next flush when failFlush is set.
type flakyUART struct {
	bytes.Buffer
	failFlush bool
}

var _ stream.Buffer = (*flakyUART)(nil)

func (u *flakyUART) Put(c byte) error         { return u.WriteByte(c) }
func (u *flakyUART) PutBytes(p []byte) error  { _, err := u.Write(p); return err }
func (u *flakyUART) PutString(s string) error { _, err := u.WriteString(s); return err }

func (u *flakyUART) Flush() error {
	if u.failFlush {
		u.failFlush = false
		return errcode.ErrTimeout
	}
	return nil
}

func TestReportRecoversFromFlushError(t *testing.T) {
	prev := trap.SetHandler(func(loc trap.Location, err errcode.Code) {
		panic(&trap.Failure{Location: loc, Code: err})
	})
	defer trap.SetHandler(prev)

	u := &flakyUART{failFlush: true}
	out := stream.NewOutput(u)
	s := aht20.RawFromDeci(215, 400)

	var ok bool
	if f := trap.Catch(func() { ok = report(&out, 0, s, nil) }); f != nil {
		t.Fatalf("report trapped: %v", f)
	}
	if ok || !out.IsNominal() {
		t.Fatalf("failed flush: ok=%v state=%v, want false and nominal", ok, out.State())
	}

	if f := trap.Catch(func() { ok = report(&out, 1, aht20.Sample{}, errcode.ErrWouldBlock) }); f != nil {
		t.Fatalf("report after a failed flush trapped: %v", f)
	}
	if !ok {
		t.Fatalf("second line not reported")
	}
	want := "0 21.5C 40.0%RH\r\n1 error Generic::WOULD_BLOCK\r\n"
	if got := u.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
