// Package trap is the fail-stop layer. Precondition and postcondition checks
// funnel into a single Handler that the application may replace; the handler
// must not return.
//
//	trap.Expect(n <= 0x7F, errcode.ErrOutOfRange)
//
// Location capture can be compiled out with the trap_nolocation build tag on
// targets that cannot afford file name strings.
package trap

import (
	"sync/atomic"

	"devicecore-go/diag"
	"devicecore-go/errcode"
)

// Location is the source position of a failed check. Zero when capture is off.
type Location struct {
	File string
	Line int
}

// Handler receives fatal errors. It must not return.
type Handler func(loc Location, err errcode.Code)

// Failure is the panic value raised when a trap unwinds.
type Failure struct {
	Location Location
	Code     errcode.Code
}

func (f *Failure) Error() string {
	if f.Location.File == "" {
		return "trap: " + f.Code.Error()
	}
	return "trap: " + f.Code.Error() + " at " + f.Location.File + ":" + itoa(f.Location.Line)
}

var handler atomic.Pointer[Handler]

func init() {
	h := Handler(DefaultHandler)
	handler.Store(&h)
}

// SetHandler installs h and returns the previous handler.
func SetHandler(h Handler) Handler {
	if h == nil {
		h = DefaultHandler
	}
	prev := handler.Swap(&h)
	return *prev
}

// DefaultHandler logs the failure and panics with a *Failure.
func DefaultHandler(loc Location, err errcode.Code) {
	diag.For(diag.ComponentTrap).Error("fatal error",
		"file", loc.File, "line", loc.Line, "error", err.Error())
	panic(&Failure{Location: loc, Code: err})
}

// Fatal reports err to the handler. It never returns.
func Fatal(err errcode.Code) {
	fatal(caller(2), err)
}

func fatal(loc Location, err errcode.Code) {
	(*handler.Load())(loc, err)
	// Handlers must not return; enforce it.
	panic(&Failure{Location: loc, Code: err})
}

// Expect checks a precondition.
func Expect(cond bool, err errcode.Code) {
	if !cond {
		fatal(caller(2), err)
	}
}

// Ensure checks a postcondition.
func Ensure(cond bool, err errcode.Code) {
	if !cond {
		fatal(caller(2), err)
	}
}

// Catch runs fn and returns the trap failure it raised, or nil.
// Other panics propagate.
func Catch(fn func()) (f *Failure) {
	defer func() {
		if r := recover(); r != nil {
			var ok bool
			if f, ok = r.(*Failure); !ok {
				panic(r)
			}
		}
	}()
	fn()
	return nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
