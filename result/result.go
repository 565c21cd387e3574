// Package result provides a value-or-error carrier for places where a single
// value must hold the outcome of a fallible operation (queues, recorded
// command outcomes, deferred guard construction). Plain call sites use Go's
// (T, error) returns; From and Unpack convert between the two.
package result

import (
	"devicecore-go/errcode"
	"devicecore-go/trap"
)

// Void is the payload of fallible actions that produce no value.
type Void = struct{}

type state uint8

const (
	unset state = iota
	isValue
	isError
)

// Result holds either a value of T or an error. The zero Result is not a
// valid constructed value; every accessor traps on it.
type Result[T any] struct {
	state state
	value T
	err   error
}

// Value constructs a successful result.
func Value[T any](v T) Result[T] { return Result[T]{state: isValue, value: v} }

// Error constructs a failed result. err must not be nil.
func Error[T any](err error) Result[T] {
	trap.Expect(err != nil, errcode.ErrInvalidArgument)
	return Result[T]{state: isError, err: err}
}

// OK is the successful Result[Void].
func OK() Result[Void] { return Value(Void{}) }

// From converts a Go (value, error) pair.
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Error[T](err)
	}
	return Value(v)
}

func (r Result[T]) IsValue() bool {
	trap.Expect(r.state != unset, errcode.ErrLogic)
	return r.state == isValue
}

func (r Result[T]) IsError() bool {
	trap.Expect(r.state != unset, errcode.ErrLogic)
	return r.state == isError
}

// Value returns the held value. Calling it on an error result traps.
func (r Result[T]) Value() T {
	trap.Expect(r.state == isValue, errcode.ErrLogic)
	return r.value
}

// Err returns the held error. Calling it on a value result traps.
func (r Result[T]) Err() error {
	trap.Expect(r.state == isError, errcode.ErrLogic)
	return r.err
}

// Unpack converts back to a Go (value, error) pair.
func (r Result[T]) Unpack() (T, error) {
	trap.Expect(r.state != unset, errcode.ErrLogic)
	return r.value, r.err
}
