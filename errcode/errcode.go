// Package errcode defines the error model shared by every driver and transport:
// a Code is a (category, identifier) pair that is comparable, allocation-free
// and implements error.
//
// Categories are package-level singletons compared by identity. Two categories
// may reuse the same identifier values; the category disambiguates them.
package errcode

import "errors"

// ID identifies an error within its category.
type ID uint8

// Category names a family of error identifiers.
// Implementations must be singletons referenced by pointer.
type Category interface {
	Name() string
	Description(id ID) string
}

// Code is a stable error identifier.
type Code struct {
	cat Category
	id  ID
}

// New returns the code for id within cat.
func New(cat Category, id ID) Code { return Code{cat: cat, id: id} }

func (c Code) Category() Category { return c.cat }
func (c Code) ID() ID             { return c.id }

// Description returns the category's text for the identifier.
func (c Code) Description() string {
	if c.cat == nil {
		return "UNKNOWN"
	}
	return c.cat.Description(c.id)
}

// IsSuccess reports whether c is the success sentinel OK.
func (c Code) IsSuccess() bool { return c == OK }

func (c Code) Error() string {
	if c.cat == nil {
		return "UNKNOWN"
	}
	return c.cat.Name() + "::" + c.cat.Description(c.id)
}

// Is makes errors.Is match a Code against wrapped errors carrying the same Code.
func (c Code) Is(target error) bool {
	t, ok := target.(Code)
	return ok && t == c
}

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := e.C.Error()
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is matches the wrapped Code so errors.Is(err, ErrOutOfRange) works on *E.
func (e *E) Is(target error) bool {
	t, ok := target.(Code)
	return ok && t == e.C
}

// Wrap annotates code with the operation that produced it.
func Wrap(op string, c Code, cause error) error {
	return &E{C: c, Op: op, Err: cause}
}

// Of extracts a Code from an error, defaulting to ErrRuntime.
// The outermost code in a wrap chain wins.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	type coder interface{ Code() Code }
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch x := e.(type) {
		case Code:
			return x
		case coder:
			return x.Code()
		}
	}
	return ErrRuntime
}
