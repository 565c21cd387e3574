//go:build !trap_nolocation

package trap

import "runtime"

// LocationCapture reports whether failures carry file and line.
const LocationCapture = true

func caller(skip int) Location {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{}
	}
	return Location{File: file, Line: line}
}
