package stream

import (
	"devicecore-go/errcode"
	"devicecore-go/trap"
	"devicecore-go/x/conv"
)

// Formatter is implemented by values that can print themselves.
//
// Without a Formatter, Print accepts strings, []byte, bool, the integer
// types, errors and Stringers. A byte, and therefore any uint8, is written
// as one raw character; use format.NewDec(uint8(x)) to print the number.
//
// Print hands ParseFormat the text between the braces of the placeholder; a
// formatter that accepts no options returns ErrInvalidFormat for a non-empty
// spec. Formatters that keep parsed options use pointer receivers.
type Formatter interface {
	ParseFormat(spec string) error
	FormatTo(s Sink) (int, error)
}

type stringer interface{ String() string }

// render validates the whole format string before writing anything so a
// malformed format or argument count mismatch traps without partial output.
func render(s Sink, format string, args []any) (int, error) {
	trap.Expect(placeholders(format) == len(args), errcode.ErrInvalidFormat)

	total, ai := 0, 0
	for i := 0; i < len(format); {
		switch format[i] {
		case '{':
			if i+1 < len(format) && format[i+1] == '{' {
				if err := s.Put('{'); err != nil {
					return total, err
				}
				total++
				i += 2
				continue
			}
			end := i + 1
			for format[end] != '}' {
				end++
			}
			n, err := printArg(s, format[i+1:end], args[ai])
			total += n
			if err != nil {
				return total, err
			}
			ai++
			i = end + 1
		case '}':
			if err := s.Put('}'); err != nil {
				return total, err
			}
			total++
			i += 2
		default:
			j := i
			for j < len(format) && format[j] != '{' && format[j] != '}' {
				j++
			}
			if err := s.PutString(format[i:j]); err != nil {
				return total, err
			}
			total += j - i
			i = j
		}
	}
	return total, nil
}

// placeholders counts argument placeholders, trapping on unmatched braces.
func placeholders(format string) int {
	n := 0
	for i := 0; i < len(format); i++ {
		switch format[i] {
		case '{':
			if i+1 < len(format) && format[i+1] == '{' {
				i++
				continue
			}
			j := i + 1
			for j < len(format) && format[j] != '}' {
				trap.Expect(format[j] != '{', errcode.ErrInvalidFormat)
				j++
			}
			trap.Expect(j < len(format), errcode.ErrInvalidFormat)
			n++
			i = j
		case '}':
			trap.Expect(i+1 < len(format) && format[i+1] == '}', errcode.ErrInvalidFormat)
			i++
		}
	}
	return n
}

func printArg(s Sink, spec string, arg any) (int, error) {
	if f, ok := arg.(Formatter); ok {
		if err := f.ParseFormat(spec); err != nil {
			trap.Fatal(errcode.Of(err))
		}
		return f.FormatTo(s)
	}
	trap.Expect(spec == "", errcode.ErrInvalidFormat)

	var buf [20]byte
	switch v := arg.(type) {
	case string:
		return putText(s, v)
	case []byte:
		return putDigits(s, v)
	case byte:
		if err := s.Put(v); err != nil {
			return 0, err
		}
		return 1, nil
	case bool:
		if v {
			return putText(s, "true")
		}
		return putText(s, "false")
	case int:
		return putDigits(s, conv.Itoa(buf[:], int64(v)))
	case int8:
		return putDigits(s, conv.Itoa(buf[:], int64(v)))
	case int16:
		return putDigits(s, conv.Itoa(buf[:], int64(v)))
	case int32:
		return putDigits(s, conv.Itoa(buf[:], int64(v)))
	case int64:
		return putDigits(s, conv.Itoa(buf[:], v))
	case uint:
		return putDigits(s, conv.Utoa(buf[:], uint64(v)))
	case uint16:
		return putDigits(s, conv.Utoa(buf[:], uint64(v)))
	case uint32:
		return putDigits(s, conv.Utoa(buf[:], uint64(v)))
	case uint64:
		return putDigits(s, conv.Utoa(buf[:], v))
	case error:
		return putText(s, v.Error())
	case stringer:
		return putText(s, v.String())
	}
	trap.Fatal(errcode.ErrInvalidArgument)
	return 0, nil
}

func putDigits(s Sink, d []byte) (int, error) {
	if err := s.PutBytes(d); err != nil {
		return 0, err
	}
	return len(d), nil
}

func putText(s Sink, t string) (int, error) {
	if err := s.PutString(t); err != nil {
		return 0, err
	}
	return len(t), nil
}
