package format

import (
	"devicecore-go/stream"
	"devicecore-go/x/conv"
)

const (
	dumpRowBytes = 16
	// offset, one space, " HH" per column, "  |", ascii, "|\n"
	dumpRowLen = 16 + 1 + 3*dumpRowBytes + 3 + dumpRowBytes + 2
)

// HexDump prints canonical hex-dump rows of 16 bytes:
//
//	0000000000000000  2F 42 3E 77 69 47 6F 55 5A 7C 36 63 6A 4F 28 5F  |/B>wiGoUZ|6cjO(_|
//
// The offset is 16 upper-case nibbles. A short final row pads the missing
// hex and ASCII columns with spaces, so every row has the same width. Bytes outside
// 0x20-0x7E print as '.'. Empty input prints nothing.
type HexDump struct {
	Offset uint64
	Data   []byte
}

func NewHexDump(p []byte) HexDump { return HexDump{Data: p} }

// NewHexDumpAt labels the first row with offset instead of zero.
func NewHexDumpAt(offset uint64, p []byte) HexDump { return HexDump{Offset: offset, Data: p} }

func (HexDump) ParseFormat(spec string) error { return noOptions(spec) }

func (h HexDump) FormatTo(s stream.Sink) (int, error) {
	total := 0
	for off := 0; off < len(h.Data); off += dumpRowBytes {
		end := off + dumpRowBytes
		if end > len(h.Data) {
			end = len(h.Data)
		}
		var row [dumpRowLen]byte
		n := dumpRow(row[:], h.Offset+uint64(off), h.Data[off:end])
		if err := s.PutBytes(row[:n]); err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func dumpRow(row []byte, offset uint64, p []byte) int {
	conv.UHex(row[:16], offset, 16)
	i := 16
	row[i] = ' '
	i++
	for col := 0; col < dumpRowBytes; col++ {
		row[i] = ' '
		if col < len(p) {
			conv.UHex(row[i+1:i+3], uint64(p[col]), 2)
		} else {
			row[i+1], row[i+2] = ' ', ' '
		}
		i += 3
	}
	row[i], row[i+1], row[i+2] = ' ', ' ', '|'
	i += 3
	for col := 0; col < dumpRowBytes; col++ {
		c := byte(' ')
		if col < len(p) {
			c = p[col]
			if c < 0x20 || c > 0x7E {
				c = '.'
			}
		}
		row[i] = c
		i++
	}
	row[i], row[i+1] = '|', '\n'
	return i + 2
}
