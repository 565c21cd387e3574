package sim

import (
	"devicecore-go/i2c"
	"devicecore-go/x/bitx"
)

// AHT20 models the humidity sensor's command protocol. Every read returns
// the status byte followed by the last conversion and its checksum.
type AHT20 struct {
	RawHumidity, RawTemp uint32
	Calibrated           bool
	// BusyReads is how many reads after a trigger still report busy.
	BusyReads int
	// CorruptCRC flips the checksum of every frame.
	CorruptCRC bool

	Triggers int

	busy  int
	cmd   []byte
	frame [7]byte
	pos   int
}

var _ I2CTarget = (*AHT20)(nil)

func (s *AHT20) Begin(op i2c.Operation) {
	s.cmd = s.cmd[:0]
	if op == i2c.Read {
		s.fill()
		if s.busy > 0 {
			s.busy--
		}
		s.pos = 0
	}
}

func (s *AHT20) WriteByte(b byte) i2c.Response {
	s.cmd = append(s.cmd, b)
	return i2c.ACK
}

func (s *AHT20) ReadByte() byte {
	if s.pos >= len(s.frame) {
		return 0xFF
	}
	b := s.frame[s.pos]
	s.pos++
	return b
}

func (s *AHT20) End() {
	if len(s.cmd) == 0 {
		return
	}
	switch s.cmd[0] {
	case 0xBE:
		s.Calibrated = true
	case 0xBA:
		s.Calibrated, s.busy = false, 0
	case 0xAC:
		s.Triggers++
		s.busy = s.BusyReads
	}
	s.cmd = s.cmd[:0]
}

func (s *AHT20) fill() {
	var st byte = 0x10
	if s.Calibrated {
		st |= 0x08
	}
	if s.busy > 0 {
		st |= 0x80
	}
	h, t := s.RawHumidity&0xFFFFF, s.RawTemp&0xFFFFF
	s.frame = [7]byte{st, byte(h >> 12), byte(h >> 4), byte(h<<4) | byte(t>>16), byte(t >> 8), byte(t)}
	s.frame[6] = bitx.CRC8(s.frame[:6], 0x31, 0xFF)
	if s.CorruptCRC {
		s.frame[6] ^= 0xFF
	}
}
