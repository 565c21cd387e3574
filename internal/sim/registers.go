package sim

import "devicecore-go/i2c"

// RegisterFile is the storage behind a register-pointer device.
type RegisterFile interface {
	Load(reg uint8) byte
	Store(reg uint8, v byte)
}

// Memory is a plain register file; addresses wrap at its length.
type Memory []byte

func (m Memory) Load(reg uint8) byte     { return m[int(reg)%len(m)] }
func (m Memory) Store(reg uint8, v byte) { m[int(reg)%len(m)] = v }

// RegisterTarget speaks the common I²C register protocol: the first byte
// written after the address sets the pointer, later bytes are stored, and
// reads return successive registers. The pointer auto-increments.
type RegisterTarget struct {
	File RegisterFile

	ptr     uint8
	havePtr bool
	writing bool
}

var _ I2CTarget = (*RegisterTarget)(nil)

func NewRegisterTarget(f RegisterFile) *RegisterTarget { return &RegisterTarget{File: f} }

func (t *RegisterTarget) Begin(op i2c.Operation) {
	t.writing = op == i2c.Write
	t.havePtr = false
}

func (t *RegisterTarget) End() {}

func (t *RegisterTarget) WriteByte(b byte) i2c.Response {
	if !t.havePtr {
		t.ptr, t.havePtr = b, true
		return i2c.ACK
	}
	t.File.Store(t.ptr, b)
	t.ptr++
	return i2c.ACK
}

func (t *RegisterTarget) ReadByte() byte {
	v := t.File.Load(t.ptr)
	t.ptr++
	return v
}

// Pointer returns the current register pointer.
func (t *RegisterTarget) Pointer() uint8 { return t.ptr }
