//go:build rp2040 || rp2350

package stream

import (
	"github.com/jangala-dev/tinygo-uartx/uartx"

	"devicecore-go/errcode"
	"devicecore-go/trap"
)

// UARTBuffer makes an interrupt-driven UART transmitter a stream buffer.
// Writes block until the driver has accepted the bytes; Flush waits for the
// line to go idle.
type UARTBuffer struct {
	u *uartx.UART
}

func NewUARTBuffer(u *uartx.UART) UARTBuffer {
	trap.Expect(u != nil, errcode.ErrInvalidArgument)
	return UARTBuffer{u: u}
}

func (b UARTBuffer) Put(c byte) error { return b.u.WriteByte(c) }

func (b UARTBuffer) PutBytes(p []byte) error {
	_, err := b.u.Write(p)
	return err
}

func (b UARTBuffer) PutString(s string) error {
	var chunk [32]byte
	for len(s) > 0 {
		n := copy(chunk[:], s)
		if _, err := b.u.Write(chunk[:n]); err != nil {
			return err
		}
		s = s[n:]
	}
	return nil
}

func (b UARTBuffer) Flush() error { return b.u.Flush() }
