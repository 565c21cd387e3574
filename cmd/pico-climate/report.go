// pico-climate reads an AHT20 on I2C0 once a second and reports over UART0.
package main

import (
	"devicecore-go/drivers/aht20"
	"devicecore-go/stream"
)

// report prints one sample line and flushes it. A transmit error is sticky,
// so a degraded stream is cleared for the next line; the result says
// whether this line went out.
func report(out *stream.Output, n uint32, s aht20.Sample, err error) bool {
	if err != nil {
		_, _ = out.Print("{} error {}\r\n", n, err)
	} else {
		_, _ = out.Print("{} {}\r\n", n, s)
	}
	if out.IsNominal() {
		_ = out.Flush()
	}
	if out.IsNominal() {
		return true
	}
	out.ClearAll()
	return false
}
