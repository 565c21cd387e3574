//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"devicecore-go/drivers/aht20"
	"devicecore-go/errcode"
	"devicecore-go/format"
	"devicecore-go/stream"
	"devicecore-go/trap"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[climate] boot")

	if err := uartx.UART0.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       uartx.UART0_TX_PIN,
		RX:       uartx.UART0_RX_PIN,
	}); err != nil {
		println("[climate] uart configure error:", err.Error())
		halt()
	}
	out := stream.NewOutput(stream.NewUARTBuffer(uartx.UART0))

	trap.SetHandler(func(loc trap.Location, c errcode.Code) {
		println("[climate] trap", c.Error(), loc.File, loc.Line)
		if out.IsNominal() {
			_, _ = out.Print("trap {} at {}:{}\r\n", c, loc.File, loc.Line)
		}
		halt()
	})

	if err := machine.I2C0.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz}); err != nil {
		println("[climate] i2c configure error:", err.Error())
		halt()
	}
	sensor := aht20.New(machine.I2C0, aht20.Config{})
	if err := sensor.Configure(); err != nil {
		_, _ = out.Print("aht20 at {}: {}\r\n", format.NewHex(uint8(sensor.Address())), err)
	}

	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for n := uint32(0); ; n++ {
		<-tick.C
		s, err := sensor.Read()
		if !report(&out, n, s, err) {
			println("[climate] uart degraded")
		}
	}
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
