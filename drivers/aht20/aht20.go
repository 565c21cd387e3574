// Package aht20 provides a driver for the AHT20 temperature/humidity sensor
// over any tinygo.org/x/drivers I2C bus, including i2c.TxAdapter on a
// bit-level controller.
//
// Measurement is two-phase:
//
//	d.Trigger()          // start a conversion
//	err := d.Collect(&s) // ErrWouldBlock while the sensor is busy
//
// Read does both with bounded polling. Conversions stay in fixed point:
// tenths of °C and tenths of %RH.
package aht20

import (
	"time"

	"devicecore-go/errcode"
	"devicecore-go/stream"
	"devicecore-go/trap"
	"devicecore-go/x/bitx"
	"devicecore-go/x/conv"
	"devicecore-go/x/mathx"

	"tinygo.org/x/drivers"
)

// AddressDefault is the fixed bus address of the sensor.
const AddressDefault = 0x38

const (
	cmdTrigger    = 0xAC
	cmdInitialize = 0xBE
	cmdSoftReset  = 0xBA
	cmdStatus     = 0x71

	StatusBusy       = 0x80
	StatusCalibrated = 0x08

	crcPoly = 0x31
	crcInit = 0xFF

	fullScale = 1 << 20
)

// Config controls non-hardware behaviour. Zero fields take defaults.
type Config struct {
	Address uint16 // default 0x38
	// PollInterval separates Collect attempts in Read. Default 15 ms.
	PollInterval time.Duration
	// CollectTimeout bounds the total wait in Read. Default 250 ms.
	CollectTimeout time.Duration
	// InitDelay follows the initialise command. Default 10 ms.
	InitDelay time.Duration
}

func (c *Config) defaults() {
	if c.Address == 0 {
		c.Address = AddressDefault
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 15 * time.Millisecond
	}
	if c.CollectTimeout <= 0 {
		c.CollectTimeout = 250 * time.Millisecond
	}
	if c.InitDelay <= 0 {
		c.InitDelay = 10 * time.Millisecond
	}
}

// Device is one sensor. It does not touch the bus until Configure.
type Device struct {
	bus drivers.I2C
	cfg Config

	w    [3]byte
	r    [7]byte
	last Sample
}

func New(bus drivers.I2C, cfg Config) *Device {
	trap.Expect(bus != nil, errcode.ErrInvalidArgument)
	cfg.defaults()
	return &Device{bus: bus, cfg: cfg}
}

func (d *Device) Address() uint16 { return d.cfg.Address }

// Configure calibrates the sensor unless its status already says so.
func (d *Device) Configure() error {
	st, err := d.Status()
	if err != nil {
		return err
	}
	if st&StatusCalibrated != 0 {
		return nil
	}
	if err := d.tx(cmdInitialize, 0x08, 0x00); err != nil {
		return err
	}
	time.Sleep(d.cfg.InitDelay)
	return nil
}

// Reset issues a soft reset. Give the device about 20 ms before using it.
func (d *Device) Reset() error {
	d.w[0] = cmdSoftReset
	return d.bus.Tx(d.cfg.Address, d.w[:1], nil)
}

// Status reads the status byte.
func (d *Device) Status() (byte, error) {
	d.w[0] = cmdStatus
	if err := d.bus.Tx(d.cfg.Address, d.w[:1], d.r[:1]); err != nil {
		return 0, err
	}
	return d.r[0], nil
}

// Trigger starts a conversion without waiting for it.
func (d *Device) Trigger() error { return d.tx(cmdTrigger, 0x33, 0x00) }

func (d *Device) tx(cmd, a, b byte) error {
	d.w = [3]byte{cmd, a, b}
	return d.bus.Tx(d.cfg.Address, d.w[:], nil)
}

// Collect fetches one conversion into out and the device's last sample.
// A busy or uncalibrated sensor yields ErrWouldBlock; a frame failing its
// checksum yields ErrInvalidFormat.
func (d *Device) Collect(out *Sample) error {
	data := d.r[:]
	if err := d.bus.Tx(d.cfg.Address, nil, data); err != nil {
		return err
	}
	if data[0]&StatusCalibrated == 0 || data[0]&StatusBusy != 0 {
		return errcode.ErrWouldBlock
	}
	if bitx.CRC8(data[:6], crcPoly, crcInit) != data[6] {
		return &errcode.E{C: errcode.ErrInvalidFormat, Op: "aht20.collect", Msg: "checksum mismatch"}
	}
	s := Sample{
		RawHumidity: uint32(data[1])<<12 | uint32(data[2])<<4 | uint32(data[3])>>4,
		RawTemp:     uint32(data[3]&0x0F)<<16 | uint32(data[4])<<8 | uint32(data[5]),
	}
	d.last = s
	if out != nil {
		*out = s
	}
	return nil
}

// Read triggers a conversion and polls Collect until it succeeds or the
// configured timeout passes.
func (d *Device) Read() (Sample, error) {
	if err := d.Trigger(); err != nil {
		return Sample{}, err
	}
	deadline := time.Now().Add(d.cfg.CollectTimeout)
	for {
		var s Sample
		err := d.Collect(&s)
		switch {
		case err == nil:
			return s, nil
		case err != errcode.ErrWouldBlock:
			return Sample{}, err
		case time.Now().After(deadline):
			return Sample{}, &errcode.E{C: errcode.ErrTimeout, Op: "aht20.read", Err: err}
		}
		time.Sleep(d.cfg.PollInterval)
	}
}

// Last returns the most recent collected sample.
func (d *Device) Last() Sample { return d.last }

// Sample holds one raw 20-bit conversion.
type Sample struct {
	RawHumidity uint32
	RawTemp     uint32
}

// DeciRelHumidity returns tenths of %RH, limited to 0..1000.
func (s Sample) DeciRelHumidity() int32 {
	return int32(mathx.Clamp(mathx.ScaleRound(s.RawHumidity, 1000, fullScale), 0, 1000))
}

// DeciCelsius returns tenths of °C.
func (s Sample) DeciCelsius() int32 {
	return int32(mathx.ScaleRound(s.RawTemp, 2000, fullScale)) - 500
}

// RawFromDeci is the inverse conversion, used to model a sensor.
func RawFromDeci(deciC, deciRH int32) Sample {
	rh := uint32(mathx.Clamp(deciRH, 0, 1000))
	t := uint32(mathx.Clamp(deciC+500, 0, 2000))
	return Sample{
		RawHumidity: min(mathx.ScaleRound(rh, fullScale, 1000), fullScale-1),
		RawTemp:     min(mathx.ScaleRound(t, fullScale, 2000), fullScale-1),
	}
}

func (Sample) ParseFormat(spec string) error {
	if spec != "" {
		return errcode.ErrInvalidFormat
	}
	return nil
}

// FormatTo prints "21.5C 40.0%RH".
func (s Sample) FormatTo(out stream.Sink) (int, error) {
	var buf [32]byte
	p := appendDeci(buf[:0], s.DeciCelsius())
	p = append(p, 'C', ' ')
	p = appendDeci(p, s.DeciRelHumidity())
	p = append(p, "%RH"...)
	if err := out.PutBytes(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func appendDeci(p []byte, v int32) []byte {
	var digits [20]byte
	if v < 0 {
		p = append(p, '-')
		v = -v
	}
	p = append(p, conv.Utoa(digits[:], uint64(v/10))...)
	return append(p, '.', byte('0'+v%10))
}

var _ stream.Formatter = Sample{}
