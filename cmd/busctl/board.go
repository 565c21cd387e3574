package main

import (
	"os"
	"slices"
	"time"

	"devicecore-go/drivers/aht20"
	"devicecore-go/drivers/mcp23x08"
	"devicecore-go/drivers/tca9548a"
	"devicecore-go/errcode"
	"devicecore-go/gpio"
	"devicecore-go/gpio/periphx"
	"devicecore-go/i2c"
	"devicecore-go/internal/sim"
	"devicecore-go/spi"
	"devicecore-go/x/bitx"

	"gopkg.in/yaml.v3"
)

// ---------- Board description ----------

// BoardConfig describes the simulated board.
type BoardConfig struct {
	Mux     *MuxConfig     `yaml:"mux"`
	Devices []DeviceConfig `yaml:"devices"`
	Pins    []PinConfig    `yaml:"pins"`
}

type MuxConfig struct {
	Address uint8 `yaml:"address"` // 0 = 0x70
}

type DeviceConfig struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`              // "memory" | "mcp23008" | "mcp23s08" | "aht20"
	Address uint8  `yaml:"address"`           // mcp23s08: hardware address 0-3
	Channel *int   `yaml:"channel,omitempty"` // mux channel; root segment if absent
	Size    int    `yaml:"size,omitempty"`    // memory: register count, default 256
	Inputs  uint8  `yaml:"inputs,omitempty"`  // expanders: externally applied levels
	Select  string `yaml:"select,omitempty"`  // mcp23s08: "active-low" (default) | "active-high"

	// aht20: simulated conditions in tenths of a unit.
	DeciCelsius int32 `yaml:"deci_celsius,omitempty"`
	DeciRH      int32 `yaml:"deci_rh,omitempty"`
}

type PinConfig struct {
	Name      string `yaml:"name"`
	Expander  string `yaml:"expander"`
	Pin       int    `yaml:"pin"`
	Count     int    `yaml:"count,omitempty"`   // consecutive pins from Pin, default 1
	Mode      string `yaml:"mode"`              // "input" | "push-pull" | "open-drain"
	PullUp    bool   `yaml:"pull_up,omitempty"` // input only
	Initial   string `yaml:"initial,omitempty"` // "low" | "high"
	ActiveLow bool   `yaml:"active_low,omitempty"`
}

const defaultBoardYAML = `
mux:
  address: 0x70
devices:
  - name: eeprom
    type: memory
    address: 0x50
  - name: gpio0
    type: mcp23008
    address: 0x20
    channel: 1
    inputs: 0x0F
  - name: climate
    type: aht20
    address: 0x38
    deci_celsius: 215
    deci_rh: 400
pins:
  - {name: led, expander: gpio0, pin: 7, mode: push-pull, initial: low}
  - {name: button, expander: gpio0, pin: 0, mode: input, pull_up: true, active_low: true}
  - {name: irq, expander: gpio0, pin: 6, mode: open-drain, initial: high}
`

// ParseBoard decodes a YAML board description.
func ParseBoard(data []byte) (BoardConfig, error) {
	var cfg BoardConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return BoardConfig{}, &errcode.E{C: errcode.ErrInvalidFormat, Op: "board", Err: err}
	}
	return cfg, nil
}

// LoadBoard reads a board description from path.
func LoadBoard(path string) (BoardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BoardConfig{}, &errcode.E{C: errcode.ErrNotConnected, Op: "board", Msg: path, Err: err}
	}
	return ParseBoard(data)
}

// ---------- Board ----------

// Board is the live simulation built from a BoardConfig.
type Board struct {
	Bus *sim.I2CBus
	Mux *tca9548a.Device // nil without a mux
	SPI *sim.SPIBus

	models    map[string]*sim.Expander
	expanders map[string]*mcp23x08.Driver
	climate   map[string]*sim.AHT20
	sensors   map[string]*aht20.Device
	lines     map[string]*sim.ChipSelectLine
	pins      map[string]*boardPin
}

type boardPin struct {
	cfg    PinConfig
	io     *periphx.Pin
	out    gpio.OutputPin // nil for inputs
	closer interface{ Close() error }
}

func NewBoard(cfg BoardConfig) (*Board, error) {
	b := &Board{
		Bus:       sim.NewI2CBus(),
		SPI:       &sim.SPIBus{},
		models:    map[string]*sim.Expander{},
		expanders: map[string]*mcp23x08.Driver{},
		climate:   map[string]*sim.AHT20{},
		sensors:   map[string]*aht20.Device{},
		lines:     map[string]*sim.ChipSelectLine{},
		pins:      map[string]*boardPin{},
	}
	var simMux *sim.Mux
	if cfg.Mux != nil {
		simMux = sim.NewMux()
		b.Mux = tca9548a.New(b.Bus, tca9548a.Config{Address: cfg.Mux.Address})
		b.Bus.AttachMux(b.Mux.Address().Numeric(), simMux)
	}

	for _, dc := range cfg.Devices {
		if err := b.addDevice(dc, simMux); err != nil {
			return nil, err
		}
	}
	for _, pc := range cfg.Pins {
		if err := b.addPin(pc); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Board) addDevice(dc DeviceConfig, simMux *sim.Mux) error {
	if dc.Type == "mcp23s08" {
		return b.addSPIExpander(dc)
	}
	if dc.Address > 0x7F {
		return configError(dc.Name, "address out of range")
	}
	var target sim.I2CTarget
	switch dc.Type {
	case "memory":
		size := dc.Size
		if size <= 0 || size > 256 {
			size = 256
		}
		target = sim.NewRegisterTarget(make(sim.Memory, size))
	case "mcp23008":
		if dc.Address&^0x07 != mcp23x08.BaseAddress {
			return configError(dc.Name, "mcp23008 address must be 0x20-0x27")
		}
		model := sim.NewExpander()
		model.Inputs = dc.Inputs
		target = sim.NewRegisterTarget(model)
		b.models[dc.Name] = model
	case "aht20":
		raw := aht20.RawFromDeci(dc.DeciCelsius, dc.DeciRH)
		model := &sim.AHT20{BusyReads: 1, RawHumidity: raw.RawHumidity, RawTemp: raw.RawTemp}
		target = model
		b.climate[dc.Name] = model
	default:
		return configError(dc.Name, "unknown device type "+dc.Type)
	}

	align := i2c.BusMultiplexerAligner(i2c.NopAligner)
	if dc.Channel != nil {
		if simMux == nil || *dc.Channel < 0 || *dc.Channel > 7 {
			return configError(dc.Name, "channel needs a mux and must be 0-7")
		}
		simMux.Attach(*dc.Channel, dc.Address, target)
		align = b.Mux.Aligner(tca9548a.Channel(*dc.Channel))
	} else {
		b.Bus.Attach(dc.Address, target)
	}

	if dc.Type == "mcp23008" {
		d := mcp23x08.New(mcp23x08.NewI2CTransport(align, b.Bus, dc.Address&0x07))
		d.Initialize()
		b.expanders[dc.Name] = d
	}
	if dc.Type == "aht20" {
		b.sensors[dc.Name] = aht20.New(i2c.NewTxAdapter(b.Bus, align), aht20.Config{
			Address:      uint16(dc.Address),
			PollInterval: time.Millisecond,
			InitDelay:    time.Millisecond,
		})
	}
	return nil
}

// addSPIExpander puts an MCP23S08 on the SPI bus behind a GPIO chip
// select of the configured polarity.
func (b *Board) addSPIExpander(dc DeviceConfig) error {
	if dc.Address > 3 {
		return configError(dc.Name, "mcp23s08 address must be 0-3")
	}
	if dc.Channel != nil {
		return configError(dc.Name, "mcp23s08 is not on the i2c mux")
	}
	model := sim.NewExpander()
	model.Inputs = dc.Inputs
	line := &sim.ChipSelectLine{Bus: b.SPI, Target: &sim.SPIExpander{File: model, HW: dc.Address}}

	var sel spi.DeviceSelector
	switch dc.Select {
	case "", "active-low":
		sel = spi.GPIOSelector{Pin: line}
	case "active-high":
		line.ActiveHigh = true
		sel = spi.ActiveHighSelector{Pin: line}
	default:
		return configError(dc.Name, "unknown select "+dc.Select)
	}
	dev := spi.NewDevice(b.SPI, spi.Configuration{Mode: spi.Mode0, Frequency: 10_000_000}, sel)
	if err := dev.Initialize(); err != nil {
		return err
	}
	d := mcp23x08.New(mcp23x08.NewSPITransport(dev, dc.Address))
	d.Initialize()
	b.models[dc.Name] = model
	b.expanders[dc.Name] = d
	b.lines[dc.Name] = line
	return nil
}

func (b *Board) addPin(pc PinConfig) error {
	d, ok := b.expanders[pc.Expander]
	if !ok {
		return configError(pc.Name, "unknown expander "+pc.Expander)
	}
	count := max(pc.Count, 1)
	if pc.Pin < 0 || pc.Pin+count > 8 {
		return configError(pc.Name, "pins must be within 0-7")
	}
	mask := bitx.MaskRange[uint8](pc.Pin, count)
	if d.Claimed()&mask != 0 {
		return configError(pc.Name, "pin already in use")
	}
	if _, dup := b.pins[pc.Name]; dup {
		return configError(pc.Name, "duplicate pin name")
	}
	initial := gpio.Low
	if pc.Initial == "high" {
		initial = gpio.High
	}
	// The initial level is logical, so an active-low pin starts inverted.
	if pc.ActiveLow {
		initial ^= 1
	}

	bp := &boardPin{cfg: pc}
	switch pc.Mode {
	case "input":
		p, err := mcp23x08.NewInternallyPulledUpInputPin(d, mask)
		if err != nil {
			return err
		}
		pull := gpio.PullUpDisabled
		if pc.PullUp {
			pull = gpio.PullUpEnabled
		}
		if err := p.Initialize(pull); err != nil {
			_ = p.Close()
			return err
		}
		var in gpio.InputPin = p
		if pc.ActiveLow {
			in = gpio.ActiveLowInput{Pin: p}
		}
		bp.io, bp.closer = periphx.NewInput(pc.Name, pc.Pin, in), p
	case "push-pull", "open-drain":
		var p interface {
			gpio.IOPin
			Initialize(gpio.InitialState) error
			Close() error
		}
		if pc.Mode == "push-pull" {
			pp, err := mcp23x08.NewPushPullIOPin(d, mask)
			if err != nil {
				return err
			}
			p = pp
		} else {
			od, err := mcp23x08.NewOpenDrainIOPin(d, mask)
			if err != nil {
				return err
			}
			p = od
		}
		if err := p.Initialize(initial); err != nil {
			_ = p.Close()
			return err
		}
		var io gpio.IOPin = p
		if pc.ActiveLow {
			io = gpio.ActiveLow{Pin: p}
		}
		bp.io, bp.out, bp.closer = periphx.New(pc.Name, pc.Pin, io), io, p
	default:
		return configError(pc.Name, "unknown mode "+pc.Mode)
	}
	b.pins[pc.Name] = bp
	return nil
}

// PinNames returns the configured pin names in order.
func (b *Board) PinNames() []string {
	names := make([]string, 0, len(b.pins))
	for n := range b.pins {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Model returns the simulated expander behind a device name.
func (b *Board) Model(name string) *sim.Expander { return b.models[name] }

// ChipSelect returns the chip select line of an SPI expander.
func (b *Board) ChipSelect(name string) *sim.ChipSelectLine { return b.lines[name] }

// Climate returns the simulated sensor behind a device name.
func (b *Board) Climate(name string) *sim.AHT20 { return b.climate[name] }

func configError(name, msg string) error {
	return &errcode.E{C: errcode.ErrInvalidArgument, Op: "board " + name, Msg: msg}
}
