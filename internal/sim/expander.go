package sim

// MCP23x08 register addresses, duplicated here so the model does not
// depend on the driver it is used to test.
const (
	expIODIR   = 0x00
	expIPOL    = 0x01
	expGPINTEN = 0x02
	expDEFVAL  = 0x03
	expINTCON  = 0x04
	expGPPU    = 0x06
	expINTF    = 0x07
	expINTCAP  = 0x08
	expGPIO    = 0x09
	expOLAT    = 0x0A
	expRegs    = 0x0B
)

// Expander models an MCP23008/MCP23S08 register file and its port.
type Expander struct {
	regs [expRegs]byte

	// Inputs is the level applied externally to each pin. Unconnected
	// inputs with the pull-up enabled read high regardless. Use Apply to
	// change it with interrupt-on-change evaluated.
	Inputs byte
	// Floating marks pins with nothing attached.
	Floating byte

	Loads, Stores int
}

var _ RegisterFile = (*Expander)(nil)

func NewExpander() *Expander {
	e := &Expander{}
	e.regs[expIODIR] = 0xFF
	return e
}

// Reg returns the raw register value.
func (e *Expander) Reg(reg uint8) byte {
	if int(reg) >= expRegs {
		return 0
	}
	return e.regs[reg]
}

// Port returns the pin levels: outputs follow OLAT, inputs follow Inputs,
// floating pulled-up inputs read high and floating open inputs read low.
func (e *Expander) Port() byte {
	dir := e.regs[expIODIR]
	in := e.Inputs&^e.Floating | e.Floating&e.regs[expGPPU]
	return e.regs[expOLAT]&^dir | in&dir
}

// gpio is the GPIO register view: the port with IPOL inverting inputs.
func (e *Expander) gpio() byte {
	return e.Port() ^ e.regs[expIPOL]&e.regs[expIODIR]
}

// Apply sets the external levels and latches interrupts the way the chip
// does. An enabled input raises its INTF bit when it differs from DEFVAL
// (INTCON set) or from its previous level (INTCON clear). INTCAP captures
// the GPIO view when the first flag is raised; reading INTCAP or GPIO
// clears the flags.
func (e *Expander) Apply(inputs byte) {
	before := e.Port()
	e.Inputs = inputs
	after := e.Port()

	cmp := e.regs[expINTCON]
	changed := (after^before)&^cmp | (after^e.regs[expDEFVAL])&cmp
	flags := changed & e.regs[expGPINTEN] & e.regs[expIODIR]
	if flags == 0 {
		return
	}
	if e.regs[expINTF] == 0 {
		e.regs[expINTCAP] = e.gpio()
	}
	e.regs[expINTF] |= flags
}

func (e *Expander) Load(reg uint8) byte {
	e.Loads++
	switch reg {
	case expGPIO:
		e.regs[expINTF] = 0
		return e.gpio()
	case expINTCAP:
		e.regs[expINTF] = 0
		return e.regs[expINTCAP]
	}
	return e.Reg(reg)
}

func (e *Expander) Store(reg uint8, v byte) {
	e.Stores++
	switch {
	case reg == expGPIO:
		e.regs[expOLAT] = v
	case reg == expINTF || reg == expINTCAP || int(reg) >= expRegs:
	default:
		e.regs[reg] = v
	}
}
