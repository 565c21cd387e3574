package main

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"devicecore-go/diag"
	"devicecore-go/drivers/mcp23x08"
	"devicecore-go/errcode"
	"devicecore-go/format"
	"devicecore-go/i2c"
	"devicecore-go/network/ip"
	"devicecore-go/network/ipv4"
	"devicecore-go/network/mac"
	"devicecore-go/result"
	"devicecore-go/stream"
	"devicecore-go/trap"
	"devicecore-go/x/bitx"

	"github.com/google/shlex"
	pgpio "periph.io/x/conn/v3/gpio"
)

type command struct {
	usage string
	help  string
	run   func(c *console, args []string) result.Result[int]
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"scan":   {"scan", "probe every address on the enabled segments", (*console).cmdScan},
		"ping":   {"ping <addr> [read|write|both]", "check that a device answers", (*console).cmdPing},
		"read":   {"read <addr> <reg> [n]", "read n registers (default 1)", (*console).cmdRead},
		"write":  {"write <addr> <reg> <byte>...", "write consecutive registers", (*console).cmdWrite},
		"dump":   {"dump <addr> <reg> <n>", "hex dump n registers", (*console).cmdDump},
		"mux":    {"mux [mask]", "show or set the multiplexer channel mask", (*console).cmdMux},
		"pin":    {"pin [<name> high|low|toggle|get|release]", "list or drive expander pins", (*console).cmdPin},
		"sense":  {"sense <name>", "take an aht20 measurement", (*console).cmdSense},
		"inputs": {"inputs <expander> <byte>", "apply external levels to a simulated expander", (*console).cmdInputs},
		"ipol":   {"ipol <expander> <mask>", "invert the read polarity of input pins", (*console).cmdIPOL},
		"intr":   {"intr <expander> [enable]", "show latched interrupts, optionally enabling pins first", (*console).cmdIntr},
		"ip":     {"ip <a.b.c.d> [port]", "parse an IPv4 endpoint", (*console).cmdIP},
		"mac":    {"mac <aa-bb-cc-dd-ee-ff>", "parse a MAC address", (*console).cmdMAC},
		"help":   {"help", "show this help", (*console).cmdHelp},
	}
}

// console runs commands against a board and prints through a stream.
type console struct {
	b   *Board
	out stream.Output
	log *slog.Logger

	// History holds the outcome of every command run.
	History []result.Result[int]
}

func newConsole(b *Board, w io.Writer) *console {
	return &console{
		b:   b,
		out: stream.NewOutput(stream.NewWriterBuffer(w)),
		log: diag.For(diag.ComponentConsole),
	}
}

// Exec runs one command line. quit is set for exit/quit.
func (c *console) Exec(line string) (res result.Result[int], quit bool) {
	args, err := shlex.Split(line)
	if err != nil {
		return c.record(result.Error[int](&errcode.E{C: errcode.ErrInvalidFormat, Op: "parse", Err: err})), false
	}
	if len(args) == 0 {
		return c.record(result.Value(0)), false
	}
	name := strings.ToLower(args[0])
	if name == "exit" || name == "quit" {
		return c.record(result.Value(0)), true
	}
	cmd, ok := commands[name]
	if !ok {
		return c.record(result.Error[int](&errcode.E{C: errcode.ErrInvalidArgument, Op: name, Msg: "unknown command (try help)"})), false
	}

	f := trap.Catch(func() { res = cmd.run(c, args[1:]) })
	if f != nil {
		res = result.Error[int](f)
	}
	c.log.Debug("command", "name", name, "ok", res.IsValue())
	return c.record(res), false
}

func (c *console) record(res result.Result[int]) result.Result[int] {
	c.History = append(c.History, res)
	if res.IsError() && c.out.IsNominal() {
		_, _ = c.out.Print("error: {}\n", res.Err())
	}
	return res
}

// RunScript runs ';'-separated commands and returns the exit status.
func (c *console) RunScript(script string) int {
	status := 0
	for _, line := range strings.Split(script, ";") {
		res, quit := c.Exec(line)
		if res.IsError() {
			status = 1
		}
		if quit || !c.out.IsNominal() {
			break
		}
	}
	return status
}

// ---------- Output ----------

type printer struct {
	out *stream.Output
	n   int
	err error
}

func (c *console) printer() *printer { return &printer{out: &c.out} }

func (p *printer) print(format string, args ...any) {
	if p.err != nil {
		return
	}
	n, err := p.out.Print(format, args...)
	p.n += n
	p.err = err
}

func (p *printer) result() result.Result[int] { return result.From(p.n, p.err) }

// ---------- Argument parsing ----------

func usage(cmd string) result.Result[int] {
	return result.Error[int](&errcode.E{C: errcode.ErrInvalidArgument, Op: cmd, Msg: "usage: " + commands[cmd].usage})
}

func parseUint(cmd, what, s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, &errcode.E{C: errcode.ErrInvalidArgument, Op: cmd, Msg: "bad " + what + " " + s}
	}
	return v, nil
}

func parseAddress(cmd, s string) (i2c.Address, error) {
	v, err := parseUint(cmd, "address", s, 7)
	if err != nil {
		return i2c.Address{}, err
	}
	return i2c.AddressNumeric(uint8(v)), nil
}

func (c *console) device(a i2c.Address) *i2c.Device {
	return i2c.NewDevice(i2c.NopAligner, c.b.Bus, a, errcode.ErrNonresponsiveDevice)
}

// ---------- Commands ----------

func (c *console) cmdHelp([]string) result.Result[int] {
	p := c.printer()
	for _, name := range []string{"scan", "ping", "read", "write", "dump", "mux", "pin", "inputs", "ipol", "intr", "sense", "ip", "mac", "help"} {
		cmd := commands[name]
		p.print("  {}\n      {}\n", cmd.usage, cmd.help)
	}
	p.print("  exit\n")
	return p.result()
}

func (c *console) cmdScan([]string) result.Result[int] {
	p := c.printer()
	var read i2c.Response
	found := 0
	err := i2c.Scan(c.b.Bus, func(a i2c.Address, op i2c.Operation, resp i2c.Response) error {
		if op == i2c.Read {
			read = resp
			return nil
		}
		if read == i2c.ACK || resp == i2c.ACK {
			found++
			p.print("{} read={} write={}\n", a, read, resp)
		}
		return p.err
	})
	if err != nil {
		return result.Error[int](err)
	}
	p.print("{} device(s)\n", found)
	return p.result()
}

func (c *console) cmdPing(args []string) result.Result[int] {
	if len(args) < 1 || len(args) > 2 {
		return usage("ping")
	}
	a, err := parseAddress("ping", args[0])
	if err != nil {
		return result.Error[int](err)
	}
	op := i2c.PingBoth
	if len(args) == 2 {
		switch args[1] {
		case "read":
			op = i2c.PingRead
		case "write":
			op = i2c.PingWrite
		case "both":
		default:
			return usage("ping")
		}
	}
	ok, err := c.device(a).Ping(op)
	if err != nil {
		return result.Error[int](err)
	}
	p := c.printer()
	if ok {
		p.print("{} responded\n", a)
	} else {
		p.print("{} no response\n", a)
	}
	return p.result()
}

func (c *console) readArgs(cmd string, args []string, needN bool) (i2c.Address, uint8, []byte, error) {
	if len(args) < 2 || len(args) > 3 || (needN && len(args) != 3) {
		return i2c.Address{}, 0, nil, usage(cmd).Err()
	}
	a, err := parseAddress(cmd, args[0])
	if err != nil {
		return a, 0, nil, err
	}
	reg, err := parseUint(cmd, "register", args[1], 8)
	if err != nil {
		return a, 0, nil, err
	}
	n := uint64(1)
	if len(args) == 3 {
		if n, err = parseUint(cmd, "count", args[2], 9); err != nil {
			return a, 0, nil, err
		}
		if n == 0 || n > 256 {
			return a, 0, nil, &errcode.E{C: errcode.ErrOutOfRange, Op: cmd, Msg: "count must be 1-256"}
		}
	}
	buf := make([]byte, n)
	return a, uint8(reg), buf, c.device(a).ReadBlock(uint8(reg), buf)
}

func (c *console) cmdRead(args []string) result.Result[int] {
	_, reg, buf, err := c.readArgs("read", args, false)
	if err != nil {
		return result.Error[int](err)
	}
	p := c.printer()
	for i, v := range buf {
		p.print("{}: {}\n", format.NewHex(reg+uint8(i)), format.NewHex(v))
	}
	return p.result()
}

func (c *console) cmdDump(args []string) result.Result[int] {
	_, reg, buf, err := c.readArgs("dump", args, true)
	if err != nil {
		return result.Error[int](err)
	}
	p := c.printer()
	p.print("{}", format.NewHexDumpAt(uint64(reg), buf))
	return p.result()
}

func (c *console) cmdWrite(args []string) result.Result[int] {
	if len(args) < 3 {
		return usage("write")
	}
	a, err := parseAddress("write", args[0])
	if err != nil {
		return result.Error[int](err)
	}
	reg, err := parseUint("write", "register", args[1], 8)
	if err != nil {
		return result.Error[int](err)
	}
	data := make([]byte, 0, len(args)-2)
	for _, s := range args[2:] {
		v, err := parseUint("write", "byte", s, 8)
		if err != nil {
			return result.Error[int](err)
		}
		data = append(data, byte(v))
	}
	if err := c.device(a).WriteBlock(uint8(reg), data); err != nil {
		return result.Error[int](err)
	}
	p := c.printer()
	p.print("{} byte(s) written to {}\n", len(data), a)
	return p.result()
}

func (c *console) cmdMux(args []string) result.Result[int] {
	if c.b.Mux == nil {
		return result.Error[int](&errcode.E{C: errcode.ErrNotConnected, Op: "mux", Msg: "board has no multiplexer"})
	}
	if len(args) > 1 {
		return usage("mux")
	}
	if len(args) == 1 {
		mask, err := parseUint("mux", "mask", args[0], 8)
		if err != nil {
			return result.Error[int](err)
		}
		if err := c.b.Mux.Select(uint8(mask)); err != nil {
			return result.Error[int](err)
		}
	}
	p := c.printer()
	p.print("mux {} channels {}\n", c.b.Mux.Address(), format.NewBin(c.b.Mux.Channels()))
	return p.result()
}

func (c *console) cmdPin(args []string) result.Result[int] {
	p := c.printer()
	if len(args) == 0 {
		for _, name := range c.b.PinNames() {
			bp := c.b.pins[name]
			p.print("{} {} pin {} {}\n", name, bp.cfg.Expander, bp.cfg.Pin, bp.cfg.Mode)
		}
		return p.result()
	}
	if len(args) != 2 {
		return usage("pin")
	}
	bp, ok := c.b.pins[args[0]]
	if !ok {
		return result.Error[int](&errcode.E{C: errcode.ErrInvalidArgument, Op: "pin", Msg: "unknown pin " + args[0]})
	}

	var err error
	switch args[1] {
	case "high":
		err = bp.io.Out(pgpio.High)
	case "low":
		err = bp.io.Out(pgpio.Low)
	case "toggle":
		if bp.out == nil {
			err = &errcode.E{C: errcode.ErrInvalidArgument, Op: "pin", Msg: args[0] + " is an input"}
		} else {
			err = bp.out.Toggle()
		}
	case "get":
	case "release":
		err = bp.closer.Close()
		delete(c.b.pins, args[0])
		if err == nil {
			p.print("{} released\n", args[0])
		}
		return result.From(p.n, firstErr(err, p.err))
	default:
		return usage("pin")
	}
	if err != nil {
		return result.Error[int](err)
	}
	p.print("{} {}\n", args[0], bp.io.Read().String())
	return p.result()
}

func (c *console) expander(cmd, name string) (*mcp23x08.Driver, error) {
	d, ok := c.b.expanders[name]
	if !ok {
		return nil, &errcode.E{C: errcode.ErrInvalidArgument, Op: cmd, Msg: "unknown expander " + name}
	}
	return d, nil
}

func (c *console) cmdInputs(args []string) result.Result[int] {
	if len(args) != 2 {
		return usage("inputs")
	}
	model := c.b.Model(args[0])
	if model == nil {
		return result.Error[int](&errcode.E{C: errcode.ErrInvalidArgument, Op: "inputs", Msg: "unknown expander " + args[0]})
	}
	v, err := parseUint("inputs", "levels", args[1], 8)
	if err != nil {
		return result.Error[int](err)
	}
	model.Apply(uint8(v))
	p := c.printer()
	p.print("{} inputs {}\n", args[0], format.NewBin(uint8(v)))
	return p.result()
}

func (c *console) cmdIPOL(args []string) result.Result[int] {
	if len(args) != 2 {
		return usage("ipol")
	}
	d, err := c.expander("ipol", args[0])
	if err != nil {
		return result.Error[int](err)
	}
	v, err := parseUint("ipol", "mask", args[1], 8)
	if err != nil {
		return result.Error[int](err)
	}
	if err := d.WriteIPOL(uint8(v)); err != nil {
		return result.Error[int](err)
	}
	gpio, err := d.ReadGPIO()
	if err != nil {
		return result.Error[int](err)
	}
	p := c.printer()
	p.print("{} ipol {} gpio {}\n", args[0], format.NewBin(d.IPOL()), format.NewBin(gpio))
	return p.result()
}

// cmdIntr reads INTF before INTCAP; reading INTCAP clears the flags.
func (c *console) cmdIntr(args []string) result.Result[int] {
	if len(args) < 1 || len(args) > 2 {
		return usage("intr")
	}
	d, err := c.expander("intr", args[0])
	if err != nil {
		return result.Error[int](err)
	}
	if len(args) == 2 {
		enable, err := parseUint("intr", "mask", args[1], 8)
		if err != nil {
			return result.Error[int](err)
		}
		if err := d.ConfigureInterrupts(uint8(enable), 0, 0); err != nil {
			return result.Error[int](err)
		}
	}
	intf, err := d.ReadINTF()
	if err != nil {
		return result.Error[int](err)
	}
	p := c.printer()
	if intf == 0 {
		p.print("{} no interrupt\n", args[0])
		return p.result()
	}
	intcap, err := d.ReadINTCAP()
	if err != nil {
		return result.Error[int](err)
	}
	p.print("{} intf {} intcap {} pin {}\n", args[0], format.NewBin(intf), format.NewBin(intcap), bitx.HighestBitSet(intf))
	return p.result()
}

func (c *console) cmdSense(args []string) result.Result[int] {
	if len(args) != 1 {
		return usage("sense")
	}
	d, ok := c.b.sensors[args[0]]
	if !ok {
		return result.Error[int](&errcode.E{C: errcode.ErrInvalidArgument, Op: "sense", Msg: "unknown sensor " + args[0]})
	}
	if err := d.Configure(); err != nil {
		return result.Error[int](err)
	}
	s, err := d.Read()
	if err != nil {
		return result.Error[int](err)
	}
	p := c.printer()
	p.print("{} {}\n", args[0], s)
	return p.result()
}

func (c *console) cmdIP(args []string) result.Result[int] {
	if len(args) < 1 || len(args) > 2 {
		return usage("ip")
	}
	a, err := ipv4.Parse(args[0])
	if err != nil {
		return result.Error[int](err)
	}
	port := ip.AnyPort
	if len(args) == 2 {
		v, err := parseUint("ip", "port", args[1], 16)
		if err != nil {
			return result.Error[int](err)
		}
		port = ip.Port(v)
	}
	e := ip.NewEndpoint(ip.FromIPv4(a), port)
	p := c.printer()
	p.print("{} hex={} loopback={} multicast={} broadcast={}\n",
		e, format.NewHex(a.Uint32()), a.IsLoopback(), a.IsMulticast(), a.IsBroadcast())
	return p.result()
}

func (c *console) cmdMAC(args []string) result.Result[int] {
	if len(args) != 1 {
		return usage("mac")
	}
	m, err := mac.Parse(args[0])
	if err != nil {
		return result.Error[int](err)
	}
	p := c.printer()
	p.print("{} local={} multicast={}\n", m, m.IsLocallyAdministered(), m.IsMulticast())
	return p.result()
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
