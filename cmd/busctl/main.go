// Command busctl is a console for a simulated board: an I²C bus with an
// optional TCA9548A multiplexer, register devices and MCP23008 expanders
// whose pins are driven through periph.io.
//
//	busctl                       interactive shell on the built-in board
//	busctl -board b.yaml         load a board description
//	busctl -c "scan; pin led high"
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"devicecore-go/diag"
	"devicecore-go/errcode"
	"devicecore-go/trap"

	"github.com/chzyer/readline"
)

func main() {
	boardPath := flag.String("board", "", "board description (YAML); empty uses the built-in board")
	script := flag.String("c", "", "run ';'-separated commands and exit")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *verbose {
		diag.SetLogLevel(slog.LevelDebug)
	}
	// Traps inside a command are reported by the console, not fatal.
	trap.SetHandler(func(loc trap.Location, err errcode.Code) {
		diag.For(diag.ComponentTrap).Debug("trap", "code", err.Error(), "file", loc.File, "line", loc.Line)
		panic(&trap.Failure{Location: loc, Code: err})
	})

	cfg, err := loadConfig(*boardPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "busctl:", err)
		os.Exit(2)
	}
	board, err := NewBoard(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "busctl:", err)
		os.Exit(2)
	}

	if *script != "" {
		os.Exit(newConsole(board, os.Stdout).RunScript(*script))
	}
	if err := interactive(board); err != nil {
		fmt.Fprintln(os.Stderr, "busctl:", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (BoardConfig, error) {
	if path == "" {
		return ParseBoard([]byte(defaultBoardYAML))
	}
	return LoadBoard(path)
}

func interactive(board *Board) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "busctl> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	diag.SetLogger(diag.NewLogger(rl.Stderr(), nil))
	c := newConsole(board, rl.Stdout())
	c.Exec("help")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			return nil
		}
		if _, quit := c.Exec(line); quit || !c.out.IsNominal() {
			return nil
		}
	}
}
