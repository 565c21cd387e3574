// Package diag holds the structured diagnostics logger used by the host-side
// parts of the library (trap reports, bus scans, the console).
//
// MCU entry points keep using println; nothing in the transport hot paths logs.
package diag

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Component identifies a subsystem for log filtering.
type Component string

const (
	ComponentTrap    Component = "trap"
	ComponentI2C     Component = "i2c"
	ComponentSPI     Component = "spi"
	ComponentGPIO    Component = "gpio"
	ComponentConsole Component = "console"
)

var (
	logger   *slog.Logger
	logLevel = new(slog.LevelVar)
	logMu    sync.RWMutex
)

func init() {
	logLevel.Set(slog.LevelWarn)
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// Logger returns the current default logger.
func Logger() *slog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

// For returns the default logger tagged with a component attribute.
func For(c Component) *slog.Logger {
	return Logger().With(slog.String("component", string(c)))
}

// SetLogLevel sets the minimum level of the default handler.
func SetLogLevel(level slog.Level) { logLevel.Set(level) }

// LogLevel returns the current minimum level.
func LogLevel() slog.Level { return logLevel.Level() }

// SetLogger replaces the default logger.
func SetLogger(l *slog.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	logger = l
}

// NewLogger creates a text logger on w. A nil opts uses the shared level.
func NewLogger(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: logLevel}
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
