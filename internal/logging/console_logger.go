package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// ConsoleLogger writes log messages to stderr.
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	verbose bool
	out     io.Writer
	mu      sync.Mutex

	verbosePrefix string
	errorPrefix   string
}

// ConsoleOption configures a ConsoleLogger.
type ConsoleOption func(*consoleConfig)

type consoleConfig struct {
	out   io.Writer
	color bool
}

// WithOutput redirects log output, mainly for tests.
func WithOutput(w io.Writer) ConsoleOption {
	return func(c *consoleConfig) { c.out = w }
}

// WithColor forces colored prefixes on or off. By default prefixes are
// colored only when stderr is a terminal.
func WithColor(enabled bool) ConsoleOption {
	return func(c *consoleConfig) { c.color = enabled }
}

// NewConsoleLogger creates a new ConsoleLogger.
// If verbose is true, Verbose() calls will produce output.
// If verbose is false, Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool, opts ...ConsoleOption) *ConsoleLogger {
	cfg := consoleConfig{out: os.Stderr, color: !color.NoColor}
	for _, opt := range opts {
		opt(&cfg)
	}

	verbosePrefix := color.New(color.FgCyan)
	errorPrefix := color.New(color.FgRed, color.Bold)
	if cfg.color {
		verbosePrefix.EnableColor()
		errorPrefix.EnableColor()
	} else {
		verbosePrefix.DisableColor()
		errorPrefix.DisableColor()
	}

	return &ConsoleLogger{
		verbose:       verbose,
		out:           cfg.out,
		verbosePrefix: verbosePrefix.Sprint("[VERBOSE]") + " ",
		errorPrefix:   errorPrefix.Sprint("[ERROR]") + " ",
	}
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.write(l.verbosePrefix, format, args)
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.write("", format, args)
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.write(l.errorPrefix, format, args)
}

func (l *ConsoleLogger) write(prefix, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.out, prefix+msg+"\n")
}
