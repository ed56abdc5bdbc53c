// Package console prints the colored status lines a user sees during a run.
//
// Status output (phases, successes, warnings, errors) goes through Console and
// is colored with fatih/color. Diagnostic output for troubleshooting goes
// through Debug, which is backed by charmbracelet/log and silent unless the
// level is lowered with --log-level.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
)

// Logger is the status sink every pipeline component writes to.
type Logger interface {
	// Phase announces the start of a pipeline phase.
	Phase(format string, args ...any)
	// Success reports a completed phase.
	Success(format string, args ...any)
	// Info prints a plain indented line.
	Info(format string, args ...any)
	// Warn prints a warning.
	Warn(format string, args ...any)
	// Error prints an error line to the error stream.
	Error(format string, args ...any)
	// Debug emits a structured diagnostic record.
	Debug(msg string, keyvals ...any)
}

var (
	phaseColor   = color.New(color.FgBlue, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	hintColor    = color.New(color.FgCyan)
)

// Console is the terminal implementation of Logger.
type Console struct {
	out   io.Writer
	err   io.Writer
	debug *log.Logger
}

// Options configures a Console.
type Options struct {
	// Out receives status lines. Defaults to os.Stdout.
	Out io.Writer

	// Err receives error lines and debug records. Defaults to os.Stderr.
	Err io.Writer

	// Level is the charmbracelet/log level name for Debug records
	// ("debug", "info", "warn", "error"). Defaults to "warn".
	Level string

	// NoColor disables ANSI colors.
	NoColor bool
}

// New creates a Console.
func New(opts Options) (*Console, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Level == "" {
		opts.Level = "warn"
	}
	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	if opts.NoColor {
		color.NoColor = true
	}

	debug := log.NewWithOptions(opts.Err, log.Options{
		Level:  level,
		Prefix: "nextbase",
	})

	return &Console{out: opts.Out, err: opts.Err, debug: debug}, nil
}

// Discard returns a Console that drops all output.
func Discard() *Console {
	return &Console{
		out:   io.Discard,
		err:   io.Discard,
		debug: log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel}),
	}
}

// Banner prints the startup banner.
func (c *Console) Banner() {
	fmt.Fprintln(c.out, phaseColor.Sprint("\n🚀 Create Next.js + Supabase Project\n"))
}

// Phase prints a blue status line preceded by a blank line.
func (c *Console) Phase(format string, args ...any) {
	fmt.Fprintf(c.out, "\n%s\n\n", phaseColor.Sprintf(format, args...))
}

// Success prints a success message.
func (c *Console) Success(format string, args ...any) {
	fmt.Fprintf(c.out, "%s %s\n", successColor.Sprint("✓"), fmt.Sprintf(format, args...))
}

// Info prints an info message.
func (c *Console) Info(format string, args ...any) {
	fmt.Fprintf(c.out, "  %s\n", fmt.Sprintf(format, args...))
}

// Hint prints a cyan, indented follow-up instruction.
func (c *Console) Hint(format string, args ...any) {
	fmt.Fprintf(c.out, "  %s\n", hintColor.Sprintf(format, args...))
}

// Warn prints a warning message.
func (c *Console) Warn(format string, args ...any) {
	fmt.Fprintf(c.out, "%s %s\n", warnColor.Sprint("⚠"), fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (c *Console) Error(format string, args ...any) {
	fmt.Fprintf(c.err, "%s %s\n", errorColor.Sprint("✗"), errorColor.Sprintf(format, args...))
}

// Debug emits a diagnostic record.
func (c *Console) Debug(msg string, keyvals ...any) {
	c.debug.Debug(msg, keyvals...)
}

// ErrWriter returns the stream errors are written to.
func (c *Console) ErrWriter() io.Writer {
	return c.err
}
