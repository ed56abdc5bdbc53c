package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	redB   = color.New(color.FgRed, color.Bold).SprintFunc()
	white  = color.New(color.FgWhite).SprintFunc()
	whiteB = color.New(color.FgWhite, color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	blue   = color.New(color.FgBlue).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

// DisableColors disables ANSI color output.
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables ANSI color output.
func EnableColors() {
	color.NoColor = false
}

// Format returns a formatted error message for terminal display.
func (e *ScaffoldError) Format() string {
	var b strings.Builder

	// Header line
	b.WriteString("\n")
	if e.Code != "" {
		b.WriteString(redB("ERROR "))
		b.WriteString(whiteB(e.Code + ": "))
		b.WriteString(white(e.Message))
	} else {
		b.WriteString(redB("ERROR: "))
		b.WriteString(white(e.Message))
	}
	b.WriteString("\n\n")

	// Step
	if e.Step != "" {
		b.WriteString("  ")
		b.WriteString(cyan("step " + e.Step))
		if e.ExitCode != 0 {
			b.WriteString(fmt.Sprintf(" (exit status %d)", e.ExitCode))
		}
		b.WriteString("\n\n")
	}

	// Output tail
	if len(e.Output) > 0 {
		for _, line := range e.Output {
			b.WriteString("    ")
			b.WriteString(gray("│ "))
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Detail
	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 70) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Cause
	if e.Wrapped != nil {
		b.WriteString("  ")
		b.WriteString(gray("Cause: "))
		b.WriteString(e.Wrapped.Error())
		b.WriteString("\n\n")
	}

	// Suggestion
	if e.Suggestion != "" {
		b.WriteString("  ")
		b.WriteString(cyan("Hint: "))
		b.WriteString(e.Suggestion)
		b.WriteString("\n\n")
	}

	return b.String()
}

// FormatCompact returns a compact single-line error format.
func (e *ScaffoldError) FormatCompact() string {
	var b strings.Builder

	if e.Step != "" {
		b.WriteString(e.Step)
		b.WriteString(": ")
	}

	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}

	b.WriteString(e.Message)

	if e.ExitCode != 0 {
		b.WriteString(fmt.Sprintf(" (exit status %d)", e.ExitCode))
	}

	return b.String()
}

// wrapText wraps text to the specified width.
func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	var current strings.Builder

	for _, word := range words {
		if current.Len()+len(word)+1 > width {
			if current.Len() > 0 {
				lines = append(lines, current.String())
				current.Reset()
			}
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}

	if current.Len() > 0 {
		lines = append(lines, current.String())
	}

	return lines
}

// PrintError writes a formatted error to w.
func PrintError(w io.Writer, err error) {
	if se, ok := As(err); ok {
		fmt.Fprint(w, se.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", redB("ERROR:"), red(err.Error()))
}
