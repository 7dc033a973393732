// Package ui prints user-facing status lines for the CLI. Structured logs go
// through slog; this package is only for the short human summary lines.
package ui

import (
	"io"
	"os"

	"github.com/fatih/color"
)

// Out and ErrOut are the destinations for status lines. Tests swap them to
// capture output; color.Output/color.Error keep ANSI handling correct on
// Windows.
var (
	Out    io.Writer = color.Output
	ErrOut io.Writer = color.Error
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	bold   = color.New(color.Bold)
)

// Success prints a green checkmarked line to Out.
func Success(format string, args ...any) {
	green.Fprintf(Out, "✓ "+format+"\n", args...)
}

// Error prints a red line to ErrOut.
func Error(format string, args ...any) {
	red.Fprintf(ErrOut, "✗ "+format+"\n", args...)
}

// Warning prints a yellow line to ErrOut.
func Warning(format string, args ...any) {
	yellow.Fprintf(ErrOut, "⚠ "+format+"\n", args...)
}

// Info prints a plain line to Out.
func Info(format string, args ...any) {
	color.New().Fprintf(Out, format+"\n", args...)
}

// Header prints a bold line to Out.
func Header(format string, args ...any) {
	bold.Fprintf(Out, format+"\n", args...)
}

// Fatal prints a red line to ErrOut and exits.
func Fatal(format string, args ...any) {
	Error(format, args...)
	os.Exit(1)
}
