// Package logger provides leveled console logging for pdfrag.
// Debug, Info and Warn messages are printed only in verbose mode (the
// --verbose flag); Error messages are always printed. Level tags are
// coloured when the output is a terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	mu      sync.RWMutex
	verbose bool
	colored        = !color.NoColor
	output  io.Writer = os.Stderr

	debugTag   = newTag(color.FgCyan)
	infoTag    = newTag(color.FgGreen)
	warnTag    = newTag(color.FgYellow)
	errorTag   = newTag(color.FgRed, color.Bold)
	sectionTag = newTag(color.FgMagenta, color.Bold)
)

// newTag returns a colour that ignores color.NoColor; SetColor decides.
func newTag(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetColor forces coloured level tags on or off.
func SetColor(on bool) {
	mu.Lock()
	defer mu.Unlock()
	colored = on
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(debugTag, "[DEBUG] ", format, args, false)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n%s\n", paint(sectionTag, "=== "+name+" ==="))
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(infoTag, "[INFO] ", format, args, false)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf(warnTag, "[WARN] ", format, args, false)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	logf(errorTag, "[ERROR] ", format, args, true)
}

func logf(tag *color.Color, prefix, format string, args []any, always bool) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose || always {
		fmt.Fprintf(output, paint(tag, prefix)+format+"\n", args...)
	}
}

// paint must be called with mu held.
func paint(c *color.Color, s string) string {
	if !colored {
		return s
	}
	return c.Sprint(s)
}
