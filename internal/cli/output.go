// Package cli provides styled terminal output for the scripting commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/Veraticus/phonecdp/internal/model"
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "!"
	InfoIcon    = "i"
)

// Printer writes user-facing output, colored only when the destination is a
// terminal.
type Printer struct {
	w       io.Writer
	title   *color.Color
	success *color.Color
	warning *color.Color
	danger  *color.Color
	info    *color.Color
	subtle  *color.Color
}

// NewPrinter returns a Printer for w. Color is enabled when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	return NewPrinterWithColor(w, IsTerminal(w))
}

// NewPrinterWithColor returns a Printer with color forced on or off.
func NewPrinterWithColor(w io.Writer, enabled bool) *Printer {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}

	return &Printer{
		w:       w,
		title:   mk(color.FgHiMagenta, color.Bold),
		success: mk(color.FgGreen),
		warning: mk(color.FgYellow),
		danger:  mk(color.FgRed),
		info:    mk(color.FgCyan),
		subtle:  mk(color.FgHiBlack),
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Println writes a plain line.
func (p *Printer) Println(a ...any) {
	_, _ = fmt.Fprintln(p.w, a...)
}

// Printf writes formatted plain output.
func (p *Printer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(p.w, format, a...)
}

// Title writes a section title followed by a blank line.
func (p *Printer) Title(text string) {
	_, _ = p.title.Fprintln(p.w, text)
	_, _ = fmt.Fprintln(p.w)
}

// Success writes a success line.
func (p *Printer) Success(message string) {
	_, _ = p.success.Fprintln(p.w, SuccessIcon+" "+message)
}

// Warning writes a warning line.
func (p *Printer) Warning(message string) {
	_, _ = p.warning.Fprintln(p.w, WarningIcon+" "+message)
}

// Error writes an error line.
func (p *Printer) Error(message string) {
	_, _ = p.danger.Fprintln(p.w, ErrorIcon+" "+message)
}

// Info writes an informational line.
func (p *Printer) Info(message string) {
	_, _ = p.info.Fprintln(p.w, InfoIcon+" "+message)
}

// Subtle renders text in the muted color.
func (p *Printer) Subtle(text string) string {
	return p.subtle.Sprint(text)
}

// Bold renders text as a title.
func (p *Printer) Bold(text string) string {
	return p.title.Sprint(text)
}

// Verdict renders a verdict in its color. Unknown verdicts are uncolored.
func (p *Printer) Verdict(v model.Verdict) string {
	switch v {
	case model.VerdictAuthentic:
		return p.success.Sprint(string(v))
	case model.VerdictSuspicious:
		return p.warning.Sprint(string(v))
	case model.VerdictCounterfeit, model.VerdictError:
		return p.danger.Sprint(string(v))
	default:
		return string(v)
	}
}
