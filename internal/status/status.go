// Package status renders leveled console output in the classic
// [+]/[i]/[!]/[-] format. It is the diagnostic collaborator for the core;
// the core never formats or colors anything itself.
package status

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes status lines. Success and info go to stdout, warnings and
// errors to stderr. Info lines are only emitted in verbose mode; quiet mode
// suppresses everything.
type Printer struct {
	Quiet   bool
	Verbose bool

	out io.Writer
	err io.Writer

	success lipgloss.Style
	info    lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
}

// New creates a Printer writing to stdout/stderr.
func New(quiet, verbose, noColors bool) *Printer {
	return NewWithWriters(os.Stdout, os.Stderr, quiet, verbose, noColors)
}

// NewWithWriters creates a Printer with explicit writers, for tests.
func NewWithWriters(out, err io.Writer, quiet, verbose, noColors bool) *Printer {
	p := &Printer{
		Quiet:   quiet,
		Verbose: verbose,
		out:     out,
		err:     err,
	}

	if !noColors {
		p.success = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
		p.info = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))    // blue
		p.warn = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))    // yellow
		p.fail = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))    // red
	}

	return p
}

// Successf prints a "[+]" line to stdout.
func (p *Printer) Successf(format string, args ...any) {
	p.print(p.out, p.success, "[+]", format, args...)
}

// Infof prints an "[i]" line to stdout, only in verbose mode.
func (p *Printer) Infof(format string, args ...any) {
	if !p.Verbose {
		return
	}
	p.print(p.out, p.info, "[i]", format, args...)
}

// Warnf prints a "[!]" line to stderr.
func (p *Printer) Warnf(format string, args ...any) {
	p.print(p.err, p.warn, "[!]", format, args...)
}

// Errorf prints a "[-]" line to stderr.
func (p *Printer) Errorf(format string, args ...any) {
	p.print(p.err, p.fail, "[-]", format, args...)
}

func (p *Printer) print(w io.Writer, style lipgloss.Style, prefix, format string, args ...any) {
	if p.Quiet {
		return
	}
	fmt.Fprintf(w, "%s %s\n", style.Render(prefix), fmt.Sprintf(format, args...))
}
