// Package printer writes coloured CLI output.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
)

// Printer writes to an output and an error stream. Colour follows the
// fatih/color defaults, so NO_COLOR and non-terminal outputs print plain text.
type Printer struct {
	out io.Writer
	err io.Writer
}

// New returns a printer over out and errOut. Nil writers select the process
// standard streams.
func New(out, errOut io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{out: out, err: errOut}
}

// Out returns the output stream.
func (p *Printer) Out() io.Writer { return p.out }

// Success prints a green line with a check mark.
func (p *Printer) Success(format string, a ...any) {
	green.Fprintf(p.out, "✓ %s\n", fmt.Sprintf(format, a...))
}

// Info prints a plain line.
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintf(p.out, format+"\n", a...)
}

// Heading prints a bold line.
func (p *Printer) Heading(format string, a ...any) {
	bold.Fprintf(p.out, "%s\n", fmt.Sprintf(format, a...))
}

// Step prints a cyan progress line.
func (p *Printer) Step(format string, a ...any) {
	cyan.Fprintf(p.out, "→ %s\n", fmt.Sprintf(format, a...))
}

// Warning prints a yellow line to the error stream.
func (p *Printer) Warning(format string, a ...any) {
	yellow.Fprintf(p.err, "! %s\n", fmt.Sprintf(format, a...))
}

// Error prints a titled error with an explanation and suggestions to the
// error stream and returns an error carrying only the title for cobra.
func (p *Printer) Error(title, explanation string, suggestions ...string) error {
	red.Fprintf(p.err, "%s\n", title)
	if explanation != "" {
		fmt.Fprintf(p.err, "\n%s\n", explanation)
	}
	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(p.err, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(p.err, "\nEither:\n")
		for i, s := range suggestions {
			fmt.Fprintf(p.err, "  %d. %s\n", i+1, s)
		}
	}
	return fmt.Errorf("%s", title)
}

// Table prints rows with left-aligned columns padded to the widest cell.
func (p *Printer) Table(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	line := func(cells []string) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}
	bold.Fprintf(p.out, "%s\n", line(header))
	for _, row := range rows {
		fmt.Fprintln(p.out, line(row))
	}
}
