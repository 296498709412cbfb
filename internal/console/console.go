// Package console prints progress lines for the command-line tools.
package console

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Printer writes progress lines. The check mark is only used when the
// output is a terminal; redirected output stays ASCII.
type Printer struct {
	w     io.Writer
	check string
	ok    bool
}

// New returns a Printer for w. If w is an *os.File attached to a terminal,
// lines are prefixed with "✓", otherwise with "OK".
func New(w io.Writer) *Printer {
	p := &Printer{w: w, check: "OK"}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.check = "✓"
	}
	return p
}

// Stdout returns a Printer for os.Stdout.
func Stdout() *Printer {
	return New(os.Stdout)
}

// Done prints a success line.
func (p *Printer) Done(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", p.check, fmt.Sprintf(format, args...))
}

// Line prints a plain line.
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Item prints an indented bullet.
func (p *Printer) Item(format string, args ...any) {
	fmt.Fprintf(p.w, "  • %s\n", fmt.Sprintf(format, args...))
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	fmt.Fprintln(p.w)
}
