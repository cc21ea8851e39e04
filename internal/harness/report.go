package harness

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Printer writes case progress and verdict lines.
type Printer struct {
	w      io.Writer
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	bold   *color.Color
}

// NewPrinter returns a Printer for w. Colour is used only when w is a
// terminal.
func NewPrinter(w io.Writer) *Printer {
	return newPrinter(w, IsTerminal(w))
}

// NewPlainPrinter returns a Printer that never colours.
func NewPlainPrinter(w io.Writer) *Printer {
	return newPrinter(w, false)
}

func newPrinter(w io.Writer, colorOutput bool) *Printer {
	p := &Printer{
		w:      w,
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.green, p.red, p.yellow, p.bold} {
		if colorOutput {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Running announces case i.
func (p *Printer) Running(i int, input string) {
	fmt.Fprintf(p.w, "Running test case %d with input '%s'...\n", i, input)
}

// Verdict writes the verdict line of o.
func (p *Printer) Verdict(o CaseOutcome) {
	fmt.Fprintln(p.w, p.verdictLine(o))
}

func (p *Printer) verdictLine(o CaseOutcome) string {
	switch o.Verdict {
	case VerdictCorrect:
		return p.green.Sprint("Correct!")
	case VerdictWrongAnswer:
		return p.red.Sprint("Wrong Answer.") + fmt.Sprintf(" Have: '%s'. Want: '%s'.", o.Output, o.Expected)
	default:
		return p.yellow.Sprint("Runtime Error.") + " " + o.Message
	}
}

// Summary writes a one-line tally of r.
func (p *Printer) Summary(r *Result) {
	status := p.green.Sprint("PASS")
	if !r.Pass {
		status = p.red.Sprint("FAIL")
	}
	fmt.Fprintf(p.w, "%s %s: %d passed, %d failed\n", status, p.bold.Sprint(r.Scenario), r.Passed, r.Failed)
}

// Report writes every outcome of r followed by the summary, as Run
// printed them.
func Report(w io.Writer, r *Result) {
	p := NewPrinter(w)
	for _, o := range r.Outcomes {
		p.Running(o.Index, o.Input)
		p.Verdict(o)
	}
	p.Summary(r)
}
