// Package console renders build progress for a terminal.
package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/specialistvlad/coyote/internal/executor"
	"github.com/specialistvlad/coyote/internal/recipe"
)

const (
	tick  = "✅"
	cross = "❌"
)

// Reporter prints progress lines to Out and command diagnostics to Err. It
// implements executor.Reporter.
type Reporter struct {
	Out io.Writer
	Err io.Writer
	// Color enables terminal styling.
	Color bool
	// Recipe is the name of a non-default recipe, announced at the start of
	// the run. Empty for the default recipe.
	Recipe string
}

var _ executor.Reporter = (*Reporter)(nil)

// New creates a Reporter writing to out and errOut.
func New(out, errOut io.Writer, colored bool) *Reporter {
	return &Reporter{Out: out, Err: errOut, Color: colored}
}

func (r *Reporter) paint(c color.Color, text string) string {
	if !r.Color {
		return text
	}
	return c.Render(text)
}

func (r *Reporter) RunStarted(rcp *recipe.Recipe) {
	if r.Recipe != "" {
		fmt.Fprintln(r.Out, r.paint(color.Green, fmt.Sprintf("[coyote] Building recipe '%s'", r.Recipe)))
	}
}

func (r *Reporter) TargetStarted(index, total int, t *recipe.Target) {
	fmt.Fprintf(r.Out, "[%d/%d] %s '%s'\n", index, total, r.paint(color.Cyan, "Building target"), t.Name)
}

func (r *Reporter) CommandFinished(index, total int, res executor.Result) {
	prefix := r.paint(color.Gray, fmt.Sprintf("(%d/%d)", index, total))
	line := res.CommandLine()

	switch res.Status {
	case executor.StatusSkipped:
		fmt.Fprintf(r.Out, "   %s -> %s %s\n", prefix, r.paint(color.Gray, "Skipped"), line)
	case executor.StatusFailed:
		r.Diagnostic("", fmt.Sprintf("Failed to execute command '%s': \n\n%s", res.Program, res.Stderr), false)
		fmt.Fprintf(r.Out, "   %s -> %s %s %s\n", prefix, cross, r.paint(color.Blue, "Finished"), line)
	default:
		fmt.Fprintf(r.Out, "   %s -> %s %s %s\n", prefix, tick, r.paint(color.Blue, "Finished"), line)
	}
}

func (r *Reporter) RunFinished(rep *executor.Report, err error) {
	if err != nil {
		return
	}
	msg := fmt.Sprintf("[coyote] Finished building project '%s' in %s", rep.Project, FormatDuration(rep.Duration()))
	if n := rep.Count(executor.StatusFailed); n > 0 {
		msg += fmt.Sprintf(" (%d failed)", n)
	}
	fmt.Fprintln(r.Out, r.paint(color.Green, msg))
}

// Diagnostic prints "[coyote/<tag>] <message>" to Err, marking fatal
// diagnostics. An empty tag prints "[coyote]".
func (r *Reporter) Diagnostic(tag, message string, fatal bool) {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(r.paint(color.Red, "coyote"))
	if tag != "" {
		b.WriteString("/")
		b.WriteString(r.paint(color.Gray, tag))
	}
	b.WriteString("] ")
	b.WriteString(message)
	if fatal {
		b.WriteString(" (")
		b.WriteString(r.paint(color.LightRed, "fatal"))
		b.WriteString(")")
	}
	fmt.Fprintln(r.Err, b.String())
}

// FormatDuration renders d for humans, rounded to milliseconds below a
// minute and to seconds above.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
