package demo

import (
	"fmt"
	"hash/fnv"
	"io"
	"sync"

	"github.com/fatih/color"
)

var palette = []color.Attribute{
	color.FgCyan,
	color.FgGreen,
	color.FgYellow,
	color.FgMagenta,
	color.FgBlue,
	color.FgRed,
}

// Printer writes task output lines, each prefixed with the task name in
// a color picked from that name.
//
// A Printer is safe for concurrent use by scenarios running in parallel.
type Printer struct {
	mu      sync.Mutex
	w       io.Writer
	noColor bool
	prefix  bool
	lines   int
}

// NewPrinter returns a [Printer] writing to w.
// Colors follow color.NoColor unless noColor is set.
func NewPrinter(w io.Writer, noColor bool) *Printer {
	return &Printer{w: w, noColor: noColor, prefix: true}
}

// Plain makes p print bare task output, without prefixes.
func (p *Printer) Plain() *Printer {
	p.prefix = false
	return p
}

// Print writes one line of output from task.
func (p *Printer) Print(task, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lines++

	if !p.prefix {
		fmt.Fprintln(p.w, text)
		return
	}

	c := color.New(colorFor(task), color.Bold)
	if p.noColor {
		c.DisableColor()
	}
	fmt.Fprintf(p.w, "%s %s\n", c.Sprintf("[%s]", task), text)
}

// Lines returns the number of lines printed so far.
func (p *Printer) Lines() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lines
}

func colorFor(task string) color.Attribute {
	h := fnv.New32a()
	_, _ = h.Write([]byte(task))
	return palette[h.Sum32()%uint32(len(palette))]
}
