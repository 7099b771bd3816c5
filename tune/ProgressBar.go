package tune

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// progressBar prints a timestep progress bar for a running trial. It
// is updated manually from the trial loop and uses no concurrency.
type progressBar struct {
	width    float64
	max      float64
	progress float64
	out      io.Writer
	bar      strings.Builder
	start    time.Time
}

// newProgressBar returns a progress bar that reaches 100% once Add
// has accumulated max progress.
func newProgressBar(out io.Writer, width int, max float64) *progressBar {
	return &progressBar{
		width: float64(width),
		max:   max,
		out:   out,
		start: time.Now(),
	}
}

// Add advances the progress counter by n.
func (p *progressBar) Add(n float64) {
	p.progress += n
	if p.progress > p.max {
		p.progress = p.max
	}
}

// Display redraws the progress bar in place.
func (p *progressBar) Display() {
	p.bar.Reset()
	p.bar.WriteString("|")

	filled := p.progress / p.max * p.width
	for i := 0.0; i < filled; i++ {
		p.bar.WriteString("█")
	}
	for i := filled; i < p.width; i++ {
		p.bar.WriteString(" ")
	}
	p.bar.WriteString(fmt.Sprintf("| [%.2f%% | elapsed: %v]",
		p.progress/p.max*100,
		time.Since(p.start).Truncate(time.Second)))

	fmt.Fprintf(p.out, "\n\033[1A\033[K%v", p.bar.String())
}

// Finish jumps to the line after the bar.
func (p *progressBar) Finish() {
	fmt.Fprintln(p.out)
}
