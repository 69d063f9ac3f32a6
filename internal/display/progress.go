package display

import (
	"fmt"
	"io"
	"path/filepath"
)

// ProgressIndicator prints one line per scanned lint source
type ProgressIndicator struct {
	writer  io.Writer
	palette Palette
	total   int
	current int
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, p Palette) *ProgressIndicator {
	return &ProgressIndicator{
		writer:  w,
		palette: p,
	}
}

// Step displays progress for the current file: [N/Total] filename
func (p *ProgressIndicator) Step(done, total int, file string) {
	if p.current == 0 {
		fmt.Fprintf(p.writer, "Scanning %d lint sources:\n", total)
	}
	p.current = done
	p.total = total
	fmt.Fprintln(p.writer, p.palette.Step(fmt.Sprintf("  [%d/%d] %s", done, total, filepath.Base(file))))
}

// Complete displays the summary line
func (p *ProgressIndicator) Complete(lints, configs int) {
	fmt.Fprintf(p.writer, "%s Scanned %d files: %d lints, %d configs\n", p.palette.Added("✓"), p.total, lints, configs)
}
