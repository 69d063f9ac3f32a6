package display

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/lintcat/internal/models"
)

// Palette colors text when enabled. The zero value prints plain text.
type Palette struct {
	enabled bool
}

// NewPalette enables colors when w is a terminal and NO_COLOR is unset.
func NewPalette(w io.Writer) Palette {
	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return Palette{}
	}
	fd := f.Fd()
	return Palette{enabled: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

// PlainPalette returns a palette that never colors
func PlainPalette() Palette {
	return Palette{}
}

// Enabled reports whether the palette emits color codes
func (p Palette) Enabled() bool {
	return p.enabled
}

func (p Palette) paint(s string, attrs ...color.Attribute) string {
	if !p.enabled {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

// Level colors a severity: red for Forbid and Deny, yellow for Warn,
// magenta for Deprecated.
func (p Palette) Level(level models.Severity) string {
	switch level {
	case models.LevelForbid, models.LevelDeny:
		return p.paint(string(level), color.FgRed, color.Bold)
	case models.LevelWarn:
		return p.paint(string(level), color.FgYellow)
	case models.LevelDeprecated:
		return p.paint(string(level), color.FgMagenta)
	}
	return p.paint(string(level), color.Faint)
}

// Added colors text green
func (p Palette) Added(s string) string {
	return p.paint(s, color.FgGreen)
}

// Removed colors text red
func (p Palette) Removed(s string) string {
	return p.paint(s, color.FgRed)
}

// Warn colors text yellow
func (p Palette) Warn(s string) string {
	return p.paint(s, color.FgYellow)
}

// Step colors text cyan
func (p Palette) Step(s string) string {
	return p.paint(s, color.FgCyan)
}
