package display

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/harrison/lintcat/internal/models"
	"github.com/harrison/lintcat/internal/parser"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning
func (w Warning) Display(out io.Writer, p Palette) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		if len(w.Files) == 1 {
			b.WriteString("    Affected file:\n")
		} else {
			b.WriteString("    Affected files:\n")
		}
		for i, file := range w.Files {
			fmt.Fprintf(&b, "      %d. %s\n", i+1, file)
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	fmt.Fprint(out, p.Warn(b.String()))
}

// CatalogWarnings turns the diagnostics of a catalog into warning blocks:
// one per skipped file, one for all declarations missing a name, and one
// per other recoverable problem.
func CatalogWarnings(c *models.Catalog) []Warning {
	var warnings []Warning

	for _, err := range c.FileErrors {
		w := Warning{
			Title:      "Skipped lint source",
			Message:    err.Error(),
			Suggestion: "Fix the declaration or rerun without --continue-on-error to stop at the first bad file",
		}
		var se *parser.StructuralError
		if errors.As(err, &se) {
			w.Files = []string{se.File}
		}
		warnings = append(warnings, w)
	}

	var unnamed []string
	for _, err := range c.Warnings {
		var mn *parser.MissingNameError
		if errors.As(err, &mn) {
			unnamed = append(unnamed, fmt.Sprintf("%s:%d", mn.File, mn.Line))
			continue
		}
		warnings = append(warnings, Warning{Title: err.Error()})
	}
	if len(unnamed) > 0 {
		warnings = append(warnings, Warning{
			Title:   "Declarations without a name",
			Message: "These declarations were skipped because no `pub NAME` line was found before the closing brace.",
			Files:   unnamed,
		})
	}

	return warnings
}
