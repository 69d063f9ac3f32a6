package display

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/harrison/lintcat/internal/history"
	"github.com/harrison/lintcat/internal/models"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// LintTable prints one row per lint
func LintTable(w io.Writer, p Palette, lints []models.Lint) {
	if len(lints) == 0 {
		fmt.Fprintln(w, "(0 lints)")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Name", "Level", "Group", "File"})
	for _, lint := range lints {
		t.AppendRow(table.Row{lint.Name, p.Level(lint.Level), lint.Group, filepath.Base(lint.SourceFile)})
	}
	t.Render()
	fmt.Fprintf(w, "(%d lints)\n", len(lints))
}

// GroupSummary prints the number of lints per group, in group order
func GroupSummary(w io.Writer, c *models.Catalog, groups []string) {
	byGroup := c.ByGroup()

	t := newTable(w)
	t.AppendHeader(table.Row{"Group", "Lints"})
	for _, group := range groups {
		if n := len(byGroup[group]); n > 0 {
			t.AppendRow(table.Row{group, n})
		}
	}
	if n := len(byGroup[models.GroupDeprecated]); n > 0 {
		t.AppendRow(table.Row{models.GroupDeprecated, n})
	}
	t.AppendFooter(table.Row{"Total", len(c.Lints)})
	t.Render()
}

// RunTable prints recorded runs, newest first
func RunTable(w io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Run", "Recorded", "Root", "Lints", "Configs", "Warnings"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			shortID(run.ID),
			run.CreatedAt.Local().Format(time.DateTime),
			run.Root,
			run.LintCount,
			run.ConfigCount,
			run.WarningCount,
		})
	}
	t.Render()
}

// DiffReport prints the lints added, removed and re-levelled between two runs
func DiffReport(w io.Writer, p Palette, d *history.Diff) {
	fmt.Fprintf(w, "Comparing run %s (%d lints) with run %s (%d lints)\n",
		shortID(d.From.ID), d.From.LintCount, shortID(d.To.ID), d.To.LintCount)

	if d.Empty() {
		fmt.Fprintln(w, "No changes.")
		return
	}
	for _, name := range d.Added {
		fmt.Fprintln(w, p.Added("+ "+name))
	}
	for _, name := range d.Removed {
		fmt.Fprintln(w, p.Removed("- "+name))
	}
	for _, c := range d.Changed {
		fmt.Fprintf(w, "~ %s: %s -> %s\n", c.Name, p.Level(c.From), p.Level(c.To))
	}
	fmt.Fprintf(w, "%d added, %d removed, %d changed\n", len(d.Added), len(d.Removed), len(d.Changed))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
