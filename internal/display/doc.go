// Package display renders lintcat's terminal output: lint tables, run
// history, diffs, scan progress and warning blocks.
//
// Every function takes an io.Writer. Colors come from a Palette, which is
// only enabled when the writer is a terminal:
//
//	p := display.NewPalette(os.Stdout)
//	display.LintTable(os.Stdout, p, catalog.Lints)
//
// Warnings collected during a scan are shown as yellow blocks:
//
//	for _, w := range display.CatalogWarnings(catalog) {
//	    w.Display(os.Stderr, p)
//	}
package display
