package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/lintcat/internal/export"
)

// NewExportCommand creates and returns the export subcommand
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [root]",
		Short: "Write lints.json for the lint documentation site",
		Long: `Write a JSON document with one entry per lint: id, group, level and its
documentation split into sections by the bold headings of the doc comment
("**What it does:**", "**Example:**", ...). Lints with a configuration
option get an additional "Configuration" section.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringP("output", "o", "", "Output file (default: util/gh-pages/lints.json)")
	cmd.Flags().Bool("html", false, "Also render every section to HTML")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(cmd, args)
	if err != nil {
		return err
	}

	output := env.cfg.Export.Output
	if cmd.Flags().Changed("output") {
		output, _ = cmd.Flags().GetString("output")
	}
	html := env.cfg.Export.HTML
	if cmd.Flags().Changed("html") {
		html, _ = cmd.Flags().GetBool("html")
	}

	c, err := env.collect(cmd)
	if err != nil {
		return err
	}

	exporter := export.NewExporter(export.WithHTML(html), export.WithLogger(env.log))
	docs, err := exporter.WriteJSON(cmd.Context(), c, output)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "Wrote %d lints to %s\n", len(docs), output)

	return checkSkipped(c)
}
