package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for lintcat
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lintcat",
		Short: "Lint catalog extractor for clippy-style lint sources",
		Long: `lintcat reads the lint declarations of a lint source directory and
builds a catalog of every lint: its name, group, default level and
documentation, plus the configuration options defined for it.

The catalog feeds the generated lints.json documentation, the lint counter
in README.md and the lint links in CHANGELOG.md.

Configuration is loaded from .lintcat.yaml if present.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: .lintcat.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().Bool("continue-on-error", false, "Skip lint sources with structural errors instead of stopping")

	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewExportCommand())
	cmd.AddCommand(NewUpdateCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewDiffCommand())

	return cmd
}
