package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/lintcat/internal/catalog"
	"github.com/harrison/lintcat/internal/display"
)

// NewScanCommand creates and returns the scan subcommand
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Scan a lint source directory and summarize its catalog",
		Long: `Scan every lint source directly inside root (default: clippy_lints/src)
and the configuration file below it, then print the number of lints per group.

With --record, or history.enabled in the config file, the catalog is stored
in the history database for later use by "lintcat diff".`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}

	cmd.Flags().Bool("record", false, "Record this run in the history database")
	cmd.Flags().Bool("progress", false, "Show one line per scanned file")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(cmd, args)
	if err != nil {
		return err
	}

	var extra []catalog.Option
	showProgress, _ := cmd.Flags().GetBool("progress")
	var progress *display.ProgressIndicator
	if showProgress {
		progress = display.NewProgressIndicator(env.out, env.palette)
		extra = append(extra, catalog.WithProgress(progress.Step))
	}

	c, err := env.collect(cmd, extra...)
	if err != nil {
		return err
	}
	if progress != nil {
		progress.Complete(len(c.Lints), len(c.Configs))
	}

	display.GroupSummary(env.out, c, env.cfg.GroupLevels().Groups())
	fmt.Fprintf(env.out, "%d configuration options, %d warnings\n", len(c.Configs), len(c.Warnings))

	record, _ := cmd.Flags().GetBool("record")
	if record || env.cfg.History.Enabled {
		store, err := env.openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.RecordRun(cmd.Context(), c)
		if err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		fmt.Fprintf(env.out, "Recorded run %s\n", run.ID)
	}

	return checkSkipped(c)
}
