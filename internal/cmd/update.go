package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/lintcat/internal/updater"
)

// NewUpdateCommand creates and returns the update subcommand
func NewUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [root]",
		Short: "Regenerate the lint counter in README.md and the lint links in CHANGELOG.md",
		Long: `Rewrite the generated regions of the repository documentation:

  - the "[There are N lints included in this crate!](...)" line of README.md
  - the links between "<!-- begin autogenerated links to wiki -->" and
    "<!-- end autogenerated links to wiki -->" in CHANGELOG.md

With --check nothing is written; the command fails if a file would change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUpdate,
	}

	cmd.Flags().BoolP("check", "c", false, "Fail instead of writing when a file is out of date")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(cmd, args)
	if err != nil {
		return err
	}
	check, _ := cmd.Flags().GetBool("check")

	c, err := env.collect(cmd)
	if err != nil {
		return err
	}

	u := updater.New(updater.Files{
		Readme:    env.cfg.Update.Readme,
		Changelog: env.cfg.Update.Changelog,
	},
		updater.WithCheck(check),
		updater.WithDocsLink(env.cfg.Update.DocsLink),
		updater.WithLogger(env.log),
		updater.WithMonitor(func(m updater.UpdateMetrics) {
			env.log.Debugf("%s: %s changed=%t read=%d written=%d in %s",
				m.Path, m.Region, m.Changed, m.BytesRead, m.BytesWritten, m.Duration)
		}),
	)

	report, err := u.Run(cmd.Context(), c)
	if errors.Is(err, updater.ErrOutOfDate) {
		return fmt.Errorf("%w; run `lintcat update` to regenerate them", err)
	}
	if err != nil {
		return err
	}

	if len(report.Changed) == 0 {
		fmt.Fprintln(env.out, "Lint lists are up to date.")
	}
	for _, path := range report.Changed {
		fmt.Fprintf(env.out, "Updated %s\n", path)
	}

	return checkSkipped(c)
}
