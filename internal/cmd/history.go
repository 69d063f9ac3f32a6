package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/lintcat/internal/display"
	"github.com/harrison/lintcat/internal/history"
)

// NewHistoryCommand creates and returns the history subcommand
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the catalog runs recorded by \"lintcat scan --record\"",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, nil)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := env.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			display.RunTable(env.out, runs)
			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", 20, "Number of runs to show (0 = all)")

	return cmd
}

// NewDiffCommand creates and returns the diff subcommand
func NewDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [from-run to-run]",
		Short: "Show lints added, removed or re-levelled between two recorded runs",
		Long: `Compare two recorded runs. Without arguments the two most recent runs are
compared. Run ids may be abbreviated to any unique prefix.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return cobra.ExactArgs(2)(cmd, args)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, nil)
			if err != nil {
				return err
			}

			store, err := env.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			var diff *history.Diff
			if len(args) == 2 {
				diff, err = store.Diff(cmd.Context(), args[0], args[1])
			} else {
				diff, err = store.DiffLatest(cmd.Context())
			}
			if err != nil {
				return err
			}

			display.DiffReport(env.out, env.palette, diff)
			return nil
		},
	}

	return cmd
}
