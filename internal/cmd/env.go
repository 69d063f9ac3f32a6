package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/lintcat/internal/catalog"
	"github.com/harrison/lintcat/internal/config"
	"github.com/harrison/lintcat/internal/display"
	"github.com/harrison/lintcat/internal/history"
	"github.com/harrison/lintcat/internal/logger"
	"github.com/harrison/lintcat/internal/models"
)

// environment holds what every subcommand needs: the merged configuration,
// the logger and the output streams.
type environment struct {
	cfg     *config.Config
	log     logger.Logger
	out     io.Writer
	errOut  io.Writer
	palette display.Palette
}

// loadEnvironment loads the configuration file, applies command-line flags
// and an optional root argument, and validates the result.
func loadEnvironment(cmd *cobra.Command, args []string) (*environment, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(".")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var root, logLevel *string
	var continueOnError *bool
	if len(args) > 0 {
		root = &args[0]
	}
	if cmd.Flags().Changed("log-level") {
		v, _ := cmd.Flags().GetString("log-level")
		logLevel = &v
	}
	if cmd.Flags().Changed("continue-on-error") {
		v, _ := cmd.Flags().GetBool("continue-on-error")
		continueOnError = &v
	}
	cfg.MergeWithFlags(root, logLevel, continueOnError)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &environment{
		cfg:     cfg,
		log:     logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel),
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		palette: display.NewPalette(cmd.OutOrStdout()),
	}, nil
}

// collect builds the catalog of the configured root. Warnings are shown on
// the error stream; skipped files make the command fail once its output is
// written, which is reported by checkSkipped.
func (e *environment) collect(cmd *cobra.Command, extra ...catalog.Option) (*models.Catalog, error) {
	opts := []catalog.Option{
		catalog.WithLogger(e.log),
		catalog.WithGroupLevels(e.cfg.GroupLevels()),
		catalog.WithExtensions(e.cfg.Extensions...),
		catalog.WithConfigPath(e.cfg.ConfigFile),
		catalog.WithContinueOnError(e.cfg.ContinueOnError),
	}
	opts = append(opts, extra...)

	c, err := catalog.Collect(cmd.Context(), e.cfg.Root, opts...)
	if err != nil {
		return nil, err
	}

	for _, w := range display.CatalogWarnings(c) {
		w.Display(e.errOut, display.NewPalette(e.errOut))
	}
	return c, nil
}

// checkSkipped fails when lint sources were skipped with --continue-on-error
func checkSkipped(c *models.Catalog) error {
	if n := len(c.FileErrors); n > 0 {
		return fmt.Errorf("%d lint source(s) skipped because of structural errors", n)
	}
	return nil
}

// openHistory opens the configured history database
func (e *environment) openHistory() (*history.Store, error) {
	store, err := history.NewStore(filepath.Clean(e.cfg.History.DBPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return store, nil
}
