package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/lintcat/internal/display"
	"github.com/harrison/lintcat/internal/models"
)

// listEntry is the JSON shape of one lint in "lintcat list --json"
type listEntry struct {
	Name   string `json:"name"`
	Level  string `json:"level"`
	Group  string `json:"group"`
	File   string `json:"file"`
	Config string `json:"config,omitempty"`
}

// NewListCommand creates and returns the list subcommand
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [root]",
		Short: "List the lints of a lint source directory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runList,
	}

	cmd.Flags().StringP("group", "g", "", "Only list lints of this group (e.g. style, deprecated)")
	cmd.Flags().Bool("json", false, "Print lints as JSON")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(cmd, args)
	if err != nil {
		return err
	}

	c, err := env.collect(cmd)
	if err != nil {
		return err
	}

	lints := c.Lints
	if group, _ := cmd.Flags().GetString("group"); group != "" {
		lints = c.ByGroup()[group]
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		if err := writeLintJSON(env, c, lints); err != nil {
			return err
		}
	} else {
		display.LintTable(env.out, env.palette, lints)
	}

	return checkSkipped(c)
}

func writeLintJSON(env *environment, c *models.Catalog, lints []models.Lint) error {
	entries := make([]listEntry, 0, len(lints))
	for _, lint := range lints {
		entry := listEntry{
			Name:  lint.Name,
			Level: string(lint.Level),
			Group: lint.Group,
			File:  lint.SourceFile,
		}
		if conf, ok := c.Configs[lint.Name]; ok {
			entry.Config = conf.Name
		}
		entries = append(entries, entry)
	}

	enc := json.NewEncoder(env.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode lints: %w", err)
	}
	return nil
}
