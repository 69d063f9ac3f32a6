package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harrison/lintcat/internal/logger"
	"github.com/harrison/lintcat/internal/models"
)

// FileName is the name of the configuration file looked up by LoadConfigFromDir
const FileName = ".lintcat.yaml"

// ExportConfig configures the lints.json exporter
type ExportConfig struct {
	// Output is the path of the generated JSON file
	Output string `yaml:"output"`

	// HTML renders each documentation section to HTML in addition to markdown
	HTML bool `yaml:"html"`
}

// UpdateConfig configures the generated-region updater
type UpdateConfig struct {
	// Readme is the file holding the lint counter line
	Readme string `yaml:"readme"`

	// Changelog is the file holding the generated lint link list
	Changelog string `yaml:"changelog"`

	// DocsLink is the lint documentation index URL used in generated links
	DocsLink string `yaml:"docs_link"`
}

// HistoryConfig configures the run history database
type HistoryConfig struct {
	// Enabled records every scan in the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the SQLite history database
	DBPath string `yaml:"db_path"`
}

// Config represents lintcat configuration options
type Config struct {
	// Root is the directory holding the lint sources
	Root string `yaml:"root"`

	// ConfigFile is the path of the define_Conf! file, relative to Root
	ConfigFile string `yaml:"config_file"`

	// Extensions lists the extensions of files scanned for declarations
	Extensions []string `yaml:"extensions"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// ContinueOnError skips files with structural errors instead of aborting
	ContinueOnError bool `yaml:"continue_on_error"`

	// Groups overrides or extends the group -> level table
	Groups map[string]string `yaml:"groups"`

	Export  ExportConfig  `yaml:"export"`
	Update  UpdateConfig  `yaml:"update"`
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config laid out for a clippy checkout
func DefaultConfig() *Config {
	return &Config{
		Root:            filepath.Join("clippy_lints", "src"),
		ConfigFile:      filepath.Join("utils", "conf.rs"),
		Extensions:      []string{".rs"},
		LogLevel:        "info",
		ContinueOnError: false,
		Groups:          map[string]string{},
		Export: ExportConfig{
			Output: filepath.Join("util", "gh-pages", "lints.json"),
			HTML:   false,
		},
		Update: UpdateConfig{
			Readme:    "README.md",
			Changelog: "CHANGELOG.md",
			DocsLink:  "https://rust-lang-nursery.github.io/rust-clippy/master/index.html",
		},
		History: HistoryConfig{
			Enabled: false,
			DBPath:  filepath.Join(".lintcat", "history.db"),
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if fileCfg.Root != "" {
		cfg.Root = fileCfg.Root
	}
	if fileCfg.ConfigFile != "" {
		cfg.ConfigFile = fileCfg.ConfigFile
	}
	if len(fileCfg.Extensions) > 0 {
		cfg.Extensions = fileCfg.Extensions
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.ContinueOnError {
		cfg.ContinueOnError = true
	}
	for group, level := range fileCfg.Groups {
		cfg.Groups[group] = level
	}
	if fileCfg.Export.Output != "" {
		cfg.Export.Output = fileCfg.Export.Output
	}
	if fileCfg.Export.HTML {
		cfg.Export.HTML = true
	}
	if fileCfg.Update.Readme != "" {
		cfg.Update.Readme = fileCfg.Update.Readme
	}
	if fileCfg.Update.Changelog != "" {
		cfg.Update.Changelog = fileCfg.Update.Changelog
	}
	if fileCfg.Update.DocsLink != "" {
		cfg.Update.DocsLink = fileCfg.Update.DocsLink
	}
	if fileCfg.History.Enabled {
		cfg.History.Enabled = true
	}
	if fileCfg.History.DBPath != "" {
		cfg.History.DBPath = fileCfg.History.DBPath
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .lintcat.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, FileName))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(root *string, logLevel *string, continueOnError *bool) {
	if root != nil {
		c.Root = *root
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if continueOnError != nil {
		c.ContinueOnError = *continueOnError
	}
}

// GroupLevels returns the default group table with the configured overrides applied.
// Call Validate first; invalid levels are skipped here.
func (c *Config) GroupLevels() models.GroupLevels {
	overrides := make(map[string]models.Severity, len(c.Groups))
	for group, level := range c.Groups {
		sev, err := models.ParseSeverity(level)
		if err != nil {
			continue
		}
		overrides[group] = sev
	}
	return models.DefaultGroupLevels().WithOverrides(overrides)
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return fmt.Errorf("root cannot be empty")
	}
	if strings.TrimSpace(c.ConfigFile) == "" {
		return fmt.Errorf("config_file cannot be empty")
	}
	if filepath.IsAbs(c.ConfigFile) {
		return fmt.Errorf("config_file must be relative to root, got %q", c.ConfigFile)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions cannot be empty")
	}

	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	for group, level := range c.Groups {
		if group == "" || group != strings.ToLower(group) {
			return fmt.Errorf("invalid group name %q, groups are lower-case identifiers", group)
		}
		if group == models.GroupDeprecated {
			return fmt.Errorf("group %q is reserved for deprecated lints", group)
		}
		sev, err := models.ParseSeverity(level)
		if err != nil {
			return fmt.Errorf("groups.%s: %w", group, err)
		}
		if sev == models.LevelDeprecated {
			return fmt.Errorf("groups.%s: level Deprecated is reserved for deprecated lints", group)
		}
	}

	if c.Export.Output == "" {
		return fmt.Errorf("export.output cannot be empty")
	}
	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	return nil
}
