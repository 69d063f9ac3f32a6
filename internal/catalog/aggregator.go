// Package catalog builds the lint catalog of a lint source directory.
//
// An Aggregator lists the eligible files of the root directory, runs the
// declaration scanner over each of them in turn and then reads the
// configuration options from the configuration file below the same root.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/harrison/lintcat/internal/fileutil"
	"github.com/harrison/lintcat/internal/logger"
	"github.com/harrison/lintcat/internal/models"
	"github.com/harrison/lintcat/internal/parser"
)

// Defaults matching the clippy source layout
const (
	DefaultConfigPath = "utils/conf.rs"
	DefaultExtension  = ".rs"
)

// DuplicateError reports a lint or config name seen more than once.
// Lints are all kept; for configs the later record wins.
type DuplicateError struct {
	Kind  string // "lint" or "config"
	Name  string
	First string // File of the first occurrence
	Again string // File of the repeated occurrence
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s %q (first in %s, again in %s)", e.Kind, e.Name, e.First, e.Again)
}

type options struct {
	logger          logger.Logger
	groups          models.GroupLevels
	extensions      []string
	configPath      string
	continueOnError bool
	progress        ProgressFunc
}

// ProgressFunc is called before each file is scanned with the 1-based
// index of the file and the number of eligible files.
type ProgressFunc func(done, total int, file string)

// Option configures an Aggregator.
type Option func(*options)

// WithLogger sets the logger receiving per-lint and summary messages.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithGroupLevels replaces the group -> level table.
func WithGroupLevels(g models.GroupLevels) Option {
	return func(o *options) {
		o.groups = g
	}
}

// WithExtensions sets the extensions of files scanned for declarations.
func WithExtensions(exts ...string) Option {
	return func(o *options) {
		if len(exts) > 0 {
			o.extensions = exts
		}
	}
}

// WithConfigPath sets the configuration file path, relative to the root.
func WithConfigPath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.configPath = path
		}
	}
}

// WithContinueOnError makes Collect skip files with structural errors,
// recording them in Catalog.FileErrors, instead of aborting.
func WithContinueOnError(enabled bool) Option {
	return func(o *options) {
		o.continueOnError = enabled
	}
}

// WithProgress registers a callback invoked before each file is scanned.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// Aggregator collects a Catalog from a lint source directory.
type Aggregator struct {
	opts options
}

// NewAggregator creates an Aggregator with the clippy defaults.
func NewAggregator(opts ...Option) *Aggregator {
	o := options{
		logger:     logger.NewNoOpLogger(),
		groups:     models.DefaultGroupLevels(),
		extensions: []string{DefaultExtension},
		configPath: DefaultConfigPath,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Aggregator{opts: o}
}

// Collect scans root and returns its catalog. Each file is opened, scanned
// and closed before the next one. ctx is checked between files.
func (a *Aggregator) Collect(ctx context.Context, root string) (*models.Catalog, error) {
	log := a.opts.logger

	listing, err := fileutil.ScanDirectory(root, fileutil.ScanOptions{
		Extensions: a.opts.extensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list lint sources: %w", err)
	}
	for _, listErr := range listing.Errors {
		log.Warnf("Warning: %v", listErr)
	}

	catalog := models.NewCatalog(root)
	seen := make(map[string]string)

	for i, file := range listing.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if a.opts.progress != nil {
			a.opts.progress(i+1, len(listing.Files), file)
		}

		result, err := parser.ScanFile(file, a.opts.groups)
		if err != nil {
			if a.opts.continueOnError && parser.IsStructural(err) {
				log.Errorf("skipping %s: %v", file, err)
				catalog.FileErrors = append(catalog.FileErrors, err)
				continue
			}
			return nil, err
		}

		for _, w := range result.Warnings {
			log.Warnf("Warning: %v", w)
			catalog.Warnings = append(catalog.Warnings, w)
		}

		for _, lint := range result.Lints {
			log.Infof("found %s with level %s in %s", lint.Name, lint.Level, lint.SourceFile)
			if first, dup := seen[lint.Name]; dup {
				w := &DuplicateError{Kind: "lint", Name: lint.Name, First: first, Again: lint.SourceFile}
				log.Warnf("Warning: %v", w)
				catalog.Warnings = append(catalog.Warnings, w)
			} else {
				seen[lint.Name] = lint.SourceFile
			}
			catalog.Lints = append(catalog.Lints, lint)
		}
	}
	log.Infof("got %d lints", len(catalog.Lints))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	configFile := filepath.Join(root, a.opts.configPath)
	records, err := parser.ParseConfigFile(configFile)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if _, dup := catalog.Configs[r.Lint]; dup {
			w := &DuplicateError{Kind: "config", Name: r.Lint, First: configFile, Again: configFile}
			log.Warnf("Warning: %v", w)
			catalog.Warnings = append(catalog.Warnings, w)
		}
		catalog.Configs[r.Lint] = r.Config
	}
	log.Infof("got %d configs", len(catalog.Configs))

	return catalog, nil
}

// Collect scans root with the default settings.
func Collect(ctx context.Context, root string, opts ...Option) (*models.Catalog, error) {
	return NewAggregator(opts...).Collect(ctx, root)
}

// IsDuplicate reports whether err is a *DuplicateError
func IsDuplicate(err error) bool {
	var de *DuplicateError
	return errors.As(err, &de)
}
