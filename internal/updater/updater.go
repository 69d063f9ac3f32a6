// Package updater keeps the generated parts of the repository documentation
// in sync with the lint catalog: the lint counter line in README.md and the
// list of lint links in CHANGELOG.md.
//
// Example:
//
//	report, err := updater.New(updater.Files{Readme: "README.md", Changelog: "CHANGELOG.md"},
//	    updater.WithCheck(true),
//	    updater.WithMonitor(func(m updater.UpdateMetrics) { log.Printf("%+v", m) })).
//	    Run(ctx, catalog)
//
// Every region is located by regular expressions matched against single
// lines. Files are rewritten atomically while holding a file lock; in check
// mode nothing is written and ErrOutOfDate is returned when a file would
// change.
package updater

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/harrison/lintcat/internal/filelock"
	"github.com/harrison/lintcat/internal/logger"
	"github.com/harrison/lintcat/internal/models"
)

// DefaultDocsLink is the lint documentation index linked from README and CHANGELOG
const DefaultDocsLink = "https://rust-lang-nursery.github.io/rust-clippy/master/index.html"

const (
	changelogStart = "<!-- begin autogenerated links to wiki -->"
	changelogEnd   = "<!-- end autogenerated links to wiki -->"
)

var (
	// ErrRegionNotFound indicates no line matches the region start expression.
	ErrRegionNotFound = errors.New("updater: region not found")
	// ErrUnterminatedRegion indicates the region start has no matching end line.
	ErrUnterminatedRegion = errors.New("updater: region end not found")
	// ErrOutOfDate is returned in check mode when a file would change.
	ErrOutOfDate = errors.New("updater: generated lint lists are out of date")
)

// Region describes a block of lines delimited by a start and an end line.
// The end line is never replaced. A nil End limits the region to the start
// line itself, which then must be replaced.
type Region struct {
	Name         string
	Start        *regexp.Regexp
	End          *regexp.Regexp
	ReplaceStart bool
}

// ReplaceRegion replaces the lines inside region with lines. It reports
// whether the content changed. Each element of lines is written as is, so
// callers supply the trailing newline.
func ReplaceRegion(content []byte, region Region, lines []string) ([]byte, bool, error) {
	old := splitLines(string(content))
	updated := make([]string, 0, len(old)+len(lines))

	found := false
	inRegion := false
	for _, line := range old {
		text := strings.TrimRight(line, "\r\n")
		switch {
		case inRegion:
			if region.End.MatchString(text) {
				inRegion = false
				updated = append(updated, lines...)
				updated = append(updated, line)
			}
		case region.Start.MatchString(text):
			found = true
			if region.End == nil {
				updated = append(updated, lines...)
				continue
			}
			if !region.ReplaceStart {
				updated = append(updated, line)
			}
			inRegion = true
		default:
			updated = append(updated, line)
		}
	}

	if !found {
		return nil, false, fmt.Errorf("%w: %s", ErrRegionNotFound, region.Start)
	}
	if inRegion {
		return nil, false, fmt.Errorf("%w: %s", ErrUnterminatedRegion, region.End)
	}

	result := strings.Join(updated, "")
	return []byte(result), result != string(content), nil
}

func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// CounterRegion matches the README line announcing the number of lints
func CounterRegion(docsLink string) Region {
	return Region{
		Name:         "lint counter",
		Start:        regexp.MustCompile(`^\[There are \d+ lints included in this crate!\]\(` + regexp.QuoteMeta(docsLink) + `\)$`),
		ReplaceStart: true,
	}
}

// CounterLines renders the README counter line for count lints
func CounterLines(count int, docsLink string) []string {
	return []string{fmt.Sprintf("[There are %d lints included in this crate!](%s)\n", count, docsLink)}
}

// LinksRegion matches the autogenerated link block of CHANGELOG.md
func LinksRegion() Region {
	return Region{
		Name:  "changelog links",
		Start: regexp.MustCompile(regexp.QuoteMeta(changelogStart)),
		End:   regexp.MustCompile(regexp.QuoteMeta(changelogEnd)),
	}
}

// LinkLines renders one reference link per lint name, sorted by name
func LinkLines(names []string, docsLink string) []string {
	sorted := uniqueSorted(names)
	lines := make([]string, len(sorted))
	for i, name := range sorted {
		lines[i] = fmt.Sprintf("[`%s`]: %s#%s\n", name, docsLink, name)
	}
	return lines
}

func uniqueSorted(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// UpdateMonitor receives metrics describing each file update.
type UpdateMonitor func(UpdateMetrics)

// UpdateMetrics captures contextual data about one file update.
type UpdateMetrics struct {
	Path         string
	Region       string
	Check        bool
	Changed      bool
	Duration     time.Duration
	BytesRead    int
	BytesWritten int
	Err          error
}

// Files names the documents kept in sync. Empty paths are skipped.
type Files struct {
	Readme    string
	Changelog string
}

// Report lists the files that changed, or would change in check mode.
type Report struct {
	Changed []string
}

type options struct {
	check    bool
	docsLink string
	monitor  UpdateMonitor
	logger   logger.Logger
}

// Option configures an Updater.
type Option func(*options)

// WithCheck enables check mode: files are compared but never written.
func WithCheck(check bool) Option {
	return func(o *options) {
		o.check = check
	}
}

// WithDocsLink sets the documentation URL used in generated lines.
func WithDocsLink(link string) Option {
	return func(o *options) {
		if link != "" {
			o.docsLink = link
		}
	}
}

// WithMonitor registers a callback that receives metrics after each update.
func WithMonitor(m UpdateMonitor) Option {
	return func(o *options) {
		o.monitor = m
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Updater rewrites the generated regions of the configured files.
type Updater struct {
	files Files
	opts  options
}

// New creates an Updater for files.
func New(files Files, opts ...Option) *Updater {
	o := options{
		docsLink: DefaultDocsLink,
		logger:   logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Updater{files: files, opts: o}
}

// Run updates the README counter with the number of live lints and the
// CHANGELOG links with every lint, deprecated ones included.
func (u *Updater) Run(ctx context.Context, catalog *models.Catalog) (*Report, error) {
	report := &Report{}

	active := make([]string, 0, len(catalog.Lints))
	for _, lint := range catalog.Active() {
		active = append(active, lint.Name)
	}
	count := len(uniqueSorted(active))

	if u.files.Readme != "" {
		changed, err := u.apply(ctx, u.files.Readme, CounterRegion(u.opts.docsLink), CounterLines(count, u.opts.docsLink))
		if err != nil {
			return nil, err
		}
		if changed {
			report.Changed = append(report.Changed, u.files.Readme)
		}
	}

	if u.files.Changelog != "" {
		changed, err := u.apply(ctx, u.files.Changelog, LinksRegion(), LinkLines(catalog.Names(), u.opts.docsLink))
		if err != nil {
			return nil, err
		}
		if changed {
			report.Changed = append(report.Changed, u.files.Changelog)
		}
	}

	if u.opts.check && len(report.Changed) > 0 {
		return report, fmt.Errorf("%w: %s", ErrOutOfDate, strings.Join(report.Changed, ", "))
	}
	return report, nil
}

func (u *Updater) apply(ctx context.Context, path string, region Region, lines []string) (bool, error) {
	metrics := UpdateMetrics{
		Path:   path,
		Region: region.Name,
		Check:  u.opts.check,
	}
	start := time.Now()
	defer func() {
		metrics.Duration = time.Since(start)
		if u.opts.monitor != nil {
			u.opts.monitor(metrics)
		}
	}()

	replace := func(current []byte) ([]byte, bool, error) {
		metrics.BytesRead = len(current)
		updated, changed, err := ReplaceRegion(current, region, lines)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", path, err)
		}
		return updated, changed, nil
	}

	var (
		updated []byte
		changed bool
		err     error
	)
	if u.opts.check {
		var current []byte
		current, err = os.ReadFile(path)
		if err != nil {
			metrics.Err = err
			return false, fmt.Errorf("failed to read %s: %w", path, err)
		}
		_, changed, err = replace(current)
	} else {
		changed, err = filelock.Update(ctx, path, func(current []byte) ([]byte, bool, error) {
			out, ok, replaceErr := replace(current)
			updated = out
			return out, ok, replaceErr
		})
	}
	if err != nil {
		metrics.Err = err
		return false, err
	}

	metrics.Changed = changed
	if changed && !u.opts.check {
		metrics.BytesWritten = len(updated)
		u.opts.logger.Infof("updated %s in %s", region.Name, path)
	} else if changed {
		u.opts.logger.Warnf("%s in %s is out of date", region.Name, path)
	} else {
		u.opts.logger.Debugf("%s in %s is up to date", region.Name, path)
	}
	return changed, nil
}
