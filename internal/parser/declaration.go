// Package parser extracts lint declarations and configuration options from
// clippy-style lint sources.
//
// Declarations are recognised with a line-driven state machine
// (DeclarationScanner) that can be fed from a file, an io.Reader or a slice of
// lines. Configuration options are read from the single define_Conf! block of
// the configuration file (ParseConfigs).
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/harrison/lintcat/internal/models"
)

const (
	legacyMarker     = "declare_lint!"
	deprecatedMarker = "declare_deprecated_lint!"
	clippyMarker     = "declare_clippy_lint!"

	// maxLineSize bounds a single source line; lint sources never get close.
	maxLineSize = 1024 * 1024
)

var (
	lintNameRe = regexp.MustCompile(`pub\s+([A-Z_][A-Z_0-9]*)`)
	groupRe    = regexp.MustCompile(`^[\s,]*([a-z_][a-z_0-9]*)\s*(?:,|$)`)
)

// State is a state of the declaration scanner
type State int

const (
	// StateCollectingComment accumulates doc comments and waits for a marker
	StateCollectingComment State = iota
	// StateAwaitingName searches for the `pub NAME` of an open declaration
	StateAwaitingName
	// StateAwaitingGroup searches the following lines for the group token
	StateAwaitingGroup
)

func (s State) String() string {
	switch s {
	case StateCollectingComment:
		return "collecting-comment"
	case StateAwaitingName:
		return "awaiting-name"
	case StateAwaitingGroup:
		return "awaiting-group"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DeclarationScanner turns the lines of one lint source file into lints.
// It holds no reference to the input; callers push lines with Feed and call
// Finish once the input is exhausted.
type DeclarationScanner struct {
	file   string
	groups models.GroupLevels

	state      State
	name       string
	deprecated bool
	docs       []string
	line       int
	declLine   int
}

// NewDeclarationScanner creates a scanner for lines of file, resolving group
// levels through groups.
func NewDeclarationScanner(file string, groups models.GroupLevels) *DeclarationScanner {
	return &DeclarationScanner{
		file:   file,
		groups: groups,
		state:  StateCollectingComment,
	}
}

// State returns the current scanner state
func (s *DeclarationScanner) State() State {
	return s.state
}

// Feed advances the scanner by one line (without its trailing newline).
// It returns the lint completed by this line, if any. A *MissingNameError is
// recoverable and leaves the scanner ready for the next line; any other error
// is a *StructuralError and the scan should stop.
func (s *DeclarationScanner) Feed(line string) (*models.Lint, error) {
	s.line++
	line = strings.TrimSuffix(line, "\r")

	if s.state == StateCollectingComment {
		switch {
		case strings.HasPrefix(line, "/// "):
			s.docs = append(s.docs, line[4:]+"\n")
			return nil, nil
		case strings.HasPrefix(line, "///"):
			s.docs = append(s.docs, line[3:]+"\n")
			return nil, nil
		case strings.HasPrefix(line, legacyMarker):
			return nil, s.structural(s.line, ErrLegacyMarker)
		case strings.HasPrefix(line, deprecatedMarker):
			s.open(true)
		case strings.HasPrefix(line, clippyMarker):
			s.open(false)
		default:
			s.docs = nil
			return nil, nil
		}
	}

	switch s.state {
	case StateAwaitingName:
		return s.awaitName(line)
	case StateAwaitingGroup:
		return s.awaitGroup(line)
	}
	return nil, nil
}

// Finish reports a declaration left open at the end of the input.
func (s *DeclarationScanner) Finish() error {
	switch s.state {
	case StateAwaitingName:
		err := &MissingNameError{File: s.file, Line: s.declLine}
		s.reset()
		return err
	case StateAwaitingGroup:
		err := s.structural(s.declLine, fmt.Errorf("%w: no group found for %s", ErrUnterminated, s.name))
		s.reset()
		return err
	}
	return nil
}

func (s *DeclarationScanner) open(deprecated bool) {
	s.state = StateAwaitingName
	s.deprecated = deprecated
	s.name = ""
	s.declLine = s.line
}

func (s *DeclarationScanner) awaitName(line string) (*models.Lint, error) {
	loc := lintNameRe.FindStringSubmatchIndex(line)
	if loc == nil {
		if strings.Contains(line, "}") {
			err := &MissingNameError{File: s.file, Line: s.line}
			s.reset()
			return nil, err
		}
		return nil, nil
	}

	s.name = strings.ToLower(line[loc[2]:loc[3]])
	if s.deprecated {
		return s.emit(models.LevelDeprecated, models.GroupDeprecated), nil
	}

	// The group may follow the name on the same line.
	s.state = StateAwaitingGroup
	return s.awaitGroup(line[loc[1]:])
}

func (s *DeclarationScanner) awaitGroup(line string) (*models.Lint, error) {
	m := groupRe.FindStringSubmatch(line)
	if m == nil {
		return nil, nil
	}

	group := strings.ToLower(m[1])
	level, ok := s.groups.Lookup(group)
	if !ok {
		err := s.structural(s.line, fmt.Errorf("%w %q for %s", ErrUnknownGroup, group, s.name))
		s.reset()
		return nil, err
	}
	return s.emit(level, group), nil
}

func (s *DeclarationScanner) emit(level models.Severity, group string) *models.Lint {
	lint := &models.Lint{
		Name:       s.name,
		Level:      level,
		Docs:       s.docs,
		SourceFile: s.file,
		Group:      group,
	}
	if lint.Docs == nil {
		lint.Docs = []string{}
	}
	s.reset()
	return lint
}

func (s *DeclarationScanner) reset() {
	s.state = StateCollectingComment
	s.name = ""
	s.deprecated = false
	s.docs = nil
	s.declLine = 0
}

func (s *DeclarationScanner) structural(line int, err error) error {
	return &StructuralError{File: s.file, Line: line, Err: err}
}

// ScanResult holds the lints of one file and its recoverable diagnostics
type ScanResult struct {
	Lints    []models.Lint
	Warnings []error
}

// ScanLines runs a fresh scanner over lines. It stops at the first
// structural error.
func ScanLines(file string, lines []string, groups models.GroupLevels) (*ScanResult, error) {
	s := NewDeclarationScanner(file, groups)
	result := &ScanResult{Lints: make([]models.Lint, 0)}
	for _, line := range lines {
		if err := result.feed(s, line); err != nil {
			return nil, err
		}
	}
	if err := result.finish(s); err != nil {
		return nil, err
	}
	return result, nil
}

// Scan reads r line by line and returns the lints it declares. file is only
// used for provenance and diagnostics.
func Scan(r io.Reader, file string, groups models.GroupLevels) (*ScanResult, error) {
	s := NewDeclarationScanner(file, groups)
	result := &ScanResult{Lints: make([]models.Lint, 0)}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		if err := result.feed(s, sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	if err := result.finish(s); err != nil {
		return nil, err
	}
	return result, nil
}

// ScanFile opens path, scans it and closes it before returning.
func ScanFile(path string, groups models.GroupLevels) (*ScanResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lint source: %w", err)
	}
	defer f.Close()

	return Scan(f, path, groups)
}

func (r *ScanResult) feed(s *DeclarationScanner, line string) error {
	lint, err := s.Feed(line)
	if err != nil {
		if IsRecoverable(err) {
			r.Warnings = append(r.Warnings, err)
			return nil
		}
		return err
	}
	if lint != nil {
		r.Lints = append(r.Lints, *lint)
	}
	return nil
}

func (r *ScanResult) finish(s *DeclarationScanner) error {
	if err := s.Finish(); err != nil {
		if IsRecoverable(err) {
			r.Warnings = append(r.Warnings, err)
			return nil
		}
		return err
	}
	return nil
}
