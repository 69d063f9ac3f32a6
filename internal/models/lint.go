package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Severity is the default enforcement level of a lint
type Severity string

// Lint levels as spelled in the scanned source, plus the deprecated sentinel
const (
	LevelForbid     Severity = "Forbid"
	LevelDeny       Severity = "Deny"
	LevelWarn       Severity = "Warn"
	LevelAllow      Severity = "Allow"
	LevelDeprecated Severity = "Deprecated"
)

// GroupDeprecated is the group assigned to every deprecated lint
const GroupDeprecated = "deprecated"

// ParseSeverity converts a case-insensitive level name into a Severity
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forbid":
		return LevelForbid, nil
	case "deny":
		return LevelDeny, nil
	case "warn":
		return LevelWarn, nil
	case "allow":
		return LevelAllow, nil
	case "deprecated":
		return LevelDeprecated, nil
	}
	return "", fmt.Errorf("unknown lint level %q", s)
}

// Lint is one declaration recovered from a lint source file
type Lint struct {
	Name       string   // Lower-cased lint identifier
	Level      Severity // Default level, LevelDeprecated for deprecated lints
	Docs       []string // Doc comment lines preceding the declaration, newline-terminated
	SourceFile string   // File the declaration was found in
	Group      string   // Lower-cased category, or "deprecated"
}

// Validate checks if the lint has all required fields
func (l *Lint) Validate() error {
	if l.Name == "" {
		return errors.New("lint name is required")
	}
	if l.Group == "" {
		return errors.New("lint group is required")
	}
	if l.Level == "" {
		return errors.New("lint level is required")
	}
	return nil
}

// IsDeprecated returns true for lints declared with the deprecated marker
func (l *Lint) IsDeprecated() bool {
	return l.Level == LevelDeprecated
}

// Config is one configuration option read from the define_Conf! block.
type Config struct {
	Name    string // Option key, hyphenated
	Type    string // Type annotation as written in source
	Doc     string // Free-text description
	Default string // Default value expression
}

// GroupLevels maps lint groups to the level their lints default to.
// Values are immutable once built; use WithOverrides to derive a new table.
type GroupLevels struct {
	levels map[string]Severity
}

// DefaultGroupLevels returns the standard clippy group table
func DefaultGroupLevels() GroupLevels {
	return NewGroupLevels(map[string]Severity{
		"correctness": LevelDeny,
		"style":       LevelWarn,
		"complexity":  LevelWarn,
		"perf":        LevelWarn,
		"restriction": LevelAllow,
		"pedantic":    LevelAllow,
		"nursery":     LevelAllow,
	})
}

// NewGroupLevels builds a table from the given map. The map is copied.
func NewGroupLevels(m map[string]Severity) GroupLevels {
	levels := make(map[string]Severity, len(m))
	for group, level := range m {
		levels[strings.ToLower(group)] = level
	}
	return GroupLevels{levels: levels}
}

// Lookup returns the level for a group and whether the group is known
func (g GroupLevels) Lookup(group string) (Severity, bool) {
	level, ok := g.levels[group]
	return level, ok
}

// WithOverrides returns a copy of the table with the given entries replaced or added
func (g GroupLevels) WithOverrides(overrides map[string]Severity) GroupLevels {
	merged := make(map[string]Severity, len(g.levels)+len(overrides))
	for group, level := range g.levels {
		merged[group] = level
	}
	for group, level := range overrides {
		merged[strings.ToLower(group)] = level
	}
	return GroupLevels{levels: merged}
}

// Groups returns the known group names sorted alphabetically
func (g GroupLevels) Groups() []string {
	groups := make([]string, 0, len(g.levels))
	for group := range g.levels {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	return groups
}

// Len returns the number of groups in the table
func (g GroupLevels) Len() int {
	return len(g.levels)
}
