package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/lintcat/internal/models"
)

func scanString(t *testing.T, src string) (*ScanResult, error) {
	t.Helper()
	return Scan(strings.NewReader(src), "foo.rs", models.DefaultGroupLevels())
}

func TestScanSingleLineDeclaration(t *testing.T) {
	src := "/// Lint: Checks for foo.\n/// More detail.\ndeclare_clippy_lint! { pub FOO_LINT, correctness, \"desc\" }\n"

	result, err := scanString(t, src)
	require.NoError(t, err)
	require.Len(t, result.Lints, 1)

	lint := result.Lints[0]
	assert.Equal(t, "foo_lint", lint.Name)
	assert.Equal(t, models.LevelDeny, lint.Level)
	assert.Equal(t, "correctness", lint.Group)
	assert.Equal(t, "foo.rs", lint.SourceFile)
	// Only the comment marker and one space are trimmed; a "Lint:" prefix stays.
	assert.Equal(t, []string{"Lint: Checks for foo.\n", "More detail.\n"}, lint.Docs)
	assert.Empty(t, result.Warnings)
}

func TestScanMultiLineDeclarations(t *testing.T) {
	src := `use rustc::lint::*;

/// **What it does:** Checks for things.
///
/// **Example:**
///` + "```" + `
declare_clippy_lint! {
    pub NEEDLESS_THING,
    style,
    "needless things, everywhere"
}

/// **What it does:** Checks slow things.
declare_clippy_lint! {
    pub SLOW_THING,
    perf,
    "slow things"
}

declare_clippy_lint! {
    pub PEDANTIC_THING,
    pedantic,
    "nitpicks"
}
`
	result, err := scanString(t, src)
	require.NoError(t, err)
	require.Len(t, result.Lints, 3)

	assert.Equal(t, "needless_thing", result.Lints[0].Name)
	assert.Equal(t, models.LevelWarn, result.Lints[0].Level)
	assert.Equal(t, "style", result.Lints[0].Group)
	assert.Equal(t, []string{
		"**What it does:** Checks for things.\n",
		"\n",
		"**Example:**\n",
		"```\n",
	}, result.Lints[0].Docs)

	assert.Equal(t, "slow_thing", result.Lints[1].Name)
	assert.Equal(t, models.LevelWarn, result.Lints[1].Level)
	assert.Equal(t, []string{"**What it does:** Checks slow things.\n"}, result.Lints[1].Docs)

	assert.Equal(t, "pedantic_thing", result.Lints[2].Name)
	assert.Equal(t, models.LevelAllow, result.Lints[2].Level)
	assert.Empty(t, result.Lints[2].Docs)
}

func TestScanGroupLevels(t *testing.T) {
	tests := []struct {
		group string
		want  models.Severity
	}{
		{"correctness", models.LevelDeny},
		{"style", models.LevelWarn},
		{"complexity", models.LevelWarn},
		{"perf", models.LevelWarn},
		{"restriction", models.LevelAllow},
		{"pedantic", models.LevelAllow},
		{"nursery", models.LevelAllow},
	}

	for _, tt := range tests {
		t.Run(tt.group, func(t *testing.T) {
			src := "declare_clippy_lint! {\n    pub SOME_LINT,\n    " + tt.group + ",\n    \"desc\"\n}\n"
			result, err := scanString(t, src)
			require.NoError(t, err)
			require.Len(t, result.Lints, 1)
			assert.Equal(t, tt.want, result.Lints[0].Level)
			assert.Equal(t, tt.group, result.Lints[0].Group)
		})
	}
}

func TestScanDeprecatedDeclaration(t *testing.T) {
	src := `/// **What it does:** Nothing. This lint has been deprecated.
///
/// **Deprecation reason:** This used to check for ` + "`assert!(a == b)`" + `.
declare_deprecated_lint! {
    pub SHOULD_ASSERT_EQ,
    "` + "`assert!()`" + ` will be more flexible with RFC 2011, correctness"
}
`
	result, err := scanString(t, src)
	require.NoError(t, err)
	require.Len(t, result.Lints, 1)

	lint := result.Lints[0]
	assert.Equal(t, "should_assert_eq", lint.Name)
	assert.Equal(t, models.LevelDeprecated, lint.Level)
	assert.Equal(t, models.GroupDeprecated, lint.Group)
	assert.True(t, lint.IsDeprecated())
	assert.Len(t, lint.Docs, 3)
}

func TestScanDeprecatedIgnoresGroupToken(t *testing.T) {
	src := "declare_deprecated_lint! { pub OLD_LINT, correctness, \"gone\" }\n"
	result, err := scanString(t, src)
	require.NoError(t, err)
	require.Len(t, result.Lints, 1)
	assert.Equal(t, models.LevelDeprecated, result.Lints[0].Level)
	assert.Equal(t, "deprecated", result.Lints[0].Group)
}

func TestScanDocsResetByNonCommentLine(t *testing.T) {
	tests := []struct {
		name string
		gap  string
	}{
		{name: "blank line", gap: ""},
		{name: "code line", gap: "use std::fmt;"},
		{name: "attribute", gap: "#[allow(dead_code)]"},
		{name: "plain comment", gap: "// not a doc comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "/// orphaned docs\n" + tt.gap + "\ndeclare_clippy_lint! { pub FOO, style, \"x\" }\n"
			result, err := scanString(t, src)
			require.NoError(t, err)
			require.Len(t, result.Lints, 1)
			assert.Empty(t, result.Lints[0].Docs)
		})
	}
}

func TestScanDocMarkerTrimming(t *testing.T) {
	src := "///   indented\n///no space\n/// \n///\ndeclare_clippy_lint! { pub FOO, style, \"x\" }\n"
	result, err := scanString(t, src)
	require.NoError(t, err)
	require.Len(t, result.Lints, 1)
	assert.Equal(t, []string{"  indented\n", "no space\n", "\n", "\n"}, result.Lints[0].Docs)
}

func TestScanLegacyMarkerIsStructural(t *testing.T) {
	src := "/// docs\ndeclare_lint! {\n    pub OLD,\n    Warn,\n    \"x\"\n}\n"
	_, err := scanString(t, src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLegacyMarker))
	assert.True(t, IsStructural(err))

	var se *StructuralError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 2, se.Line)
	assert.Equal(t, "foo.rs", se.File)
}

func TestScanUnknownGroupIsStructural(t *testing.T) {
	src := "declare_clippy_lint! {\n    pub FOO,\n    cargo,\n    \"x\"\n}\n"
	_, err := scanString(t, src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownGroup))
	assert.True(t, IsStructural(err))
	assert.Contains(t, err.Error(), "cargo")
}

func TestScanUnterminatedGroupSearch(t *testing.T) {
	src := "declare_clippy_lint! {\n    pub FOO,\n    \"x\"\n}\n"
	_, err := scanString(t, src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnterminated))
	assert.True(t, IsStructural(err))
}

func TestScanMissingNameIsRecoverable(t *testing.T) {
	src := `/// docs for a broken declaration
declare_clippy_lint! {
    "no name here"
}
/// docs for the good one
declare_clippy_lint! {
    pub GOOD,
    complexity,
    "fine"
}
`
	result, err := scanString(t, src)
	require.NoError(t, err)
	require.Len(t, result.Lints, 1)
	assert.Equal(t, "good", result.Lints[0].Name)
	assert.Equal(t, []string{"docs for the good one\n"}, result.Lints[0].Docs)

	require.Len(t, result.Warnings, 1)
	var me *MissingNameError
	require.True(t, errors.As(result.Warnings[0], &me))
	assert.Equal(t, 4, me.Line)
	assert.True(t, IsRecoverable(result.Warnings[0]))
	assert.False(t, IsStructural(result.Warnings[0]))
}

func TestScanMissingNameAtEndOfInput(t *testing.T) {
	result, err := scanString(t, "declare_clippy_lint! {\n")
	require.NoError(t, err)
	assert.Empty(t, result.Lints)
	assert.Len(t, result.Warnings, 1)
}

func TestScanCountMatchesMarkers(t *testing.T) {
	var b strings.Builder
	names := []string{"ALPHA", "BETA", "GAMMA", "DELTA", "EPSILON"}
	groups := []string{"correctness", "style", "perf", "nursery", "restriction"}
	for i, name := range names {
		b.WriteString("/// Doc for " + name + "\n")
		b.WriteString("declare_clippy_lint! {\n    pub " + name + ",\n    " + groups[i] + ",\n    \"d\"\n}\n\n")
	}
	src := b.String()

	result, err := scanString(t, src)
	require.NoError(t, err)
	assert.Equal(t, strings.Count(src, "declare_clippy_lint!"), len(result.Lints))
	for i, lint := range result.Lints {
		assert.Equal(t, strings.ToLower(names[i]), lint.Name)
		assert.Equal(t, []string{"Doc for " + names[i] + "\n"}, lint.Docs)
	}
}

func TestScanIsIdempotent(t *testing.T) {
	src := "/// a\ndeclare_clippy_lint! { pub A, style, \"x\" }\ndeclare_deprecated_lint! { pub B, \"y\" }\n"
	first, err := scanString(t, src)
	require.NoError(t, err)
	second, err := scanString(t, src)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScanCRLFInput(t *testing.T) {
	src := "/// doc\r\ndeclare_clippy_lint! {\r\n    pub FOO,\r\n    style,\r\n    \"x\"\r\n}\r\n"
	result, err := scanString(t, src)
	require.NoError(t, err)
	require.Len(t, result.Lints, 1)
	assert.Equal(t, []string{"doc\n"}, result.Lints[0].Docs)
	assert.Equal(t, "style", result.Lints[0].Group)
}

func TestScanCustomGroupLevels(t *testing.T) {
	groups := models.DefaultGroupLevels().WithOverrides(map[string]models.Severity{
		"cargo": models.LevelAllow,
	})
	result, err := Scan(strings.NewReader("declare_clippy_lint! { pub FOO, cargo, \"x\" }\n"), "f.rs", groups)
	require.NoError(t, err)
	require.Len(t, result.Lints, 1)
	assert.Equal(t, models.LevelAllow, result.Lints[0].Level)
}

func TestDeclarationScannerTransitions(t *testing.T) {
	s := NewDeclarationScanner("f.rs", models.DefaultGroupLevels())
	assert.Equal(t, StateCollectingComment, s.State())

	lint, err := s.Feed("/// doc")
	require.NoError(t, err)
	assert.Nil(t, lint)
	assert.Equal(t, StateCollectingComment, s.State())

	lint, err = s.Feed("declare_clippy_lint! {")
	require.NoError(t, err)
	assert.Nil(t, lint)
	assert.Equal(t, StateAwaitingName, s.State())

	lint, err = s.Feed("    pub FOO,")
	require.NoError(t, err)
	assert.Nil(t, lint)
	assert.Equal(t, StateAwaitingGroup, s.State())

	lint, err = s.Feed("    \"not a group\"")
	require.NoError(t, err)
	assert.Nil(t, lint)
	assert.Equal(t, StateAwaitingGroup, s.State())

	lint, err = s.Feed("    nursery,")
	require.NoError(t, err)
	require.NotNil(t, lint)
	assert.Equal(t, "foo", lint.Name)
	assert.Equal(t, []string{"doc\n"}, lint.Docs)
	assert.Equal(t, StateCollectingComment, s.State())

	require.NoError(t, s.Finish())
}

func TestScanLines(t *testing.T) {
	lines := []string{
		"/// doc",
		"declare_clippy_lint! {",
		"    pub FOO,",
		"    perf,",
		"    \"x\"",
		"}",
	}
	result, err := ScanLines("mem.rs", lines, models.DefaultGroupLevels())
	require.NoError(t, err)
	require.Len(t, result.Lints, 1)
	assert.Equal(t, "mem.rs", result.Lints[0].SourceFile)
}

func TestScanFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lint.rs")
	require.NoError(t, os.WriteFile(path, []byte("declare_clippy_lint! { pub FOO, style, \"x\" }\n"), 0644))

	result, err := ScanFile(path, models.DefaultGroupLevels())
	require.NoError(t, err)
	require.Len(t, result.Lints, 1)
	assert.Equal(t, path, result.Lints[0].SourceFile)

	_, err = ScanFile(filepath.Join(dir, "missing.rs"), models.DefaultGroupLevels())
	require.Error(t, err)
	assert.False(t, IsStructural(err))
}
