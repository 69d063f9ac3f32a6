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

const sampleConf = `//! Read configurations files.

use std::{env, fmt, fs, io, path};

/// This macro is used to define configuration values.
define_Conf! {
    /// Lint: BLACKLISTED_NAME. The list of blacklisted names to lint about
    (blacklisted_names, "blacklisted_names", ["foo", "bar", "baz", "quux"] => Vec<String>),
    /// Lint: CYCLOMATIC_COMPLEXITY. The maximum cyclomatic complexity a function can have
    (cyclomatic_complexity_threshold, "cyclomatic_complexity_threshold", 25 => u64),
    /// Lint: DOC_MARKDOWN. The list of words this lint should not consider as identifiers needing ticks
    (doc_valid_idents, "doc_valid_idents", ["MiB", "GiB"] => Vec<String>),
    /// This record has no lint and is skipped
    (third_party, "third-party", None => Option<String>),
    /// Lint: TOO_MANY_ARGUMENTS. The maximum number of argument a function or method can have
    (too_many_arguments_threshold, "too_many_arguments_threshold", 7 => u64),
}

/// Search for the configuration file.
pub fn lookup_conf_file() -> io::Result<Option<path::PathBuf>> {
    /// Lint: OUTSIDE_BLOCK. Never seen
    (outside, "outside", 1 => u64),
}
`

func TestParseConfigs(t *testing.T) {
	configs, err := ParseConfigs(sampleConf)
	require.NoError(t, err)
	require.Len(t, configs, 4)

	cc, ok := configs["cyclomatic_complexity"]
	require.True(t, ok)
	assert.Equal(t, models.Config{
		Name:    "cyclomatic-complexity-threshold",
		Type:    "u64",
		Doc:     "The maximum cyclomatic complexity a function can have",
		Default: "25",
	}, cc)

	bl := configs["blacklisted_name"]
	assert.Equal(t, "blacklisted-names", bl.Name)
	assert.Equal(t, `["foo", "bar", "baz", "quux"]`, bl.Default)
	assert.Equal(t, "Vec<String>", bl.Type)

	_, ok = configs["outside_block"]
	assert.False(t, ok, "records outside the define_Conf! block must be ignored")
}

func TestParseConfigsSingleRecord(t *testing.T) {
	content := "define_Conf! {\n    /// Lint: FOO_LINT. How many foos\n    (max_foo, \"max_foo\", 10 => u64),\n}\n"
	configs, err := ParseConfigs(content)
	require.NoError(t, err)
	require.Len(t, configs, 1)

	foo := configs["foo_lint"]
	assert.Equal(t, "max-foo", foo.Name)
	assert.Equal(t, "10", foo.Default)
	assert.Equal(t, "u64", foo.Type)
	assert.Equal(t, "How many foos", foo.Doc)
}

func TestParseConfigsCRLF(t *testing.T) {
	content := strings.ReplaceAll(sampleConf, "\n", "\r\n")

	configs, err := ParseConfigs(content)
	require.NoError(t, err)
	require.Len(t, configs, 4)

	tma := configs["too_many_arguments"]
	assert.Equal(t, "too-many-arguments-threshold", tma.Name)
	assert.Equal(t, "u64", tma.Type)
	assert.Equal(t, "7", tma.Default)
	assert.Equal(t, "The maximum number of argument a function or method can have", tma.Doc)
}

func TestParseConfigsLastRecordWins(t *testing.T) {
	content := "define_Conf! {\n" +
		"    /// Lint: FOO. first\n    (a, \"first_key\", 1 => u64),\n" +
		"    /// Lint: FOO. second\n    (b, \"second_key\", 2 => u64),\n" +
		"}\n"

	records, err := ParseConfigRecords(content)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "foo", records[0].Lint)
	assert.Equal(t, "foo", records[1].Lint)

	configs, err := ParseConfigs(content)
	require.NoError(t, err)
	assert.Equal(t, "second-key", configs["foo"].Name)
}

func TestParseConfigsMissingBlock(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "no macro", content: "fn main() {}\n"},
		{name: "unterminated block", content: "define_Conf! {\n    (a, \"a\", 1 => u64),\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfigs(tt.content)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoConfigBlock))
		})
	}
}

func TestParseConfigsEmptyBlock(t *testing.T) {
	configs, err := ParseConfigs("define_Conf! {\n    // nothing yet\n}\n")
	require.NoError(t, err)
	assert.Empty(t, configs)
}

func TestParseConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.rs")
	require.NoError(t, os.WriteFile(path, []byte(sampleConf), 0644))

	records, err := ParseConfigFile(path)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "blacklisted_name", records[0].Lint)
	assert.Equal(t, "too_many_arguments", records[3].Lint)

	_, err = ParseConfigFile(filepath.Join(dir, "missing.rs"))
	require.Error(t, err)
	assert.True(t, IsStructural(err))
	assert.True(t, errors.Is(err, ErrNoConfigBlock))

	empty := filepath.Join(dir, "empty.rs")
	require.NoError(t, os.WriteFile(empty, []byte("// nothing\n"), 0644))
	_, err = ParseConfigFile(empty)
	require.Error(t, err)
	assert.True(t, IsStructural(err))
}
