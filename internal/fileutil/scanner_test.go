package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	// tmpDir/
	//   approx_const.rs
	//   Bit_Mask.RS
	//   lib.rs
	//   README.md
	//   utils/
	//     conf.rs
	//     mod.rs
	//   .hidden/
	//     hidden.rs
	//   target/
	//     build.rs
	testFiles := []string{
		"approx_const.rs",
		"Bit_Mask.RS",
		"lib.rs",
		"README.md",
		"utils/conf.rs",
		"utils/mod.rs",
		".hidden/hidden.rs",
		"target/build.rs",
	}
	for _, f := range testFiles {
		path := filepath.Join(tmpDir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("// test content\n"), 0644))
	}

	tests := []struct {
		name      string
		opts      ScanOptions
		wantFiles []string
	}{
		{
			name:      "non-recursive, all files",
			opts:      ScanOptions{},
			wantFiles: []string{"Bit_Mask.RS", "README.md", "approx_const.rs", "lib.rs"},
		},
		{
			name:      "non-recursive, rust sources",
			opts:      ScanOptions{Extensions: []string{".rs"}},
			wantFiles: []string{"Bit_Mask.RS", "approx_const.rs", "lib.rs"},
		},
		{
			name:      "extension without dot",
			opts:      ScanOptions{Extensions: []string{"md"}},
			wantFiles: []string{"README.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanDirectory(tmpDir, tt.opts)
			require.NoError(t, err)
			assert.Empty(t, result.Errors)

			want := make([]string, len(tt.wantFiles))
			for i, f := range tt.wantFiles {
				want[i] = filepath.Join(tmpDir, f)
			}
			assert.Equal(t, want, result.Files)
		})
	}
}

func TestScanDirectorySymlinks(t *testing.T) {
	tmpDir := t.TempDir()
	outside := t.TempDir()

	target := filepath.Join(outside, "methods.rs")
	require.NoError(t, os.WriteFile(target, []byte("// test content\n"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(outside, "nested.rs"), 0755))

	require.NoError(t, os.Symlink(target, filepath.Join(tmpDir, "linked.rs")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "nested.rs"), filepath.Join(tmpDir, "dir_link.rs")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "missing.rs"), filepath.Join(tmpDir, "dangling.rs")))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "plain.rs"), nil, 0644))

	result, err := ScanDirectory(tmpDir, ScanOptions{Extensions: []string{".rs"}})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "linked.rs"),
		filepath.Join(tmpDir, "plain.rs"),
	}, result.Files)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "dangling.rs")
}

func TestScanDirectoryErrors(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := ScanDirectory(filepath.Join(tmpDir, "missing"), ScanOptions{})
	require.Error(t, err)

	file := filepath.Join(tmpDir, "file.rs")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = ScanDirectory(file, ScanOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestScanDirectoryEmpty(t *testing.T) {
	result, err := ScanDirectory(t.TempDir(), ScanOptions{Extensions: []string{".rs"}})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
}

func TestExtensionSet(t *testing.T) {
	set := ExtensionSet([]string{".RS", "md", " ", ""})
	assert.Equal(t, map[string]bool{".rs": true, ".md": true}, set)
}
