package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// Extensions is a list of file extensions to include (e.g., ".rs"); empty means all files
	Extensions []string
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains the matched paths, joined onto the scanned directory and sorted
	Files []string
	// Errors contains non-fatal errors encountered during scanning
	Errors []error
}

// ScanDirectory lists the immediate files of dir matching opts. Symbolic
// links are followed; a link is listed when its target is a regular file.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	extMap := ExtensionSet(opts.Extensions)
	for _, entry := range entries {
		if len(extMap) > 0 && !extMap[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		mode := entry.Type()
		if mode&os.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
				continue
			}
			mode = target.Mode().Type()
		}
		if !mode.IsRegular() {
			continue
		}

		result.Files = append(result.Files, path)
	}

	sort.Strings(result.Files)
	return result, nil
}

// ExtensionSet normalises extensions to a lower-case, dot-prefixed lookup set.
func ExtensionSet(extensions []string) map[string]bool {
	set := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[strings.ToLower(ext)] = true
	}
	return set
}
