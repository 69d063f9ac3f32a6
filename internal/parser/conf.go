package parser

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/harrison/lintcat/internal/models"
)

var (
	confBlockRe = regexp.MustCompile(`define_Conf! \{\n([^}]*)\n\}`)
	confVarRe   = regexp.MustCompile(`/// Lint: (\w+). (.*).*\n\s*\([^,]+,\s+"([^"]+)",\s+([^=\)]+)=>\s+(.*)\),`)
)

// ConfigRecord is one option of the define_Conf! block before it is keyed
// by lint name.
type ConfigRecord struct {
	Lint   string // Lower-cased lint name the option configures
	Config models.Config
}

// ParseConfigRecords extracts every well-formed option record from the
// define_Conf! block of content, in source order. Records that do not match
// the full shape are skipped. CRLF line endings are accepted.
func ParseConfigRecords(content string) ([]ConfigRecord, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	block := confBlockRe.FindStringSubmatch(content)
	if block == nil {
		return nil, ErrNoConfigBlock
	}

	matches := confVarRe.FindAllStringSubmatch(block[1], -1)
	records := make([]ConfigRecord, 0, len(matches))
	for _, m := range matches {
		records = append(records, ConfigRecord{
			Lint: strings.ToLower(m[1]),
			Config: models.Config{
				Name:    strings.ReplaceAll(m[3], "_", "-"),
				Type:    strings.TrimSpace(m[5]),
				Doc:     m[2],
				Default: strings.TrimSpace(m[4]),
			},
		})
	}
	return records, nil
}

// ParseConfigs builds the lint name -> option map from content. When a lint
// name repeats the last record wins.
func ParseConfigs(content string) (map[string]models.Config, error) {
	records, err := ParseConfigRecords(content)
	if err != nil {
		return nil, err
	}
	configs := make(map[string]models.Config, len(records))
	for _, r := range records {
		configs[r.Lint] = r.Config
	}
	return configs, nil
}

// ParseConfigFile reads the whole configuration file at path and returns its
// option records.
func ParseConfigFile(path string) ([]ConfigRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StructuralError{File: path, Err: fmt.Errorf("%w: %v", ErrNoConfigBlock, err)}
	}

	records, err := ParseConfigRecords(string(data))
	if err != nil {
		return nil, &StructuralError{File: path, Err: err}
	}
	return records, nil
}
