// Package export turns a lint catalog into the lints.json document consumed
// by the lint documentation site.
//
// Each lint's doc comment is split into sections introduced by bold
// headings such as "**What it does:**" or "**Example:**". Lints with a
// configuration option get an extra "Configuration" section. Sections can
// optionally be rendered to HTML with goldmark.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/lintcat/internal/filelock"
	"github.com/harrison/lintcat/internal/logger"
	"github.com/harrison/lintcat/internal/models"
)

// ConfigurationSection is the section name holding a lint's option
const ConfigurationSection = "Configuration"

const confTemplate = "This lint has the following configuration variables:\n\n* `%s: %s`: %s (defaults to `%s`)."

var subheadlineRe = regexp.MustCompile(`^\*\*([\w\s]+?)[:?.!]?\*\*(.*)`)

// LintDoc is one entry of lints.json
type LintDoc struct {
	ID       string            `json:"id"`
	Group    string            `json:"group"`
	Level    string            `json:"level"`
	Docs     map[string]string `json:"docs"`
	DocsHTML map[string]string `json:"docs_html,omitempty"`
}

// Exporter builds lint documentation from a catalog.
type Exporter struct {
	markdown goldmark.Markdown
	logger   logger.Logger
	html     bool
}

// Option configures an Exporter
type Option func(*Exporter)

// WithHTML enables goldmark rendering of each section
func WithHTML(enabled bool) Option {
	return func(e *Exporter) {
		e.html = enabled
	}
}

// WithLogger sets the logger used for skipped-line warnings
func WithLogger(l logger.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExporter creates an Exporter. Markdown is rendered with GitHub
// flavoured extensions, matching how the documentation site displays it.
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger:   logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Build converts the catalog into lint docs. When a lint name repeats, the
// later declaration replaces the earlier one in its original position.
func (e *Exporter) Build(catalog *models.Catalog) ([]LintDoc, error) {
	index := make(map[string]int, len(catalog.Lints))
	docs := make([]LintDoc, 0, len(catalog.Lints))

	for _, lint := range catalog.Lints {
		doc := LintDoc{
			ID:    lint.Name,
			Group: lint.Group,
			Level: string(lint.Level),
			Docs:  e.Sections(lint),
		}
		if conf, ok := catalog.Configs[lint.Name]; ok {
			doc.Docs[ConfigurationSection] = FormatConfig(conf)
		}
		if e.html {
			rendered, err := e.renderSections(doc.Docs)
			if err != nil {
				return nil, fmt.Errorf("failed to render docs for %s: %w", lint.Name, err)
			}
			doc.DocsHTML = rendered
		}

		if i, dup := index[lint.Name]; dup {
			docs[i] = doc
			continue
		}
		index[lint.Name] = len(docs)
		docs = append(docs, doc)
	}
	return docs, nil
}

// Sections splits the lint's doc comment into its bold-headed sections.
// Blank lines are dropped except inside Example sections. Lines before the
// first heading are skipped with a warning.
func (e *Exporter) Sections(lint models.Lint) map[string]string {
	sections := make(map[string]string)
	section := ""

	for _, line := range lint.Docs {
		if strings.TrimSpace(line) == "" && !strings.HasPrefix(section, "Example") {
			continue
		}

		text := line
		if m := subheadlineRe.FindStringSubmatch(line); m != nil {
			section = m[1]
			text = m[2]
		}
		if section == "" {
			e.logger.Warnf("Skipping comment line as it was not preceded by a heading")
			e.logger.Debugf("in lint `%s`, line `%s`", lint.Name, strings.TrimRight(line, "\n"))
			continue
		}

		fragment := sections[section]
		if text == "\n" {
			sections[section] = fragment + text
		} else {
			sections[section] = strings.TrimSpace(fragment + "\n" + text)
		}
	}
	return sections
}

func (e *Exporter) renderSections(sections map[string]string) (map[string]string, error) {
	rendered := make(map[string]string, len(sections))
	for name, text := range sections {
		var buf bytes.Buffer
		if err := e.markdown.Convert([]byte(text), &buf); err != nil {
			return nil, err
		}
		rendered[name] = buf.String()
	}
	return rendered, nil
}

// FormatConfig renders the Configuration section text for an option
func FormatConfig(c models.Config) string {
	return fmt.Sprintf(confTemplate, c.Name, c.Type, c.Doc, c.Default)
}

// Marshal encodes lint docs as indented JSON
func Marshal(docs []LintDoc) ([]byte, error) {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode lint docs: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteJSON builds the docs for catalog and writes them to path.
func (e *Exporter) WriteJSON(ctx context.Context, catalog *models.Catalog, path string) ([]LintDoc, error) {
	docs, err := e.Build(catalog)
	if err != nil {
		return nil, err
	}
	data, err := Marshal(docs)
	if err != nil {
		return nil, err
	}
	if err := filelock.WriteFile(ctx, path, data); err != nil {
		return nil, err
	}
	e.logger.Infof("wrote JSON for %d lints to %s", len(docs), path)
	return docs, nil
}
