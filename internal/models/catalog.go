package models

// Catalog is the result of one scan over a lint source tree
type Catalog struct {
	Root       string            // Directory that was scanned
	Lints      []Lint            // Lints in file-then-line discovery order
	Configs    map[string]Config // Config options keyed by lower-cased lint name
	Warnings   []error           // Recoverable diagnostics (missing names, duplicates)
	FileErrors []error           // Structural errors of files skipped when continuing past bad files
}

// NewCatalog returns an empty catalog rooted at root
func NewCatalog(root string) *Catalog {
	return &Catalog{
		Root:    root,
		Lints:   make([]Lint, 0),
		Configs: make(map[string]Config),
	}
}

// Lookup returns the first lint with the given name
func (c *Catalog) Lookup(name string) (Lint, bool) {
	for _, lint := range c.Lints {
		if lint.Name == name {
			return lint, true
		}
	}
	return Lint{}, false
}

// ByGroup groups lints by their group, keeping discovery order within a group
func (c *Catalog) ByGroup() map[string][]Lint {
	grouped := make(map[string][]Lint)
	for _, lint := range c.Lints {
		grouped[lint.Group] = append(grouped[lint.Group], lint)
	}
	return grouped
}

// Active returns the lints that are not deprecated
func (c *Catalog) Active() []Lint {
	active := make([]Lint, 0, len(c.Lints))
	for _, lint := range c.Lints {
		if !lint.IsDeprecated() {
			active = append(active, lint)
		}
	}
	return active
}

// Deprecated returns the deprecated lints
func (c *Catalog) Deprecated() []Lint {
	var deprecated []Lint
	for _, lint := range c.Lints {
		if lint.IsDeprecated() {
			deprecated = append(deprecated, lint)
		}
	}
	return deprecated
}

// Names returns the lint names in discovery order
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Lints))
	for i, lint := range c.Lints {
		names[i] = lint.Name
	}
	return names
}
