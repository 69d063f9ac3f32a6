// Package history records catalog runs in a SQLite database so that two
// scans of a lint tree can be compared later.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/lintcat/internal/models"
)

var (
	// ErrRunNotFound indicates no run has the requested id.
	ErrRunNotFound = errors.New("history: run not found")
	// ErrNotEnoughRuns indicates fewer than two runs are recorded.
	ErrNotEnoughRuns = errors.New("history: at least two runs are needed for a diff")
)

// Run is one recorded catalog scan
type Run struct {
	ID           string
	Root         string
	LintCount    int
	ConfigCount  int
	WarningCount int
	CreatedAt    time.Time
}

// RunLint is a lint as stored for a run
type RunLint struct {
	Name       string
	Level      models.Severity
	Group      string
	SourceFile string
}

// LevelChange is a lint whose level moved between two runs
type LevelChange struct {
	Name string
	From models.Severity
	To   models.Severity
}

// Diff lists what changed between two runs
type Diff struct {
	From    Run
	To      Run
	Added   []string
	Removed []string
	Changed []LevelChange
}

// Empty reports whether the two runs hold the same lints at the same levels
func (d *Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Store manages the SQLite run history database
type Store struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// NewStore opens the database at dbPath, creating parent directories and
// applying pending migrations. ":memory:" opens a private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
		now:    func() time.Time { return time.Now().UTC() },
	}
	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun stores the catalog as a new run and returns it.
func (s *Store) RecordRun(ctx context.Context, catalog *models.Catalog) (*Run, error) {
	run := &Run{
		ID:           uuid.NewString(),
		Root:         catalog.Root,
		LintCount:    len(catalog.Lints),
		ConfigCount:  len(catalog.Configs),
		WarningCount: len(catalog.Warnings),
		CreatedAt:    s.now(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, root, lint_count, config_count, warning_count, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Root, run.LintCount, run.ConfigCount, run.WarningCount, run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	lintStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_lints (run_id, name, level, lint_group, source_file) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare lint insert: %w", err)
	}
	defer lintStmt.Close()
	for _, lint := range catalog.Lints {
		if _, err := lintStmt.ExecContext(ctx, run.ID, lint.Name, string(lint.Level), lint.Group, lint.SourceFile); err != nil {
			return nil, fmt.Errorf("insert lint %s: %w", lint.Name, err)
		}
	}

	confStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_configs (run_id, lint, name, type, default_value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare config insert: %w", err)
	}
	defer confStmt.Close()
	for lint, conf := range catalog.Configs {
		if _, err := confStmt.ExecContext(ctx, run.ID, lint, conf.Name, conf.Type, conf.Default); err != nil {
			return nil, fmt.Errorf("insert config %s: %w", lint, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit run: %w", err)
	}
	return run, nil
}

const runColumns = `id, root, lint_count, config_count, warning_count, created_at`

// ListRuns returns recorded runs, newest first. A non-positive limit
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY seq DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryRuns(ctx, query, args...)
}

// GetRun returns the run with the given id. A unique id prefix is accepted.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	runs, err := s.queryRuns(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(runs) == 1 {
		return &runs[0], nil
	}

	prefix := strings.NewReplacer("%", "", "_", "").Replace(id)
	if prefix == "" {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, id)
	}
	runs, err = s.queryRuns(ctx, `SELECT `+runColumns+` FROM runs WHERE id LIKE ? ORDER BY seq DESC LIMIT 2`, prefix+"%")
	if err != nil {
		return nil, err
	}
	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return &runs[0], nil
	}
	return nil, fmt.Errorf("ambiguous run id prefix %q", id)
}

func (s *Store) queryRuns(ctx context.Context, query string, args ...interface{}) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Root, &r.LintCount, &r.ConfigCount, &r.WarningCount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Lints returns the lints stored for a run, sorted by name
func (s *Store) Lints(ctx context.Context, runID string) ([]RunLint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, level, lint_group, COALESCE(source_file, '') FROM run_lints WHERE run_id = ? ORDER BY name`, runID)
	if err != nil {
		return nil, fmt.Errorf("query lints: %w", err)
	}
	defer rows.Close()

	var lints []RunLint
	for rows.Next() {
		var l RunLint
		var level string
		if err := rows.Scan(&l.Name, &level, &l.Group, &l.SourceFile); err != nil {
			return nil, fmt.Errorf("scan lint: %w", err)
		}
		l.Level = models.Severity(level)
		lints = append(lints, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lints: %w", err)
	}
	return lints, nil
}

// Diff compares the lints of two runs.
func (s *Store) Diff(ctx context.Context, fromID, toID string) (*Diff, error) {
	from, err := s.GetRun(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.GetRun(ctx, toID)
	if err != nil {
		return nil, err
	}

	before, err := s.Lints(ctx, from.ID)
	if err != nil {
		return nil, err
	}
	after, err := s.Lints(ctx, to.ID)
	if err != nil {
		return nil, err
	}

	diff := CompareLints(before, after)
	diff.From = *from
	diff.To = *to
	return diff, nil
}

// DiffLatest compares the two most recent runs.
func (s *Store) DiffLatest(ctx context.Context) (*Diff, error) {
	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		return nil, err
	}
	if len(runs) < 2 {
		return nil, ErrNotEnoughRuns
	}
	return s.Diff(ctx, runs[1].ID, runs[0].ID)
}

// CompareLints computes added, removed and level-changed lint names. When a
// name repeats within one side the first occurrence is used.
func CompareLints(before, after []RunLint) *Diff {
	index := func(lints []RunLint) map[string]models.Severity {
		m := make(map[string]models.Severity, len(lints))
		for _, l := range lints {
			if _, ok := m[l.Name]; !ok {
				m[l.Name] = l.Level
			}
		}
		return m
	}
	old := index(before)
	cur := index(after)

	diff := &Diff{}
	for name, level := range cur {
		prev, ok := old[name]
		switch {
		case !ok:
			diff.Added = append(diff.Added, name)
		case prev != level:
			diff.Changed = append(diff.Changed, LevelChange{Name: name, From: prev, To: level})
		}
	}
	for name := range old {
		if _, ok := cur[name]; !ok {
			diff.Removed = append(diff.Removed, name)
		}
	}

	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	sort.Slice(diff.Changed, func(i, j int) bool { return diff.Changed[i].Name < diff.Changed[j].Name })
	return diff
}
