/*
Package sqlite provides a SQLite-backed rrule.Store.

PURPOSE:
  Persists named rule definitions. Rules are stored as their JSON document
  (factory.RuleJSON) and rebuilt through the factory on every read, so a row
  edited by hand or written by an older version is validated again before
  anything can use it.

KEY TABLES:
  rules: One row per definition (versioned)

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/recurrence.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - rrule/store.go: Interface definition
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/recurrence/factory"
	"github.com/warp/recurrence/rrule"
)

// Store implements rrule.Store using SQLite.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	factory *factory.RuleFactory
	now     func() time.Time
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{
		db:      db,
		factory: factory.NewRuleFactory(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rules (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		version INTEGER DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rules_name ON rules(name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RULE STORE
// =============================================================================

// Save inserts or replaces a definition. Replacing bumps the version and
// keeps created_at.
func (s *Store) Save(ctx context.Context, def rrule.Definition) error {
	if def.ID == "" {
		return fmt.Errorf("%w: missing id", rrule.ErrInvalidRule)
	}
	if def.Rule.IsZero() {
		return fmt.Errorf("%w: rule %s is empty", rrule.ErrInvalidRule, def.ID)
	}

	configJSON, err := json.Marshal(s.factory.ToJSON(def.ID, def.Name, def.Rule))
	if err != nil {
		return fmt.Errorf("failed to encode rule %s: %w", def.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO rules (id, name, config_json, version, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			version = rules.version + 1,
			updated_at = excluded.updated_at
	`

	now := s.now().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, query, def.ID, def.Name, string(configJSON), now, now)
	return err
}

// Get retrieves a definition by ID.
func (s *Store) Get(ctx context.Context, id string) (*rrule.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, config_json, version, created_at, updated_at FROM rules WHERE id = ?",
		id,
	)
	def, err := s.scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", rrule.ErrRuleNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}

// List returns all definitions ordered by name.
func (s *Store) List(ctx context.Context) ([]rrule.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, config_json, version, created_at, updated_at FROM rules ORDER BY name, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []rrule.Definition
	for rows.Next() {
		def, err := s.scanRule(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

// Delete removes a definition.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM rules WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", rrule.ErrRuleNotFound, id)
	}
	return nil
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM rules")
	return err
}

// =============================================================================
// UTILITIES
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

// scanRule reads one row and rebuilds its rule through the factory.
func (s *Store) scanRule(row scanner) (rrule.Definition, error) {
	var def rrule.Definition
	var configJSON, createdAt, updatedAt string

	if err := row.Scan(&def.ID, &def.Name, &configJSON, &def.Version, &createdAt, &updatedAt); err != nil {
		return def, err
	}

	var rj factory.RuleJSON
	if err := json.Unmarshal([]byte(configJSON), &rj); err != nil {
		return def, fmt.Errorf("stored rule %s: %w", def.ID, err)
	}
	rule, err := s.factory.Build(rj)
	if err != nil {
		return def, fmt.Errorf("stored rule %s: %w", def.ID, err)
	}

	def.Rule = rule
	if def.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return def, fmt.Errorf("stored rule %s: created_at: %w", def.ID, err)
	}
	if def.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return def, fmt.Errorf("stored rule %s: updated_at: %w", def.ID, err)
	}
	return def, nil
}

var _ rrule.Store = (*Store)(nil)
