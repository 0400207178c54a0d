/*
store.go - Persistence interface for rule definitions

PURPOSE:
  Defines the interface between the rule model and storage. Only validated
  rules can be saved. Loading goes back through the unvalidated path (decode,
  then Validate) so nothing read from storage skips the checks.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - store/memory/memory.go: In-memory for tests and dev

SEE ALSO:
  - factory/rule.go: Encoding used by the stores
*/
package rrule

import (
	"context"
	"time"

	"github.com/warp/recurrence/core"
)

// Definition is a named, validated rule as kept by a Store.
type Definition struct {
	ID        string
	Name      string
	Rule      RRule[core.Validated]
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists rule definitions.
type Store interface {
	// Save inserts or replaces a definition. Replacing bumps Version.
	Save(ctx context.Context, def Definition) error

	// Get returns the definition or ErrRuleNotFound.
	Get(ctx context.Context, id string) (*Definition, error)

	// List returns all definitions ordered by name.
	List(ctx context.Context) ([]Definition, error)

	// Delete removes a definition. Returns ErrRuleNotFound if it did not exist.
	Delete(ctx context.Context, id string) error
}
