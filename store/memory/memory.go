// Package memory provides an in-memory rrule.Store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/warp/recurrence/rrule"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu    sync.RWMutex
	rules map[string]rrule.Definition
	now   func() time.Time
}

func New() *Store {
	return &Store{
		rules: make(map[string]rrule.Definition),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Save inserts or replaces a definition. Replacing keeps CreatedAt and bumps
// Version.
func (s *Store) Save(_ context.Context, def rrule.Definition) error {
	if def.ID == "" {
		return fmt.Errorf("%w: missing id", rrule.ErrInvalidRule)
	}
	if def.Rule.IsZero() {
		return fmt.Errorf("%w: rule %s is empty", rrule.ErrInvalidRule, def.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if prev, ok := s.rules[def.ID]; ok {
		def.Version = prev.Version + 1
		def.CreatedAt = prev.CreatedAt
	} else {
		def.Version = 1
		def.CreatedAt = now
	}
	def.UpdatedAt = now
	s.rules[def.ID] = def
	return nil
}

// Get returns a copy of the definition. Rules are immutable values, so the
// struct copy is enough.
func (s *Store) Get(_ context.Context, id string) (*rrule.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.rules[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", rrule.ErrRuleNotFound, id)
	}
	return &def, nil
}

// List returns all definitions ordered by name, then ID.
func (s *Store) List(_ context.Context) ([]rrule.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]rrule.Definition, 0, len(s.rules))
	for _, def := range s.rules {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rules[id]; !ok {
		return fmt.Errorf("%w: %s", rrule.ErrRuleNotFound, id)
	}
	delete(s.rules, id)
	return nil
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = make(map[string]rrule.Definition)
}

var _ rrule.Store = (*Store)(nil)
