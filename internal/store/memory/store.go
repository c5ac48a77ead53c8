// Package memory provides an in-memory catalog.Store for tests and local
// development.
package memory

import (
	"context"
	"sync"

	"github.com/ishaan2692/search-engine/internal/catalog"
)

// Store keeps Product records in a map guarded by a mutex. Upsert follows
// the same replace policy as the Postgres store; GetAll preserves first
// insertion order so index builds are deterministic.
type Store struct {
	mu       sync.RWMutex
	products map[string]catalog.Product
	order    []string
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{products: make(map[string]catalog.Product)}
}

// Upsert inserts or replaces the record keyed by p.ID.
func (s *Store) Upsert(_ context.Context, p catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products[p.ID]; !exists {
		s.order = append(s.order, p.ID)
	}
	s.products[p.ID] = p
	return nil
}

// GetAll returns a snapshot of every record in first-insertion order.
func (s *Store) GetAll(_ context.Context) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.products[id])
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products), nil
}

// CountByPetType returns per-label record counts.
func (s *Store) CountByPetType(_ context.Context) (map[catalog.PetType]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[catalog.PetType]int)
	for _, p := range s.products {
		counts[p.PetType]++
	}
	return counts, nil
}

// Clear removes every record.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = make(map[string]catalog.Product)
	s.order = nil
	return nil
}
