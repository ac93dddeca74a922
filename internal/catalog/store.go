package catalog

import (
	"sync"
)

// Store provides access to the catalog used by new packing runs.
type Store interface {
	Get() Catalog
	Set(doc Document) (Catalog, error)
}

// MemoryStore keeps the active catalog in memory and guards access with a RWMutex.
// Catalog values are immutable, so readers can hold on to what Get returned
// while a writer swaps in a new one.
type MemoryStore struct {
	mu      sync.RWMutex
	base    Catalog
	catalog Catalog
}

// NewMemoryStore initialises storage with the given catalog. Later updates are
// layered over it, not over each other.
func NewMemoryStore(initial Catalog) *MemoryStore {
	return &MemoryStore{base: initial, catalog: initial}
}

// Get returns the active catalog.
func (s *MemoryStore) Get() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.catalog
}

// Set applies doc over the initial catalog, validates the result and makes it
// active. On error the active catalog is left untouched.
func (s *MemoryStore) Set(doc Document) (Catalog, error) {
	next, err := Apply(s.base, doc)
	if err != nil {
		return Catalog{}, err
	}

	s.mu.Lock()
	s.catalog = next
	s.mu.Unlock()

	return next, nil
}
