package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/nicheshunter/nicheshunter/domain/catalog"
	"github.com/nicheshunter/nicheshunter/ports"
)

// CatalogStore is an in-memory implementation of ports.CatalogStore.
type CatalogStore struct {
	mu     sync.RWMutex
	niches map[string]catalog.Niche // by ID
}

// NewCatalogStore creates a new in-memory catalog store.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		niches: make(map[string]catalog.Niche),
	}
}

var _ ports.CatalogStore = (*CatalogStore)(nil)

// GetByCode retrieves a niche by its public display code.
func (s *CatalogStore) GetByCode(ctx context.Context, displayCode string) (catalog.Niche, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.niches {
		if n.DisplayCode == displayCode {
			return n, nil
		}
	}
	return catalog.Niche{}, ports.ErrNotFound
}

// Get retrieves a niche by internal ID.
func (s *CatalogStore) Get(ctx context.Context, id string) (catalog.Niche, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.niches[id]
	if !ok {
		return catalog.Niche{}, ports.ErrNotFound
	}
	return n, nil
}

// List returns all niches ordered by score descending.
func (s *CatalogStore) List(ctx context.Context) ([]catalog.Niche, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]catalog.Niche, 0, len(s.niches))
	for _, n := range s.niches {
		result = append(result, n)
	}
	sortByScore(result)
	return result, nil
}

// ListFreeTier returns only free-tier niches, ordered by score descending.
func (s *CatalogStore) ListFreeTier(ctx context.Context) ([]catalog.Niche, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []catalog.Niche
	for _, n := range s.niches {
		if n.FreeTier {
			result = append(result, n)
		}
	}
	sortByScore(result)
	return result, nil
}

// Create stores a new niche. Duplicate ID or display code is rejected.
func (s *CatalogStore) Create(ctx context.Context, n catalog.Niche) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.niches[n.ID]; ok {
		return ports.ErrDuplicate
	}
	for _, existing := range s.niches {
		if existing.DisplayCode == n.DisplayCode {
			return ports.ErrDuplicate
		}
	}
	s.niches[n.ID] = n
	return nil
}

// Update modifies an existing niche. The display code is immutable.
func (s *CatalogStore) Update(ctx context.Context, n catalog.Niche) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.niches[n.ID]
	if !ok {
		return ports.ErrNotFound
	}
	n.DisplayCode = existing.DisplayCode
	s.niches[n.ID] = n
	return nil
}

// Count returns total niche count.
func (s *CatalogStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.niches), nil
}

func sortByScore(ns []catalog.Niche) {
	sort.SliceStable(ns, func(i, j int) bool {
		if ns[i].Score != ns[j].Score {
			return ns[i].Score > ns[j].Score
		}
		return ns[i].DisplayCode < ns[j].DisplayCode
	})
}
