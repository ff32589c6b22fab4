// Package memory provides in-memory implementations for testing.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/nicheshunter/nicheshunter/ports"
)

// UserStore is an in-memory implementation of ports.UserStore.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]ports.User // by ID
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]ports.User),
	}
}

var _ ports.UserStore = (*UserStore)(nil)

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, id string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return ports.User{}, ports.ErrNotFound
	}
	return u, nil
}

// GetByEmail retrieves a user by email. Matching is case-insensitive.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return ports.User{}, ports.ErrNotFound
}

// GetByCustomerID retrieves a user by payment provider customer ID.
func (s *UserStore) GetByCustomerID(ctx context.Context, customerID string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if customerID == "" {
		return ports.User{}, ports.ErrNotFound
	}
	for _, u := range s.users {
		if u.StripeCustomerID == customerID {
			return u, nil
		}
	}
	return ports.User{}, ports.ErrNotFound
}

// Create stores a new user. Duplicate ID or email is rejected.
func (s *UserStore) Create(ctx context.Context, u ports.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; ok {
		return ports.ErrDuplicate
	}
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ports.ErrDuplicate
		}
	}
	s.users[u.ID] = u
	return nil
}

// Update modifies an existing user.
func (s *UserStore) Update(ctx context.Context, u ports.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return ports.ErrNotFound
	}
	s.users[u.ID] = u
	return nil
}

// List returns users ordered by creation time, newest first.
func (s *UserStore) List(ctx context.Context, limit, offset int) ([]ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]ports.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// Count returns total user count.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}
