package memory

import (
	"context"
	"sync"

	"github.com/nicheshunter/nicheshunter/domain/billing"
	"github.com/nicheshunter/nicheshunter/ports"
)

// SubscriptionStore is an in-memory implementation of ports.SubscriptionStore.
type SubscriptionStore struct {
	mu   sync.RWMutex
	subs map[string]billing.Subscription // by ID
}

// NewSubscriptionStore creates a new in-memory subscription store.
func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{
		subs: make(map[string]billing.Subscription),
	}
}

var _ ports.SubscriptionStore = (*SubscriptionStore)(nil)

// Get retrieves a subscription by ID.
func (s *SubscriptionStore) Get(ctx context.Context, id string) (billing.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[id]
	if !ok {
		return billing.Subscription{}, ports.ErrNotFound
	}
	return sub, nil
}

// GetByUser retrieves the most recently created subscription for a user.
func (s *SubscriptionStore) GetByUser(ctx context.Context, userID string) (billing.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best billing.Subscription
	found := false
	for _, sub := range s.subs {
		if sub.UserID != userID {
			continue
		}
		if !found || sub.CreatedAt.After(best.CreatedAt) {
			best = sub
			found = true
		}
	}
	if !found {
		return billing.Subscription{}, ports.ErrNotFound
	}
	return best, nil
}

// GetByProviderID retrieves a subscription by its external ID.
func (s *SubscriptionStore) GetByProviderID(ctx context.Context, providerID string) (billing.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.subs {
		if sub.ProviderID == providerID {
			return sub, nil
		}
	}
	return billing.Subscription{}, ports.ErrNotFound
}

// Create stores a new subscription.
func (s *SubscriptionStore) Create(ctx context.Context, sub billing.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[sub.ID]; ok {
		return ports.ErrDuplicate
	}
	s.subs[sub.ID] = sub
	return nil
}

// Update modifies a subscription.
func (s *SubscriptionStore) Update(ctx context.Context, sub billing.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[sub.ID]; !ok {
		return ports.ErrNotFound
	}
	s.subs[sub.ID] = sub
	return nil
}
