package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nicheshunter/nicheshunter/ports"
)

type savedRow struct {
	userID  string
	nicheID string
	savedAt time.Time
	seq     int64
}

// SavedNicheStore is an in-memory implementation of ports.SavedNicheStore.
// The (userID, nicheID) pair is the key, so duplicate adds collapse to a
// single row the same way a composite primary key would.
type SavedNicheStore struct {
	mu   sync.Mutex
	rows map[[2]string]savedRow
	seq  int64
}

// NewSavedNicheStore creates a new in-memory saved-niche store.
func NewSavedNicheStore() *SavedNicheStore {
	return &SavedNicheStore{
		rows: make(map[[2]string]savedRow),
	}
}

var _ ports.SavedNicheStore = (*SavedNicheStore)(nil)

// Add saves a niche for a user. Saving twice is a no-op.
func (s *SavedNicheStore) Add(ctx context.Context, userID, nicheID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]string{userID, nicheID}
	if _, ok := s.rows[key]; ok {
		return nil
	}
	s.seq++
	s.rows[key] = savedRow{
		userID:  userID,
		nicheID: nicheID,
		savedAt: time.Now().UTC(),
		seq:     s.seq,
	}
	return nil
}

// Remove deletes the relation row owned by userID. Reports whether a row
// was actually removed.
func (s *SavedNicheStore) Remove(ctx context.Context, userID, nicheID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]string{userID, nicheID}
	if _, ok := s.rows[key]; !ok {
		return false, nil
	}
	delete(s.rows, key)
	return true, nil
}

// ListFor returns the niche IDs saved by a user, newest first.
func (s *SavedNicheStore) ListFor(ctx context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []savedRow
	for _, r := range s.rows {
		if r.userID == userID {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.nicheID)
	}
	return ids, nil
}

// IsSaved reports whether the user has saved the niche.
func (s *SavedNicheStore) IsSaved(ctx context.Context, userID, nicheID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.rows[[2]string{userID, nicheID}]
	return ok, nil
}
