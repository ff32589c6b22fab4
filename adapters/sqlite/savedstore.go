package sqlite

import (
	"context"
	"time"

	"github.com/nicheshunter/nicheshunter/ports"
)

// SavedNicheStore implements ports.SavedNicheStore using SQLite.
// The (user_id, niche_id) composite primary key plus INSERT OR IGNORE makes
// the save operation idempotent under concurrency.
type SavedNicheStore struct {
	db *DB
}

// NewSavedNicheStore creates a new SQLite saved-niche store.
func NewSavedNicheStore(db *DB) *SavedNicheStore {
	return &SavedNicheStore{db: db}
}

var _ ports.SavedNicheStore = (*SavedNicheStore)(nil)

// Add saves a niche for a user. Saving twice is a no-op.
func (s *SavedNicheStore) Add(ctx context.Context, userID, nicheID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO saved_niches (user_id, niche_id, saved_at)
		VALUES (?, ?, ?)
	`, userID, nicheID, time.Now().UTC())
	return err
}

// Remove deletes the relation row owned by userID. The WHERE clause scopes
// the delete to the owner, so one user can never unsave another's row.
func (s *SavedNicheStore) Remove(ctx context.Context, userID, nicheID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM saved_niches
		WHERE user_id = ? AND niche_id = ?
	`, userID, nicheID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// ListFor returns the niche IDs saved by a user, newest first.
func (s *SavedNicheStore) ListFor(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT niche_id
		FROM saved_niches
		WHERE user_id = ?
		ORDER BY saved_at DESC, niche_id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// IsSaved reports whether the user has saved the niche.
func (s *SavedNicheStore) IsSaved(ctx context.Context, userID, nicheID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM saved_niches
		WHERE user_id = ? AND niche_id = ?
	`, userID, nicheID).Scan(&n)
	return n > 0, err
}
