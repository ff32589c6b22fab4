package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/nicheshunter/nicheshunter/domain/billing"
	"github.com/nicheshunter/nicheshunter/ports"
)

// UserStore implements ports.UserStore using SQLite.
type UserStore struct {
	db *DB
}

// NewUserStore creates a new SQLite user store.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

var _ ports.UserStore = (*UserStore)(nil)

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, id string) (ports.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, stripe_id, status, created_at, updated_at
		FROM users
		WHERE id = ?
	`, id)
	return scanUser(row)
}

// GetByEmail retrieves a user by email (case-insensitive).
func (s *UserStore) GetByEmail(ctx context.Context, email string) (ports.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, stripe_id, status, created_at, updated_at
		FROM users
		WHERE email = ? COLLATE NOCASE
	`, email)
	return scanUser(row)
}

// GetByCustomerID retrieves a user by payment provider customer ID.
func (s *UserStore) GetByCustomerID(ctx context.Context, customerID string) (ports.User, error) {
	if customerID == "" {
		return ports.User{}, ports.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, stripe_id, status, created_at, updated_at
		FROM users
		WHERE stripe_id = ?
	`, customerID)
	return scanUser(row)
}

// Create stores a new user.
func (s *UserStore) Create(ctx context.Context, u ports.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}
	if u.Status == "" {
		u.Status = billing.StatusNone
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, stripe_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.PasswordHash, u.Name, nullString(u.StripeCustomerID), string(u.Status), u.CreatedAt, u.UpdatedAt)

	if err != nil && isUniqueConstraintError(err) {
		return ports.ErrDuplicate
	}
	return err
}

// Update modifies an existing user.
func (s *UserStore) Update(ctx context.Context, u ports.User) error {
	u.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET email = ?, password_hash = ?, name = ?, stripe_id = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, u.Email, u.PasswordHash, u.Name, nullString(u.StripeCustomerID), string(u.Status), u.UpdatedAt, u.ID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ports.ErrDuplicate
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns users ordered by creation time, newest first.
func (s *UserStore) List(ctx context.Context, limit, offset int) ([]ports.User, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, password_hash, name, stripe_id, status, created_at, updated_at
		FROM users
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []ports.User
	for rows.Next() {
		var u ports.User
		var stripeID sql.NullString
		var status string
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &stripeID, &status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if stripeID.Valid {
			u.StripeCustomerID = stripeID.String
		}
		u.Status = billing.ParseStatus(status)
		users = append(users, u)
	}
	return users, rows.Err()
}

// Count returns total user count.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func scanUser(row *sql.Row) (ports.User, error) {
	var u ports.User
	var stripeID sql.NullString
	var status string

	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &stripeID, &status, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.User{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.User{}, err
	}

	if stripeID.Valid {
		u.StripeCustomerID = stripeID.String
	}
	u.Status = billing.ParseStatus(status)
	return u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
