package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/nicheshunter/nicheshunter/domain/billing"
	"github.com/nicheshunter/nicheshunter/ports"
)

// SubscriptionStore implements ports.SubscriptionStore using SQLite.
type SubscriptionStore struct {
	db *DB
}

// NewSubscriptionStore creates a new SQLite subscription store.
func NewSubscriptionStore(db *DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

var _ ports.SubscriptionStore = (*SubscriptionStore)(nil)

const subscriptionColumns = `id, user_id, provider_id, provider_customer_id, price_id, status,
	current_period_start, current_period_end, cancel_at_period_end, canceled_at, created_at, updated_at`

// Get retrieves a subscription by ID.
func (s *SubscriptionStore) Get(ctx context.Context, id string) (billing.Subscription, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE id = ?
	`, id)
	return scanSubscription(row)
}

// GetByUser retrieves the most recently created subscription for a user.
func (s *SubscriptionStore) GetByUser(ctx context.Context, userID string) (billing.Subscription, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, userID)
	return scanSubscription(row)
}

// GetByProviderID retrieves a subscription by its external ID.
func (s *SubscriptionStore) GetByProviderID(ctx context.Context, providerID string) (billing.Subscription, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE provider_id = ?
	`, providerID)
	return scanSubscription(row)
}

// Create stores a new subscription.
func (s *SubscriptionStore) Create(ctx context.Context, sub billing.Subscription) error {
	now := time.Now().UTC()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	if sub.UpdatedAt.IsZero() {
		sub.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscriptions (`+subscriptionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sub.ID, sub.UserID, sub.ProviderID, sub.ProviderCustomerID, sub.PriceID,
		string(sub.Status), nullTime(sub.CurrentPeriodStart), nullTime(sub.CurrentPeriodEnd),
		boolToInt(sub.CancelAtPeriodEnd), sub.CanceledAt, sub.CreatedAt, sub.UpdatedAt)

	if err != nil && isUniqueConstraintError(err) {
		return ports.ErrDuplicate
	}
	return err
}

// Update modifies a subscription.
func (s *SubscriptionStore) Update(ctx context.Context, sub billing.Subscription) error {
	sub.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = ?, price_id = ?, current_period_start = ?, current_period_end = ?,
		    cancel_at_period_end = ?, canceled_at = ?, updated_at = ?
		WHERE id = ?
	`, string(sub.Status), sub.PriceID, nullTime(sub.CurrentPeriodStart), nullTime(sub.CurrentPeriodEnd),
		boolToInt(sub.CancelAtPeriodEnd), sub.CanceledAt, sub.UpdatedAt, sub.ID)
	if err != nil {
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

func scanSubscription(row *sql.Row) (billing.Subscription, error) {
	var sub billing.Subscription
	var status string
	var periodStart, periodEnd, canceledAt sql.NullTime
	var cancelAtEnd int

	err := row.Scan(
		&sub.ID, &sub.UserID, &sub.ProviderID, &sub.ProviderCustomerID, &sub.PriceID, &status,
		&periodStart, &periodEnd, &cancelAtEnd, &canceledAt, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return billing.Subscription{}, ports.ErrNotFound
	}
	if err != nil {
		return billing.Subscription{}, err
	}

	sub.Status = billing.ParseStatus(status)
	if periodStart.Valid {
		sub.CurrentPeriodStart = periodStart.Time
	}
	if periodEnd.Valid {
		sub.CurrentPeriodEnd = periodEnd.Time
	}
	sub.CancelAtPeriodEnd = cancelAtEnd != 0
	if canceledAt.Valid {
		t := canceledAt.Time
		sub.CanceledAt = &t
	}
	return sub, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
