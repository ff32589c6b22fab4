// Package billing provides subscription value types and pure functions.
// Subscription state transitions are owned by the payment provider and
// arrive via webhooks; this package only models the current state.
package billing

import "time"

// SubscriptionStatus represents subscription state.
type SubscriptionStatus string

const (
	StatusNone     SubscriptionStatus = "none"
	StatusActive   SubscriptionStatus = "active"
	StatusCanceled SubscriptionStatus = "canceled"
	StatusPastDue  SubscriptionStatus = "past_due"
)

// Grants reports whether the status grants paid entitlement.
// Only an active subscription unlocks paid content.
func (s SubscriptionStatus) Grants() bool {
	return s == StatusActive
}

// ParseStatus maps a raw status string to a SubscriptionStatus.
// Unknown values map to StatusNone so a garbled store row can never
// grant entitlement.
func ParseStatus(s string) SubscriptionStatus {
	switch SubscriptionStatus(s) {
	case StatusActive:
		return StatusActive
	case StatusCanceled:
		return StatusCanceled
	case StatusPastDue:
		return StatusPastDue
	default:
		return StatusNone
	}
}

// Subscription represents a billing subscription (value type).
type Subscription struct {
	ID                 string
	UserID             string
	ProviderID         string // External ID at the payment provider (Stripe)
	ProviderCustomerID string
	PriceID            string
	Status             SubscriptionStatus
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelAtPeriodEnd  bool
	CanceledAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsActive returns true if the subscription currently grants entitlement.
func (s Subscription) IsActive() bool {
	return s.Status.Grants()
}

// MapProviderStatus maps a Stripe subscription status string to ours.
// Statuses we do not model (trialing, unpaid, paused, incomplete) collapse
// to the nearest gate-relevant state.
func MapProviderStatus(s string) SubscriptionStatus {
	switch s {
	case "active", "trialing":
		return StatusActive
	case "past_due", "unpaid", "incomplete":
		return StatusPastDue
	case "canceled", "incomplete_expired":
		return StatusCanceled
	default:
		return StatusNone
	}
}
