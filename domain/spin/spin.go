// Package spin provides the advisory roulette spin limiter.
//
// The spin count is persisted client-side and is trivially resettable by
// the client. That is accepted: the limiter gates a repeatable reveal
// animation, never sensitive data, so it is UX guidance rather than a
// security boundary. Nothing downstream may treat it as authoritative.
package spin

import "github.com/nicheshunter/nicheshunter/domain/billing"

// DefaultLimit is the number of free spins for non-subscribers.
const DefaultLimit = 3

// Limiter holds the spin policy (value type).
type Limiter struct {
	Limit int
	// ResetPolicy describes when counts reset: "never", "daily", "monthly".
	// Observed behavior is no reset, so "never" is the default.
	ResetPolicy string
}

// NewLimiter returns a limiter with the given limit, falling back to
// DefaultLimit for non-positive values, and "never" reset.
func NewLimiter(limit int) Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Limiter{Limit: limit, ResetPolicy: "never"}
}

// Remaining returns how many free spins are left, never negative.
// This is a PURE function.
func (l Limiter) Remaining(count int) int {
	if count >= l.Limit {
		return 0
	}
	if count < 0 {
		count = 0
	}
	return l.Limit - count
}

// ReachedLimit reports whether further spins are refused.
// Subscribers are never limited. This is a PURE function.
func (l Limiter) ReachedLimit(status billing.SubscriptionStatus, count int) bool {
	return !status.Grants() && count >= l.Limit
}
