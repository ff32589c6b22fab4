// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/nicheshunter/nicheshunter/domain/billing"
	"github.com/nicheshunter/nicheshunter/domain/catalog"
	"github.com/nicheshunter/nicheshunter/domain/entitlement"
)

// ErrNotFound is returned by stores when an entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by stores on a uniqueness violation.
var ErrDuplicate = errors.New("duplicate")

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// Hasher provides password hashing.
type Hasher interface {
	// Hash generates a hash from a plaintext value.
	Hash(plaintext string) ([]byte, error)

	// Compare checks if plaintext matches hash.
	Compare(hash []byte, plaintext string) bool
}

// -----------------------------------------------------------------------------
// Identity Ports
// -----------------------------------------------------------------------------

// IdentityProvider resolves request credentials to a viewer identity.
//
// Missing or invalid credentials resolve to the anonymous identity with a
// nil error; only infrastructure failures (store unreachable) return an
// error. Identity is resolved fresh on every request; implementations
// must not cache subscription status across calls, because it changes
// asynchronously via payment webhooks.
type IdentityProvider interface {
	Resolve(ctx context.Context, sessionToken string) (entitlement.Identity, error)
}

// User represents a registered account.
type User struct {
	ID               string
	Email            string
	PasswordHash     []byte
	Name             string
	StripeCustomerID string
	Status           billing.SubscriptionStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// UserStore persists user accounts.
type UserStore interface {
	// Get retrieves a user by ID.
	Get(ctx context.Context, id string) (User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (User, error)

	// GetByCustomerID retrieves a user by payment provider customer ID.
	GetByCustomerID(ctx context.Context, customerID string) (User, error)

	// Create stores a new user.
	Create(ctx context.Context, u User) error

	// Update modifies an existing user.
	Update(ctx context.Context, u User) error

	// List returns users ordered by creation time, newest first.
	List(ctx context.Context, limit, offset int) ([]User, error)

	// Count returns total user count.
	Count(ctx context.Context) (int, error)
}

// -----------------------------------------------------------------------------
// Catalog Ports
// -----------------------------------------------------------------------------

// CatalogStore persists niche records.
type CatalogStore interface {
	// GetByCode retrieves a niche by its public display code.
	// Returns ErrNotFound for unknown codes; callers map that to a
	// "not found" outcome distinct from "locked".
	GetByCode(ctx context.Context, displayCode string) (catalog.Niche, error)

	// Get retrieves a niche by internal ID.
	Get(ctx context.Context, id string) (catalog.Niche, error)

	// List returns all niches ordered by score descending.
	List(ctx context.Context) ([]catalog.Niche, error)

	// ListFreeTier returns only free-tier niches.
	ListFreeTier(ctx context.Context) ([]catalog.Niche, error)

	// Create stores a new niche.
	Create(ctx context.Context, n catalog.Niche) error

	// Update modifies an existing niche. DisplayCode is immutable.
	Update(ctx context.Context, n catalog.Niche) error

	// Count returns total niche count.
	Count(ctx context.Context) (int, error)
}

// SavedNicheStore persists the many-to-many saved relation.
type SavedNicheStore interface {
	// Add saves a niche for a user. Saving an already-saved niche is a
	// no-op, not an error; concurrent duplicate adds converge to one row.
	Add(ctx context.Context, userID, nicheID string) error

	// Remove deletes the relation row owned by userID. Removing a row
	// that does not exist (or belongs to someone else) is a no-op that
	// reports false.
	Remove(ctx context.Context, userID, nicheID string) (bool, error)

	// ListFor returns the niche IDs saved by a user, newest first.
	ListFor(ctx context.Context, userID string) ([]string, error)

	// IsSaved reports whether the user has saved the niche.
	IsSaved(ctx context.Context, userID, nicheID string) (bool, error)
}

// -----------------------------------------------------------------------------
// Billing Ports
// -----------------------------------------------------------------------------

// SubscriptionStore persists billing subscriptions.
type SubscriptionStore interface {
	// Get retrieves a subscription by ID.
	Get(ctx context.Context, id string) (billing.Subscription, error)

	// GetByUser retrieves the latest subscription for a user.
	GetByUser(ctx context.Context, userID string) (billing.Subscription, error)

	// GetByProviderID retrieves a subscription by its external ID.
	GetByProviderID(ctx context.Context, providerID string) (billing.Subscription, error)

	// Create stores a new subscription.
	Create(ctx context.Context, sub billing.Subscription) error

	// Update modifies a subscription.
	Update(ctx context.Context, sub billing.Subscription) error
}

// PaymentProvider interfaces with the payment processor (Stripe).
type PaymentProvider interface {
	// Name returns the provider name (e.g., "stripe").
	Name() string

	// CreateCustomer creates a customer in the payment system.
	CreateCustomer(ctx context.Context, email, name, userID string) (customerID string, err error)

	// CreateCheckoutSession creates a checkout session for subscription.
	CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL string) (sessionURL string, err error)

	// CreatePortalSession creates a customer portal session.
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (portalURL string, err error)

	// ParseWebhook parses and validates an incoming webhook.
	// Returns the event type and payload.
	ParseWebhook(payload []byte, signature string) (eventType string, data map[string]any, err error)
}

// PaymentWebhookHandler handles payment provider webhook events.
type PaymentWebhookHandler interface {
	// HandleCheckoutCompleted handles successful checkout.
	HandleCheckoutCompleted(ctx context.Context, customerID, subscriptionID, priceID string) error

	// HandleSubscriptionUpdated handles subscription status changes.
	HandleSubscriptionUpdated(ctx context.Context, subscriptionID string, status billing.SubscriptionStatus) error

	// HandleSubscriptionCanceled handles subscription cancellation.
	HandleSubscriptionCanceled(ctx context.Context, subscriptionID string) error
}

// -----------------------------------------------------------------------------
// Validator Ports
// -----------------------------------------------------------------------------

// StepVerdict is one analysis step of a validator run.
type StepVerdict struct {
	Step    string `json:"step"`
	Score   int    `json:"score"` // 0-100
	Summary string `json:"summary"`
}

// ValidationResult is the structured output of the external validator.
type ValidationResult struct {
	Idea     string        `json:"idea"`
	Verdicts []StepVerdict `json:"verdicts"`
	Overall  int           `json:"overall"` // 0-100
}

// IdeaValidator calls the external LLM-backed validation endpoint.
// The prompt/response internals are opaque to this service.
type IdeaValidator interface {
	Validate(ctx context.Context, idea string, steps []string) (ValidationResult, error)
}
