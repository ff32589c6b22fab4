package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/nicheshunter/nicheshunter/adapters/metrics"
	"github.com/nicheshunter/nicheshunter/domain/entitlement"
	"github.com/nicheshunter/nicheshunter/ports"
)

// CheckoutService starts checkout and billing portal sessions. The actual
// subscription lifecycle is owned by the payment provider; state lands in
// our stores via webhooks, never from redirect query parameters.
type CheckoutService struct {
	users    ports.UserStore
	provider ports.PaymentProvider
	priceID  string
	baseURL  string
	metrics  *metrics.Collector
	logger   zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	users ports.UserStore,
	provider ports.PaymentProvider,
	priceID, baseURL string,
	m *metrics.Collector,
	logger zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		users:    users,
		provider: provider,
		priceID:  priceID,
		baseURL:  baseURL,
		metrics:  m,
		logger:   logger,
	}
}

// StartCheckout creates a checkout session for the signed-in user,
// lazily creating the provider customer on first use.
func (s *CheckoutService) StartCheckout(ctx context.Context, id entitlement.Identity) (string, error) {
	if id.IsAnonymous() {
		return "", ErrUnauthenticated
	}

	u, err := s.users.Get(ctx, id.UserID)
	if errors.Is(err, ports.ErrNotFound) {
		return "", ErrUnauthenticated
	}
	if err != nil {
		return "", err
	}

	if u.StripeCustomerID == "" {
		customerID, err := s.provider.CreateCustomer(ctx, u.Email, u.Name, u.ID)
		if err != nil {
			return "", err
		}
		u.StripeCustomerID = customerID
		if err := s.users.Update(ctx, u); err != nil {
			return "", err
		}
		s.logger.Info().Str("user_id", u.ID).Str("customer_id", customerID).Msg("payment customer created")
	}

	url, err := s.provider.CreateCheckoutSession(ctx, u.StripeCustomerID, s.priceID,
		s.baseURL+"/checkout/success", s.baseURL+"/checkout/cancel")
	if err != nil {
		return "", err
	}

	if s.metrics != nil {
		s.metrics.CheckoutSessions.Inc()
	}
	return url, nil
}

// StartPortal creates a billing portal session for a user with an existing
// provider customer.
func (s *CheckoutService) StartPortal(ctx context.Context, id entitlement.Identity) (string, error) {
	if id.IsAnonymous() {
		return "", ErrUnauthenticated
	}

	u, err := s.users.Get(ctx, id.UserID)
	if errors.Is(err, ports.ErrNotFound) {
		return "", ErrUnauthenticated
	}
	if err != nil {
		return "", err
	}
	if u.StripeCustomerID == "" {
		return "", ErrNotFound
	}

	return s.provider.CreatePortalSession(ctx, u.StripeCustomerID, s.baseURL+"/account")
}
