package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/nicheshunter/nicheshunter/adapters/metrics"
	"github.com/nicheshunter/nicheshunter/domain/billing"
	"github.com/nicheshunter/nicheshunter/ports"
)

// PaymentWebhookService handles incoming webhooks from the payment
// provider. It implements ports.PaymentWebhookHandler. Webhooks are the
// only writer of subscription status; checkout redirects never are.
type PaymentWebhookService struct {
	users         ports.UserStore
	subscriptions ports.SubscriptionStore
	provider      ports.PaymentProvider
	idGen         ports.IDGenerator
	clock         ports.Clock
	metrics       *metrics.Collector
	logger        zerolog.Logger
}

// NewPaymentWebhookService creates a new payment webhook service.
func NewPaymentWebhookService(
	users ports.UserStore,
	subscriptions ports.SubscriptionStore,
	provider ports.PaymentProvider,
	idGen ports.IDGenerator,
	clock ports.Clock,
	m *metrics.Collector,
	logger zerolog.Logger,
) *PaymentWebhookService {
	return &PaymentWebhookService{
		users:         users,
		subscriptions: subscriptions,
		provider:      provider,
		idGen:         idGen,
		clock:         clock,
		metrics:       m,
		logger:        logger,
	}
}

var _ ports.PaymentWebhookHandler = (*PaymentWebhookService)(nil)

// ProviderName returns the configured payment provider's name.
func (s *PaymentWebhookService) ProviderName() string {
	return s.provider.Name()
}

// ErrBadSignature is returned for webhook deliveries that fail signature
// verification.
var ErrBadSignature = errors.New("webhook signature verification failed")

// ProcessWebhook verifies and dispatches one webhook delivery. Unhandled
// event types are acknowledged and skipped.
func (s *PaymentWebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) error {
	eventType, data, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		s.count("unknown", "bad_signature")
		s.logger.Warn().Err(err).Msg("webhook rejected")
		return ErrBadSignature
	}

	var handleErr error
	switch eventType {
	case "checkout.session.completed":
		customerID, _ := data["customer"].(string)
		subscriptionID, _ := data["subscription"].(string)
		priceID := extractPriceID(data)
		handleErr = s.HandleCheckoutCompleted(ctx, customerID, subscriptionID, priceID)

	case "customer.subscription.updated":
		subscriptionID, _ := data["id"].(string)
		rawStatus, _ := data["status"].(string)
		handleErr = s.HandleSubscriptionUpdated(ctx, subscriptionID, billing.MapProviderStatus(rawStatus))

	case "customer.subscription.deleted":
		subscriptionID, _ := data["id"].(string)
		handleErr = s.HandleSubscriptionCanceled(ctx, subscriptionID)

	case "invoice.paid":
		subscriptionID, _ := data["subscription"].(string)
		handleErr = s.HandleSubscriptionUpdated(ctx, subscriptionID, billing.StatusActive)

	case "invoice.payment_failed":
		subscriptionID, _ := data["subscription"].(string)
		handleErr = s.HandleSubscriptionUpdated(ctx, subscriptionID, billing.StatusPastDue)

	default:
		s.count(eventType, "skipped")
		s.logger.Debug().Str("event", eventType).Msg("webhook event ignored")
		return nil
	}

	if handleErr != nil {
		s.count(eventType, "error")
		return handleErr
	}
	s.count(eventType, "ok")
	return nil
}

// HandleCheckoutCompleted records the new subscription and flips the
// user's status to active.
func (s *PaymentWebhookService) HandleCheckoutCompleted(ctx context.Context, customerID, subscriptionID, priceID string) error {
	s.logger.Info().
		Str("customer_id", customerID).
		Str("subscription_id", subscriptionID).
		Msg("handling checkout completed webhook")

	user, err := s.users.GetByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.Error().Err(err).
			Str("customer_id", customerID).
			Msg("failed to find user for customer")
		return err
	}

	now := s.clock.Now().UTC()

	// Replays of the same delivery must not create a second record.
	if _, err := s.subscriptions.GetByProviderID(ctx, subscriptionID); err == nil {
		s.logger.Debug().Str("subscription_id", subscriptionID).Msg("subscription already recorded")
	} else if errors.Is(err, ports.ErrNotFound) {
		sub := billing.Subscription{
			ID:                 s.idGen.New(),
			UserID:             user.ID,
			ProviderID:         subscriptionID,
			ProviderCustomerID: customerID,
			PriceID:            priceID,
			Status:             billing.StatusActive,
			CurrentPeriodStart: now,
			CurrentPeriodEnd:   now.AddDate(0, 1, 0),
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := s.subscriptions.Create(ctx, sub); err != nil {
			s.logger.Error().Err(err).
				Str("subscription_id", subscriptionID).
				Msg("failed to create subscription")
			return err
		}
	} else {
		return err
	}

	user.Status = billing.StatusActive
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", user.ID).
			Msg("failed to activate user")
		return err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("subscription_id", subscriptionID).
		Msg("checkout completed, user activated")
	return nil
}

// HandleSubscriptionUpdated mirrors a provider-side status change into the
// subscription record and the user's entitlement status.
func (s *PaymentWebhookService) HandleSubscriptionUpdated(ctx context.Context, subscriptionID string, status billing.SubscriptionStatus) error {
	s.logger.Info().
		Str("subscription_id", subscriptionID).
		Str("status", string(status)).
		Msg("handling subscription updated webhook")

	sub, err := s.subscriptions.GetByProviderID(ctx, subscriptionID)
	if err != nil {
		s.logger.Error().Err(err).
			Str("subscription_id", subscriptionID).
			Msg("failed to find subscription")
		return err
	}

	now := s.clock.Now().UTC()
	sub.Status = status
	sub.UpdatedAt = now
	if err := s.subscriptions.Update(ctx, sub); err != nil {
		return err
	}

	return s.syncUserStatus(ctx, sub.UserID, status, now)
}

// HandleSubscriptionCanceled marks the subscription canceled and downgrades
// the user.
func (s *PaymentWebhookService) HandleSubscriptionCanceled(ctx context.Context, subscriptionID string) error {
	s.logger.Info().
		Str("subscription_id", subscriptionID).
		Msg("handling subscription canceled webhook")

	sub, err := s.subscriptions.GetByProviderID(ctx, subscriptionID)
	if err != nil {
		s.logger.Error().Err(err).
			Str("subscription_id", subscriptionID).
			Msg("failed to find subscription")
		return err
	}

	now := s.clock.Now().UTC()
	sub.Status = billing.StatusCanceled
	sub.CanceledAt = &now
	sub.UpdatedAt = now
	if err := s.subscriptions.Update(ctx, sub); err != nil {
		return err
	}

	return s.syncUserStatus(ctx, sub.UserID, billing.StatusCanceled, now)
}

func (s *PaymentWebhookService) syncUserStatus(ctx context.Context, userID string, status billing.SubscriptionStatus, now time.Time) error {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Msg("failed to get user for status sync")
		return err
	}

	user.Status = status
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Msg("failed to sync user status")
		return err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("status", string(status)).
		Msg("user entitlement status synced")
	return nil
}

func (s *PaymentWebhookService) count(eventType, outcome string) {
	if s.metrics != nil {
		s.metrics.WebhookEvents.WithLabelValues(eventType, outcome).Inc()
	}
}

// extractPriceID digs the price out of a checkout session payload when the
// expansion is present; absent expansions leave it empty.
func extractPriceID(data map[string]any) string {
	items, ok := data["line_items"].(map[string]any)
	if !ok {
		return ""
	}
	rows, ok := items["data"].([]any)
	if !ok || len(rows) == 0 {
		return ""
	}
	row, ok := rows[0].(map[string]any)
	if !ok {
		return ""
	}
	price, ok := row["price"].(map[string]any)
	if !ok {
		return ""
	}
	id, _ := price["id"].(string)
	return id
}
