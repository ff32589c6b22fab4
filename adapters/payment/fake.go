package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/nicheshunter/nicheshunter/ports"
)

// FakeProvider is an in-memory payment provider for tests and local
// development. It hands out deterministic IDs and URLs and records the
// webhooks it is asked to parse.
type FakeProvider struct {
	mu        sync.Mutex
	customers int

	// WebhookEvent, when set, is returned by ParseWebhook regardless of
	// payload. Zero value means ParseWebhook fails like an invalid signature.
	WebhookEvent string
	WebhookData  map[string]any

	CreatedCustomers []string
}

// NewFakeProvider creates a new fake payment provider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{}
}

var _ ports.PaymentProvider = (*FakeProvider)(nil)

// Name returns the provider name.
func (p *FakeProvider) Name() string {
	return "fake"
}

// CreateCustomer returns a deterministic customer ID.
func (p *FakeProvider) CreateCustomer(ctx context.Context, email, name, userID string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.customers++
	id := fmt.Sprintf("cus_fake_%03d", p.customers)
	p.CreatedCustomers = append(p.CreatedCustomers, id)
	return id, nil
}

// CreateCheckoutSession returns a fake checkout URL.
func (p *FakeProvider) CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL string) (string, error) {
	return "https://checkout.fake.test/session?customer=" + customerID + "&price=" + priceID, nil
}

// CreatePortalSession returns a fake portal URL.
func (p *FakeProvider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	return "https://portal.fake.test/session?customer=" + customerID, nil
}

// ParseWebhook returns the configured event, or an error when none is set.
func (p *FakeProvider) ParseWebhook(payload []byte, signature string) (string, map[string]any, error) {
	if p.WebhookEvent == "" {
		return "", nil, fmt.Errorf("webhook signature verification failed")
	}
	return p.WebhookEvent, p.WebhookData, nil
}
