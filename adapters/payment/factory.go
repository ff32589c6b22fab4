package payment

import (
	"fmt"

	"github.com/nicheshunter/nicheshunter/ports"
)

// NewProvider creates a payment provider by name.
func NewProvider(provider string, stripeCfg StripeConfig) (ports.PaymentProvider, error) {
	switch provider {
	case "stripe":
		if stripeCfg.SecretKey == "" {
			return nil, fmt.Errorf("stripe secret key is required")
		}
		return NewStripeProvider(stripeCfg), nil

	case "fake", "test":
		return NewFakeProvider(), nil

	case "none", "":
		return NewNoopProvider(), nil

	default:
		return nil, fmt.Errorf("unknown payment provider: %s", provider)
	}
}
