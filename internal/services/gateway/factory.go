package gateway

import (
	"fmt"

	"ticket-sales/internal/services/gateway/paystack"
)

// Factory creates gateway instances by provider type.
type Factory struct{}

// NewFactory creates a new gateway factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Create builds a gateway for the given provider and configuration.
func (f *Factory) Create(provider Provider, config interface{}) (Gateway, error) {
	switch provider {
	case ProviderPaystack:
		paystackConfig, ok := config.(*paystack.Config)
		if !ok {
			return nil, fmt.Errorf("invalid paystack config type, expected *paystack.Config")
		}
		return NewPaystackAdapter(paystackConfig)

	case ProviderFake:
		return NewFake(), nil

	default:
		return nil, fmt.Errorf("unsupported payment provider: %s", provider)
	}
}

// SupportedProviders returns the list of providers the factory can build.
func (f *Factory) SupportedProviders() []Provider {
	return []Provider{
		ProviderPaystack,
		ProviderFake,
	}
}
