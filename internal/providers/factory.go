package providers

import (
	"fmt"
	"strings"
)

// CreateStore creates an ObjectStore based on the configuration.
func CreateStore(cfg *StoreConfig) (ObjectStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("store config cannot be nil")
	}

	providerType := ProviderType(strings.ToLower(string(cfg.Provider)))

	switch providerType {
	case ProviderAWS:
		return NewAWSProvider(cfg)
	case ProviderMinIO:
		return NewMinIOProvider(cfg)
	case ProviderCloudflare:
		// Cloudflare R2 is S3-compatible, use the AWS provider with a custom endpoint.
		if cfg.Region == "" {
			cfg.Region = "auto"
		}
		cfg.PathStyle = true
		return NewAWSProvider(cfg)
	case ProviderDigitalOcean:
		// DigitalOcean Spaces is S3-compatible.
		if cfg.Region == "" {
			cfg.Region = "nyc3"
		}
		return NewAWSProvider(cfg)
	case ProviderWasabi:
		// Wasabi is S3-compatible.
		if cfg.Region == "" {
			cfg.Region = "us-east-1"
		}
		return NewAWSProvider(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrProviderNotSupported, cfg.Provider)
	}
}

// SupportedProviders returns the list of supported provider types.
func SupportedProviders() []ProviderType {
	return []ProviderType{
		ProviderAWS,
		ProviderMinIO,
		ProviderCloudflare,
		ProviderDigitalOcean,
		ProviderWasabi,
	}
}

// IsProviderSupported checks if a provider type is supported.
func IsProviderSupported(providerType ProviderType) bool {
	for _, p := range SupportedProviders() {
		if p == ProviderType(strings.ToLower(string(providerType))) {
			return true
		}
	}
	return false
}
