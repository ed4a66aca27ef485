package ahjregistry

import (
	"context"
	"time"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/mapdata/provider"
)

// RegistryProvider implements the EntityProvider interface using the AHJ
// Registry API. The registry only covers permitting jurisdictions, so the
// utility side of the interface reports an empty feed and utility rows keep
// whatever the last full sync wrote.
type RegistryProvider struct {
	client *Client
}

// Ensure RegistryProvider implements EntityProvider.
var _ provider.EntityProvider = (*RegistryProvider)(nil)

// init registers the AHJ Registry provider in the provider registry.
func init() {
	provider.RegisterProvider(provider.ProviderAHJRegistry, func(cfg provider.Config) (provider.EntityProvider, error) {
		return NewProvider(cfg.RegistryKey, cfg.RegistryEndpoint), nil
	})
}

// NewProvider creates a new RegistryProvider with the given API key and
// endpoint.
func NewProvider(apiKey, endpoint string) *RegistryProvider {
	return &RegistryProvider{
		client: NewClient(apiKey, endpoint),
	}
}

// Name returns the provider name.
func (p *RegistryProvider) Name() string {
	return "ahjregistry"
}

// FetchAHJs fetches and normalizes every jurisdiction for a state.
func (p *RegistryProvider) FetchAHJs(ctx context.Context, state string) ([]provider.NormalizedAHJ, error) {
	start := time.Now()

	records, err := p.client.FetchAHJsByState(ctx, state)
	if err != nil {
		return nil, err
	}

	result := TransformBatch(records)
	provider.LogTransform("ahjregistry", len(records), len(result), time.Since(start))

	return result, nil
}

// FetchUtilities reports an empty feed; the registry has no utility data.
func (p *RegistryProvider) FetchUtilities(ctx context.Context, state string) ([]provider.NormalizedUtility, error) {
	provider.LogRequest("ahjregistry", "SKIP", "utilities", map[string]interface{}{"state": state})
	return []provider.NormalizedUtility{}, nil
}

// HealthCheck verifies the provider can connect to the registry.
func (p *RegistryProvider) HealthCheck(ctx context.Context) error {
	return p.client.HealthCheck(ctx)
}
