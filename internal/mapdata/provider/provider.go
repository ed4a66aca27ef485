package provider

import (
	"context"
	"errors"
	"fmt"
)

// Common errors
var (
	ErrMissingSupabaseURL = errors.New("SUPABASE_URL environment variable is required for supabase provider")
	ErrMissingSupabaseKey = errors.New("SUPABASE_SERVICE_KEY environment variable is required for supabase provider")
	ErrMissingRegistryKey = errors.New("AHJ_REGISTRY_KEY environment variable is required for ahjregistry provider")
	ErrUnknownProvider    = errors.New("unknown provider type")
)

// EntityProvider is the interface every map-entity feed must implement. It
// abstracts the differences between the shared Supabase tables, the AHJ
// Registry API, and any future feed.
type EntityProvider interface {
	// Name returns the provider name for logging purposes.
	Name() string

	// FetchAHJs fetches permitting jurisdictions for one state.
	FetchAHJs(ctx context.Context, state string) ([]NormalizedAHJ, error)

	// FetchUtilities fetches electric utilities for one state.
	FetchUtilities(ctx context.Context, state string) ([]NormalizedUtility, error)

	// HealthCheck verifies the provider can reach its data source.
	HealthCheck(ctx context.Context) error
}

// providerRegistry holds registered provider constructors. New providers
// register from init() in their own package without touching this file.
var providerRegistry = make(map[ProviderType]func(Config) (EntityProvider, error))

// RegisterProvider registers a provider constructor for a given provider type.
func RegisterProvider(providerType ProviderType, constructor func(Config) (EntityProvider, error)) {
	providerRegistry[providerType] = constructor
}

// NewProvider creates an EntityProvider from the configuration. It returns
// an error when the configuration is invalid or the provider is unknown.
func NewProvider(cfg Config) (EntityProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	constructor, ok := providerRegistry[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}

	return constructor(cfg)
}
