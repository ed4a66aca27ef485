package provider

import (
	"os"
	"strings"
)

// ProviderType identifies which map-entity feed to use.
type ProviderType string

const (
	ProviderSupabase    ProviderType = "supabase"
	ProviderAHJRegistry ProviderType = "ahjregistry"
)

// Config holds configuration for the map-entity feed.
type Config struct {
	// Provider type: "supabase" or "ahjregistry"
	Provider ProviderType

	// Supabase-specific config
	SupabaseURL string
	SupabaseKey string

	// AHJ Registry-specific config
	RegistryKey      string
	RegistryEndpoint string
}

// DefaultRegistryEndpoint is the default AHJ Registry API base URL.
const DefaultRegistryEndpoint = "https://ahjregistry.sunspec.org/api/v1"

// LoadFromEnv loads feed configuration from environment variables.
//
// Environment variables:
//   - ENTITY_PROVIDER: "supabase" or "ahjregistry" (default: "supabase")
//   - SUPABASE_URL: project URL (required if using supabase)
//   - SUPABASE_SERVICE_KEY: service role key (required if using supabase)
//   - AHJ_REGISTRY_KEY: API key (required if using ahjregistry)
//   - AHJ_REGISTRY_ENDPOINT: base URL override (default: SunSpec registry)
func LoadFromEnv() Config {
	providerStr := strings.ToLower(strings.TrimSpace(os.Getenv("ENTITY_PROVIDER")))

	var provider ProviderType
	switch providerStr {
	case "ahjregistry":
		provider = ProviderAHJRegistry
	default:
		provider = ProviderSupabase
	}

	endpoint := strings.TrimSpace(os.Getenv("AHJ_REGISTRY_ENDPOINT"))
	if endpoint == "" {
		endpoint = DefaultRegistryEndpoint
	}

	return Config{
		Provider:         provider,
		SupabaseURL:      os.Getenv("SUPABASE_URL"),
		SupabaseKey:      os.Getenv("SUPABASE_SERVICE_KEY"),
		RegistryKey:      os.Getenv("AHJ_REGISTRY_KEY"),
		RegistryEndpoint: endpoint,
	}
}

// Validate checks that the configuration is valid for the selected provider.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderSupabase:
		if c.SupabaseURL == "" {
			return ErrMissingSupabaseURL
		}
		if c.SupabaseKey == "" {
			return ErrMissingSupabaseKey
		}
	case ProviderAHJRegistry:
		if c.RegistryKey == "" {
			return ErrMissingRegistryKey
		}
	}
	return nil
}
