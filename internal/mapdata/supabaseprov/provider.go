package supabaseprov

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/mapdata/provider"
)

// SupabaseProvider implements EntityProvider against the shared Supabase
// tables via PostgREST. This is the default feed: the import scripts land
// vendor data there and the API reads it per state.
type SupabaseProvider struct {
	client *supabase.Client
}

// Ensure SupabaseProvider implements EntityProvider.
var _ provider.EntityProvider = (*SupabaseProvider)(nil)

// init registers the Supabase provider in the provider registry.
func init() {
	provider.RegisterProvider(provider.ProviderSupabase, func(cfg provider.Config) (provider.EntityProvider, error) {
		return NewProvider(cfg.SupabaseURL, cfg.SupabaseKey)
	})
}

// NewProvider creates a Supabase-backed entity feed.
func NewProvider(url, serviceKey string) (*SupabaseProvider, error) {
	client, err := supabase.NewClient(url, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("init supabase client: %w", err)
	}
	return &SupabaseProvider{client: client}, nil
}

// Name returns the provider name for logging purposes.
func (p *SupabaseProvider) Name() string {
	return "supabase"
}

// FetchAHJs fetches permitting jurisdictions for one state.
func (p *SupabaseProvider) FetchAHJs(ctx context.Context, state string) ([]provider.NormalizedAHJ, error) {
	start := time.Now()
	provider.LogRequest("supabase", "GET", "ahjs", map[string]interface{}{"state": state})

	data, _, err := p.client.From("ahjs").
		Select("*", "exact", false).
		Eq("state", state).
		Execute()
	if err != nil {
		provider.LogError("supabase", "fetch ahjs", err)
		return nil, fmt.Errorf("supabase fetch ahjs: %w", err)
	}

	var rows []ahjRow
	if err := json.Unmarshal(data, &rows); err != nil {
		provider.LogError("supabase", "decode ahjs", err)
		return nil, fmt.Errorf("decode ahjs: %w", err)
	}

	out := make([]provider.NormalizedAHJ, 0, len(rows))
	for _, row := range rows {
		out = append(out, ahjToNormalized(row))
	}

	provider.LogTransform("supabase", len(rows), len(out), time.Since(start))
	return out, nil
}

// FetchUtilities fetches electric utilities for one state.
func (p *SupabaseProvider) FetchUtilities(ctx context.Context, state string) ([]provider.NormalizedUtility, error) {
	start := time.Now()
	provider.LogRequest("supabase", "GET", "utilities", map[string]interface{}{"state": state})

	data, _, err := p.client.From("utilities").
		Select("*", "exact", false).
		Eq("state", state).
		Execute()
	if err != nil {
		provider.LogError("supabase", "fetch utilities", err)
		return nil, fmt.Errorf("supabase fetch utilities: %w", err)
	}

	var rows []utilityRow
	if err := json.Unmarshal(data, &rows); err != nil {
		provider.LogError("supabase", "decode utilities", err)
		return nil, fmt.Errorf("decode utilities: %w", err)
	}

	out := make([]provider.NormalizedUtility, 0, len(rows))
	for _, row := range rows {
		out = append(out, utilityToNormalized(row))
	}

	provider.LogTransform("supabase", len(rows), len(out), time.Since(start))
	return out, nil
}

// HealthCheck verifies the PostgREST endpoint answers with a minimal read.
func (p *SupabaseProvider) HealthCheck(ctx context.Context) error {
	_, _, err := p.client.From("ahjs").
		Select("id", "exact", false).
		Limit(1, "").
		Execute()
	if err != nil {
		return fmt.Errorf("supabase health check: %w", err)
	}
	return nil
}
