package geocode

import (
	"context"
	"os"
	"testing"
)

// TestCacheKey verifies address normalization: case and run-on whitespace
// must not produce distinct cache entries.
func TestCacheKey(t *testing.T) {
	a := cacheKey("123 Main St,  Salt Lake City, UT")
	b := cacheKey("123 main st, salt lake city, ut")

	if a != b {
		t.Errorf("cache keys differ: %q vs %q", a, b)
	}
	if a != "geocode:123 main st, salt lake city, ut" {
		t.Errorf("unexpected key format: %q", a)
	}
}

// TestNewGeocoder_NoKey verifies graceful degradation when the API key is
// absent: nil geocoder, nil error, and Lookup refuses cleanly.
func TestNewGeocoder_NoKey(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "")

	g, err := NewGeocoder()
	if err != nil {
		t.Fatalf("NewGeocoder failed: %v", err)
	}
	if g != nil {
		t.Fatal("expected nil geocoder without API key")
	}

	if _, err := g.Lookup(context.Background(), "anywhere"); err == nil {
		t.Error("nil geocoder Lookup should error, not panic or succeed")
	}
}

// TestGeocode hits the live API; requires GOOGLE_MAPS_API_KEY.
func TestGeocode(t *testing.T) {
	if os.Getenv("GOOGLE_MAPS_API_KEY") == "" {
		t.Skip("GOOGLE_MAPS_API_KEY not set")
	}

	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client == nil {
		t.Fatal("Expected non-nil client when API key is set")
	}

	result, err := client.Geocode(context.Background(), "350 State St, Salt Lake City, UT")
	if err != nil {
		t.Fatalf("Geocode error: %v", err)
	}

	if result.State != "UT" {
		t.Errorf("Expected state UT, got %s", result.State)
	}
	if result.Lat == 0 && result.Lng == 0 {
		t.Error("Expected non-zero coordinates")
	}
}
