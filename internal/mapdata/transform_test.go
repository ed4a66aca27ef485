package mapdata

import (
	"testing"
	"time"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/mapdata/provider"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/proximity"
)

func TestSanitizeCoords(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
		wantLat  float64
		wantLng  float64
	}{
		{"valid", 40.76, -111.89, 40.76, -111.89},
		{"lat too high", 91, -111.89, 0, 0},
		{"lat too low", -91, -111.89, 0, 0},
		{"lng too high", 40.76, 181, 0, 0},
		{"lng too low", 40.76, -181, 0, 0},
		{"boundary ok", 90, 180, 90, 180},
		{"already zero", 0, 0, 0, 0},
	}
	for _, c := range cases {
		lat, lng := sanitizeCoords(c.lat, c.lng)
		if lat != c.wantLat || lng != c.wantLng {
			t.Errorf("%s: sanitizeCoords(%v, %v) = (%v, %v), want (%v, %v)",
				c.name, c.lat, c.lng, lat, lng, c.wantLat, c.wantLng)
		}
	}
}

func TestAHJFromNormalized(t *testing.T) {
	syncTime := time.Now()
	n := provider.NormalizedAHJ{
		ExternalID:     "reg-slc",
		Name:           "Salt Lake City",
		Classification: "City",
		County:         "Salt Lake",
		State:          "UT",
		Lat:            40.76,
		Lng:            -111.89,
		Source:         "ahjregistry",
	}

	row := ahjFromNormalized(n, syncTime)
	if row.ExternalID != "reg-slc" || row.Name != "Salt Lake City" {
		t.Errorf("Identity fields not carried over: %+v", row)
	}
	if row.Classification != "city" {
		t.Errorf("Expected normalized classification 'city', got %q", row.Classification)
	}
	if !row.LastSynced.Equal(syncTime) {
		t.Error("LastSynced should match the sync time")
	}

	// Garbage coordinates become the no-coordinates sentinel, not an error.
	n.Lat, n.Lng = 999, 999
	row = ahjFromNormalized(n, syncTime)
	if row.Lat != 0 || row.Lng != 0 {
		t.Errorf("Out-of-range coords should collapse to (0,0), got (%v, %v)", row.Lat, row.Lng)
	}
}

func TestToEntity(t *testing.T) {
	a := AHJ{Name: "Provo City", Lat: 40.23, Lng: -111.66}
	e := a.ToEntity()
	if e.Kind != proximity.KindAHJ {
		t.Errorf("Expected kind %q, got %q", proximity.KindAHJ, e.Kind)
	}
	if e.DistanceMiles != proximity.Unranked {
		t.Error("Fresh entity should carry the unranked sentinel distance")
	}
	if !e.HasCoordinates() {
		t.Error("Entity with real coords should report HasCoordinates")
	}

	u := Utility{Name: "Pending Co-op"}
	ue := u.ToEntity()
	if ue.Kind != proximity.KindUtility {
		t.Errorf("Expected kind %q, got %q", proximity.KindUtility, ue.Kind)
	}
	if ue.HasCoordinates() {
		t.Error("(0,0) row should report no coordinates")
	}
}
