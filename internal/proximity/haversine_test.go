package proximity

import (
	"math"
	"testing"
)

// withinMiles fails the test when got is more than tol miles away from want.
func withinMiles(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("distance = %.4f miles, want %.4f (±%.2f)", got, want, tol)
	}
}

// TestHaversineMiles_IdenticalPoints verifies zero distance for a point
// compared with itself, including negative and extreme coordinates.
func TestHaversineMiles_IdenticalPoints(t *testing.T) {
	points := []Point{
		{Lat: 0, Lng: 0},
		{Lat: 40.0, Lng: -105.0},
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 89.9, Lng: 179.9},
	}
	for _, p := range points {
		if d := HaversineMiles(p.Lat, p.Lng, p.Lat, p.Lng); d != 0 {
			t.Errorf("HaversineMiles(%v, %v) with itself = %v, want 0", p.Lat, p.Lng, d)
		}
	}
}

// TestHaversineMiles_Symmetric verifies the distance does not depend on
// argument order.
func TestHaversineMiles_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{40.0, -105.0, 40.3, -104.8},
		{33.4484, -112.0740, 39.7392, -104.9903},
		{-12.05, -77.05, 51.5, -0.12},
	}
	for _, p := range pairs {
		ab := HaversineMiles(p[0], p[1], p[2], p[3])
		ba := HaversineMiles(p[2], p[3], p[0], p[1])
		if ab != ba {
			t.Errorf("HaversineMiles not symmetric: %v vs %v", ab, ba)
		}
	}
}

// TestHaversineMiles_OneDegreeLatitude verifies one degree of latitude at a
// fixed longitude comes out near 69 miles.
func TestHaversineMiles_OneDegreeLatitude(t *testing.T) {
	d := HaversineMiles(40.0, -105.0, 41.0, -105.0)
	withinMiles(t, d, 69.0, 2.0)
}

// TestHaversineMiles_KnownDistance checks a metro-scale pair against the
// figure the formula produces for it (Phoenix to Denver, ~586 miles).
func TestHaversineMiles_KnownDistance(t *testing.T) {
	d := HaversineMiles(33.4484, -112.0740, 39.7392, -104.9903)
	withinMiles(t, d, 586.0, 6.0)
}
