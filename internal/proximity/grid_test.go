package proximity

import "testing"

// TestCellFor_FloorsTowardNegativeInfinity verifies cell keys floor rather
// than truncate, so western longitudes and southern latitudes bucket
// consistently.
func TestCellFor_FloorsTowardNegativeInfinity(t *testing.T) {
	cases := []struct {
		lat, lng float64
		want     CellKey
	}{
		{40.3, -104.8, CellKey{Col: -105, Row: 40}},
		{40.0, -105.0, CellKey{Col: -105, Row: 40}},
		{-0.5, 0.5, CellKey{Col: 0, Row: -1}},
		{-33.8688, 151.2093, CellKey{Col: 151, Row: -34}},
		{0.0, -0.1, CellKey{Col: -1, Row: 0}},
	}
	for _, c := range cases {
		if got := cellFor(c.lat, c.lng, 1.0); got != c.want {
			t.Errorf("cellFor(%v, %v, 1.0) = %+v, want %+v", c.lat, c.lng, got, c.want)
		}
	}
}

// TestCellFor_RespectsCellSize verifies a coarser grid produces coarser keys.
func TestCellFor_RespectsCellSize(t *testing.T) {
	if got := cellFor(40.3, -104.8, 2.0); got != (CellKey{Col: -53, Row: 20}) {
		t.Errorf("cellFor with 2-degree cells = %+v, want {-53 20}", got)
	}
}

// TestCellCenter verifies the cell midpoint lands half a cell in from the
// key's corner.
func TestCellCenter(t *testing.T) {
	lat, lng := (CellKey{Col: -105, Row: 40}).center(1.0)
	if lat != 40.5 || lng != -104.5 {
		t.Errorf("center = (%v, %v), want (40.5, -104.5)", lat, lng)
	}

	lat, lng = (CellKey{Col: -1, Row: -1}).center(1.0)
	if lat != -0.5 || lng != -0.5 {
		t.Errorf("center = (%v, %v), want (-0.5, -0.5)", lat, lng)
	}
}

// TestBuildIndex_SkipsEntitiesWithoutCoordinates verifies that the zero
// sentinel and out-of-range values keep an entity out of the index while
// valid neighbors group into the same cell.
func TestBuildIndex_SkipsEntitiesWithoutCoordinates(t *testing.T) {
	entities := []Entity{
		{ID: "a", Lat: 40.2, Lng: -104.9},
		{ID: "b", Lat: 41.7, Lng: -103.2},
		{ID: "missing", Lat: 0, Lng: 0},
		{ID: "bad-lat", Lat: 95.0, Lng: -104.9},
		{ID: "bad-lng", Lat: 40.2, Lng: -190.0},
		{ID: "c", Lat: 40.3, Lng: -104.8},
	}

	index := buildIndex(entities, 1.0)

	if len(index) != 2 {
		t.Fatalf("index has %d cells, want 2", len(index))
	}
	got := index[CellKey{Col: -105, Row: 40}]
	if len(got) != 2 || entities[got[0]].ID != "a" || entities[got[1]].ID != "c" {
		t.Errorf("cell {-105 40} = %v, want [a c]", got)
	}
	if members := index[CellKey{Col: -104, Row: 41}]; len(members) != 1 || entities[members[0]].ID != "b" {
		t.Errorf("cell {-104 41} = %v, want [b]", members)
	}
}

// TestPointValid covers the range invariants and the (0,0) missing-data
// sentinel. A zero latitude or longitude on its own is still a real
// coordinate.
func TestPointValid(t *testing.T) {
	cases := []struct {
		p    Point
		want bool
	}{
		{Point{Lat: 0, Lng: 0}, false},
		{Point{Lat: 40.0, Lng: -105.0}, true},
		{Point{Lat: 0, Lng: 50.0}, true},
		{Point{Lat: -45.0, Lng: 0}, true},
		{Point{Lat: 90.0, Lng: 180.0}, true},
		{Point{Lat: -90.0, Lng: -180.0}, true},
		{Point{Lat: 90.1, Lng: 0}, false},
		{Point{Lat: 0, Lng: -180.1}, false},
		{Point{Lat: -91.0, Lng: 10.0}, false},
	}
	for _, c := range cases {
		if got := c.p.Valid(); got != c.want {
			t.Errorf("Point(%v, %v).Valid() = %v, want %v", c.p.Lat, c.p.Lng, got, c.want)
		}
	}
}
