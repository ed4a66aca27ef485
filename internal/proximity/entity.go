// Package proximity ranks map entities by distance from an origin point.
// It is pure in-memory computation: callers fetch and normalize entities
// elsewhere, hand them in with an optional origin, and get back a
// distance-sorted view.
package proximity

import "math"

// Kind classifies a map entity. Upstream feeds occasionally send values
// outside this set; normalization maps anything unrecognized to KindUnknown.
type Kind string

const (
	KindAHJ     Kind = "ahj"
	KindUtility Kind = "utility"
	KindProject Kind = "project"
	KindUnknown Kind = "unknown"
)

// ParseKind maps a raw classification string onto a known Kind.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindAHJ, KindUtility, KindProject:
		return Kind(s)
	}
	return KindUnknown
}

// Unranked is the distance of an entity that has never been ranked. It is
// the maximum float so unranked entities always sort after ranked ones.
const Unranked = math.MaxFloat64

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point is inside coordinate range and is not the
// exact (0,0) pair some feeds write when a location is missing.
func (p Point) Valid() bool {
	if p.Lat == 0 && p.Lng == 0 {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Entity is one rankable map row (an AHJ, a utility, or a sales project)
// after vendor payloads have been normalized. Lat/Lng may both be zero when
// the upstream row carried no usable location; such entities are skipped by
// the spatial index and keep the Unranked distance.
type Entity struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Kind          Kind    `json:"kind"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	DistanceMiles float64 `json:"distance_miles"`
}

// HasCoordinates reports whether the entity carries a usable location.
// Out-of-range values count as missing, not as errors.
func (e Entity) HasCoordinates() bool {
	return Point{Lat: e.Lat, Lng: e.Lng}.Valid()
}
