package proximity

import "sort"

// Grid defaults. One degree of latitude is roughly 69 miles, so the default
// near window is a 3x3 block of ~69-mile cells centered on the origin.
const (
	DefaultCellSize   = 1.0
	DefaultNearWindow = 1
)

// Ranker produces distance-sorted views of an entity collection.
//
// CellSize is the grid bucket size in degrees. NearWindow is the number of
// cell rings around the origin's cell whose entities get exact haversine
// distances; entities in any cell outside that window are scored against
// their cell's center instead of their true position. The cutoff is a
// locality heuristic that keeps exact distance math off the long tail of the
// collection. An entity just outside the window can land slightly out of
// true-distance order; that is the accepted trade, not something to correct
// here.
type Ranker struct {
	CellSize   float64
	NearWindow int
}

// NewRanker returns a Ranker using the default 1-degree grid and 3x3 window.
func NewRanker() Ranker {
	return Ranker{CellSize: DefaultCellSize, NearWindow: DefaultNearWindow}
}

func (r Ranker) cellSize() float64 {
	if r.CellSize > 0 {
		return r.CellSize
	}
	return DefaultCellSize
}

func (r Ranker) window() int {
	if r.NearWindow > 0 {
		return r.NearWindow
	}
	return DefaultNearWindow
}

// CellOf returns the grid cell containing p under this ranker's cell size.
func (r Ranker) CellOf(p Point) CellKey {
	return cellFor(p.Lat, p.Lng, r.cellSize())
}

// Window lists the near-set cells around center, row-major. Entities inside
// these cells receive exact distances during ranking.
func (r Ranker) Window(center CellKey) []CellKey {
	w := r.window()
	keys := make([]CellKey, 0, (2*w+1)*(2*w+1))
	for dr := -w; dr <= w; dr++ {
		for dc := -w; dc <= w; dc++ {
			keys = append(keys, CellKey{Col: center.Col + dc, Row: center.Row + dr})
		}
	}
	return keys
}

// RankByProximity returns a copy of entities where every coordinate-bearing
// entity carries a fresh distance from origin, sorted ascending by distance.
// Entities without usable coordinates keep Unranked and land at the end.
// Ties keep their input order.
//
// A nil origin means ranking is skipped entirely: the input is returned as
// is, distances untouched. An empty collection ranks to itself.
func (r Ranker) RankByProximity(origin *Point, entities []Entity) []Entity {
	if origin == nil || len(entities) == 0 {
		return entities
	}

	ranked := make([]Entity, len(entities))
	copy(ranked, entities)
	for i := range ranked {
		ranked[i].DistanceMiles = Unranked
	}

	size := r.cellSize()
	index := buildIndex(ranked, size)

	near := make(map[CellKey]struct{})
	for _, key := range r.Window(cellFor(origin.Lat, origin.Lng, size)) {
		near[key] = struct{}{}
	}

	for key, members := range index {
		if _, ok := near[key]; ok {
			for _, i := range members {
				ranked[i].DistanceMiles = HaversineMiles(origin.Lat, origin.Lng, ranked[i].Lat, ranked[i].Lng)
			}
			continue
		}
		// One distance per far cell, shared by everything bucketed in it.
		cLat, cLng := key.center(size)
		approx := HaversineMiles(origin.Lat, origin.Lng, cLat, cLng)
		for _, i := range members {
			ranked[i].DistanceMiles = approx
		}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].DistanceMiles < ranked[b].DistanceMiles
	})
	return ranked
}
