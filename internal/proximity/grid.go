package proximity

import "math"

// CellKey identifies one fixed-size bucket on the equirectangular degree
// grid. Col comes from longitude, Row from latitude. Keys are derived per
// ranking pass and never persisted.
type CellKey struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

func cellFor(lat, lng, cellSize float64) CellKey {
	return CellKey{
		Col: int(math.Floor(lng / cellSize)),
		Row: int(math.Floor(lat / cellSize)),
	}
}

// center returns the midpoint of the cell in degrees.
func (k CellKey) center(cellSize float64) (lat, lng float64) {
	lat = (float64(k.Row) + 0.5) * cellSize
	lng = (float64(k.Col) + 0.5) * cellSize
	return lat, lng
}

// buildIndex groups coordinate-bearing entities by grid cell, keyed to their
// positions in the slice. Entities without usable coordinates are left out
// and stay unranked downstream. The grid is a locality heuristic on raw
// degrees; no correction is made for longitude convergence near the poles.
func buildIndex(entities []Entity, cellSize float64) map[CellKey][]int {
	index := make(map[CellKey][]int)
	for i, e := range entities {
		if !e.HasCoordinates() {
			continue
		}
		key := cellFor(e.Lat, e.Lng, cellSize)
		index[key] = append(index[key], i)
	}
	return index
}
