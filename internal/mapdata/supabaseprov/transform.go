package supabaseprov

import (
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/mapdata/provider"
)

// decodeLocation extracts lat/lng from a GeoJSON location column. Anything
// that isn't a decodable point comes back as (0,0), the shared "no
// coordinates" sentinel; bad locations are never an error here.
func decodeLocation(raw json.RawMessage) (lat, lng float64) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, 0
	}
	geom, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return 0, 0
	}
	point, ok := geom.Geometry().(orb.Point)
	if !ok {
		return 0, 0
	}
	return point.Lat(), point.Lon()
}

func ahjToNormalized(row ahjRow) provider.NormalizedAHJ {
	lat, lng := decodeLocation(row.Location)
	return provider.NormalizedAHJ{
		ExternalID:     row.ID,
		Name:           row.Name,
		Classification: provider.NormalizeClassification(row.Classification),
		County:         row.County,
		State:          row.State,
		Lat:            lat,
		Lng:            lng,
		Phone:          row.Phone,
		Website:        row.Website,
		PermitPortal:   row.PermitPortal,
		CountiesServed: row.CountiesServed,
		Requirements:   row.Requirements,
		TurnaroundDays: row.TurnaroundDays,
		Source:         "supabase",
	}
}

func utilityToNormalized(row utilityRow) provider.NormalizedUtility {
	lat, lng := decodeLocation(row.Location)
	return provider.NormalizedUtility{
		ExternalID:         row.ID,
		Name:               row.Name,
		Abbreviation:       row.Abbreviation,
		State:              row.State,
		Lat:                lat,
		Lng:                lng,
		ServiceCounties:    row.ServiceCounties,
		NetMetering:        row.NetMetering,
		InterconnectionURL: row.InterconnectionURL,
		Phone:              row.Phone,
		Source:             "supabase",
	}
}
