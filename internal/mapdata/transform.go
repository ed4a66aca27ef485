package mapdata

import (
	"time"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/mapdata/provider"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/proximity"
)

// sanitizeCoords collapses out-of-range pairs to the (0,0) "no coordinates"
// sentinel. Bad locations are data, not errors: the row still syncs, it just
// never ranks.
func sanitizeCoords(lat, lng float64) (float64, float64) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0
	}
	return lat, lng
}

// ahjFromNormalized converts a feed DTO into our database row.
func ahjFromNormalized(n provider.NormalizedAHJ, syncTime time.Time) AHJ {
	lat, lng := sanitizeCoords(n.Lat, n.Lng)
	return AHJ{
		ExternalID:     n.ExternalID,
		Name:           n.Name,
		Classification: provider.NormalizeClassification(n.Classification),
		County:         n.County,
		State:          n.State,
		Lat:            lat,
		Lng:            lng,
		Phone:          n.Phone,
		Website:        n.Website,
		PermitPortal:   n.PermitPortal,
		CountiesServed: n.CountiesServed,
		Requirements:   n.Requirements,
		TurnaroundDays: n.TurnaroundDays,
		Source:         n.Source,
		LastSynced:     syncTime,
	}
}

func utilityFromNormalized(n provider.NormalizedUtility, syncTime time.Time) Utility {
	lat, lng := sanitizeCoords(n.Lat, n.Lng)
	return Utility{
		ExternalID:         n.ExternalID,
		Name:               n.Name,
		Abbreviation:       n.Abbreviation,
		State:              n.State,
		Lat:                lat,
		Lng:                lng,
		ServiceCounties:    n.ServiceCounties,
		NetMetering:        n.NetMetering,
		InterconnectionURL: n.InterconnectionURL,
		Phone:              n.Phone,
		Source:             n.Source,
		LastSynced:         syncTime,
	}
}

// ToEntity lifts an AHJ row into the proximity core's shape.
func (a AHJ) ToEntity() proximity.Entity {
	return proximity.Entity{
		ID:            a.ID.String(),
		Name:          a.Name,
		Kind:          proximity.KindAHJ,
		Lat:           a.Lat,
		Lng:           a.Lng,
		DistanceMiles: proximity.Unranked,
	}
}

// ToEntity lifts a Utility row into the proximity core's shape.
func (u Utility) ToEntity() proximity.Entity {
	return proximity.Entity{
		ID:            u.ID.String(),
		Name:          u.Name,
		Kind:          proximity.KindUtility,
		Lat:           u.Lat,
		Lng:           u.Lng,
		DistanceMiles: proximity.Unranked,
	}
}
