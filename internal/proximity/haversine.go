package proximity

import "math"

// EarthRadiusMiles is the mean Earth radius used for all distance math here.
const EarthRadiusMiles = 3958.8

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}

// HaversineMiles returns the great-circle distance in miles between two
// latitude/longitude points given in degrees. Identical points yield 0.
// Inputs are not range-checked; callers validate coordinates before ranking.
func HaversineMiles(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(lat1))*math.Cos(degreesToRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMiles * c
}
