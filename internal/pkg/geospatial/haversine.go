package geospatial

import (
	"math"

	"github.com/samirrijal/trailhead/internal/core/domain"
)

// EarthRadiusMiles is the mean Earth radius used for all distance calculations.
const EarthRadiusMiles = 3958.8

// DistanceMiles returns the great-circle distance between a and b in miles, rounded to one
// decimal place. Inputs are not validated; NaN propagates.
func DistanceMiles(a, b domain.GeoPoint) float64 {
	return RoundTenth(HaversineMiles(a.Lat, a.Lon, b.Lat, b.Lon))
}

// HaversineMiles calculates the unrounded great-circle distance in miles between two points.
func HaversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMiles * c
}

// RoundTenth rounds x to one decimal place, halves away from zero.
func RoundTenth(x float64) float64 {
	return math.Round(x*10) / 10
}

// BoundingBox returns a box that contains every point whose DistanceMiles from center is at
// most radiusMiles. Stores use it as a coarse prefilter; the exact check stays DistanceMiles.
func BoundingBox(center domain.GeoPoint, radiusMiles float64) domain.Bounds {
	// Half a tenth of padding keeps points whose rounded distance equals the radius inside.
	angular := (radiusMiles + 0.05) / EarthRadiusMiles
	latDelta := angular * 180 / math.Pi

	b := domain.Bounds{
		MinLat: center.Lat - latDelta,
		MaxLat: center.Lat + latDelta,
		MinLon: -180,
		MaxLon: 180,
	}
	if b.MinLat <= -90 || b.MaxLat >= 90 || angular >= math.Pi/2 {
		// The circle covers a pole: every longitude qualifies.
		b.MinLat = math.Max(b.MinLat, -90)
		b.MaxLat = math.Min(b.MaxLat, 90)
		return b
	}

	ratio := math.Sin(angular) / math.Cos(toRad(center.Lat))
	if ratio >= 1 {
		return b
	}
	lonDelta := math.Asin(ratio) * 180 / math.Pi
	if center.Lon-lonDelta < -180 || center.Lon+lonDelta > 180 {
		// TODO: split into two boxes at the antimeridian instead of widening to the full span.
		return b
	}
	b.MinLon = center.Lon - lonDelta
	b.MaxLon = center.Lon + lonDelta
	return b
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
