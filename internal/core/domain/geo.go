package domain

import (
	"fmt"
	"math"
)

// GeoPoint represents a geographic coordinate in decimal degrees (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Validate reports whether the point lies inside the valid latitude/longitude ranges.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return fmt.Errorf("%w: coordinates must be numbers", ErrInvalid)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90, got %g", ErrInvalid, p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180, got %g", ErrInvalid, p.Lon)
	}
	return nil
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"minLatitude"`
	MinLon float64 `json:"minLongitude"`
	MaxLat float64 `json:"maxLatitude"`
	MaxLon float64 `json:"maxLongitude"`
}

// Contains reports whether p lies inside the box, edges included.
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}
