package geospatial

import (
	"math"
	"testing"

	"go.uber.org/goleak"

	"github.com/samirrijal/trailhead/internal/core/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var seattle = domain.GeoPoint{Lat: 47.6062, Lon: -122.3321}

func TestDistanceMiles_SamePointIsZero(t *testing.T) {
	points := []domain.GeoPoint{
		seattle,
		{Lat: 0, Lon: 0},
		{Lat: 90, Lon: 0},
		{Lat: -90, Lon: 180},
		{Lat: -33.8688, Lon: 151.2093},
	}
	for _, p := range points {
		if d := DistanceMiles(p, p); d != 0 {
			t.Errorf("DistanceMiles(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceMiles_Symmetric(t *testing.T) {
	pairs := [][2]domain.GeoPoint{
		{seattle, {Lat: 46.88, Lon: -121.7269}},
		{{Lat: 51.5074, Lon: -0.1278}, {Lat: 40.7128, Lon: -74.006}},
		{{Lat: -89.9, Lon: 10}, {Lat: 89.9, Lon: -170}},
	}
	for _, p := range pairs {
		ab := DistanceMiles(p[0], p[1])
		ba := DistanceMiles(p[1], p[0])
		if ab != ba {
			t.Errorf("asymmetric distance: %v vs %v", ab, ba)
		}
	}
}

func TestDistanceMiles_Bounded(t *testing.T) {
	antipodal := DistanceMiles(domain.GeoPoint{Lat: 0, Lon: 0}, domain.GeoPoint{Lat: 0, Lon: 180})
	if antipodal != 12436.9 {
		t.Errorf("antipodal distance = %v, want 12436.9", antipodal)
	}

	for lat := -90.0; lat <= 90; lat += 15 {
		for lon := -180.0; lon <= 180; lon += 30 {
			d := DistanceMiles(seattle, domain.GeoPoint{Lat: lat, Lon: lon})
			if d < 0 || d > 12450 {
				t.Errorf("distance to (%v,%v) = %v out of [0, 12450]", lat, lon, d)
			}
		}
	}
}

func TestDistanceMiles_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		to   domain.GeoPoint
		want float64
	}{
		{"Alki Beach", domain.GeoPoint{Lat: 47.5812, Lon: -122.4061}, 3.9},
		{"Vertical World", domain.GeoPoint{Lat: 47.6615, Lon: -122.3794}, 4.4},
		{"Discovery Park", domain.GeoPoint{Lat: 47.6614, Lon: -122.4055}, 5.1},
		{"Carkeek Park", domain.GeoPoint{Lat: 47.7129, Lon: -122.3779}, 7.7},
		{"Tiger Mountain", domain.GeoPoint{Lat: 47.4924, Lon: -121.9452}, 19.7},
		{"Mount Rainier", domain.GeoPoint{Lat: 46.88, Lon: -121.7269}, 57.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DistanceMiles(seattle, tt.to); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistanceMiles_OneDegreeOfLongitudeAtEquator(t *testing.T) {
	got := DistanceMiles(domain.GeoPoint{Lat: 0, Lon: 0}, domain.GeoPoint{Lat: 0, Lon: 1})
	if got != 69.1 {
		t.Errorf("got %v, want 69.1", got)
	}
}

func TestDistanceMiles_NaNPropagates(t *testing.T) {
	d := DistanceMiles(domain.GeoPoint{Lat: math.NaN(), Lon: 0}, seattle)
	if !math.IsNaN(d) {
		t.Errorf("expected NaN, got %v", d)
	}
}

func TestRoundTenth(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{3.8565, 3.9},
		{4.41, 4.4},
		{0.25, 0.3},
		{0.04, 0},
		{-0.25, -0.3},
		{12.0, 12.0},
	}
	for _, tt := range tests {
		if got := RoundTenth(tt.in); got != tt.want {
			t.Errorf("RoundTenth(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBoundingBox_ContainsPointsWithinRadius(t *testing.T) {
	radius := 10.0
	box := BoundingBox(seattle, radius)

	inside := []domain.GeoPoint{
		{Lat: 47.5812, Lon: -122.4061},
		{Lat: 47.6615, Lon: -122.3794},
		{Lat: 47.7129, Lon: -122.3779},
	}
	for _, p := range inside {
		if !box.Contains(p) {
			t.Errorf("box %+v should contain %v", box, p)
		}
	}
	if box.Contains(domain.GeoPoint{Lat: 46.88, Lon: -121.7269}) {
		t.Error("box should not contain Mount Rainier")
	}
}

func TestBoundingBox_PolarCapSpansAllLongitudes(t *testing.T) {
	box := BoundingBox(domain.GeoPoint{Lat: 89.95, Lon: 20}, 50)
	if box.MinLon != -180 || box.MaxLon != 180 {
		t.Errorf("expected full longitude span near the pole, got %+v", box)
	}
	if box.MaxLat != 90 {
		t.Errorf("expected MaxLat clamped to 90, got %v", box.MaxLat)
	}
}

func TestBoundingBox_AntimeridianWidensToFullSpan(t *testing.T) {
	box := BoundingBox(domain.GeoPoint{Lat: 0, Lon: 179.9}, 50)
	if !box.Contains(domain.GeoPoint{Lat: 0, Lon: -179.9}) {
		t.Errorf("box %+v should reach across the antimeridian", box)
	}
}
