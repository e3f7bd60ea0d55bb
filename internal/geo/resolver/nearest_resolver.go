package resolver

import (
	"context"
	"math"

	"github.com/sells-group/taxengine/internal/domain"
)

const nearestProviderName = "nearest"

// Place is one entry in a NearestResolver's static dataset.
type Place struct {
	Name     string
	State    string
	County   string
	Locality string
	Lat      float64
	Lon      float64
}

// NearestResolver answers resolve calls with the nearest labeled place in a
// static dataset, by great-circle distance. It performs no I/O.
type NearestResolver struct {
	places []Place
}

// NewNearestResolver constructs a resolver over the given static dataset.
func NewNearestResolver(places []Place) *NearestResolver {
	return &NearestResolver{places: places}
}

func (r *NearestResolver) ProviderName() string { return nearestProviderName }

// Resolve returns the nearest dataset entry's jurisdiction fields. When the
// dataset entry carries no county (common for large-city subdivisions), the
// county is derived from its locality via the borough fallback table.
func (r *NearestResolver) Resolve(_ context.Context, lat, lon float64) (*domain.GeocodeResult, error) {
	result := &domain.GeocodeResult{
		Provider:   nearestProviderName,
		LatRounded: quantize(lat),
		LonRounded: quantize(lon),
	}

	if len(r.places) == 0 {
		result.State = "Out of State"
		return result, nil
	}

	best := r.places[0]
	bestDist := haversineKm(lat, lon, best.Lat, best.Lon)

	for _, p := range r.places[1:] {
		d := haversineKm(lat, lon, p.Lat, p.Lon)
		if d < bestDist {
			bestDist = d
			best = p
		}
	}

	result.State = best.State
	result.County = best.County
	result.Locality = best.Locality
	if result.County == "" {
		result.County = NormalizeCounty("", best.Locality)
	}

	return result, nil
}

const earthRadiusKm = 6371.0

// haversineKm computes the great-circle distance in kilometers between two
// lat/lon points given in degrees.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
