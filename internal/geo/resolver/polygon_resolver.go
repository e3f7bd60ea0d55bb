package resolver

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/taxengine/internal/domain"
	"github.com/sells-group/taxengine/internal/geo/geometry"
)

const polygonProviderName = "polygon"

// PolygonResolver answers resolve calls by point-in-polygon testing against
// a GeoJSON file of county polygons, loaded once and held for the process
// lifetime. It performs no I/O beyond that first load, so it never touches
// the geocode cache store.
type PolygonResolver struct {
	path string

	once    sync.Once
	loadErr error
	fc      *geojson.FeatureCollection
}

// NewPolygonResolver constructs a resolver backed by the GeoJSON file at
// path. The file is not read until the first call to Resolve.
func NewPolygonResolver(path string) *PolygonResolver {
	return &PolygonResolver{path: path}
}

func (r *PolygonResolver) ProviderName() string { return polygonProviderName }

func (r *PolygonResolver) ensureLoaded() (*geojson.FeatureCollection, error) {
	r.once.Do(func() {
		data, err := os.ReadFile(r.path)
		if err != nil {
			r.loadErr = fmt.Errorf("polygon resolver: read %s: %w", r.path, err)
			return
		}

		fc, err := geometry.DecodeFeatureCollection(data)
		if err != nil {
			r.loadErr = fmt.Errorf("polygon resolver: decode %s: %w", r.path, err)
			return
		}

		r.fc = fc
	})

	return r.fc, r.loadErr
}

// Resolve performs a point-in-polygon lookup. On a miss it returns
// state="Out of State", county="" rather than an error.
func (r *PolygonResolver) Resolve(_ context.Context, lat, lon float64) (*domain.GeocodeResult, error) {
	fc, err := r.ensureLoaded()
	if err != nil {
		return nil, err
	}

	feature, err := geometry.FindContainingFeature(lon, lat, fc)
	if err != nil {
		return nil, err
	}

	result := &domain.GeocodeResult{
		Provider:   polygonProviderName,
		LatRounded: quantize(lat),
		LonRounded: quantize(lon),
	}

	if feature == nil {
		result.State = "Out of State"
		result.County = ""
		return result, nil
	}

	name, _ := feature.Properties["name"].(string)
	result.State = "New York"
	result.County = NormalizeCounty(name, "")
	return result, nil
}
