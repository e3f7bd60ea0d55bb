package geometry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/taxengine/internal/geo/geometry"
)

func square(minLon, minLat, maxLon, maxLat float64) []geometry.Point {
	return []geometry.Point{
		{Lon: minLon, Lat: minLat},
		{Lon: maxLon, Lat: minLat},
		{Lon: maxLon, Lat: maxLat},
		{Lon: minLon, Lat: maxLat},
		{Lon: minLon, Lat: minLat},
	}
}

func TestPointInRing_InteriorAndExterior(t *testing.T) {
	ring := square(0, 0, 10, 10)

	assert.True(t, geometry.PointInRing(geometry.Point{Lon: 5, Lat: 5}, ring))
	assert.False(t, geometry.PointInRing(geometry.Point{Lon: 20, Lat: 20}, ring))
	assert.False(t, geometry.PointInRing(geometry.Point{Lon: -1, Lat: 5}, ring))
}

func TestPointInPolygon_HoleExcluded(t *testing.T) {
	exterior := square(0, 0, 10, 10)
	hole := square(3, 3, 6, 6)
	rings := [][]geometry.Point{exterior, hole}

	assert.True(t, geometry.PointInPolygon(geometry.Point{Lon: 1, Lat: 1}, rings), "outside the hole, inside exterior")
	assert.False(t, geometry.PointInPolygon(geometry.Point{Lon: 4, Lat: 4}, rings), "inside the hole")
	assert.False(t, geometry.PointInPolygon(geometry.Point{Lon: 20, Lat: 20}, rings), "outside everything")
}

func TestPointInMultiPolygon_Disjunction(t *testing.T) {
	polyA := [][]geometry.Point{square(0, 0, 5, 5)}
	polyB := [][]geometry.Point{square(10, 10, 15, 15)}
	multi := [][][]geometry.Point{polyA, polyB}

	assert.True(t, geometry.PointInMultiPolygon(geometry.Point{Lon: 2, Lat: 2}, multi))
	assert.True(t, geometry.PointInMultiPolygon(geometry.Point{Lon: 12, Lat: 12}, multi))
	assert.False(t, geometry.PointInMultiPolygon(geometry.Point{Lon: 7, Lat: 7}, multi))
}

func TestFindContainingFeature(t *testing.T) {
	raw := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {"name": "Kings"},
				"geometry": {
					"type": "Polygon",
					"coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]
				}
			},
			{
				"type": "Feature",
				"properties": {"name": "Queens"},
				"geometry": {
					"type": "Polygon",
					"coordinates": [[[20,20],[30,20],[30,30],[20,30],[20,20]]]
				}
			}
		]
	}`)

	fc, err := geometry.DecodeFeatureCollection(raw)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	feature, err := geometry.FindContainingFeature(5, 5, fc)
	require.NoError(t, err)
	require.NotNil(t, feature)
	assert.Equal(t, "Kings", feature.Properties["name"])

	feature, err = geometry.FindContainingFeature(25, 25, fc)
	require.NoError(t, err)
	require.NotNil(t, feature)
	assert.Equal(t, "Queens", feature.Properties["name"])

	feature, err = geometry.FindContainingFeature(100, 100, fc)
	require.NoError(t, err)
	assert.Nil(t, feature)
}
