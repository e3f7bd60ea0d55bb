// Package geometry implements point-in-polygon containment tests over
// GeoJSON geometry, decoded via github.com/twpayne/go-geom.
package geometry

import (
	"encoding/json"

	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Point is a raw [lon, lat] coordinate pair.
type Point struct {
	Lon float64
	Lat float64
}

// PointInRing reports whether point lies inside ring using the ray-casting
// parity test. The ring is an ordered sequence of [lon, lat] vertices and is
// treated as implicitly closed: the last vertex connects back to the first.
// A point exactly on a horizontal edge or vertex follows the standard
// half-open convention, so a point on a shared edge between two adjacent
// rings belongs to exactly one.
func PointInRing(p Point, ring []Point) bool {
	inside := false
	n := len(ring)
	if n < 3 {
		return false
	}

	j := n - 1
	for i := 0; i < n; i++ {
		p1 := ring[i]
		p2 := ring[j]

		if (p1.Lat > p.Lat) != (p2.Lat > p.Lat) {
			xCross := (p2.Lon-p1.Lon)*(p.Lat-p1.Lat)/(p2.Lat-p1.Lat) + p1.Lon
			if p.Lon < xCross {
				inside = !inside
			}
		}

		j = i
	}

	return inside
}

// PointInPolygon reports whether point lies inside a polygon made up of
// rings, where rings[0] is the exterior ring and rings[1:] are holes. The
// point is inside iff it is inside the exterior and not inside any hole.
func PointInPolygon(p Point, rings [][]Point) bool {
	if len(rings) == 0 {
		return false
	}

	if !PointInRing(p, rings[0]) {
		return false
	}

	for _, hole := range rings[1:] {
		if PointInRing(p, hole) {
			return false
		}
	}

	return true
}

// PointInMultiPolygon reports whether point lies inside any member polygon.
func PointInMultiPolygon(p Point, polygons [][][]Point) bool {
	for _, rings := range polygons {
		if PointInPolygon(p, rings) {
			return true
		}
	}

	return false
}

// FindContainingFeature scans fc in order and returns the first feature
// whose geometry (Polygon or MultiPolygon) contains the given (lon, lat).
// Features with other geometry types are skipped. Returns nil, nil when no
// feature contains the point.
func FindContainingFeature(lon, lat float64, fc *geojson.FeatureCollection) (*geojson.Feature, error) {
	p := Point{Lon: lon, Lat: lat}

	for _, feature := range fc.Features {
		switch g := feature.Geometry.(type) {
		case *geom.Polygon:
			if PointInPolygon(p, ringsFromPolygon(g)) {
				return feature, nil
			}
		case *geom.MultiPolygon:
			if PointInMultiPolygon(p, polygonsFromMultiPolygon(g)) {
				return feature, nil
			}
		default:
			continue
		}
	}

	return nil, nil
}

// ringsFromPolygon flattens a geom.Polygon's linear rings into raw point
// slices, dropping the closing duplicate vertex go-geom otherwise keeps.
func ringsFromPolygon(poly *geom.Polygon) [][]Point {
	rings := make([][]Point, poly.NumLinearRings())
	for i := 0; i < poly.NumLinearRings(); i++ {
		rings[i] = pointsFromRing(poly.LinearRing(i))
	}
	return rings
}

func polygonsFromMultiPolygon(mp *geom.MultiPolygon) [][][]Point {
	polys := make([][][]Point, mp.NumPolygons())
	for i := 0; i < mp.NumPolygons(); i++ {
		polys[i] = ringsFromPolygon(mp.Polygon(i))
	}
	return polys
}

func pointsFromRing(ring *geom.LinearRing) []Point {
	n := ring.NumCoords()
	if n == 0 {
		return nil
	}

	// GeoJSON rings repeat the first vertex as the last to close the loop;
	// PointInRing already treats the ring as implicitly closed, so the
	// trailing duplicate is dropped here.
	last := n - 1
	if c0, cn := ring.Coord(0), ring.Coord(last); c0.X() == cn.X() && c0.Y() == cn.Y() {
		last--
	}

	pts := make([]Point, last+1)
	for i := 0; i <= last; i++ {
		c := ring.Coord(i)
		pts[i] = Point{Lon: c.X(), Lat: c.Y()}
	}
	return pts
}

// DecodeFeatureCollection parses raw GeoJSON bytes into a FeatureCollection.
func DecodeFeatureCollection(data []byte) (*geojson.FeatureCollection, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}
