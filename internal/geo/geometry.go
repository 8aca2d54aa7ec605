// Package geo repositions map polygons so that distant territories can be shown
// as insets next to a mainland choropleth.
//
// Geometries are orb.Polygon or orb.MultiPolygon values. Every transform
// returns a new geometry and leaves its input untouched.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

var (
	// ErrEmptyGeometry is returned when a geometry holds no coordinate.
	ErrEmptyGeometry = errors.New("geometry has no coordinates")
	// ErrUnsupportedGeometry is returned for anything other than Polygon and MultiPolygon.
	ErrUnsupportedGeometry = errors.New("unsupported geometry type")
)

// BoundingBox returns the min/max longitude and latitude over every ring of g.
func BoundingBox(g orb.Geometry) (orb.Bound, error) {
	b := orb.Bound{
		Min: orb.Point{math.Inf(1), math.Inf(1)},
		Max: orb.Point{math.Inf(-1), math.Inf(-1)},
	}
	n := 0
	err := eachPoint(g, func(p orb.Point) {
		n++
		b.Min[0] = math.Min(b.Min[0], p[0])
		b.Min[1] = math.Min(b.Min[1], p[1])
		b.Max[0] = math.Max(b.Max[0], p[0])
		b.Max[1] = math.Max(b.Max[1], p[1])
	})
	if err != nil {
		return orb.Bound{}, err
	}
	if n == 0 {
		return orb.Bound{}, ErrEmptyGeometry
	}
	return b, nil
}

// Translate shifts every point of g by (dLon, dLat).
func Translate(g orb.Geometry, dLon, dLat float64) (orb.Geometry, error) {
	return mapPoints(g, func(p orb.Point) orb.Point {
		return orb.Point{p[0] + dLon, p[1] + dLat}
	})
}

// Scale multiplies the distance of every point of g to center by factor.
func Scale(g orb.Geometry, factor float64, center orb.Point) (orb.Geometry, error) {
	return mapPoints(g, func(p orb.Point) orb.Point {
		return orb.Point{
			(p[0]-center[0])*factor + center[0],
			(p[1]-center[1])*factor + center[1],
		}
	})
}

// FitInset scales g about its bounding-box center so that the larger side of the
// box equals targetDim, then translates it so that the box center lands on target.
// A degenerate geometry (zero extent) is only translated.
func FitInset(g orb.Geometry, targetDim float64, target orb.Point) (orb.Geometry, error) {
	if targetDim <= 0 || math.IsNaN(targetDim) || math.IsInf(targetDim, 0) {
		return nil, fmt.Errorf("invalid target dimension %v", targetDim)
	}
	b, err := BoundingBox(g)
	if err != nil {
		return nil, err
	}
	factor := 1.0
	if cur := maxSide(b); cur > 0 {
		factor = targetDim / cur
	}
	scaled, err := Scale(g, factor, b.Center())
	if err != nil {
		return nil, err
	}
	sb, err := BoundingBox(scaled)
	if err != nil {
		return nil, err
	}
	c := sb.Center()
	return Translate(scaled, target[0]-c[0], target[1]-c[1])
}

func maxSide(b orb.Bound) float64 {
	return math.Max(b.Max[0]-b.Min[0], b.Max[1]-b.Min[1])
}

func eachPoint(g orb.Geometry, fn func(orb.Point)) error {
	switch v := g.(type) {
	case orb.Polygon:
		for _, ring := range v {
			for _, p := range ring {
				fn(p)
			}
		}
	case orb.MultiPolygon:
		for _, poly := range v {
			for _, ring := range poly {
				for _, p := range ring {
					fn(p)
				}
			}
		}
	case nil:
		return ErrEmptyGeometry
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedGeometry, g.GeoJSONType())
	}
	return nil
}

func mapPoints(g orb.Geometry, fn func(orb.Point) orb.Point) (orb.Geometry, error) {
	switch v := g.(type) {
	case orb.Polygon:
		return mapPolygon(v, fn), nil
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(v))
		for i, poly := range v {
			out[i] = mapPolygon(poly, fn)
		}
		return out, nil
	case nil:
		return nil, ErrEmptyGeometry
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, g.GeoJSONType())
	}
}

func mapPolygon(poly orb.Polygon, fn func(orb.Point) orb.Point) orb.Polygon {
	out := make(orb.Polygon, len(poly))
	for i, ring := range poly {
		r := make(orb.Ring, len(ring))
		for j, p := range ring {
			r[j] = fn(p)
		}
		out[i] = r
	}
	return out
}
