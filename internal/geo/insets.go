package geo

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DefaultNameProperty is the feature property holding the region name in the
// France regions GeoJSON.
const DefaultNameProperty = "nom"

// DefaultInsetDim is the side, in degrees, of the box an overseas region is fitted into.
const DefaultInsetDim = 2.0

// Inset describes where a region is moved and how large it is drawn.
type Inset struct {
	Center orb.Point `json:"center"`
	Dim    float64   `json:"dim"`
}

// DefaultInsets stacks the five overseas regions in a column west of Brittany.
func DefaultInsets() map[string]Inset {
	return map[string]Inset{
		"Guadeloupe": {Center: orb.Point{-8, 49}, Dim: DefaultInsetDim},
		"Martinique": {Center: orb.Point{-8, 47}, Dim: DefaultInsetDim},
		"Guyane":     {Center: orb.Point{-8, 45}, Dim: DefaultInsetDim},
		"La Réunion": {Center: orb.Point{-8, 43}, Dim: DefaultInsetDim},
		"Mayotte":    {Center: orb.Point{-8, 41}, Dim: DefaultInsetDim},
	}
}

// InsetsFromConfig builds insets from "name: [lon, lat]" pairs. Entries with a wrong
// arity are rejected.
func InsetsFromConfig(centers map[string][]float64, dim float64) (map[string]Inset, error) {
	if dim <= 0 {
		dim = DefaultInsetDim
	}
	out := make(map[string]Inset, len(centers))
	for name, c := range centers {
		if len(c) != 2 {
			return nil, fmt.Errorf("inset %q: want [lon, lat], got %d values", name, len(c))
		}
		out[name] = Inset{Center: orb.Point{c[0], c[1]}, Dim: dim}
	}
	return out, nil
}

// LoadFeatureCollection decodes a GeoJSON FeatureCollection.
func LoadFeatureCollection(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}
	return fc, nil
}

// MarshalFeatureCollection encodes fc as GeoJSON.
func MarshalFeatureCollection(fc *geojson.FeatureCollection) ([]byte, error) {
	return fc.MarshalJSON()
}

// FeatureName returns the string value of prop on f, or "" when absent.
func FeatureName(f *geojson.Feature, prop string) string {
	if f == nil || f.Properties == nil {
		return ""
	}
	s, _ := f.Properties[prop].(string)
	return s
}

// Reposition fits every feature named in insets into its inset box. The collection
// is modified in place; callers that need the original keep a copy. It returns the
// names that were moved, sorted.
func Reposition(fc *geojson.FeatureCollection, insets map[string]Inset, nameProp string) ([]string, error) {
	if nameProp == "" {
		nameProp = DefaultNameProperty
	}
	var moved []string
	for _, f := range fc.Features {
		name := FeatureName(f, nameProp)
		in, ok := insets[name]
		if !ok {
			continue
		}
		g, err := FitInset(f.Geometry, in.Dim, in.Center)
		if err != nil {
			return nil, fmt.Errorf("reposition %s: %w", name, err)
		}
		f.Geometry = g
		moved = append(moved, name)
	}
	sort.Strings(moved)
	return moved, nil
}

// Clone deep-copies a feature collection through its GeoJSON encoding.
func Clone(fc *geojson.FeatureCollection) (*geojson.FeatureCollection, error) {
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return LoadFeatureCollection(data)
}

// Names lists the values of prop over all features, in collection order.
func Names(fc *geojson.FeatureCollection, prop string) []string {
	if prop == "" {
		prop = DefaultNameProperty
	}
	out := make([]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		if n := FeatureName(f, prop); n != "" {
			out = append(out, n)
		}
	}
	return out
}
