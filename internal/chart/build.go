package chart

import (
	"fmt"

	"github.com/KaramelBytes/hpvdash/internal/dataset"
)

// RegionsGeoJSONPath is where the server exposes the repositioned regions.
const RegionsGeoJSONPath = "/api/france/regions.geojson"

func worldMap(mode, scale, label string, values []dataset.LocationValue) *Map {
	m := &Map{
		LocationMode: mode,
		ColorScale:   scale,
		ValueLabel:   label,
		Projection:   "mercator",
		LatRange:     span(-35, 90),
		Locations:    make([]string, 0, len(values)),
		Names:        make([]string, 0, len(values)),
		Values:       make([]float64, 0, len(values)),
	}
	for _, v := range values {
		m.Locations = append(m.Locations, v.Location)
		m.Names = append(m.Names, v.Name)
		m.Values = append(m.Values, v.Value)
	}
	return m
}

// CancerChoropleth shades countries by age-standardized rate.
func CancerChoropleth(cm dataset.CancerMap) Figure {
	f := Figure{Kind: KindChoropleth, Title: cm.Title, Empty: len(cm.Values) == 0}
	f.Map = worldMap(LocationCountryNames, "Reds", "ASR (World)", cm.Values)
	return f
}

// CoverageChoropleth shades countries by vaccination rate on a 0..100 scale.
func CoverageChoropleth(cm dataset.CoverageMap) Figure {
	f := Figure{Kind: KindChoropleth, Title: cm.Title, Empty: len(cm.Values) == 0}
	f.Map = worldMap(LocationISO3, "Blues", "Vaccination Rate (%)", cm.Values)
	f.Map.Range = span(cm.Range[0], cm.Range[1])
	return f
}

// CoverageTimeline plots the global mean rate with a marker line at year.
func CoverageTimeline(trend []dataset.YearValue, year int) Figure {
	s := Series{Name: "Vaccination Rate (%)", Mode: "lines+markers", Color: "#2090c1"}
	for _, p := range trend {
		s.X = append(s.X, float64(p.Year))
		s.Y = append(s.Y, p.Value)
	}
	return Figure{
		Kind:   KindLine,
		Title:  "Global HPV Vaccination Rate Trends",
		XAxis:  Axis{Title: "Year"},
		YAxis:  Axis{Title: "Vaccination Rate (%)"},
		Series: []Series{s},
		VLines: []float64{float64(year)},
		Empty:  len(trend) == 0,
	}
}

// IntroductionsLine plots the cumulative number of countries, with an optional
// red marker for a selected country.
func IntroductionsLine(points []dataset.YearValue, marker *dataset.CountryMarker) Figure {
	s := Series{Name: "Total countries", Mode: "lines+markers", Color: "#2090c1"}
	for _, p := range points {
		s.X = append(s.X, float64(p.Year))
		s.Y = append(s.Y, p.Value)
	}
	f := Figure{
		Kind:   KindLine,
		Title:  "Countries introducing HPV vaccination",
		XAxis:  Axis{Title: "Year"},
		YAxis:  Axis{Title: "Total number of countries"},
		Series: []Series{s},
		Empty:  len(points) == 0,
	}
	if marker != nil {
		f.Series = append(f.Series, Series{
			Name:  fmt.Sprintf("%s introduced", marker.Country),
			X:     []float64{float64(marker.Year)},
			Y:     []float64{float64(marker.Total)},
			Mode:  "markers",
			Color: "red",
		})
	}
	return f
}

func regionMap(scale, label string) *Map {
	return &Map{
		LocationMode: LocationGeoJSON,
		FeatureIDKey: "properties.nom",
		GeoJSONURL:   RegionsGeoJSONPath,
		ColorScale:   scale,
		ValueLabel:   label,
		Projection:   "mercator",
		FitBounds:    true,
	}
}

// ScreeningChoropleth shades French regions by one screening indicator.
func ScreeningChoropleth(sm dataset.ScreeningMap) Figure {
	m := regionMap("Blues", sm.ValueLabel)
	for _, r := range sm.Regions {
		m.Locations = append(m.Locations, r.Region)
		m.Names = append(m.Names, r.Region)
		m.Values = append(m.Values, r.Value)
		m.Hover = append(m.Hover, HoverData{"Population": r.Population, "Incidence": r.Incidence})
	}
	return Figure{Kind: KindChoropleth, Title: sm.Label, Map: m, Empty: len(sm.Regions) == 0}
}

// RegionalChoropleth shades French regions by coverage on a 0..60 scale.
func RegionalChoropleth(rm dataset.RegionalMap) Figure {
	m := regionMap("Viridis", "Vaccination coverage (%)")
	m.Range = span(rm.Range[0], rm.Range[1])
	for _, r := range rm.Regions {
		m.Locations = append(m.Locations, r.Location)
		m.Names = append(m.Names, r.Name)
		m.Values = append(m.Values, r.Value)
	}
	return Figure{Kind: KindChoropleth, Title: rm.Label, Map: m, Empty: len(rm.Regions) == 0}
}

// RegionEvolution plots the coverage of one region over the years on a 0..100 scale.
func RegionEvolution(region string, points []dataset.YearValue) Figure {
	s := Series{Name: region, Mode: "lines", Color: "#2090c1"}
	for _, p := range points {
		s.X = append(s.X, float64(p.Year))
		s.Y = append(s.Y, p.Value)
	}
	return Figure{
		Kind:   KindLine,
		Title:  fmt.Sprintf("Evolution in %s", region),
		XAxis:  Axis{Title: "Year"},
		YAxis:  Axis{Title: "Percentage", Range: span(0, 100)},
		Series: []Series{s},
		Empty:  len(points) == 0,
	}
}

// PNGNames lists the figures that can be rendered by name.
var PNGNames = []string{"coverage-trend", "introductions"}

// IsNamed reports whether name is one of PNGNames.
func IsNamed(name string) bool {
	for _, n := range PNGNames {
		if n == name {
			return true
		}
	}
	return false
}

// Named builds a line figure by name from b. ok is false for unknown names or when
// the backing dataset is not loaded.
func Named(b *dataset.Bundle, name string) (Figure, bool) {
	switch name {
	case "coverage-trend":
		if b.Coverage == nil {
			return Figure{}, false
		}
		return CoverageTimeline(b.Coverage.Trend(), b.Coverage.DefaultYear()), true
	case "introductions":
		if b.Introductions == nil {
			return Figure{}, false
		}
		lo, hi := b.Introductions.Bounds()
		return IntroductionsLine(b.Introductions.Cumulative(lo, hi), nil), true
	}
	return Figure{}, false
}
