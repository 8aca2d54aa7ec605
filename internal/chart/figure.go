// Package chart builds the figure descriptions rendered by the dashboard page
// and renders line figures to PNG on the server.
package chart

// Figure kinds.
const (
	KindChoropleth = "choropleth"
	KindLine       = "line"
)

// Location modes of a choropleth.
const (
	LocationISO3         = "ISO-3"
	LocationCountryNames = "country names"
	LocationGeoJSON      = "geojson-id"
)

// Figure is a chart description independent of the plotting library.
type Figure struct {
	Kind   string    `json:"kind"`
	Title  string    `json:"title"`
	XAxis  Axis      `json:"x_axis"`
	YAxis  Axis      `json:"y_axis"`
	Series []Series  `json:"series,omitempty"`
	Map    *Map      `json:"map,omitempty"`
	VLines []float64 `json:"vlines,omitempty"`
	Empty  bool      `json:"empty,omitempty"`
}

// Axis is an axis title with an optional fixed range.
type Axis struct {
	Title string      `json:"title,omitempty"`
	Range *[2]float64 `json:"range,omitempty"`
}

// Series is one trace of a line figure. Mode follows the "lines+markers" vocabulary.
type Series struct {
	Name   string    `json:"name"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
	Mode   string    `json:"mode"`
	Color  string    `json:"color,omitempty"`
	Legend bool      `json:"legend"`
}

// Map is the data of a choropleth.
type Map struct {
	LocationMode string      `json:"location_mode"`
	FeatureIDKey string      `json:"feature_id_key,omitempty"`
	GeoJSONURL   string      `json:"geojson_url,omitempty"`
	Locations    []string    `json:"locations"`
	Names        []string    `json:"names"`
	Values       []float64   `json:"values"`
	Hover        []HoverData `json:"hover,omitempty"`
	ColorScale   string      `json:"color_scale"`
	Range        *[2]float64 `json:"range,omitempty"`
	ValueLabel   string      `json:"value_label"`
	Projection   string      `json:"projection,omitempty"`
	FitBounds    bool        `json:"fit_bounds,omitempty"`
	LatRange     *[2]float64 `json:"lat_range,omitempty"`
}

// HoverData holds extra labelled values shown for one location.
type HoverData map[string]float64

func span(lo, hi float64) *[2]float64 { return &[2]float64{lo, hi} }
