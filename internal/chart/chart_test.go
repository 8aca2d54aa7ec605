package chart

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/KaramelBytes/hpvdash/internal/dataset"
)

func TestCoverageChoropleth(t *testing.T) {
	f := CoverageChoropleth(dataset.CoverageMap{
		Year:   2022,
		Title:  "HPV Vaccination Rates for Girls (Year 2022)",
		Range:  [2]float64{0, 100},
		Values: []dataset.LocationValue{{Location: "FRA", Name: "France", Value: 50}},
	})
	require.NotNil(t, f.Map)
	assert.Equal(t, LocationISO3, f.Map.LocationMode)
	assert.Equal(t, &[2]float64{0, 100}, f.Map.Range)
	assert.Equal(t, []string{"FRA"}, f.Map.Locations)
	assert.False(t, f.Empty)

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"color_scale":"Blues"`)
}

func TestIntroductionsLineMarker(t *testing.T) {
	f := IntroductionsLine([]dataset.YearValue{{Year: 2007, Value: 2}, {Year: 2011, Value: 3}},
		&dataset.CountryMarker{Country: "Rwanda", Year: 2011, Total: 3})
	require.Len(t, f.Series, 2)
	assert.Equal(t, "Rwanda introduced", f.Series[1].Name)
	assert.Equal(t, []float64{3}, f.Series[1].Y)
}

func TestRegionalFigures(t *testing.T) {
	f := RegionalChoropleth(dataset.RegionalMap{Label: "2022", Range: [2]float64{0, 60},
		Regions: []dataset.LocationValue{{Location: "Bretagne", Name: "Bretagne", Value: 40}}})
	assert.Equal(t, "properties.nom", f.Map.FeatureIDKey)
	assert.Equal(t, RegionsGeoJSONPath, f.Map.GeoJSONURL)
	assert.Equal(t, &[2]float64{0, 60}, f.Map.Range)

	e := RegionEvolution("Bretagne", nil)
	assert.True(t, e.Empty)
	assert.Equal(t, "Evolution in Bretagne", e.Title)
	assert.Equal(t, &[2]float64{0, 100}, e.YAxis.Range)
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	f := CoverageTimeline([]dataset.YearValue{{Year: 2019, Value: 10}, {Year: 2020, Value: 14}, {Year: 2021, Value: 20}}, 2020)
	require.NoError(t, RenderPNG(&buf, f, 400, 200))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	buf.Reset()
	single := IntroductionsLine([]dataset.YearValue{{Year: 2007, Value: 2}}, nil)
	require.NoError(t, RenderPNG(&buf, single, 0, 0))

	assert.ErrorIs(t, RenderPNG(&buf, Figure{Kind: KindChoropleth}, 0, 0), ErrNotLine)
	assert.Error(t, RenderPNG(&buf, CoverageTimeline(nil, 2020), 0, 0))
}

func TestVLineSeries(t *testing.T) {
	f := CoverageTimeline([]dataset.YearValue{{Year: 2019, Value: 10}, {Year: 2021, Value: 20}}, 2020)
	vl := vlineSeries(f)
	require.Len(t, vl, 1)
	cs := vl[0].(gochart.ContinuousSeries)
	assert.Equal(t, []float64{2020, 2020}, cs.XValues)
	assert.Equal(t, []float64{10, 20}, cs.YValues)

	f.YAxis.Range = &[2]float64{0, 100}
	assert.Equal(t, []float64{0, 100}, vlineSeries(f)[0].(gochart.ContinuousSeries).YValues)

	f.VLines = nil
	assert.Empty(t, vlineSeries(f))
}

func TestNamed(t *testing.T) {
	_, ok := Named(&dataset.Bundle{}, "coverage-trend")
	assert.False(t, ok)
	assert.True(t, IsNamed("coverage-trend"))
	_, ok = Named(&dataset.Bundle{}, "nope")
	assert.False(t, ok)
	assert.False(t, IsNamed("nope"))
}
