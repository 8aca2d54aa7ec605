package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/hpvdash/internal/catalog"
	"github.com/KaramelBytes/hpvdash/internal/geo"
)

const regionsGeoJSON = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"code":"53","nom":"Bretagne"},"geometry":{"type":"Polygon","coordinates":[[[-5,47],[-1,47],[-1,49],[-5,49],[-5,47]]]}},
{"type":"Feature","properties":{"code":"02","nom":"Martinique"},"geometry":{"type":"Polygon","coordinates":[[[-61.2,14.4],[-60.8,14.4],[-60.8,14.9],[-61.2,14.9],[-61.2,14.4]]]}}
]}`

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestLoadBundle(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"2_anus_incidence.csv":          "Population,ASR (World)\nFrance,1.1\n",
		"3_HPV_vaccine_data.csv":        "header line\n" + worldCoverage,
		"introduction_hpv_vaccine.csv":  introCSV,
		"6_couverture_vaccinale_2023_garcons_nettoye.csv": "Région;2006;2007\nBretagne;10;12\nAtlantis;1;2\n",
		"regions.geojson":               regionsGeoJSON,
	})
	cat := catalog.New("", "", nil)
	b, err := LoadBundle(dir, cat, LoadOptions{})
	require.NoError(t, err)

	require.NotNil(t, b.Cancers)
	assert.Len(t, b.Cancers.Query("anus", "incidence").Values, 1)
	require.NotNil(t, b.Coverage)
	assert.Equal(t, []int{2021, 2022}, b.Coverage.Years())
	require.NotNil(t, b.Introductions)
	assert.Nil(t, b.Screening)
	assert.Nil(t, b.Girls)
	require.NotNil(t, b.Boys)
	assert.Same(t, b.Boys, b.RegionalCoverage("garcon"))
	assert.Nil(t, b.RegionalCoverage("fille"))

	require.NotNil(t, b.Regions)
	assert.Equal(t, []string{"Bretagne", "Martinique"}, b.RegionNames)
	bb, err := geo.BoundingBox(b.Regions.Features[1].Geometry)
	require.NoError(t, err)
	assert.InDelta(t, 47, bb.Center()[1], 1e-9)

	joined := strings.Join(b.Warnings, "\n")
	assert.Contains(t, joined, "cancer-anus-mortalite not cached")
	assert.Contains(t, joined, "France screening not cached")
	assert.Contains(t, joined, "regions not in GeoJSON: [Atlantis]")
}

func TestLoadBundleEmptyDir(t *testing.T) {
	b, err := LoadBundle(t.TempDir(), catalog.New("", "", nil), LoadOptions{})
	require.NoError(t, err)
	assert.Nil(t, b.Cancers)
	assert.Nil(t, b.Regions)
	assert.NotEmpty(t, b.Warnings)
}
