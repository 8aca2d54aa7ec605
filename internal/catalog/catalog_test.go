package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := New("", "", nil)
	cancers := c.ByKind(KindCancer)
	assert.Len(t, cancers, 16)

	d, ok := c.Get("cancer-oral-cavite-mortalite")
	require.True(t, ok)
	assert.Equal(t, "oral_cavite", d.Cancer)
	assert.Equal(t, DefaultBaseURL+"/data/2_cancers/2_oral_cavite_mortalite.csv", c.URL(d))

	cov := c.ByKind(KindCoverage)
	require.Len(t, cov, 2)
	assert.Equal(t, "coverage-world", cov[0].ID)
	assert.Equal(t, ';', cov[0].Delimiter)
	assert.Equal(t, 1, cov[0].SkipRows)

	regions, _ := c.Get("france-regions")
	assert.Equal(t, DefaultRegionsURL, c.URL(regions))
}

func TestURLOverrides(t *testing.T) {
	c := New("http://mirror.local/", "", map[string]string{"introductions": "http://elsewhere/intro.csv"})
	d, _ := c.Get("introductions")
	assert.Equal(t, "http://elsewhere/intro.csv", c.URL(d))
	d, _ = c.Get("france-screening")
	assert.Equal(t, "http://mirror.local/data/5_france/depistage2023.csv", c.URL(d))
}

func TestSelect(t *testing.T) {
	c := New("", "", nil)

	all, err := c.Select(nil)
	require.NoError(t, err)
	for _, d := range all {
		assert.False(t, d.Upstream, d.ID)
	}

	got, err := c.Select([]string{"cancer-anus-*", "cancer-anus-incidence", "france-regions"})
	require.NoError(t, err)
	ids := make([]string, len(got))
	for i, d := range got {
		ids[i] = d.ID
	}
	assert.Equal(t, []string{"cancer-anus-incidence", "cancer-anus-mortalite", "france-regions"}, ids)

	_, err = c.Select([]string{"nope"})
	assert.Error(t, err)
}

func TestCancerLabel(t *testing.T) {
	assert.Equal(t, "Cervical Cancer", CancerLabel("col"))
	assert.Equal(t, "other", CancerLabel("other"))
}
