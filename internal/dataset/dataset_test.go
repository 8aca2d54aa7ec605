package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/hpvdash/internal/table"
)

func mustCSV(t *testing.T, s string, delim rune) *table.Table {
	t.Helper()
	tb, err := table.ReadCSV(strings.NewReader(s), table.CSVOptions{Delimiter: delim})
	require.NoError(t, err)
	return tb
}

func TestCancersQuery(t *testing.T) {
	files := []CancerFile{
		{Cancer: "penis", Metric: "incidence", Table: mustCSV(t, "Population,ASR (World)\nFrance,0.9\nPeru,n/a\n", 0)},
		{Cancer: "penis", Metric: "mortalite", Table: mustCSV(t, "Population,ASR (World)\nFrance,0.2\n", 0)},
		{Cancer: "col", Metric: "incidence", Table: mustCSV(t, "Population,ASR (World)\nChile,11.2\n", 0)},
	}
	c, err := BuildCancers(files)
	require.NoError(t, err)

	m := c.Query("penis", "incidence")
	assert.Equal(t, "Incidence of Penis cancer", m.Title)
	require.Len(t, m.Values, 2)
	assert.Equal(t, 0.0, m.Values[1].Value)

	assert.Equal(t, "Mortalite of Penis cancer", c.Query("penis", "mortalite").Title)
	empty := c.Query("col", "mortalite")
	assert.Equal(t, "No data available", empty.Title)
	assert.Empty(t, empty.Values)

	assert.Equal(t, []Option{{Value: "penis", Label: "Penis Cancer"}, {Value: "col", Label: "Cervical Cancer"}}, c.Options())

	_, err = BuildCancers([]CancerFile{{Cancer: "anus", Metric: "incidence", Table: mustCSV(t, "Country,Rate\n", 0)}})
	assert.ErrorIs(t, err, ErrMissingColumn)
}

const worldCoverage = `Entity;Code;Year;_3_b_1__sh_acs_hpv
France;FRA;2021;40
France;FRA;2022;50
Peru;PER;2022;80
World;OWID_WRL;2022;30
Africa;;2022;10
Chile;CHL;2022;
`

func TestCoverage(t *testing.T) {
	c, err := BuildCoverage(mustCSV(t, worldCoverage, ';'))
	require.NoError(t, err)

	assert.Equal(t, []int{2021, 2022}, c.Years())
	assert.Equal(t, []Country{{"Chile", "CHL"}, {"France", "FRA"}, {"Peru", "PER"}}, c.Countries)

	m := c.Map(2021)
	assert.Equal(t, "HPV Vaccination Rates for Girls (Year 2021)", m.Title)
	assert.Equal(t, [2]float64{0, 100}, m.Range)
	assert.Equal(t, []LocationValue{
		{Location: "CHL", Name: "Chile", Value: 0},
		{Location: "FRA", Name: "France", Value: 40},
		{Location: "PER", Name: "Peru", Value: 0},
	}, m.Values)

	missing := c.Map(1999)
	assert.Equal(t, "No data available for Year 1999", missing.Title)
	assert.Empty(t, missing.Values)

	trend := c.Trend()
	require.Len(t, trend, 2)
	assert.InDelta(t, 40.0/3, trend[0].Value, 1e-9)
	assert.InDelta(t, 130.0/3, trend[1].Value, 1e-9)

	assert.Equal(t, 2022, c.DefaultYear())
	assert.Equal(t, 2022, c.NextYear(2021))
	assert.Equal(t, 2021, c.NextYear(2022))
	assert.Len(t, c.Rows(), 6)
}

const introCSV = `Entity,Code,Year,intro__description_hpv__human_papilloma_virus__vaccine
Rwanda,RWA,2011,Entire country
Australia,AUS,2007,Entire country
France,FRA,2007,Entire country
Australia,AUS,2011,Entire country
Canada,CAN,2008,Partially
Peru,PER,n/a,Entire country
`

func TestIntroductions(t *testing.T) {
	in, err := BuildIntroductions(mustCSV(t, introCSV, 0))
	require.NoError(t, err)

	assert.Equal(t, []int{2007, 2011}, in.Years())
	assert.Equal(t, []string{"Australia", "France", "Rwanda"}, in.Countries())
	assert.Equal(t, []string{"Rwanda"}, in.NewIn(2011))
	assert.Equal(t, []string{"Australia", "Rwanda"}, in.CountriesIn(2011))
	assert.Equal(t, []YearValue{{2007, 2}, {2011, 3}}, in.Cumulative(2000, 2025))
	assert.Equal(t, []YearValue{{2011, 3}}, in.Cumulative(2010, 2025))
	assert.Empty(t, in.Cumulative(2020, 2025))

	mk, ok := in.Marker("Rwanda")
	require.True(t, ok)
	assert.Equal(t, CountryMarker{Country: "Rwanda", Year: 2011, Total: 3}, mk)
	_, ok = in.Marker("Canada")
	assert.False(t, ok)

	assert.Equal(t, "Click on a point to see the list of new countries.", in.Message(nil))
	y := 2007
	assert.Equal(t, "Year 2007: Australia, France", in.Message(&y))
	y = 2009
	assert.Equal(t, "No new countries introduced HPV vaccination in 2009.", in.Message(&y))
}

const screeningCSV = `code,libelle,pop,inc,glob,a,b,c,d,e,f,g,h
84,Auvergne et Rhône-Alpes,8000000,5.1,58.2,50,60,61,62,63,64,65,40
93,Paca,5000000,6.0,55.0,50,60,61,62,63,64,65,40
`

func TestScreening(t *testing.T) {
	s, err := BuildScreening(mustCSV(t, screeningCSV, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"Auvergne-Rhône-Alpes", "Provence-Alpes-Côte d'Azur"}, s.Regions())

	m, err := s.Map("")
	require.NoError(t, err)
	assert.Equal(t, "depistage_global", m.Metric)
	assert.Equal(t, "Screening rate", m.ValueLabel)
	assert.InDelta(t, 58.2, m.Regions[0].Value, 1e-9)
	assert.InDelta(t, 8000000, m.Regions[0].Population, 1e-9)

	m, err = s.Map("soixantaine")
	require.NoError(t, err)
	assert.Equal(t, "60-65 years", m.Label)

	_, err = s.Map("depistage")
	assert.ErrorIs(t, err, ErrUnknownMetric)

	_, err = BuildScreening(mustCSV(t, "a,b\n1,2\n", 0))
	assert.Error(t, err)
}

const boysCSV = "\"Année de\nnaissance\";2005;2006;2007;note\nBretagne;;12,5;20;x\nGrand-Est;3;9;14;y\n"

func TestRegionalCoverage(t *testing.T) {
	rc, err := BuildRegionalCoverage(mustCSV(t, boysCSV, ';'), "garcon")
	require.NoError(t, err)
	assert.Equal(t, Boys, rc.Sex)
	assert.Equal(t, []string{"Bretagne", "Grand Est"}, rc.Regions())

	opts, def := rc.YearOptions()
	assert.Equal(t, []Option{{Value: "2006", Label: "2022"}, {Value: "2007", Label: "2023"}}, opts)
	assert.Equal(t, "2006", def)

	m := rc.Map("1990")
	assert.Equal(t, "2005", m.Cohort)
	assert.Equal(t, "2021", m.Label)
	assert.Equal(t, [2]float64{0, 60}, m.Range)
	assert.Equal(t, 0.0, m.Regions[0].Value)

	ev, err := rc.Evolution("Bretagne")
	require.NoError(t, err)
	assert.Equal(t, []YearValue{{2021, 0}, {2022, 12.5}, {2023, 20}}, ev)

	girls, err := BuildRegionalCoverage(mustCSV(t, boysCSV, ';'), "anything")
	require.NoError(t, err)
	opts, _ = girls.YearOptions()
	assert.Len(t, opts, 4)
}

func TestCleanCoverageSheet(t *testing.T) {
	grid := [][]string{
		{"Couverture vaccinale HPV 2023"},
		{"", "Année de\nnaissance", "2005.0", "2006.0"},
		{"1", "Ile de France", "10,5", ""},
		{"2", "  Hauts-de-  France\n", "7", "9"},
		{"3", "Provence-Alpes-Côte d’Azur", "8", "x"},
		{"", "Source : SNDS"},
	}
	tb, err := CleanCoverageSheet(grid)
	require.NoError(t, err)
	assert.Equal(t, []string{"Région", "2005", "2006"}, tb.Header)
	assert.Equal(t, [][]string{
		{"Île-de-France", "10.5", "0"},
		{"Hauts-de-France", "7", "9"},
		{"Provence-Alpes-Côte d'Azur", "8", "0"},
	}, tb.Rows)

	_, err = CleanCoverageSheet([][]string{{"a"}})
	assert.ErrorIs(t, err, ErrEmptySheet)

	// Short rows are padded and every cohort column is coerced.
	tb, err = CleanCoverageSheet([][]string{
		{"", "Région", "2005", "2006", "2007"},
		{"", "Corse", "4,5", "n.d."},
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Corse", "4.5", "0", "0"}}, tb.Rows)
}

func TestRegions(t *testing.T) {
	assert.Equal(t, "Centre-Val de Loire", CanonicalRegion(" Centre "))
	assert.Equal(t, "Bretagne", CanonicalRegion("Bretagne"))
	// decomposed e + combining acute
	assert.Equal(t, "Bourgogne-Franche-Comté", CanonicalRegion("Bourgogne et Franche-Comte\u0301"))

	unknown := UnknownRegions([]string{"Bretagne", "Atlantis", "Atlantis", ""}, []string{"Bretagne", "Corse"})
	assert.Equal(t, []string{"Atlantis"}, unknown)
}

func TestOrgans(t *testing.T) {
	all := Organs()
	require.Len(t, all, 4)
	o, ok := OrganByID("oropharynx")
	require.True(t, ok)
	assert.Equal(t, "Upper Aerodigestive Tract", o.Title)
	assert.Len(t, o.Facts, 3)
	assert.Equal(t, FactsSource, o.Source)
	_, ok = OrganByID("liver")
	assert.False(t, ok)
}
