package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/hpvdash/internal/table"
)

// CoverageColumn holds the share of girls who received the HPV vaccine.
const CoverageColumn = "_3_b_1__sh_acs_hpv"

// Country is a country name with its ISO alpha-3 code.
type Country struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Coverage is the world HPV coverage, completed so that every country has a
// value for every year.
type Coverage struct {
	Countries []Country
	years     []int
	byYear    map[int]map[string]float64
}

// CoverageMap is the coverage of every country for one year.
type CoverageMap struct {
	Year   int             `json:"year"`
	Title  string          `json:"title"`
	Range  [2]float64      `json:"range"`
	Values []LocationValue `json:"values"`
}

// BuildCoverage reads Entity, Code, Year and the coverage column. Countries are
// the rows with a three-letter ISO code; regional aggregates (OWID_ codes or no
// code) are dropped. For each year, countries without a value get 0.
func BuildCoverage(t *table.Table) (*Coverage, error) {
	entity, ok1 := findColumn(t, "Entity")
	code, ok2 := findColumn(t, "Code")
	year, ok3 := findColumn(t, "Year")
	value, ok4 := findColumn(t, CoverageColumn)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, fmt.Errorf("coverage: %w: want Entity, Code, Year, %s", ErrMissingColumn, CoverageColumn)
	}
	c := &Coverage{byYear: map[int]map[string]float64{}}
	known := map[string]bool{}
	for i := 0; i < t.Len(); i++ {
		cd := strings.TrimSpace(t.Get(i, code))
		if !isCountryCode(cd) {
			continue
		}
		if !known[cd] {
			known[cd] = true
			c.Countries = append(c.Countries, Country{Name: t.Get(i, entity), Code: cd})
		}
		y, ok := table.ParseYear(t.Get(i, year))
		if !ok {
			continue
		}
		vals := c.byYear[y]
		if vals == nil {
			vals = map[string]float64{}
			c.byYear[y] = vals
			c.years = append(c.years, y)
		}
		if v, ok := table.ParseNumber(t.Get(i, value)); ok {
			vals[cd] = v
		}
	}
	sort.Ints(c.years)
	sort.Slice(c.Countries, func(i, j int) bool { return c.Countries[i].Name < c.Countries[j].Name })
	return c, nil
}

func isCountryCode(code string) bool {
	if len(code) != 3 || strings.HasPrefix(code, "OWID") {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Years returns the years present in the source, ascending.
func (c *Coverage) Years() []int {
	out := make([]int, len(c.years))
	copy(out, c.years)
	return out
}

// HasYear reports whether year has data.
func (c *Coverage) HasYear(year int) bool {
	_, ok := c.byYear[year]
	return ok
}

// DefaultYear is 2022 when present, otherwise the latest year.
func (c *Coverage) DefaultYear() int {
	if c.HasYear(2022) || len(c.years) == 0 {
		return 2022
	}
	return c.years[len(c.years)-1]
}

// Map returns the coverage of every country for year, on a 0..100 scale.
func (c *Coverage) Map(year int) CoverageMap {
	m := CoverageMap{Year: year, Range: [2]float64{0, 100}, Values: []LocationValue{}}
	vals, ok := c.byYear[year]
	if !ok {
		m.Title = fmt.Sprintf("No data available for Year %d", year)
		return m
	}
	m.Title = fmt.Sprintf("HPV Vaccination Rates for Girls (Year %d)", year)
	for _, ct := range c.Countries {
		m.Values = append(m.Values, LocationValue{Location: ct.Code, Name: ct.Name, Value: vals[ct.Code]})
	}
	return m
}

// Trend returns the mean coverage over all countries for each year, zeros included.
func (c *Coverage) Trend() []YearValue {
	out := make([]YearValue, 0, len(c.years))
	n := float64(len(c.Countries))
	for _, y := range c.years {
		var sum float64
		for _, v := range c.byYear[y] {
			sum += v
		}
		mean := 0.0
		if n > 0 {
			mean = sum / n
		}
		out = append(out, YearValue{Year: y, Value: mean})
	}
	return out
}

// NextYear advances the animation: it wraps to the first year once current
// reaches the last one.
func (c *Coverage) NextYear(current int) int {
	if len(c.years) == 0 {
		return current
	}
	if current >= c.years[len(c.years)-1] {
		return c.years[0]
	}
	return current + 1
}

// Rows flattens the completed coverage, one row per year and country.
func (c *Coverage) Rows() []CoverageRow {
	var out []CoverageRow
	for _, y := range c.years {
		for _, ct := range c.Countries {
			out = append(out, CoverageRow{Year: y, Entity: ct.Name, Code: ct.Code, Value: c.byYear[y][ct.Code]})
		}
	}
	return out
}

// CoverageRow is one completed coverage value.
type CoverageRow struct {
	Year   int
	Entity string
	Code   string
	Value  float64
}
