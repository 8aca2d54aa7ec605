package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/hpvdash/internal/table"
)

// IntroductionColumn describes where the HPV vaccine was introduced.
const IntroductionColumn = "intro__description_hpv__human_papilloma_virus__vaccine"

// EntireCountry is the IntroductionColumn value of a nationwide introduction.
const EntireCountry = "Entire country"

// Introductions tracks which countries introduced HPV vaccination nationwide, by year.
type Introductions struct {
	years      []int
	byYear     map[int][]string
	newByYear  map[int][]string
	cumulative []YearValue
	firstYear  map[string]int
	countries  []string
}

// CountryMarker locates a country on the cumulative curve.
type CountryMarker struct {
	Country string `json:"country"`
	Year    int    `json:"year"`
	Total   int    `json:"total"`
}

// BuildIntroductions keeps the "Entire country" rows with an integral year.
func BuildIntroductions(t *table.Table) (*Introductions, error) {
	entity, ok1 := findColumn(t, "Entity")
	year, ok2 := findColumn(t, "Year")
	desc, ok3 := findColumn(t, IntroductionColumn)
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("introductions: %w: want Entity, Year, %s", ErrMissingColumn, IntroductionColumn)
	}
	in := &Introductions{
		byYear:    map[int][]string{},
		newByYear: map[int][]string{},
		firstYear: map[string]int{},
	}
	di := t.Index(desc)
	rows := t.Filter(func(r []string) bool { return strings.TrimSpace(r[di]) == EntireCountry })
	if err := rows.SortBy(year, true); err != nil {
		return nil, err
	}
	sets := map[int]map[string]bool{}
	for i := 0; i < rows.Len(); i++ {
		y, ok := table.ParseYear(rows.Get(i, year))
		if !ok {
			continue
		}
		name := strings.TrimSpace(rows.Get(i, entity))
		if name == "" {
			continue
		}
		if sets[y] == nil {
			sets[y] = map[string]bool{}
			in.years = append(in.years, y)
		}
		sets[y][name] = true
	}

	seen := map[string]bool{}
	for _, y := range in.years {
		all := sortedKeys(sets[y])
		in.byYear[y] = all
		var fresh []string
		for _, n := range all {
			if !seen[n] {
				seen[n] = true
				fresh = append(fresh, n)
				in.firstYear[n] = y
			}
		}
		in.newByYear[y] = fresh
		in.cumulative = append(in.cumulative, YearValue{Year: y, Value: float64(len(seen))})
	}
	in.countries = sortedKeys(seen)
	return in, nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Years returns the introduction years, ascending.
func (in *Introductions) Years() []int { return append([]int(nil), in.years...) }

// Bounds returns the first and last year, or zeros when empty.
func (in *Introductions) Bounds() (int, int) {
	if len(in.years) == 0 {
		return 0, 0
	}
	return in.years[0], in.years[len(in.years)-1]
}

// Countries returns every country that introduced the vaccine, sorted.
func (in *Introductions) Countries() []string { return append([]string(nil), in.countries...) }

// CountriesIn returns every country listed for year.
func (in *Introductions) CountriesIn(year int) []string { return in.byYear[year] }

// NewIn returns the countries first listed in year.
func (in *Introductions) NewIn(year int) []string { return in.newByYear[year] }

// Cumulative returns the running count of countries for years within [from, to].
func (in *Introductions) Cumulative(from, to int) []YearValue {
	out := []YearValue{}
	for _, p := range in.cumulative {
		if p.Year >= from && p.Year <= to {
			out = append(out, p)
		}
	}
	return out
}

// Marker returns the first introduction year of country and the cumulative
// total at that year.
func (in *Introductions) Marker(country string) (CountryMarker, bool) {
	y, ok := in.firstYear[country]
	if !ok {
		return CountryMarker{}, false
	}
	m := CountryMarker{Country: country, Year: y}
	for _, p := range in.cumulative {
		if p.Year == y {
			m.Total = int(p.Value)
		}
	}
	return m, true
}

// Message describes the new countries of a clicked year; a nil year asks the
// user to click.
func (in *Introductions) Message(year *int) string {
	if year == nil {
		return "Click on a point to see the list of new countries."
	}
	fresh := in.newByYear[*year]
	if len(fresh) == 0 {
		return fmt.Sprintf("No new countries introduced HPV vaccination in %d.", *year)
	}
	return fmt.Sprintf("Year %d: %s", *year, strings.Join(fresh, ", "))
}
