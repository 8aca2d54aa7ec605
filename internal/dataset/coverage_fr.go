package dataset

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/KaramelBytes/hpvdash/internal/table"
)

// Sex values of the regional coverage files.
const (
	Girls = "fille"
	Boys  = "garcon"
)

// CohortOffset converts a birth cohort into the year the coverage refers to.
const CohortOffset = 16

// legacyRegionHeader is the region column name in the published workbooks.
const legacyRegionHeader = "Année de\nnaissance"

// NormalizeSex maps anything but Boys to Girls.
func NormalizeSex(s string) string {
	if s == Boys {
		return Boys
	}
	return Girls
}

// RegionalCoverage is the HPV coverage per French region and birth cohort.
type RegionalCoverage struct {
	Sex     string
	Cohorts []string
	Table   *table.Table
}

// RegionalMap is the coverage of every region for one cohort.
type RegionalMap struct {
	Sex     string          `json:"sex"`
	Cohort  string          `json:"cohort"`
	Label   string          `json:"label"`
	Range   [2]float64      `json:"range"`
	Regions []LocationValue `json:"regions"`
}

// BuildRegionalCoverage renames the region column and canonicalizes region names.
// Every other column is a birth cohort.
func BuildRegionalCoverage(t *table.Table, sex string) (*RegionalCoverage, error) {
	t.Rename(map[string]string{legacyRegionHeader: RegionColumn})
	if !t.Has(RegionColumn) {
		return nil, fmt.Errorf("regional coverage: %w: %q", ErrMissingColumn, RegionColumn)
	}
	if err := t.Apply(RegionColumn, CanonicalRegion); err != nil {
		return nil, err
	}
	rc := &RegionalCoverage{Sex: NormalizeSex(sex), Table: t}
	for _, h := range t.Header {
		if h != RegionColumn {
			rc.Cohorts = append(rc.Cohorts, h)
		}
	}
	return rc, nil
}

// CohortLabel returns cohort+16 for integral cohorts, the cohort otherwise.
func CohortLabel(cohort string) string {
	if y, ok := table.ParseYear(cohort); ok {
		return strconv.Itoa(y + CohortOffset)
	}
	return cohort
}

// YearOptions lists the selectable cohorts, labelled by coverage year, and the
// default. Boys are restricted to the 2006 and 2007 cohorts when present.
func (rc *RegionalCoverage) YearOptions() ([]Option, string) {
	avail := rc.Cohorts
	if rc.Sex == Boys {
		var want []string
		for _, y := range []string{"2006", "2007"} {
			if rc.Table.Has(y) {
				want = append(want, y)
			}
		}
		if len(want) > 0 {
			avail = want
		}
	}
	out := make([]Option, 0, len(avail))
	for _, c := range avail {
		out = append(out, Option{Value: c, Label: CohortLabel(c)})
	}
	def := ""
	if len(avail) > 0 {
		def = avail[0]
	}
	return out, def
}

// Map returns every region for cohort on a 0..60 scale. An unknown cohort falls
// back to the first one.
func (rc *RegionalCoverage) Map(cohort string) RegionalMap {
	if !rc.Table.Has(cohort) || cohort == RegionColumn {
		cohort = ""
		if len(rc.Cohorts) > 0 {
			cohort = rc.Cohorts[0]
		}
	}
	m := RegionalMap{Sex: rc.Sex, Cohort: cohort, Label: CohortLabel(cohort), Range: [2]float64{0, 60}, Regions: []LocationValue{}}
	if cohort == "" {
		return m
	}
	for i := 0; i < rc.Table.Len(); i++ {
		r := rc.Table.Get(i, RegionColumn)
		m.Regions = append(m.Regions, LocationValue{Location: r, Name: r, Value: rc.Table.Float(i, cohort)})
	}
	return m
}

// Evolution returns the coverage of region over coverage years, ascending.
// Cohort columns that are not integral years are skipped.
func (rc *RegionalCoverage) Evolution(region string) ([]YearValue, error) {
	long, err := rc.Table.Where(RegionColumn, region).Melt([]string{RegionColumn}, "Année", "Vaccination Coverage")
	if err != nil {
		return nil, err
	}
	out := []YearValue{}
	for i := 0; i < long.Len(); i++ {
		y, ok := table.ParseYear(long.Get(i, "Année"))
		if !ok {
			continue
		}
		out = append(out, YearValue{Year: y + CohortOffset, Value: long.Float(i, "Vaccination Coverage")})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

// Regions returns the region names of the table.
func (rc *RegionalCoverage) Regions() []string {
	return rc.Table.Unique(RegionColumn)
}
