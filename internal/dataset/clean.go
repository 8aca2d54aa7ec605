package dataset

import (
	"errors"
	"strings"

	"github.com/KaramelBytes/hpvdash/internal/table"
)

// ErrEmptySheet is returned when a raw sheet has no data rows.
var ErrEmptySheet = errors.New("sheet has no data rows")

// CleanCoverageSheet turns a raw Santé publique France coverage sheet into a
// regional coverage table: the first column is dropped, rows with fewer than two
// values are dropped, the first remaining row becomes the header, region labels
// are cleaned and canonicalized, ".0" suffixes are stripped from cohort headers
// and every cohort value is made numeric with 0 for missing values.
func CleanCoverageSheet(grid [][]string) (*table.Table, error) {
	var rows [][]string
	for _, r := range grid {
		if len(r) > 0 {
			r = r[1:]
		}
		n := 0
		for _, v := range r {
			if strings.TrimSpace(v) != "" {
				n++
			}
		}
		if n >= 2 {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		switch {
		case i == 0 && (h == legacyRegionHeader || strings.HasPrefix(h, "Année") || h == RegionColumn || h == ""):
			h = RegionColumn
		default:
			h = strings.TrimSuffix(h, ".0")
		}
		header[i] = h
	}
	t := table.New(header...)
	for _, r := range rows[1:] {
		t.Append(r)
	}
	if err := t.Apply(RegionColumn, CleanRegionText); err != nil {
		return nil, err
	}
	for _, h := range t.Header[1:] {
		if err := t.Apply(h, func(v string) string { return table.FormatNumber(table.NumberOr0(v)) }); err != nil {
			return nil, err
		}
	}
	return t, nil
}
