// Package dataset turns the raw tables of the catalog into the shapes the
// dashboard charts need.
package dataset

import (
	"errors"
	"strings"

	"github.com/KaramelBytes/hpvdash/internal/table"
)

var (
	// ErrMissingColumn is returned when a source table lacks a required column.
	ErrMissingColumn = errors.New("missing column")
	// ErrUnknownMetric is returned for a metric outside the offered options.
	ErrUnknownMetric = errors.New("unknown metric")
)

// Option is a selectable value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// YearValue is one point of a yearly series.
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// LocationValue is one shaded location of a choropleth.
type LocationValue struct {
	Location string  `json:"location"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
}

// findColumn returns the first header matching one of names, ignoring case.
func findColumn(t *table.Table, names ...string) (string, bool) {
	for _, n := range names {
		for _, h := range t.Header {
			if strings.EqualFold(h, n) {
				return h, true
			}
		}
	}
	return "", false
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
