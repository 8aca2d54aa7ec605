package dataset

import (
	"fmt"

	"github.com/KaramelBytes/hpvdash/internal/catalog"
	"github.com/KaramelBytes/hpvdash/internal/table"
)

// Cancer source columns.
const (
	CancerCountryColumn = "Population"
	CancerASRColumn     = "ASR (World)"
)

// CancerRow is one country value of one cancer file.
type CancerRow struct {
	Cancer  string  `json:"cancer"`
	Type    string  `json:"type"`
	Country string  `json:"country"`
	ASR     float64 `json:"asr"`
}

// CancerFile is a cancer table with the cancer and metric it was fetched for.
type CancerFile struct {
	Cancer string
	Metric string
	Table  *table.Table
}

// Cancers holds every cancer file concatenated and tagged.
type Cancers struct {
	Rows    []CancerRow
	cancers []string
}

// CancerMap is the per-country ASR of one cancer and metric.
type CancerMap struct {
	Cancer string          `json:"cancer"`
	Metric string          `json:"metric"`
	Title  string          `json:"title"`
	Values []LocationValue `json:"values"`
}

// BuildCancers concatenates the files, tagging each row with its cancer and
// metric. A missing or malformed ASR becomes 0.
func BuildCancers(files []CancerFile) (*Cancers, error) {
	c := &Cancers{}
	seen := map[string]bool{}
	var parts []*table.Table
	for _, f := range files {
		if f.Table == nil {
			continue
		}
		country, err := f.Table.Column(CancerCountryColumn)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w: want %q and %q", f.Cancer, f.Metric, ErrMissingColumn, CancerCountryColumn, CancerASRColumn)
		}
		asr, err := f.Table.Column(CancerASRColumn)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w: want %q and %q", f.Cancer, f.Metric, ErrMissingColumn, CancerCountryColumn, CancerASRColumn)
		}
		part := table.New(CancerCountryColumn, CancerASRColumn)
		for i := range country {
			part.Append([]string{country[i], asr[i]})
		}
		part.AddColumn("Cancer", f.Cancer)
		part.AddColumn("Type", f.Metric)
		parts = append(parts, part)
		if !seen[f.Cancer] {
			seen[f.Cancer] = true
			c.cancers = append(c.cancers, f.Cancer)
		}
	}
	all, err := table.Concat(parts...)
	if err != nil {
		return nil, err
	}
	for i := 0; i < all.Len(); i++ {
		c.Rows = append(c.Rows, CancerRow{
			Cancer:  all.Get(i, "Cancer"),
			Type:    all.Get(i, "Type"),
			Country: all.Get(i, CancerCountryColumn),
			ASR:     all.Float(i, CancerASRColumn),
		})
	}
	return c, nil
}

// Options lists the loaded cancers in load order with their labels.
func (c *Cancers) Options() []Option {
	out := make([]Option, 0, len(c.cancers))
	for _, k := range c.cancers {
		out = append(out, Option{Value: k, Label: catalog.CancerLabel(k)})
	}
	return out
}

// MetricOptions lists the cancer metrics.
func MetricOptions() []Option {
	return []Option{{Value: "incidence", Label: "Incidence"}, {Value: "mortalite", Label: "Mortality"}}
}

// Query returns the map of one cancer and metric. An empty result is titled
// "No data available".
func (c *Cancers) Query(cancer, metric string) CancerMap {
	m := CancerMap{Cancer: cancer, Metric: metric, Values: []LocationValue{}}
	for _, r := range c.Rows {
		if r.Cancer == cancer && r.Type == metric {
			m.Values = append(m.Values, LocationValue{Location: r.Country, Name: r.Country, Value: r.ASR})
		}
	}
	if len(m.Values) == 0 {
		m.Title = "No data available"
		return m
	}
	m.Title = fmt.Sprintf("%s of %s", capitalize(metric), capitalize(catalog.CancerLabel(cancer)))
	return m
}
