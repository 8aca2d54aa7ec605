package dataset

import (
	"fmt"

	"github.com/KaramelBytes/hpvdash/internal/table"
)

// ScreeningColumns are the canonical names given positionally to the 2023
// screening file.
var ScreeningColumns = []string{
	"code_region", "libelle_region", "population", "incidence", "depistage_global",
	"depistage_vingtaine", "trentaine_trancheA", "trentaine_trancheB",
	"quarantaine_trancheA", "quarantaine_trancheB", "cinquantaine_trancheA",
	"cinquantaine_trancheB", "soixantaine",
}

// DefaultScreeningMetric is shown first.
const DefaultScreeningMetric = "depistage_global"

// ScreeningMetrics are the selectable screening indicators.
var ScreeningMetrics = []Option{
	{Value: "incidence", Label: "Incidence"},
	{Value: "depistage_global", Label: "Global Screening"},
	{Value: "depistage_vingtaine", Label: "25-29 years"},
	{Value: "trentaine_trancheA", Label: "30-34 years"},
	{Value: "trentaine_trancheB", Label: "35-39 years"},
	{Value: "quarantaine_trancheA", Label: "40-44 years"},
	{Value: "quarantaine_trancheB", Label: "45-49 years"},
	{Value: "cinquantaine_trancheA", Label: "50-54 years"},
	{Value: "cinquantaine_trancheB", Label: "55-59 years"},
	{Value: "soixantaine", Label: "60-65 years"},
}

// Screening is the cervical cancer screening rate per French region.
type Screening struct {
	Table *table.Table
}

// ScreeningRegion is one region of a screening map.
type ScreeningRegion struct {
	Region     string  `json:"region"`
	Code       string  `json:"code"`
	Value      float64 `json:"value"`
	Population float64 `json:"population"`
	Incidence  float64 `json:"incidence"`
}

// ScreeningMap is one screening indicator over every region.
type ScreeningMap struct {
	Metric     string            `json:"metric"`
	Label      string            `json:"label"`
	ValueLabel string            `json:"value_label"`
	Regions    []ScreeningRegion `json:"regions"`
}

// BuildScreening renames the columns positionally and canonicalizes region names.
func BuildScreening(t *table.Table) (*Screening, error) {
	if err := t.SetHeader(ScreeningColumns); err != nil {
		return nil, fmt.Errorf("screening: %w", err)
	}
	if err := t.Apply("libelle_region", CanonicalRegion); err != nil {
		return nil, err
	}
	return &Screening{Table: t}, nil
}

// MetricLabel returns the label of a screening metric.
func MetricLabel(metric string) (string, bool) {
	for _, o := range ScreeningMetrics {
		if o.Value == metric {
			return o.Label, true
		}
	}
	return "", false
}

// Map returns one indicator for every region. An empty metric selects the default.
func (s *Screening) Map(metric string) (ScreeningMap, error) {
	if metric == "" {
		metric = DefaultScreeningMetric
	}
	label, ok := MetricLabel(metric)
	if !ok {
		return ScreeningMap{}, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	m := ScreeningMap{Metric: metric, Label: label, ValueLabel: "Screening rate", Regions: []ScreeningRegion{}}
	for i := 0; i < s.Table.Len(); i++ {
		m.Regions = append(m.Regions, ScreeningRegion{
			Region:     s.Table.Get(i, "libelle_region"),
			Code:       s.Table.Get(i, "code_region"),
			Value:      s.Table.Float(i, metric),
			Population: s.Table.Float(i, "population"),
			Incidence:  s.Table.Float(i, "incidence"),
		})
	}
	return m, nil
}

// Regions returns the region names of the table.
func (s *Screening) Regions() []string {
	return s.Table.Unique("libelle_region")
}
