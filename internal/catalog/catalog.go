// Package catalog lists the datasets the dashboard knows how to fetch and load.
package catalog

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// DefaultBaseURL hosts the cleaned dataset mirror.
const DefaultBaseURL = "https://raw.githubusercontent.com/badis2203/dash_board_projet_zitouni/main"

// DefaultRegionsURL serves the France regions GeoJSON.
const DefaultRegionsURL = "https://france-geojson.gregoiredavid.fr/repo/regions.geojson"

// Kind groups datasets by the loader that understands them.
type Kind string

const (
	KindCancer        Kind = "cancer"
	KindCoverage      Kind = "coverage"
	KindIntroductions Kind = "introductions"
	KindScreening     Kind = "screening"
	KindCoverageFR    Kind = "coverage-fr"
	KindRegions       Kind = "regions"
)

// Dataset is one fetchable file.
type Dataset struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Kind  Kind   `json:"kind"`
	// Path is relative to the base URL unless it is an absolute URL.
	Path      string `json:"path"`
	File      string `json:"file"`
	Delimiter rune   `json:"-"`
	SkipRows  int    `json:"skip_rows,omitempty"`
	// Upstream datasets are the original sources the mirror was built from.
	Upstream bool `json:"upstream,omitempty"`

	Cancer string `json:"cancer,omitempty"`
	Metric string `json:"metric,omitempty"`
	Sex    string `json:"sex,omitempty"`
}

// Cancer is an HPV-related cancer with its display label.
type Cancer struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Cancers is the ordered list of cancers with incidence and mortality files.
var Cancers = []Cancer{
	{"penis", "Penis Cancer"},
	{"vulva", "Vulva Cancer"},
	{"larynx", "Laryngeal Cancer"},
	{"oropharynx", "Oropharyngeal Cancer"},
	{"col", "Cervical Cancer"},
	{"oral_cavite", "Oral Cavity Cancer"},
	{"vagin", "Vaginal Cancer"},
	{"anus", "Anal Cancer"},
}

// Metrics are the cancer file variants.
var Metrics = []string{"incidence", "mortalite"}

// CancerLabel returns the display label of a cancer key, or the key itself.
func CancerLabel(key string) string {
	for _, c := range Cancers {
		if c.Key == key {
			return c.Label
		}
	}
	return key
}

// CancerID is the dataset id of a cancer file.
func CancerID(cancer, metric string) string {
	return "cancer-" + strings.ReplaceAll(cancer, "_", "-") + "-" + metric
}

// Catalog resolves dataset URLs against a base and per-dataset overrides.
type Catalog struct {
	BaseURL    string
	RegionsURL string
	Overrides  map[string]string
	datasets   []Dataset
}

// New builds the default catalog. Empty URLs select the defaults.
func New(baseURL, regionsURL string, overrides map[string]string) *Catalog {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if regionsURL == "" {
		regionsURL = DefaultRegionsURL
	}
	c := &Catalog{BaseURL: strings.TrimRight(baseURL, "/"), RegionsURL: regionsURL, Overrides: overrides}
	c.datasets = defaults(regionsURL)
	return c
}

func defaults(regionsURL string) []Dataset {
	var ds []Dataset
	for _, cn := range Cancers {
		for _, m := range Metrics {
			p := fmt.Sprintf("data/2_cancers/2_%s_%s.csv", cn.Key, m)
			ds = append(ds, Dataset{
				ID:     CancerID(cn.Key, m),
				Title:  fmt.Sprintf("%s %s by country", cn.Label, m),
				Kind:   KindCancer,
				Path:   p,
				File:   path.Base(p),
				Cancer: cn.Key,
				Metric: m,
			})
		}
	}
	ds = append(ds,
		Dataset{ID: "coverage-world", Title: "HPV vaccination coverage, girls, by country", Kind: KindCoverage,
			Path: "data/3_HPV_vaccine_data.csv", File: "3_HPV_vaccine_data.csv", Delimiter: ';', SkipRows: 1},
		Dataset{ID: "owid-coverage", Title: "HPV vaccination coverage (Our World in Data)", Kind: KindCoverage, Upstream: true,
			Path: "https://ourworldindata.org/grapher/coverage-of-the-human-papillomavirus-vaccine.csv?v=1&csvType=full&useColumnShortNames=true",
			File: "owid_coverage.csv"},
		Dataset{ID: "introductions", Title: "HPV vaccine introduction in national schedules", Kind: KindIntroductions,
			Path: "data/introduction_hpv_vaccine.csv", File: "introduction_hpv_vaccine.csv"},
		Dataset{ID: "owid-introductions", Title: "HPV vaccine immunization schedule (Our World in Data)", Kind: KindIntroductions, Upstream: true,
			Path: "https://ourworldindata.org/grapher/human-papillomavirus-vaccine-immunization-schedule.csv?v=1&csvType=full&useColumnShortNames=true",
			File: "owid_introductions.csv"},
		Dataset{ID: "france-screening", Title: "Cervical cancer screening by region, France 2023", Kind: KindScreening,
			Path: "data/5_france/depistage2023.csv", File: "depistage2023.csv"},
		Dataset{ID: "france-coverage-girls", Title: "HPV coverage by region, girls, France 2023", Kind: KindCoverageFR,
			Path: "data/6_donnees_vac_pap/6_couverture_vaccinale_2023_filles_nettoye.csv",
			File: "6_couverture_vaccinale_2023_filles_nettoye.csv", Delimiter: ';', Sex: "fille"},
		Dataset{ID: "france-coverage-boys", Title: "HPV coverage by region, boys, France 2023", Kind: KindCoverageFR,
			Path: "data/6_donnees_vac_pap/6_couverture_vaccinale_2023_garcons_nettoye.csv",
			File: "6_couverture_vaccinale_2023_garcons_nettoye.csv", Delimiter: ';', Sex: "garcon"},
		Dataset{ID: "france-regions", Title: "France regions (GeoJSON)", Kind: KindRegions,
			Path: regionsURL, File: "regions.geojson"},
	)
	return ds
}

// All returns every dataset in catalog order.
func (c *Catalog) All() []Dataset {
	out := make([]Dataset, len(c.datasets))
	copy(out, c.datasets)
	return out
}

// Get returns a dataset by id.
func (c *Catalog) Get(id string) (Dataset, bool) {
	for _, d := range c.datasets {
		if d.ID == id {
			return d, true
		}
	}
	return Dataset{}, false
}

// ByKind returns the datasets of one kind, mirror before upstream.
func (c *Catalog) ByKind(k Kind) []Dataset {
	var out []Dataset
	for _, d := range c.datasets {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return !out[i].Upstream && out[j].Upstream })
	return out
}

// Select resolves ids or glob patterns (path.Match syntax, e.g. "cancer-*").
// An empty selection means every non-upstream dataset.
func (c *Catalog) Select(patterns []string) ([]Dataset, error) {
	if len(patterns) == 0 {
		var out []Dataset
		for _, d := range c.datasets {
			if !d.Upstream {
				out = append(out, d)
			}
		}
		return out, nil
	}
	seen := map[string]bool{}
	var out []Dataset
	for _, p := range patterns {
		matched := false
		for _, d := range c.datasets {
			ok, err := path.Match(p, d.ID)
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", p, err)
			}
			if !ok {
				continue
			}
			matched = true
			if !seen[d.ID] {
				seen[d.ID] = true
				out = append(out, d)
			}
		}
		if !matched {
			return nil, fmt.Errorf("unknown dataset %q", p)
		}
	}
	return out, nil
}

// URL returns where a dataset is downloaded from.
func (c *Catalog) URL(d Dataset) string {
	if u, ok := c.Overrides[d.ID]; ok && u != "" {
		return u
	}
	if strings.HasPrefix(d.Path, "http://") || strings.HasPrefix(d.Path, "https://") {
		return d.Path
	}
	return c.BaseURL + "/" + strings.TrimLeft(d.Path, "/")
}
