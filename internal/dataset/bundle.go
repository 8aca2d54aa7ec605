package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/KaramelBytes/hpvdash/internal/catalog"
	"github.com/KaramelBytes/hpvdash/internal/geo"
	"github.com/KaramelBytes/hpvdash/internal/reader"
	"github.com/KaramelBytes/hpvdash/internal/table"
)

// Bundle is every dataset the dashboard serves. A component whose files are
// missing stays nil and a warning is recorded.
type Bundle struct {
	Cancers       *Cancers
	Coverage      *Coverage
	Introductions *Introductions
	Screening     *Screening
	Girls         *RegionalCoverage
	Boys          *RegionalCoverage
	// Regions holds the France regions with overseas regions moved to insets.
	Regions     *geojson.FeatureCollection
	RegionNames []string
	Warnings    []string
	LoadedAt    time.Time
}

// LoadOptions controls LoadBundle.
type LoadOptions struct {
	// Insets overrides geo.DefaultInsets.
	Insets map[string]geo.Inset
	Log    *zap.Logger
}

// RegionalCoverage returns the table of a sex, defaulting to girls.
func (b *Bundle) RegionalCoverage(sex string) *RegionalCoverage {
	if NormalizeSex(sex) == Boys {
		return b.Boys
	}
	return b.Girls
}

// LoadBundle reads the cached files of cat from dir.
func LoadBundle(dir string, cat *catalog.Catalog, opt LoadOptions) (*Bundle, error) {
	log := opt.Log
	if log == nil {
		log = zap.NewNop()
	}
	b := &Bundle{LoadedAt: time.Now().UTC()}
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		b.Warnings = append(b.Warnings, msg)
		log.Warn(msg)
	}
	read := func(d catalog.Dataset) (*table.Table, bool, error) {
		p := filepath.Join(dir, d.File)
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		t, err := reader.ReadFile(p, reader.Options{Delimiter: d.Delimiter, SkipRows: d.SkipRows})
		if err != nil {
			return nil, false, err
		}
		return t, true, nil
	}
	first := func(k catalog.Kind) (*table.Table, catalog.Dataset, error) {
		for _, d := range cat.ByKind(k) {
			t, ok, err := read(d)
			if err != nil {
				return nil, d, err
			}
			if ok {
				return t, d, nil
			}
		}
		return nil, catalog.Dataset{}, nil
	}

	var files []CancerFile
	for _, d := range cat.ByKind(catalog.KindCancer) {
		t, ok, err := read(d)
		if err != nil {
			return nil, err
		}
		if !ok {
			warn("dataset %s not cached", d.ID)
			continue
		}
		files = append(files, CancerFile{Cancer: d.Cancer, Metric: d.Metric, Table: t})
	}
	if len(files) > 0 {
		c, err := BuildCancers(files)
		if err != nil {
			return nil, err
		}
		b.Cancers = c
	}

	if t, d, err := first(catalog.KindCoverage); err != nil {
		return nil, err
	} else if t == nil {
		warn("world coverage not cached")
	} else if b.Coverage, err = BuildCoverage(t); err != nil {
		return nil, fmt.Errorf("%s: %w", d.ID, err)
	}

	if t, d, err := first(catalog.KindIntroductions); err != nil {
		return nil, err
	} else if t == nil {
		warn("vaccine introductions not cached")
	} else if b.Introductions, err = BuildIntroductions(t); err != nil {
		return nil, fmt.Errorf("%s: %w", d.ID, err)
	}

	if t, d, err := first(catalog.KindScreening); err != nil {
		return nil, err
	} else if t == nil {
		warn("France screening not cached")
	} else if b.Screening, err = BuildScreening(t); err != nil {
		return nil, fmt.Errorf("%s: %w", d.ID, err)
	}

	for _, d := range cat.ByKind(catalog.KindCoverageFR) {
		t, ok, err := read(d)
		if err != nil {
			return nil, err
		}
		if !ok {
			warn("dataset %s not cached", d.ID)
			continue
		}
		rc, err := BuildRegionalCoverage(t, d.Sex)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.ID, err)
		}
		if rc.Sex == Boys {
			b.Boys = rc
		} else {
			b.Girls = rc
		}
	}

	for _, d := range cat.ByKind(catalog.KindRegions) {
		data, err := os.ReadFile(filepath.Join(dir, d.File))
		if errors.Is(err, fs.ErrNotExist) {
			warn("dataset %s not cached", d.ID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read regions: %w", err)
		}
		fc, err := geo.LoadFeatureCollection(data)
		if err != nil {
			return nil, err
		}
		insets := opt.Insets
		if insets == nil {
			insets = geo.DefaultInsets()
		}
		moved, err := geo.Reposition(fc, insets, geo.DefaultNameProperty)
		if err != nil {
			return nil, err
		}
		log.Debug("regions repositioned", zap.Strings("moved", moved))
		b.Regions = fc
		b.RegionNames = geo.Names(fc, geo.DefaultNameProperty)
	}

	b.checkRegions(warn)
	return b, nil
}

func (b *Bundle) checkRegions(warn func(string, ...any)) {
	if b.Regions == nil {
		return
	}
	check := func(label string, names []string) {
		if unknown := UnknownRegions(names, b.RegionNames); len(unknown) > 0 {
			warn("%s: regions not in GeoJSON: %v", label, unknown)
		}
	}
	if b.Screening != nil {
		check("screening", b.Screening.Regions())
	}
	for _, rc := range []*RegionalCoverage{b.Girls, b.Boys} {
		if rc != nil {
			check("coverage "+rc.Sex, rc.Regions())
		}
	}
}
