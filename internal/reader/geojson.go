package reader

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/KaramelBytes/hpvdash/internal/geo"
	"github.com/KaramelBytes/hpvdash/internal/table"
)

type geojsonReader struct{}

func (geojsonReader) CanRead(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".geojson")
}

// Read flattens feature properties into a table, one row per feature, with the
// geometry type in a trailing "geometry" column.
func (geojsonReader) Read(r io.Reader, _ Options) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fc, err := geo.LoadFeatureCollection(data)
	if err != nil {
		return nil, err
	}
	keys := map[string]bool{}
	for _, f := range fc.Features {
		for k := range f.Properties {
			keys[k] = true
		}
	}
	header := make([]string, 0, len(keys)+1)
	for k := range keys {
		header = append(header, k)
	}
	sort.Strings(header)
	t := table.New(append(header, "geometry")...)
	for _, f := range fc.Features {
		row := make([]string, 0, len(header)+1)
		for _, k := range header {
			v, ok := f.Properties[k]
			if !ok || v == nil {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprint(v))
		}
		gt := ""
		if f.Geometry != nil {
			gt = f.Geometry.GeoJSONType()
		}
		t.Append(append(row, gt))
	}
	return t, nil
}
