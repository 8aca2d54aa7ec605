// Package reader turns dataset files into tables, choosing a decoder by file name.
package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/hpvdash/internal/table"
)

// Options controls decoding. Fields irrelevant to a format are ignored.
type Options struct {
	Delimiter rune
	SkipRows  int
	// Sheet selects a workbook sheet by name; empty means the first sheet.
	Sheet string
}

// Reader decodes one file format.
type Reader interface {
	CanRead(filename string) bool
	Read(r io.Reader, opt Options) (*table.Table, error)
}

// ErrUnsupported indicates no registered reader accepts the file name.
var ErrUnsupported = errors.New("unsupported dataset format")

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// For returns the first registered reader accepting filename.
func For(filename string) (Reader, error) {
	for _, r := range registry {
		if r.CanRead(filename) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filename)
}

// ReadFile opens path and decodes it with the matching reader.
func ReadFile(path string, opt Options) (*table.Table, error) {
	rd, err := For(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 && strings.EqualFold(filepath.Ext(path), ".tsv") {
		opt.Delimiter = '\t'
	}
	t, err := rd.Read(f, opt)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
	Register(geojsonReader{})
}
