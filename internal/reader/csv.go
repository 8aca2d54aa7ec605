package reader

import (
	"io"
	"strings"

	"github.com/KaramelBytes/hpvdash/internal/table"
)

type csvReader struct{}

func (csvReader) CanRead(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvReader) Read(r io.Reader, opt Options) (*table.Table, error) {
	return table.ReadCSV(r, table.CSVOptions{Delimiter: opt.Delimiter, SkipRows: opt.SkipRows})
}
