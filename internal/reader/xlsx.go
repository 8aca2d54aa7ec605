package reader

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/hpvdash/internal/table"
)

type xlsxReader struct{}

func (xlsxReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Read uses the first row after SkipRows as the header.
func (xlsxReader) Read(r io.Reader, opt Options) (*table.Table, error) {
	rows, err := ReadGrid(r, opt.Sheet)
	if err != nil {
		return nil, err
	}
	if opt.SkipRows >= len(rows) {
		return &table.Table{}, nil
	}
	rows = rows[opt.SkipRows:]
	t := table.New(rows[0]...)
	for _, rec := range rows[1:] {
		t.Append(rec)
	}
	return t, nil
}

// ReadGrid returns the raw cell grid of a workbook sheet. Rows keep their ragged
// length as stored in the sheet.
func ReadGrid(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// ReadGridFile is ReadGrid on a file path.
func ReadGridFile(path, sheet string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return ReadGrid(f, sheet)
}
