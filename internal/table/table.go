// Package table holds small in-memory string tables and the reshaping steps the
// dashboard datasets need (rename, filter, melt, sort, numeric coercion).
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ErrColumnNotFound is returned when a named column does not exist.
var ErrColumnNotFound = errors.New("column not found")

// Table is a header plus rows of string cells. Every row has len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// CSVOptions controls CSV decoding.
type CSVOptions struct {
	// Delimiter for CSV. If 0, ',' is used.
	Delimiter rune
	// SkipRows drops that many physical records before the header.
	SkipRows int
}

// New builds a table from a header, copying it.
func New(header ...string) *Table {
	h := make([]string, len(header))
	copy(h, header)
	return &Table{Header: h}
}

// ReadCSV decodes r into a Table. The first record after SkipRows is the header.
// Short rows are padded with empty cells; long rows are truncated.
func ReadCSV(r io.Reader, opt CSVOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}
	for i := 0; i < opt.SkipRows; i++ {
		if _, err := cr.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return &Table{}, nil
			}
			return nil, fmt.Errorf("skip row %d: %w", i+1, err)
		}
	}
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := New(header...)
	if len(t.Header) > 0 {
		t.Header[0] = strings.TrimPrefix(t.Header[0], "\ufeff")
	}
	for i := range t.Header {
		t.Header[i] = strings.TrimSpace(t.Header[i])
	}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		t.Append(rec)
	}
	return t, nil
}

// WriteCSV encodes the table with a header line.
func (t *Table) WriteCSV(w io.Writer, delim rune) error {
	cw := csv.NewWriter(w)
	if delim != 0 {
		cw.Comma = delim
	}
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// Append adds a row, normalizing its length to the header.
func (t *Table) Append(rec []string) {
	row := make([]string, len(t.Header))
	copy(row, rec)
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of a column, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Has reports whether the named column exists.
func (t *Table) Has(name string) bool { return t.Index(name) >= 0 }

// Column returns a copy of the values of a column.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out, nil
}

// Get returns the cell of row i in the named column, or "".
func (t *Table) Get(i int, name string) string {
	idx := t.Index(name)
	if idx < 0 || i < 0 || i >= len(t.Rows) {
		return ""
	}
	return t.Rows[i][idx]
}

// Float returns the numeric value of a cell, coercing anything unparsable to 0.
func (t *Table) Float(i int, name string) float64 {
	return NumberOr0(t.Get(i, name))
}

// Rename renames columns by name; unknown names are ignored.
func (t *Table) Rename(m map[string]string) {
	for i, h := range t.Header {
		if n, ok := m[h]; ok {
			t.Header[i] = n
		}
	}
}

// SetHeader replaces the header positionally.
func (t *Table) SetHeader(names []string) error {
	if len(names) != len(t.Header) {
		return fmt.Errorf("set header: have %d columns, got %d names", len(t.Header), len(names))
	}
	copy(t.Header, names)
	return nil
}

// Replace maps values of a column through m; values absent from m are kept.
func (t *Table) Replace(col string, m map[string]string) error {
	return t.Apply(col, func(v string) string {
		if n, ok := m[v]; ok {
			return n
		}
		return v
	})
}

// Apply rewrites every cell of a column with fn.
func (t *Table) Apply(col string, fn func(string) string) error {
	idx := t.Index(col)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, col)
	}
	for _, r := range t.Rows {
		r[idx] = fn(r[idx])
	}
	return nil
}

// AddColumn appends a constant-valued column.
func (t *Table) AddColumn(name, value string) {
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], value)
	}
}

// Filter returns a new table holding the rows for which keep returns true.
// Rows are shared with the receiver.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	out := New(t.Header...)
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Where keeps rows whose column equals value.
func (t *Table) Where(col, value string) *Table {
	idx := t.Index(col)
	return t.Filter(func(r []string) bool { return idx >= 0 && r[idx] == value })
}

// Unique returns the distinct non-empty values of a column in first-seen order.
func (t *Table) Unique(col string) []string {
	idx := t.Index(col)
	if idx < 0 {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, r := range t.Rows {
		v := r[idx]
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// SortBy stably sorts rows by a column, numerically when numeric is set.
func (t *Table) SortBy(col string, numeric bool) error {
	idx := t.Index(col)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, col)
	}
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i][idx], t.Rows[j][idx]
		if numeric {
			return NumberOr0(a) < NumberOr0(b)
		}
		return a < b
	})
	return nil
}

// Melt unpivots every column not listed in ids into (varName, valueName) pairs,
// producing one row per id row and value column.
func (t *Table) Melt(ids []string, varName, valueName string) (*Table, error) {
	idIdx := make([]int, len(ids))
	isID := map[int]bool{}
	for i, id := range ids {
		idx := t.Index(id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, id)
		}
		idIdx[i] = idx
		isID[idx] = true
	}
	out := New(append(append([]string{}, ids...), varName, valueName)...)
	for _, r := range t.Rows {
		for j, h := range t.Header {
			if isID[j] {
				continue
			}
			row := make([]string, 0, len(ids)+2)
			for _, idx := range idIdx {
				row = append(row, r[idx])
			}
			row = append(row, h, r[j])
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// Concat stacks tables that share the same header.
func Concat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return &Table{}, nil
	}
	out := New(tables[0].Header...)
	for i, t := range tables {
		if strings.Join(t.Header, "\x00") != strings.Join(out.Header, "\x00") {
			return nil, fmt.Errorf("concat: table %d header mismatch", i)
		}
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out, nil
}
