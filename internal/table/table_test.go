package table

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const coverageCSV = "source line\n\ufeffEntity;Code;Year;_3_b_1__sh_acs_hpv\nFrance;FRA;2021;45,5\nPeru;PER;2021\nFrance;FRA;2022;48\n"

func TestReadCSVSkipAndPad(t *testing.T) {
	tb, err := ReadCSV(strings.NewReader(coverageCSV), CSVOptions{Delimiter: ';', SkipRows: 1})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	wantHeader := []string{"Entity", "Code", "Year", "_3_b_1__sh_acs_hpv"}
	if d := cmp.Diff(wantHeader, tb.Header); d != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", d)
	}
	if tb.Len() != 3 {
		t.Fatalf("rows=%d want 3", tb.Len())
	}
	if got := tb.Get(1, "_3_b_1__sh_acs_hpv"); got != "" {
		t.Fatalf("padded cell=%q", got)
	}
	if got := tb.Float(0, "_3_b_1__sh_acs_hpv"); math.Abs(got-45.5) > 1e-9 {
		t.Fatalf("float=%v", got)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	tb, err := ReadCSV(strings.NewReader(""), CSVOptions{})
	if err != nil || tb.Len() != 0 || len(tb.Header) != 0 {
		t.Fatalf("empty input: %v %+v", err, tb)
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12", 12, true},
		{"12,5", 12.5, true},
		{"1.234,5", 1234.5, true},
		{"1,234.5", 1234.5, true},
		{"45 %", 45, true},
		{"1\u00a0000", 1000, true},
		{"-3.5", -3.5, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"NaN", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in)
		if ok != c.ok || math.Abs(got-c.want) > 1e-9 {
			t.Errorf("ParseNumber(%q)=%v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
	if y, ok := ParseYear("2021.0"); !ok || y != 2021 {
		t.Errorf("ParseYear: %d %v", y, ok)
	}
	if _, ok := ParseYear("2021.5"); ok {
		t.Errorf("ParseYear accepted a fraction")
	}
}

func TestReshape(t *testing.T) {
	tb := New("Région", "2019", "2020")
	tb.Append([]string{"Bretagne", "40", "45"})
	tb.Append([]string{"Corse", "20"})

	if err := tb.SetHeader([]string{"a"}); err == nil {
		t.Fatalf("SetHeader accepted wrong arity")
	}
	long, err := tb.Melt([]string{"Région"}, "Année", "Couverture")
	if err != nil {
		t.Fatalf("Melt: %v", err)
	}
	want := [][]string{
		{"Bretagne", "2019", "40"},
		{"Bretagne", "2020", "45"},
		{"Corse", "2019", "20"},
		{"Corse", "2020", ""},
	}
	if d := cmp.Diff(want, long.Rows); d != "" {
		t.Fatalf("melt mismatch (-want +got):\n%s", d)
	}
	if _, err := tb.Melt([]string{"nope"}, "a", "b"); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("want ErrColumnNotFound, got %v", err)
	}

	_ = long.SortBy("Couverture", true)
	if long.Rows[0][2] != "" || long.Rows[3][2] != "45" {
		t.Fatalf("numeric sort: %v", long.Rows)
	}

	if err := tb.Replace("Région", map[string]string{"Corse": "Corse (2A/2B)"}); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"Bretagne", "Corse (2A/2B)"}, tb.Unique("Région")); d != "" {
		t.Fatalf("unique mismatch:\n%s", d)
	}
	if got := tb.Where("Région", "Bretagne").Len(); got != 1 {
		t.Fatalf("Where len=%d", got)
	}
}

func TestConcatAndWrite(t *testing.T) {
	a := New("x", "y")
	a.Append([]string{"1", "2"})
	b := New("x", "y")
	b.Append([]string{"3", "4"})
	c, err := Concat(a, b)
	if err != nil {
		t.Fatal(err)
	}
	c.AddColumn("Cancer", "anus")
	var buf bytes.Buffer
	if err := c.WriteCSV(&buf, 0); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "x,y,Cancer\n1,2,anus\n3,4,anus\n" {
		t.Fatalf("csv=%q", got)
	}
	if _, err := Concat(a, New("z")); err == nil {
		t.Fatalf("concat accepted mismatched headers")
	}
}

func TestProfileMarkdown(t *testing.T) {
	tb := New("Population", "ASR (World)", "Note")
	tb.Append([]string{"France", "1,5", ""})
	tb.Append([]string{"Peru", "2,5", "x"})
	tb.Append([]string{"France", "3,5", ""})

	p := ProfileOf("cancer-anus-incidence", tb, 2)
	if p.Cols[1].Kind != "numeric" || math.Abs(p.Cols[1].Mean-2.5) > 1e-9 {
		t.Fatalf("numeric column: %+v", p.Cols[1])
	}
	if p.Cols[0].Kind != "categorical" || p.Cols[0].Top[0].Value != "France" {
		t.Fatalf("categorical column: %+v", p.Cols[0])
	}
	md := p.Markdown()
	for _, want := range []string{"Dataset: cancer-anus-incidence", "Rows: 3", "- ASR (World): numeric", "[SAMPLE ROWS]"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}
