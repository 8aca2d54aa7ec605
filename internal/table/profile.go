package table

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Profile is a markdown-friendly summary of a table, used to eyeball a dataset
// before wiring it into a chart.
type Profile struct {
	Name    string
	Rows    int
	Cols    []ColumnProfile
	Samples [][]string
}

// ColumnProfile captures the inferred kind and statistics of one column.
type ColumnProfile struct {
	Name    string
	Kind    string // numeric|categorical|text|empty
	NonNull int
	Missing int
	Unique  int
	Min     float64
	Max     float64
	Mean    float64
	Std     float64
	Top     []ValueCount
}

// ValueCount is a categorical value with its frequency.
type ValueCount struct {
	Value string
	Count int
}

// ProfileOf summarizes t. sampleRows bounds the example rows kept.
func ProfileOf(name string, t *Table, sampleRows int) *Profile {
	if sampleRows <= 0 {
		sampleRows = 5
	}
	p := &Profile{Name: name, Rows: t.Len()}
	for j, h := range t.Header {
		c := ColumnProfile{Name: h, Min: math.Inf(1), Max: math.Inf(-1)}
		cats := map[string]int{}
		var n int
		var mean, m2 float64
		for _, r := range t.Rows {
			v := strings.TrimSpace(r[j])
			if v == "" {
				c.Missing++
				continue
			}
			c.NonNull++
			cats[v]++
			x, ok := ParseNumber(v)
			if !ok {
				continue
			}
			// Welford update
			n++
			c.Min = math.Min(c.Min, x)
			c.Max = math.Max(c.Max, x)
			delta := x - mean
			mean += delta / float64(n)
			m2 += delta * (x - mean)
		}
		c.Unique = len(cats)
		switch {
		case c.NonNull == 0:
			c.Kind = "empty"
		case n*10 >= c.NonNull*9:
			c.Kind = "numeric"
			c.Mean = mean
			if n > 1 {
				c.Std = math.Sqrt(m2 / float64(n-1))
			}
		case c.Unique <= 50 || c.Unique*2 <= c.NonNull:
			c.Kind = "categorical"
			c.Top = topValues(cats, 5)
		default:
			c.Kind = "text"
			c.Top = topValues(cats, 3)
		}
		if c.Kind != "numeric" {
			c.Min, c.Max = 0, 0
		}
		p.Cols = append(p.Cols, c)
	}
	for i := 0; i < len(t.Rows) && i < sampleRows; i++ {
		p.Samples = append(p.Samples, t.Rows[i])
	}
	return p
}

func topValues(cats map[string]int, k int) []ValueCount {
	out := make([]ValueCount, 0, len(cats))
	for v, n := range cats {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// Markdown renders the profile.
func (p *Profile) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if p.Name != "" {
		b.WriteString(fmt.Sprintf("Dataset: %s\n", p.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", p.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(p.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range p.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeCell(c.Name), c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(": min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
		case "categorical", "text":
			if len(c.Top) > 0 {
				b.WriteString(": top ")
				for i, kv := range c.Top {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeCell(kv.Value), kv.Count))
				}
				if c.Unique > len(c.Top) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}
	if len(p.Samples) > 0 {
		b.WriteString("\n[SAMPLE ROWS]\n")
		names := make([]string, len(p.Cols))
		seps := make([]string, len(p.Cols))
		for i, c := range p.Cols {
			names[i] = safeCell(c.Name)
			seps[i] = "---"
		}
		b.WriteString("| " + strings.Join(names, " | ") + " |\n")
		b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
		for _, r := range p.Samples {
			cells := make([]string, len(r))
			for i, v := range r {
				cells[i] = safeCell(v)
			}
			b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
	}
	return b.String()
}

func safeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
