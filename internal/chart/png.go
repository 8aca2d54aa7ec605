package chart

import (
	"errors"
	"fmt"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNotLine is returned when a non-line figure is rendered to PNG.
var ErrNotLine = errors.New("only line figures render to PNG")

// RenderPNG draws a line figure. Single-point series are widened by half a unit
// on each side so that the x range is not empty.
func RenderPNG(w io.Writer, f Figure, width, height int) error {
	if f.Kind != KindLine {
		return ErrNotLine
	}
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 400
	}
	var series []gochart.Series
	for _, s := range f.Series {
		if len(s.X) == 0 || len(s.X) != len(s.Y) {
			continue
		}
		xs, ys := s.X, s.Y
		if len(xs) == 1 {
			xs = []float64{xs[0] - 0.5, xs[0] + 0.5}
			ys = []float64{ys[0], ys[0]}
		}
		series = append(series, gochart.ContinuousSeries{Name: s.Name, XValues: xs, YValues: ys, Style: seriesStyle(s)})
	}
	if len(series) == 0 {
		return fmt.Errorf("figure %q has no data", f.Title)
	}
	legend := len(series) > 1
	series = append(series, vlineSeries(f)...)
	ch := gochart.Chart{
		Title:      f.Title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      gochart.XAxis{Name: f.XAxis.Title, ValueFormatter: yearFormatter},
		YAxis:      gochart.YAxis{Name: f.YAxis.Title},
		Series:     series,
	}
	if r := f.YAxis.Range; r != nil {
		ch.YAxis.Range = &gochart.ContinuousRange{Min: r[0], Max: r[1]}
	}
	if legend {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	}
	return ch.Render(gochart.PNG, w)
}

// vlineSeries draws each of f.VLines as a dashed two-point series spanning the
// y range: the axis range when fixed, else the data extent.
func vlineSeries(f Figure) []gochart.Series {
	if len(f.VLines) == 0 {
		return nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	if r := f.YAxis.Range; r != nil {
		lo, hi = r[0], r[1]
	} else {
		for _, s := range f.Series {
			for _, y := range s.Y {
				lo, hi = math.Min(lo, y), math.Max(hi, y)
			}
		}
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil
	}
	out := make([]gochart.Series, 0, len(f.VLines))
	for _, x := range f.VLines {
		out = append(out, gochart.ContinuousSeries{
			XValues: []float64{x, x},
			YValues: []float64{lo, hi},
			Style: gochart.Style{
				StrokeColor:     drawing.ColorFromHex("808080"),
				StrokeWidth:     1,
				StrokeDashArray: []float64{4, 4},
			},
		})
	}
	return out
}

func seriesStyle(s Series) gochart.Style {
	col := drawing.ColorFromHex("2090c1")
	if s.Color == "red" {
		col = drawing.ColorFromHex("ff0000")
	} else if len(s.Color) == 7 && s.Color[0] == '#' {
		col = drawing.ColorFromHex(s.Color[1:])
	}
	st := gochart.Style{StrokeColor: col, StrokeWidth: 2}
	if s.Mode == "markers" {
		st = gochart.Style{StrokeColor: drawing.ColorTransparent, DotWidth: 5, DotColor: col}
	} else if s.Mode == "lines+markers" {
		st.DotWidth = 3
		st.DotColor = col
	}
	return st
}

func yearFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}
