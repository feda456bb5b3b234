package chart

import (
	"fmt"
	"io"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"

	"funolympics/internal/dataset"
)

const (
	pngWidth  = 1024
	pngHeight = 512
)

// RenderPNG draws pie, bar and line specs as a PNG image.
func RenderPNG(spec *Spec, w io.Writer) error {
	switch spec.Kind {
	case KindPie, KindBar, KindLine:
	default:
		return fmt.Errorf("%w: %q as png", ErrUnsupportedKind, spec.Kind)
	}
	if spec.Empty() {
		return ErrEmptyChart
	}

	var err error
	switch spec.Kind {
	case KindPie:
		err = renderPie(spec, w)
	case KindBar:
		err = renderBar(spec, w)
	case KindLine:
		err = renderLine(spec, w)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s chart: %w", spec.Kind, err)
	}
	return nil
}

func renderPie(spec *Spec, w io.Writer) error {
	values := make([]gochart.Value, len(spec.Points))
	for i, p := range spec.Points {
		values[i] = gochart.Value{Label: p.Label, Value: p.Value}
	}

	pie := gochart.PieChart{
		Title:  spec.Title,
		Width:  pngHeight,
		Height: pngHeight,
		Values: values,
	}
	return pie.Render(gochart.PNG, w)
}

func renderBar(spec *Spec, w io.Writer) error {
	bars := make([]gochart.Value, len(spec.Points))
	for i, p := range spec.Points {
		bars[i] = gochart.Value{Label: p.Label, Value: p.Value}
	}

	bar := gochart.BarChart{
		Title:  spec.Title,
		Width:  pngWidth,
		Height: pngHeight,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		BarWidth: barWidth(len(bars)),
		YAxis: gochart.YAxis{
			Name:  spec.Y,
			Range: &gochart.ContinuousRange{Min: 0, Max: maxValue(spec.Points)},
		},
		Bars: bars,
	}
	return bar.Render(gochart.PNG, w)
}

func renderLine(spec *Spec, w io.Writer) error {
	xs := make([]time.Time, 0, len(spec.Points))
	ys := make([]float64, 0, len(spec.Points))
	for _, p := range spec.Points {
		t, err := time.Parse(dataset.DateLayout, p.Label)
		if err != nil {
			return fmt.Errorf("%w: line label %q is not a date", ErrShape, p.Label)
		}
		xs = append(xs, t)
		ys = append(ys, p.Value)
	}
	// go-chart needs a non-zero x range
	if len(xs) == 1 {
		xs = append(xs, xs[0].Add(24*time.Hour))
		ys = append(ys, ys[0])
	}

	graph := gochart.Chart{
		Title:  spec.Title,
		Width:  pngWidth,
		Height: pngHeight,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 12},
		},
		XAxis: gochart.XAxis{
			Name:           spec.X,
			ValueFormatter: gochart.TimeDateValueFormatter,
		},
		YAxis: gochart.YAxis{
			Name:  spec.Y,
			Range: &gochart.ContinuousRange{Min: 0, Max: maxValue(spec.Points)},
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    spec.Y,
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return graph.Render(gochart.PNG, w)
}

func maxValue(points []Point) float64 {
	max := 1.0
	for _, p := range points {
		if p.Value > max {
			max = p.Value
		}
	}
	return max * 1.1
}

func barWidth(n int) int {
	if n == 0 {
		return 0
	}
	width := (pngWidth - 100) / n
	switch {
	case width > 80:
		return 80
	case width < 8:
		return 8
	}
	return width
}
