// Package chart turns query results into chart descriptions that a browser
// (Plotly.js) or the PNG renderer can draw.
package chart

import (
	"fmt"

	"funolympics/internal/query"
)

// Kind is the chart type.
type Kind string

const (
	KindPie        Kind = "pie"
	KindBar        Kind = "bar"
	KindLine       Kind = "line"
	KindScatterGeo Kind = "scatter_geo"
	KindHeatmap    Kind = "heatmap"
)

// Valid reports whether k is a known chart kind.
func (k Kind) Valid() bool {
	switch k {
	case KindPie, KindBar, KindLine, KindScatterGeo, KindHeatmap:
		return true
	}
	return false
}

// Labels carries the titles a view puts on its chart. Empty axis titles fall
// back to the column names of the result.
type Labels struct {
	Title      string
	X          string
	Y          string
	ColorScale string
}

// Point is one labelled value of a one-dimensional chart.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Heatmap is the grid of a heatmap chart. Z[i][j] is the value for Y[i] and
// X[j]; nil marks a combination with no observations.
type Heatmap struct {
	X []string     `json:"x"`
	Y []string     `json:"y"`
	Z [][]*float64 `json:"z"`
}

// Spec describes a chart independently of the renderer.
type Spec struct {
	Kind       Kind     `json:"kind"`
	Title      string   `json:"title"`
	X          string   `json:"x"`
	Y          string   `json:"y"`
	Color      string   `json:"color,omitempty"`
	ColorScale string   `json:"color_scale,omitempty"`
	Points     []Point  `json:"points,omitempty"`
	Heatmap    *Heatmap `json:"heatmap,omitempty"`
}

// Empty reports whether the chart has nothing to draw.
func (s *Spec) Empty() bool {
	if s.Kind == KindHeatmap {
		return s.Heatmap == nil || len(s.Heatmap.X) == 0 || len(s.Heatmap.Y) == 0
	}
	return len(s.Points) == 0
}

// FromTable builds a one-dimensional chart from a single-column table.
func FromTable(kind Kind, t *query.Table, labels Labels) (*Spec, error) {
	if !kind.Valid() || kind == KindHeatmap {
		return nil, fmt.Errorf("%w: %q from table", ErrUnsupportedKind, kind)
	}
	if len(t.GroupColumns) != 1 {
		return nil, fmt.Errorf("%w: %d group columns", ErrShape, len(t.GroupColumns))
	}

	spec := &Spec{
		Kind:       kind,
		Title:      labels.Title,
		X:          orDefault(labels.X, t.GroupColumns[0]),
		Y:          orDefault(labels.Y, t.CountColumn),
		ColorScale: labels.ColorScale,
		Points:     make([]Point, 0, len(t.Rows)),
	}
	if kind == KindScatterGeo {
		spec.Color = t.CountColumn
	}
	for _, r := range t.Rows {
		spec.Points = append(spec.Points, Point{Label: r.Keys[0], Value: float64(r.Count)})
	}
	return spec, nil
}

// FromMatrix builds a heatmap from a pivoted matrix.
func FromMatrix(m *query.Matrix, labels Labels) *Spec {
	z := make([][]*float64, len(m.Cells))
	for i, row := range m.Cells {
		z[i] = make([]*float64, len(row))
		for j, cell := range row {
			if cell == nil {
				continue
			}
			v := float64(*cell)
			z[i][j] = &v
		}
	}

	return &Spec{
		Kind:       KindHeatmap,
		Title:      labels.Title,
		X:          orDefault(labels.X, m.ColColumn),
		Y:          orDefault(labels.Y, m.RowColumn),
		Color:      m.ValueColumn,
		ColorScale: labels.ColorScale,
		Heatmap: &Heatmap{
			X: m.Cols,
			Y: m.Rows,
			Z: z,
		},
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
