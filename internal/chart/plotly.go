package chart

import (
	"encoding/json"
	"math"
)

// geoMaxMarker is the marker diameter, in pixels, of the largest value on a
// scatter_geo chart.
const geoMaxMarker = 40.0

// Figure is a Plotly.js figure: a list of traces and a layout.
type Figure struct {
	Data   []map[string]any `json:"data"`
	Layout map[string]any   `json:"layout"`
}

// Figure translates the spec into Plotly.js traces.
func (s *Spec) Figure() Figure {
	layout := map[string]any{
		"title":  map[string]any{"text": s.Title},
		"margin": map[string]any{"t": 60},
	}

	labels := make([]string, len(s.Points))
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		labels[i] = p.Label
		values[i] = p.Value
	}

	var trace map[string]any
	switch s.Kind {
	case KindPie:
		trace = map[string]any{
			"type":   "pie",
			"labels": labels,
			"values": values,
		}

	case KindBar:
		trace = map[string]any{
			"type": "bar",
			"x":    labels,
			"y":    values,
		}
		layout["xaxis"] = map[string]any{"title": map[string]any{"text": s.X}}
		layout["yaxis"] = map[string]any{"title": map[string]any{"text": s.Y}}

	case KindLine:
		trace = map[string]any{
			"type": "scatter",
			"mode": "lines",
			"x":    labels,
			"y":    values,
		}
		layout["xaxis"] = map[string]any{"title": map[string]any{"text": s.X}}
		layout["yaxis"] = map[string]any{"title": map[string]any{"text": s.Y}}

	case KindScatterGeo:
		trace = map[string]any{
			"type":         "scattergeo",
			"locationmode": "country names",
			"locations":    labels,
			"text":         labels,
			"marker": map[string]any{
				"size":       values,
				"sizemode":   "area",
				"sizeref":    geoSizeRef(values),
				"color":      values,
				"colorscale": s.ColorScale,
				"showscale":  true,
				"colorbar":   map[string]any{"title": map[string]any{"text": s.Color}},
			},
		}
		layout["geo"] = map[string]any{"projection": map[string]any{"type": "natural earth"}}

	case KindHeatmap:
		trace = map[string]any{
			"type":       "heatmap",
			"colorscale": s.ColorScale,
			"colorbar":   map[string]any{"title": map[string]any{"text": s.Color}},
		}
		if s.Heatmap != nil {
			trace["x"] = s.Heatmap.X
			trace["y"] = s.Heatmap.Y
			trace["z"] = s.Heatmap.Z
		}
		layout["xaxis"] = map[string]any{"title": map[string]any{"text": s.X}, "tickangle": 45}
		layout["yaxis"] = map[string]any{"title": map[string]any{"text": s.Y}}
	}

	fig := Figure{Data: []map[string]any{}, Layout: layout}
	if trace != nil {
		fig.Data = append(fig.Data, trace)
	}
	return fig
}

// JSON returns the figure encoded for embedding in a page.
func (f Figure) JSON() ([]byte, error) {
	return json.Marshal(f)
}

func geoSizeRef(values []float64) float64 {
	max := 0.0
	for _, v := range values {
		max = math.Max(max, v)
	}
	if max == 0 {
		return 1
	}
	return 2 * max / (geoMaxMarker * geoMaxMarker)
}
