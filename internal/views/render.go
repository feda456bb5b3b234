package views

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"funolympics/internal/chart"
	"funolympics/internal/dataset"
	"funolympics/internal/query"
)

const (
	countViewship   = "Viewship"
	countViewership = "Viewership"
	countEngagement = "Engagement"

	axisViewership = "Number of Viewership"
	allSports      = "all sports"
)

// Result is a rendered view: the resolved selection, the options offered for
// each selector, the aggregated data and its chart.
type Result struct {
	View      View                  `json:"view"`
	Selection Selection             `json:"selection"`
	Options   map[Selector][]string `json:"options"`
	Table     *query.Table          `json:"table,omitempty"`
	Matrix    *query.Matrix         `json:"matrix,omitempty"`
	Chart     *chart.Spec           `json:"chart,omitempty"`
	Records   int                   `json:"records"`
	Summary   string                `json:"summary"`
}

// Empty reports whether the view has nothing to chart.
func (r *Result) Empty() bool {
	return r.Chart == nil || r.Chart.Empty()
}

// plan is the query and chart a view runs for a selection.
type plan struct {
	filters query.Filters
	group   query.GroupSpec
	pivot   bool
	labels  chart.Labels
}

// Render runs the view's query for sel and builds its chart. sel is expected
// to come from Resolve.
func (s *Service) Render(v View, sel Selection) (*Result, error) {
	res := &Result{
		View:      v,
		Selection: sel,
		Options:   make(map[Selector][]string, len(v.Selectors)),
	}
	for _, selector := range v.Selectors {
		opts, err := s.Options(selector, sel)
		if err != nil {
			return nil, err
		}
		res.Options[selector] = opts
	}

	if v.Name == Home {
		res.Summary = Landing
		return res, nil
	}

	p, err := s.plan(v, sel)
	if err != nil {
		return nil, err
	}

	table, err := query.Run(s.ds, p.filters, p.group)
	if err != nil {
		return nil, fmt.Errorf("failed to run %s query: %w", v.Name, err)
	}
	res.Table = table
	res.Records = table.Total()
	res.Summary = message.NewPrinter(language.English).Sprintf("%d of %d records", res.Records, s.ds.Len())

	if p.pivot {
		m, err := query.Pivot(table, p.group.Columns[0], p.group.Columns[1])
		if err != nil {
			return nil, err
		}
		res.Matrix = m
		res.Chart = chart.FromMatrix(m, p.labels)
		return res, nil
	}

	spec, err := chart.FromTable(v.Chart, table, p.labels)
	if err != nil {
		return nil, err
	}
	res.Chart = spec
	return res, nil
}

func (s *Service) plan(v View, sel Selection) (plan, error) {
	cols := s.ds.Columns()

	switch v.Name {
	case Location:
		return plan{
			filters: query.Filters{cols.Sport: sel.Sport},
			group:   query.GroupSpec{Columns: []string{cols.Country}, CountColumn: countViewship},
			labels: chart.Labels{
				Title:      fmt.Sprintf("Distribution of Viewship of %s by Geographic Location", sel.Sport),
				ColorScale: "Viridis",
			},
		}, nil

	case Engagement:
		filters := query.Filters{dataset.MonthColumn: sel.Month}
		sport := sel.Sport
		if sport == "" {
			sport = allSports
		} else {
			filters[cols.Sport] = sel.Sport
		}
		return plan{
			filters: filters,
			group:   query.GroupSpec{Columns: []string{cols.Date}, CountColumn: countViewership},
			labels: chart.Labels{
				Title: fmt.Sprintf("Viewer Engagement Trends for %s (%s)", sel.Month, sport),
			},
		}, nil

	case Gender:
		return plan{
			filters: query.Filters{
				cols.Continent: sel.Continent,
				cols.Gender:    sel.Gender,
				cols.Sport:     sel.Sport,
			},
			group: query.GroupSpec{
				Columns:     []string{cols.Country},
				CountColumn: countViewership,
				Order:       query.OrderCountDesc,
			},
			labels: chart.Labels{
				Title: fmt.Sprintf("%s viewers of %s in %s", sel.Gender, sel.Sport, sel.Continent),
			},
		}, nil

	case Preferences:
		return plan{
			filters: query.Filters{cols.Country: sel.Country},
			group: query.GroupSpec{
				Columns:     []string{cols.Sport},
				CountColumn: countViewership,
				Order:       query.OrderCountDesc,
			},
			labels: chart.Labels{
				Title: fmt.Sprintf("Viewer Preferences in %s", sel.Country),
				X:     cols.Sport,
				Y:     axisViewership,
			},
		}, nil

	case ViewerEngagement:
		if !contains(s.metrics, sel.Metric) {
			return plan{}, fmt.Errorf("%w: %q", ErrInvalidMetric, sel.Metric)
		}
		return plan{
			group: query.GroupSpec{Columns: []string{sel.Metric}, CountColumn: countViewership},
			labels: chart.Labels{
				Title: fmt.Sprintf("Viewership by %s", sel.Metric),
				X:     sel.Metric,
				Y:     axisViewership,
			},
		}, nil

	case Concurrent:
		return plan{
			filters: query.Filters{dataset.MonthColumn: sel.Month},
			group:   query.GroupSpec{Columns: []string{cols.Sport, cols.Date}, CountColumn: countEngagement},
			pivot:   true,
			labels: chart.Labels{
				Title:      fmt.Sprintf("Distribution of Concurrent Sporting Events for %s by Viewer Engagement", sel.Month),
				X:          cols.Date,
				Y:          cols.Sport,
				ColorScale: "Blues",
			},
		}, nil
	}

	return plan{}, ErrUnknownView
}

// SelectorLabel is the caption shown next to a selector.
func SelectorLabel(sel Selector) string {
	switch sel {
	case SelectSport:
		return "Select Sporting Event"
	case SelectMetric:
		return "Select Engagement Metric"
	}
	return "Select " + cases.Title(language.English).String(string(sel))
}
