// Package views defines the dashboard views: which selectors each one shows,
// how a selection turns into a query, and which chart draws the result.
package views

import (
	"funolympics/internal/chart"
	"funolympics/internal/dataset"
)

// View names.
const (
	Home             = "home"
	Location         = "location"
	Engagement       = "engagement"
	Gender           = "gender"
	Preferences      = "preferences"
	ViewerEngagement = "viewer-engagement"
	Concurrent       = "concurrent"
)

// Selector identifies one dropdown.
type Selector string

const (
	SelectContinent Selector = "continent"
	SelectGender    Selector = "gender"
	SelectSport     Selector = "sport"
	SelectMonth     Selector = "month"
	SelectCountry   Selector = "country"
	SelectMetric    Selector = "metric"
)

// AllSelectors lists every selector in form order.
var AllSelectors = []Selector{
	SelectContinent, SelectCountry, SelectGender, SelectSport, SelectMonth, SelectMetric,
}

// View describes one dashboard page.
type View struct {
	Name      string     `json:"name"`
	Label     string     `json:"label"`
	Heading   string     `json:"heading"`
	Selectors []Selector `json:"selectors"`
	Clearable []Selector `json:"clearable,omitempty"`
	Chart     chart.Kind `json:"chart,omitempty"`
}

// Has reports whether the view shows the selector.
func (v View) Has(s Selector) bool {
	for _, sel := range v.Selectors {
		if sel == s {
			return true
		}
	}
	return false
}

// IsClearable reports whether the selector may be left empty.
func (v View) IsClearable(s Selector) bool {
	for _, sel := range v.Clearable {
		if sel == s {
			return true
		}
	}
	return false
}

// Landing is the text shown when no view is selected.
const Landing = "Select a requirement to display."

var catalog = []View{
	{
		Name:    Home,
		Label:   "Home",
		Heading: "FunOlympic Games Analysis Dashboard",
	},
	{
		Name:      Location,
		Label:     "Viewship by Location",
		Heading:   "Distribution of Viewship of Each Sporting Event by Geographic Location",
		Selectors: []Selector{SelectSport},
		Chart:     chart.KindScatterGeo,
	},
	// A cleared sport shows every sport for the month, titled "all sports",
	// rather than matching no records.
	{
		Name:      Engagement,
		Label:     "Engagement Trends",
		Heading:   "Viewer Engagement Trends Over Time",
		Selectors: []Selector{SelectMonth, SelectSport},
		Clearable: []Selector{SelectSport},
		Chart:     chart.KindLine,
	},
	{
		Name:      Gender,
		Label:     "Gender Analysis",
		Heading:   "Gender-specific Preferences and Behaviours",
		Selectors: []Selector{SelectContinent, SelectGender, SelectSport},
		Chart:     chart.KindPie,
	},
	{
		Name:      Preferences,
		Label:     "Preferences Analysis",
		Heading:   "Viewer Preferences for Different Sports Events per country per continent",
		Selectors: []Selector{SelectContinent, SelectCountry},
		Chart:     chart.KindBar,
	},
	{
		Name:      ViewerEngagement,
		Label:     "Viewer Engagement",
		Heading:   "Viewer Engagement Patterns",
		Selectors: []Selector{SelectMetric},
		Chart:     chart.KindBar,
	},
	{
		Name:      Concurrent,
		Label:     "Concurrent Events",
		Heading:   "Distribution of Concurrent Sporting Events by Viewer Engagement",
		Selectors: []Selector{SelectMonth},
		Chart:     chart.KindHeatmap,
	},
}

// Service answers view requests against one dataset.
type Service struct {
	ds       *dataset.Dataset
	metrics  []string
	disabled map[string]bool
}

// NewService creates a view service. metrics are the engagement columns the
// viewer-engagement view may group by; disabled names views to hide.
func NewService(ds *dataset.Dataset, metrics []string, disabled []string) *Service {
	off := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		if name != Home {
			off[name] = true
		}
	}

	// Only metrics the dataset actually carries are offered.
	var available []string
	for _, m := range metrics {
		if ds.HasColumn(m) {
			available = append(available, m)
		}
	}

	return &Service{
		ds:       ds,
		metrics:  available,
		disabled: off,
	}
}

// Dataset returns the dataset the service reads.
func (s *Service) Dataset() *dataset.Dataset { return s.ds }

// Metrics returns the engagement metrics offered by the viewer-engagement view.
func (s *Service) Metrics() []string { return s.metrics }

// Views returns the enabled views in navigation order, home first.
func (s *Service) Views() []View {
	out := make([]View, 0, len(catalog))
	for _, v := range catalog {
		if !s.disabled[v.Name] {
			out = append(out, v)
		}
	}
	return out
}

// Lookup finds an enabled view by name.
func (s *Service) Lookup(name string) (View, error) {
	if s.disabled[name] {
		return View{}, ErrUnknownView
	}
	for _, v := range catalog {
		if v.Name == name {
			return v, nil
		}
	}
	return View{}, ErrUnknownView
}
