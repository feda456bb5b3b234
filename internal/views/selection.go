package views

import (
	"fmt"

	"funolympics/internal/dataset"
	"funolympics/internal/query"
)

// Selection holds the current value of every selector.
type Selection struct {
	Continent string `json:"continent,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Sport     string `json:"sport,omitempty"`
	Month     string `json:"month,omitempty"`
	Country   string `json:"country,omitempty"`
	Metric    string `json:"metric,omitempty"`

	// AllSports records that the sport selector was cleared, so a later
	// request without parameters keeps showing every sport instead of
	// falling back to the first one.
	AllSports bool `json:"all_sports,omitempty"`
}

// Get returns the value of a selector.
func (s Selection) Get(sel Selector) string {
	switch sel {
	case SelectContinent:
		return s.Continent
	case SelectGender:
		return s.Gender
	case SelectSport:
		return s.Sport
	case SelectMonth:
		return s.Month
	case SelectCountry:
		return s.Country
	case SelectMetric:
		return s.Metric
	}
	return ""
}

// Set updates the value of a selector.
func (s *Selection) Set(sel Selector, value string) {
	switch sel {
	case SelectContinent:
		s.Continent = value
	case SelectGender:
		s.Gender = value
	case SelectSport:
		s.Sport = value
		s.AllSports = false
	case SelectMonth:
		s.Month = value
	case SelectCountry:
		s.Country = value
	case SelectMetric:
		s.Metric = value
	}
}

// Clear empties a selector and remembers that it was cleared on purpose.
func (s *Selection) Clear(sel Selector) {
	s.Set(sel, "")
	if sel == SelectSport {
		s.AllSports = true
	}
}

// IsCleared reports whether a selector was cleared with Clear.
func (s Selection) IsCleared(sel Selector) bool {
	return sel == SelectSport && s.AllSports
}

// Params are selector values taken from a request. A key that is present with
// an empty value clears a clearable selector; an absent key keeps the stored
// value.
type Params map[Selector]string

// CountryOptions returns the countries seen in a continent, in
// first-appearance order.
func CountryOptions(ds *dataset.Dataset, continent string) ([]string, error) {
	cols := ds.Columns()
	return query.Distinct(ds, cols.Country, query.Filters{cols.Continent: continent})
}

// Options returns the choices of one selector given the rest of the selection.
// Country depends on the selected continent.
func (s *Service) Options(sel Selector, current Selection) ([]string, error) {
	opts := s.ds.Options()
	switch sel {
	case SelectContinent:
		return opts.Continents, nil
	case SelectGender:
		return opts.Genders, nil
	case SelectSport:
		return opts.Sports, nil
	case SelectMonth:
		return opts.Months, nil
	case SelectCountry:
		return CountryOptions(s.ds, current.Continent)
	case SelectMetric:
		return s.metrics, nil
	}
	return nil, fmt.Errorf("%w: unknown selector %q", ErrInvalidSelection, sel)
}

// Resolve computes the selection a view is rendered with. Each selector takes
// the requested value, else the stored one if it is still valid, else the
// first option. A clearable selector that was cleared before stays cleared.
// Selectors the view does not show are left empty.
func (s *Service) Resolve(v View, params Params, stored Selection) (Selection, error) {
	var out Selection

	// Country must come after continent so the cascade sees the final continent.
	for _, sel := range AllSelectors {
		if !v.Has(sel) {
			continue
		}

		options, err := s.Options(sel, out)
		if err != nil {
			return Selection{}, err
		}

		requested, present := params[sel]
		switch {
		case present && requested == "" && v.IsClearable(sel):
			out.Clear(sel)
			continue

		case requested != "" && contains(options, requested):
			out.Set(sel, requested)
			continue

		case requested != "" && sel != SelectCountry:
			if sel == SelectMetric {
				return Selection{}, fmt.Errorf("%w: %q", ErrInvalidMetric, requested)
			}
			return Selection{}, fmt.Errorf("%w: %s %q", ErrInvalidSelection, sel, requested)
		}

		if v.IsClearable(sel) && stored.IsCleared(sel) {
			out.Clear(sel)
			continue
		}
		if prev := stored.Get(sel); prev != "" && contains(options, prev) {
			out.Set(sel, prev)
			continue
		}
		out.Set(sel, first(options))
	}

	return out, nil
}

// Cascade recomputes the country choices after a continent change. The
// current country is kept when still offered, otherwise the first option
// is taken, or empty when the continent has none.
func (s *Service) Cascade(continent, country string) (string, []string, error) {
	options, err := CountryOptions(s.ds, continent)
	if err != nil {
		return "", nil, err
	}
	if contains(options, country) {
		return country, options, nil
	}
	return first(options), options, nil
}

func first(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[0]
}

func contains(items []string, item string) bool {
	for _, v := range items {
		if v == item {
			return true
		}
	}
	return false
}

// Values returns the selection of the given selectors keyed by selector name.
func (s Selection) Values(selectors []Selector) map[string]string {
	out := make(map[string]string, len(selectors))
	for _, sel := range selectors {
		out[string(sel)] = s.Get(sel)
	}
	return out
}

// Merge copies the given selectors from other into s, cleared state included.
func (s *Selection) Merge(other Selection, selectors []Selector) {
	for _, sel := range selectors {
		if other.IsCleared(sel) {
			s.Clear(sel)
			continue
		}
		s.Set(sel, other.Get(sel))
	}
}
