package validation

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"funolympics/internal/models"
)

// ViewNamePattern defines the valid view name format: lowercase words joined by hyphens.
var ViewNamePattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)

// Limits on user-supplied query input.
const (
	MaxValueLength = 100
	MaxFilters     = 16
	MaxGroupBy     = 2
	MaxExportLimit = 100
)

// Query orders accepted by POST /api/query.
var validOrders = map[string]bool{
	"":           true,
	"key_asc":    true,
	"count_desc": true,
}

// ValidateViewName checks if a view name matches the allowed pattern.
func ValidateViewName(name string) bool {
	if name == "" || len(name) > 50 {
		return false
	}
	return ViewNamePattern.MatchString(name)
}

// ValidateSelectorValue checks a selector or filter value taken from a
// request. Empty values are allowed; they clear a selector.
func ValidateSelectorValue(value string) (bool, string) {
	if !utf8.ValidString(value) {
		return false, "value must be valid UTF-8"
	}
	if utf8.RuneCountInString(value) > MaxValueLength {
		return false, "value is too long"
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return false, "value must not contain control characters"
		}
	}
	return true, ""
}

// ValidateColumnName checks a column name taken from a request.
func ValidateColumnName(name string) (bool, string) {
	if name == "" {
		return false, "column name is required"
	}
	return ValidateSelectorValue(name)
}

// ValidateQueryRequest checks the shape of a query body before it reaches the
// query engine. Column existence is checked by the engine itself.
func ValidateQueryRequest(req *models.QueryRequest) (bool, string) {
	if req == nil {
		return false, "request body is required"
	}
	if len(req.GroupBy) == 0 || len(req.GroupBy) > MaxGroupBy {
		return false, "group_by must name one or two columns"
	}
	seen := make(map[string]bool, len(req.GroupBy))
	for _, col := range req.GroupBy {
		if ok, msg := ValidateColumnName(col); !ok {
			return false, "group_by: " + msg
		}
		if seen[col] {
			return false, "group_by must not repeat a column"
		}
		seen[col] = true
	}
	if req.Pivot && len(req.GroupBy) != 2 {
		return false, "pivot requires two group_by columns"
	}
	if len(req.Filters) > MaxFilters {
		return false, "too many filters"
	}
	for col, value := range req.Filters {
		if ok, msg := ValidateColumnName(col); !ok {
			return false, "filters: " + msg
		}
		if ok, msg := ValidateSelectorValue(value); !ok {
			return false, "filters[" + col + "]: " + msg
		}
	}
	if ok, msg := ValidateSelectorValue(req.CountColumn); !ok {
		return false, "count_column: " + msg
	}
	if !validOrders[req.Order] {
		return false, "order must be key_asc or count_desc"
	}
	return true, ""
}

// ClampLimit bounds a requested list size to (0, MaxExportLimit], using
// fallback when the request did not give a usable value.
func ClampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxExportLimit {
		return MaxExportLimit
	}
	return limit
}
