// Package query filters the viewership dataset by equality predicates and
// counts the remaining records per group.
package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"funolympics/internal/dataset"
)

// DefaultCountColumn names the count column when a GroupSpec leaves it empty.
const DefaultCountColumn = "Viewership"

// Filters maps a column name to the value a record must equal.
// Predicates are AND-combined; an empty set keeps every record.
type Filters map[string]string

// Order controls the row order of a Table.
type Order string

const (
	// OrderKeyAsc sorts rows by their group keys, column by column.
	OrderKeyAsc Order = "key_asc"
	// OrderCountDesc sorts rows by count, largest first, then by key.
	OrderCountDesc Order = "count_desc"
)

// ParseOrder validates an order name. Empty means OrderKeyAsc.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case "", OrderKeyAsc:
		return OrderKeyAsc, nil
	case OrderCountDesc:
		return OrderCountDesc, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOrder, s)
	}
}

// GroupSpec describes how filtered records are partitioned and counted.
type GroupSpec struct {
	Columns     []string
	CountColumn string
	Order       Order
}

// Row is one group and the number of records in it.
type Row struct {
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
}

// Table is the grouped count result.
type Table struct {
	GroupColumns []string `json:"group_columns"`
	CountColumn  string   `json:"count_column"`
	Rows         []Row    `json:"rows"`
}

// Empty reports whether no group survived filtering.
func (t *Table) Empty() bool { return len(t.Rows) == 0 }

// Total returns the sum of all group counts.
func (t *Table) Total() int {
	total := 0
	for _, r := range t.Rows {
		total += r.Count
	}
	return total
}

// Run filters ds and counts records per group.
func Run(ds *dataset.Dataset, filters Filters, group GroupSpec) (*Table, error) {
	if len(group.Columns) < 1 || len(group.Columns) > 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGroup, len(group.Columns))
	}
	for _, col := range group.Columns {
		if !ds.HasColumn(col) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
	}
	order, err := ParseOrder(string(group.Order))
	if err != nil {
		return nil, err
	}

	frame, err := Apply(ds, filters)
	if err != nil {
		return nil, err
	}

	countColumn := group.CountColumn
	if countColumn == "" {
		countColumn = DefaultCountColumn
	}

	table := &Table{
		GroupColumns: append([]string(nil), group.Columns...),
		CountColumn:  countColumn,
		Rows:         countGroups(frame, group.Columns),
	}
	sortRows(table.Rows, order)
	return table, nil
}

// Apply returns the records of ds matching every predicate.
func Apply(ds *dataset.Dataset, filters Filters) (dataframe.DataFrame, error) {
	frame := ds.Frame()
	if len(filters) == 0 {
		return frame, nil
	}

	// Sorted so the filter list is stable; the result does not depend on it.
	columns := make([]string, 0, len(filters))
	for col := range filters {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	fs := make([]dataframe.F, 0, len(columns))
	for _, col := range columns {
		if !ds.HasColumn(col) {
			return dataframe.DataFrame{}, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
		fs = append(fs, dataframe.F{
			Colname:    col,
			Comparator: series.Eq,
			Comparando: filters[col],
		})
	}

	filtered := frame.FilterAggregation(dataframe.And, fs...)
	if filtered.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("filter failed: %w", filtered.Err)
	}
	return filtered, nil
}

// Distinct returns the non-missing values of column among the records
// matching filters, in first-appearance order.
func Distinct(ds *dataset.Dataset, column string, filters Filters) ([]string, error) {
	if !ds.HasColumn(column) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	frame, err := Apply(ds, filters)
	if err != nil {
		return nil, err
	}

	col := frame.Col(column)
	records := col.Records()
	missing := col.IsNaN()

	seen := make(map[string]bool)
	out := []string{}
	for i, v := range records {
		if missing[i] || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}

// countGroups partitions the frame by the given columns. Records with a
// missing key are dropped.
func countGroups(frame dataframe.DataFrame, columns []string) []Row {
	values := make([][]string, len(columns))
	missing := make([][]bool, len(columns))
	for i, col := range columns {
		s := frame.Col(col)
		values[i] = s.Records()
		missing[i] = s.IsNaN()
	}

	index := make(map[string]int)
	rows := []Row{}
	for r := 0; r < frame.Nrow(); r++ {
		keys := make([]string, len(columns))
		skip := false
		for i := range columns {
			if missing[i][r] {
				skip = true
				break
			}
			keys[i] = values[i][r]
		}
		if skip {
			continue
		}

		id := strings.Join(keys, "\x1f")
		if pos, ok := index[id]; ok {
			rows[pos].Count++
			continue
		}
		index[id] = len(rows)
		rows = append(rows, Row{Keys: keys, Count: 1})
	}
	return rows
}

func sortRows(rows []Row, order Order) {
	switch order {
	case OrderCountDesc:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Count != rows[j].Count {
				return rows[i].Count > rows[j].Count
			}
			return compareKeys(rows[i].Keys, rows[j].Keys) < 0
		})
	default:
		sort.SliceStable(rows, func(i, j int) bool {
			return compareKeys(rows[i].Keys, rows[j].Keys) < 0
		})
	}
}

func compareKeys(a, b []string) int {
	for i := range a {
		if c := compareValues(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// compareValues orders numerically when both values are numbers, so a
// Rating of "2" sorts before "10".
func compareValues(a, b string) int {
	x, errA := strconv.ParseFloat(a, 64)
	y, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return strings.Compare(a, b)
}
