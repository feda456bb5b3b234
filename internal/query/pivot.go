package query

import (
	"fmt"
	"sort"
)

// Matrix is a two-column Table reshaped into a grid. Cells without any
// observation are nil rather than zero: "no data" is not "no viewers".
type Matrix struct {
	RowColumn   string   `json:"row_column"`
	ColColumn   string   `json:"col_column"`
	ValueColumn string   `json:"value_column"`
	Rows        []string `json:"rows"`
	Cols        []string `json:"cols"`
	Cells       [][]*int `json:"cells"`
}

// Pivot reshapes a two-column table into a grid with rowColumn keys as rows
// and colColumn keys as columns. Both key sets are sorted ascending.
func Pivot(t *Table, rowColumn, colColumn string) (*Matrix, error) {
	if len(t.GroupColumns) != 2 {
		return nil, ErrPivotShape
	}
	ri, ci := indexOf(t.GroupColumns, rowColumn), indexOf(t.GroupColumns, colColumn)
	if ri < 0 || ci < 0 || ri == ci {
		return nil, fmt.Errorf("%w: %q x %q over %v", ErrPivotShape, rowColumn, colColumn, t.GroupColumns)
	}

	rowIdx := make(map[string]int)
	colIdx := make(map[string]int)
	rowKeys, colKeys := []string{}, []string{}
	for _, r := range t.Rows {
		if _, ok := rowIdx[r.Keys[ri]]; !ok {
			rowIdx[r.Keys[ri]] = 0
			rowKeys = append(rowKeys, r.Keys[ri])
		}
		if _, ok := colIdx[r.Keys[ci]]; !ok {
			colIdx[r.Keys[ci]] = 0
			colKeys = append(colKeys, r.Keys[ci])
		}
	}
	sort.Strings(rowKeys)
	sort.Strings(colKeys)
	for i, k := range rowKeys {
		rowIdx[k] = i
	}
	for i, k := range colKeys {
		colIdx[k] = i
	}

	cells := make([][]*int, len(rowKeys))
	for i := range cells {
		cells[i] = make([]*int, len(colKeys))
	}
	for _, r := range t.Rows {
		count := r.Count
		cells[rowIdx[r.Keys[ri]]][colIdx[r.Keys[ci]]] = &count
	}

	return &Matrix{
		RowColumn:   rowColumn,
		ColColumn:   colColumn,
		ValueColumn: t.CountColumn,
		Rows:        rowKeys,
		Cols:        colKeys,
		Cells:       cells,
	}, nil
}

// At returns the count for a row/column key pair and whether it was observed.
func (m *Matrix) At(row, col string) (int, bool) {
	i := sort.SearchStrings(m.Rows, row)
	if i >= len(m.Rows) || m.Rows[i] != row {
		return 0, false
	}
	j := sort.SearchStrings(m.Cols, col)
	if j >= len(m.Cols) || m.Cols[j] != col {
		return 0, false
	}
	if m.Cells[i][j] == nil {
		return 0, false
	}
	return *m.Cells[i][j], true
}

// Empty reports whether the matrix has no cells.
func (m *Matrix) Empty() bool { return len(m.Rows) == 0 || len(m.Cols) == 0 }

func indexOf(items []string, item string) int {
	for i, v := range items {
		if v == item {
			return i
		}
	}
	return -1
}
