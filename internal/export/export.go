// Package export writes query results as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"funolympics/internal/query"
)

// ContentType is the MIME type of an .xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const maxSheetName = 31

// WriteTable writes a grouped count table: one column per group column, then
// the count column.
func WriteTable(w io.Writer, sheet string, t *query.Table) error {
	header := append(append([]string{}, t.GroupColumns...), t.CountColumn)

	rows := make([][]any, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := make([]any, 0, len(r.Keys)+1)
		for _, k := range r.Keys {
			row = append(row, k)
		}
		row = append(row, r.Count)
		rows = append(rows, row)
	}

	return write(w, sheet, header, rows)
}

// WriteMatrix writes a pivoted matrix. Cells without observations are left
// blank.
func WriteMatrix(w io.Writer, sheet string, m *query.Matrix) error {
	header := append([]string{m.RowColumn}, m.Cols...)

	rows := make([][]any, 0, len(m.Rows))
	for _, key := range m.Rows {
		row := make([]any, 0, len(m.Cols)+1)
		row = append(row, key)
		for _, col := range m.Cols {
			if count, ok := m.At(key, col); ok {
				row = append(row, count)
			} else {
				row = append(row, nil)
			}
		}
		rows = append(rows, row)
	}

	return write(w, sheet, header, rows)
}

func write(w io.Writer, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	name := SheetName(sheet)
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(name, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(name, "A1", last, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for rowIdx, row := range rows {
		for colIdx, val := range row {
			if val == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(name, cell, val); err != nil {
				return fmt.Errorf("failed to write row %d: %w", rowIdx+1, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SheetName makes s usable as a worksheet name.
func SheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(s))
	s = strings.Trim(s, "'")

	if s == "" {
		return "Sheet1"
	}
	if r := []rune(s); len(r) > maxSheetName {
		s = string(r[:maxSheetName])
	}
	return s
}
