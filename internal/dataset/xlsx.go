package dataset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
)

var excelSerialPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// excelEpoch is day zero of the 1900 date system as Excel counts it.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// readXLSX loads a worksheet into a string-typed dataframe. The first row is
// the header. Date cells stored as Excel serial numbers are rewritten to
// DateLayout.
func readXLSX(path, sheetName, dateColumn string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %v", ErrMalformedDataset, err)
	}
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: workbook has no sheets", ErrMalformedDataset)
	}

	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("%w: %q", ErrSheetNotFound, sheetName)
		}
		sheet = s
	}

	records := sheetRecords(sheet)
	if len(records) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: sheet %q is empty", ErrMalformedDataset, sheet.Name)
	}

	dateIdx := -1
	for i, h := range records[0] {
		if h == dateColumn {
			dateIdx = i
			break
		}
	}
	if dateIdx >= 0 {
		for _, row := range records[1:] {
			row[dateIdx] = normalizeExcelDate(row[dateIdx])
		}
	}

	frame := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	if frame.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %v", ErrMalformedDataset, frame.Err)
	}
	return frame, nil
}

// sheetRecords converts sheet rows to equally sized string records,
// skipping blank rows.
func sheetRecords(sheet *xlsx.Sheet) [][]string {
	var header []string
	var records [][]string
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		values := make([]string, 0, len(row.Cells))
		blank := true
		for _, cell := range row.Cells {
			v := strings.TrimSpace(cell.Value)
			if v != "" {
				blank = false
			}
			values = append(values, v)
		}
		if blank {
			continue
		}

		if header == nil {
			header = values
			records = append(records, header)
			continue
		}

		record := make([]string, len(header))
		copy(record, values)
		records = append(records, record)
	}
	return records
}

// normalizeExcelDate turns an Excel serial day number into DateLayout and
// leaves any other value untouched.
func normalizeExcelDate(value string) string {
	if !excelSerialPattern.MatchString(value) {
		return value
	}
	days, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	return excelEpoch.AddDate(0, 0, int(days)).Format(DateLayout)
}
