package dataset

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"funolympics/internal/testutil"
)

func TestLoad_DerivesMonthAndOptions(t *testing.T) {
	path := testutil.WriteCSV(t, testutil.Header, testutil.SampleRows)

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if ds.Len() != len(testutil.SampleRows) {
		t.Errorf("Len() = %d, want %d", ds.Len(), len(testutil.SampleRows))
	}
	if ds.Path() != path {
		t.Errorf("Path() = %q, want %q", ds.Path(), path)
	}

	opts := ds.Options()
	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"months", opts.Months, []string{"January", "February"}},
		{"continents", opts.Continents, []string{"North America", "Europe", "Africa"}},
		{"genders", opts.Genders, []string{"Male", "Female"}},
		{"sports", opts.Sports, []string{"Swimming", "Athletics", "Cycling"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	months := ds.Frame().Col(MonthColumn).Records()
	if months[0] != "January" || months[6] != "February" {
		t.Errorf("Month column = %v", months)
	}
}

func TestMonthName(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-01-01", "January"},
		{"2024-02-29", "February"},
		{"2023-12-31", "December"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := time.Parse(DateLayout, tt.date)
			if err != nil {
				t.Fatal(err)
			}
			if got := MonthName(d); got != tt.want {
				t.Errorf("MonthName(%s) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		rows    [][]string
		wantErr error
	}{
		{
			name:    "invalid date format",
			header:  testutil.Header,
			rows:    [][]string{{"01/02/2024", "USA", "NA", "M", "Swimming", "Live", "5", "Positive"}},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "impossible date",
			header:  testutil.Header,
			rows:    [][]string{{"2024-02-30", "USA", "NA", "M", "Swimming", "Live", "5", "Positive"}},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "missing sport column",
			header:  []string{"Date", "Country", "Continent", "Gender"},
			rows:    [][]string{{"2024-01-01", "USA", "NA", "M"}},
			wantErr: ErrMissingColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteCSV(t, tt.header, tt.rows)
			_, err := Load(path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("Load() error = %v, want ErrDatasetNotFound", err)
	}
}

func TestLoad_MissingValuesExcludedFromOptions(t *testing.T) {
	rows := [][]string{
		{"2024-01-01", "USA", "NA", "M", "Swimming", "Live", "5", "Positive"},
		{"", "UK", "EU", "", "Swimming", "Live", "5", "Positive"},
		{"2024-03-01", "UK", "EU", "F", "", "Live", "5", "Positive"},
	}
	path := testutil.WriteCSV(t, testutil.Header, rows)

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	opts := ds.Options()
	if !reflect.DeepEqual(opts.Months, []string{"January", "March"}) {
		t.Errorf("Months = %v", opts.Months)
	}
	if !reflect.DeepEqual(opts.Genders, []string{"M", "F"}) {
		t.Errorf("Genders = %v", opts.Genders)
	}
	if !reflect.DeepEqual(opts.Sports, []string{"Swimming"}) {
		t.Errorf("Sports = %v", opts.Sports)
	}
}

func TestReadCSV_CustomColumns(t *testing.T) {
	csv := "Day,Nation,Region,Sex,Event\n2024-05-04,Japan,Asia,F,Judo\n"
	cols := Columns{Date: "Day", Country: "Nation", Continent: "Region", Gender: "Sex", Sport: "Event"}

	ds, err := ReadCSV(strings.NewReader(csv), cols)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if got := ds.Options().Months; !reflect.DeepEqual(got, []string{"May"}) {
		t.Errorf("Months = %v, want [May]", got)
	}
	if ds.Columns().Sport != "Event" {
		t.Errorf("Columns().Sport = %q", ds.Columns().Sport)
	}
}

func TestDistinct(t *testing.T) {
	path := testutil.WriteCSV(t, testutil.Header, testutil.SampleRows)
	ds, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	got, err := ds.Distinct("Country")
	if err != nil {
		t.Fatalf("Distinct() error = %v", err)
	}
	want := []string{"USA", "Canada", "France", "Germany", "Kenya"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Distinct(Country) = %v, want %v", got, want)
	}

	if _, err := ds.Distinct("Stadium"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Distinct(Stadium) error = %v, want ErrUnknownColumn", err)
	}
}

func TestLoad_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.xlsx")

	f := excelize.NewFile()
	rows := [][]any{
		{"Date", "Country", "Continent", "Gender", "Sport Viewed"},
		{45292, "USA", "NA", "M", "Swimming"}, // 2024-01-01 as an Excel serial
		{"2024-02-01", "UK", "EU", "F", "Running"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	dates := ds.Frame().Col("Date").Records()
	if !reflect.DeepEqual(dates, []string{"2024-01-01", "2024-02-01"}) {
		t.Errorf("Date column = %v", dates)
	}
	if !reflect.DeepEqual(ds.Options().Months, []string{"January", "February"}) {
		t.Errorf("Months = %v", ds.Options().Months)
	}

	if _, err := Load(path, WithSheet("Missing")); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("Load(WithSheet) error = %v, want ErrSheetNotFound", err)
	}
}

func TestNormalizeExcelDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"45292", "2024-01-01"},
		{"45292.5", "2024-01-01"},
		{"2024-01-01", "2024-01-01"},
		{"", ""},
		{"soon", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := normalizeExcelDate(tt.in); got != tt.want {
				t.Errorf("normalizeExcelDate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
