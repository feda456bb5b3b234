// Package dataset loads the viewership records into an immutable in-memory
// dataframe and derives the selector option lists from it.
package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog/log"
)

const (
	// DateLayout is the only accepted layout for the date column.
	DateLayout = "2006-01-02"

	// MonthColumn holds the English month name derived from the date column.
	MonthColumn = "Month"
)

// naValues are read as missing. "NA" is deliberately absent: it is a
// legitimate continent code.
var naValues = []string{"", "NaN", "N/A", "null"}

// Columns names the dataset headers the dashboard relies on.
type Columns struct {
	Date      string
	Country   string
	Continent string
	Gender    string
	Sport     string
}

// DefaultColumns returns the header names of the published dataset.
func DefaultColumns() Columns {
	return Columns{
		Date:      "Date",
		Country:   "Country",
		Continent: "Continent",
		Gender:    "Gender",
		Sport:     "Sport Viewed",
	}
}

func (c Columns) required() []string {
	return []string{c.Date, c.Country, c.Continent, c.Gender, c.Sport}
}

// Options are the selector option lists, in first-appearance order.
type Options struct {
	Months     []string `json:"months"`
	Continents []string `json:"continents"`
	Genders    []string `json:"genders"`
	Sports     []string `json:"sports"`
}

// Dataset is the loaded, read-only viewership table.
type Dataset struct {
	frame    dataframe.DataFrame
	columns  Columns
	options  Options
	path     string
	loadedAt time.Time
}

// Option configures Load.
type Option func(*loadConfig)

type loadConfig struct {
	columns Columns
	sheet   string
}

// WithColumns overrides the expected header names.
func WithColumns(columns Columns) Option {
	return func(c *loadConfig) {
		c.columns = columns
	}
}

// WithSheet selects the worksheet of an .xlsx dataset.
func WithSheet(sheet string) Option {
	return func(c *loadConfig) {
		c.sheet = sheet
	}
}

// Load reads a .csv or .xlsx dataset from disk.
func Load(path string, opts ...Option) (*Dataset, error) {
	cfg := &loadConfig{columns: DefaultColumns()}
	for _, opt := range opts {
		opt(cfg)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat dataset: %w", err)
	}

	var (
		frame dataframe.DataFrame
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		frame, err = readXLSX(path, cfg.sheet, cfg.columns.Date)
	default:
		frame, err = readCSVFile(path)
	}
	if err != nil {
		return nil, err
	}

	ds, err := FromFrame(frame, cfg.columns)
	if err != nil {
		return nil, err
	}
	ds.path = path

	log.Info().
		Str("path", path).
		Int("rows", ds.Len()).
		Int("sports", len(ds.options.Sports)).
		Int("continents", len(ds.options.Continents)).
		Msg("dataset loaded")

	return ds, nil
}

// ReadCSV builds a dataset from CSV content.
func ReadCSV(r io.Reader, columns Columns) (*Dataset, error) {
	frame, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	return FromFrame(frame, columns)
}

func readCSVFile(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return readCSV(f)
}

func readCSV(r io.Reader) (dataframe.DataFrame, error) {
	frame := dataframe.ReadCSV(r,
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

// FromFrame validates a dataframe, normalizes its date column and derives
// the month column and option lists.
func FromFrame(frame dataframe.DataFrame, columns Columns) (*Dataset, error) {
	if frame.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDataset, frame.Err)
	}

	names := frame.Names()
	for _, col := range columns.required() {
		if !contains(names, col) {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	dateCol := frame.Col(columns.Date)
	raw := dateCol.Records()
	missing := dateCol.IsNaN()

	dates := make([]string, len(raw))
	months := make([]string, len(raw))
	for i, value := range raw {
		if missing[i] {
			dates[i] = "NaN"
			months[i] = "NaN"
			continue
		}
		t, err := time.Parse(DateLayout, strings.TrimSpace(value))
		if err != nil {
			// +2 accounts for the header line and 1-based numbering
			return nil, fmt.Errorf("%w: row %d: %q", ErrInvalidDate, i+2, value)
		}
		dates[i] = t.Format(DateLayout)
		months[i] = MonthName(t)
	}

	frame = frame.
		Mutate(series.New(dates, series.String, columns.Date)).
		Mutate(series.New(months, series.String, MonthColumn))
	if frame.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDataset, frame.Err)
	}

	ds := &Dataset{
		frame:    frame,
		columns:  columns,
		loadedAt: time.Now(),
	}
	ds.options = Options{
		Months:     distinct(frame.Col(MonthColumn)),
		Continents: distinct(frame.Col(columns.Continent)),
		Genders:    distinct(frame.Col(columns.Gender)),
		Sports:     distinct(frame.Col(columns.Sport)),
	}

	return ds, nil
}

// MonthName returns the English calendar month name of t.
func MonthName(t time.Time) string {
	return t.Month().String()
}

// Frame returns the underlying dataframe. Dataframe operations return new
// frames, so the dataset itself is never modified through it.
func (d *Dataset) Frame() dataframe.DataFrame { return d.frame }

// Len returns the number of records.
func (d *Dataset) Len() int { return d.frame.Nrow() }

// Columns returns the configured header names.
func (d *Dataset) Columns() Columns { return d.columns }

// Options returns the selector option lists computed at load.
func (d *Dataset) Options() Options { return d.options }

// Path returns the file the dataset was read from, empty for in-memory data.
func (d *Dataset) Path() string { return d.path }

// LoadedAt returns when the dataset was built.
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

// HasColumn reports whether the dataset has a column with the given name.
func (d *Dataset) HasColumn(name string) bool {
	return contains(d.frame.Names(), name)
}

// Distinct returns the non-missing values of a column in first-appearance order.
func (d *Dataset) Distinct(column string) ([]string, error) {
	if !d.HasColumn(column) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return distinct(d.frame.Col(column)), nil
}

func distinct(s series.Series) []string {
	records := s.Records()
	missing := s.IsNaN()

	seen := make(map[string]bool, len(records))
	var out []string
	for i, v := range records {
		if missing[i] || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func contains(items []string, item string) bool {
	for _, v := range items {
		if v == item {
			return true
		}
	}
	return false
}
