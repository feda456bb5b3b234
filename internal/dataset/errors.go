package dataset

import "errors"

// Load error sentinels. Any of them is fatal at startup.
var (
	ErrDatasetNotFound  = errors.New("dataset file not found")
	ErrMalformedDataset = errors.New("dataset could not be parsed")
	ErrMissingColumn    = errors.New("dataset is missing a required column")
	ErrInvalidDate      = errors.New("date does not match YYYY-MM-DD")
	ErrSheetNotFound    = errors.New("worksheet not found")
	ErrUnknownColumn    = errors.New("unknown column")
)
