package query

import (
	"errors"

	"funolympics/internal/dataset"
)

var (
	// ErrUnknownColumn is returned when a filter or group names a column the
	// dataset does not have. A filter value that never occurs is not an error.
	ErrUnknownColumn = dataset.ErrUnknownColumn

	ErrInvalidGroup = errors.New("group must name one or two columns")
	ErrInvalidOrder = errors.New("unknown order")
	ErrPivotShape   = errors.New("pivot requires a two-column group")
)
