package db

import "errors"

// Domain-level database error sentinels.
var (
	// Export errors
	ErrInvalidExport = errors.New("export record needs a view and a format")
)
