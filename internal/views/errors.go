package views

import "errors"

var (
	ErrUnknownView      = errors.New("unknown view")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrInvalidMetric    = errors.New("invalid engagement metric")
)
