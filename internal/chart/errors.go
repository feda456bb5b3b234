package chart

import "errors"

var (
	ErrUnsupportedKind = errors.New("unsupported chart kind")
	ErrEmptyChart      = errors.New("chart has no data")
	ErrShape           = errors.New("result shape does not fit chart")
)
