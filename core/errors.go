package core

import "errors"

var (
	// ErrInvalidGeometry reports sizing or placement input that cannot produce a shape
	ErrInvalidGeometry = errors.New("invalid geometry input")

	// ErrUnknownSeriesType reports a series type with no object constructor
	ErrUnknownSeriesType = errors.New("unknown series type")

	// ErrInvalidColor reports a color string that is not a hex color
	ErrInvalidColor = errors.New("invalid color")
)
