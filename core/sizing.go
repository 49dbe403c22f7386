package core

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// GrowAxis names the dimension(s) of a solid that follow the data amount
type GrowAxis string

const (
	GrowHeight GrowAxis = "height"
	GrowWidth  GrowAxis = "width"
	GrowBoth   GrowAxis = "both"
)

// ParseGrowAxis validates a grow axis name
func ParseGrowAxis(s string) (GrowAxis, error) {
	switch a := GrowAxis(s); a {
	case GrowHeight, GrowWidth, GrowBoth:
		return a, nil
	}
	return "", fmt.Errorf("%w: unknown grow axis %q", ErrInvalidGeometry, s)
}

// GrowOptions are the sizing inputs of a growable solid
type GrowOptions struct {
	Axis   GrowAxis
	Girth  float64
	Height float64
	Amount float64
	Scale  float64
}

// GrowScale returns the solid's extents (x, y, z), z being the outward axis.
// Amount times scale goes to the grown axes, the rest keep girth/height.
func GrowScale(o GrowOptions) (r3.Vector, error) {
	m := o.Amount * o.Scale

	switch o.Axis {
	case GrowHeight:
		return r3.Vector{X: o.Girth, Y: o.Girth, Z: m}, nil
	case GrowWidth:
		return r3.Vector{X: m, Y: m, Z: o.Height}, nil
	case GrowBoth:
		return r3.Vector{X: m, Y: m, Z: m}, nil
	}
	return r3.Vector{}, fmt.Errorf("%w: unknown grow axis %q", ErrInvalidGeometry, o.Axis)
}
