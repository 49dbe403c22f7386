package core

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
)

const (
	// DefaultArcSamples is the number of segments in a rendered arc line
	DefaultArcSamples = 100
	// DefaultArcLiftRate controls how fast the arc bows out with span
	DefaultArcLiftRate = 0.5
)

// ArcOptions tune arc construction. Zero values take the defaults.
type ArcOptions struct {
	Samples  int
	LiftRate float64
}

// ArcPath is a cubic Bezier between two surface points, lifted away from the
// planet in proportion to the span.
type ArcPath struct {
	From, To GeoPoint
	Color    Color

	Start    r3.Vector
	Control1 r3.Vector
	Control2 r3.Vector
	End      r3.Vector

	// Points is the sampled line handed to the renderer
	Points []r3.Vector
	// Span is the great-circle angle between the endpoints
	Span s1.Angle
}

// BuildArc constructs the curve between from and to. Endpoints sit on the
// surface; the controls at 40% and 60% of the chord are pushed outward from
// the origin by exp(liftRate * chord length).
func (m Mapper) BuildArc(from, to GeoPoint, color Color, opts ArcOptions) (*ArcPath, error) {
	if opts.Samples == 0 {
		opts.Samples = DefaultArcSamples
	}
	if opts.LiftRate == 0 {
		opts.LiftRate = DefaultArcLiftRate
	}
	if opts.Samples < 1 {
		return nil, fmt.Errorf("%w: arc samples %d must be positive", ErrInvalidGeometry, opts.Samples)
	}

	from.Height, to.Height = 0, 0
	a := m.ToSpatial(from)
	b := m.ToSpatial(to)

	lift := math.Exp(opts.LiftRate * Distance(a, b))
	if math.IsInf(lift, 0) || math.IsNaN(lift) {
		return nil, fmt.Errorf("%w: arc lift overflows for a chord of %v at rate %v",
			ErrInvalidGeometry, Distance(a, b), opts.LiftRate)
	}

	arc := &ArcPath{
		From:     from,
		To:       to,
		Color:    color,
		Start:    a,
		Control1: PointBetween(a, b, 0.4).Mul(lift),
		Control2: PointBetween(a, b, 0.6).Mul(lift),
		End:      b,
		Span:     SurfaceDistance(from, to),
	}

	if !finite(arc.Control1) || !finite(arc.Control2) {
		return nil, fmt.Errorf("%w: arc controls are not finite", ErrInvalidGeometry)
	}

	arc.Points = make([]r3.Vector, opts.Samples+1)
	for i := range arc.Points {
		p := arc.PointAt(float64(i) / float64(opts.Samples))
		if !finite(p) {
			return nil, fmt.Errorf("%w: arc sample %d is not finite", ErrInvalidGeometry, i)
		}
		arc.Points[i] = p
	}
	return arc, nil
}

func finite(v r3.Vector) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsInf(c, 0) || math.IsNaN(c) {
			return false
		}
	}
	return true
}

// PointAt evaluates the curve at progress in [0, 1]
func (a *ArcPath) PointAt(progress float64) r3.Vector {
	t := progress
	k := 1 - t

	b0 := k * k * k
	b1 := 3 * k * k * t
	b2 := 3 * k * t * t
	b3 := t * t * t

	return a.Start.Mul(b0).
		Add(a.Control1.Mul(b1)).
		Add(a.Control2.Mul(b2)).
		Add(a.End.Mul(b3))
}

// Apex returns the sampled point farthest from the planet center
func (a *ArcPath) Apex() r3.Vector {
	var apex r3.Vector
	for _, p := range a.Points {
		if p.Norm() > apex.Norm() {
			apex = p
		}
	}
	return apex
}
