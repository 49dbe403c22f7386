// Package compositor bakes static surface solids into a single geometry batch.
//
// Merging is one way. A merged solid has no identity inside the batch: it
// cannot be looked up, moved or removed. To change one, edit the retained
// specs and Rebuild the whole batch.
package compositor

import (
	"fmt"
	"log/slog"

	"github.com/golang/geo/r3"

	"worldview/core"
	"worldview/mesh"
	"worldview/primitives"
)

// Kind is the shape of a static solid
type Kind string

const (
	Cube     Kind = "cube"
	Cylinder Kind = "cylinder"
	Cone     Kind = "cone"
)

// SolidSpec is everything needed to build and place one solid
type SolidSpec struct {
	Kind   Kind
	Anchor core.GeoPoint
	Color  core.Color
	// Size holds the x, y, z extents from core.GrowScale. For cylinders x is
	// the top radius and y the bottom radius; for cones y is the base radius.
	Size r3.Vector
}

// Solid is a built, not yet placed, solid. It is consumed by MergeStatic.
type Solid struct {
	spec     SolidSpec
	geometry mesh.Geometry
}

// NewSolid builds the geometry for spec
func NewSolid(spec SolidSpec) (Solid, error) {
	var g mesh.Geometry
	s := spec.Size
	if s.X < 0 || s.Y < 0 || s.Z < 0 {
		return Solid{}, fmt.Errorf("%w: negative %s size %v", core.ErrInvalidGeometry, spec.Kind, s)
	}

	switch spec.Kind {
	case Cube:
		g = primitives.Box(s.X, s.Y, s.Z)
	case Cylinder:
		g = primitives.Cylinder(s.X, s.Y, s.Z, primitives.DefaultRadialSegments)
	case Cone:
		g = primitives.Cone(s.Y, s.Z, primitives.DefaultRadialSegments)
	default:
		return Solid{}, fmt.Errorf("%w: %q is not a static solid", core.ErrUnknownSeriesType, spec.Kind)
	}
	g.SetColor(spec.Color)

	return Solid{spec: spec, geometry: g}, nil
}

// VertexCount reports the size of the solid's geometry
func (s Solid) VertexCount() int {
	return s.geometry.VertexCount()
}

// Compositor accumulates merged solids
type Compositor struct {
	mapper  core.Mapper
	batch   mesh.Geometry
	specs   []SolidSpec
	version uint64
	log     *slog.Logger
}

// New returns an empty compositor placing solids with mapper
func New(mapper core.Mapper, log *slog.Logger) *Compositor {
	if log == nil {
		log = slog.Default()
	}
	return &Compositor{mapper: mapper, log: log}
}

// MergeStatic seats the solid on the surface at its anchor, facing outward,
// and appends its transformed geometry to the batch.
func (c *Compositor) MergeStatic(s Solid) error {
	zOffset, err := c.seatOffset(s.spec)
	if err != nil {
		return err
	}

	anchor := s.spec.Anchor
	anchor.Height = zOffset
	position := c.mapper.ToSpatial(anchor)
	orientation := core.LookAwayFrom(r3.Vector{}, position)

	c.batch.Merge(s.geometry, mesh.Compose(position, orientation, 1))
	c.specs = append(c.specs, s.spec)
	c.version++

	c.log.Debug("merged solid",
		"kind", s.spec.Kind,
		"lat", s.spec.Anchor.Lat,
		"lon", s.spec.Anchor.Lon,
		"vertices", s.geometry.VertexCount())
	return nil
}

// seatOffset lifts the pivot by half the solid's height, minus the sag of
// the sphere under its footprint.
func (c *Compositor) seatOffset(spec SolidSpec) (float64, error) {
	var girth float64
	switch spec.Kind {
	case Cube:
		girth = spec.Size.X
	case Cylinder:
		girth = 2 * spec.Size.X
	case Cone:
		girth = 2 * spec.Size.Y
	}

	sag, err := c.mapper.SurfaceOffset(girth)
	if err != nil {
		return 0, fmt.Errorf("seat %s at (%v, %v): %w", spec.Kind, spec.Anchor.Lat, spec.Anchor.Lon, err)
	}
	return spec.Size.Z/2 - sag, nil
}

// Batch returns a copy of the merged geometry
func (c *Compositor) Batch() mesh.Geometry {
	return c.batch.Clone()
}

// Version changes whenever the batch changes
func (c *Compositor) Version() uint64 {
	return c.version
}

// Len returns the number of merged solids
func (c *Compositor) Len() int {
	return len(c.specs)
}

// Specs returns the parameters of every merged solid, in merge order
func (c *Compositor) Specs() []SolidSpec {
	return append([]SolidSpec(nil), c.specs...)
}

// Rebuild discards the batch and merges specs from scratch. Specs that fail
// to build or seat are skipped; the number skipped is returned.
func (c *Compositor) Rebuild(specs []SolidSpec) (failed int) {
	c.batch = mesh.Geometry{}
	c.specs = nil
	c.version++

	for _, spec := range specs {
		s, err := NewSolid(spec)
		if err == nil {
			err = c.MergeStatic(s)
		}
		if err != nil {
			failed++
			c.log.Warn("skipping solid during rebuild", "kind", spec.Kind, "err", err)
		}
	}
	return failed
}
