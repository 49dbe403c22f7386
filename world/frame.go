package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"worldview/core"
	"worldview/mesh"
)

// Camera is the viewer's position and orientation in scene space
type Camera struct {
	Position    r3.Vector
	Orientation mgl64.Quat
}

// CameraLookingAt places a camera at eye facing target
func CameraLookingAt(eye, target r3.Vector) Camera {
	return Camera{Position: eye, Orientation: core.LookAt(eye, target)}
}

// Zoom is the scale live objects take at this camera distance
func (c Camera) Zoom() float64 {
	return 0.01 * c.Position.Norm()
}

// Planet describes the textured base sphere
type Planet struct {
	Radius       float64
	TexturePath  string
	TextureReady bool
	Background   core.Color
	// Geometry is shared between frames and must not be modified
	Geometry mesh.Geometry
}

// ArcState is a drawable arc line
type ArcState struct {
	Color  core.Color
	Points []r3.Vector
}

// Frame is a snapshot of everything a renderer needs to draw one frame
type Frame struct {
	Seq    uint64
	Planet Planet
	// Surface is the merged static batch, shared between frames until
	// SurfaceVersion changes. It must not be modified.
	Surface        mesh.Geometry
	SurfaceVersion uint64
	Objects        []ObjectState
	Arcs           []ArcState
	Camera         Camera
}

// Renderer draws frames. Render is called synchronously after every scene
// change.
type Renderer interface {
	Render(f Frame)
}

// Resizer is implemented by renderers with a viewport
type Resizer interface {
	Resize(width, height int)
}

// TextureLoader fetches the planet texture. done must be called exactly
// once, possibly from another goroutine.
type TextureLoader interface {
	Load(path string, done func(err error))
}

// LabelMeasurer reports the extents of rendered label text in world units
type LabelMeasurer interface {
	Measure(s string) (width, height float64)
}
