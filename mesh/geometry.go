package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"worldview/core"
)

// Face is a triangle over three vertex indices with its own color slot
type Face struct {
	A, B, C int
	Color   core.Color
}

// Geometry holds vertex positions and colored triangles
type Geometry struct {
	Vertices []mgl64.Vec3
	Faces    []Face
}

// AddVertex appends a vertex and returns its index
func (g *Geometry) AddVertex(x, y, z float64) int {
	g.Vertices = append(g.Vertices, mgl64.Vec3{x, y, z})
	return len(g.Vertices) - 1
}

// AddFace appends a triangle
func (g *Geometry) AddFace(a, b, c int, color core.Color) {
	g.Faces = append(g.Faces, Face{A: a, B: b, C: c, Color: color})
}

// SetColor paints every face
func (g *Geometry) SetColor(c core.Color) {
	for i := range g.Faces {
		g.Faces[i].Color = c
	}
}

func (g Geometry) VertexCount() int { return len(g.Vertices) }

func (g Geometry) FaceCount() int { return len(g.Faces) }

// Clone returns a deep copy
func (g Geometry) Clone() Geometry {
	return Geometry{
		Vertices: append([]mgl64.Vec3(nil), g.Vertices...),
		Faces:    append([]Face(nil), g.Faces...),
	}
}

// Transformed returns a copy with every vertex multiplied by m
func (g Geometry) Transformed(m mgl64.Mat4) Geometry {
	out := Geometry{
		Vertices: make([]mgl64.Vec3, len(g.Vertices)),
		Faces:    append([]Face(nil), g.Faces...),
	}
	for i, v := range g.Vertices {
		out.Vertices[i] = mgl64.TransformCoordinate(v, m)
	}
	return out
}

// Merge appends other, transformed by m, to g. Face indices are rebased onto
// the combined vertex list.
func (g *Geometry) Merge(other Geometry, m mgl64.Mat4) {
	base := len(g.Vertices)
	for _, v := range other.Vertices {
		g.Vertices = append(g.Vertices, mgl64.TransformCoordinate(v, m))
	}
	for _, f := range other.Faces {
		g.Faces = append(g.Faces, Face{A: f.A + base, B: f.B + base, C: f.C + base, Color: f.Color})
	}
}

// Bounds returns the axis-aligned extent of the vertices
func (g Geometry) Bounds() (min, max mgl64.Vec3) {
	if len(g.Vertices) == 0 {
		return
	}
	min = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range g.Vertices {
		for k := 0; k < 3; k++ {
			min[k] = math.Min(min[k], v[k])
			max[k] = math.Max(max[k], v[k])
		}
	}
	return min, max
}

// Indices flattens the faces into a triangle index buffer
func (g Geometry) Indices() []uint32 {
	indices := make([]uint32, 0, len(g.Faces)*3)
	for _, f := range g.Faces {
		indices = append(indices, uint32(f.A), uint32(f.B), uint32(f.C))
	}
	return indices
}

// Compose builds the model matrix translate * rotate * scale
func Compose(position r3.Vector, orientation mgl64.Quat, scale float64) mgl64.Mat4 {
	return mgl64.Translate3D(position.X, position.Y, position.Z).
		Mul4(orientation.Mat4()).
		Mul4(mgl64.Scale3D(scale, scale, scale))
}
