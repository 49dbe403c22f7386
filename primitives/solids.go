// Package primitives generates the shape geometry markers are built from.
// Solids are centered on the origin with local +Z as their height axis, so a
// solid oriented outward from the planet grows away from the surface.
package primitives

import (
	"math"

	"worldview/mesh"
)

// DefaultRadialSegments matches the facet count of cylinder and cone markers
const DefaultRadialSegments = 20

// Box generates a box of the given x, y and z extents with four vertices per
// side so each side keeps a flat color.
func Box(width, height, depth float64) mesh.Geometry {
	var g mesh.Geometry
	hx, hy, hz := width/2, height/2, depth/2

	quad := func(p [4][3]float64) {
		a := g.AddVertex(p[0][0], p[0][1], p[0][2])
		b := g.AddVertex(p[1][0], p[1][1], p[1][2])
		c := g.AddVertex(p[2][0], p[2][1], p[2][2])
		d := g.AddVertex(p[3][0], p[3][1], p[3][2])
		g.AddFace(a, b, c, 0)
		g.AddFace(a, c, d, 0)
	}

	// +x -x +y -y +z -z
	quad([4][3]float64{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}})
	quad([4][3]float64{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}})
	quad([4][3]float64{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}})
	quad([4][3]float64{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}})
	quad([4][3]float64{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}})
	quad([4][3]float64{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}})

	return g
}

// Cylinder generates a frustum along Z. The top (+Z) and bottom radii may
// differ; a zero radius drops that cap.
func Cylinder(radiusTop, radiusBottom, height float64, segments int) mesh.Geometry {
	if segments < 3 {
		segments = DefaultRadialSegments
	}

	var g mesh.Geometry
	hz := height / 2

	for i := 0; i <= segments; i++ {
		a := float64(i) * 2 * math.Pi / float64(segments)
		cos, sin := math.Cos(a), math.Sin(a)
		g.AddVertex(radiusTop*cos, radiusTop*sin, hz)
		g.AddVertex(radiusBottom*cos, radiusBottom*sin, -hz)
	}
	for i := 0; i < segments; i++ {
		top, bottom := 2*i, 2*i+1
		nextTop, nextBottom := top+2, bottom+2
		g.AddFace(top, bottom, nextBottom, 0)
		g.AddFace(top, nextBottom, nextTop, 0)
	}

	addCap := func(radius, z float64, up bool) {
		if radius <= 0 {
			return
		}
		center := g.AddVertex(0, 0, z)
		first := len(g.Vertices)
		for i := 0; i <= segments; i++ {
			a := float64(i) * 2 * math.Pi / float64(segments)
			g.AddVertex(radius*math.Cos(a), radius*math.Sin(a), z)
		}
		for i := 0; i < segments; i++ {
			if up {
				g.AddFace(center, first+i, first+i+1, 0)
			} else {
				g.AddFace(center, first+i+1, first+i, 0)
			}
		}
	}
	addCap(radiusTop, hz, true)
	addCap(radiusBottom, -hz, false)

	return g
}

// Cone generates a cone along Z with its tip at +Z
func Cone(radius, height float64, segments int) mesh.Geometry {
	return Cylinder(0, radius, height, segments)
}
