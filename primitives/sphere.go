package primitives

import (
	"math"

	"worldview/mesh"
)

// Sphere generates a UV sphere around the origin with Y as the polar axis
func Sphere(radius float64, segments, rings int) mesh.Geometry {
	// Use default values if not specified
	if segments <= 0 {
		segments = 64
	}
	if rings <= 0 {
		rings = 32
	}

	var g mesh.Geometry

	for ring := 0; ring <= rings; ring++ {
		theta := float64(ring) * math.Pi / float64(rings)
		sinTheta := math.Sin(theta)
		cosTheta := math.Cos(theta)

		for seg := 0; seg <= segments; seg++ {
			phi := float64(seg) * 2.0 * math.Pi / float64(segments)

			x := math.Cos(phi) * sinTheta
			y := cosTheta
			z := math.Sin(phi) * sinTheta

			g.AddVertex(x*radius, y*radius, z*radius)
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := ring*(segments+1) + seg
			next := current + segments + 1

			g.AddFace(current, next, current+1, 0)
			g.AddFace(current+1, next, next+1, 0)
		}
	}

	return g
}
