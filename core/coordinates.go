package core

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// DefaultPlanetRadius is the scene radius of the planet sphere
const DefaultPlanetRadius = 100.0

// GeoPoint represents a position in geographic coordinates
type GeoPoint struct {
	Lat    float64 // Latitude in degrees [-90, 90], positive = north
	Lon    float64 // Longitude in degrees [-180, 180], positive = east
	Height float64 // Distance above the reference sphere
}

// LatLng returns the point as an s2 latitude/longitude pair
func (g GeoPoint) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(g.Lat, g.Lon)
}

// Valid reports whether latitude and longitude are within their ranges
func (g GeoPoint) Valid() bool {
	return g.LatLng().IsValid()
}

// SurfaceDistance returns the great-circle angle between two points
func SurfaceDistance(a, b GeoPoint) s1.Angle {
	return a.LatLng().Distance(b.LatLng())
}

// DegreesToRadians converts degrees to radians
func DegreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Mapper converts geographic coordinates into the scene frame.
// Origin at planet center, Y points to the north pole, longitude 180
// lies on the -X axis.
type Mapper struct {
	radius float64
}

// NewMapper returns a mapper for a planet of the given radius
func NewMapper(radius float64) Mapper {
	if radius <= 0 {
		radius = DefaultPlanetRadius
	}
	return Mapper{radius: radius}
}

// Radius returns the planet radius
func (m Mapper) Radius() float64 {
	return m.radius
}

// ToSpatial converts a geographic point to a scene point.
// The longitude is phase shifted by 180 degrees so the antimeridian sits
// behind the default view.
func (m Mapper) ToSpatial(g GeoPoint) r3.Vector {
	r := m.radius + g.Height
	phi := DegreesToRadians(g.Lat)
	theta := DegreesToRadians(g.Lon - 180)
	cosPhi := math.Cos(phi)

	return r3.Vector{
		X: -r * cosPhi * math.Cos(theta),
		Y: r * math.Sin(phi),
		Z: r * cosPhi * math.Sin(theta),
	}
}

// Distance returns the straight-line distance between two scene points
func Distance(a, b r3.Vector) float64 {
	return a.Distance(b)
}

// PointBetween interpolates along the chord from a to b.
// A fraction of 0 gives a, 1 gives b.
func PointBetween(a, b r3.Vector, fraction float64) r3.Vector {
	return a.Add(b.Sub(a).Mul(fraction))
}

// SurfaceOffset returns how far above the ideal surface an object with the
// given footprint must sit so its flat bottom touches the sphere at its edges.
func (m Mapper) SurfaceOffset(girth float64) (float64, error) {
	half := girth / 2
	if girth < 0 || math.IsNaN(girth) {
		return 0, fmt.Errorf("%w: girth %v must be a non-negative number", ErrInvalidGeometry, girth)
	}
	if half > m.radius {
		return 0, fmt.Errorf("%w: half girth %v exceeds planet radius %v", ErrInvalidGeometry, half, m.radius)
	}
	return m.radius - math.Sqrt(m.radius*m.radius-half*half), nil
}

var worldUp = mgl64.Vec3{0, 1, 0}

// LookAwayFrom returns the orientation that points an object's local +Z axis
// from center through position, keeping local +Y as close to world up as
// the direction allows.
func LookAwayFrom(center, position r3.Vector) mgl64.Quat {
	return orientationAlong(Vec3(position.Sub(center)))
}

// LookAt returns the orientation of a viewer at eye facing target: the local
// +Z axis points from target back to the eye.
func LookAt(eye, target r3.Vector) mgl64.Quat {
	return orientationAlong(Vec3(eye.Sub(target)))
}

func orientationAlong(z mgl64.Vec3) mgl64.Quat {
	if z.Len() == 0 {
		return mgl64.QuatIdent()
	}
	z = z.Normalize()

	x := worldUp.Cross(z)
	if x.Len() == 0 {
		// direction is parallel to up; nudge it off the pole
		z[2] += 0.0001
		z = z.Normalize()
		x = worldUp.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	return mgl64.Mat4ToQuat(mgl64.Mat3FromCols(x, y, z).Mat4()).Normalize()
}
