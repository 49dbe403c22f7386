package core

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

const epsilon = 1e-9

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func nearVec(a, b r3.Vector, eps float64) bool {
	return near(a.X, b.X, eps) && near(a.Y, b.Y, eps) && near(a.Z, b.Z, eps)
}

// TestToSpatial documents the scene frame: Y up, longitude shifted by 180
func TestToSpatial(t *testing.T) {
	m := NewMapper(100)

	tests := []struct {
		name string
		geo  GeoPoint
		want r3.Vector
	}{
		{"North Pole", GeoPoint{Lat: 90, Lon: 0}, r3.Vector{X: 0, Y: 100, Z: 0}},
		{"South Pole", GeoPoint{Lat: -90, Lon: 0}, r3.Vector{X: 0, Y: -100, Z: 0}},
		{"Equator Prime Meridian", GeoPoint{Lat: 0, Lon: 0}, r3.Vector{X: 100, Y: 0, Z: 0}},
		{"Equator 90E", GeoPoint{Lat: 0, Lon: 90}, r3.Vector{X: 0, Y: 0, Z: -100}},
		{"Equator 90W", GeoPoint{Lat: 0, Lon: -90}, r3.Vector{X: 0, Y: 0, Z: 100}},
		{"Antimeridian", GeoPoint{Lat: 0, Lon: 180}, r3.Vector{X: -100, Y: 0, Z: 0}},
		{"45N 45E", GeoPoint{Lat: 45, Lon: 45}, r3.Vector{X: 50, Y: 70.71067811865476, Z: -50}},
		{"Raised equator", GeoPoint{Lat: 0, Lon: 0, Height: 10}, r3.Vector{X: 110, Y: 0, Z: 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := m.ToSpatial(tc.geo)
			if !nearVec(got, tc.want, 1e-9) {
				t.Errorf("ToSpatial(%+v) = %v, want %v", tc.geo, got, tc.want)
			}
		})
	}
}

func TestToSpatialKeepsRadius(t *testing.T) {
	m := NewMapper(100)
	for _, h := range []float64{0, 2.5, 50} {
		for lat := -90.0; lat <= 90.0; lat += 15 {
			for lon := -180.0; lon <= 180.0; lon += 30 {
				p := m.ToSpatial(GeoPoint{Lat: lat, Lon: lon, Height: h})
				if !near(p.Norm(), 100+h, 1e-9) {
					t.Fatalf("|ToSpatial(%v, %v, %v)| = %v, want %v", lat, lon, h, p.Norm(), 100+h)
				}
			}
		}
	}
}

// TestPolesSingularities tests behavior at coordinate singularities
func TestPolesSingularities(t *testing.T) {
	m := NewMapper(100)
	poles := []struct {
		name string
		lat  float64
	}{
		{"North Pole", 90.0},
		{"South Pole", -90.0},
	}

	for _, pole := range poles {
		t.Run(pole.name, func(t *testing.T) {
			ref := m.ToSpatial(GeoPoint{Lat: pole.lat})
			for lon := -180.0; lon <= 180.0; lon += 45.0 {
				p := m.ToSpatial(GeoPoint{Lat: pole.lat, Lon: lon})
				if !nearVec(p, ref, 1e-9) {
					t.Errorf("lon %.0f: got %v, want %v", lon, p, ref)
				}
			}
		})
	}

	a := m.ToSpatial(GeoPoint{Lat: 12, Lon: 180})
	b := m.ToSpatial(GeoPoint{Lat: 12, Lon: -180})
	if !nearVec(a, b, 1e-9) {
		t.Errorf("antimeridian mismatch: %v vs %v", a, b)
	}
}

func TestPointBetween(t *testing.T) {
	a := r3.Vector{X: 1, Y: 2, Z: 3}
	b := r3.Vector{X: -5, Y: 10, Z: 7}

	if got := PointBetween(a, b, 0); !nearVec(got, a, epsilon) {
		t.Errorf("fraction 0 = %v, want %v", got, a)
	}
	if got := PointBetween(a, b, 1); !nearVec(got, b, epsilon) {
		t.Errorf("fraction 1 = %v, want %v", got, b)
	}

	prev := -1.0
	for f := 0.0; f <= 1.0; f += 0.1 {
		d := Distance(a, PointBetween(a, b, f))
		if d < prev {
			t.Fatalf("distance from a not monotonic at %v: %v < %v", f, d, prev)
		}
		if !near(d, f*Distance(a, b), 1e-9) {
			t.Fatalf("fraction %v lies %v along the chord, want %v", f, d, f*Distance(a, b))
		}
		prev = d
	}

	if got := PointBetween(a, a, 0.5); !nearVec(got, a, epsilon) {
		t.Errorf("degenerate chord = %v, want %v", got, a)
	}
}

func TestSurfaceOffset(t *testing.T) {
	m := NewMapper(100)

	tests := []struct {
		girth float64
		want  float64
	}{
		{0, 0},
		{20, 100 - math.Sqrt(100*100-10*10)},
		{200, 100},
	}
	for _, tc := range tests {
		got, err := m.SurfaceOffset(tc.girth)
		if err != nil {
			t.Fatalf("SurfaceOffset(%v): %v", tc.girth, err)
		}
		if !near(got, tc.want, 1e-12) {
			t.Errorf("SurfaceOffset(%v) = %v, want %v", tc.girth, got, tc.want)
		}
	}

	for _, girth := range []float64{200.0001, -1, math.NaN()} {
		if _, err := m.SurfaceOffset(girth); !errors.Is(err, ErrInvalidGeometry) {
			t.Errorf("SurfaceOffset(%v) error = %v, want ErrInvalidGeometry", girth, err)
		}
	}
}

func TestLookAwayFrom(t *testing.T) {
	m := NewMapper(100)
	forward := mgl64.Vec3{0, 0, 1}

	points := []GeoPoint{
		{Lat: 0, Lon: 0},
		{Lat: 45, Lon: 45},
		{Lat: -30, Lon: 170},
		{Lat: 10, Lon: -180},
		{Lat: 90, Lon: 0},
		{Lat: -90, Lon: 0},
	}
	for _, g := range points {
		p := m.ToSpatial(g)
		q := LookAwayFrom(r3.Vector{}, p)
		got := FromVec3(q.Rotate(forward))
		want := p.Normalize()
		if !nearVec(got, want, 1e-3) {
			t.Errorf("%+v: local +Z maps to %v, want %v", g, got, want)
		}
	}

	// on the equator local up stays world up
	q := LookAwayFrom(r3.Vector{}, m.ToSpatial(GeoPoint{Lat: 0, Lon: 60}))
	if up := FromVec3(q.Rotate(mgl64.Vec3{0, 1, 0})); !nearVec(up, r3.Vector{Y: 1}, 1e-9) {
		t.Errorf("local up = %v, want world up", up)
	}

	if q := LookAwayFrom(r3.Vector{}, r3.Vector{}); !q.ApproxEqual(mgl64.QuatIdent()) {
		t.Errorf("coincident points: got %v, want identity", q)
	}
}

func TestGeoPointValid(t *testing.T) {
	if !(GeoPoint{Lat: 90, Lon: -180}).Valid() {
		t.Error("pole on antimeridian should be valid")
	}
	if (GeoPoint{Lat: 91}).Valid() {
		t.Error("latitude 91 should be invalid")
	}
	if got := SurfaceDistance(GeoPoint{}, GeoPoint{Lon: 90}).Degrees(); !near(got, 90, 1e-9) {
		t.Errorf("SurfaceDistance = %v degrees, want 90", got)
	}
}

func ExampleMapper_ToSpatial() {
	m := NewMapper(100)
	p := m.ToSpatial(GeoPoint{Lat: 45, Lon: 45})
	fmt.Printf("%.2f %.2f %.2f\n", p.X, p.Y, p.Z)
	// Output: 50.00 70.71 -50.00
}
