package world

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func TestOrbitCamera(t *testing.T) {
	tests := []struct {
		name  string
		orbit Orbit
		eye   r3.Vector
	}{
		{"front", Orbit{Distance: 400}, r3.Vector{Z: 400}},
		{"quarter turn", Orbit{Yaw: math.Pi / 2, Distance: 10}, r3.Vector{X: 10}},
		{"raised", Orbit{Pitch: math.Pi / 6, Distance: 2}, r3.Vector{Y: 1, Z: math.Sqrt(3)}},
		{"offset target", Orbit{Distance: 1, Target: r3.Vector{X: 5}}, r3.Vector{X: 5, Z: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.orbit.Camera().Position; !nearVec(got, tc.eye) {
				t.Errorf("eye = %v, want %v", got, tc.eye)
			}
		})
	}
}

func TestOrbitLimits(t *testing.T) {
	o := Orbit{Distance: 100}

	o.Rotate(0, 10)
	if o.Pitch != maxPitch {
		t.Errorf("pitch = %v, want clamp at %v", o.Pitch, maxPitch)
	}
	o.Zoom(100, 50, 1000)
	if o.Distance != 1000 {
		t.Errorf("distance = %v, want 1000", o.Distance)
	}
	o.Zoom(0.001, 50, 1000)
	if o.Distance != 50 {
		t.Errorf("distance = %v, want 50", o.Distance)
	}
}

func TestOrbitMatchesDefaultCamera(t *testing.T) {
	w, _ := newTestWorld(t, Options{})
	o := Orbit{Distance: 4 * w.Mapper().Radius()}

	if got, want := o.Camera(), w.DefaultCamera(); !nearVec(got.Position, want.Position) {
		t.Errorf("orbit eye %v, default %v", got.Position, want.Position)
	}
}
