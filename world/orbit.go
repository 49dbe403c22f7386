package world

import (
	"math"

	"github.com/golang/geo/r3"
)

const maxPitch = math.Pi/2 - 0.01

// Orbit is a camera rig circling Target. Yaw 0, pitch 0 looks down -Z.
type Orbit struct {
	Yaw, Pitch float64
	Distance   float64
	Target     r3.Vector
}

// Camera returns the camera for the current rig position
func (o Orbit) Camera() Camera {
	eye := r3.Vector{
		X: o.Distance * math.Cos(o.Pitch) * math.Sin(o.Yaw),
		Y: o.Distance * math.Sin(o.Pitch),
		Z: o.Distance * math.Cos(o.Pitch) * math.Cos(o.Yaw),
	}
	return CameraLookingAt(o.Target.Add(eye), o.Target)
}

// Rotate turns the rig, keeping the pitch short of the poles
func (o *Orbit) Rotate(dYaw, dPitch float64) {
	o.Yaw = math.Mod(o.Yaw+dYaw, 2*math.Pi)
	o.Pitch = math.Max(-maxPitch, math.Min(maxPitch, o.Pitch+dPitch))
}

// Zoom scales the distance by factor within [min, max]
func (o *Orbit) Zoom(factor, min, max float64) {
	o.Distance = math.Max(min, math.Min(max, o.Distance*factor))
}
