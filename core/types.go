package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
)

// Vec3 converts a scene point to a mathgl vector
func Vec3(v r3.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// FromVec3 converts a mathgl vector to a scene point
func FromVec3(v mgl64.Vec3) r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// Color is a packed 24-bit RGB value, 0xRRGGBB
type Color uint32

const (
	White Color = 0xffffff
	Black Color = 0x000000
)

// RGB splits the color into its channels
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Colorful returns the color as a go-colorful value
func (c Color) Colorful() colorful.Color {
	r, g, b := c.RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Hex formats the color as #rrggbb
func (c Color) Hex() string {
	return c.Colorful().Hex()
}

func (c Color) String() string {
	return fmt.Sprintf("0x%06x", uint32(c))
}
