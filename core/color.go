package core

import (
	"fmt"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// Blend interpolates every channel of c0 towards c1 by fraction and packs the
// result. Channels round half up. The fraction is not clamped: values outside
// [0, 1] extrapolate past the endpoints.
func Blend(c0, c1 string, fraction float64) (Color, error) {
	from, err := parseHex(c0)
	if err != nil {
		return 0, err
	}
	to, err := parseHex(c1)
	if err != nil {
		return 0, err
	}

	r1, g1, b1 := from.RGB255()
	r2, g2, b2 := to.RGB255()

	r := lerpChannel(r1, r2, fraction)
	g := lerpChannel(g1, g2, fraction)
	b := lerpChannel(b1, b2, fraction)

	return Color((r*0x10000 + g*0x100 + b) & 0xffffff), nil
}

func lerpChannel(a, b uint8, fraction float64) int {
	return int(math.Floor(float64(int(b)-int(a))*fraction+0.5)) + int(a)
}

func parseHex(s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return c, nil
}

// ParseColor reads a #rgb or #rrggbb color, the forms Blend accepts
func ParseColor(s string) (Color, error) {
	c, err := parseHex(s)
	if err != nil {
		return 0, err
	}
	r, g, b := c.RGB255()
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b)), nil
}

// HexStringToInt strips the leading marker character ('#') and parses the
// remainder as a hexadecimal color.
func HexStringToInt(s string) (Color, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil || v > 0xffffff {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color(v), nil
}
