// Package labels measures flag label text in scene units.
package labels

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// faceSize is the rasterization size; measurements are divided back down so
// one unit equals the font's em size.
const faceSize = 64

// Metrics measures text set at one scene unit per em
type Metrics struct {
	face font.Face
}

// NewMetrics loads the Go regular font
func NewMetrics() (*Metrics, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    faceSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("label font face: %w", err)
	}
	return &Metrics{face: face}, nil
}

// Measure returns the advance width and line height of s
func (m *Metrics) Measure(s string) (width, height float64) {
	metrics := m.face.Metrics()
	return units(font.MeasureString(m.face, s)), units(metrics.Ascent + metrics.Descent)
}

func units(v fixed.Int26_6) float64 {
	return float64(v) / 64 / faceSize
}
