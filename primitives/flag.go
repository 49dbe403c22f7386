package primitives

import "worldview/mesh"

// Flag outline proportions in label units
const (
	FlagPadding    = 0.4
	FlagPoleHeight = 1.0
	FlagPoleWidth  = 0.5
)

// FlagLayout locates the banner and its label inside a flag outline
type FlagLayout struct {
	BannerWidth  float64
	BannerHeight float64
	LabelX       float64
	LabelY       float64
}

// FlagOutline generates a flat pole-and-banner shape in the XY plane whose
// banner fits a label of the given size.
func FlagOutline(labelWidth, labelHeight float64) (mesh.Geometry, FlagLayout) {
	layout := FlagLayout{
		BannerWidth:  labelWidth + FlagPadding*2.5,
		BannerHeight: labelHeight + FlagPadding*2,
		LabelX:       FlagPadding,
		LabelY:       FlagPoleHeight + FlagPadding,
	}
	top := FlagPoleHeight + layout.BannerHeight

	var g mesh.Geometry
	foot := g.AddVertex(0, 0, 0)
	poleTip := g.AddVertex(FlagPoleWidth, FlagPoleHeight, 0)
	bannerRight := g.AddVertex(layout.BannerWidth, FlagPoleHeight, 0)
	topRight := g.AddVertex(layout.BannerWidth, top, 0)
	topLeft := g.AddVertex(0, top, 0)
	bannerLeft := g.AddVertex(0, FlagPoleHeight, 0)

	g.AddFace(foot, poleTip, bannerLeft, 0)
	g.AddFace(bannerLeft, bannerRight, topRight, 0)
	g.AddFace(bannerLeft, topRight, topLeft, 0)

	return g, layout
}
