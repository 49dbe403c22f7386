package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"

	"worldview/core"
	"worldview/mesh"
	"worldview/primitives"
)

// Object is a live scene member: it keeps its identity and can be moved,
// rescaled or removed after it has been added.
type Object interface {
	ID() string
	Kind() string
	Anchor() core.GeoPoint
	Position() r3.Vector
	SetPosition(p r3.Vector)
	State() ObjectState
}

// ZoomScaler is implemented by objects that keep a constant on-screen size
// as the camera moves.
type ZoomScaler interface {
	ApplyZoom(zoom float64)
}

// Occluder is implemented by objects that hide themselves when they turn
// away from the camera.
type Occluder interface {
	ApplyView(cam Camera)
}

// flagHideAngle is the angle at the planet center between camera and flag
// beyond which the flag is hidden, in radians.
const flagHideAngle = 1.2

// ObjectState is a renderer-facing snapshot of a live object
type ObjectState struct {
	ID          string
	Kind        string
	Position    r3.Vector
	Orientation mgl64.Quat
	Scale       float64
	Visible     bool
	Color       core.Color
	Opacity     float64
	Label       string
	// Geometry is shared between snapshots and must not be modified
	Geometry mesh.Geometry
}

// Marker is a generic live object built from any geometry
type Marker struct {
	id          string
	kind        string
	anchor      core.GeoPoint
	position    r3.Vector
	orientation mgl64.Quat
	scale       float64
	visible     bool
	color       core.Color
	opacity     float64
	geometry    mesh.Geometry
}

// NewMarker wraps geometry as a live object. The geometry is painted color.
func NewMarker(kind string, geometry mesh.Geometry, color core.Color) *Marker {
	g := geometry.Clone()
	g.SetColor(color)
	return &Marker{
		id:          uuid.NewString(),
		kind:        kind,
		orientation: mgl64.QuatIdent(),
		scale:       1,
		visible:     true,
		color:       color,
		opacity:     1,
		geometry:    g,
	}
}

func (m *Marker) ID() string { return m.id }
func (m *Marker) Kind() string { return m.kind }
func (m *Marker) Anchor() core.GeoPoint { return m.anchor }
func (m *Marker) Position() r3.Vector { return m.position }
func (m *Marker) SetPosition(p r3.Vector) { m.position = p }
func (m *Marker) Scale() float64 { return m.scale }
func (m *Marker) Visible() bool { return m.visible }
func (m *Marker) Orientation() mgl64.Quat { return m.orientation }
func (m *Marker) SetOrientation(q mgl64.Quat) { m.orientation = q }

func (m *Marker) State() ObjectState {
	return ObjectState{
		ID:          m.id,
		Kind:        m.kind,
		Position:    m.position,
		Orientation: m.orientation,
		Scale:       m.scale,
		Visible:     m.visible,
		Color:       m.color,
		Opacity:     m.opacity,
		Geometry:    m.geometry,
	}
}

// Pin is a small sphere marking a location
type Pin struct {
	Marker
}

// PinOptions configure a pin
type PinOptions struct {
	Lat, Long float64
	Color     core.Color
	Opacity   float64
}

func newPin(o PinOptions) *Pin {
	p := &Pin{Marker: *NewMarker("pin", primitives.Sphere(1, 16, 16), o.Color)}
	p.anchor = core.GeoPoint{Lat: o.Lat, Lon: o.Long}
	p.opacity = defaultOpacity(o.Opacity)
	return p
}

// ApplyZoom scales the pin with camera distance
func (p *Pin) ApplyZoom(zoom float64) {
	p.scale = zoom
}

// Flag is a pole with a labelled banner. It turns to face the camera and
// hides when it is on the far side of the planet.
type Flag struct {
	Marker
	label  string
	layout primitives.FlagLayout
}

// FlagOptions configure a flag
type FlagOptions struct {
	Lat, Long float64
	Color     core.Color
	Opacity   float64
	Label     string
}

func newFlag(o FlagOptions, labels LabelMeasurer) *Flag {
	w, h := labels.Measure(o.Label)
	outline, layout := primitives.FlagOutline(w, h)

	f := &Flag{Marker: *NewMarker("flag", outline, o.Color), label: o.Label, layout: layout}
	f.anchor = core.GeoPoint{Lat: o.Lat, Lon: o.Long}
	f.opacity = defaultOpacity(o.Opacity)
	return f
}

// Label returns the banner text
func (f *Flag) Label() string { return f.label }

// Layout returns where the banner and label sit in the flag's local frame
func (f *Flag) Layout() primitives.FlagLayout { return f.layout }

// ApplyView hides the flag when the angle at the planet center between the
// flag and the camera reaches flagHideAngle, otherwise turns it to the camera.
func (f *Flag) ApplyView(cam Camera) {
	f.visible = viewAngle(cam.Position, f.position) < flagHideAngle
	if f.visible {
		f.orientation = cam.Orientation
	}
}

// ApplyZoom scales a visible flag with camera distance
func (f *Flag) ApplyZoom(zoom float64) {
	if f.visible {
		f.scale = zoom
	}
}

func (f *Flag) State() ObjectState {
	s := f.Marker.State()
	s.Label = f.label
	return s
}

// viewAngle is the angle at the origin of the triangle (camera, origin, p)
func viewAngle(camera, p r3.Vector) float64 {
	a := camera.Distance(p)
	b := p.Norm()
	c := camera.Norm()
	if b == 0 || c == 0 {
		return 0
	}
	cos := (b*b + c*c - a*a) / (2 * b * c)
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

func defaultOpacity(o float64) float64 {
	if o <= 0 {
		return 1
	}
	return o
}
