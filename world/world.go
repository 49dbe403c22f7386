// Package world is the scene host. It owns the planet, the merged surface
// batch, live objects, arcs and running animations, and pushes a Frame to
// its Renderer after every change.
//
// A World is not safe for concurrent use; drive it from one goroutine.
package world

import (
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/golang/geo/r3"

	"worldview/animation"
	"worldview/compositor"
	"worldview/core"
	"worldview/labels"
	"worldview/mesh"
	"worldview/primitives"
	"worldview/series"
)

// DefaultTexturePath is the planet texture used when none is configured
const DefaultTexturePath = "assets/earthmap4k.jpg"

// Options configure a World. Zero values take defaults.
type Options struct {
	Radius float64
	// PlanetSegments is the planet sphere resolution, 64 by default
	PlanetSegments int
	TexturePath    string
	Background     core.Color
	Arc            core.ArcOptions

	Renderer Renderer
	Textures TextureLoader
	Labels   LabelMeasurer
	Logger   *slog.Logger
}

// World hosts one planet scene
type World struct {
	mapper     core.Mapper
	compositor *compositor.Compositor
	binder     *series.Binder
	arcOpts    core.ArcOptions

	planet       Planet
	textureReady atomic.Bool
	surface      mesh.Geometry
	surfaceAt    uint64
	objects      []Object
	arcs         []*core.ArcPath
	animators    []*animation.ArcAnimator
	camera       Camera
	seq          uint64

	renderer Renderer
	labels   LabelMeasurer
	log      *slog.Logger
}

// New builds the scene, starts loading the planet texture and places the
// camera at DefaultCamera.
func New(opts Options) (*World, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.Radius < 0 {
		return nil, fmt.Errorf("%w: radius %v", core.ErrInvalidGeometry, opts.Radius)
	}
	if opts.PlanetSegments <= 0 {
		opts.PlanetSegments = 64
	}
	if opts.TexturePath == "" {
		opts.TexturePath = DefaultTexturePath
	}
	if opts.Labels == nil {
		m, err := labels.NewMetrics()
		if err != nil {
			return nil, fmt.Errorf("label metrics: %w", err)
		}
		opts.Labels = m
	}

	mapper := core.NewMapper(opts.Radius)
	w := &World{
		mapper:     mapper,
		compositor: compositor.New(mapper, log),
		binder:     series.NewBinder(log),
		arcOpts:    opts.Arc,
		planet: Planet{
			Radius:      mapper.Radius(),
			TexturePath: opts.TexturePath,
			Background:  opts.Background,
			Geometry:    primitives.Sphere(mapper.Radius(), opts.PlanetSegments, opts.PlanetSegments),
		},
		renderer: opts.Renderer,
		labels:   opts.Labels,
		log:      log,
	}
	w.camera = w.DefaultCamera()

	if opts.Textures != nil {
		path := opts.TexturePath
		opts.Textures.Load(path, func(err error) {
			if err != nil {
				log.Warn("planet texture failed to load", "path", path, "err", err)
				return
			}
			w.textureReady.Store(true)
			log.Debug("planet texture loaded", "path", path)
		})
	}

	log.Info("world created", "radius", mapper.Radius(), "texture", opts.TexturePath)
	w.RenderCameraMove()
	return w, nil
}

// Mapper returns the geographic mapping of this planet
func (w *World) Mapper() core.Mapper { return w.mapper }

// Camera returns the current camera
func (w *World) Camera() Camera { return w.camera }

// DefaultCamera looks at the planet center from four radii out along +Z
func (w *World) DefaultCamera() Camera {
	return CameraLookingAt(r3.Vector{Z: 4 * w.mapper.Radius()}, r3.Vector{})
}

// AddSeries binds and dispatches every series. Pins and flags become live
// objects; cubes, cylinders and cones are merged into the surface batch.
func (w *World) AddSeries(list []series.Series, opts ...series.DispatchOption) series.Report {
	placements := w.binder.Bind(list)
	report := w.binder.Dispatch(placements, seriesSink{w}, opts...)

	w.log.Info("series added", "series", len(list), "report", report.String())
	w.RenderCameraMove()
	return report
}

// seriesSink keeps the dispatch entry points off the World API
type seriesSink struct{ w *World }

func (s seriesSink) PlaceLive(p series.Placement) error {
	switch p.Type {
	case series.Pin:
		s.w.addLive(newPin(PinOptions{Lat: p.Lat, Long: p.Long, Color: p.Color, Opacity: p.Opacity}))
	case series.Flag:
		s.w.addLive(newFlag(FlagOptions{Lat: p.Lat, Long: p.Long, Color: p.Color, Opacity: p.Opacity, Label: p.Label}, s.w.labels))
	default:
		return fmt.Errorf("%w: %q is not a live type", core.ErrUnknownSeriesType, p.Type)
	}
	return nil
}

func (s seriesSink) MergeStatic(p series.Placement) error {
	size, err := core.GrowScale(p.GrowOptions())
	if err != nil {
		return err
	}
	solid, err := compositor.NewSolid(compositor.SolidSpec{
		Kind:   compositor.Kind(p.Type),
		Anchor: p.Geo(),
		Color:  p.Color,
		Size:   size,
	})
	if err != nil {
		return err
	}
	return s.w.compositor.MergeStatic(solid)
}

// AddPin places a pin on the surface
func (w *World) AddPin(o PinOptions) *Pin {
	p := newPin(o)
	w.addLive(p)
	w.RenderCameraMove()
	return p
}

// AddFlag places a labelled flag on the surface
func (w *World) AddFlag(o FlagOptions) *Flag {
	f := newFlag(o, w.labels)
	w.addLive(f)
	w.RenderCameraMove()
	return f
}

func (w *World) addLive(o Object) {
	a := o.Anchor()
	a.Height = 0
	o.SetPosition(w.mapper.ToSpatial(a))
	w.objects = append(w.objects, o)
}

// GetPin returns the first live pin anchored at lat, long, or nil
func (w *World) GetPin(lat, long float64) *Pin {
	for _, o := range w.objects {
		if p, ok := o.(*Pin); ok && p.anchor.Lat == lat && p.anchor.Lon == long {
			return p
		}
	}
	return nil
}

// GetFlag returns the first live flag anchored at lat, long, or nil
func (w *World) GetFlag(lat, long float64) *Flag {
	for _, o := range w.objects {
		if f, ok := o.(*Flag); ok && f.anchor.Lat == lat && f.anchor.Lon == long {
			return f
		}
	}
	return nil
}

// Add attaches an object without moving it. Adding an attached object is a
// no-op.
func (w *World) Add(o Object) {
	if w.attached(o) {
		return
	}
	w.objects = append(w.objects, o)
	w.RenderCameraMove()
}

// AddToSurface attaches o and moves it onto the surface at lat, long
func (w *World) AddToSurface(o Object, lat, long float64) {
	o.SetPosition(w.mapper.ToSpatial(core.GeoPoint{Lat: lat, Lon: long}))
	if !w.attached(o) {
		w.objects = append(w.objects, o)
	}
	w.RenderCameraMove()
}

// Remove detaches o and reports whether it was attached. Animations still
// targeting o finish on their next step.
func (w *World) Remove(o Object) bool {
	i := slices.Index(w.objects, o)
	if i < 0 {
		return false
	}
	w.objects = slices.Delete(w.objects, i, i+1)
	w.RenderScene()
	return true
}

func (w *World) attached(o Object) bool {
	return slices.Contains(w.objects, o)
}

// Attached implements animation.Stage
func (w *World) Attached(t animation.Target) bool {
	o, ok := t.(Object)
	return ok && w.attached(o)
}

// Detach implements animation.Stage
func (w *World) Detach(t animation.Target) {
	if o, ok := t.(Object); ok {
		w.Remove(o)
	}
}

// LiveObjects returns the attached objects in insertion order. Merged
// solids are never included.
func (w *World) LiveObjects() []Object {
	return slices.Clone(w.objects)
}

// Surface returns a copy of the merged static batch
func (w *World) Surface() mesh.Geometry {
	return w.compositor.Batch()
}

// SurfaceSpecs returns the parameters of every merged solid
func (w *World) SurfaceSpecs() []compositor.SolidSpec {
	return w.compositor.Specs()
}

// RebuildSurface replaces the batch with specs and returns how many failed
func (w *World) RebuildSurface(specs []compositor.SolidSpec) int {
	failed := w.compositor.Rebuild(specs)
	w.RenderScene()
	return failed
}

// AddArc draws an arc between two surface points. An empty color means
// white. Endpoints must be valid latitude/longitude pairs.
func (w *World) AddArc(from, to core.GeoPoint, color string) (*core.ArcPath, error) {
	if !from.Valid() || !to.Valid() {
		return nil, fmt.Errorf("%w: arc endpoints %v -> %v out of range", core.ErrInvalidGeometry, from, to)
	}
	c := core.White
	if color != "" {
		var err error
		if c, err = core.HexStringToInt(color); err != nil {
			return nil, err
		}
	}

	arc, err := w.mapper.BuildArc(from, to, c, w.arcOpts)
	if err != nil {
		return nil, err
	}
	w.arcs = append(w.arcs, arc)
	w.log.Debug("arc added", "from", from, "to", to, "span", arc.Span.Degrees())
	w.RenderScene()
	return arc, nil
}

// RemoveArc erases an arc line. Animations along it keep running.
func (w *World) RemoveArc(arc *core.ArcPath) bool {
	i := slices.Index(w.arcs, arc)
	if i < 0 {
		return false
	}
	w.arcs = slices.Delete(w.arcs, i, i+1)
	w.RenderScene()
	return true
}

// Arcs returns the drawn arcs
func (w *World) Arcs() []*core.ArcPath {
	return slices.Clone(w.arcs)
}

// AnimateObjectOnArc moves o along arc over duration ticks, then detaches
// it. o is attached first if needed.
func (w *World) AnimateObjectOnArc(arc *core.ArcPath, o Object, duration int) (*animation.ArcAnimator, error) {
	a, err := animation.New(arc, o, w, duration)
	if err != nil {
		return nil, err
	}
	if !w.attached(o) {
		w.objects = append(w.objects, o)
	}
	w.animators = append(w.animators, a)
	return a, nil
}

// Animations returns the number of running animators
func (w *World) Animations() int {
	return len(w.animators)
}

// Tick advances every animation by one frame and renders. It reports
// whether any animation is still running.
func (w *World) Tick() bool {
	if len(w.animators) == 0 {
		return false
	}
	w.animators = slices.DeleteFunc(w.animators, func(a *animation.ArcAnimator) bool {
		return !a.Step()
	})
	w.RenderCameraMove()
	return len(w.animators) > 0
}

// MoveCamera sets the camera and refreshes view dependent objects
func (w *World) MoveCamera(c Camera) {
	w.camera = c
	w.RenderCameraMove()
}

// SetSize forwards a viewport change to the renderer
func (w *World) SetSize(width, height int) {
	if r, ok := w.renderer.(Resizer); ok {
		r.Resize(width, height)
	}
	w.RenderCameraMove()
}

// RenderCameraMove rescales and reorients live objects for the current
// camera, then renders.
func (w *World) RenderCameraMove() {
	zoom := w.camera.Zoom()
	for _, o := range w.objects {
		if oc, ok := o.(Occluder); ok {
			oc.ApplyView(w.camera)
		}
		if zs, ok := o.(ZoomScaler); ok {
			zs.ApplyZoom(zoom)
		}
	}
	w.RenderScene()
}

// RenderScene hands the current frame to the renderer, if any
func (w *World) RenderScene() {
	if w.renderer == nil {
		return
	}
	w.renderer.Render(w.Frame())
}

// Frame snapshots the scene
func (w *World) Frame() Frame {
	if v := w.compositor.Version(); v != w.surfaceAt {
		w.surface = w.compositor.Batch()
		w.surfaceAt = v
	}
	w.seq++

	planet := w.planet
	planet.TextureReady = w.textureReady.Load()

	f := Frame{
		Seq:            w.seq,
		Planet:         planet,
		Surface:        w.surface,
		SurfaceVersion: w.surfaceAt,
		Objects:        make([]ObjectState, 0, len(w.objects)),
		Arcs:           make([]ArcState, 0, len(w.arcs)),
		Camera:         w.camera,
	}
	for _, o := range w.objects {
		f.Objects = append(f.Objects, o.State())
	}
	for _, a := range w.arcs {
		f.Arcs = append(f.Arcs, ArcState{Color: a.Color, Points: a.Points})
	}
	return f
}
