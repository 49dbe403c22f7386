package world

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"worldview/core"
	"worldview/primitives"
	"worldview/series"
)

type fixedLabels struct{}

func (fixedLabels) Measure(s string) (float64, float64) {
	return 0.5 * float64(len(s)), 1
}

type recorder struct {
	frames        []Frame
	width, height int
}

func (r *recorder) Render(f Frame) { r.frames = append(r.frames, f) }
func (r *recorder) Resize(width, height int) { r.width, r.height = width, height }

func (r *recorder) last() Frame { return r.frames[len(r.frames)-1] }

type instantTextures struct {
	err   error
	paths []string
}

func (l *instantTextures) Load(path string, done func(error)) {
	l.paths = append(l.paths, path)
	done(l.err)
}

func newTestWorld(t *testing.T, opts Options) (*World, *recorder) {
	t.Helper()
	r := &recorder{}
	if opts.Renderer == nil {
		opts.Renderer = r
	}
	opts.Labels = fixedLabels{}
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w, r
}

func amount(v float64) *float64 { return &v }

func nearVec(a, b r3.Vector) bool {
	return a.Sub(b).Norm() < 1e-9
}

func TestNewDefaults(t *testing.T) {
	textures := &instantTextures{}
	w, r := newTestWorld(t, Options{Textures: textures})

	if w.Mapper().Radius() != core.DefaultPlanetRadius {
		t.Errorf("radius = %v, want %v", w.Mapper().Radius(), core.DefaultPlanetRadius)
	}
	if len(textures.paths) != 1 || textures.paths[0] != DefaultTexturePath {
		t.Errorf("texture requests = %v", textures.paths)
	}
	if cam := w.Camera().Position; !nearVec(cam, r3.Vector{Z: 400}) {
		t.Errorf("default camera at %v, want (0,0,400)", cam)
	}
	if len(r.frames) == 0 {
		t.Fatal("no frame rendered on creation")
	}
	if !r.last().Planet.TextureReady {
		t.Error("frame does not report the loaded texture")
	}
}

func TestTextureFailureKeepsWorld(t *testing.T) {
	textures := &instantTextures{err: errors.New("404")}
	w, _ := newTestWorld(t, Options{TexturePath: "missing.jpg", Textures: textures})

	f := w.Frame()
	if f.Planet.TextureReady {
		t.Error("texture reported ready after a failed load")
	}
	if f.Planet.TexturePath != "missing.jpg" {
		t.Errorf("texture path = %q", f.Planet.TexturePath)
	}
}

func TestNewRejectsNegativeRadius(t *testing.T) {
	_, err := New(Options{Radius: -1, Labels: fixedLabels{}})
	if !errors.Is(err, core.ErrInvalidGeometry) {
		t.Errorf("err = %v, want ErrInvalidGeometry", err)
	}
}

func TestAddSeriesRoutesByType(t *testing.T) {
	w, _ := newTestWorld(t, Options{})

	report := w.AddSeries([]series.Series{
		{Name: "pins", Type: series.Pin, Color: series.ColorSpec{Flat: "#ff0000"}, Data: []series.Item{{Lat: 10, Lon: 20}}},
		{Name: "flags", Type: series.Flag, Data: []series.Item{{Lat: -10, Lon: 5, Label: "Lima"}}},
		{Name: "bars", Type: series.Cube, Data: []series.Item{{Lat: 0, Lon: 0, Amount: amount(3)}}},
		{Name: "balls", Type: series.Sphere, Data: []series.Item{{Lat: 1, Lon: 1}}},
	})

	want := series.Report{Live: 2, Merged: 1, Dropped: 1}
	if report != want {
		t.Errorf("report = %v, want %v", report, want)
	}

	pin := w.GetPin(10, 20)
	if pin == nil {
		t.Fatal("pin not found")
	}
	if pin.State().Color != 0xff0000 {
		t.Errorf("pin color = %v", pin.State().Color)
	}
	if want := w.Mapper().ToSpatial(core.GeoPoint{Lat: 10, Lon: 20}); !nearVec(pin.Position(), want) {
		t.Errorf("pin at %v, want %v", pin.Position(), want)
	}

	flag := w.GetFlag(-10, 5)
	if flag == nil || flag.Label() != "Lima" {
		t.Fatalf("flag = %v", flag)
	}
	if w.GetPin(-10, 5) != nil {
		t.Error("flag returned by GetPin")
	}
	if len(w.LiveObjects()) != 2 {
		t.Errorf("live objects = %d, want 2", len(w.LiveObjects()))
	}
}

func TestMergedSolidsAreNotLive(t *testing.T) {
	w, r := newTestWorld(t, Options{})

	report := w.AddSeries([]series.Series{{
		Name:  "gradient",
		Type:  series.Cube,
		Color: series.ColorSpec{Gradient: []string{"#000000", "#ffffff"}},
		Data:  []series.Item{{Lat: 0, Lon: 0, Amount: amount(0)}, {Lat: 45, Lon: 45, Amount: amount(10)}},
	}})

	if report.Merged != 2 {
		t.Fatalf("merged = %d, want 2", report.Merged)
	}
	if len(w.LiveObjects()) != 0 {
		t.Errorf("merged solids show up as live objects")
	}
	if w.GetPin(0, 0) != nil || w.GetFlag(45, 45) != nil {
		t.Error("merged solid found by a live query")
	}

	colors := map[core.Color]int{}
	for _, f := range r.last().Surface.Faces {
		colors[f.Color]++
	}
	if colors[0x000000] != 12 || colors[0xffffff] != 12 {
		t.Errorf("surface face colors = %v, want 12 black and 12 white", colors)
	}
	if got := len(w.SurfaceSpecs()); got != 2 {
		t.Errorf("specs = %d, want 2", got)
	}
}

func TestFrameReusesSurfaceUntilItChanges(t *testing.T) {
	w, _ := newTestWorld(t, Options{})
	w.AddSeries([]series.Series{{Type: series.Cone, Data: []series.Item{{}}}})

	a := w.Frame()
	b := w.Frame()
	if a.SurfaceVersion != b.SurfaceVersion || b.Seq != a.Seq+1 {
		t.Errorf("versions %d/%d, seq %d/%d", a.SurfaceVersion, b.SurfaceVersion, a.Seq, b.Seq)
	}

	w.AddSeries([]series.Series{{Type: series.Cylinder, Data: []series.Item{{}}}})
	c := w.Frame()
	if c.SurfaceVersion == b.SurfaceVersion {
		t.Error("surface version did not change after a merge")
	}
	if c.Surface.VertexCount() <= b.Surface.VertexCount() {
		t.Error("surface did not grow")
	}
}

func TestRebuildSurface(t *testing.T) {
	w, _ := newTestWorld(t, Options{})
	w.AddSeries([]series.Series{{Type: series.Cube, Data: []series.Item{{}, {Lat: 5}}}})

	specs := w.SurfaceSpecs()
	if failed := w.RebuildSurface(specs[:1]); failed != 0 {
		t.Errorf("failed = %d", failed)
	}
	if got := w.Surface().FaceCount(); got != 12 {
		t.Errorf("faces after rebuild = %d, want 12", got)
	}
}

func TestCameraZoomScalesLiveObjects(t *testing.T) {
	w, _ := newTestWorld(t, Options{})
	pin := w.AddPin(PinOptions{Lat: 0, Long: 0})

	if math.Abs(pin.Scale()-4) > 1e-12 {
		t.Errorf("pin scale at default camera = %v, want 4", pin.Scale())
	}

	w.MoveCamera(CameraLookingAt(r3.Vector{X: 300, Y: 400}, r3.Vector{}))
	if math.Abs(pin.Scale()-5) > 1e-12 {
		t.Errorf("pin scale = %v, want 5", pin.Scale())
	}
}

func TestFlagsFacingAwayAreHidden(t *testing.T) {
	w, _ := newTestWorld(t, Options{})

	// Longitude -90 maps onto +Z, towards the default camera; +90 onto -Z.
	near := w.AddFlag(FlagOptions{Lat: 0, Long: -90, Label: "near"})
	far := w.AddFlag(FlagOptions{Lat: 0, Long: 90, Label: "far"})

	if !near.Visible() {
		t.Error("near flag hidden")
	}
	if math.Abs(near.Scale()-4) > 1e-12 {
		t.Errorf("near flag scale = %v, want 4", near.Scale())
	}
	if near.Orientation() != w.Camera().Orientation {
		t.Error("near flag does not copy the camera orientation")
	}

	if far.Visible() {
		t.Error("far flag visible")
	}
	if far.Scale() != 1 {
		t.Errorf("hidden flag rescaled to %v", far.Scale())
	}

	// From above the north pole both sit at a right angle, past the limit.
	w.MoveCamera(CameraLookingAt(r3.Vector{Y: 400}, r3.Vector{}))
	if near.Visible() || far.Visible() {
		t.Error("flags on the equator visible from above the pole")
	}
}

func TestViewAngle(t *testing.T) {
	tests := []struct {
		name      string
		camera, p r3.Vector
		want      float64
	}{
		{"same direction", r3.Vector{Z: 400}, r3.Vector{Z: 100}, 0},
		{"opposite", r3.Vector{Z: 400}, r3.Vector{Z: -100}, math.Pi},
		{"right angle", r3.Vector{Z: 400}, r3.Vector{X: 100}, math.Pi / 2},
		{"at origin", r3.Vector{Z: 400}, r3.Vector{}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := viewAngle(tc.camera, tc.p); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("viewAngle = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAddRemove(t *testing.T) {
	w, _ := newTestWorld(t, Options{})
	m := NewMarker("satellite", primitives.Sphere(2, 8, 8), core.White)

	w.AddToSurface(m, 0, -90)
	if want := (r3.Vector{Z: 100}); !nearVec(m.Position(), want) {
		t.Errorf("marker at %v, want %v", m.Position(), want)
	}
	w.Add(m)
	if len(w.LiveObjects()) != 1 {
		t.Errorf("double add attached %d objects", len(w.LiveObjects()))
	}

	if !w.Remove(m) {
		t.Error("Remove reported a detached object")
	}
	if w.Remove(m) {
		t.Error("second Remove succeeded")
	}
}

func TestAddArc(t *testing.T) {
	w, r := newTestWorld(t, Options{Arc: core.ArcOptions{Samples: 10}})

	arc, err := w.AddArc(core.GeoPoint{}, core.GeoPoint{Lon: 90}, "")
	if err != nil {
		t.Fatalf("AddArc: %v", err)
	}
	if arc.Color != core.White {
		t.Errorf("default arc color = %v", arc.Color)
	}
	if len(arc.Points) != 11 {
		t.Errorf("arc has %d points, want 11", len(arc.Points))
	}
	if got := r.last().Arcs; len(got) != 1 || len(got[0].Points) != 11 {
		t.Errorf("frame arcs = %v", got)
	}

	if _, err := w.AddArc(core.GeoPoint{}, core.GeoPoint{Lon: 1}, "#zz0000"); !errors.Is(err, core.ErrInvalidColor) {
		t.Errorf("bad color err = %v", err)
	}

	if _, err := w.AddArc(core.GeoPoint{Lat: 91}, core.GeoPoint{}, ""); !errors.Is(err, core.ErrInvalidGeometry) {
		t.Errorf("out of range endpoint err = %v", err)
	}
	if len(w.Arcs()) != 1 {
		t.Errorf("arcs = %d after rejected adds, want 1", len(w.Arcs()))
	}

	if !w.RemoveArc(arc) || len(w.Arcs()) != 0 {
		t.Error("arc not removed")
	}
}

func TestAnimateObjectOnArc(t *testing.T) {
	w, _ := newTestWorld(t, Options{})
	arc, err := w.AddArc(core.GeoPoint{}, core.GeoPoint{Lat: 30, Lon: 60}, "#00ff00")
	if err != nil {
		t.Fatal(err)
	}
	m := NewMarker("satellite", primitives.Sphere(1, 4, 4), core.White)

	if _, err := w.AnimateObjectOnArc(arc, m, 3); err != nil {
		t.Fatalf("AnimateObjectOnArc: %v", err)
	}
	if len(w.LiveObjects()) != 1 {
		t.Fatal("animated object not attached")
	}

	wantSteps := []float64{1, 2.0 / 3, 1.0 / 3}
	for i, progress := range wantSteps {
		more := w.Tick()
		if want := arc.PointAt(progress); !nearVec(m.Position(), want) {
			t.Errorf("tick %d: at %v, want %v", i, m.Position(), want)
		}
		if more != (i < len(wantSteps)-1) {
			t.Errorf("tick %d: Tick() = %v", i, more)
		}
	}

	if len(w.LiveObjects()) != 0 {
		t.Error("object still attached after the animation")
	}
	if w.Animations() != 0 {
		t.Errorf("%d animations still running", w.Animations())
	}
	if w.Tick() {
		t.Error("Tick with no animations reported work")
	}
}

func TestAnimationEndsWhenTargetRemoved(t *testing.T) {
	w, _ := newTestWorld(t, Options{})
	arc, _ := w.AddArc(core.GeoPoint{}, core.GeoPoint{Lon: 45}, "")
	m := NewMarker("satellite", primitives.Sphere(1, 4, 4), core.White)

	a, err := w.AnimateObjectOnArc(arc, m, 10)
	if err != nil {
		t.Fatal(err)
	}
	w.Tick()
	w.Remove(m)

	if w.Tick() {
		t.Error("animation continued after its target was removed")
	}
	if a.Remaining() != 0 {
		t.Errorf("remaining = %d", a.Remaining())
	}
}

func TestSetSizeResizesRenderer(t *testing.T) {
	w, r := newTestWorld(t, Options{})
	w.SetSize(800, 600)
	if r.width != 800 || r.height != 600 {
		t.Errorf("renderer size = %dx%d", r.width, r.height)
	}
}
