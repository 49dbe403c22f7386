// Package raylib draws a world in a native window.
//
// All raylib calls must happen on the goroutine that called Open; the
// viewer also owns the world it drives.
package raylib

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"worldview/core"
	"worldview/mesh"
	"worldview/world"
)

// Config controls the window
type Config struct {
	Width, Height int
	TargetFPS     int
	Title         string
}

// Viewer implements world.Renderer, world.Resizer and world.TextureLoader
type Viewer struct {
	cfg Config
	log *slog.Logger

	open    bool
	frame   world.Frame
	texture rl.Texture2D
	planet  rl.Model
	// planetReady is set once the textured planet model exists
	planetReady bool
}

// New returns a viewer; call Open before creating the world
func New(cfg Config, log *slog.Logger) *Viewer {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Title == "" {
		cfg.Title = "worldview"
	}
	return &Viewer{cfg: cfg, log: log}
}

// Open creates the window and GL context
func (v *Viewer) Open() {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(v.cfg.Width), int32(v.cfg.Height), v.cfg.Title)
	rl.SetTargetFPS(int32(v.cfg.TargetFPS))
	v.open = true
}

// Close releases GPU resources and the window
func (v *Viewer) Close() {
	if !v.open {
		return
	}
	if v.planetReady {
		rl.UnloadModel(v.planet)
	}
	if v.texture.ID != 0 {
		rl.UnloadTexture(v.texture)
	}
	rl.CloseWindow()
	v.open = false
}

// Load reads the planet texture. It needs an open window and calls done
// before returning.
func (v *Viewer) Load(path string, done func(error)) {
	if !v.open {
		done(errors.New("viewer window is not open"))
		return
	}
	if _, err := os.Stat(path); err != nil {
		done(fmt.Errorf("planet texture: %w", err))
		return
	}
	tex := rl.LoadTexture(path)
	if tex.ID == 0 {
		done(fmt.Errorf("planet texture %s could not be decoded", path))
		return
	}
	v.texture = tex
	done(nil)
}

// Render keeps the frame for the next draw
func (v *Viewer) Render(f world.Frame) {
	v.frame = f
}

// Resize is a no-op: raylib tracks the window size itself
func (v *Viewer) Resize(width, height int) {
	v.log.Debug("viewport resized", "width", width, "height", height)
}

// Run drives w until the window closes. Left drag orbits, the wheel zooms.
func (v *Viewer) Run(w *world.World) {
	r := w.Mapper().Radius()
	orbit := world.Orbit{Distance: 4 * r}
	w.MoveCamera(orbit.Camera())

	for !rl.WindowShouldClose() {
		moved := false
		if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			d := rl.GetMouseDelta()
			orbit.Rotate(-float64(d.X)*0.005, float64(d.Y)*0.005)
			moved = d.X != 0 || d.Y != 0
		}
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			orbit.Zoom(1-0.1*float64(wheel), 1.2*r, 20*r)
			moved = true
		}
		if moved {
			w.MoveCamera(orbit.Camera())
		}
		if rl.IsWindowResized() {
			w.SetSize(int(rl.GetScreenWidth()), int(rl.GetScreenHeight()))
		}
		w.Tick()

		v.draw()
	}
}

func (v *Viewer) draw() {
	f := v.frame
	cam := camera3D(f.Camera)

	rl.BeginDrawing()
	rl.ClearBackground(toColor(f.Planet.Background, 1))
	rl.BeginMode3D(cam)

	v.drawPlanet(f.Planet)
	drawGeometry(f.Surface, 1)
	for _, o := range f.Objects {
		if !o.Visible {
			continue
		}
		drawGeometry(o.Geometry.Transformed(mesh.Compose(o.Position, o.Orientation, o.Scale)), o.Opacity)
	}
	for _, a := range f.Arcs {
		c := toColor(a.Color, 1)
		for i := 1; i < len(a.Points); i++ {
			rl.DrawLine3D(vector3(a.Points[i-1]), vector3(a.Points[i]), c)
		}
	}

	rl.EndMode3D()

	for _, o := range f.Objects {
		if o.Label == "" || !o.Visible {
			continue
		}
		p := rl.GetWorldToScreen(vector3(o.Position), cam)
		rl.DrawText(o.Label, int32(p.X)+4, int32(p.Y)-20, 16, rl.White)
	}
	rl.DrawFPS(10, 10)
	rl.EndDrawing()
}

func (v *Viewer) drawPlanet(p world.Planet) {
	if !p.TextureReady {
		drawGeometry(p.Geometry, 1)
		return
	}
	if !v.planetReady {
		m := rl.GenMeshSphere(float32(p.Radius), 64, 64)
		v.planet = rl.LoadModelFromMesh(m)
		rl.SetMaterialTexture(v.planet.Materials, rl.MapDiffuse, v.texture)
		v.planetReady = true
	}
	rl.DrawModel(v.planet, rl.NewVector3(0, 0, 0), 1, rl.White)
}

func drawGeometry(g mesh.Geometry, opacity float64) {
	for _, f := range g.Faces {
		rl.DrawTriangle3D(
			fromVec3(g.Vertices[f.A]),
			fromVec3(g.Vertices[f.B]),
			fromVec3(g.Vertices[f.C]),
			toColor(f.Color, opacity))
	}
}

func camera3D(c world.Camera) rl.Camera3D {
	forward := c.Orientation.Rotate(mgl64.Vec3{0, 0, -1})
	up := c.Orientation.Rotate(mgl64.Vec3{0, 1, 0})
	target := c.Position.Add(core.FromVec3(forward))

	return rl.Camera3D{
		Position:   vector3(c.Position),
		Target:     vector3(target),
		Up:         rl.NewVector3(float32(up[0]), float32(up[1]), float32(up[2])),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}

func vector3(v r3.Vector) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func fromVec3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v[0]), float32(v[1]), float32(v[2]))
}

func toColor(c core.Color, opacity float64) rl.Color {
	r, g, b := c.RGB()
	return rl.NewColor(r, g, b, uint8(opacity*255))
}
