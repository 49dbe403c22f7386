package server

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"worldview/mesh"
	"worldview/world"
)

// SceneMessage is one frame as sent to browser clients. Meshes are only
// included the first time a client needs them.
type SceneMessage struct {
	Type           string       `json:"type"`
	Seq            uint64       `json:"seq"`
	Planet         PlanetData   `json:"planet"`
	Surface        *MeshData    `json:"surface,omitempty"`
	SurfaceVersion uint64       `json:"surfaceVersion"`
	Objects        []ObjectData `json:"objects"`
	Arcs           []ArcData    `json:"arcs"`
	Camera         CameraData   `json:"camera"`
}

type PlanetData struct {
	Radius       float64   `json:"radius"`
	Texture      string    `json:"texture"`
	TextureReady bool      `json:"textureReady"`
	Background   string    `json:"background"`
	Mesh         *MeshData `json:"mesh,omitempty"`
}

// MeshData is an indexed triangle mesh with one color per face
type MeshData struct {
	Vertices [][3]float64 `json:"vertices"`
	Indices  []uint32     `json:"indices"`
	Colors   []string     `json:"colors"`
}

type ObjectData struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	Position    [3]float64 `json:"position"`
	Orientation [4]float64 `json:"orientation"`
	Scale       float64    `json:"scale"`
	Visible     bool       `json:"visible"`
	Color       string     `json:"color"`
	Opacity     float64    `json:"opacity"`
	Label       string     `json:"label,omitempty"`
	Mesh        *MeshData  `json:"mesh,omitempty"`
}

type ArcData struct {
	Color  string       `json:"color"`
	Points [][3]float64 `json:"points"`
}

type CameraData struct {
	Position    [3]float64 `json:"position"`
	Orientation [4]float64 `json:"orientation"`
}

// ControlMessage is sent by clients to change the scene
type ControlMessage struct {
	// Type is one of "camera", "reset_camera", "resize", "arc", "series"
	Type string `json:"type"`

	Position *[3]float64 `json:"position,omitempty"`
	Target   [3]float64  `json:"target"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// From and To are [lat, long] in degrees
	From     *[2]float64 `json:"from,omitempty"`
	To       *[2]float64 `json:"to,omitempty"`
	Color    string      `json:"color,omitempty"`
	Duration int         `json:"duration,omitempty"`

	Series json.RawMessage `json:"series,omitempty"`
}

func vec(v r3.Vector) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func quat(q mgl64.Quat) [4]float64 {
	return [4]float64{q.W, q.V[0], q.V[1], q.V[2]}
}

func newMeshData(g mesh.Geometry) *MeshData {
	m := &MeshData{
		Vertices: make([][3]float64, len(g.Vertices)),
		Indices:  g.Indices(),
		Colors:   make([]string, len(g.Faces)),
	}
	for i, v := range g.Vertices {
		m.Vertices[i] = [3]float64{v[0], v[1], v[2]}
	}
	for i, f := range g.Faces {
		m.Colors[i] = f.Color.Hex()
	}
	return m
}

func newCameraData(c world.Camera) CameraData {
	return CameraData{Position: vec(c.Position), Orientation: quat(c.Orientation)}
}
