// Package server streams a world to browser clients over websockets and
// applies the camera and scene changes they send back.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang/geo/r3"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"worldview/core"
	"worldview/metrics"
	"worldview/primitives"
	"worldview/series"
	"worldview/world"
)

// ErrUnknownMessage is returned for control messages with an unknown type
var ErrUnknownMessage = errors.New("unknown control message")

// Config controls the listener and frame cadence
type Config struct {
	Addr                    string
	UpdateInterval          time.Duration
	StaticDir               string
	ClientMessagesPerSecond float64
}

type client struct {
	conn    *websocket.Conn
	limiter *rate.Limiter

	mu             sync.Mutex
	sentSeq        uint64
	surfaceVersion uint64
	sentPlanet     bool
	known          map[string]bool
}

// Server implements world.Renderer by keeping the latest frame and pushing
// it to every client on each tick.
type Server struct {
	cfg      Config
	log      *slog.Logger
	upgrader websocket.Upgrader
	commands chan ControlMessage

	mu            sync.Mutex
	latest        world.Frame
	haveFrame     bool
	width, height int

	clientsMu sync.RWMutex
	clients   map[*client]struct{}
}

// New returns a server; start it with Run, or serve Handler and run Loop
func New(cfg Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if cfg.UpdateInterval <= 0 {
		cfg.UpdateInterval = 100 * time.Millisecond
	}
	if cfg.ClientMessagesPerSecond <= 0 {
		cfg.ClientMessagesPerSecond = 30
	}
	return &Server{
		cfg: cfg,
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for development
			},
		},
		commands: make(chan ControlMessage, 64),
		clients:  make(map[*client]struct{}),
	}
}

// Render stores f for the next broadcast
func (s *Server) Render(f world.Frame) {
	s.mu.Lock()
	s.latest = f
	s.haveFrame = true
	s.mu.Unlock()
}

// Resize records the client viewport
func (s *Server) Resize(width, height int) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
	s.log.Debug("viewport resized", "width", width, "height", height)
}

func (s *Server) frame() (world.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.haveFrame
}

// Handler routes /ws, /metrics and static files
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.Handle("/metrics", metrics.Handler())
	if s.cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}
	return mux
}

// Run serves HTTP and drives w until ctx is cancelled
func (s *Server) Run(ctx context.Context, w *world.World) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()
	go s.Loop(loopCtx, w)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.log.Info("server listening", "addr", s.cfg.Addr, "interval", s.cfg.UpdateInterval)

	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.closeClients()
	return err
}

// Loop owns w: it applies queued control messages, advances animations and
// broadcasts on every tick until ctx is done.
func (s *Server) Loop(ctx context.Context, w *world.World) {
	ticker := time.NewTicker(s.cfg.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.commands:
			if err := s.apply(w, msg); err != nil {
				metrics.ClientMessages.WithLabelValues("rejected").Inc()
				s.log.Warn("control message rejected", "type", msg.Type, "err", err)
				continue
			}
			metrics.ClientMessages.WithLabelValues("applied").Inc()
		case <-ticker.C:
			start := time.Now()
			w.Tick()
			s.broadcast()

			metrics.LiveObjects.Set(float64(len(w.LiveObjects())))
			metrics.ActiveAnimations.Set(float64(w.Animations()))

			if elapsed := time.Since(start); elapsed > s.cfg.UpdateInterval*9/10 {
				s.log.Warn("slow frame", "elapsed", elapsed, "interval", s.cfg.UpdateInterval)
			}
		}
	}
}

func (s *Server) apply(w *world.World, m ControlMessage) error {
	switch m.Type {
	case "camera":
		if m.Position == nil {
			return errors.New("camera message without position")
		}
		eye := r3.Vector{X: m.Position[0], Y: m.Position[1], Z: m.Position[2]}
		target := r3.Vector{X: m.Target[0], Y: m.Target[1], Z: m.Target[2]}
		w.MoveCamera(world.CameraLookingAt(eye, target))
	case "reset_camera":
		w.MoveCamera(w.DefaultCamera())
	case "resize":
		if m.Width <= 0 || m.Height <= 0 {
			return fmt.Errorf("bad viewport %dx%d", m.Width, m.Height)
		}
		w.SetSize(m.Width, m.Height)
	case "arc":
		if m.From == nil || m.To == nil {
			return errors.New("arc message needs from and to")
		}
		arc, err := w.AddArc(
			core.GeoPoint{Lat: m.From[0], Lon: m.From[1]},
			core.GeoPoint{Lat: m.To[0], Lon: m.To[1]},
			m.Color)
		if err != nil {
			return err
		}
		if m.Duration > 0 {
			traveler := world.NewMarker("traveler", primitives.Sphere(1, 8, 8), arc.Color)
			if _, err := w.AnimateObjectOnArc(arc, traveler, m.Duration); err != nil {
				return err
			}
		}
	case "series":
		list, err := series.Decode(bytes.NewReader(m.Series))
		if err != nil {
			return err
		}
		report := w.AddSeries(list)
		metrics.RecordReport(report)
		metrics.SurfaceVertices.Set(float64(w.Surface().VertexCount()))
	default:
		return fmt.Errorf("%w %q", ErrUnknownMessage, m.Type)
	}
	return nil
}

func (s *Server) handleWebSocket(rw http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	mps := s.cfg.ClientMessagesPerSecond
	c := &client{
		conn:    conn,
		limiter: rate.NewLimiter(rate.Limit(mps), max(1, int(mps))),
		known:   make(map[string]bool),
	}
	s.clientsMu.Lock()
	s.clients[c] = struct{}{}
	s.clientsMu.Unlock()
	metrics.ActiveWebSockets.Inc()
	defer func() {
		s.removeClient(c)
		metrics.ActiveWebSockets.Dec()
	}()

	s.log.Info("client connected", "remote", r.RemoteAddr)
	if f, ok := s.frame(); ok {
		if err := s.send(c, f); err != nil {
			s.log.Warn("initial frame failed", "remote", r.RemoteAddr, "err", err)
			return
		}
	}

	for {
		var msg ControlMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("websocket read ended", "remote", r.RemoteAddr, "err", err)
			}
			return
		}
		if !c.limiter.Allow() {
			metrics.ClientMessages.WithLabelValues("throttled").Inc()
			continue
		}
		select {
		case s.commands <- msg:
		default:
			metrics.ClientMessages.WithLabelValues("overflow").Inc()
			s.log.Warn("control queue full, dropping message", "type", msg.Type)
		}
	}
}

func (s *Server) broadcast() {
	f, ok := s.frame()
	if !ok {
		return
	}

	s.clientsMu.RLock()
	var failed []*client
	for c := range s.clients {
		if err := s.send(c, f); err != nil {
			s.log.Warn("websocket write failed", "err", err)
			failed = append(failed, c)
		}
	}
	s.clientsMu.RUnlock()

	for _, c := range failed {
		c.conn.Close()
		s.removeClient(c)
	}
}

// send writes f to c unless c already has it
func (s *Server) send(c *client, f world.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sentSeq >= f.Seq && c.sentPlanet {
		return nil
	}

	start := time.Now()
	data, err := json.Marshal(c.sceneMessage(f))
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", f.Seq, err)
	}
	metrics.FrameEncodeDuration.Observe(time.Since(start).Seconds())

	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	c.sentSeq = f.Seq
	metrics.FramesSent.Inc()
	return nil
}

// sceneMessage converts f, attaching only the meshes c has not seen. The
// caller holds c.mu.
func (c *client) sceneMessage(f world.Frame) SceneMessage {
	msg := SceneMessage{
		Type: "scene",
		Seq:  f.Seq,
		Planet: PlanetData{
			Radius:       f.Planet.Radius,
			Texture:      f.Planet.TexturePath,
			TextureReady: f.Planet.TextureReady,
			Background:   f.Planet.Background.Hex(),
		},
		SurfaceVersion: f.SurfaceVersion,
		Objects:        make([]ObjectData, 0, len(f.Objects)),
		Arcs:           make([]ArcData, 0, len(f.Arcs)),
		Camera:         newCameraData(f.Camera),
	}
	if !c.sentPlanet {
		msg.Planet.Mesh = newMeshData(f.Planet.Geometry)
		c.sentPlanet = true
	}
	if f.SurfaceVersion != c.surfaceVersion {
		msg.Surface = newMeshData(f.Surface)
		c.surfaceVersion = f.SurfaceVersion
	}

	present := make(map[string]bool, len(f.Objects))
	for _, o := range f.Objects {
		present[o.ID] = true
		od := ObjectData{
			ID:          o.ID,
			Kind:        o.Kind,
			Position:    vec(o.Position),
			Orientation: quat(o.Orientation),
			Scale:       o.Scale,
			Visible:     o.Visible,
			Color:       o.Color.Hex(),
			Opacity:     o.Opacity,
			Label:       o.Label,
		}
		if !c.known[o.ID] {
			od.Mesh = newMeshData(o.Geometry)
			c.known[o.ID] = true
		}
		msg.Objects = append(msg.Objects, od)
	}
	for id := range c.known {
		if !present[id] {
			delete(c.known, id)
		}
	}

	for _, a := range f.Arcs {
		ad := ArcData{Color: a.Color.Hex(), Points: make([][3]float64, len(a.Points))}
		for i, p := range a.Points {
			ad.Points[i] = vec(p)
		}
		msg.Arcs = append(msg.Arcs, ad)
	}
	return msg
}

func (s *Server) removeClient(c *client) {
	s.clientsMu.Lock()
	delete(s.clients, c)
	s.clientsMu.Unlock()
}

func (s *Server) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for c := range s.clients {
		c.conn.Close()
		delete(s.clients, c)
	}
}
