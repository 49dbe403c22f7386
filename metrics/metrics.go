// Package metrics exposes Prometheus instrumentation for the scene host and
// the streaming server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"worldview/series"
)

var (
	// Scene metrics
	Placements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "worldview",
		Subsystem: "scene",
		Name:      "placements_total",
		Help:      "Series rows dispatched, by outcome",
	}, []string{"outcome"})

	SurfaceVertices = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "worldview",
		Subsystem: "scene",
		Name:      "surface_vertices",
		Help:      "Vertices in the merged static surface batch",
	})

	LiveObjects = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "worldview",
		Subsystem: "scene",
		Name:      "live_objects",
		Help:      "Individually addressable objects in the scene",
	})

	ActiveAnimations = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "worldview",
		Subsystem: "scene",
		Name:      "active_animations",
		Help:      "Arc animations still running",
	})

	// Streaming metrics
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "worldview",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	FramesSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "worldview",
		Subsystem: "ws",
		Name:      "frames_sent_total",
		Help:      "Scene frames written to clients",
	})

	FrameEncodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "worldview",
		Subsystem: "ws",
		Name:      "frame_encode_duration_seconds",
		Help:      "Time to encode one scene frame",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})

	ClientMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "worldview",
		Subsystem: "ws",
		Name:      "client_messages_total",
		Help:      "Control messages received from clients, by result",
	}, []string{"result"})
)

// RecordReport adds a dispatch report to the placement counters
func RecordReport(r series.Report) {
	Placements.WithLabelValues("live").Add(float64(r.Live))
	Placements.WithLabelValues("merged").Add(float64(r.Merged))
	Placements.WithLabelValues("dropped").Add(float64(r.Dropped))
	Placements.WithLabelValues("failed").Add(float64(r.Failed))
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
