package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"

	"worldview/config"
	"worldview/logging"
	"worldview/metrics"
	"worldview/rendering/raylib"
	"worldview/series"
	"worldview/server"
	"worldview/world"
)

func main() {
	var (
		configPath = flag.String("config", "", "Settings file (default: ./settings.json if present)")
		seriesPath = flag.String("series", "", "Series JSON file to place on the globe")
		mode       = flag.String("mode", "server", "Run mode (server, viewer)")
		progress   = flag.Bool("progress", false, "Show a progress bar while placing series")
	)
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	logger := logging.Setup(settings.Log.Level, settings.Log.Format)

	fmt.Println("=== worldview ===")
	fmt.Printf("Mode: %s\n", *mode)
	fmt.Printf("Planet radius: %.0f (~%d vertices)\n",
		settings.World.PlanetRadius, config.ApproximateVertexCount(settings.World.PlanetSegments))

	background, err := settings.World.Background()
	if err != nil {
		log.Fatalf("Invalid background color: %v", err)
	}
	opts := world.Options{
		Radius:         settings.World.PlanetRadius,
		PlanetSegments: settings.World.PlanetSegments,
		TexturePath:    settings.World.TexturePath,
		Background:     background,
		Arc:            settings.World.ArcOptions(),
		Logger:         logger,
	}

	if *seriesPath == "" {
		*seriesPath = settings.World.SeriesFile
	}

	switch *mode {
	case "server":
		runServer(settings, opts, *seriesPath, *progress, logger)
	case "viewer":
		runViewer(settings, opts, *seriesPath, *progress)
	default:
		log.Fatalf("Unknown mode: %s", *mode)
	}
}

func runServer(settings *config.Settings, opts world.Options, seriesPath string, progress bool, logger *slog.Logger) {
	srv := server.New(server.Config{
		Addr:                    fmt.Sprintf(":%d", settings.Server.Port),
		UpdateInterval:          time.Duration(settings.Server.UpdateIntervalMs) * time.Millisecond,
		StaticDir:               settings.Server.StaticDir,
		ClientMessagesPerSecond: settings.Server.ClientMessagesPerSecond,
	}, logger)

	opts.Renderer = srv
	w, err := world.New(opts)
	if err != nil {
		log.Fatalf("Failed to create world: %v", err)
	}
	loadSeries(w, seriesPath, progress)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Server starting on http://localhost:%d\n", settings.Server.Port)
	if err := srv.Run(ctx, w); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func runViewer(settings *config.Settings, opts world.Options, seriesPath string, progress bool) {
	// raylib needs the main thread
	runtime.LockOSThread()

	viewer := raylib.New(raylib.Config{
		Width:     settings.Viewer.Width,
		Height:    settings.Viewer.Height,
		TargetFPS: settings.Viewer.TargetFPS,
	}, opts.Logger)
	viewer.Open()
	defer viewer.Close()

	opts.Renderer = viewer
	opts.Textures = viewer
	w, err := world.New(opts)
	if err != nil {
		log.Fatalf("Failed to create world: %v", err)
	}
	loadSeries(w, seriesPath, progress)

	viewer.Run(w)
}

func loadSeries(w *world.World, path string, progress bool) {
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open series: %v", err)
	}
	defer f.Close()

	list, err := series.Decode(f)
	if err != nil {
		log.Fatalf("Failed to read series: %v", err)
	}

	var dispatchOpts []series.DispatchOption
	if progress {
		var bar *progressbar.ProgressBar
		dispatchOpts = append(dispatchOpts, series.WithProgress(func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription("placing markers"),
					progressbar.OptionShowCount(),
					progressbar.OptionThrottle(100*time.Millisecond),
					progressbar.OptionClearOnFinish(),
				)
			}
			bar.Set(done)
		}))
	}

	report := w.AddSeries(list, dispatchOpts...)
	metrics.RecordReport(report)
	metrics.SurfaceVertices.Set(float64(w.Surface().VertexCount()))
	fmt.Printf("Placed %d series: %s\n", len(list), report)
}
