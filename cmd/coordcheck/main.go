package main

import (
	"flag"
	"fmt"

	"worldview/core"
)

func main() {
	radius := flag.Float64("radius", core.DefaultPlanetRadius, "Planet radius")
	flag.Parse()

	m := core.NewMapper(*radius)

	fmt.Println("=== Coordinate Check ===")
	fmt.Println()

	// Test 1: Basic conversions
	fmt.Println("Test 1: Geographic to scene conversions")
	positions := []struct {
		name     string
		lat, lon float64 // degrees
	}{
		{"North Pole", 90, 0},
		{"South Pole", -90, 0},
		{"Equator 0°", 0, 0},
		{"Equator 90°E", 0, 90},
		{"Equator 90°W", 0, -90},
		{"45°N 45°E", 45, 45},
	}
	for _, pos := range positions {
		p := m.ToSpatial(core.GeoPoint{Lat: pos.lat, Lon: pos.lon})
		fmt.Printf("%s (%.0f°, %.0f°):\n", pos.name, pos.lat, pos.lon)
		fmt.Printf("  Scene: X=%.2f, Y=%.2f, Z=%.2f  |p|=%.2f\n", p.X, p.Y, p.Z, p.Norm())
	}

	// Test 2: Seating offsets
	fmt.Println("\nTest 2: Surface offsets")
	for _, girth := range []float64{0, 1, 10, 50, m.Radius() * 2, m.Radius() * 3} {
		off, err := m.SurfaceOffset(girth)
		if err != nil {
			fmt.Printf("  girth %.1f: %v\n", girth, err)
			continue
		}
		fmt.Printf("  girth %.1f: offset %.4f\n", girth, off)
	}

	// Test 3: Arc lift
	fmt.Println("\nTest 3: Arc apex heights")
	arcs := []struct {
		name     string
		from, to core.GeoPoint
	}{
		{"short hop", core.GeoPoint{Lat: 0, Lon: 0}, core.GeoPoint{Lat: 0, Lon: 1}},
		{"quarter", core.GeoPoint{Lat: 0, Lon: 0}, core.GeoPoint{Lat: 0, Lon: 90}},
		{"London to New York", core.GeoPoint{Lat: 51.5, Lon: -0.13}, core.GeoPoint{Lat: 40.7, Lon: -74}},
	}
	for _, a := range arcs {
		arc, err := m.BuildArc(a.from, a.to, core.White, core.ArcOptions{})
		if err != nil {
			fmt.Printf("  %s: %v\n", a.name, err)
			continue
		}
		apex := arc.Apex()
		fmt.Printf("  %s: span %.2f°, apex %.2f above the surface\n",
			a.name, arc.Span.Degrees(), apex.Norm()-m.Radius())
	}

	// Test 4: Gradient blending
	fmt.Println("\nTest 4: Gradient blend #000000 -> #ffffff")
	for _, f := range []float64{0, 0.25, 0.5, 0.75, 1} {
		c, err := core.Blend("#000000", "#ffffff", f)
		if err != nil {
			fmt.Printf("  %.2f: %v\n", f, err)
			continue
		}
		fmt.Printf("  %.2f: %s\n", f, c)
	}
}
