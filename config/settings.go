// Package config loads worldview settings from defaults, an optional
// settings file and WORLDVIEW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"worldview/core"
)

// Settings holds all application configuration
type Settings struct {
	World  WorldSettings  `mapstructure:"world"`
	Server ServerSettings `mapstructure:"server"`
	Viewer ViewerSettings `mapstructure:"viewer"`
	Log    LogSettings    `mapstructure:"log"`
}

type WorldSettings struct {
	PlanetRadius    float64 `mapstructure:"planet_radius"`
	PlanetSegments  int     `mapstructure:"planet_segments"`
	TexturePath     string  `mapstructure:"texture_path"`
	BackgroundColor string  `mapstructure:"background_color"`
	ArcSamples      int     `mapstructure:"arc_samples"`
	ArcLiftRate     float64 `mapstructure:"arc_lift_rate"`
	SeriesFile      string  `mapstructure:"series_file"`
}

type ServerSettings struct {
	Port             int    `mapstructure:"port"`
	UpdateIntervalMs int    `mapstructure:"update_interval_ms"`
	StaticDir        string `mapstructure:"static_dir"`

	// ClientMessagesPerSecond limits camera updates accepted per connection
	ClientMessagesPerSecond float64 `mapstructure:"client_messages_per_second"`
}

type ViewerSettings struct {
	Width     int `mapstructure:"width"`
	Height    int `mapstructure:"height"`
	TargetFPS int `mapstructure:"target_fps"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Background parses the configured background color
func (w WorldSettings) Background() (core.Color, error) {
	return core.HexStringToInt(w.BackgroundColor)
}

// ArcOptions returns the arc tuning for the world
func (w WorldSettings) ArcOptions() core.ArcOptions {
	return core.ArcOptions{Samples: w.ArcSamples, LiftRate: w.ArcLiftRate}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("world.planet_radius", core.DefaultPlanetRadius)
	v.SetDefault("world.planet_segments", 64)
	v.SetDefault("world.texture_path", "assets/earthmap4k.jpg")
	v.SetDefault("world.background_color", "#000000")
	v.SetDefault("world.arc_samples", core.DefaultArcSamples)
	v.SetDefault("world.arc_lift_rate", core.DefaultArcLiftRate)
	v.SetDefault("world.series_file", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.update_interval_ms", 100)
	v.SetDefault("server.static_dir", "web")
	v.SetDefault("server.client_messages_per_second", 30)
	v.SetDefault("viewer.width", 1280)
	v.SetDefault("viewer.height", 720)
	v.SetDefault("viewer.target_fps", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration. An empty path looks for an optional
// settings.json in the working directory; an explicit path must exist.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("settings")
		v.SetConfigType("json")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read settings.json: %w", err)
			}
		}
	}

	// WORLDVIEW_WORLD_PLANET_RADIUS → world.planet_radius
	v.SetEnvPrefix("WORLDVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks every field and reports all problems at once
func (s *Settings) Validate() error {
	var errs []string

	if s.World.PlanetRadius <= 0 {
		errs = append(errs, fmt.Sprintf("world.planet_radius must be positive, got %v", s.World.PlanetRadius))
	}
	if s.World.PlanetSegments < 3 {
		errs = append(errs, fmt.Sprintf("world.planet_segments must be at least 3, got %d", s.World.PlanetSegments))
	}
	if _, err := s.World.Background(); err != nil {
		errs = append(errs, fmt.Sprintf("world.background_color: %v", err))
	}
	if s.World.ArcSamples < 1 {
		errs = append(errs, fmt.Sprintf("world.arc_samples must be positive, got %d", s.World.ArcSamples))
	}
	if s.World.ArcLiftRate < 0 {
		errs = append(errs, fmt.Sprintf("world.arc_lift_rate must not be negative, got %v", s.World.ArcLiftRate))
	}
	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", s.Server.Port))
	}
	if s.Server.UpdateIntervalMs <= 0 {
		errs = append(errs, "server.update_interval_ms must be positive")
	}
	if s.Server.ClientMessagesPerSecond <= 0 {
		errs = append(errs, "server.client_messages_per_second must be positive")
	}
	if s.Viewer.Width <= 0 || s.Viewer.Height <= 0 {
		errs = append(errs, fmt.Sprintf("viewer size must be positive, got %dx%d", s.Viewer.Width, s.Viewer.Height))
	}
	if s.Viewer.TargetFPS <= 0 {
		errs = append(errs, "viewer.target_fps must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ApproximateVertexCount is the vertex count of a UV sphere with the given
// number of segments and rings.
func ApproximateVertexCount(segments int) int {
	return (segments + 1) * (segments + 1)
}
