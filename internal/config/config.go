// Package config handles voidrun configuration loading and management.
package config

import (
	"time"

	"github.com/taigrr/voidrun/pkg/lod"
	"github.com/taigrr/voidrun/pkg/scene"
	"github.com/taigrr/voidrun/pkg/terrain"
)

// Config holds all settings.
type Config struct {
	Render  scene.Config    `yaml:"render"`
	LOD     lod.Config      `yaml:"lod"`
	Terrain terrain.Options `yaml:"terrain"`
	Demo    DemoConfig      `yaml:"demo"`
	Logging LoggingConfig   `yaml:"logging"`
	Metrics MetricsConfig   `yaml:"metrics"`
}

// DemoConfig holds settings for the demo driver.
type DemoConfig struct {
	FPS        int           `yaml:"fps"`         // Frame cap
	Craft      string        `yaml:"craft"`       // Optional GLB model for the craft sprite
	Speed      float64       `yaml:"speed"`       // Cruise speed, world units per second
	Objects    int           `yaml:"objects"`     // Pickups and hostiles scattered near spawn
	DecayEvery time.Duration `yaml:"decay_every"` // Interval between floor decay events
	SpikeEvery time.Duration `yaml:"spike_every"` // Interval between hazard spikes
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// MetricsConfig holds the Prometheus endpoint settings. An empty Addr
// disables the endpoint.
type MetricsConfig struct {
	Addr      string `yaml:"addr"`
	Namespace string `yaml:"namespace"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render:  scene.DefaultConfig(),
		LOD:     lod.DefaultConfig(),
		Terrain: terrain.DefaultOptions(),
		Demo: DemoConfig{
			FPS:        60,
			Speed:      90,
			Objects:    24,
			DecayEvery: 150 * time.Millisecond,
			SpikeEvery: 2 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Namespace: "voidrun",
		},
	}
}
