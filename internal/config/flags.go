package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config alone.
type Flags struct {
	ConfigPath  string
	Seed        string
	Size        int
	FPS         int
	Craft       string
	LogLevel    string
	LogFile     string
	MetricsAddr string
	Debug       bool

	// Not part of Config.
	Snapshot    string
	Frames      int
	WriteConfig string
}

// RegisterFlags binds the flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.StringVar(&f.Seed, "seed", "", "Terrain seed")
	fs.IntVar(&f.Size, "size", 0, "Terrain edge length in cells")
	fs.IntVar(&f.FPS, "fps", 0, "Frame cap")
	fs.StringVar(&f.Craft, "craft", "", "GLB model to use as the craft sprite")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Rotating log file")
	fs.StringVar(&f.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Snapshot, "snapshot", "", "Render headless and write the last frame to this PNG")
	fs.IntVar(&f.Frames, "frames", 120, "Frames to simulate in snapshot mode")
	fs.StringVar(&f.WriteConfig, "write-config", "", "Write the effective config to this path and exit")
	return f
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Seed != "" {
		cfg.Terrain.Seed = f.Seed
	}
	if f.Size > 0 {
		cfg.Terrain.Size = f.Size
	}
	if f.FPS > 0 {
		cfg.Demo.FPS = f.FPS
	}
	if f.Craft != "" {
		cfg.Demo.Craft = f.Craft
	}
	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.MetricsAddr != "" {
		cfg.Metrics.Addr = f.MetricsAddr
	}
}
