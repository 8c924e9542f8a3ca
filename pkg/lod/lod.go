// Package lod holds the adaptive level-of-detail controller that trades
// draw distance against render resolution to hold a target frame rate.
package lod

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// Config bounds and paces the controller.
type Config struct {
	MinRadius   int `yaml:"min_radius"`
	MaxRadius   int `yaml:"max_radius"`
	StartRadius int `yaml:"start_radius"`
	RadiusStep  int `yaml:"radius_step"`

	MinScale   float64 `yaml:"min_scale"`
	MaxScale   float64 `yaml:"max_scale"`
	StartScale float64 `yaml:"start_scale"`
	ScaleStep  float64 `yaml:"scale_step"`

	// Below LowFPS the controller sheds detail; at or above HighFPS it
	// adds detail.
	LowFPS  float64 `yaml:"low_fps"`
	HighFPS float64 `yaml:"high_fps"`

	// FastInterval is used until Warmup of session time has elapsed,
	// SlowInterval afterwards.
	Warmup       time.Duration `yaml:"warmup"`
	FastInterval time.Duration `yaml:"fast_interval"`
	SlowInterval time.Duration `yaml:"slow_interval"`
}

// DefaultConfig returns the stock bounds. The controller starts at the
// cheapest setting and climbs.
func DefaultConfig() Config {
	return Config{
		MinRadius:    40,
		MaxRadius:    280,
		StartRadius:  40,
		RadiusStep:   1,
		MinScale:     0.03,
		MaxScale:     1.0,
		StartScale:   0.03,
		ScaleStep:    0.01,
		LowFPS:       50,
		HighFPS:      59,
		Warmup:       8 * time.Second,
		FastInterval: 20 * time.Millisecond,
		SlowInterval: 250 * time.Millisecond,
	}
}

// State is the controller's output. Phase selects the knob the next
// adjustment moves: 0 and 2 move Radius, 1 moves Scale.
type State struct {
	Scale  float64
	Radius int
	Phase  int
}

// Controller is not safe for concurrent use.
type Controller struct {
	cfg   Config
	state State

	session time.Duration
	window  time.Duration
	frames  int
	lastFPS float64

	log *zap.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger adjustments are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a controller at the configured start state.
func New(cfg Config, opts ...Option) *Controller {
	c := &Controller{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset()
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// FPS returns the rate measured at the last sample, or 0 before the first.
func (c *Controller) FPS() float64 {
	return c.lastFPS
}

// Interval returns the current sampling interval.
func (c *Controller) Interval() time.Duration {
	if c.session < c.cfg.Warmup {
		return c.cfg.FastInterval
	}
	return c.cfg.SlowInterval
}

// Frame records one rendered frame that took dt. When the sampling window
// is full it measures the frame rate, adjusts, and reports true.
func (c *Controller) Frame(dt time.Duration) bool {
	if dt < 0 {
		dt = 0
	}
	interval := c.Interval()
	c.session += dt
	c.window += dt
	c.frames++
	if c.window < interval || c.window <= 0 {
		return false
	}
	fps := float64(c.frames) / c.window.Seconds()
	c.window, c.frames = 0, 0
	c.Adjust(fps)
	return true
}

// Adjust applies one feedback step for a measured frame rate. Readings
// inside [LowFPS, HighFPS) leave the state untouched. Otherwise the knob
// for the current phase moves one step, clamped to its bounds, and the
// phase advances even if the knob was already at its bound.
func (c *Controller) Adjust(fps float64) {
	c.lastFPS = fps
	var dir int
	switch {
	case fps < c.cfg.LowFPS:
		dir = -1
	case fps >= c.cfg.HighFPS:
		dir = 1
	default:
		return
	}

	prev := c.state
	if c.state.Phase == 1 {
		c.state.Scale = c.stepScale(c.state.Scale, dir)
	} else {
		c.state.Radius = clampInt(c.state.Radius+dir*c.cfg.RadiusStep, c.cfg.MinRadius, c.cfg.MaxRadius)
	}
	c.state.Phase = (c.state.Phase + 1) % 3

	if prev.Scale != c.state.Scale || prev.Radius != c.state.Radius {
		c.log.Debug("lod adjusted",
			zap.Float64("fps", fps),
			zap.Int("phase", prev.Phase),
			zap.Int("radius", c.state.Radius),
			zap.Float64("scale", c.state.Scale),
		)
	}
}

// Degrade drops the resolution one step without advancing the phase.
func (c *Controller) Degrade() {
	c.state.Scale = c.stepScale(c.state.Scale, -1)
	c.log.Debug("lod degraded", zap.Float64("scale", c.state.Scale))
}

// Reset restores the start state and session clock.
func (c *Controller) Reset() {
	c.state = State{
		Scale:  clampFloat(c.cfg.StartScale, c.cfg.MinScale, c.cfg.MaxScale),
		Radius: clampInt(c.cfg.StartRadius, c.cfg.MinRadius, c.cfg.MaxRadius),
	}
	c.session, c.window, c.frames, c.lastFPS = 0, 0, 0, 0
}

// stepScale moves s by one step and snaps it to the step grid so repeated
// steps do not drift.
func (c *Controller) stepScale(s float64, dir int) float64 {
	s += float64(dir) * c.cfg.ScaleStep
	if c.cfg.ScaleStep > 0 {
		s = math.Round(s/c.cfg.ScaleStep) * c.cfg.ScaleStep
	}
	return clampFloat(s, c.cfg.MinScale, c.cfg.MaxScale)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
