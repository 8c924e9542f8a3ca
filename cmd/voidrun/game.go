package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/taigrr/voidrun/internal/config"
	"github.com/taigrr/voidrun/internal/logger"
	"github.com/taigrr/voidrun/internal/telemetry"
	"github.com/taigrr/voidrun/pkg/craft"
	"github.com/taigrr/voidrun/pkg/lod"
	"github.com/taigrr/voidrun/pkg/minimap"
	"github.com/taigrr/voidrun/pkg/render"
	"github.com/taigrr/voidrun/pkg/scene"
	"github.com/taigrr/voidrun/pkg/terrain"
)

const (
	maxHull  = 3
	maxStep  = 0.05 // Longest simulated step, in seconds
	stallDur = 250 * time.Millisecond
)

// game ties the demo simulation to the render context.
type game struct {
	cfg     *config.Config
	grid    *terrain.Grid
	ctl     *lod.Controller
	rc      *scene.RenderContext
	pilot   *Pilot
	world   *World
	metrics *telemetry.Metrics

	spawnI, spawnJ int
	clock          float64
	hull           int
	log            *zap.Logger
}

func newGame(cfg *config.Config, metrics *telemetry.Metrics) (*game, error) {
	log := logger.Named("game")

	start := time.Now()
	grid := terrain.Generate(cfg.Terrain)
	si, sj, ok := terrain.FindSpawn(grid)
	if !ok {
		return nil, fmt.Errorf("no floor cell in terrain (seed %q)", cfg.Terrain.Seed)
	}
	n := grid.Size()
	log.Info("terrain generated",
		zap.String("seed", cfg.Terrain.Seed),
		zap.String("cells", humanize.Comma(int64(n*n))),
		zap.Duration("took", time.Since(start)),
	)

	sprite := craft.Default()
	if cfg.Demo.Craft != "" {
		s, err := craft.LoadSprite(cfg.Demo.Craft)
		if err != nil {
			return nil, fmt.Errorf("load craft: %w", err)
		}
		sprite = s
		log.Info("craft loaded", zap.String("path", cfg.Demo.Craft), zap.Int("polys", len(sprite.Polys)))
	}

	ctl := lod.New(cfg.LOD, lod.WithLogger(logger.Named("lod")))
	mini := minimap.New(grid, minimap.DefaultSize)
	mini.Alpha = render.Alpha8(cfg.Render.MinimapAlpha)
	log.Debug("minimap ready", zap.String("texture", humanize.Bytes(uint64(len(mini.Image().Pix)))))

	rc := scene.NewRenderContext(cfg.Render, grid, ctl, mini, sprite, scene.WithLogger(logger.Named("render")))
	seed := terrain.SeedValue(cfg.Terrain.Seed)

	return &game{
		cfg:     cfg,
		grid:    grid,
		ctl:     ctl,
		rc:      rc,
		pilot:   NewPilot(grid, si, sj, cfg.Demo.Speed, cfg.Render.TileSize, cfg.Demo.FPS),
		world:   NewWorld(grid, cfg.Demo, seed, cfg.Render.TileSize, si, sj),
		metrics: metrics,
		spawnI:  si,
		spawnJ:  sj,
		hull:    maxHull,
		log:     log,
	}, nil
}

// step advances the simulation by dt seconds.
func (g *game) step(dt float64) {
	dt = min(dt, maxStep)
	g.clock += dt
	if !g.pilot.Auto {
		// Key releases are not reported by every terminal.
		g.pilot.Steer *= 0.9
	}
	if g.pilot.Update(g.grid, dt) {
		g.crash()
	}
	g.world.Update(g.clock, dt, g.pilot)
}

// crash costs one hull point and respawns the craft. Losing the last point
// restarts the run.
func (g *game) crash() {
	g.hull--
	g.log.Info("crashed", zap.Int("hull", g.hull), zap.Int("collected", g.world.Collected()))
	if g.hull <= 0 {
		g.restart()
		return
	}
	g.pilot.Respawn(g.grid, g.spawnI, g.spawnJ)
}

// restart restores the terrain, the minimap, the LOD state and the world.
func (g *game) restart() {
	g.rc.Reset()
	g.world.Reset(g.spawnI, g.spawnJ)
	g.pilot.Respawn(g.grid, g.spawnI, g.spawnJ)
	g.hull = maxHull
	g.clock = 0
}

// render draws the current state into the display framebuffer.
func (g *game) render() *render.Framebuffer {
	return g.rc.RenderFrame(scene.FrameInput{
		Pose:    g.pilot.Pose,
		Tilt:    g.pilot.Tilt,
		Time:    g.clock,
		Objects: g.world.Objects(g.clock),
	})
}

// observe reports one frame's wall time to the LOD controller and the
// metrics. A stalled frame drops the resolution immediately.
func (g *game) observe(frame time.Duration) {
	if frame > stallDur {
		g.ctl.Degrade()
	}
	st := g.rc.Stats()
	g.metrics.ObserveFrame(frame, st)
	if g.rc.Observe(frame) {
		g.metrics.ObserveLOD(g.ctl.State(), g.ctl.FPS())
	}
}

// status is the one-line HUD under the frame.
func (g *game) status() string {
	st := g.rc.Stats()
	mode := "manual"
	if g.pilot.Auto {
		mode = "auto"
	}
	return fmt.Sprintf(" voidrun  %3.0f fps  hull %d  pickups %d  %s  draw %d  res %dx%d  faces %s ",
		g.ctl.FPS(), g.hull, g.world.Collected(), mode, st.Radius, st.Width, st.Height,
		humanize.Comma(int64(st.Faces)))
}
