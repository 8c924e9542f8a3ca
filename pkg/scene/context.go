package scene

import (
	"image"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/voidrun/pkg/craft"
	"github.com/taigrr/voidrun/pkg/lod"
	"github.com/taigrr/voidrun/pkg/minimap"
	"github.com/taigrr/voidrun/pkg/render"
	"github.com/taigrr/voidrun/pkg/terrain"
)

// FrameInput is what the simulation hands the renderer each frame.
type FrameInput struct {
	Pose    Pose
	Tilt    float64 // Craft roll in radians
	Time    float64 // Frame clock in seconds
	Objects []Object
}

// Stats describes the last rendered frame.
type Stats struct {
	Cells     int // Cells that passed the culler
	Faces     int
	Occluders int
	Width     int // Surface size
	Height    int
	Radius    int
}

// RenderContext owns every piece of render state that persists between
// frames. It is not safe for concurrent use.
type RenderContext struct {
	cfg    Config
	grid   *terrain.Grid
	lod    *lod.Controller
	mini   *minimap.Minimap
	sprite *craft.Sprite
	sky    *Sky

	culler Culler
	comp   *Compositor
	build  builder

	surface *render.Framebuffer
	display *render.Framebuffer

	stats Stats
	log   *zap.Logger
}

// Option configures a RenderContext.
type Option func(*RenderContext)

// WithLogger sets the context's logger.
func WithLogger(l *zap.Logger) Option {
	return func(rc *RenderContext) {
		if l != nil {
			rc.log = l
		}
	}
}

// WithSky replaces the default backdrop.
func WithSky(s *Sky) Option {
	return func(rc *RenderContext) {
		rc.sky = s
	}
}

// WithDisplaySize sets the initial display size in pixels.
func WithDisplaySize(w, h int) Option {
	return func(rc *RenderContext) {
		rc.display.Resize(w, h)
	}
}

// NewRenderContext wires a render pipeline over grid. mini and sprite may
// be nil to skip the minimap or the craft overlay.
func NewRenderContext(cfg Config, grid *terrain.Grid, ctl *lod.Controller, mini *minimap.Minimap, sprite *craft.Sprite, opts ...Option) *RenderContext {
	rc := &RenderContext{
		cfg:     cfg,
		grid:    grid,
		lod:     ctl,
		mini:    mini,
		sprite:  sprite,
		sky:     NewSky(StarSeed, CloudSeed),
		surface: render.NewFramebuffer(1, 1),
		display: render.NewFramebuffer(int(cfg.ReferenceWidth), int(cfg.ReferenceWidth*9/16)),
		log:     zap.NewNop(),
	}
	rc.culler = NewCuller(&rc.cfg)
	rc.comp = NewCompositor(&rc.cfg)
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

// Resize changes the display size. The surface follows on the next frame.
func (rc *RenderContext) Resize(w, h int) {
	rc.display.Resize(w, h)
	rc.log.Debug("display resized", zap.Int("width", rc.display.Width), zap.Int("height", rc.display.Height))
}

// Display returns the framebuffer RenderFrame draws into.
func (rc *RenderContext) Display() *render.Framebuffer {
	return rc.display
}

// Surface returns the low-resolution frame before upscaling.
func (rc *RenderContext) Surface() *render.Framebuffer {
	return rc.surface
}

// Stats returns counters for the last frame.
func (rc *RenderContext) Stats() Stats {
	return rc.stats
}

// Observe feeds frame timing to the LOD controller and reports whether it
// took a sample.
func (rc *RenderContext) Observe(dt time.Duration) bool {
	return rc.lod.Frame(dt)
}

// Reset restores the grid, the LOD controller and the minimap to their
// startup state.
func (rc *RenderContext) Reset() {
	rc.grid.Reset()
	rc.lod.Reset()
	if rc.mini != nil {
		rc.mini.Reset()
	}
	rc.log.Info("render context reset")
}

// RenderFrame draws one frame and returns the display framebuffer.
func (rc *RenderContext) RenderFrame(in FrameInput) *render.Framebuffer {
	st := rc.lod.State()
	sw := max(1, int(math.Round(float64(rc.display.Width)*st.Scale)))
	sh := max(1, int(math.Round(float64(rc.display.Height)*st.Scale)))
	rc.surface.Resize(sw, sh)

	proj := NewProjector(sw, sh, &rc.cfg)
	cam := ChaseCamera(in.Pose, &rc.cfg)
	ci, cj := cam.Cell(rc.cfg.TileSize)

	b := &rc.build
	*b = builder{
		cfg:     &rc.cfg,
		cam:     &cam,
		proj:    &proj,
		grid:    rc.grid,
		culler:  rc.culler,
		camI:    ci,
		camJ:    cj,
		radius:  st.Radius,
		radius2: float64(st.Radius * st.Radius),
		time:    in.Time,
		faces:   b.faces[:0],
	}
	cells := rc.culler.Walk(rc.grid, ci, cj, cam.Cos, cam.Sin, st.Radius, b.cell)
	for k := range in.Objects {
		b.object(k, &in.Objects[k])
	}

	rc.sky.Draw(rc.surface, &proj, in.Pose.Yaw, in.Time)
	rc.comp.Sort(b.faces)
	occ := rc.comp.Composite(rc.surface, b.faces, in.Pose.Z)
	if rc.sprite != nil {
		cy := proj.Horizon + rc.cfg.CameraHeight/rc.cfg.CameraDistance*proj.FOV
		rc.sprite.Draw(rc.surface, proj.Width/2, cy, proj.Width/rc.cfg.ReferenceWidth, in.Tilt)
	}
	rc.comp.Occlude(rc.surface, b.faces)

	rc.surface.ScaleTo(rc.display)
	rc.drawMinimap(in.Pose)

	rc.stats = Stats{
		Cells:     cells,
		Faces:     len(b.faces),
		Occluders: occ,
		Width:     sw,
		Height:    sh,
		Radius:    st.Radius,
	}
	return rc.display
}

// drawMinimap drains pending grid changes into the minimap, publishes them
// and blits the texture in the top-right corner.
func (rc *RenderContext) drawMinimap(p Pose) {
	if rc.mini == nil {
		rc.grid.Drain(func(terrain.CellChange) {})
		return
	}
	rc.grid.Drain(func(c terrain.CellChange) {
		rc.mini.PatchCell(c.I, c.J)
	})
	rc.mini.Flush()

	size := min(rc.cfg.MinimapSize, rc.display.Width/3, rc.display.Height/2)
	if size < 8 {
		return
	}
	const margin = 4
	x := rc.display.Width - size - margin
	rect := image.Rect(x, margin, x+size, margin+size)
	ts := rc.cfg.TileSize
	rc.mini.Draw(rc.display, rect, p.X/ts, p.Y/ts, render.RGB(255, 255, 255))
}
