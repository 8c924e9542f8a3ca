package scene

import (
	"cmp"
	"math"
	"slices"

	"github.com/taigrr/voidrun/pkg/math3d"
	"github.com/taigrr/voidrun/pkg/render"
)

// Compositor paints faces back to front without a depth buffer.
type Compositor struct {
	// Epsilon is the depth difference below which faces are ordered by
	// elevation instead.
	Epsilon float64

	// Terrain faces nearer than ForegroundDepth whose elevation exceeds the
	// tracked entity's by more than ElevationMargin are repainted by
	// Occlude.
	ForegroundDepth float64
	ElevationMargin float64

	EdgeColor render.Color

	order     []int
	occluders []int

	lastSide map[owner]int
	deferred []deferredTop
	repaired []int
}

type owner struct{ I, J int }

// deferredTop is a top face held back until position after of the
// pre-repair order has been emitted.
type deferredTop struct {
	after int
	k     int
}

// NewCompositor builds a compositor from the pipeline config.
func NewCompositor(cfg *Config) *Compositor {
	return &Compositor{
		Epsilon:         cfg.DepthEpsilon,
		ForegroundDepth: cfg.CameraDistance * cfg.OcclusionDepth,
		ElevationMargin: cfg.OcclusionMargin,
		EdgeColor:       render.RGBA(5, 15, 12, 128),
		lastSide:        make(map[owner]int),
	}
}

// compareFaces orders a before b when it must be painted first: farther
// faces paint first and near-ties paint lower faces first. The same-owner
// rule is applied afterwards by sidesFirst.
func compareFaces(a, b *Face, eps float64) int {
	if dd := b.Depth - a.Depth; math.Abs(dd) > eps {
		if dd > 0 {
			return 1
		}
		return -1
	}
	return cmp.Compare(a.Elevation, b.Elevation)
}

// Sort computes the paint order of faces and returns it as indices into
// faces. Within one owner every side paints before the top. The slice is
// reused by the next call.
func (c *Compositor) Sort(faces []Face) []int {
	c.order = c.order[:0]
	for k := range faces {
		c.order = append(c.order, k)
	}
	slices.SortStableFunc(c.order, func(x, y int) int {
		return compareFaces(&faces[x], &faces[y], c.Epsilon)
	})
	c.sidesFirst(faces)
	return c.order
}

// sidesFirst moves each top that precedes a side of its own owner to just
// after that owner's last side, keeping every other face in place.
func (c *Compositor) sidesFirst(faces []Face) {
	if c.lastSide == nil {
		c.lastSide = make(map[owner]int)
	}
	clear(c.lastSide)
	for p, k := range c.order {
		if f := &faces[k]; !f.Top {
			c.lastSide[owner{f.I, f.J}] = p
		}
	}

	c.deferred = c.deferred[:0]
	for p, k := range c.order {
		f := &faces[k]
		if !f.Top {
			continue
		}
		if last, ok := c.lastSide[owner{f.I, f.J}]; ok && last > p {
			c.deferred = append(c.deferred, deferredTop{after: last, k: k})
		}
	}
	if len(c.deferred) == 0 {
		return
	}
	slices.SortStableFunc(c.deferred, func(a, b deferredTop) int {
		return cmp.Compare(a.after, b.after)
	})

	c.repaired = c.repaired[:0]
	d := 0
	for p, k := range c.order {
		f := &faces[k]
		if f.Top {
			if last, ok := c.lastSide[owner{f.I, f.J}]; ok && last > p {
				continue
			}
		}
		c.repaired = append(c.repaired, k)
		for d < len(c.deferred) && c.deferred[d].after == p {
			c.repaired = append(c.repaired, c.deferred[d].k)
			d++
		}
	}
	c.order, c.repaired = c.repaired, c.order
}

// Composite paints faces in the order computed by Sort, strokes boundary
// edges, and records the faces Occlude will repaint. It returns the number
// of occluders.
func (c *Compositor) Composite(fb *render.Framebuffer, faces []Face, trackedZ float64) int {
	c.occluders = c.occluders[:0]
	var buf [4]math3d.Vec2
	for _, k := range c.order {
		f := &faces[k]
		paint(fb, f, &buf)
		if f.Edges != 0 {
			c.stroke(fb, f)
		}
		if f.Kind == KindTerrain && f.Depth < c.ForegroundDepth && f.Elevation > trackedZ+c.ElevationMargin {
			c.occluders = append(c.occluders, k)
		}
	}
	return len(c.occluders)
}

// Occlude repaints the recorded foreground faces over whatever was drawn
// since Composite.
func (c *Compositor) Occlude(fb *render.Framebuffer, faces []Face) {
	var buf [4]math3d.Vec2
	for _, k := range c.occluders {
		paint(fb, &faces[k], &buf)
	}
}

func paint(fb *render.Framebuffer, f *Face, buf *[4]math3d.Vec2) {
	if f.N == 1 {
		fb.FillCircle(f.Pts[0].X, f.Pts[0].Y, f.Radius, f.Color)
		return
	}
	fb.FillPolygon(f.polygon(buf), f.Color)
}

func (c *Compositor) stroke(fb *render.Framebuffer, f *Face) {
	for k := range 4 {
		if f.Edges&(1<<k) == 0 {
			continue
		}
		a, b := f.Pts[k], f.Pts[(k+1)%4]
		fb.StrokeLine(a.X, a.Y, b.X, b.Y, c.EdgeColor)
	}
}
