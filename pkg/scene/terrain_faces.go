package scene

import (
	"github.com/taigrr/voidrun/pkg/terrain"
)

// voidFloor is the base elevation of walls standing over void, deep enough
// to run off the bottom of the surface.
const voidFloor = -1000

// builder accumulates the faces of one frame.
type builder struct {
	cfg     *Config
	cam     *Camera
	proj    *Projector
	grid    *terrain.Grid
	culler  Culler
	camI    int
	camJ    int
	radius  int
	radius2 float64
	time    float64
	faces   []Face
}

func (b *builder) project(x, y, z float64) Point {
	return b.proj.Project(b.cam, x, y, z)
}

// cell emits the top face and the visible side faces of one grid cell.
func (b *builder) cell(i, j, di, dj int) {
	h := b.grid.Height(i, j)
	if h <= 0 {
		return
	}
	ts := b.cfg.TileSize
	x0, y0 := float64(i)*ts, float64(j)*ts
	x1, y1 := x0+ts, y0+ts
	dist2 := float64(di*di + dj*dj)
	ramp := rampIndex(b.grid.Material(i, j), h)
	spike := ramp == int(terrain.MaterialSpike)
	par := parity(i, j)
	hash := cellHash(i, j)

	if h*b.cfg.HeightScale < b.cam.Pos.Z {
		f := Face{Kind: KindTerrain, N: 4, Top: true, I: i, J: j, Elevation: h}
		f.Pts = [4]Point{
			b.project(x0, y0, h),
			b.project(x1, y0, h),
			b.project(x1, y1, h),
			b.project(x0, y1, h),
		}
		if !allBehind(&f.Pts, 4, b.cfg.NearClip) {
			c := tint(topRamp[ramp][par], (hash-0.5)*16, slopeShade(b.grid, i, j, h), spike)
			f.Color = c.fog(topFog, dist2, b.radius2, b.cfg.FogBlend).rgba(255)
			f.Depth = avgDepth(&f.Pts, 4)
			if dist2 < b.radius2 {
				f.Edges = b.boundary(i, j, h)
			}
			b.faces = append(b.faces, f)
		}
	}

	if h <= b.cfg.SideMinElevation {
		return
	}
	side := sideStyle{h: h, dist2: dist2, base: sideRamp[ramp][par], vary: (hash - 0.5) * 12, spike: spike}
	camDx := b.cam.Pos.X - (x0+x1)*0.5
	camDy := b.cam.Pos.Y - (y0+y1)*0.5
	if camDy < 0 {
		b.side(i, j, i, j-1, x0, y0, x1, y0, lightSouth, &side)
	}
	if camDy > 0 {
		b.side(i, j, i, j+1, x1, y1, x0, y1, lightNorth, &side)
	}
	if camDx < 0 {
		b.side(i, j, i-1, j, x0, y1, x0, y0, lightWest, &side)
	}
	if camDx > 0 {
		b.side(i, j, i+1, j, x1, y0, x1, y1, lightEast, &side)
	}
}

type sideStyle struct {
	h     float64
	dist2 float64
	base  rgb
	vary  float64
	spike bool
}

// side emits the wall between cell (i, j) and neighbor (ni, nj) along the
// edge a→b, if the neighbor is lower.
func (b *builder) side(i, j, ni, nj int, ax, ay, bx, by float64, light float64, s *sideStyle) {
	nh := b.grid.Height(ni, nj)
	if nh >= s.h {
		return
	}
	base := float64(voidFloor)
	if nh > 0 {
		base = nh
	}
	f := Face{Kind: KindTerrain, N: 4, I: i, J: j, Elevation: s.h}
	f.Pts = [4]Point{
		b.project(ax, ay, s.h),
		b.project(bx, by, s.h),
		b.project(bx, by, base),
		b.project(ax, ay, base),
	}
	if allBehind(&f.Pts, 4, b.cfg.NearClip) {
		return
	}
	c := tint(s.base, s.vary, light, s.spike)
	f.Color = c.fog(sideFog, s.dist2, b.radius2, b.cfg.FogBlend).rgba(255)
	f.Depth = avgDepth(&f.Pts, 4)
	b.faces = append(b.faces, f)
}

// boundary marks top-face edges that border void or drop off by more than
// EdgeDrop.
func (b *builder) boundary(i, j int, h float64) uint8 {
	var edges uint8
	drop := func(n float64) bool { return n <= 0 || h-n > b.cfg.EdgeDrop }
	if drop(b.grid.Height(i, j-1)) {
		edges |= EdgeSouth
	}
	if drop(b.grid.Height(i+1, j)) {
		edges |= EdgeEast
	}
	if drop(b.grid.Height(i, j+1)) {
		edges |= EdgeNorth
	}
	if drop(b.grid.Height(i-1, j)) {
		edges |= EdgeWest
	}
	return edges
}
