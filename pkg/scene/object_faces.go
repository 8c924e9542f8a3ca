package scene

import (
	"math"

	"github.com/taigrr/voidrun/pkg/render"
)

// ObjectKind selects how a dynamic object is drawn.
type ObjectKind uint8

const (
	ObjectPickup ObjectKind = iota
	ObjectBeacon
	ObjectHostile
	ObjectProjectile
	ObjectParticle
)

// Object is a dynamic visual supplied by the simulation each frame.
type Object struct {
	Kind ObjectKind
	X, Y float64 // World units
	Z    float64 // Elevation units; pickups and beacons sit on the ground

	// Phase is the frame-clock time the object's animation starts at and
	// Rate scales its clock (0 means 1).
	Phase float64
	Rate  float64

	Age   float64      // Particles: fraction of life elapsed, in [0,1)
	Color render.Color // Particles
}

// clock returns the object's animation time.
func (o *Object) clock(now float64) float64 {
	rate := o.Rate
	if rate == 0 {
		rate = 1
	}
	return (now - o.Phase) * rate
}

// Dynamic object geometry.
const (
	pickupHalf   = 20.0
	pickupHover  = 2.5
	pickupPoint  = 2.0
	beaconPad    = 0.6 // Fraction of a tile
	beaconBeamW  = 1.5
	hostileBase  = 3.0
	discMinDepth = 2.0
)

// ownerOf returns the synthetic owner row for the idx-th dynamic object.
func ownerOf(idx int) int {
	return -(2 + idx)
}

// object emits the faces of one dynamic object after culling it by the cell
// it occupies.
func (b *builder) object(idx int, o *Object) {
	ts := b.cfg.TileSize
	oi, oj := int(math.Floor(o.X/ts)), int(math.Floor(o.Y/ts))
	di, dj := oi-b.camI, oj-b.camJ
	if !b.culler.Visible(di, dj, b.cam.Cos, b.cam.Sin, b.radius) {
		return
	}
	dist2 := float64(di*di + dj*dj)
	t := o.clock(b.time)

	switch o.Kind {
	case ObjectPickup:
		b.pickup(ownerOf(idx), o, t, dist2)
	case ObjectBeacon:
		b.beacon(ownerOf(idx), oi, oj, t, dist2)
	case ObjectHostile:
		b.hostile(ownerOf(idx), o, t, dist2)
	case ObjectProjectile:
		b.projectile(ownerOf(idx), o, t, dist2)
	case ObjectParticle:
		b.particle(ownerOf(idx), o, dist2)
	}
}

func (b *builder) fogged(c rgb, alpha float64, dist2 float64) render.Color {
	return c.fog(topFog, dist2, b.radius2, b.cfg.FogBlend).rgba(render.Alpha8(alpha))
}

// pickup is a spinning, bobbing diamond of eight triangles.
func (b *builder) pickup(owner int, o *Object, t, dist2 float64) {
	ground := b.grid.Height(int(math.Floor(o.X/b.cfg.TileSize)), int(math.Floor(o.Y/b.cfg.TileSize)))
	mid := math.Max(ground, 0.5) + pickupHover + math.Sin(t*2)*0.3
	top, bot := mid+pickupPoint, mid-pickupPoint

	s, c := math.Sincos(t * 2)
	c, s = c*pickupHalf, s*pickupHalf
	ring := [4][2]float64{
		{o.X + c, o.Y + s},
		{o.X - s, o.Y + c},
		{o.X - c, o.Y - s},
		{o.X + s, o.Y - c},
	}

	apex := b.project(o.X, o.Y, top)
	nadir := b.project(o.X, o.Y, bot)
	for fi := range 4 {
		a := b.project(ring[fi][0], ring[fi][1], mid)
		n := b.project(ring[(fi+1)%4][0], ring[(fi+1)%4][1], mid)

		upper := Face{Kind: KindPickup, N: 3, Top: true, I: owner, J: fi, Elevation: top}
		upper.Pts = [4]Point{apex, a, n}
		if !allBehind(&upper.Pts, 3, b.cfg.NearClip) {
			shade := 180 + float64(fi)*20
			upper.Color = b.fogged(rgb{shade, shade * 0.75, 0}, 1, dist2)
			upper.Depth = avgDepth(&upper.Pts, 3)
			b.faces = append(b.faces, upper)
		}

		lower := Face{Kind: KindPickup, N: 3, I: owner, J: fi + 4, Elevation: mid}
		lower.Pts = [4]Point{nadir, a, n}
		if !allBehind(&lower.Pts, 3, b.cfg.NearClip) {
			shade := 140 + float64(fi)*15
			lower.Color = b.fogged(rgb{shade, shade * 0.65, 0}, 1, dist2)
			lower.Depth = avgDepth(&lower.Pts, 3)
			b.faces = append(b.faces, lower)
		}
	}
}

// beacon is a flashing tile with a soft glow and four pulsing corner beams.
func (b *builder) beacon(owner, i, j int, t, dist2 float64) {
	h := b.grid.Height(i, j)
	if h <= 0 {
		return
	}
	ts := b.cfg.TileSize
	x0, y0 := float64(i)*ts, float64(j)*ts
	x1, y1 := x0+ts, y0+ts

	tile := Face{Kind: KindBeacon, N: 4, Top: true, I: owner, J: 0, Elevation: h + 0.02}
	tile.Pts = [4]Point{
		b.project(x0, y0, h+0.02),
		b.project(x1, y0, h+0.02),
		b.project(x1, y1, h+0.02),
		b.project(x0, y1, h+0.02),
	}
	tile.Depth = avgDepth(&tile.Pts, 4)
	tile.Color = b.fogged(rgb{200, 50, 255}, 0.5+math.Sin(t*6)*0.3, dist2)
	b.faces = append(b.faces, tile)

	pad := ts * beaconPad
	glow := Face{Kind: KindBeacon, N: 4, Top: true, I: owner, J: 1, Elevation: h + 0.04}
	glow.Pts = [4]Point{
		b.project(x0-pad, y0-pad, h+0.04),
		b.project(x1+pad, y0-pad, h+0.04),
		b.project(x1+pad, y1+pad, h+0.04),
		b.project(x0-pad, y1+pad, h+0.04),
	}
	glow.Depth = math.Max(tile.Depth-0.01, b.cfg.NearClip)
	glow.Color = b.fogged(rgb{220, 100, 255}, 0.15+math.Sin(t*4)*0.1, dist2)
	b.faces = append(b.faces, glow)

	beamH := 3 + math.Sin(t*3)*1.5
	beam := b.fogged(rgb{200, 80, 255}, 0.35+math.Sin(t*5)*0.15, dist2)
	corners := [4][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	for k, p := range corners {
		f := Face{Kind: KindBeacon, N: 4, I: owner, J: 2 + k, Elevation: h + beamH, Color: beam}
		f.Pts = [4]Point{
			b.project(p[0]-beaconBeamW, p[1]-beaconBeamW, h),
			b.project(p[0]+beaconBeamW, p[1]+beaconBeamW, h),
			b.project(p[0]+beaconBeamW, p[1]+beaconBeamW, h+beamH),
			b.project(p[0]-beaconBeamW, p[1]-beaconBeamW, h+beamH),
		}
		if allBehind(&f.Pts, 4, b.cfg.NearClip) {
			continue
		}
		f.Depth = avgDepth(&f.Pts, 4)
		b.faces = append(b.faces, f)
	}
}

// hostile is a pulsing block. All of its faces share one owner so its sides
// always paint before its top.
func (b *builder) hostile(owner int, o *Object, t, dist2 float64) {
	pulse := math.Sin(t*3)*0.5 + 0.5
	half := hostileBase + pulse*3
	top := o.Z + 0.5 + pulse*0.5
	base := o.Z + 0.05

	body := rgb{200 + pulse*55, 40 + pulse*60, 40 + pulse*20}
	topColor := b.fogged(body, 1, dist2)
	sideColor := b.fogged(rgb{body.r * 0.7, body.g * 0.7, body.b * 0.7}, 1, dist2)

	x0, x1 := o.X-half, o.X+half
	y0, y1 := o.Y-half, o.Y+half

	if top*b.cfg.HeightScale < b.cam.Pos.Z {
		f := Face{Kind: KindHostile, N: 4, Top: true, I: owner, Elevation: top, Color: topColor}
		f.Pts = [4]Point{
			b.project(x0, y0, top),
			b.project(x1, y0, top),
			b.project(x1, y1, top),
			b.project(x0, y1, top),
		}
		f.Depth = avgDepth(&f.Pts, 4)
		b.faces = append(b.faces, f)
	}

	camDx, camDy := b.cam.Pos.X-o.X, b.cam.Pos.Y-o.Y
	wall := func(ax, ay, bx, by float64) {
		f := Face{Kind: KindHostile, N: 4, I: owner, Elevation: top, Color: sideColor}
		f.Pts = [4]Point{
			b.project(ax, ay, top),
			b.project(bx, by, top),
			b.project(bx, by, base),
			b.project(ax, ay, base),
		}
		if allBehind(&f.Pts, 4, b.cfg.NearClip) {
			return
		}
		f.Depth = avgDepth(&f.Pts, 4)
		b.faces = append(b.faces, f)
	}
	if camDy < 0 {
		wall(x0, y0, x1, y0)
	}
	if camDy > 0 {
		wall(x1, y1, x0, y1)
	}
	if camDx < 0 {
		wall(x0, y1, x0, y0)
	}
	if camDx > 0 {
		wall(x1, y0, x1, y1)
	}
}

// projectile is a cyan core inside a translucent glow.
func (b *builder) projectile(owner int, o *Object, t, dist2 float64) {
	z := o.Z + 0.15
	p := b.project(o.X, o.Y, z)
	if p.RawDepth < discMinDepth {
		return
	}
	r := math.Max(1, b.proj.FOV*3/p.Depth)
	core := rgb{0, 255, 255}
	if math.Sin(t*10) <= 0 {
		core.g = 221
	}
	glow := Face{Kind: KindProjectile, N: 1, Radius: r * 2, I: owner, J: 0, Depth: p.Depth, Elevation: z}
	glow.Pts[0] = p
	glow.Color = b.fogged(rgb{0, 255, 255}, 0.3, dist2)
	b.faces = append(b.faces, glow)

	f := Face{Kind: KindProjectile, N: 1, Radius: r, I: owner, J: 1, Depth: p.Depth, Elevation: z + 0.01}
	f.Pts[0] = p
	f.Color = b.fogged(core, 1, dist2)
	b.faces = append(b.faces, f)
}

// particle is a fading disc.
func (b *builder) particle(owner int, o *Object, dist2 float64) {
	if o.Age < 0 || o.Age >= 1 {
		return
	}
	p := b.project(o.X, o.Y, o.Z)
	if p.RawDepth < discMinDepth {
		return
	}
	c := rgb{float64(o.Color.R), float64(o.Color.G), float64(o.Color.B)}
	f := Face{
		Kind:      KindParticle,
		N:         1,
		Radius:    math.Max(1, b.proj.FOV*2/p.Depth),
		I:         owner,
		Depth:     p.Depth,
		Elevation: o.Z,
		Color:     b.fogged(c, 1-o.Age, dist2),
	}
	f.Pts[0] = p
	b.faces = append(b.faces, f)
}
