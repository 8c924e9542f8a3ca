// Package craft provides the sprite drawn for the tracked vehicle: a
// built-in hover craft, or a silhouette baked from a glTF model.
package craft

import (
	"math"

	"github.com/taigrr/voidrun/pkg/math3d"
	"github.com/taigrr/voidrun/pkg/render"
)

// Poly is one flat-colored polygon in sprite units, origin at the craft's
// screen anchor and +Y pointing down.
type Poly struct {
	Pts   []math3d.Vec2
	Color render.Color
}

// Sprite is an ordered list of polygons, painted first to last.
type Sprite struct {
	Name  string
	Polys []Poly
}

func rect(x, y, w, h float64, c render.Color) Poly {
	return Poly{Pts: []math3d.Vec2{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}, Color: c}
}

func poly(c render.Color, pts ...math3d.Vec2) Poly {
	return Poly{Pts: pts, Color: c}
}

// Default returns the built-in hover craft seen from behind, 44 units wide.
func Default() *Sprite {
	hull := render.RGB(0x88, 0x99, 0xbb)
	rear := render.RGB(0x66, 0x77, 0x99)
	canopy := render.RGB(0xaa, 0xcc, 0xee)
	wing := render.RGB(0x77, 0x88, 0xaa)
	wingRear := render.RGB(0x55, 0x66, 0x88)
	engine := render.RGB(0x44, 0xaa, 0xff)
	tire := render.RGB(0x11, 0x11, 0x11)
	hub := render.RGB(0x44, 0x44, 0x44)

	return &Sprite{
		Name: "hover",
		Polys: []Poly{
			poly(hull, math3d.V2(0, -14), math3d.V2(-4, -10), math3d.V2(-10, -2), math3d.V2(10, -2), math3d.V2(4, -10)),
			rect(-10, -2, 20, 12, rear),
			poly(canopy, math3d.V2(0, -12), math3d.V2(-3, -8), math3d.V2(-3, -3), math3d.V2(3, -3), math3d.V2(3, -8)),
			poly(wing, math3d.V2(-10, -6), math3d.V2(-22, -2), math3d.V2(-20, 0), math3d.V2(-10, -2)),
			poly(wingRear, math3d.V2(-22, -2), math3d.V2(-22, 2), math3d.V2(-10, 2), math3d.V2(-10, -2), math3d.V2(-20, 0)),
			poly(wing, math3d.V2(10, -6), math3d.V2(22, -2), math3d.V2(20, 0), math3d.V2(10, -2)),
			poly(wingRear, math3d.V2(22, -2), math3d.V2(22, 2), math3d.V2(10, 2), math3d.V2(10, -2), math3d.V2(20, 0)),
			rect(-5, 4, 4, 5, engine),
			rect(1, 4, 4, 5, engine),
			rect(-6, 8, 12, 3, render.RGBA(68, 170, 255, 77)),
			rect(-22, 1, 4, 6, tire),
			rect(18, 1, 4, 6, tire),
			rect(-18, -4, 3, 4, tire),
			rect(15, -4, 3, 4, tire),
			rect(-21, 3, 2, 2, hub),
			rect(19, 3, 2, 2, hub),
		},
	}
}

// Bounds returns the sprite's extent in sprite units.
func (s *Sprite) Bounds() (lo, hi math3d.Vec2) {
	lo = math3d.V2(math.Inf(1), math.Inf(1))
	hi = math3d.V2(math.Inf(-1), math.Inf(-1))
	for _, p := range s.Polys {
		for _, v := range p.Pts {
			lo = math3d.V2(math.Min(lo.X, v.X), math.Min(lo.Y, v.Y))
			hi = math3d.V2(math.Max(hi.X, v.X), math.Max(hi.Y, v.Y))
		}
	}
	return lo, hi
}

// Draw paints the sprite anchored at (cx, cy), scaled and rotated by tilt
// radians about the anchor.
func (s *Sprite) Draw(fb *render.Framebuffer, cx, cy, scale, tilt float64) {
	sin, cos := math.Sincos(tilt)
	var buf [16]math3d.Vec2
	for _, p := range s.Polys {
		pts := buf[:0]
		for _, v := range p.Pts {
			x, y := v.X*scale, v.Y*scale
			pts = append(pts, math3d.V2(cx+x*cos-y*sin, cy+x*sin+y*cos))
		}
		fb.FillPolygon(pts, p.Color)
	}
}
