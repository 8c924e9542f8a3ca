package craft

import (
	"cmp"
	"math"
	"slices"

	"github.com/taigrr/voidrun/pkg/math3d"
	"github.com/taigrr/voidrun/pkg/render"
)

// Mesh is a flat triangle soup with one color per triangle.
type Mesh struct {
	Name      string
	Positions []math3d.Vec3
	Tris      [][3]int
	Colors    []render.Color
}

// AddTriangle appends a triangle over existing positions.
func (m *Mesh) AddTriangle(a, b, c int, col render.Color) {
	m.Tris = append(m.Tris, [3]int{a, b, c})
	m.Colors = append(m.Colors, col)
}

// Bounds returns the axis-aligned bounding box.
func (m *Mesh) Bounds() (lo, hi math3d.Vec3) {
	if len(m.Positions) == 0 {
		return
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi
}

// Sprite width, in sprite units, that baked meshes are fitted to.
const spriteWidth = 44

// ChasePitch is the downward view angle the sprite is baked from, matching
// a camera 25 units above and 60 behind the craft.
var ChasePitch = math.Atan2(25, 60)

var bakeLight = math3d.V3(-0.4, 0.8, -0.45).Normalize()

// Bake renders the mesh into a sprite as seen from behind and above. The
// model is taken to face +Z with +Y up. Triangles are flat shaded and
// ordered back to front.
func (m *Mesh) Bake(pitch float64) *Sprite {
	sp, cp := math.Sincos(pitch)
	fwd := math3d.V3(0, -sp, cp)
	up := math3d.V3(0, cp, sp)
	right := math3d.V3(-1, 0, 0)

	type tri struct {
		pts   [3]math3d.Vec2
		depth float64
		color render.Color
	}
	tris := make([]tri, 0, len(m.Tris))
	lo := math3d.V2(math.Inf(1), math.Inf(1))
	hi := math3d.V2(math.Inf(-1), math.Inf(-1))

	for k, t := range m.Tris {
		a, b, c := m.Positions[t[0]], m.Positions[t[1]], m.Positions[t[2]]
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		if n.Len() == 0 {
			continue
		}
		light := 0.35 + 0.65*math.Abs(n.Dot(bakeLight))
		base := m.Colors[k]

		var out tri
		for v, p := range [3]math3d.Vec3{a, b, c} {
			s := math3d.V2(p.Dot(right), -p.Dot(up))
			out.pts[v] = s
			out.depth += p.Dot(fwd) / 3
			lo = math3d.V2(math.Min(lo.X, s.X), math.Min(lo.Y, s.Y))
			hi = math3d.V2(math.Max(hi.X, s.X), math.Max(hi.Y, s.Y))
		}
		out.color = render.RGBA(
			render.Clamp8(float64(base.R)*light),
			render.Clamp8(float64(base.G)*light),
			render.Clamp8(float64(base.B)*light),
			base.A,
		)
		tris = append(tris, out)
	}

	sprite := &Sprite{Name: m.Name}
	if len(tris) == 0 || hi.X <= lo.X {
		return sprite
	}

	slices.SortStableFunc(tris, func(x, y tri) int {
		return cmp.Compare(y.depth, x.depth)
	})

	scale := spriteWidth / (hi.X - lo.X)
	center := lo.Add(hi).Scale(0.5)
	anchor := math3d.V2(0, -1.5)
	for _, t := range tris {
		pts := make([]math3d.Vec2, 3)
		for v := range 3 {
			pts[v] = t.pts[v].Sub(center).Scale(scale).Add(anchor)
		}
		sprite.Polys = append(sprite.Polys, Poly{Pts: pts, Color: t.color})
	}
	return sprite
}
