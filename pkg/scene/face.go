package scene

import (
	"github.com/taigrr/voidrun/pkg/math3d"
	"github.com/taigrr/voidrun/pkg/render"
)

// FaceKind tags what generated a face.
type FaceKind uint8

const (
	KindTerrain FaceKind = iota
	KindPickup
	KindBeacon
	KindHostile
	KindProjectile
	KindParticle
)

var kindNames = [...]string{"terrain", "pickup", "beacon", "hostile", "projectile", "particle"}

func (k FaceKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Boundary edges of a quad. Bit k marks the edge Pts[k] to Pts[k+1].
const (
	EdgeSouth uint8 = 1 << iota
	EdgeEast
	EdgeNorth
	EdgeWest
)

// Face is one shaded polygon of the current frame.
//
// N is 4 for quads, 3 for triangles and 1 for discs, which use Pts[0] as
// the center and Radius in pixels. I and J name the owning cell; dynamic
// objects use negative I so they never share an owner with terrain.
type Face struct {
	Kind      FaceKind
	Pts       [4]Point
	N         uint8
	Radius    float64
	Color     render.Color
	Depth     float64
	Elevation float64
	Top       bool
	I, J      int
	Edges     uint8
}

// seamPad is how far quad corners are pushed away from the centroid, in
// pixels, so neighboring faces overlap instead of leaving hairline gaps.
const seamPad = 0.4

// polygon writes the fill outline into buf and returns it.
func (f *Face) polygon(buf *[4]math3d.Vec2) []math3d.Vec2 {
	n := int(f.N)
	if n != 4 {
		for k := range n {
			buf[k] = f.Pts[k].XY()
		}
		return buf[:n]
	}
	cx := (f.Pts[0].X + f.Pts[1].X + f.Pts[2].X + f.Pts[3].X) * 0.25
	cy := (f.Pts[0].Y + f.Pts[1].Y + f.Pts[2].Y + f.Pts[3].Y) * 0.25
	for k := range 4 {
		p := f.Pts[k]
		buf[k] = math3d.V2(p.X+padToward(p.X, cx), p.Y+padToward(p.Y, cy))
	}
	return buf[:4]
}

func padToward(v, center float64) float64 {
	switch {
	case v > center:
		return seamPad
	case v < center:
		return -seamPad
	default:
		return 0
	}
}

// avgDepth returns the mean clamped depth of the first n points.
func avgDepth(pts *[4]Point, n int) float64 {
	s := 0.0
	for k := range n {
		s += pts[k].Depth
	}
	return s / float64(n)
}

// allBehind reports whether every point lies behind the plane at limit.
func allBehind(pts *[4]Point, n int, limit float64) bool {
	for k := range n {
		if pts[k].RawDepth >= limit {
			return false
		}
	}
	return true
}
