package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/voidrun/pkg/lod"
	"github.com/taigrr/voidrun/pkg/math3d"
	"github.com/taigrr/voidrun/pkg/render"
	"github.com/taigrr/voidrun/pkg/terrain"
)

func quad(x0, y0, x1, y1 float64, f Face) Face {
	f.N = 4
	f.Pts = [4]Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
	return f
}

func TestSortSameOwnerSideFirst(t *testing.T) {
	top := Face{I: 4, J: 9, Top: true, Depth: 80, Elevation: 3}
	side := Face{I: 4, J: 9, Depth: 20, Elevation: 3}

	tests := []struct {
		name  string
		faces []Face
		want  []int
	}{
		{"top listed first", []Face{top, side}, []int{1, 0}},
		{"side listed first", []Face{side, top}, []int{0, 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			c := NewCompositor(&cfg)
			assert.Equal(t, tc.want, c.Sort(tc.faces))
		})
	}
}

func TestSortSideFirstAcrossOtherOwners(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCompositor(&cfg)
	faces := []Face{
		{I: 4, J: 9, Top: true, Depth: 40, Elevation: 3},
		{I: 7, J: 2, Top: true, Depth: 30, Elevation: 1},
		{I: 4, J: 9, Depth: 20, Elevation: 3},
		{I: 1, J: 1, Top: true, Depth: 10, Elevation: 1},
	}

	assert.Equal(t, []int{1, 2, 0, 3}, c.Sort(faces))
}

func assertSidesBeforeTops(t *testing.T, faces []Face, order []int) {
	t.Helper()
	pos := make([]int, len(faces))
	for p, k := range order {
		pos[k] = p
	}
	lastSide := map[owner]int{}
	for k := range faces {
		if !faces[k].Top {
			o := owner{faces[k].I, faces[k].J}
			if p, ok := lastSide[o]; !ok || pos[k] > p {
				lastSide[o] = pos[k]
			}
		}
	}
	for k := range faces {
		f := &faces[k]
		if !f.Top {
			continue
		}
		if p, ok := lastSide[owner{f.I, f.J}]; ok {
			require.Greater(t, pos[k], p, "top of (%d,%d) painted before its side", f.I, f.J)
		}
	}
}

func TestSortSidesBeforeTopsOnGeneratedTerrain(t *testing.T) {
	opts := terrain.DefaultOptions()
	opts.Size = 256
	g := terrain.Generate(opts)
	lcfg := lod.DefaultConfig()
	lcfg.StartScale = 1
	lcfg.StartRadius = 120
	rc := NewRenderContext(DefaultConfig(), g, lod.New(lcfg), nil, nil, WithDisplaySize(320, 180))

	si, sj, ok := terrain.FindSpawn(g)
	require.True(t, ok)
	for f := range 12 {
		yaw := float64(f) * 0.52
		pose := Pose{X: (float64(si) + 0.5) * 12, Y: (float64(sj) + 0.5) * 12, Z: 1, Yaw: yaw}
		rc.RenderFrame(FrameInput{Pose: pose, Time: float64(f)})

		faces := rc.build.faces
		require.NotEmpty(t, faces)
		require.Len(t, rc.comp.order, len(faces))
		assertSidesBeforeTops(t, faces, rc.comp.order)
	}
}

func TestSortDepthThenElevation(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCompositor(&cfg)
	faces := []Face{
		{I: 0, Depth: 10, Elevation: 1},
		{I: 1, Depth: 50, Elevation: 1},
		{I: 2, Depth: 10.5, Elevation: 0.5},
		{I: 3, Depth: 30, Elevation: 9},
		{I: 4, Depth: 29.5, Elevation: 2},
	}
	order := c.Sort(faces)

	var owners []int
	for _, k := range order {
		owners = append(owners, faces[k].I)
	}
	assert.Equal(t, []int{1, 4, 3, 2, 0}, owners)
}

func TestSortIsStableForTies(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCompositor(&cfg)
	faces := make([]Face, 6)
	for k := range faces {
		faces[k] = Face{I: k, Depth: 20, Elevation: 1}
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, c.Sort(faces))
}

func TestCompositeRecordsOccluders(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCompositor(&cfg)
	fb := render.NewFramebuffer(20, 20)
	fb.Clear(render.RGB(0, 0, 0))

	wall := render.RGB(200, 0, 0)
	faces := []Face{
		quad(2, 2, 10, 10, Face{Kind: KindTerrain, I: 1, Depth: 30, Elevation: 5, Color: wall, Top: true}),
		quad(10, 2, 18, 10, Face{Kind: KindTerrain, I: 2, Depth: 55, Elevation: 5, Color: wall, Top: true}),
		quad(2, 10, 10, 18, Face{Kind: KindTerrain, I: 3, Depth: 30, Elevation: 1.5, Color: wall, Top: true}),
		quad(10, 10, 18, 18, Face{Kind: KindPickup, I: -2, Depth: 30, Elevation: 9, Color: wall, Top: true}),
	}
	c.Sort(faces)
	require.Equal(t, 1, c.Composite(fb, faces, 1))
	assert.Equal(t, wall, fb.GetPixel(5, 5))

	// Paint over everything, as the craft sprite would.
	fb.DrawRect(0, 0, 20, 20, render.RGB(0, 0, 255))
	c.Occlude(fb, faces)
	assert.Equal(t, wall, fb.GetPixel(5, 5))
	assert.Equal(t, render.RGB(0, 0, 255), fb.GetPixel(14, 5))
	assert.Equal(t, render.RGB(0, 0, 255), fb.GetPixel(5, 14))
	assert.Equal(t, render.RGB(0, 0, 255), fb.GetPixel(14, 14))
}

func TestCompositeStrokesBoundaryEdges(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCompositor(&cfg)
	c.EdgeColor = render.RGB(255, 255, 255)
	fb := render.NewFramebuffer(20, 20)
	fb.Clear(render.RGB(0, 0, 0))

	fill := render.RGB(0, 100, 0)
	faces := []Face{quad(2.2, 2.2, 15.2, 15.2, Face{Top: true, Color: fill, Edges: EdgeSouth})}
	c.Sort(faces)
	c.Composite(fb, faces, 0)

	assert.Equal(t, c.EdgeColor, fb.GetPixel(8, 2))
	assert.Equal(t, fill, fb.GetPixel(8, 15))
	assert.Equal(t, fill, fb.GetPixel(8, 8))
}

func TestCompositeDiscs(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCompositor(&cfg)
	fb := render.NewFramebuffer(20, 20)
	fb.Clear(render.RGB(0, 0, 0))

	core := render.RGB(0, 255, 255)
	f := Face{Kind: KindProjectile, N: 1, Radius: 3, Color: core, Depth: 10}
	f.Pts[0] = Point{X: 10, Y: 10}
	faces := []Face{f}
	c.Sort(faces)
	assert.Zero(t, c.Composite(fb, faces, 0))
	assert.Equal(t, core, fb.GetPixel(10, 10))
	assert.Equal(t, render.RGB(0, 0, 0), fb.GetPixel(10, 15))
}

func TestQuadSeamPadding(t *testing.T) {
	f := quad(10, 10, 20, 20, Face{})
	var buf [4]math3d.Vec2
	pts := f.polygon(&buf)
	require.Len(t, pts, 4)
	assert.InDelta(t, 9.6, pts[0].X, 1e-9)
	assert.InDelta(t, 9.6, pts[0].Y, 1e-9)
	assert.InDelta(t, 20.4, pts[2].X, 1e-9)
	assert.InDelta(t, 20.4, pts[2].Y, 1e-9)

	tri := Face{N: 3}
	tri.Pts = [4]Point{{X: 1, Y: 1}, {X: 5, Y: 1}, {X: 3, Y: 4}}
	assert.Len(t, tri.polygon(&buf), 3)
	assert.Equal(t, 1.0, tri.polygon(&buf)[0].X)
}

func BenchmarkSort(b *testing.B) {
	cfg := DefaultConfig()
	c := NewCompositor(&cfg)
	faces := make([]Face, 4000)
	for k := range faces {
		faces[k] = Face{I: k % 97, J: k / 97, Depth: float64((k * 7919) % 1000), Elevation: float64(k % 5), Top: k%3 == 0}
	}
	for b.Loop() {
		c.Sort(faces)
	}
}
