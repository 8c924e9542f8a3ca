package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/voidrun/pkg/math3d"
	"github.com/taigrr/voidrun/pkg/render"
	"github.com/taigrr/voidrun/pkg/terrain"
)

func newTestBuilder(g *terrain.Grid, cam Camera, radius int) *builder {
	cfg := DefaultConfig()
	proj := NewProjector(320, 180, &cfg)
	ci, cj := cam.Cell(cfg.TileSize)
	return &builder{
		cfg:     &cfg,
		cam:     &cam,
		proj:    &proj,
		grid:    g,
		culler:  NewCuller(&cfg),
		camI:    ci,
		camJ:    cj,
		radius:  radius,
		radius2: float64(radius * radius),
	}
}

// southCamera looks along +Y at cell (2, 2) from below it.
func southCamera(z float64) Camera {
	return NewCamera(math3d.V3(30, -30, z), math.Pi/2)
}

func TestCellEmitsTopAndFacingSide(t *testing.T) {
	g := terrain.New(5)
	g.Fill(2, 2, 2, terrain.MaterialLow)
	b := newTestBuilder(g, southCamera(50), 40)

	b.cell(2, 2, 0, 5)
	require.Len(t, b.faces, 2)

	top, side := b.faces[0], b.faces[1]
	assert.True(t, top.Top)
	assert.Equal(t, KindTerrain, top.Kind)
	assert.Equal(t, uint8(4), top.N)
	assert.Equal(t, EdgeSouth|EdgeEast|EdgeNorth|EdgeWest, top.Edges)
	assert.Equal(t, 2.0, top.Elevation)

	assert.False(t, side.Top)
	assert.Equal(t, 2, side.I)
	assert.Equal(t, 2, side.J)
	// Over void the wall runs far below the surface.
	assert.Greater(t, side.Pts[2].Y, 1000.0)

	for _, f := range b.faces {
		assert.GreaterOrEqual(t, f.Depth, b.cfg.NearClip)
		assert.Equal(t, uint8(255), f.Color.A)
	}
}

func TestCellSideRules(t *testing.T) {
	tests := []struct {
		name      string
		h         float64
		neighbor  float64
		camZ      float64
		wantFaces int
		wantTop   bool
	}{
		{"low ledge has no sides", 0.2, 0, 50, 1, true},
		{"taller neighbor hides side", 2, 3, 50, 1, true},
		{"equal neighbor hides side", 2, 2, 50, 1, true},
		{"lower neighbor shows side", 3, 1, 50, 2, true},
		{"top above camera is skipped", 2, 0, 15, 1, false},
		{"void cell emits nothing", 0, 0, 50, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := terrain.New(5)
			g.Fill(2, 2, tc.h, terrain.MaterialFor(tc.h))
			g.Fill(2, 1, tc.neighbor, terrain.MaterialFor(tc.neighbor))
			b := newTestBuilder(g, southCamera(tc.camZ), 40)

			b.cell(2, 2, 0, 5)
			require.Len(t, b.faces, tc.wantFaces)
			if tc.wantFaces > 0 {
				assert.Equal(t, tc.wantTop, b.faces[0].Top)
			}
		})
	}
}

func TestSideOverLowerNeighborStopsAtNeighbor(t *testing.T) {
	g := terrain.New(5)
	g.Fill(2, 2, 3, terrain.MaterialLow)
	g.Fill(2, 1, 1, terrain.MaterialFloor)
	b := newTestBuilder(g, southCamera(50), 40)
	b.cell(2, 2, 0, 5)
	require.Len(t, b.faces, 2)

	side := b.faces[1]
	want := b.project(24, 24, 1)
	assert.InDelta(t, want.Y, side.Pts[3].Y, 1e-9)
}

func TestBoundaryEdges(t *testing.T) {
	g := terrain.New(5)
	for j := range 5 {
		for i := range 5 {
			g.Fill(i, j, 1, terrain.MaterialFloor)
		}
	}
	g.Fill(2, 2, 1.2, terrain.MaterialLow)
	g.Fill(3, 2, 0.8, terrain.MaterialFloor)
	g.Fill(2, 3, 0, terrain.MaterialFloor)
	b := newTestBuilder(g, southCamera(50), 40)

	assert.Equal(t, EdgeEast|EdgeNorth, b.boundary(2, 2, 1.2))
	assert.Equal(t, EdgeSouth, b.boundary(1, 0, 1))
}

func TestCellHash(t *testing.T) {
	assert.Equal(t, 0.0, cellHash(0, 0))
	for _, c := range [][2]int{{3, 7}, {-4, 9}, {1023, 1023}} {
		h := cellHash(c[0], c[1])
		assert.Equal(t, h, cellHash(c[0], c[1]))
		assert.GreaterOrEqual(t, h, 0.0)
		assert.LessOrEqual(t, h, 1.0)
	}
	assert.NotEqual(t, cellHash(3, 7), cellHash(7, 3))
}

func TestFogSaturates(t *testing.T) {
	c := rgb{200, 100, 50}
	assert.Equal(t, c, c.fog(topFog, 0, 100, 0.6))

	edge := c.fog(topFog, 100, 100, 0.6)
	assert.InDelta(t, 200+(20-200)*0.6, edge.r, 1e-9)
	assert.InDelta(t, 100+(30-100)*0.6, edge.g, 1e-9)
	assert.Equal(t, edge, c.fog(topFog, 400, 100, 0.6))

	mid := c.fog(topFog, 50, 100, 0.6)
	assert.Greater(t, mid.r, edge.r)
	assert.Less(t, mid.r, c.r)
}

func TestObjectsUseSyntheticOwners(t *testing.T) {
	g := terrain.New(8)
	for j := range 8 {
		for i := range 8 {
			g.Fill(i, j, 1, terrain.MaterialFloor)
		}
	}

	tests := []struct {
		name  string
		obj   Object
		faces int
		kind  FaceKind
	}{
		{"pickup", Object{Kind: ObjectPickup, X: 30, Y: 60}, 8, KindPickup},
		{"beacon", Object{Kind: ObjectBeacon, X: 30, Y: 60}, 6, KindBeacon},
		{"hostile", Object{Kind: ObjectHostile, X: 30, Y: 60, Z: 1}, 2, KindHostile},
		{"projectile", Object{Kind: ObjectProjectile, X: 30, Y: 60, Z: 1}, 2, KindProjectile},
		{"particle", Object{Kind: ObjectParticle, X: 30, Y: 60, Z: 1, Age: 0.5, Color: render.RGB(255, 0, 0)}, 1, KindParticle},
		{"expired particle", Object{Kind: ObjectParticle, X: 30, Y: 60, Age: 1}, 0, KindParticle},
		{"projectile at the lens", Object{Kind: ObjectProjectile, X: 30, Y: -29}, 0, KindProjectile},
		{"culled behind", Object{Kind: ObjectPickup, X: 30, Y: -200}, 0, KindPickup},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBuilder(g, southCamera(50), 40)
			b.object(1, &tc.obj)
			require.Len(t, b.faces, tc.faces)
			for _, f := range b.faces {
				assert.Equal(t, -3, f.I)
				assert.Equal(t, tc.kind, f.Kind)
				assert.GreaterOrEqual(t, f.Depth, b.cfg.NearClip)
			}
		})
	}
}

func TestHostileSidesPaintBeforeTop(t *testing.T) {
	g := terrain.New(8)
	b := newTestBuilder(g, southCamera(50), 40)
	b.object(0, &Object{Kind: ObjectHostile, X: 30, Y: 60})
	require.Len(t, b.faces, 2)

	c := NewCompositor(b.cfg)
	order := c.Sort(b.faces)
	assert.False(t, b.faces[order[0]].Top)
	assert.True(t, b.faces[order[1]].Top)
	assert.Zero(t, b.faces[0].J)
	assert.Zero(t, b.faces[1].J)
}

func TestParticleFadesWithAge(t *testing.T) {
	g := terrain.New(8)
	young := newTestBuilder(g, southCamera(50), 40)
	young.object(0, &Object{Kind: ObjectParticle, X: 30, Y: 60, Age: 0.1, Color: render.RGB(255, 255, 255)})
	old := newTestBuilder(g, southCamera(50), 40)
	old.object(0, &Object{Kind: ObjectParticle, X: 30, Y: 60, Age: 0.9, Color: render.RGB(255, 255, 255)})

	require.Len(t, young.faces, 1)
	require.Len(t, old.faces, 1)
	assert.Greater(t, young.faces[0].Color.A, old.faces[0].Color.A)
	assert.Equal(t, uint8(1), young.faces[0].N)
}

func TestFaceKindString(t *testing.T) {
	assert.Equal(t, "terrain", KindTerrain.String())
	assert.Equal(t, "particle", KindParticle.String())
	assert.Equal(t, "unknown", FaceKind(42).String())
}

func BenchmarkTerrainFaces(b *testing.B) {
	g := terrain.Generate(terrain.Options{Size: 256, Seed: "bench", VoidLevel: -0.18, WallLevel: 0.22, RoadEvery: 48, RoadWidth: 4})
	cfg := DefaultConfig()
	cam := ChaseCamera(Pose{X: 128 * 12, Y: 128 * 12, Z: 1, Yaw: 0.6}, &cfg)
	bld := newTestBuilder(g, cam, 80)
	for b.Loop() {
		bld.faces = bld.faces[:0]
		bld.culler.Walk(g, bld.camI, bld.camJ, cam.Cos, cam.Sin, bld.radius, bld.cell)
	}
}
