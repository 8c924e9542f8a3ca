package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taigrr/voidrun/pkg/math3d"
)

func TestChaseCamera(t *testing.T) {
	cfg := DefaultConfig()

	cam := ChaseCamera(Pose{X: 100, Y: 50, Z: 2}, &cfg)
	assert.InDelta(t, 40, cam.Pos.X, 1e-9)
	assert.InDelta(t, 50, cam.Pos.Y, 1e-9)
	assert.InDelta(t, 45, cam.Pos.Z, 1e-9)
	i, j := cam.Cell(cfg.TileSize)
	assert.Equal(t, 3, i)
	assert.Equal(t, 4, j)

	cam = ChaseCamera(Pose{X: 100, Y: 50, Yaw: math.Pi / 2}, &cfg)
	assert.InDelta(t, 100, cam.Pos.X, 1e-9)
	assert.InDelta(t, -10, cam.Pos.Y, 1e-9)
	i, j = cam.Cell(cfg.TileSize)
	assert.Equal(t, 8, i)
	assert.Equal(t, -1, j)
	assert.InDelta(t, 1, cam.Forward().Y, 1e-9)
}

func TestNewProjector(t *testing.T) {
	cfg := DefaultConfig()
	p := NewProjector(640, 360, &cfg)
	assert.Equal(t, 126.0, p.Horizon)
	assert.Equal(t, 300.0, p.FOV)

	small := NewProjector(64, 36, &cfg)
	assert.Equal(t, 13.0, small.Horizon)
	assert.Equal(t, 30.0, small.FOV)
}

func TestProjectPointAheadOfCamera(t *testing.T) {
	cfg := DefaultConfig()
	p := NewProjector(640, 360, &cfg)
	cam := NewCamera(math3d.V3(0, 0, 0), 0)

	pt := p.Project(&cam, 10, 0, 1)
	assert.InDelta(t, 10, pt.Depth, 1e-9)
	assert.InDelta(t, 10, pt.RawDepth, 1e-9)
	assert.InDelta(t, 320, pt.X, 1e-9)
	assert.Less(t, pt.Y, p.Horizon, "elevated point should sit above the horizon")
}

func TestProjectConvergesToHorizon(t *testing.T) {
	cfg := DefaultConfig()
	p := NewProjector(640, 360, &cfg)

	tests := []struct {
		name  string
		camZ  float64
		below bool
	}{
		{"ground below camera", 25, true},
		{"wall above camera", -40, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cam := NewCamera(math3d.V3(0, 0, tc.camZ), 0.3)
			prev := p.Project(&cam, cam.Cos*2, cam.Sin*2, 0)
			for d := 3.0; d < 5000; d *= 1.5 {
				pt := p.Project(&cam, cam.Cos*d, cam.Sin*d, 0)
				if tc.below {
					assert.Greater(t, pt.Y, p.Horizon)
					assert.Less(t, pt.Y, prev.Y)
				} else {
					assert.Less(t, pt.Y, p.Horizon)
					assert.Greater(t, pt.Y, prev.Y)
				}
				assert.InDelta(t, 320, pt.X, 1e-6)
				prev = pt
			}
		})
	}
}

func TestProjectBehindCameraIsClamped(t *testing.T) {
	cfg := DefaultConfig()
	p := NewProjector(640, 360, &cfg)
	cam := NewCamera(math3d.V3(50, 50, 25), math.Pi)

	for _, off := range []math3d.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 1e6, Y: 3}, {X: 0.5, Y: -20}} {
		pt := p.Project(&cam, 50+off.X, 50+off.Y, 0)
		assert.LessOrEqual(t, pt.RawDepth, 0.0)
		assert.Equal(t, cfg.NearClip, pt.Depth)
		assert.False(t, math.IsNaN(pt.X) || math.IsInf(pt.X, 0))
		assert.False(t, math.IsNaN(pt.Y) || math.IsInf(pt.Y, 0))
	}
}

func BenchmarkProject(b *testing.B) {
	cfg := DefaultConfig()
	p := NewProjector(640, 360, &cfg)
	cam := NewCamera(math3d.V3(0, 0, 25), 0.7)
	for b.Loop() {
		_ = p.Project(&cam, 120, 80, 2)
	}
}
