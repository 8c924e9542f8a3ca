package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/voidrun/pkg/terrain"
)

func TestCullerRadiusBoundary(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCuller(&cfg)

	// Both offsets sit at squared distance 41² inside the 82-cell square.
	assert.False(t, c.Visible(40, 9, 1, 0, 40))
	assert.False(t, c.Visible(41, 0, 1, 0, 40))
	assert.True(t, c.Visible(40, 0, 1, 0, 40))
	assert.True(t, c.Visible(39, 8, 1, 0, 40))
}

func TestCullerBehindAndSides(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCuller(&cfg)

	tests := []struct {
		name   string
		di, dj int
		want   bool
	}{
		{"camera cell", 0, 0, true},
		{"one behind", -1, 0, true},
		{"two behind", -2, 0, false},
		{"beside within margin", 0, 8, true},
		{"beside past margin", 0, 9, false},
		{"inside wedge", 10, 20, true},
		{"outside wedge", 10, 21, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Visible(tc.di, tc.dj, 1, 0, 40))
		})
	}
}

func TestCullerCoversViewCone(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCuller(&cfg)
	p := NewProjector(640, 360, &cfg)
	halfTan := p.Width / 2 / p.FOV
	const radius = 40

	for _, yaw := range []float64{0, 0.4, math.Pi / 2, 2.5, -1.1, math.Pi} {
		cos, sin := math.Cos(yaw), math.Sin(yaw)
		visible, disk := 0, 0
		for dj := -radius; dj <= radius; dj++ {
			for di := -radius; di <= radius; di++ {
				if di*di+dj*dj > radius*radius {
					continue
				}
				disk++
				fwd := float64(di)*cos + float64(dj)*sin
				lat := -float64(di)*sin + float64(dj)*cos
				got := c.Visible(di, dj, cos, sin, radius)
				if fwd > 0 && math.Abs(lat) <= fwd*halfTan {
					require.True(t, got, "yaw %.2f: (%d,%d) on screen but culled", yaw, di, dj)
				}
				if got {
					visible++
				}
			}
		}
		frac := float64(visible) / float64(disk)
		assert.Greater(t, frac, 0.25, "yaw %.2f", yaw)
		assert.Less(t, frac, 0.5, "yaw %.2f", yaw)
	}
}

func TestWalkStaysInGrid(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCuller(&cfg)
	g := terrain.New(16)

	type visit struct{ i, j, di, dj int }
	var visits []visit
	n := c.Walk(g, 0, 0, 1, 0, 6, func(i, j, di, dj int) {
		visits = append(visits, visit{i, j, di, dj})
	})
	require.Equal(t, len(visits), n)
	require.NotEmpty(t, visits)

	want := 0
	for dj := 0; dj <= 6; dj++ {
		for di := 0; di <= 6; di++ {
			if c.Visible(di, dj, 1, 0, 6) {
				want++
			}
		}
	}
	assert.Equal(t, want, n)

	for k, v := range visits {
		assert.True(t, g.InBounds(v.i, v.j))
		assert.Equal(t, v.i, v.di)
		assert.Equal(t, v.j, v.dj)
		if k > 0 {
			prev := visits[k-1]
			assert.True(t, prev.dj < v.dj || (prev.dj == v.dj && prev.di < v.di), "visit order")
		}
	}
}

func BenchmarkWalk(b *testing.B) {
	cfg := DefaultConfig()
	c := NewCuller(&cfg)
	g := terrain.New(512)
	for b.Loop() {
		c.Walk(g, 256, 256, 0.8, 0.6, 120, func(int, int, int, int) {})
	}
}
