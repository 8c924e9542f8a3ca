package terrain

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/cespare/xxhash/v2"
)

// Options controls procedural grid generation.
type Options struct {
	Size      int     `yaml:"size"`       // Edge length in cells
	Seed      string  `yaml:"seed"`       // Any string; hashed into the noise seed
	VoidLevel float64 `yaml:"void_level"` // Base noise below this becomes void
	WallLevel float64 `yaml:"wall_level"` // Detail noise above this raises walls
	RoadEvery int     `yaml:"road_every"` // Spacing of the carved road lattice (0 disables)
	RoadWidth int     `yaml:"road_width"`
}

// DefaultOptions returns the generator settings used by the demo.
func DefaultOptions() Options {
	return Options{
		Size:      1024,
		Seed:      "voidrun",
		VoidLevel: -0.18,
		WallLevel: 0.22,
		RoadEvery: 48,
		RoadWidth: 4,
	}
}

// SeedValue hashes a seed string into a noise seed.
func SeedValue(seed string) int64 {
	return int64(xxhash.Sum64String(seed) & math.MaxInt64)
}

// Generate builds a grid from layered Perlin noise: a low-frequency layer
// decides floor versus void, a higher-frequency layer raises walls and
// towers, and a road lattice keeps the floor connected. The result is
// snapshotted so Reset returns to it.
func Generate(opts Options) *Grid {
	g := New(opts.Size)
	seed := SeedValue(opts.Seed)
	base := perlin.NewPerlin(2, 2, 3, seed)
	detail := perlin.NewPerlin(2, 2, 2, seed+1)

	for j := 0; j < g.size; j++ {
		for i := 0; i < g.size; i++ {
			n := base.Noise2D(float64(i)/96, float64(j)/96)
			if n < opts.VoidLevel {
				continue
			}
			h := 1.0
			d := detail.Noise2D(float64(i)/14, float64(j)/14)
			if d > opts.WallLevel {
				h = 2 + math.Min((d-opts.WallLevel)*40, 10)
				h = math.Round(h*2) / 2
			}
			g.Fill(i, j, h, MaterialFor(h))
		}
	}

	if opts.RoadEvery > 0 {
		carveRoads(g, opts.RoadEvery, max(opts.RoadWidth, 1))
	}

	c := g.size / 2
	for j := c - 4; j <= c+4; j++ {
		for i := c - 4; i <= c+4; i++ {
			g.Fill(i, j, 1, MaterialFloor)
		}
	}

	g.Snapshot()
	return g
}

func carveRoads(g *Grid, every, width int) {
	for k := every / 2; k < g.size; k += every {
		for w := 0; w < width; w++ {
			line := k + w - width/2
			for t := 0; t < g.size; t++ {
				g.Fill(line, t, 1, MaterialFloor)
				g.Fill(t, line, 1, MaterialFloor)
			}
		}
	}
}

// FindSpawn returns the floor cell nearest the grid center, searching
// outward ring by ring.
func FindSpawn(g *Grid) (i, j int, ok bool) {
	c := g.size / 2
	for r := 0; r <= g.size/2; r++ {
		for dj := -r; dj <= r; dj++ {
			for di := -r; di <= r; di++ {
				if max(abs(di), abs(dj)) != r {
					continue
				}
				h := g.Height(c+di, c+dj)
				if h > 0 && h <= FloorMax {
					return c + di, c + dj, true
				}
			}
		}
	}
	return 0, 0, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
