package scene

import (
	"math"

	"github.com/taigrr/voidrun/pkg/terrain"
)

// Culler is an approximate frustum test over cell offsets from the camera
// cell. It errs on the side of including cells so edge tiles do not pop.
type Culler struct {
	Slope  float64 // Lateral growth per forward cell (tan of the half-FOV)
	Margin float64 // Lateral slack in cells
	Behind float64 // Cells behind the camera plane still accepted
}

// NewCuller builds a culler from the pipeline config.
func NewCuller(cfg *Config) Culler {
	return Culler{Slope: cfg.FOVSlope, Margin: cfg.FOVMargin, Behind: cfg.BehindMargin}
}

// Visible reports whether the cell offset (di, dj) survives the radius,
// behind-camera and field-of-view tests, in that order.
func (c Culler) Visible(di, dj int, cos, sin float64, radius int) bool {
	if di*di+dj*dj > radius*radius {
		return false
	}
	fdi, fdj := float64(di), float64(dj)
	fwd := fdi*cos + fdj*sin
	if fwd < -c.Behind {
		return false
	}
	lat := math.Abs(-fdi*sin + fdj*cos)
	return lat <= fwd*c.Slope+c.Margin
}

// Walk calls fn for every in-grid cell visible from the camera cell
// (ci, cj), row by row over the offset square. It returns the number of
// cells visited. Void cells are included; the caller decides what to emit.
func (c Culler) Walk(g *terrain.Grid, ci, cj int, cos, sin float64, radius int, fn func(i, j, di, dj int)) int {
	n := 0
	for dj := -radius; dj <= radius; dj++ {
		j := cj + dj
		if j < 0 || j >= g.Size() {
			continue
		}
		for di := -radius; di <= radius; di++ {
			i := ci + di
			if i < 0 || i >= g.Size() {
				continue
			}
			if !c.Visible(di, dj, cos, sin, radius) {
				continue
			}
			fn(i, j, di, dj)
			n++
		}
	}
	return n
}
