package scene

import (
	"github.com/taigrr/voidrun/pkg/render"
	"github.com/taigrr/voidrun/pkg/terrain"
)

// rgb is an unclamped color used while shading.
type rgb struct{ r, g, b float64 }

func (c rgb) rgba(a uint8) render.Color {
	return render.RGBA(render.Clamp8(c.r), render.Clamp8(c.g), render.Clamp8(c.b), a)
}

// fog blends c toward f by the squared normalized distance, capped at blend.
func (c rgb) fog(f rgb, dist2, radius2, blend float64) rgb {
	if radius2 <= 0 {
		return c
	}
	t := min(dist2/radius2, 1)
	k := t * t * blend
	return rgb{c.r + (f.r-c.r)*k, c.g + (f.g-c.g)*k, c.b + (f.b-c.b)*k}
}

// Palettes indexed by material, then checker parity (even cells first).
var (
	topRamp = [5][2]rgb{
		{{50, 175, 115}, {35, 148, 85}},
		{{110, 110, 175}, {92, 95, 145}},
		{{175, 148, 105}, {148, 125, 88}},
		{{185, 110, 105}, {160, 92, 88}},
		{{190, 60, 50}, {170, 45, 40}},
	}
	sideRamp = [5][2]rgb{
		{{30, 145, 65}, {25, 132, 72}},
		{{58, 58, 95}, {72, 50, 105}},
		{{108, 95, 58}, {92, 78, 45}},
		{{125, 58, 58}, {108, 45, 45}},
		{{140, 35, 30}, {120, 25, 25}},
	}

	topFog  = rgb{20, 30, 35}
	sideFog = rgb{15, 22, 28}
)

// Per-direction light offsets for side faces, light from the low-i/low-j
// corner.
const (
	lightSouth = 8
	lightNorth = -5
	lightWest  = 15
	lightEast  = -12
)

// channel weights for jitter and shading; the hazard ramp keeps more red.
type weights struct{ g, b float64 }

var (
	rampJitter  = weights{0.7, 0.5}
	rampShade   = weights{0.8, 0.6}
	spikeJitter = weights{0.4, 0.3}
	spikeShade  = weights{0.5, 0.3}
)

// cellHash is a stable 16-bit hash of a cell coordinate.
func cellHash(i, j int) float64 {
	h := (uint32(i) * 73856093) ^ (uint32(j) * 19349663)
	return float64(h&0xFFFF) / 0xFFFF
}

// rampIndex picks the palette row for a cell.
func rampIndex(m terrain.Material, h float64) int {
	if m == terrain.MaterialSpike {
		return int(terrain.MaterialSpike)
	}
	return int(terrain.MaterialFor(h))
}

func parity(i, j int) int {
	return (i + j) & 1
}

// tint applies jitter and a light term to a base color.
func tint(base rgb, vary, light float64, spike bool) rgb {
	jw, sw := rampJitter, rampShade
	if spike {
		jw, sw = spikeJitter, spikeShade
	}
	return rgb{
		base.r + vary + light,
		base.g + vary*jw.g + light*sw.g,
		base.b + vary*jw.b + light*sw.b,
	}
}

// slopeShade approximates light from the low-i/low-j corner using the
// elevation gradient across the four neighbors. Off-grid neighbors count as
// level with the cell.
func slopeShade(g *terrain.Grid, i, j int, h float64) float64 {
	loI, hiI := g.HeightOr(i-1, j, h), g.HeightOr(i+1, j, h)
	loJ, hiJ := g.HeightOr(i, j-1, h), g.HeightOr(i, j+1, h)
	return ((loI-hiI)*0.5 + (loJ-hiJ)*0.5) * 12
}
