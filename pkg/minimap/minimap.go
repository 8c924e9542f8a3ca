// Package minimap keeps a top-down texture of the grid that is patched
// incrementally as cells change and published once per frame.
package minimap

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/voidrun/pkg/render"
	"github.com/taigrr/voidrun/pkg/terrain"
)

// DefaultSize is the texture edge in pixels.
const DefaultSize = 512

// Palette entries by elevation class.
var (
	colorVoid  = hex("#0f1914")
	colorSpike = hex("#b43228")
	colorFloor = hex("#328c5a")
	colorLow   = hex("#5a5a8c")
	colorMid   = hex("#96785a")
	colorHigh  = hex("#aa6464")
)

func hex(s string) color.RGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}
}

// ColorFor returns the texture color for a pixel whose tallest cell is h.
// The spike material overrides the elevation ramp.
func ColorFor(h float64, m terrain.Material) color.RGBA {
	switch {
	case h <= 0:
		return colorVoid
	case m == terrain.MaterialSpike:
		return colorSpike
	case h <= terrain.FloorMax:
		return colorFloor
	case h <= terrain.LowMax:
		return colorLow
	case h <= terrain.MidMax:
		return colorMid
	default:
		return colorHigh
	}
}

// Minimap maps cell (i, j) to texture x, y. Patches write the back buffer;
// Flush publishes it to the front buffer that Draw reads.
type Minimap struct {
	grid  *terrain.Grid
	size  int
	back  *image.RGBA
	front *image.RGBA
	start []uint8
	dirty bool

	// Alpha is the opacity Draw composites with.
	Alpha uint8
}

// New renders the whole grid into a size×size texture and records it as
// the startup snapshot.
func New(grid *terrain.Grid, size int) *Minimap {
	size = max(size, 1)
	m := &Minimap{
		grid:  grid,
		size:  size,
		back:  image.NewRGBA(image.Rect(0, 0, size, size)),
		front: image.NewRGBA(image.Rect(0, 0, size, size)),
		Alpha: render.Alpha8(0.55),
	}
	n := grid.Size() - 1
	m.PatchRegion(0, 0, n, n)
	copy(m.front.Pix, m.back.Pix)
	m.start = append([]uint8(nil), m.back.Pix...)
	m.dirty = false
	return m
}

// Size returns the texture edge in pixels.
func (m *Minimap) Size() int {
	return m.size
}

// Image returns the published texture.
func (m *Minimap) Image() *image.RGBA {
	return m.front
}

// Dirty reports whether patches are waiting for Flush.
func (m *Minimap) Dirty() bool {
	return m.dirty
}

// pixelSpan returns the inclusive pixel range covering cells [c0, c1].
func (m *Minimap) pixelSpan(c0, c1 int) (int, int) {
	n := float64(m.grid.Size())
	s := float64(m.size)
	p0 := int(math.Floor(float64(c0) * s / n))
	p1 := int(math.Ceil(float64(c1+1)*s/n)) - 1
	return max(p0, 0), min(max(p1, p0), m.size-1)
}

// cellSpan returns the inclusive cell range under pixel p.
func (m *Minimap) cellSpan(p int) (int, int) {
	n := float64(m.grid.Size())
	s := float64(m.size)
	c0 := int(math.Floor(float64(p) * n / s))
	c1 := int(math.Ceil(float64(p+1)*n/s)) - 1
	return c0, min(max(c1, c0), m.grid.Size()-1)
}

// PatchRegion recomputes every pixel covering the inclusive cell range.
// Out-of-grid parts of the range are ignored.
func (m *Minimap) PatchRegion(i0, j0, i1, j1 int) {
	last := m.grid.Size() - 1
	i0, i1 = max(min(i0, i1), 0), min(max(i0, i1), last)
	j0, j1 = max(min(j0, j1), 0), min(max(j0, j1), last)
	if i0 > i1 || j0 > j1 {
		return
	}
	x0, x1 := m.pixelSpan(i0, i1)
	y0, y1 := m.pixelSpan(j0, j1)
	for y := y0; y <= y1; y++ {
		cj0, cj1 := m.cellSpan(y)
		for x := x0; x <= x1; x++ {
			ci0, ci1 := m.cellSpan(x)
			m.back.SetRGBA(x, y, m.sample(ci0, cj0, ci1, cj1))
		}
	}
	m.dirty = true
}

// sample colors a block by its tallest cell. Any standing spike in the
// block takes the hazard color.
func (m *Minimap) sample(i0, j0, i1, j1 int) color.RGBA {
	best, mat := 0.0, terrain.MaterialFloor
	for j := j0; j <= j1; j++ {
		for i := i0; i <= i1; i++ {
			h := m.grid.Height(i, j)
			if h > best {
				best = h
			}
			if h > 0 && m.grid.Material(i, j) == terrain.MaterialSpike {
				mat = terrain.MaterialSpike
			}
		}
	}
	if mat != terrain.MaterialSpike {
		mat = terrain.MaterialFor(best)
	}
	return ColorFor(best, mat)
}

// PatchCell patches the pixels of a single cell.
func (m *Minimap) PatchCell(i, j int) {
	m.PatchRegion(i, j, i, j)
}

// Apply patches every changed cell.
func (m *Minimap) Apply(changes []terrain.CellChange) {
	for _, c := range changes {
		m.PatchCell(c.I, c.J)
	}
}

// Flush publishes pending patches. It reports whether anything was copied.
func (m *Minimap) Flush() bool {
	if !m.dirty {
		return false
	}
	copy(m.front.Pix, m.back.Pix)
	m.dirty = false
	return true
}

// Reset restores both buffers to the startup snapshot.
func (m *Minimap) Reset() {
	copy(m.back.Pix, m.start)
	copy(m.front.Pix, m.start)
	m.dirty = false
}

// Draw composites the published texture into rect and marks the tracked
// entity at cell coordinates (ci, cj).
func (m *Minimap) Draw(dst *render.Framebuffer, rect image.Rectangle, ci, cj float64, marker color.RGBA) {
	if rect.Empty() {
		return
	}
	dst.Composite(m.front, rect, m.Alpha)
	dst.DrawRectOutline(rect.Min.X-1, rect.Min.Y-1, rect.Dx()+2, rect.Dy()+2, render.RGBA(120, 160, 150, 160))

	n := float64(m.grid.Size())
	x := float64(rect.Min.X) + ci/n*float64(rect.Dx())
	y := float64(rect.Min.Y) + cj/n*float64(rect.Dy())
	r := math.Max(1, float64(rect.Dx())/60)
	dst.FillCircle(x, y, r, marker)
}
