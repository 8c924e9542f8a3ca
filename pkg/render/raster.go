package render

import (
	"image/color"
	"math"

	"github.com/taigrr/voidrun/pkg/math3d"
)

// maxPolyEdges is the vertex count up to which FillPolygon tracks scanline
// crossings without allocating.
const maxPolyEdges = 32

// FillPolygon fills a simple or self-intersecting polygon with the even-odd
// rule, sampling at pixel centers. Colors with A < 255 are blended.
func (fb *Framebuffer) FillPolygon(pts []math3d.Vec2, c color.RGBA) {
	n := len(pts)
	if n < 3 || c.A == 0 {
		return
	}

	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	y0 := int(math.Max(0, math.Ceil(minY-0.5)))
	y1 := int(math.Min(float64(fb.Height), math.Ceil(maxY-0.5))) - 1

	var buf [maxPolyEdges]float64
	scratch := buf[:0]
	if n > maxPolyEdges {
		scratch = make([]float64, 0, n)
	}
	for y := y0; y <= y1; y++ {
		yc := float64(y) + 0.5
		xs := scratch[:0]
		for k := range n {
			a, b := pts[k], pts[(k+1)%n]
			if (a.Y <= yc && b.Y > yc) || (b.Y <= yc && a.Y > yc) {
				xs = append(xs, a.X+(yc-a.Y)/(b.Y-a.Y)*(b.X-a.X))
			}
		}
		sortFloats(xs)
		for k := 0; k+1 < len(xs); k += 2 {
			xa := int(math.Max(0, math.Ceil(xs[k]-0.5)))
			xb := int(math.Min(float64(fb.Width), math.Ceil(xs[k+1]-0.5))) - 1
			if xa <= xb {
				fb.span(y, xa, xb, c)
			}
		}
	}
}

// FillTriangle fills the triangle (a, b, c).
func (fb *Framebuffer) FillTriangle(a, b, c math3d.Vec2, col color.RGBA) {
	pts := [3]math3d.Vec2{a, b, c}
	fb.FillPolygon(pts[:], col)
}

// FillCircle fills a disc centered at (cx, cy). Discs smaller than a pixel
// still cover the pixel containing the center.
func (fb *Framebuffer) FillCircle(cx, cy, r float64, c color.RGBA) {
	if r <= 0 || c.A == 0 {
		return
	}
	if r < 0.75 {
		fb.BlendPixel(int(math.Floor(cx)), int(math.Floor(cy)), c)
		return
	}
	y0 := int(math.Max(0, math.Ceil(cy-r-0.5)))
	y1 := int(math.Min(float64(fb.Height), math.Ceil(cy+r-0.5))) - 1
	r2 := r * r
	for y := y0; y <= y1; y++ {
		dy := float64(y) + 0.5 - cy
		hw := r2 - dy*dy
		if hw < 0 {
			continue
		}
		hw = math.Sqrt(hw)
		xa := int(math.Max(0, math.Ceil(cx-hw-0.5)))
		xb := int(math.Min(float64(fb.Width), math.Ceil(cx+hw-0.5))) - 1
		if xa <= xb {
			fb.span(y, xa, xb, c)
		}
	}
}

// StrokeLine draws a blended one-pixel line between two float endpoints.
// The segment is clipped to the framebuffer first, so far-off endpoints
// cost no more than visible ones.
func (fb *Framebuffer) StrokeLine(x0, y0, x1, y1 float64, c color.RGBA) {
	var ok bool
	x0, y0, x1, y1, ok = clipSegment(x0, y0, x1, y1, float64(fb.Width-1), float64(fb.Height-1))
	if !ok {
		return
	}
	fb.DrawLine(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)), c)
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.BlendPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// clipSegment clips a segment to [0,maxX]×[0,maxY] (Liang–Barsky).
func clipSegment(x0, y0, x1, y1, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{{-dx, x0}, {dx, maxX - x0}, {-dy, y0}, {dy, maxY - y0}} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// sortFloats is an insertion sort; scanlines rarely cross more than four
// edges.
func sortFloats(xs []float64) {
	for i := 1; i < len(xs); i++ {
		v := xs[i]
		j := i - 1
		for j >= 0 && xs[j] > v {
			xs[j+1] = xs[j]
			j--
		}
		xs[j+1] = v
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
