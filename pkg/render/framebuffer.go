// Package render provides the raster surface the scene is painted on:
// polygon, disc and line fills with alpha blending, nearest-neighbor
// scaling and terminal output.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// Framebuffer is a 2D array of pixels that can be rendered to the terminal.
// It is backed by an image.RGBA so it can be handed to image/draw style
// scalers without copying.
type Framebuffer struct {
	Width  int // Width in pixels
	Height int // Height in pixels
	img    *image.RGBA
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
// Dimensions below 1 are raised to 1.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 1), max(height, 1)
	return &Framebuffer{
		Width:  width,
		Height: height,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// Resize changes the dimensions, reusing the pixel buffer when it is large
// enough. Pixel contents are undefined afterwards.
func (fb *Framebuffer) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if width == fb.Width && height == fb.Height {
		return
	}
	n := width * height * 4
	pix := fb.img.Pix
	if cap(pix) < n {
		pix = make([]uint8, n)
	}
	fb.img = &image.RGBA{Pix: pix[:n], Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
	fb.Width, fb.Height = width, height
}

// Image returns the backing image. It aliases the framebuffer pixels.
func (fb *Framebuffer) Image() *image.RGBA {
	return fb.img
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	pix := fb.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	i := y*fb.img.Stride + x*4
	fb.img.Pix[i], fb.img.Pix[i+1], fb.img.Pix[i+2], fb.img.Pix[i+3] = c.R, c.G, c.B, 255
}

// BlendPixel composites c over the pixel at (x, y) using c.A as coverage.
func (fb *Framebuffer) BlendPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.blend(y*fb.img.Stride+x*4, c)
}

func (fb *Framebuffer) blend(i int, c color.RGBA) {
	p := fb.img.Pix[i : i+4 : i+4]
	if c.A == 255 {
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, 255
		return
	}
	a := uint32(c.A)
	na := 255 - a
	p[0] = uint8((uint32(c.R)*a + uint32(p[0])*na + 127) / 255)
	p[1] = uint8((uint32(c.G)*a + uint32(p[1])*na + 127) / 255)
	p[2] = uint8((uint32(c.B)*a + uint32(p[2])*na + 127) / 255)
	p[3] = 255
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	i := y*fb.img.Stride + x*4
	p := fb.img.Pix[i : i+4 : i+4]
	return color.RGBA{p[0], p[1], p[2], p[3]}
}

// span blends c over the inclusive pixel run [x0, x1] on row y. The caller
// clamps to the framebuffer.
func (fb *Framebuffer) span(y, x0, x1 int, c color.RGBA) {
	row := y * fb.img.Stride
	for x := x0; x <= x1; x++ {
		fb.blend(row+x*4, c)
	}
}

// DrawRect draws a filled, blended rectangle.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c color.RGBA) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, fb.Width)-1, min(y+h, fb.Height)-1
	for py := y0; py <= y1; py++ {
		if x0 <= x1 {
			fb.span(py, x0, x1, c)
		}
	}
}

// DrawRectOutline draws a rectangle outline.
func (fb *Framebuffer) DrawRectOutline(x, y, w, h int, c color.RGBA) {
	for px := x; px < x+w; px++ {
		fb.BlendPixel(px, y, c)
		fb.BlendPixel(px, y+h-1, c)
	}
	for py := y + 1; py < y+h-1; py++ {
		fb.BlendPixel(x, py, c)
		fb.BlendPixel(x+w-1, py, c)
	}
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, fb.img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
