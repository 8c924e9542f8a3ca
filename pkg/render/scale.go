package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// ScaleTo copies fb onto dst, stretched with nearest-neighbor sampling so
// low-resolution frames stay crisp.
func (fb *Framebuffer) ScaleTo(dst *Framebuffer) {
	xdraw.NearestNeighbor.Scale(dst.img, dst.img.Bounds(), fb.img, fb.img.Bounds(), xdraw.Src, nil)
}

// Composite draws src into rect with nearest-neighbor sampling, blended over
// the existing pixels at the given opacity.
func (fb *Framebuffer) Composite(src image.Image, rect image.Rectangle, alpha uint8) {
	var opts *xdraw.Options
	if alpha < 255 {
		opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha{A: alpha})}
	}
	xdraw.NearestNeighbor.Scale(fb.img, rect, src, src.Bounds(), xdraw.Over, opts)
}
