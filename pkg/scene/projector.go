package scene

import (
	"math"

	"github.com/taigrr/voidrun/pkg/math3d"
)

// Point is a projected world point. Depth is clamped to the near plane;
// RawDepth is the signed distance along the view direction and is what
// "in front of the camera" tests should use.
type Point struct {
	X, Y     float64
	Depth    float64
	RawDepth float64
}

// XY returns the screen position.
func (p Point) XY() math3d.Vec2 {
	return math3d.V2(p.X, p.Y)
}

// Projector maps world points onto a surface of a given size.
type Projector struct {
	Width, Height float64
	Horizon       float64
	FOV           float64
	HeightScale   float64
	NearClip      float64
}

// NewProjector builds a projector for a w×h surface.
func NewProjector(w, h int, cfg *Config) Projector {
	return Projector{
		Width:       float64(w),
		Height:      float64(h),
		Horizon:     math.Round(float64(h) * cfg.HorizonRatio),
		FOV:         cfg.ReferenceFOV * float64(w) / cfg.ReferenceWidth,
		HeightScale: cfg.HeightScale,
		NearClip:    cfg.NearClip,
	}
}

// Project maps (wx, wy) in world units and wz in elevation units to the
// surface.
func (p *Projector) Project(cam *Camera, wx, wy, wz float64) Point {
	dx := wx - cam.Pos.X
	dy := wy - cam.Pos.Y
	raw := dx*cam.Cos + dy*cam.Sin
	depth := math.Max(raw, p.NearClip)
	lateral := -dx*cam.Sin + dy*cam.Cos
	return Point{
		X:        p.Width/2 + lateral/depth*p.FOV,
		Y:        p.Horizon + (cam.Pos.Z-wz*p.HeightScale)/depth*p.FOV,
		Depth:    depth,
		RawDepth: raw,
	}
}
