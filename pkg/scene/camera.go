package scene

import (
	"math"

	"github.com/taigrr/voidrun/pkg/math3d"
)

// Pose is the tracked entity the camera trails. X and Y are world units,
// Z is elevation in grid units.
type Pose struct {
	X, Y, Z float64
	Yaw     float64
}

// Camera is a fixed-pitch chase camera. Cos and Sin cache the yaw basis.
type Camera struct {
	Pos      math3d.Vec3
	Yaw      float64
	Cos, Sin float64
}

// NewCamera builds a camera at pos (Z in world units) looking along yaw.
func NewCamera(pos math3d.Vec3, yaw float64) Camera {
	s, c := math.Sincos(yaw)
	return Camera{Pos: pos, Yaw: yaw, Cos: c, Sin: s}
}

// ChaseCamera places the camera CameraDistance behind the pose and
// CameraHeight above it.
func ChaseCamera(p Pose, cfg *Config) Camera {
	s, c := math.Sincos(p.Yaw)
	return Camera{
		Pos: math3d.V3(
			p.X-c*cfg.CameraDistance,
			p.Y-s*cfg.CameraDistance,
			p.Z*cfg.HeightScale+cfg.CameraHeight,
		),
		Yaw: p.Yaw,
		Cos: c,
		Sin: s,
	}
}

// Cell returns the grid cell containing the camera.
func (c *Camera) Cell(tileSize float64) (i, j int) {
	return int(math.Floor(c.Pos.X / tileSize)), int(math.Floor(c.Pos.Y / tileSize))
}

// Forward returns the ground-plane view direction.
func (c *Camera) Forward() math3d.Vec2 {
	return math3d.V2(c.Cos, c.Sin)
}
